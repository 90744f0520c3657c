// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package peakpie classifies peaks by the annotation featuretypes they
// overlap and charts the proportions as a pie.
//
// A peak is counted in every bucket it qualifies for, so the slices can add
// up to more than the number of peaks.
package peakpie

import (
	"context"
	"net/url"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/grailbio/bedchart/chart"
	"github.com/grailbio/bedchart/interval"
)

// Opts controls Make.
type Opts struct {
	// BEDPath holds the peaks.  A GFF/GTF path (see interval.FormatOf) is
	// also accepted.
	BEDPath string
	// GFFPath holds the featuretyped annotations.
	GFFPath string
	// Stranded restricts overlaps to annotations on the peak's strand.
	Stranded bool
	// Include, if nonempty, lists the only featuretypes that get their own
	// bucket.  Mutually exclusive with Exclude.
	Include []string
	// Exclude, if nonempty, lists featuretypes that are folded into the
	// unannotated bucket.
	Exclude []string
	// OutPath receives the chart bytes.
	OutPath string
	// Thresh is the percentage at or below which a slice is left out.
	Thresh float64
	// Size is the chart size in pixels, "WxH".
	Size string
	// TablePath, if set, receives a TSV of every bucket.
	TablePath string
}

// DefaultOpts are the default values of Opts.
var DefaultOpts = Opts{
	OutPath: "out.png",
	Size:    "750x350",
}

// TestFeatureTypes is the include-list used by the command's --test mode.
var TestFeatureTypes = []string{"CDS", "intron", "five_prime_UTR", "three_prime_UTR"}

// Make reads the peak and annotation files named in opts, and writes the pie
// chart produced by r to opts.OutPath.  Conflicting include and exclude
// lists are rejected before anything is read.
func Make(ctx context.Context, opts Opts, r chart.Requester) error {
	if _, err := NewFilter(opts.Include, opts.Exclude); err != nil {
		return err
	}
	peaks, err := interval.Read(ctx, opts.BEDPath)
	if err != nil {
		return err
	}
	peaks = interval.RemoveInvalid(peaks)
	annots, err := interval.ReadGFF(ctx, opts.GFFPath)
	if err != nil {
		return err
	}
	return MakeFromFeatures(ctx, peaks, annots, opts, r)
}

// MakeFromFeatures is Make for already-loaded peaks and annotations.
// opts.BEDPath and opts.GFFPath are ignored.
func MakeFromFeatures(ctx context.Context, peaks, annots []interval.Feature, opts Opts, r chart.Requester) error {
	filter, err := NewFilter(opts.Include, opts.Exclude)
	if err != nil {
		return err
	}
	buckets, err := ClassifyFeatures(peaks, annots, opts.Stranded, filter)
	if err != nil {
		return err
	}
	if opts.TablePath != "" {
		if err := buckets.WriteTable(ctx, opts.TablePath); err != nil {
			return err
		}
	}
	return chart.Deliver(ctx, r, PieForm(buckets.Slices(opts.Thresh), opts.Size), opts.OutPath)
}

// ClassifyFeatures intersects peaks with the valid annotations and buckets
// the result.  It fails if there are no peaks to classify.
func ClassifyFeatures(peaks, annots []interval.Feature, stranded bool, filter Filter) (Buckets, error) {
	if len(peaks) == 0 {
		return nil, errors.E(errors.Invalid, "no peaks to classify")
	}
	nAnnot := len(annots)
	annots = interval.RemoveInvalid(annots)
	if n := nAnnot - len(annots); n > 0 {
		log.Printf("peakpie: dropped %d invalid annotation(s)", n)
	}
	idx, err := interval.NewIndex(annots)
	if err != nil {
		return nil, err
	}
	log.Printf("peakpie: %d peaks, %d annotations, stranded=%v, filter=%v",
		len(peaks), idx.Len(), stranded, filter.Mode)
	buckets := Classify(interval.IntersectAll(peaks, idx, stranded), filter)
	for label, members := range buckets {
		log.Debug.Printf("peakpie: %s: %d", label, len(members))
	}
	return buckets, nil
}

// PieForm returns the chart request for slices.
func PieForm(slices []Slice, size string) url.Values {
	values := make([]float64, len(slices))
	labels := make([]string, len(slices))
	for i, s := range slices {
		values[i] = s.Percent
		labels[i] = s.ChartLabel()
	}
	return chart.PieForm(size, values, labels)
}
