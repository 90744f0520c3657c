// Package venn computes the seven region sizes of a three-set Venn diagram
// over interval files and charts them.
//
// The values assume unstranded intervals, and features nested inside larger
// features are not treated specially.
package venn

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/tsv"
	"github.com/grailbio/bedchart/chart"
	"github.com/grailbio/bedchart/interval"
)

// Mode selects how the pairwise and three-way values are computed.
type Mode int

const (
	// Union counts the distinct intervals (by interval.Key) in the union of the
	// sets.
	Union Mode = iota
	// Intersect counts records: each set's size is its number of features,
	// and a pairwise value is the number of features of the first set that
	// overlap the second (and, for three sets, the third).
	Intersect
)

func (m Mode) String() string {
	if m == Intersect {
		return "intersect"
	}
	return "union"
}

// Counts holds the seven raw values in chart order: A, B, C, AB, AC, BC,
// ABC.
type Counts [7]int

// Names labels each element of Counts.
var Names = [7]string{"a", "b", "c", "ab", "ac", "bc", "abc"}

// Compute returns the seven counts for sets a, b and c.
func Compute(a, b, c []interval.Feature, mode Mode) (Counts, error) {
	var counts Counts
	switch mode {
	case Union:
		counts[0] = interval.UnionCount(a)
		counts[1] = interval.UnionCount(b)
		counts[2] = interval.UnionCount(c)
		counts[3] = interval.UnionCount(a, b)
		counts[4] = interval.UnionCount(a, c)
		counts[5] = interval.UnionCount(b, c)
		counts[6] = interval.UnionCount(a, b, c)
	case Intersect:
		// Records, not distinct intervals: a duplicated row of a counts twice
		// both in |a| and in every overlap it takes part in.
		counts[0], counts[1], counts[2] = len(a), len(b), len(c)
		idxB, err := interval.NewIndex(b)
		if err != nil {
			return counts, err
		}
		idxC, err := interval.NewIndex(c)
		if err != nil {
			return counts, err
		}
		ab := interval.FilterOverlapping(a, idxB)
		counts[3] = len(ab)
		counts[4] = interval.CountOverlapping(a, idxC)
		counts[5] = interval.CountOverlapping(b, idxC)
		counts[6] = interval.CountOverlapping(ab, idxC)
	default:
		return counts, errors.E(errors.Invalid, fmt.Sprintf("venn: unknown mode %d", mode))
	}
	return counts, nil
}

// Normalize divides every count by the largest one.  The result is a set of
// fractions in [0, 1] whose maximum is exactly 1; they are not proportions of
// a whole.
func (c Counts) Normalize() ([7]float64, error) {
	largest := 0
	for _, n := range c {
		if n > largest {
			largest = n
		}
	}
	var norm [7]float64
	if largest == 0 {
		return norm, errors.E(errors.Invalid, "venn: all sets are empty")
	}
	for i, n := range c {
		norm[i] = float64(n) / float64(largest)
	}
	return norm, nil
}

// String formats the counts as "a=.. b=.. ...".
func (c Counts) String() string {
	parts := make([]string, len(c))
	for i, n := range c {
		parts[i] = fmt.Sprintf("%s=%d", Names[i], n)
	}
	return strings.Join(parts, " ")
}

// WriteTable writes the raw and normalized counts to path as a TSV.
func (c Counts) WriteTable(ctx context.Context, path string) (err error) {
	norm, err := c.Normalize()
	if err != nil {
		return err
	}
	out, err := file.Create(ctx, path)
	if err != nil {
		return errors.E(err, "create", path)
	}
	defer file.CloseAndReport(ctx, out, &err)
	w := tsv.NewWriter(out.Writer(ctx))
	w.WriteString("region")
	w.WriteString("count")
	w.WriteString("fraction")
	if err = w.EndLine(); err != nil {
		return err
	}
	for i, n := range c {
		w.WriteString(Names[i])
		w.WriteInt64(int64(n))
		w.WriteString(strconv.FormatFloat(norm[i], 'f', -1, 64))
		if err = w.EndLine(); err != nil {
			return err
		}
	}
	return w.Flush()
}

// Opts controls Make.
type Opts struct {
	// APath, BPath and CPath name the left, right and bottom circles.
	APath, BPath, CPath string
	// Colors optionally lists three hex colors, e.g. "FF0000".
	Colors []string
	// Labels optionally lists three legend labels.
	Labels []string
	// OutPath receives the chart bytes.
	OutPath string
	// Size is the chart size in pixels, "WxH".
	Size string
	// Mode picks union (the default) or overlap semantics for the pairwise
	// and three-way values.
	Mode Mode
	// TablePath, if set, receives a TSV of the counts.
	TablePath string
}

// DefaultOpts are the default values of Opts.
var DefaultOpts = Opts{
	OutPath: "out.png",
	Size:    "300x300",
}

// Make reads the three interval files named in opts and writes the Venn
// diagram produced by r to opts.OutPath.  Each file may be BED or GFF/GTF,
// see interval.Read.  Records with unusable coordinates are dropped.
func Make(ctx context.Context, opts Opts, r chart.Requester) error {
	var sets [3][]interval.Feature
	for i, path := range []string{opts.APath, opts.BPath, opts.CPath} {
		features, err := interval.Read(ctx, path)
		if err != nil {
			return err
		}
		sets[i] = interval.RemoveInvalid(features)
		if n := len(features) - len(sets[i]); n > 0 {
			log.Printf("venn: %s: dropped %d invalid record(s)", path, n)
		}
	}
	return MakeFromFeatures(ctx, sets, opts, r)
}

// MakeFromFeatures is Make for already-loaded sets, in a, b, c order.
func MakeFromFeatures(ctx context.Context, sets [3][]interval.Feature, opts Opts, r chart.Requester) error {
	counts, err := Compute(sets[0], sets[1], sets[2], opts.Mode)
	if err != nil {
		return err
	}
	log.Printf("venn: %s (%v)", counts, opts.Mode)
	norm, err := counts.Normalize()
	if err != nil {
		return err
	}
	if opts.TablePath != "" {
		if err := counts.WriteTable(ctx, opts.TablePath); err != nil {
			return err
		}
	}
	form := chart.VennForm(opts.Size, norm[:], opts.Labels, opts.Colors)
	return chart.Deliver(ctx, r, form, opts.OutPath)
}
