package peakpie

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/tsv"
	"github.com/grailbio/bedchart/interval"
)

// Buckets maps a bucket name to the set of distinct peaks counted in it.
// Peaks are identified by their original BED line.
type Buckets map[string]map[string]struct{}

func (b Buckets) add(bucket, peak string) {
	peaks := b[bucket]
	if peaks == nil {
		peaks = make(map[string]struct{})
		b[bucket] = peaks
	}
	peaks[peak] = struct{}{}
}

// Classify assigns the query feature of every overlap record to
// f.Bucket(record type).  records must come from interval.IntersectAll, so
// that peaks without any overlap are still present and end up Unannotated.
// A peak overlapping several featuretypes is counted once in each of their
// buckets.
func Classify(records []interval.Overlap, f Filter) Buckets {
	b := Buckets{}
	for _, r := range records {
		b.add(f.Bucket(r.Type()), r.A.Line())
	}
	return b
}

// Slice is one bucket's share of the pie.
type Slice struct {
	Label string
	// Count is the number of distinct peaks in the bucket.
	Count int
	// Percent is Count as a percentage of the total over all buckets.
	Percent float64
}

// ChartLabel returns the label drawn next to the slice, e.g.
// "CDS: 12 (34.3%)".
func (s Slice) ChartLabel() string {
	return fmt.Sprintf("%s: %d (%.1f%%)", s.Label, s.Count, s.Percent)
}

// All returns one Slice per bucket in increasing order of count (ties by
// label).  Percentages are relative to the sum of all counts, which exceeds
// the number of peaks when peaks are counted in several buckets.
func (b Buckets) All() []Slice {
	slices := make([]Slice, 0, len(b))
	total := 0
	for label, peaks := range b {
		slices = append(slices, Slice{Label: label, Count: len(peaks)})
		total += len(peaks)
	}
	sort.Slice(slices, func(i, j int) bool {
		if slices[i].Count != slices[j].Count {
			return slices[i].Count < slices[j].Count
		}
		return slices[i].Label < slices[j].Label
	})
	for i := range slices {
		slices[i].Percent = float64(slices[i].Count) / float64(total) * 100
	}
	return slices
}

// Slices returns the subset of All() whose percentage strictly exceeds
// thresh, in the same order.
func (b Buckets) Slices(thresh float64) []Slice {
	all := b.All()
	kept := all[:0]
	for _, s := range all {
		if s.Percent > thresh {
			kept = append(kept, s)
		}
	}
	return kept
}

// WriteTable writes every bucket (regardless of threshold) to path as a TSV
// with a featuretype/peaks/percent header.
func (b Buckets) WriteTable(ctx context.Context, path string) (err error) {
	out, err := file.Create(ctx, path)
	if err != nil {
		return errors.E(err, "create", path)
	}
	defer file.CloseAndReport(ctx, out, &err)
	w := tsv.NewWriter(out.Writer(ctx))
	w.WriteString("featuretype")
	w.WriteString("peaks")
	w.WriteString("percent")
	if err = w.EndLine(); err != nil {
		return err
	}
	for _, s := range b.All() {
		w.WriteString(s.Label)
		w.WriteInt64(int64(s.Count))
		w.WriteString(strconv.FormatFloat(s.Percent, 'f', 2, 64))
		if err = w.EndLine(); err != nil {
			return err
		}
	}
	return w.Flush()
}
