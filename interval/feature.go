package interval

import (
	"strconv"
	"strings"
)

const (
	// StrandUnknown marks a feature with no strand ('.' or a missing column).
	StrandUnknown = '.'
	// StrandFwd marks a forward-strand feature.
	StrandFwd = '+'
	// StrandRev marks a reverse-strand feature.
	StrandRev = '-'
)

// Feature is a single interval record, with 0-based half-open coordinates.
type Feature struct {
	Chrom string
	Start int
	End   int
	// Strand is one of StrandUnknown, StrandFwd or StrandRev.
	Strand byte
	// Type is the GFF featuretype (column 3).  It is empty for BED records.
	Type string
	// Name is the BED name column, or empty.
	Name string
	// Fields holds the columns exactly as they appeared in the input.
	Fields []string
}

// Line returns the feature's original columns joined by tabs.  It identifies
// a record within one file.
func (f Feature) Line() string {
	return strings.Join(f.Fields, "\t")
}

// Len returns the number of bases covered.
func (f Feature) Len() int {
	return f.End - f.Start
}

// Valid returns whether the coordinates describe a real interval.
func (f Feature) Valid() bool {
	return f.Start >= 0 && f.End >= f.Start
}

// Key identifies the interval itself, ignoring strand and any extra columns.
// Two features with the same key are the same element of a set union.
func Key(f Feature) string {
	var b strings.Builder
	b.Grow(len(f.Chrom) + 24)
	b.WriteString(f.Chrom)
	b.WriteByte('\t')
	b.WriteString(strconv.Itoa(f.Start))
	b.WriteByte('\t')
	b.WriteString(strconv.Itoa(f.End))
	return b.String()
}

// RemoveInvalid returns the features with usable coordinates, preserving
// order.  Features with a negative start or an end before the start are
// dropped.
func RemoveInvalid(features []Feature) []Feature {
	out := make([]Feature, 0, len(features))
	for _, f := range features {
		if f.Valid() {
			out = append(out, f)
		}
	}
	return out
}

func parseStrand(s string) byte {
	switch s {
	case "+":
		return StrandFwd
	case "-":
		return StrandRev
	}
	return StrandUnknown
}
