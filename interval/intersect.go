package interval

// NoType is the featuretype reported for a feature with no overlap.
const NoType = "."

// Overlap is one record of a write-all-overlaps intersection: a feature of
// the query set, and one feature of the indexed set it overlaps (nil when it
// overlaps nothing).
type Overlap struct {
	A Feature
	B *Feature
}

// Type returns the featuretype of the overlapped feature, or NoType.
func (o Overlap) Type() string {
	if o.B == nil || o.B.Type == "" {
		return NoType
	}
	return o.B.Type
}

// IntersectAll reports every (a, b) overlap pair with a drawn from a and b
// from idx.  Features of a that overlap nothing are reported once, with a nil
// B, so that every element of a appears at least once in the result.
func IntersectAll(a []Feature, idx *Index, stranded bool) []Overlap {
	out := make([]Overlap, 0, len(a))
	for _, f := range a {
		n := len(out)
		idx.do(f, stranded, func(b *Feature) bool {
			out = append(out, Overlap{A: f, B: b})
			return false
		})
		if len(out) == n {
			out = append(out, Overlap{A: f})
		}
	}
	return out
}

// FilterOverlapping returns the features of a that overlap at least one
// feature of idx, unstranded.  Each feature of a is reported at most once.
func FilterOverlapping(a []Feature, idx *Index) []Feature {
	var out []Feature
	for _, f := range a {
		if idx.Overlaps(f, false) {
			out = append(out, f)
		}
	}
	return out
}

// CountOverlapping returns len(FilterOverlapping(a, idx)) without building
// the slice.
func CountOverlapping(a []Feature, idx *Index) int {
	n := 0
	for _, f := range a {
		if idx.Overlaps(f, false) {
			n++
		}
	}
	return n
}

// UnionCount returns the number of distinct intervals, by Key, across all of
// the given sets.
func UnionCount(sets ...[]Feature) int {
	seen := make(map[string]struct{})
	for _, set := range sets {
		for _, f := range set {
			seen[Key(f)] = struct{}{}
		}
	}
	return len(seen)
}
