package interval

import (
	itree "github.com/biogo/store/interval"
	"github.com/pkg/errors"
)

// node is the tree payload for one indexed feature; id is the feature's
// position in Index.features.
type node struct {
	start, end int
	id         uintptr
}

func (n node) Overlap(b itree.IntRange) bool {
	// Half-open on both sides.
	return n.end > b.Start && n.start < b.End
}
func (n node) ID() uintptr           { return n.id }
func (n node) Range() itree.IntRange { return itree.IntRange{Start: n.start, End: n.end} }

type query struct {
	start, end int
}

func (q query) Overlap(b itree.IntRange) bool {
	return q.end > b.Start && q.start < b.End
}

// Index supports overlap queries against a fixed set of features.  It is not
// safe for concurrent use while being built, but queries may run
// concurrently afterwards.
type Index struct {
	features []Feature
	trees    map[string]*itree.IntTree
}

// NewIndex builds an Index over features, which must all be Valid.
func NewIndex(features []Feature) (*Index, error) {
	idx := &Index{
		features: features,
		trees:    make(map[string]*itree.IntTree),
	}
	for i, f := range features {
		if !f.Valid() {
			return nil, errors.Errorf("interval.NewIndex: invalid feature %s:%d-%d", f.Chrom, f.Start, f.End)
		}
		tree := idx.trees[f.Chrom]
		if tree == nil {
			tree = &itree.IntTree{}
			idx.trees[f.Chrom] = tree
		}
		if err := tree.Insert(node{start: f.Start, end: f.End, id: uintptr(i)}, true); err != nil {
			return nil, errors.Wrapf(err, "interval.NewIndex: %s:%d-%d", f.Chrom, f.Start, f.End)
		}
	}
	for _, tree := range idx.trees {
		tree.AdjustRanges()
	}
	return idx, nil
}

// Len returns the number of indexed features.
func (idx *Index) Len() int {
	return len(idx.features)
}

// Overlapping returns the indexed features sharing at least one base with f,
// in increasing start order.  If stranded is set, only features on the same
// strand as f are returned.
func (idx *Index) Overlapping(f Feature, stranded bool) []Feature {
	var hits []Feature
	idx.do(f, stranded, func(b *Feature) bool {
		hits = append(hits, *b)
		return false
	})
	return hits
}

// Overlaps returns whether any indexed feature shares a base with f.
func (idx *Index) Overlaps(f Feature, stranded bool) bool {
	found := false
	idx.do(f, stranded, func(*Feature) bool {
		found = true
		return true
	})
	return found
}

// do calls fn on each match until fn returns true.
func (idx *Index) do(f Feature, stranded bool, fn func(b *Feature) bool) {
	tree := idx.trees[f.Chrom]
	if tree == nil {
		return
	}
	tree.DoMatching(func(iv itree.IntInterface) bool {
		b := &idx.features[iv.ID()]
		if stranded && b.Strand != f.Strand {
			return false
		}
		return fn(b)
	}, query{start: f.Start, end: f.End})
}
