package peakpie

import (
	"github.com/grailbio/base/errors"
	"github.com/grailbio/bedchart/interval"
)

// Unannotated is the bucket for peaks that overlap no annotation, or only
// featuretypes that the filter leaves out.
const Unannotated = "unannotated"

// FilterMode selects how a Filter treats featuretypes.
type FilterMode int

const (
	// All buckets every featuretype under its own name.
	All FilterMode = iota
	// IncludeOnly buckets only the listed featuretypes; the rest are
	// Unannotated.
	IncludeOnly
	// ExcludeOnly buckets everything but the listed featuretypes, which are
	// Unannotated.
	ExcludeOnly
)

func (m FilterMode) String() string {
	switch m {
	case All:
		return "all"
	case IncludeOnly:
		return "include"
	case ExcludeOnly:
		return "exclude"
	}
	return "unknown"
}

// Filter maps an overlapped featuretype to the bucket a peak is counted in.
type Filter struct {
	Mode  FilterMode
	types map[string]struct{}
}

// NewFilter returns an IncludeOnly filter if include is nonempty, an
// ExcludeOnly filter if exclude is nonempty, and an All filter otherwise.
// Giving both is an error.
func NewFilter(include, exclude []string) (Filter, error) {
	switch {
	case len(include) > 0 && len(exclude) > 0:
		return Filter{}, errors.E(errors.Invalid, "cannot specify both include and exclude featuretypes")
	case len(include) > 0:
		return Filter{Mode: IncludeOnly, types: typeSet(include)}, nil
	case len(exclude) > 0:
		return Filter{Mode: ExcludeOnly, types: typeSet(exclude)}, nil
	}
	return Filter{Mode: All}, nil
}

func typeSet(types []string) map[string]struct{} {
	set := make(map[string]struct{}, len(types))
	for _, t := range types {
		set[t] = struct{}{}
	}
	return set
}

// Bucket returns the bucket for a peak overlapping featureType.
// interval.NoType always maps to Unannotated.
func (f Filter) Bucket(featureType string) string {
	if featureType == interval.NoType {
		return Unannotated
	}
	_, listed := f.types[featureType]
	switch f.Mode {
	case IncludeOnly:
		if !listed {
			return Unannotated
		}
	case ExcludeOnly:
		if listed {
			return Unannotated
		}
	}
	return featureType
}
