package interval

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/grailbio/base/fileio"
)

// Format is an interval file format.
type Format int

const (
	// BED is the default format for any path without a GFF/GTF extension.
	BED Format = iota
	// GFF covers GFF2, GFF3 and GTF.
	GFF
)

func (f Format) String() string {
	if f == GFF {
		return "gff"
	}
	return "bed"
}

// FormatOf guesses the format of path from its extension.  A trailing
// compression suffix such as ".gz" is ignored, so "genes.gtf.gz" is GFF.
func FormatOf(path string) Format {
	name := strings.ToLower(path)
	if fileio.DetermineType(name) == fileio.Gzip {
		name = strings.TrimSuffix(name, filepath.Ext(name))
	}
	switch filepath.Ext(name) {
	case ".gff", ".gff3", ".gtf":
		return GFF
	}
	return BED
}

// Read loads path with ReadGFF or ReadBED, depending on FormatOf(path).
func Read(ctx context.Context, path string) ([]Feature, error) {
	if FormatOf(path) == GFF {
		return ReadGFF(ctx, path)
	}
	return ReadBED(ctx, path)
}
