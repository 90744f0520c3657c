// Package exampledata bundles the small interval files used by the --test
// mode of the bedchart commands.
//
//   gdc.bed, gdc.gff     peaks and a two-gene annotation for bio-peak-pie
//   venn_{a,b,c}.bed     three partially overlapping sets for bio-venn-gchart
package exampledata

import (
	"bytes"
	"embed"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/bedchart/interval"
)

//go:embed *.bed *.gff
var files embed.FS

func read(name string) ([]byte, error) {
	data, err := files.ReadFile(name)
	if err != nil {
		return nil, errors.E(errors.NotExist, err, "exampledata", name)
	}
	return data, nil
}

// BED parses the named bundled BED file.
func BED(name string) ([]interval.Feature, error) {
	data, err := read(name)
	if err != nil {
		return nil, err
	}
	return interval.ParseBED(bytes.NewReader(data))
}

// GFF parses the named bundled GFF file.
func GFF(name string) ([]interval.Feature, error) {
	data, err := read(name)
	if err != nil {
		return nil, err
	}
	return interval.ParseGFF(bytes.NewReader(data))
}

// Venn returns the three bundled Venn input sets, in a, b, c order.
func Venn() (sets [3][]interval.Feature, err error) {
	for i, name := range []string{"venn_a.bed", "venn_b.bed", "venn_c.bed"} {
		if sets[i], err = BED(name); err != nil {
			return sets, err
		}
	}
	return sets, nil
}
