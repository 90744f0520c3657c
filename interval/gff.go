package interval

import (
	"bufio"
	"context"
	"io"
	"strconv"

	"github.com/grailbio/base/log"
	"github.com/grailbio/base/tsv"
	"github.com/pkg/errors"
)

// gffRecord is one line of a GFF/GTF file.  Coordinates are kept as strings
// so that malformed records can be carried through to RemoveInvalid instead
// of aborting the read.
type gffRecord struct {
	Seqid      string
	Source     string
	Type       string
	Start      string
	End        string
	Score      string
	Strand     string
	Phase      string
	Attributes string
}

func (r *gffRecord) fields() []string {
	return []string{r.Seqid, r.Source, r.Type, r.Start, r.End, r.Score, r.Strand, r.Phase, r.Attributes}
}

// ParseGFF reads 9-column GFF or GTF records from r.  The 1-based inclusive
// coordinates are converted to 0-based half-open ones.  A record whose
// coordinates don't parse is returned with Start = End = -1; pass the result
// through RemoveInvalid to drop such records.
func ParseGFF(r io.Reader) ([]Feature, error) {
	reader := tsv.NewReader(bufio.NewReaderSize(r, 64<<10))
	reader.Comment = '#'
	reader.LazyQuotes = true

	var (
		features []Feature
		rec      gffRecord
		nBad     int
	)
	for {
		if err := reader.Read(&rec); err != nil {
			if err == io.EOF {
				break
			}
			return nil, errors.Wrap(err, "interval.ParseGFF")
		}
		f := Feature{
			Chrom:  rec.Seqid,
			Type:   rec.Type,
			Strand: parseStrand(rec.Strand),
			Fields: rec.fields(),
		}
		start, serr := strconv.Atoi(rec.Start)
		end, eerr := strconv.Atoi(rec.End)
		if serr != nil || eerr != nil {
			f.Start, f.End = -1, -1
			nBad++
		} else {
			f.Start, f.End = start-1, end
		}
		features = append(features, f)
	}
	if nBad > 0 {
		log.Debug.Printf("interval.ParseGFF: %d record(s) with unparseable coordinates", nBad)
	}
	return features, nil
}

// ReadGFF is a wrapper for ParseGFF that takes a path instead of an
// io.Reader.
func ReadGFF(ctx context.Context, path string) (features []Feature, err error) {
	reader, closer, err := openPath(ctx, path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := closer(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	if features, err = ParseGFF(reader); err != nil {
		return nil, errors.Wrap(err, path)
	}
	return features, nil
}
