package interval

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"strconv"

	"github.com/grailbio/base/file"
	"github.com/grailbio/base/fileio"
	gunsafe "github.com/grailbio/base/unsafe"
	"github.com/klauspost/compress/gzip"
	"github.com/pkg/errors"
)

// maxBEDColumns is the number of columns defined by the BED format.  Anything
// past the last one is dropped.
const maxBEDColumns = 12

// getFields saves up to len(fields) columns of curLine and returns the number
// saved.  A line containing a tab is split on tabs only, so empty and
// space-containing columns survive.  Otherwise any run of characters <= ' '
// is a delimiter, which accepts space-separated BED.
func getFields(fields [][]byte, curLine []byte) int {
	if bytes.IndexByte(curLine, '\t') == -1 {
		return getTokens(fields, curLine)
	}
	lineLen := len(curLine)
	if lineLen != 0 && curLine[lineLen-1] == '\r' {
		curLine = curLine[:lineLen-1]
	}
	nField := 0
	for nField != len(fields) {
		tabPos := bytes.IndexByte(curLine, '\t')
		if tabPos == -1 {
			fields[nField] = curLine
			return nField + 1
		}
		fields[nField] = curLine[:tabPos]
		curLine = curLine[tabPos+1:]
		nField++
	}
	return nField
}

// getTokens saves up to len(tokens) whitespace-delimited tokens of curLine
// and returns the number saved.
func getTokens(tokens [][]byte, curLine []byte) int {
	posEnd := 0
	lineLen := len(curLine)
	for tokenIdx := range tokens {
		pos := posEnd
		for ; pos != lineLen; pos++ {
			if curLine[pos] > ' ' {
				break
			}
		}
		if pos == lineLen {
			return tokenIdx
		}
		posEnd = pos
		for ; posEnd != lineLen; posEnd++ {
			if curLine[posEnd] <= ' ' {
				break
			}
		}
		tokens[tokenIdx] = curLine[pos:posEnd]
	}
	return len(tokens)
}

func isBEDHeader(line []byte) bool {
	return line[0] == '#' || bytes.HasPrefix(line, []byte("track")) || bytes.HasPrefix(line, []byte("browser"))
}

// ParseBED reads BED records (3 to 12 columns) from r.  Columns are
// tab-separated; a line without any tab is split on whitespace instead.
// Blank, comment, "track" and "browser" lines are skipped.
func ParseBED(r io.Reader) ([]Feature, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64<<10), 16<<20)

	var (
		fields   [maxBEDColumns][]byte
		features []Feature
	)
	lineIdx := 0
	for scanner.Scan() {
		lineIdx++
		curLine := scanner.Bytes()
		nField := getFields(fields[:], curLine)
		if nField == 0 || isBEDHeader(curLine) {
			continue
		}
		if nField < 3 {
			return nil, errors.Errorf("interval.ParseBED: line %d has fewer than 3 columns", lineIdx)
		}
		start, err := strconv.Atoi(gunsafe.BytesToString(fields[1]))
		if err != nil {
			return nil, errors.Wrapf(err, "interval.ParseBED: line %d", lineIdx)
		}
		end, err := strconv.Atoi(gunsafe.BytesToString(fields[2]))
		if err != nil {
			return nil, errors.Wrapf(err, "interval.ParseBED: line %d", lineIdx)
		}
		if start < 0 || end < start {
			return nil, errors.Errorf("interval.ParseBED: invalid coordinate pair on line %d", lineIdx)
		}
		// The scanner reuses its buffer, so every field kept past this
		// iteration must be copied.
		f := Feature{
			Start:  start,
			End:    end,
			Strand: StrandUnknown,
			Fields: make([]string, nField),
		}
		for i := 0; i < nField; i++ {
			f.Fields[i] = string(fields[i])
		}
		f.Chrom = f.Fields[0]
		if nField > 3 {
			f.Name = f.Fields[3]
		}
		if nField > 5 {
			f.Strand = parseStrand(f.Fields[5])
		}
		features = append(features, f)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "interval.ParseBED")
	}
	return features, nil
}

// openPath opens path for reading, transparently decompressing gzip input.
// The returned func closes the underlying file.
func openPath(ctx context.Context, path string) (io.Reader, func() error, error) {
	infile, err := file.Open(ctx, path)
	if err != nil {
		return nil, nil, err
	}
	closer := func() error { return infile.Close(ctx) }
	reader := io.Reader(infile.Reader(ctx))
	switch fileio.DetermineType(path) {
	case fileio.Gzip:
		gz, err := gzip.NewReader(reader)
		if err != nil {
			_ = closer()
			return nil, nil, err
		}
		reader = gz
	}
	return reader, closer, nil
}

// ReadBED is a wrapper for ParseBED that takes a path instead of an
// io.Reader.
func ReadBED(ctx context.Context, path string) (features []Feature, err error) {
	reader, closer, err := openPath(ctx, path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := closer(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	if features, err = ParseBED(reader); err != nil {
		return nil, errors.Wrap(err, path)
	}
	return features, nil
}
