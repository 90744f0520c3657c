package peakpie

import (
	"context"
	"fmt"
	"io/ioutil"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/bedchart/chart"
	"github.com/grailbio/bedchart/interval"
	"github.com/grailbio/testutil"
	"github.com/grailbio/testutil/assert"
	"github.com/grailbio/testutil/expect"
)

func peak(name string, start, end int, strand byte) interval.Feature {
	return interval.Feature{
		Chrom:  "chr1",
		Start:  start,
		End:    end,
		Strand: strand,
		Name:   name,
		Fields: []string{"chr1", fmt.Sprint(start), fmt.Sprint(end), name, "0", string(strand)},
	}
}

func annot(featureType string, start, end int, strand byte) interval.Feature {
	return interval.Feature{Chrom: "chr1", Start: start, End: end, Strand: strand, Type: featureType}
}

func bucketCounts(b Buckets) map[string]int {
	counts := map[string]int{}
	for label, peaks := range b {
		counts[label] = len(peaks)
	}
	return counts
}

// recorder is a chart.Requester that remembers its requests.
type recorder struct {
	forms []url.Values
	reply string
}

func (r *recorder) Request(_ context.Context, form url.Values) ([]byte, error) {
	r.forms = append(r.forms, form)
	return []byte(r.reply), nil
}

func TestNewFilter(t *testing.T) {
	_, err := NewFilter([]string{"CDS"}, []string{"intron"})
	assert.True(t, errors.Is(errors.Invalid, err))

	f, err := NewFilter(nil, nil)
	assert.NoError(t, err)
	expect.EQ(t, f.Mode, All)
	f, err = NewFilter([]string{"CDS"}, nil)
	assert.NoError(t, err)
	expect.EQ(t, f.Mode, IncludeOnly)
	f, err = NewFilter([]string{}, []string{"CDS"})
	assert.NoError(t, err)
	expect.EQ(t, f.Mode, ExcludeOnly)
}

func TestFilterBucket(t *testing.T) {
	all, _ := NewFilter(nil, nil)
	include, _ := NewFilter([]string{"CDS", "intron"}, nil)
	exclude, _ := NewFilter(nil, []string{"CDS"})
	tests := []struct {
		filter      Filter
		featureType string
		want        string
	}{
		{all, "CDS", "CDS"},
		{all, "exon", "exon"},
		{all, interval.NoType, Unannotated},
		{include, "CDS", "CDS"},
		{include, "intron", "intron"},
		{include, "exon", Unannotated},
		{include, interval.NoType, Unannotated},
		{exclude, "CDS", Unannotated},
		{exclude, "exon", "exon"},
		{exclude, interval.NoType, Unannotated},
	}
	for _, tt := range tests {
		expect.EQ(t, tt.filter.Bucket(tt.featureType), tt.want, "%v %s", tt.filter.Mode, tt.featureType)
	}
}

func classify(t *testing.T, peaks, annots []interval.Feature, stranded bool, include, exclude []string) Buckets {
	f, err := NewFilter(include, exclude)
	assert.NoError(t, err)
	b, err := ClassifyFeatures(peaks, annots, stranded, f)
	assert.NoError(t, err)
	return b
}

func TestIncludeListKeepsOtherPeaks(t *testing.T) {
	peaks := []interval.Feature{peak("p1", 100, 200, '+')}
	annots := []interval.Feature{annot("exon", 150, 250, '+')}
	b := classify(t, peaks, annots, false, []string{"CDS"}, nil)
	expect.EQ(t, bucketCounts(b), map[string]int{Unannotated: 1})
}

func TestExcludeListCollapses(t *testing.T) {
	peaks := []interval.Feature{peak("p1", 100, 200, '+'), peak("p2", 300, 400, '+')}
	annots := []interval.Feature{annot("CDS", 150, 250, '+'), annot("exon", 350, 360, '+')}
	b := classify(t, peaks, annots, false, nil, []string{"CDS"})
	expect.EQ(t, bucketCounts(b), map[string]int{Unannotated: 1, "exon": 1})
}

func TestDoubleCounting(t *testing.T) {
	peaks := []interval.Feature{
		peak("p1", 100, 200, '+'),
		peak("p2", 300, 400, '-'),
		peak("p3", 900, 950, '+'),
	}
	annots := []interval.Feature{
		annot("CDS", 150, 250, '+'),
		annot("CDS", 160, 170, '+'), // second CDS hit for p1 counts once
		annot("intron", 190, 320, '-'),
		annot("exon", 350, 360, '+'),
	}
	b := classify(t, peaks, annots, false, nil, nil)
	expect.EQ(t, bucketCounts(b), map[string]int{"CDS": 1, "intron": 2, "exon": 1, Unannotated: 1})
	total := 0
	for _, s := range b.All() {
		total += s.Count
	}
	expect.True(t, total >= len(peaks))

	// Strand-aware: p1(+) loses the '-' intron, p2(-) loses the '+' exon.
	b = classify(t, peaks, annots, true, nil, nil)
	expect.EQ(t, bucketCounts(b), map[string]int{"CDS": 1, "intron": 1, Unannotated: 1})
}

func TestDuplicatePeakLinesCountOnce(t *testing.T) {
	peaks := []interval.Feature{peak("p1", 100, 200, '+'), peak("p1", 100, 200, '+')}
	b := classify(t, peaks, nil, false, nil, nil)
	expect.EQ(t, bucketCounts(b), map[string]int{Unannotated: 1})
}

func TestClassifyNoPeaks(t *testing.T) {
	f, _ := NewFilter(nil, nil)
	_, err := ClassifyFeatures(nil, nil, false, f)
	expect.True(t, errors.Is(errors.Invalid, err))
}

func makeBuckets(counts map[string]int) Buckets {
	b := Buckets{}
	for label, n := range counts {
		for i := 0; i < n; i++ {
			b.add(label, fmt.Sprintf("%s-%d", label, i))
		}
	}
	return b
}

func TestSlices(t *testing.T) {
	b := makeBuckets(map[string]int{"CDS": 7, "intron": 2, "exon": 1})

	all := b.Slices(0)
	assert.EQ(t, len(all), 3)
	expect.EQ(t, all[0], Slice{Label: "exon", Count: 1, Percent: 10})
	expect.EQ(t, all[1], Slice{Label: "intron", Count: 2, Percent: 20})
	expect.EQ(t, all[2], Slice{Label: "CDS", Count: 7, Percent: 70})
	expect.EQ(t, all[2].ChartLabel(), "CDS: 7 (70.0%)")

	// At-threshold slices are dropped; the rest keep their order.
	kept := b.Slices(10)
	assert.EQ(t, len(kept), 2)
	expect.EQ(t, kept[0].Label, "intron")
	expect.EQ(t, kept[1].Label, "CDS")
	for _, s := range kept {
		expect.True(t, s.Percent > 10)
	}
	expect.EQ(t, len(b.Slices(70)), 0)
}

func TestSlicesTieOrder(t *testing.T) {
	b := makeBuckets(map[string]int{"b": 2, "a": 2, "c": 1})
	all := b.All()
	expect.EQ(t, []string{all[0].Label, all[1].Label, all[2].Label}, []string{"c", "a", "b"})
}

func TestPieForm(t *testing.T) {
	form := PieForm([]Slice{{Label: "exon", Count: 1, Percent: 25}, {Label: "CDS", Count: 3, Percent: 75}}, "750x350")
	expect.EQ(t, form.Get("cht"), "p")
	expect.EQ(t, form.Get("chs"), "750x350")
	expect.EQ(t, form.Get("chd"), "t:25,75")
	expect.EQ(t, form.Get("chl"), "exon: 1 (25.0%)|CDS: 3 (75.0%)")
}

func TestMakeRejectsIncludeAndExclude(t *testing.T) {
	r := &recorder{}
	opts := DefaultOpts
	opts.BEDPath = "/nonexistent/peaks.bed"
	opts.GFFPath = "/nonexistent/annot.gff"
	opts.Include = []string{"CDS"}
	opts.Exclude = []string{"intron"}
	err := Make(vcontext.Background(), opts, r)
	expect.True(t, errors.Is(errors.Invalid, err))
	expect.EQ(t, len(r.forms), 0)
}

func TestMake(t *testing.T) {
	tmpdir, cleanup := testutil.TempDir(t, "", "")
	defer testutil.NoCleanupOnError(t, cleanup, tmpdir)

	bedPath := filepath.Join(tmpdir, "peaks.bed")
	gffPath := filepath.Join(tmpdir, "annot.gff")
	assert.NoError(t, ioutil.WriteFile(bedPath, []byte(
		"chr1\t100\t200\tp1\t0\t+\n"+
			"chr1\t300\t400\tp2\t0\t+\n"+
			"chr1\t500\t600\tp3\t0\t+\n"+
			"chr1\t700\t800\tp4\t0\t+\n"), 0600))
	assert.NoError(t, ioutil.WriteFile(gffPath, []byte(
		"##gff-version 3\n"+
			"chr1\tt\tCDS\t101\t150\t.\t+\t0\tID=1\n"+
			"chr1\tt\tCDS\t301\t350\t.\t+\t0\tID=2\n"+
			"chr1\tt\tintron\t551\t650\t.\t-\t.\tID=3\n"+
			"chr1\tt\texon\tx\t650\t.\t+\t.\tID=4\n"), 0600))

	r := &recorder{reply: "PNGDATA"}
	opts := DefaultOpts
	opts.BEDPath = bedPath
	opts.GFFPath = gffPath
	opts.OutPath = filepath.Join(tmpdir, "out.png")
	opts.TablePath = filepath.Join(tmpdir, "table.tsv")
	opts.Thresh = 20
	assert.NoError(t, Make(vcontext.Background(), opts, r))

	// CDS: 2 (50%), intron: 1 (25%), unannotated: 1 (25%).
	assert.EQ(t, len(r.forms), 1)
	form := r.forms[0]
	expect.EQ(t, form.Get("chd"), "t:25,25,50")
	expect.EQ(t, chart.Labels(form), []string{"intron: 1 (25.0%)", "unannotated: 1 (25.0%)", "CDS: 2 (50.0%)"})

	data, err := ioutil.ReadFile(opts.OutPath)
	assert.NoError(t, err)
	expect.EQ(t, string(data), "PNGDATA")

	table, err := ioutil.ReadFile(opts.TablePath)
	assert.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(table)), "\n")
	expect.EQ(t, lines, []string{
		"featuretype\tpeaks\tpercent",
		"intron\t1\t25.00",
		"unannotated\t1\t25.00",
		"CDS\t2\t50.00",
	})

	// Stranded: the '-' intron no longer matches p3.
	opts.Stranded = true
	opts.Thresh = 0
	assert.NoError(t, Make(vcontext.Background(), opts, r))
	expect.EQ(t, chart.Labels(r.forms[1]), []string{"CDS: 2 (50.0%)", "unannotated: 2 (50.0%)"})
}

func TestMakeGFFPeaks(t *testing.T) {
	tmpdir, cleanup := testutil.TempDir(t, "", "")
	defer testutil.NoCleanupOnError(t, cleanup, tmpdir)

	peakPath := filepath.Join(tmpdir, "peaks.gff3")
	gffPath := filepath.Join(tmpdir, "annot.gff")
	assert.NoError(t, ioutil.WriteFile(peakPath, []byte(
		"chr1\tmacs\tpeak\t101\t200\t.\t+\t.\tID=p1\n"+
			"chr1\tmacs\tpeak\t701\t800\t.\t+\t.\tID=p2\n"+
			"chr1\tmacs\tpeak\tx\t800\t.\t+\t.\tID=bad\n"), 0600))
	assert.NoError(t, ioutil.WriteFile(gffPath, []byte(
		"chr1\tt\tCDS\t151\t160\t.\t+\t0\tID=1\n"), 0600))

	r := &recorder{}
	opts := DefaultOpts
	opts.BEDPath = peakPath
	opts.GFFPath = gffPath
	opts.OutPath = filepath.Join(tmpdir, "out.png")
	assert.NoError(t, Make(vcontext.Background(), opts, r))
	assert.EQ(t, len(r.forms), 1)
	expect.EQ(t, chart.Labels(r.forms[0]), []string{"CDS: 1 (50.0%)", "unannotated: 1 (50.0%)"})
}
