// Copyright 2020 Grail Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package main

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/grailbio/base/cmdutil"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/bedchart/chart"
	"github.com/grailbio/bedchart/exampledata"
	"github.com/grailbio/bedchart/peakpie"
	"v.io/x/lib/cmdline"
)

// stringList is a flag.Value collecting comma-separated values over repeated
// uses of a flag.
type stringList []string

func (l *stringList) String() string { return strings.Join(*l, ",") }

func (l *stringList) Set(v string) error {
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			*l = append(*l, s)
		}
	}
	return nil
}

// newRequesterFunc picks the chart backend.
type newRequesterFunc func(backend, endpoint string, timeout time.Duration) (chart.Requester, error)

func newRequester(backend, endpoint string, timeout time.Duration) (chart.Requester, error) {
	switch backend {
	case "gchart":
		return chart.NewGoogleClient(endpoint, timeout), nil
	case "echarts":
		return chart.EChartsRenderer{Title: "bio-peak-pie"}, nil
	}
	return nil, errors.E(errors.Invalid, fmt.Sprintf("unknown backend %q; want gchart or echarts", backend))
}

func newCmdRoot(newRequester newRequesterFunc) *cmdline.Command {
	cmd := &cmdline.Command{
		Name:     "bio-peak-pie",
		Short:    "Pie chart of the annotation featuretypes overlapped by peaks",
		LookPath: false,
	}
	var include, exclude stringList
	cmd.Flags.Var(&include, "include", "Featuretypes to include; all others count as unannotated. Comma-separated, may be repeated")
	cmd.Flags.Var(&exclude, "exclude", "Featuretypes to exclude (count as unannotated). Comma-separated, may be repeated")
	bedPath := cmd.Flags.String("bed", peakpie.DefaultOpts.BEDPath, "BED file of e.g. peaks")
	gffPath := cmd.Flags.String("gff", peakpie.DefaultOpts.GFFPath, "GFF file of e.g. annotations")
	outPath := cmd.Flags.String("out", peakpie.DefaultOpts.OutPath, "Output chart file")
	stranded := cmd.Flags.Bool("stranded", peakpie.DefaultOpts.Stranded, "Use strand-specific intersections")
	thresh := cmd.Flags.Float64("thresh", peakpie.DefaultOpts.Thresh, "Threshold percentage at or below which slices are suppressed")
	size := cmd.Flags.String("size", peakpie.DefaultOpts.Size, "Chart size in pixels, WxH")
	tablePath := cmd.Flags.String("table", "", "If set, write the per-featuretype counts to this TSV path")
	backend := cmd.Flags.String("backend", "gchart", "Chart backend: 'gchart' posts to --url, 'echarts' renders a local HTML page")
	endpoint := cmd.Flags.String("url", chart.DefaultURL, "Chart service endpoint")
	timeout := cmd.Flags.Duration("timeout", 0, "Chart request timeout; 0 means none")
	test := cmd.Flags.Bool("test", false, "Run on bundled example data, overriding the input options")

	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) != 0 {
			return env.UsageErrorf("bio-peak-pie takes no positional arguments, but got %v", argv)
		}
		opts := peakpie.Opts{
			BEDPath:   *bedPath,
			GFFPath:   *gffPath,
			Stranded:  *stranded,
			Include:   include,
			Exclude:   exclude,
			OutPath:   *outPath,
			Thresh:    *thresh,
			Size:      *size,
			TablePath: *tablePath,
		}
		r, err := newRequester(*backend, *endpoint, *timeout)
		if err != nil {
			return err
		}
		ctx := vcontext.Background()
		if !*test {
			return peakpie.Make(ctx, opts, r)
		}
		peaks, err := exampledata.BED("gdc.bed")
		if err != nil {
			return err
		}
		annots, err := exampledata.GFF("gdc.gff")
		if err != nil {
			return err
		}
		opts.Stranded = true
		opts.Include = peakpie.TestFeatureTypes
		opts.Exclude = nil
		opts.Thresh = 0
		opts.OutPath = peakpie.DefaultOpts.OutPath
		log.Printf("bio-peak-pie: test mode, writing %s", opts.OutPath)
		return peakpie.MakeFromFeatures(ctx, peaks, annots, opts, r)
	})
	return cmd
}

// setupLogging registers the -log level flag (off, error, info, debug) as a
// global flag, and stamps log lines with microseconds and file:line.
func setupLogging() {
	log.AddFlags()
	log.SetFlags(log.Ldate | log.Ltime | log.Lmicroseconds | log.Lshortfile)
	cmdline.HideGlobalFlagsExcept(regexp.MustCompile(`^log$`))
}

func main() {
	setupLogging()
	cmdline.Main(newCmdRoot(newRequester))
}
