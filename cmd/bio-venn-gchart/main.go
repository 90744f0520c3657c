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

/*
bio-venn-gchart draws a three-circle Venn diagram of the interval files given
by -a, -b and -c.

The circle sizes are the numbers of distinct intervals in each file, and the
overlaps are the sizes of the pairwise and three-way unions.  With
--intersect, circles are record counts and the overlaps are the number of
records of the first file overlapping the others.  All seven values are divided by the largest one before they are
sent to the chart service at --url, and the reply is written to -o.

Each of -a, -b and -c is read as BED, or as GFF/GTF when its name ends in
.gff, .gff3 or .gtf (optionally followed by .gz).

Sample usage:
bio-venn-gchart -a a.bed -b b.bed -c c.bed --labels=ctrl,tx,ko --colors=FF0000,00FF00,0000FF -o venn.png
*/

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/grailbio/base/cmdutil"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/bedchart/chart"
	"github.com/grailbio/bedchart/exampledata"
	"github.com/grailbio/bedchart/venn"
	"v.io/x/lib/cmdline"
)

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}

func newCmdRoot(newRequester func(endpoint string, timeout time.Duration) chart.Requester) *cmdline.Command {
	cmd := &cmdline.Command{
		Name:     "bio-venn-gchart",
		Short:    "Three-way Venn diagram of interval files",
		LookPath: false,
	}
	aPath := cmd.Flags.String("a", "", "File to use for the left-most circle")
	bPath := cmd.Flags.String("b", "", "File to use for the right-most circle")
	cPath := cmd.Flags.String("c", "", "File to use for the bottom circle")
	colors := cmd.Flags.String("colors", "", "Optional comma-separated list of hex colors for circles a, b, and c.  E.g., --colors=FF0000,00FF00,0000FF")
	labels := cmd.Flags.String("labels", "", "Optional comma-separated list of labels for a, b, and c")
	size := cmd.Flags.String("size", venn.DefaultOpts.Size, "Size of the chart, in pixels")
	outPath := cmd.Flags.String("o", venn.DefaultOpts.OutPath, "Output file to save the chart as")
	intersect := cmd.Flags.Bool("intersect", false, "Count overlapping intervals of the first file instead of distinct intervals in the union")
	tablePath := cmd.Flags.String("table", "", "If set, write the seven counts to this TSV path")
	endpoint := cmd.Flags.String("url", chart.DefaultURL, "Chart service endpoint")
	timeout := cmd.Flags.Duration("timeout", 0, "Chart request timeout; 0 means none")
	test := cmd.Flags.Bool("test", false, "Run on bundled example data, overriding all other options")

	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) != 0 {
			return env.UsageErrorf("bio-venn-gchart takes no positional arguments, but got %v", argv)
		}
		opts := venn.Opts{
			APath:     *aPath,
			BPath:     *bPath,
			CPath:     *cPath,
			Colors:    splitList(*colors),
			Labels:    splitList(*labels),
			OutPath:   *outPath,
			Size:      *size,
			TablePath: *tablePath,
		}
		if *intersect {
			opts.Mode = venn.Intersect
		}
		r := newRequester(*endpoint, *timeout)
		ctx := vcontext.Background()
		if !*test {
			for _, arg := range []struct{ name, path string }{{"a", opts.APath}, {"b", opts.BPath}, {"c", opts.CPath}} {
				if arg.path == "" {
					fmt.Fprintf(env.Stderr, "Missing required arg %q\n", arg.name)
					return cmdline.ErrExitCode(1)
				}
			}
			return venn.Make(ctx, opts, r)
		}
		sets, err := exampledata.Venn()
		if err != nil {
			return err
		}
		opts.Colors = []string{"00FF00", "FF0000", "0000FF"}
		opts.Labels = []string{"a", "b", "c"}
		opts.OutPath = venn.DefaultOpts.OutPath
		log.Printf("bio-venn-gchart: test mode, writing %s", opts.OutPath)
		return venn.MakeFromFeatures(ctx, sets, opts, r)
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
	cmdline.Main(newCmdRoot(func(endpoint string, timeout time.Duration) chart.Requester {
		return chart.NewGoogleClient(endpoint, timeout)
	}))
}
