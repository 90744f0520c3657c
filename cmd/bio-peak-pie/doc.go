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

/*
bio-peak-pie classifies the peaks of a BED file by the GFF featuretypes they
overlap, and draws the proportions as a pie chart.

A peak overlapping several featuretypes is counted once in each of their
slices; a peak overlapping nothing (or only featuretypes filtered out by
--include/--exclude) is counted as "unannotated".  Slices at or below
--thresh percent are left out of the chart but kept in --table.

By default the chart is rendered by a Google Image Charts compatible service
(--url) and the returned bytes are written to --out.  With --backend=echarts
the pie is rendered locally as a standalone HTML page instead.

Sample usage:
bio-peak-pie \
    --bed peaks.bed \
    --gff annotations.gff.gz \
    --stranded \
    --include CDS,intron,five_prime_UTR,three_prime_UTR \
    --thresh 1 \
    --out peaks.png

--test runs on bundled example data with the include-list above, ignoring
--bed, --gff, --stranded, --include, --exclude, --thresh and --out.

--bed may also name a GFF/GTF file (by extension, optionally gzipped), in
which case its records are used as the peaks.  -log=debug prints the
per-slice counts and the chart service reply size.
*/
package main
