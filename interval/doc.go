// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

/*Package interval loads BED and GFF interval files and answers the handful of
  set questions the bedchart tools ask of them: which annotations does a peak
  overlap (optionally strand-aware), which features of one set touch another,
  and how many distinct intervals a union of sets contains.

  Coordinates are always 0-based and half-open once loaded; GFF input is
  converted on the way in.  Two intervals overlap iff they share at least one
  base.
*/
package interval
