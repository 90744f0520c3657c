package chart

import (
	"bytes"
	"context"
	"fmt"
	"net/url"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/grailbio/base/errors"
)

// EChartsRenderer renders pie requests locally as a standalone ECharts HTML
// page instead of calling the chart service.  Venn requests are not
// supported.
type EChartsRenderer struct {
	// Title is shown above the chart and used as the page title.
	Title string
}

// Request implements Requester.
func (r EChartsRenderer) Request(_ context.Context, form url.Values) ([]byte, error) {
	if cht := form.Get(fieldType); cht != TypePie {
		return nil, errors.E(errors.NotSupported, fmt.Sprintf("echarts backend: chart type %q", cht))
	}
	values, err := ParseValues(form.Get(fieldData))
	if err != nil {
		return nil, errors.E(errors.Invalid, err, "echarts backend: chd")
	}
	labels := Labels(form)
	if len(labels) != len(values) {
		return nil, errors.E(errors.Invalid,
			fmt.Sprintf("echarts backend: %d label(s) for %d value(s)", len(labels), len(values)))
	}

	init := opts.Initialization{PageTitle: r.Title}
	if width, height, ok := Size(form); ok {
		init.Width = fmt.Sprintf("%dpx", width)
		init.Height = fmt.Sprintf("%dpx", height)
	}
	pie := charts.NewPie()
	pie.SetGlobalOptions(
		charts.WithInitializationOpts(init),
		charts.WithTitleOpts(opts.Title{Title: r.Title}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(false)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	items := make([]opts.PieData, len(values))
	for i, v := range values {
		items[i] = opts.PieData{Name: labels[i], Value: v}
	}
	pie.AddSeries("peaks", items)

	var buf bytes.Buffer
	if err := pie.Render(&buf); err != nil {
		return nil, errors.E(err, "echarts backend: render")
	}
	return buf.Bytes(), nil
}
