package chart

import (
	"net/url"
	"strconv"
	"strings"
)

// Chart types understood by the chart service.
const (
	TypePie  = "p"
	TypeVenn = "v"
)

// Form field names.
const (
	fieldType   = "cht"
	fieldSize   = "chs"
	fieldData   = "chd"
	fieldLabels = "chl"
	fieldLegend = "chdl"
	fieldColors = "chco"
)

// FormatValues renders values in the chart service's text encoding,
// "t:v1,v2,...".
func FormatValues(values []float64) string {
	strs := make([]string, len(values))
	for i, v := range values {
		strs[i] = strconv.FormatFloat(v, 'f', -1, 64)
	}
	return "t:" + strings.Join(strs, ",")
}

// ParseValues is the inverse of FormatValues.
func ParseValues(s string) ([]float64, error) {
	s = strings.TrimPrefix(s, "t:")
	if s == "" {
		return nil, nil
	}
	strs := strings.Split(s, ",")
	values := make([]float64, len(strs))
	for i, str := range strs {
		v, err := strconv.ParseFloat(str, 64)
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	return values, nil
}

// PieForm returns the request for a pie chart with one slice per value.
// labels[i] names values[i].
func PieForm(size string, values []float64, labels []string) url.Values {
	return url.Values{
		fieldType:   {TypePie},
		fieldSize:   {size},
		fieldData:   {FormatValues(values)},
		fieldLabels: {strings.Join(labels, "|")},
	}
}

// VennForm returns the request for a three-circle Venn diagram.  values must
// be in chart order: A, B, C, AB, AC, BC, ABC.  labels and colors are
// optional; empty slices leave the fields out.
func VennForm(size string, values []float64, labels, colors []string) url.Values {
	form := url.Values{
		fieldType: {TypeVenn},
		fieldSize: {size},
		fieldData: {FormatValues(values)},
	}
	if len(labels) > 0 {
		form.Set(fieldLegend, strings.Join(labels, "|"))
	}
	if len(colors) > 0 {
		form.Set(fieldColors, strings.Join(colors, ","))
	}
	return form
}

// Labels returns the slice labels of a pie request.
func Labels(form url.Values) []string {
	s := form.Get(fieldLabels)
	if s == "" {
		return nil
	}
	return strings.Split(s, "|")
}

// Size parses the "WxH" chs field.  ok is false if it's missing or
// malformed.
func Size(form url.Values) (width, height int, ok bool) {
	parts := strings.SplitN(form.Get(fieldSize), "x", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	var err error
	if width, err = strconv.Atoi(parts[0]); err != nil {
		return 0, 0, false
	}
	if height, err = strconv.Atoi(parts[1]); err != nil {
		return 0, 0, false
	}
	return width, height, true
}
