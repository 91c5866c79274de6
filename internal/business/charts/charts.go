// Package charts renders the dashboard's aggregate views as PNG or SVG images.
package charts

import (
	"errors"
	"fmt"
	"io"
	"path"
	"strconv"
	"strings"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/weiwei-tsao/ev-dashboard/apps/api/pkg/model"
)

var (
	// ErrNoData means the view has nothing to draw.
	ErrNoData = errors.New("no data to chart")
	// ErrUnknownChart rejects unsupported chart or format names.
	ErrUnknownChart = errors.New("unknown chart")
)

// Kind names one aggregate view.
type Kind string

const (
	KindMake   Kind = "make"
	KindEVType Kind = "ev-type"
	KindYearly Kind = "yearly"
	KindRange  Kind = "range"
	KindCounty Kind = "county"
)

// Kinds lists the charts in dashboard order.
var Kinds = []Kind{KindMake, KindEVType, KindYearly, KindRange, KindCounty}

// Format is the output image encoding.
type Format string

const (
	FormatPNG Format = "png"
	FormatSVG Format = "svg"
)

func (f Format) ContentType() string {
	if f == FormatSVG {
		return chart.ContentTypeSVG
	}
	return chart.ContentTypePNG
}

func (f Format) renderer() chart.RendererProvider {
	if f == FormatSVG {
		return chart.SVG
	}
	return chart.PNG
}

// Title returns the heading shown above a chart.
func (k Kind) Title() string {
	switch k {
	case KindMake:
		return "Vehicles by Make"
	case KindEVType:
		return "Electric Vehicle Types"
	case KindYearly:
		return "Registrations by Model Year"
	case KindRange:
		return "Electric Range Distribution"
	case KindCounty:
		return "Vehicles by County"
	}
	return string(k)
}

// ParseFile splits a file name such as "make.png" into kind and format.
func ParseFile(name string) (Kind, Format, error) {
	ext := path.Ext(name)
	kind := Kind(strings.TrimSuffix(name, ext))
	format := Format(strings.TrimPrefix(ext, "."))

	if format != FormatPNG && format != FormatSVG {
		return "", "", fmt.Errorf("%w: format %q", ErrUnknownChart, format)
	}
	for _, k := range Kinds {
		if k == kind {
			return kind, format, nil
		}
	}
	return "", "", fmt.Errorf("%w: %q", ErrUnknownChart, kind)
}

// View picks the distribution a chart kind draws.
func View(d model.Dashboard, kind Kind) (model.Distribution, error) {
	switch kind {
	case KindMake:
		return d.MakeDistribution, nil
	case KindEVType:
		return d.EVTypeDistribution, nil
	case KindYearly:
		return d.YearlyTrend, nil
	case KindRange:
		return d.RangeDistribution, nil
	case KindCounty:
		return d.CountyDistribution, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownChart, kind)
}

// Render draws the chart for kind from the dashboard's views.
func Render(w io.Writer, d model.Dashboard, kind Kind, format Format) error {
	dist, err := View(d, kind)
	if err != nil {
		return err
	}
	switch kind {
	case KindEVType:
		return Pie(w, kind.Title(), dist, format)
	case KindYearly:
		return Line(w, kind.Title(), dist, format)
	default:
		return Bar(w, kind.Title(), dist, format)
	}
}

const (
	width      = 1024
	height     = 480
	barWidth   = 40
	barSpacing = 20
)

// Bar draws a bar per bucket.
func Bar(w io.Writer, title string, dist model.Distribution, format Format) error {
	maxValue := 0
	bars := make([]chart.Value, 0, len(dist))
	for _, b := range dist {
		if b.Value > maxValue {
			maxValue = b.Value
		}
		bars = append(bars, chart.Value{Label: b.Name, Value: float64(b.Value)})
	}
	if len(bars) == 0 || maxValue == 0 {
		return ErrNoData
	}

	graph := chart.BarChart{
		Title:      title,
		Width:      width,
		Height:     height,
		BarWidth:   barWidth,
		BarSpacing: barSpacing,
		Background: chart.Style{
			Padding: chart.Box{Top: 40},
		},
		YAxis: chart.YAxis{
			Range:          &chart.ContinuousRange{Min: 0, Max: float64(maxValue)},
			ValueFormatter: intFormatter,
		},
		Bars: bars,
	}
	return graph.Render(format.renderer(), w)
}

// Pie draws each bucket as a slice; zero buckets are skipped.
func Pie(w io.Writer, title string, dist model.Distribution, format Format) error {
	values := make([]chart.Value, 0, len(dist))
	for _, b := range dist {
		if b.Value <= 0 {
			continue
		}
		values = append(values, chart.Value{Label: fmt.Sprintf("%s (%d)", b.Name, b.Value), Value: float64(b.Value)})
	}
	if len(values) == 0 {
		return ErrNoData
	}

	graph := chart.PieChart{
		Title:  title,
		Width:  height,
		Height: height,
		Values: values,
	}
	return graph.Render(format.renderer(), w)
}

// Line draws a trend over numeric bucket names such as model years.
func Line(w io.Writer, title string, dist model.Distribution, format Format) error {
	xs := make([]float64, 0, len(dist))
	ys := make([]float64, 0, len(dist))
	maxY := 0.0
	for _, b := range dist {
		x, err := strconv.ParseFloat(b.Name, 64)
		if err != nil {
			continue
		}
		xs = append(xs, x)
		ys = append(ys, float64(b.Value))
		if float64(b.Value) > maxY {
			maxY = float64(b.Value)
		}
	}
	if len(xs) == 0 || maxY == 0 {
		return ErrNoData
	}

	minX, maxX := xs[0], xs[len(xs)-1]
	if minX == maxX {
		minX, maxX = minX-1, maxX+1
	}

	graph := chart.Chart{
		Title:  title,
		Width:  width,
		Height: height,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 16, Right: 16},
		},
		XAxis: chart.XAxis{
			Name:           "Model Year",
			Range:          &chart.ContinuousRange{Min: minX, Max: maxX},
			ValueFormatter: intFormatter,
		},
		YAxis: chart.YAxis{
			Name:           "Vehicles",
			Range:          &chart.ContinuousRange{Min: 0, Max: maxY},
			ValueFormatter: intFormatter,
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    "Registrations",
				XValues: xs,
				YValues: ys,
				Style: chart.Style{
					StrokeColor: chart.ColorBlue,
					StrokeWidth: 2,
				},
			},
		},
	}
	return graph.Render(format.renderer(), w)
}

func intFormatter(v interface{}) string {
	if f, ok := v.(float64); ok {
		return strconv.FormatInt(int64(f), 10)
	}
	return fmt.Sprintf("%v", v)
}
