package story

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"strings"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const (
	barHighColor = "#FF4136"
	barLowColor  = "#0074D9"
	pm25Stroke   = "#8884d8"
	aqiStroke    = "#82ca9d"

	// barHighThreshold marks readings drawn in the alert color.
	barHighThreshold = 20
	dimmedAlpha      = 128
)

// SliceColors cycles over pie slices in dataset order.
var SliceColors = []string{"#0088FE", "#00C49F", "#FFBB28", "#FF8042"}

// ChartRenderer draws datasets as inline SVG.
type ChartRenderer struct {
	Width  int
	Height int
}

// DefaultCharts matches the story layout's stage size.
func DefaultCharts() ChartRenderer { return ChartRenderer{Width: 720, Height: 400} }

func hexColor(hex string) drawing.Color {
	return drawing.ColorFromHex(strings.TrimPrefix(hex, "#"))
}

type svgChart interface {
	Render(rp chart.RendererProvider, w io.Writer) error
}

func renderSVG(r svgChart, name string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := r.Render(chart.SVG, &buf); err != nil {
		return "", fmt.Errorf("story: render %s chart: %w", name, err)
	}
	return template.HTML(buf.String()), nil
}

// Bar draws one bar per location.
func (c ChartRenderer) Bar(v *BarView) (template.HTML, error) {
	bars := make([]chart.Value, 0, len(v.Bars))
	top := 0
	for _, b := range v.Bars {
		col := hexColor(b.Color)
		bars = append(bars, chart.Value{
			Value: float64(b.Value),
			Label: b.Label,
			Style: chart.Style{FillColor: col, StrokeColor: col},
		})
		if b.Value > top {
			top = b.Value
		}
	}
	bc := chart.BarChart{
		Title:      v.Name,
		Width:      c.Width,
		Height:     c.Height,
		BarWidth:   60,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 10, Right: 10, Bottom: 10}},
		YAxis: chart.YAxis{
			Name:  v.AxisLabel,
			Range: &chart.ContinuousRange{Min: 0, Max: float64(top + 5)},
		},
		Bars: bars,
	}
	return renderSVG(&bc, "bar")
}

// Line draws PM2.5 on the primary axis and AQI on the secondary axis.
func (c ChartRenderer) Line(v *LineView) (template.HTML, error) {
	n := len(v.Points)
	xs := make([]float64, n)
	left := make([]float64, n)
	right := make([]float64, n)
	ticks := make([]chart.Tick, n)
	for i, p := range v.Points {
		xs[i] = float64(i)
		left[i] = float64(p.Left)
		right[i] = float64(p.Right)
		ticks[i] = chart.Tick{Value: float64(i), Label: p.Label}
	}
	ch := chart.Chart{
		Width:      c.Width,
		Height:     c.Height,
		Background: chart.Style{Padding: chart.Box{Top: 20, Left: 20, Right: 20, Bottom: 10}},
		XAxis: chart.XAxis{
			Ticks: ticks,
			Range: &chart.ContinuousRange{Min: 0, Max: float64(max(n-1, 1))},
		},
		YAxis:          chart.YAxis{Name: v.LeftLabel},
		YAxisSecondary: chart.YAxis{Name: v.RightLabel},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    v.LeftName,
				XValues: xs,
				YValues: left,
				Style:   chart.Style{StrokeColor: hexColor(pm25Stroke), StrokeWidth: 2},
			},
			chart.ContinuousSeries{
				Name:    v.RightName,
				YAxis:   chart.YAxisSecondary,
				XValues: xs,
				YValues: right,
				Style:   chart.Style{StrokeColor: hexColor(aqiStroke), StrokeWidth: 2},
			},
		},
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	return renderSVG(&ch, "line")
}

// Pie draws one slice per source; slices other than the expanded one are dimmed.
func (c ChartRenderer) Pie(v *PieView) (template.HTML, error) {
	values := make([]chart.Value, 0, len(v.Slices))
	for _, s := range v.Slices {
		col := hexColor(s.Color)
		if s.Dimmed {
			col.A = dimmedAlpha
		}
		values = append(values, chart.Value{
			Value: float64(s.Value),
			Label: s.Label + " " + s.PercentLabel,
			Style: chart.Style{FillColor: col, StrokeColor: drawing.ColorWhite},
		})
	}
	pc := chart.PieChart{
		Width:  c.Height,
		Height: c.Height,
		Values: values,
	}
	return renderSVG(&pc, "pie")
}
