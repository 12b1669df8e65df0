// Package charts draws the forecast profit lines: interactive HTML through
// go-echarts and static PNG through gonum/plot.
package charts

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"investor_dashboard/pkg/core/content"
	"investor_dashboard/pkg/core/projection"
)

// ErrUnknownSeries is returned for a series name that is not plotted.
var ErrUnknownSeries = errors.New("unknown chart series")

// Spec is one monthly line chart.
type Spec struct {
	Title      string
	XLabel     string
	YLabel     string
	Months     []int
	Values     []float64
	AssetsHost string
}

// FromForecast builds the chart for series out of a forecast.
func FromForecast(f projection.Forecast, series string, chart content.Chart, axes content.Axes) (Spec, error) {
	var values []float64
	switch series {
	case content.SeriesOperating:
		values = f.OperatingProfitSeries()
	case content.SeriesCumulative:
		values = f.CumulativeProfitSeries()
	default:
		return Spec{}, fmt.Errorf("%w: %q", ErrUnknownSeries, series)
	}
	return Spec{
		Title:  chart.Title,
		XLabel: axes.X,
		YLabel: axes.Y,
		Months: f.Months(),
		Values: values,
	}, nil
}

// RenderHTML writes a standalone page holding the chart.
func RenderHTML(w io.Writer, s Spec) error {
	x := make([]string, len(s.Months))
	for i, m := range s.Months {
		x[i] = strconv.Itoa(m)
	}
	y := make([]opts.LineData, len(s.Values))
	for i, v := range s.Values {
		y[i] = opts.LineData{Value: v}
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: s.Title, Width: "100%", Height: "420px", AssetsHost: s.AssetsHost}),
		charts.WithTitleOpts(opts.Title{Title: s.Title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithXAxisOpts(opts.XAxis{Name: s.XLabel, NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Name: s.YLabel, NameLocation: "middle", NameGap: 60}),
	)
	line.SetXAxis(x).
		AddSeries(s.Title, y, charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(false)}))

	page := components.NewPage()
	page.PageTitle = s.Title
	if s.AssetsHost != "" {
		page.SetAssetsHost(s.AssetsHost)
	}
	page.AddCharts(line)
	return page.Render(w)
}

// RenderPNG writes the chart as a PNG image.
func RenderPNG(w io.Writer, s Spec) error {
	p := plot.New()
	p.Title.Text = s.Title
	p.X.Label.Text = s.XLabel
	p.Y.Label.Text = s.YLabel

	pts := make(plotter.XYs, 0, len(s.Values))
	for i, v := range s.Values {
		if i >= len(s.Months) {
			break
		}
		pts = append(pts, plotter.XY{X: float64(s.Months[i]), Y: v})
	}

	if len(pts) > 0 {
		l, err := plotter.NewLine(pts)
		if err != nil {
			return fmt.Errorf("line: %w", err)
		}
		l.Width = vg.Points(1.5)
		p.Add(l, plotter.NewGrid())
	}

	wt, err := p.WriterTo(8*vg.Inch, 4*vg.Inch, "png")
	if err != nil {
		return fmt.Errorf("png writer: %w", err)
	}
	_, err = wt.WriteTo(w)
	return err
}
