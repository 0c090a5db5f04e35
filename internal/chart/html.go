package chart

import (
	"fmt"
	"io"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/openlaps/lapdelta/internal/config"
	"github.com/openlaps/lapdelta/internal/resample"
	"github.com/openlaps/lapdelta/internal/timeutil"
)

func lineData(values []float64) []opts.LineData {
	data := make([]opts.LineData, len(values))
	for i, v := range values {
		data[i] = opts.LineData{Value: v}
	}
	return data
}

func distanceLabels(distances []float64) []string {
	labels := make([]string, len(distances))
	for i, d := range distances {
		labels[i] = fmt.Sprintf("%.0f", d)
	}
	return labels
}

// ComparisonPage builds an interactive two-chart page: speed traces on top,
// the running time delta below.
func ComparisonPage(data *resample.ResampledData, cfg *config.Config) *components.Page {
	ref, comp := cfg.Drivers.Reference, cfg.Drivers.Comparison
	xLabels := distanceLabels(data.Distance)

	deltaSubtitle := fmt.Sprintf("final gap %.3fs", data.FinalGap())
	if n := data.Len(); n > 0 {
		deltaSubtitle += fmt.Sprintf(" | elapsed at grid end: %s %s vs %s %s",
			ref, timeutil.FormatLapTime(data.TimeA[n-1]),
			comp, timeutil.FormatLapTime(data.TimeB[n-1]))
	}

	speed := charts.NewLine()
	speed.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: fmt.Sprintf("%s vs %s", ref, comp),
			Theme:     "dark",
			Width:     "1200px",
			Height:    "420px",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Speed",
			Subtitle: fmt.Sprintf("%d %s %s | step %.0fm | %d points", cfg.Session.Year, cfg.Session.Circuit, cfg.Session.Type, cfg.Grid.StepMetres, data.Len()),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Distance (m)"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Speed (km/h)"}),
	)
	speed.SetXAxis(xLabels).
		AddSeries(ref, lineData(data.SpeedA), charts.WithItemStyleOpts(opts.ItemStyle{Color: cfg.Theme.SpeedA})).
		AddSeries(comp, lineData(data.SpeedB), charts.WithItemStyleOpts(opts.ItemStyle{Color: cfg.Theme.SpeedB})).
		SetSeriesOptions(charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}))

	delta := charts.NewLine()
	delta.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Theme:  "dark",
			Width:  "1200px",
			Height: "320px",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    fmt.Sprintf("Delta (%s − %s)", ref, comp),
			Subtitle: deltaSubtitle,
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Distance (m)"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Delta (s)"}),
	)
	delta.SetXAxis(xLabels).
		AddSeries("delta", lineData(data.Delta), charts.WithItemStyleOpts(opts.ItemStyle{Color: cfg.Theme.FillA})).
		SetSeriesOptions(charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}))

	page := components.NewPage()
	page.PageTitle = fmt.Sprintf("%s vs %s lap comparison", ref, comp)
	page.AddCharts(speed, delta)
	return page
}

// RenderHTML writes the comparison page to w.
func RenderHTML(w io.Writer, data *resample.ResampledData, cfg *config.Config) error {
	if data.Len() == 0 {
		return fmt.Errorf("no grid points to plot")
	}
	return ComparisonPage(data, cfg).Render(w)
}

// WriteHTML renders the comparison page to a file.
func WriteHTML(data *resample.ResampledData, cfg *config.Config, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create chart file: %w", err)
	}
	if err := RenderHTML(f, data, cfg); err != nil {
		f.Close()
		return fmt.Errorf("render chart: %w", err)
	}
	return f.Close()
}
