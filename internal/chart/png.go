// Package chart renders a resampled lap comparison as PNG images and as an
// interactive HTML page.
package chart

import (
	"fmt"
	"image/color"
	"path/filepath"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/openlaps/lapdelta/internal/config"
	"github.com/openlaps/lapdelta/internal/resample"
)

// parseHexColor parses a "#rrggbb" string. Unparseable values fall back to
// mid grey so a bad theme never fails a render.
func parseHexColor(s string) color.RGBA {
	var r, g, b uint8
	if _, err := fmt.Sscanf(s, "#%02x%02x%02x", &r, &g, &b); err != nil {
		return color.RGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xff}
	}
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}

func xys(xs, ys []float64) plotter.XYs {
	pts := make(plotter.XYs, len(xs))
	for i := range xs {
		pts[i] = plotter.XY{X: xs[i], Y: ys[i]}
	}
	return pts
}

// addCornerMarkers overlays faint vertical dashed lines at each named
// corner position inside the grid extent.
func addCornerMarkers(p *plot.Plot, corners []config.Corner, maxDist, yMin, yMax float64, c color.RGBA) error {
	for _, corner := range corners {
		if corner.DistanceM >= maxDist {
			continue
		}
		line, err := plotter.NewLine(plotter.XYs{
			{X: corner.DistanceM, Y: yMin},
			{X: corner.DistanceM, Y: yMax},
		})
		if err != nil {
			return err
		}
		line.Color = c
		line.Width = vg.Points(0.8)
		line.Dashes = []vg.Length{vg.Points(2), vg.Points(2)}
		p.Add(line)
	}
	return nil
}

// WritePNGs renders the speed comparison and the time-delta trace as two
// PNG files in dir, and returns the written paths.
func WritePNGs(data *resample.ResampledData, cfg *config.Config, dir string) ([]string, error) {
	if data.Len() == 0 {
		return nil, fmt.Errorf("no grid points to plot")
	}

	maxDist := data.Distance[data.Len()-1]
	gridColor := parseHexColor(cfg.Theme.GridColor)

	// Speed panel
	pSpeed := plot.New()
	pSpeed.Title.Text = fmt.Sprintf("%s vs %s — Speed", cfg.Drivers.Reference, cfg.Drivers.Comparison)
	pSpeed.X.Label.Text = "Distance (m)"
	pSpeed.Y.Label.Text = "Speed (km/h)"

	speedA, err := plotter.NewLine(xys(data.Distance, data.SpeedA))
	if err != nil {
		return nil, err
	}
	speedA.Color = parseHexColor(cfg.Theme.SpeedA)
	speedA.Width = vg.Points(1)
	pSpeed.Add(speedA)
	pSpeed.Legend.Add(cfg.Drivers.Reference, speedA)

	speedB, err := plotter.NewLine(xys(data.Distance, data.SpeedB))
	if err != nil {
		return nil, err
	}
	speedB.Color = parseHexColor(cfg.Theme.SpeedB)
	speedB.Width = vg.Points(1)
	pSpeed.Add(speedB)
	pSpeed.Legend.Add(cfg.Drivers.Comparison, speedB)

	yMin := floats.Min(data.SpeedA)
	if m := floats.Min(data.SpeedB); m < yMin {
		yMin = m
	}
	yMax := floats.Max(data.SpeedA)
	if m := floats.Max(data.SpeedB); m > yMax {
		yMax = m
	}
	if err := addCornerMarkers(pSpeed, cfg.Corners, maxDist, yMin, yMax, gridColor); err != nil {
		return nil, err
	}

	pSpeed.Legend.Top = true
	pSpeed.Legend.Left = false

	// Delta panel
	pDelta := plot.New()
	pDelta.Title.Text = fmt.Sprintf("Delta (%s − %s)", cfg.Drivers.Reference, cfg.Drivers.Comparison)
	pDelta.X.Label.Text = "Distance (m)"
	pDelta.Y.Label.Text = "Delta (s)"

	zero, err := plotter.NewLine(plotter.XYs{{X: 0, Y: 0}, {X: maxDist, Y: 0}})
	if err != nil {
		return nil, err
	}
	zero.Color = parseHexColor(cfg.Theme.ZeroLine)
	zero.Width = vg.Points(0.8)
	zero.Dashes = []vg.Length{vg.Points(3), vg.Points(3)}
	pDelta.Add(zero)

	delta, err := plotter.NewLine(xys(data.Distance, data.Delta))
	if err != nil {
		return nil, err
	}
	delta.Color = parseHexColor(cfg.Theme.FillA)
	delta.Width = vg.Points(1.2)
	pDelta.Add(delta)

	dMin, dMax := data.DeltaRange()
	if err := addCornerMarkers(pDelta, cfg.Corners, maxDist, dMin, dMax, gridColor); err != nil {
		return nil, err
	}

	speedFile := filepath.Join(dir, cfg.Output.ChartFile+"_speed.png")
	if err := pSpeed.Save(12*vg.Inch, 4*vg.Inch, speedFile); err != nil {
		return nil, fmt.Errorf("save speed plot: %w", err)
	}
	deltaFile := filepath.Join(dir, cfg.Output.ChartFile+"_delta.png")
	if err := pDelta.Save(12*vg.Inch, 4*vg.Inch, deltaFile); err != nil {
		return nil, fmt.Errorf("save delta plot: %w", err)
	}

	return []string{speedFile, deltaFile}, nil
}
