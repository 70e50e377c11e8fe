package artifact

import (
	"bytes"
	"errors"
	"image/color"
	"sort"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// PlotStyle controls the rendered image.
type PlotStyle struct {
	Width          vg.Length
	Height         vg.Length
	XLabel         string
	YLabel         string
	ActualColor    color.Color
	PredictedColor color.Color
}

// DefaultPlotStyle returns a 16x6 inch canvas.
func DefaultPlotStyle() PlotStyle {
	return PlotStyle{
		Width:          16 * vg.Inch,
		Height:         6 * vg.Inch,
		XLabel:         "Rank",
		YLabel:         "Stock Closing Price",
		ActualColor:    color.RGBA{R: 31, G: 119, B: 180, A: 255},
		PredictedColor: color.RGBA{R: 230, G: 200, B: 0, A: 255},
	}
}

// SortedSeries returns an ascending copy of values.
func SortedSeries(values []float64) []float64 {
	out := append([]float64(nil), values...)
	sort.Float64s(out)
	return out
}

// RenderRankPlot draws values sorted ascending against their 0-based rank and returns PNG bytes.
// Each call builds its own plot.
func RenderRankPlot(style PlotStyle, title string, values []float64, c color.Color) ([]byte, error) {
	if len(values) == 0 {
		return nil, errors.New("no values to plot")
	}
	sorted := SortedSeries(values)
	pts := make(plotter.XYs, len(sorted))
	for i, v := range sorted {
		pts[i].X = float64(i)
		pts[i].Y = v
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = style.XLabel
	p.Y.Label.Text = style.YLabel
	p.Add(plotter.NewGrid())

	line, err := plotter.NewLine(pts)
	if err != nil {
		return nil, err
	}
	line.LineStyle.Color = c
	line.LineStyle.Width = vg.Points(1.5)
	p.Add(line)

	wt, err := p.WriterTo(style.Width, style.Height, "png")
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
