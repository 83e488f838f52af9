package charts

import (
	"fmt"
	"io"
	"math"
	"os"

	"github.com/KaramelBytes/missioneda/internal/dataset"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/vg"
)

const pixelsPerInch = 100

var fuelColor = drawing.ColorFromHex("ff8c00")

func drawFuelDensity(t *dataset.Table, title string, opt Options, path string) error {
	vals, err := t.Floats(dataset.ColFuelConsumption)
	if err != nil {
		return err
	}
	d := newDensity(vals)
	if d == nil {
		return fmt.Errorf("%s: %w", dataset.ColFuelConsumption, dataset.ErrNoData)
	}
	xs, ys := d.curve(curvePoints, 3)

	w, h := pixels(opt, 1.25, 1)
	ch := chart.Chart{
		Title:      title,
		Width:      w,
		Height:     h,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 12}},
		XAxis:      chart.XAxis{Name: dataset.ColFuelConsumption},
		YAxis:      chart.YAxis{Name: "Density", Range: &chart.ContinuousRange{Min: 0, Max: maxOf(ys) * 1.05}},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    dataset.ColFuelConsumption,
				XValues: xs,
				YValues: ys,
				Style: chart.Style{
					StrokeColor: fuelColor,
					StrokeWidth: 2,
					FillColor:   fuelColor.WithAlpha(90),
				},
			},
		},
	}
	return writePNG(path, ch.Render)
}

func drawCostByTarget(t *dataset.Table, title string, opt Options, path string) error {
	targets, cost, err := columnPair(t, dataset.ColTargetType, dataset.ColMissionCost)
	if err != nil {
		return err
	}
	cats := levels(targets)
	if len(cats) == 0 {
		return fmt.Errorf("%s: %w", dataset.ColTargetType, dataset.ErrNoData)
	}
	palette := barPalette(len(cats))
	bars := make([]chart.Value, len(cats))
	var top float64
	for k, c := range cats {
		var sum float64
		var n int
		for i, v := range targets {
			if v == c && !math.IsNaN(cost[i]) {
				sum += cost[i]
				n++
			}
		}
		mean := 0.0
		if n > 0 {
			mean = sum / float64(n)
		}
		top = math.Max(top, mean)
		bars[k] = chart.Value{
			Label: c,
			Value: mean,
			Style: chart.Style{FillColor: palette[k], StrokeColor: palette[k]},
		}
	}
	if top == 0 {
		top = 1
	}

	w, h := pixels(opt, 1.25, 1)
	barWidth := (w - 120) / (2 * len(cats))
	if barWidth < 10 {
		barWidth = 10
	}
	bc := chart.BarChart{
		Title:      title,
		Width:      w,
		Height:     h,
		BarWidth:   barWidth,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 12}},
		YAxis: chart.YAxis{
			Name:  dataset.ColMissionCost,
			Range: &chart.ContinuousRange{Min: 0, Max: top * 1.1},
		},
		Bars: bars,
	}
	return writePNG(path, bc.Render)
}

// barPalette samples the diverging blue-red map evenly, one colour per bar.
func barPalette(n int) []drawing.Color {
	cm := moreland.SmoothBlueRed()
	cm.SetMin(0)
	cm.SetMax(1)
	out := make([]drawing.Color, n)
	for i := range out {
		v := 0.5
		if n > 1 {
			v = float64(i) / float64(n-1)
		}
		c, err := cm.At(v)
		if err != nil {
			out[i] = chart.ColorBlue
			continue
		}
		r, g, b, _ := c.RGBA()
		out[i] = drawing.Color{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: 255}
	}
	return out
}

func pixels(opt Options, wScale, hScale float64) (int, int) {
	w, h := opt.size(wScale, hScale)
	return int(float64(w/vg.Inch) * pixelsPerInch), int(float64(h/vg.Inch) * pixelsPerInch)
}

func maxOf(xs []float64) float64 {
	m := 0.0
	for _, x := range xs {
		if x > m {
			m = x
		}
	}
	if m == 0 {
		return 1
	}
	return m
}

func writePNG(path string, render func(chart.RendererProvider, io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := render(chart.PNG, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
