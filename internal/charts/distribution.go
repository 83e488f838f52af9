package charts

import (
	"fmt"
	"image/color"
	"sort"

	"github.com/KaramelBytes/missioneda/internal/analysis"
	"github.com/KaramelBytes/missioneda/internal/dataset"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

const (
	curvePoints = 200
	violinHalf  = 0.4
)

func drawDistanceHistogram(t *dataset.Table, title string, opt Options, path string) error {
	vals, err := t.Floats(dataset.ColDistance)
	if err != nil {
		return err
	}
	xs := analysis.Present(vals)
	if len(xs) == 0 {
		return fmt.Errorf("%s: %w", dataset.ColDistance, dataset.ErrNoData)
	}
	hist, err := plotter.NewHist(plotter.Values(xs), opt.Bins)
	if err != nil {
		return err
	}
	hist.FillColor = pastel(hueColor(2), 0.35)
	hist.LineStyle.Color = color.White

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = dataset.ColDistance
	p.Y.Label.Text = "Count"
	p.Add(hist)

	// Density is scaled by n·binwidth so the curve sits on the count axis.
	d := newDensity(xs)
	cx, cy := d.curve(curvePoints, 0)
	scale := float64(len(xs)) * hist.Width
	pts := make(plotter.XYs, len(cx))
	for i := range cx {
		pts[i] = plotter.XY{X: cx[i], Y: cy[i] * scale}
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return err
	}
	line.LineStyle.Color = hueColor(2)
	line.LineStyle.Width = vg.Points(2)
	p.Add(line)

	w, h := opt.size(1.25, 1)
	return p.Save(w, h, path)
}

func drawYieldViolin(t *dataset.Table, title string, opt Options, path string) error {
	types, yield, err := columnPair(t, dataset.ColMissionType, dataset.ColScientificYield)
	if err != nil {
		return err
	}
	cats := levels(types)
	groups := make([][]float64, len(cats))
	for k, c := range cats {
		for i, v := range types {
			if v == c {
				groups[k] = append(groups[k], yield[i])
			}
		}
		groups[k] = analysis.Present(groups[k])
	}

	type shape struct{ ys, ds []float64 }
	shapes := make([]shape, len(cats))
	var peak float64
	for k, g := range groups {
		d := newDensity(g)
		if d == nil {
			continue
		}
		ys, ds := d.curve(curvePoints, 2)
		shapes[k] = shape{ys, ds}
		for _, v := range ds {
			if v > peak {
				peak = v
			}
		}
	}
	if peak == 0 {
		return fmt.Errorf("%s: %w", dataset.ColScientificYield, dataset.ErrNoData)
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = dataset.ColMissionType
	p.Y.Label.Text = dataset.ColScientificYield
	for k, s := range shapes {
		if len(s.ys) == 0 {
			continue
		}
		center := float64(k)
		outline := make(plotter.XYs, 0, 2*len(s.ys))
		for i := range s.ys {
			outline = append(outline, plotter.XY{X: center + s.ds[i]/peak*violinHalf, Y: s.ys[i]})
		}
		for i := len(s.ys) - 1; i >= 0; i-- {
			outline = append(outline, plotter.XY{X: center - s.ds[i]/peak*violinHalf, Y: s.ys[i]})
		}
		poly, err := plotter.NewPolygon(outline)
		if err != nil {
			return err
		}
		poly.Color = pastel(hueColor(k), 0.4)
		poly.LineStyle.Color = hueColor(k)
		p.Add(poly)

		if err := addInnerBox(p, center, groups[k]); err != nil {
			return err
		}
	}
	p.X.Tick.Marker = categoryTicks(cats)
	p.X.Min, p.X.Max = -0.5, float64(len(cats))-0.5

	w, h := opt.size(1.25, 1)
	return p.Save(w, h, path)
}

// addInnerBox draws the interquartile bar and a median dot inside a violin.
func addInnerBox(p *plot.Plot, center float64, vals []float64) error {
	if len(vals) == 0 {
		return nil
	}
	sorted := append([]float64(nil), vals...)
	sort.Float64s(sorted)
	q1, med, q3 := analysis.Quantile(sorted, 0.25), analysis.Quantile(sorted, 0.5), analysis.Quantile(sorted, 0.75)
	bar, err := plotter.NewLine(plotter.XYs{{X: center, Y: q1}, {X: center, Y: q3}})
	if err != nil {
		return err
	}
	bar.LineStyle.Width = vg.Points(4)
	bar.LineStyle.Color = color.RGBA{A: 255, R: 60, G: 60, B: 60}
	dot, err := plotter.NewScatter(plotter.XYs{{X: center, Y: med}})
	if err != nil {
		return err
	}
	dot.GlyphStyle.Color = color.White
	dot.GlyphStyle.Shape = draw.CircleGlyph{}
	dot.GlyphStyle.Radius = vg.Points(2)
	p.Add(bar, dot)
	return nil
}
