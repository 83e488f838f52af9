package charts

import (
	"fmt"
	"math"
	"sort"

	"github.com/KaramelBytes/missioneda/internal/dataset"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

func drawCostVsYield(t *dataset.Table, title string, opt Options, path string) error {
	xs, err := t.Floats(dataset.ColMissionCost)
	if err != nil {
		return err
	}
	ys, err := t.Floats(dataset.ColScientificYield)
	if err != nil {
		return err
	}
	hue, err := t.Strings(dataset.ColMissionType)
	if err != nil {
		return err
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = dataset.ColMissionCost
	p.Y.Label.Text = dataset.ColScientificYield
	p.Legend.Top = true
	for k, lvl := range levels(hue) {
		var pts plotter.XYs
		for i := range xs {
			if hue[i] == lvl && !math.IsNaN(xs[i]) && !math.IsNaN(ys[i]) {
				pts = append(pts, plotter.XY{X: xs[i], Y: ys[i]})
			}
		}
		s, err := plotter.NewScatter(pts)
		if err != nil {
			return fmt.Errorf("%s: %w", lvl, err)
		}
		s.GlyphStyle.Color = hueColor(k)
		s.GlyphStyle.Shape = draw.CircleGlyph{}
		s.GlyphStyle.Radius = vg.Points(3)
		p.Add(s)
		p.Legend.Add(lvl, s)
	}
	p.Add(plotter.NewGrid())

	w, h := opt.size(1.25, 1)
	return p.Save(w, h, path)
}

func drawCrewSwarm(t *dataset.Table, title string, opt Options, path string) error {
	vehicles, crew, err := columnPair(t, dataset.ColLaunchVehicle, dataset.ColCrewSize)
	if err != nil {
		return err
	}
	hue, err := t.Strings(dataset.ColMissionType)
	if err != nil {
		return err
	}
	cats := levels(vehicles)
	hues := levels(hue)
	catIdx := make(map[string]int, len(cats))
	for i, c := range cats {
		catIdx[c] = i
	}
	hueIdx := make(map[string]int, len(hues))
	for i, h := range hues {
		hueIdx[h] = i
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range crew {
		if !math.IsNaN(v) {
			lo, hi = math.Min(lo, v), math.Max(hi, v)
		}
	}
	minDY := (hi - lo) / 40
	if minDY <= 0 || math.IsNaN(minDY) || math.IsInf(minDY, 0) {
		minDY = 0.5
	}

	byHue := make([]plotter.XYs, len(hues))
	for k := range cats {
		var idx []int
		for i, v := range vehicles {
			if v == cats[k] && !math.IsNaN(crew[i]) {
				idx = append(idx, i)
			}
		}
		ys := make([]float64, len(idx))
		for j, i := range idx {
			ys[j] = crew[i]
		}
		offsets := swarm(ys, minDY, 0.04, 0.45)
		for j, i := range idx {
			h := hueIdx[hue[i]]
			byHue[h] = append(byHue[h], plotter.XY{X: float64(catIdx[vehicles[i]]) + offsets[j], Y: crew[i]})
		}
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = dataset.ColLaunchVehicle
	p.Y.Label.Text = dataset.ColCrewSize
	p.Legend.Top = true
	for h, pts := range byHue {
		if len(pts) == 0 {
			continue
		}
		s, err := plotter.NewScatter(pts)
		if err != nil {
			return err
		}
		s.GlyphStyle.Color = hueColor(h)
		s.GlyphStyle.Shape = draw.CircleGlyph{}
		s.GlyphStyle.Radius = vg.Points(2.5)
		p.Add(s)
		p.Legend.Add(hues[h], s)
	}
	p.X.Tick.Marker = categoryTicks(cats)
	p.X.Min, p.X.Max = -0.5, float64(len(cats))-0.5

	w, h := opt.size(1.5, 1)
	return p.Save(w, h, path)
}

// swarm assigns horizontal offsets so that no two points closer than minDY
// vertically share an offset. Points are placed in ascending order at the
// first free slot of 0, +step, -step, +2step, ... clamped to ±limit.
func swarm(ys []float64, minDY, step, limit float64) []float64 {
	order := make([]int, len(ys))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return ys[order[a]] < ys[order[b]] })

	type placed struct{ y, x float64 }
	var done []placed
	out := make([]float64, len(ys))
	for _, i := range order {
		y := ys[i]
		var x float64
		for slot := 0; ; slot++ {
			x = float64((slot+1)/2) * step
			if slot%2 == 0 {
				x = -x
			}
			if math.Abs(x) > limit {
				x = math.Copysign(limit, x)
				break
			}
			free := true
			for _, d := range done {
				if math.Abs(d.y-y) < minDY && math.Abs(d.x-x) < step/2 {
					free = false
					break
				}
			}
			if free {
				break
			}
		}
		out[i] = x
		done = append(done, placed{y, x})
	}
	return out
}

func categoryTicks(cats []string) plot.ConstantTicks {
	ticks := make([]plot.Tick, len(cats))
	for i, c := range cats {
		ticks[i] = plot.Tick{Value: float64(i), Label: c}
	}
	return plot.ConstantTicks(ticks)
}
