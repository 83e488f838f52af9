package charts

import (
	"fmt"
	"math"
	"os"

	"github.com/KaramelBytes/missioneda/internal/analysis"
	"github.com/KaramelBytes/missioneda/internal/dataset"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

const pairCellIn = 2.0

func drawPairplot(t *dataset.Table, title string, _ Options, path string) error {
	names := t.NumericColumns()
	n := len(names)
	if n == 0 {
		return fmt.Errorf("no numeric columns")
	}
	cols := make([][]float64, n)
	for i, name := range names {
		v, err := t.Floats(name)
		if err != nil {
			return err
		}
		cols[i] = v
	}

	plots := make([][]*plot.Plot, n)
	for i := range plots {
		plots[i] = make([]*plot.Plot, n)
		for j := range plots[i] {
			p := plot.New()
			if i == j {
				h, err := plotter.NewHist(plotter.Values(analysis.Present(cols[i])), 10)
				if err != nil {
					return fmt.Errorf("%s: %w", names[i], err)
				}
				h.FillColor = pastel(hueColor(0), 0.3)
				p.Add(h)
			} else {
				s, err := plotter.NewScatter(pairs(cols[j], cols[i]))
				if err != nil {
					return fmt.Errorf("%s vs %s: %w", names[i], names[j], err)
				}
				s.GlyphStyle.Color = hueColor(0)
				s.GlyphStyle.Radius = vg.Points(1.5)
				p.Add(s)
			}
			if i == n-1 {
				p.X.Label.Text = names[j]
			}
			if j == 0 {
				p.Y.Label.Text = names[i]
			}
			plots[i][j] = p
		}
	}
	plots[0][0].Title.Text = title

	side := vg.Length(pairCellIn*float64(n)) * vg.Inch
	img := vgimg.New(side, side)
	dc := draw.New(img)
	tiles := draw.Tiles{Rows: n, Cols: n, PadX: vg.Millimeter, PadY: vg.Millimeter}
	canvases := plot.Align(plots, tiles, dc)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			plots[i][j].Draw(canvases[i][j])
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	png := vgimg.PngCanvas{Canvas: img}
	if _, err := png.WriteTo(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// pairs zips two columns into points, skipping rows where either is missing.
func pairs(xs, ys []float64) plotter.XYs {
	out := make(plotter.XYs, 0, len(xs))
	for i := range xs {
		if math.IsNaN(xs[i]) || math.IsNaN(ys[i]) {
			continue
		}
		out = append(out, plotter.XY{X: xs[i], Y: ys[i]})
	}
	return out
}
