package charts

import (
	"fmt"
	"math"

	"github.com/KaramelBytes/missioneda/internal/analysis"
	"github.com/KaramelBytes/missioneda/internal/dataset"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
)

// corrGrid adapts a correlation matrix to plotter.GridXYZ with the first
// column drawn at the top.
type corrGrid struct{ m *analysis.CorrMatrix }

func (g corrGrid) Dims() (c, r int) { n := len(g.m.Columns); return n, n }
func (g corrGrid) Z(c, r int) float64 {
	n := len(g.m.Columns)
	return g.m.Values[n-1-r][c]
}
func (g corrGrid) X(c int) float64 { return float64(c) }
func (g corrGrid) Y(r int) float64 { return float64(r) }

func drawHeatmap(t *dataset.Table, title string, opt Options, path string) error {
	m, err := analysis.Correlations(t)
	if err != nil {
		return err
	}
	n := len(m.Columns)
	if n < 2 {
		return fmt.Errorf("need at least two numeric columns, have %d", n)
	}

	cm := moreland.SmoothBlueRed()
	cm.SetMin(-1)
	cm.SetMax(1)
	hm := plotter.NewHeatMap(corrGrid{m}, cm.Palette(255))
	hm.Min, hm.Max = -1, 1
	hm.NaN = pastel(hueColor(7), 0.8)

	var xys plotter.XYs
	var labels []string
	g := corrGrid{m}
	for c := 0; c < n; c++ {
		for r := 0; r < n; r++ {
			xys = append(xys, plotter.XY{X: float64(c), Y: float64(r)})
			z := g.Z(c, r)
			if math.IsNaN(z) {
				labels = append(labels, "NaN")
				continue
			}
			labels = append(labels, fmt.Sprintf("%.2f", z))
		}
	}
	annot, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: labels})
	if err != nil {
		return err
	}
	for i := range annot.TextStyle {
		annot.TextStyle[i].XAlign = text.XCenter
		annot.TextStyle[i].YAlign = text.YCenter
	}

	xt := make([]plot.Tick, n)
	yt := make([]plot.Tick, n)
	for i, name := range m.Columns {
		xt[i] = plot.Tick{Value: float64(i), Label: name}
		yt[n-1-i] = plot.Tick{Value: float64(n - 1 - i), Label: name}
	}

	p := plot.New()
	p.Title.Text = title
	p.Add(hm, annot)
	p.X.Tick.Marker = plot.ConstantTicks(xt)
	p.X.Tick.Label.Rotation = math.Pi / 6
	p.X.Tick.Label.XAlign = text.XRight
	p.Y.Tick.Marker = plot.ConstantTicks(yt)
	p.X.Min, p.X.Max = -0.5, float64(n)-0.5
	p.Y.Min, p.Y.Max = -0.5, float64(n)-0.5

	w, h := opt.size(1.5, 4.0/3.0)
	return p.Save(w, h, path)
}
