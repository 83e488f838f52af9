package charts

import (
	"context"
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"github.com/KaramelBytes/missioneda/internal/dataset"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// Options controls chart rendering.
type Options struct {
	Dir      string  // output directory, created if missing
	WidthIn  float64 // base figure width in inches
	HeightIn float64 // base figure height in inches
	Bins     int     // histogram bins for the distance chart
}

// DefaultOptions returns the figure defaults used by the CLI.
func DefaultOptions(dir string) Options {
	return Options{Dir: dir, WidthIn: 8, HeightIn: 6, Bins: 15}
}

func (o Options) size(wScale, hScale float64) (vg.Length, vg.Length) {
	w, h := o.WidthIn, o.HeightIn
	if w <= 0 {
		w = 8
	}
	if h <= 0 {
		h = 6
	}
	return vg.Length(w*wScale) * vg.Inch, vg.Length(h*hScale) * vg.Inch
}

// Artifact is one chart written to disk.
type Artifact struct {
	Name  string `json:"name"`
	Title string `json:"title"`
	Path  string `json:"path"`
}

type drawFunc func(t *dataset.Table, title string, opt Options, path string) error

type chartSpec struct {
	name  string
	title string
	draw  drawFunc
}

// catalog is the fixed chart order.
var catalog = []chartSpec{
	{"correlation_heatmap", "Correlation Heatmap", drawHeatmap},
	{"pairplot", "Pairplot of Numeric Features", drawPairplot},
	{"cost_vs_yield", "Scatterplot: Mission Cost vs Scientific Yield", drawCostVsYield},
	{"distance_histogram", "Histogram + KDE: Distance from Earth", drawDistanceHistogram},
	{"yield_violin", "Violin Plot: Scientific Yield by Mission Type", drawYieldViolin},
	{"crew_swarm", "Swarmplot: Crew Size by Launch Vehicle", drawCrewSwarm},
	{"fuel_density", "KDE Plot: Fuel Consumption", drawFuelDensity},
	{"cost_by_target", "Barplot: Avg Mission Cost by Target Type", drawCostByTarget},
}

// Names lists the chart file names in render order.
func Names() []string {
	out := make([]string, len(catalog))
	for i, c := range catalog {
		out[i] = fileName(i, c.name)
	}
	return out
}

func fileName(i int, name string) string { return fmt.Sprintf("%02d_%s.png", i+1, name) }

// Render draws every chart in order into opt.Dir. It stops at the first
// failure and returns the artifacts written so far.
func Render(ctx context.Context, t *dataset.Table, opt Options) ([]Artifact, error) {
	if t.Len() == 0 {
		return nil, fmt.Errorf("render charts: %w", dataset.ErrNoData)
	}
	if err := os.MkdirAll(opt.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create chart dir: %w", err)
	}
	if opt.Bins <= 0 {
		opt.Bins = 15
	}
	var out []Artifact
	for i, c := range catalog {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		p := filepath.Join(opt.Dir, fileName(i, c.name))
		if err := c.draw(t, c.title, opt, p); err != nil {
			return out, fmt.Errorf("%s: %w", c.name, err)
		}
		out = append(out, Artifact{Name: c.name, Title: c.title, Path: p})
	}
	return out, nil
}

// levels returns distinct values in first-appearance order.
func levels(vals []string) []string {
	seen := map[string]bool{}
	var out []string
	for _, v := range vals {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}

// columnPair fetches a categorical and a numeric column of equal length.
func columnPair(t *dataset.Table, catCol, numCol string) ([]string, []float64, error) {
	cats, err := t.Strings(catCol)
	if err != nil {
		return nil, nil, err
	}
	nums, err := t.Floats(numCol)
	if err != nil {
		return nil, nil, err
	}
	return cats, nums, nil
}

// pastel lightens a palette colour toward white.
func pastel(c color.Color, amount float64) color.RGBA {
	r, g, b, _ := c.RGBA()
	mix := func(v uint32) uint8 {
		f := float64(v>>8)*(1-amount) + 255*amount
		return uint8(f)
	}
	return color.RGBA{R: mix(r), G: mix(g), B: mix(b), A: 255}
}

func hueColor(i int) color.Color { return plotutil.Color(i) }
