package charts

import (
	"math"

	"github.com/aclements/go-moremath/stats"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// density is a Gaussian kernel density estimate over one sample.
type density struct {
	kde       *stats.KDE
	bandwidth float64
	min, max  float64
}

// newDensity builds a KDE with Scott's bandwidth, sigma * n^(-1/5).
// Degenerate samples (one value, or no spread) fall back to a unit bandwidth.
func newDensity(xs []float64) *density {
	clean := make([]float64, 0, len(xs))
	for _, x := range xs {
		if !math.IsNaN(x) {
			clean = append(clean, x)
		}
	}
	if len(clean) == 0 {
		return nil
	}
	bw := 1.0
	if len(clean) > 1 {
		if sd := stat.StdDev(clean, nil); sd > 0 && !math.IsNaN(sd) {
			bw = sd * math.Pow(float64(len(clean)), -0.2)
		}
	}
	return &density{
		kde: &stats.KDE{
			Sample:      stats.Sample{Xs: clean},
			Kernel:      stats.GaussianKernel,
			Bandwidth:   bw,
			BoundaryMin: math.Inf(-1),
			BoundaryMax: math.Inf(1),
		},
		bandwidth: bw,
		min:       floats.Min(clean),
		max:       floats.Max(clean),
	}
}

// curve evaluates the density on n evenly spaced points spanning the data
// range extended by cut bandwidths on each side.
func (d *density) curve(n int, cut float64) (xs, ys []float64) {
	lo := d.min - cut*d.bandwidth
	hi := d.max + cut*d.bandwidth
	xs = make([]float64, n)
	floats.Span(xs, lo, hi)
	ys = make([]float64, n)
	for i, x := range xs {
		ys[i] = d.kde.PDF(x)
	}
	return xs, ys
}
