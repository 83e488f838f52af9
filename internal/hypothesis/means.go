package hypothesis

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// WelchT runs a two-sided two-sample t-test without assuming equal
// variances. A sample of size one makes the statistic NaN.
func WelchT(a, b []float64) (Result, error) {
	res := Result{Name: "welch t-test", Label: "T-statistic", N: []int{len(a), len(b)}, DOF: math.NaN()}
	if len(a) == 0 || len(b) == 0 {
		return res, fmt.Errorf("t-test: %w", ErrEmptySample)
	}
	n1, n2 := float64(len(a)), float64(len(b))
	m1, v1 := stat.MeanVariance(a, nil)
	m2, v2 := stat.MeanVariance(b, nil)
	s1, s2 := v1/n1, v2/n2
	se := math.Sqrt(s1 + s2)
	diff := m1 - m2

	res.DOF = (s1 + s2) * (s1 + s2) / (s1*s1/(n1-1) + s2*s2/(n2-1))
	switch {
	case math.IsNaN(se):
		res.Statistic, res.PValue = math.NaN(), math.NaN()
	case se == 0:
		res.Statistic, res.PValue = degenerate(diff)
	default:
		res.Statistic = diff / se
		res.PValue = clamp01(2 * distuv.StudentsT{Mu: 0, Sigma: 1, Nu: res.DOF}.Survival(math.Abs(res.Statistic)))
	}
	return res, nil
}

// ZTest runs a two-sided two-sample z-test on the difference of means
// using the pooled sample variance.
func ZTest(a, b []float64) (Result, error) {
	res := Result{Name: "z-test", Label: "Z-statistic", N: []int{len(a), len(b)}, DOF: math.NaN()}
	if len(a) == 0 || len(b) == 0 {
		return res, fmt.Errorf("z-test: %w", ErrEmptySample)
	}
	n1, n2 := float64(len(a)), float64(len(b))
	m1, m2 := stat.Mean(a, nil), stat.Mean(b, nil)
	pooled := (sumSq(a, m1) + sumSq(b, m2)) / (n1 + n2 - 2)
	se := math.Sqrt(pooled * (1/n1 + 1/n2))
	diff := m1 - m2
	switch {
	case math.IsNaN(se) || math.IsInf(se, 0):
		res.Statistic, res.PValue = math.NaN(), math.NaN()
	case se == 0:
		res.Statistic, res.PValue = degenerate(diff)
	default:
		res.Statistic = diff / se
		res.PValue = clamp01(2 * distuv.UnitNormal.Survival(math.Abs(res.Statistic)))
	}
	return res, nil
}

// degenerate handles samples with zero spread.
func degenerate(diff float64) (statistic, p float64) {
	if diff == 0 {
		return math.NaN(), math.NaN()
	}
	return math.Copysign(math.Inf(1), diff), 0
}

func sumSq(xs []float64, mean float64) float64 {
	var s float64
	for _, x := range xs {
		d := x - mean
		s += d * d
	}
	return s
}
