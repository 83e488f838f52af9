package hypothesis

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat/distuv"
)

// Contingency is a cross-tabulation of counts for two categorical variables.
type Contingency struct {
	Rows   []string
	Cols   []string
	Counts [][]float64 // Counts[i][j] for Rows[i] × Cols[j]
}

// Crosstab counts co-occurrences of rowKeys[i] and colKeys[i]. Row and
// column labels are sorted ascending.
func Crosstab(rowKeys, colKeys []string) (Contingency, error) {
	if len(rowKeys) != len(colKeys) {
		return Contingency{}, fmt.Errorf("crosstab: length mismatch %d != %d", len(rowKeys), len(colKeys))
	}
	rows, cols := distinct(rowKeys), distinct(colKeys)
	ri := index(rows)
	ci := index(cols)
	counts := make([][]float64, len(rows))
	for i := range counts {
		counts[i] = make([]float64, len(cols))
	}
	for i := range rowKeys {
		counts[ri[rowKeys[i]]][ci[colKeys[i]]]++
	}
	return Contingency{Rows: rows, Cols: cols, Counts: counts}, nil
}

// ChiSquare runs Pearson's chi-square test of independence on a contingency
// table. A 2×2 table (one degree of freedom) gets Yates' continuity
// correction. A table with zero degrees of freedom yields statistic 0 and p 1.
func ChiSquare(c Contingency) (Result, error) {
	r, k := len(c.Rows), len(c.Cols)
	res := Result{Name: "chi-square", Label: "Chi2", N: []int{r, k}}
	if r == 0 || k == 0 {
		return res, fmt.Errorf("chi-square: %w", ErrEmptySample)
	}
	rowSum := make([]float64, r)
	colSum := make([]float64, k)
	var total float64
	for i := 0; i < r; i++ {
		for j := 0; j < k; j++ {
			v := c.Counts[i][j]
			rowSum[i] += v
			colSum[j] += v
			total += v
		}
	}
	if total == 0 {
		return res, fmt.Errorf("chi-square: %w", ErrEmptySample)
	}
	dof := float64((r - 1) * (k - 1))
	res.DOF = dof

	var chi2 float64
	for i := 0; i < r; i++ {
		for j := 0; j < k; j++ {
			exp := rowSum[i] * colSum[j] / total
			if exp == 0 {
				return res, fmt.Errorf("chi-square: %w at (%s, %s)", ErrZeroExpected, c.Rows[i], c.Cols[j])
			}
			obs := c.Counts[i][j]
			if dof == 1 {
				diff := exp - obs
				obs += math.Copysign(math.Min(0.5, math.Abs(diff)), diff)
			}
			d := obs - exp
			chi2 += d * d / exp
		}
	}
	if dof == 0 {
		res.Statistic, res.PValue = 0, 1
		return res, nil
	}
	res.Statistic = chi2
	res.PValue = clamp01(distuv.ChiSquared{K: dof}.Survival(chi2))
	return res, nil
}

func distinct(keys []string) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, k := range keys {
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func index(keys []string) map[string]int {
	m := make(map[string]int, len(keys))
	for i, k := range keys {
		m[k] = i
	}
	return m
}

func clamp01(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}
