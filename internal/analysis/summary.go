package analysis

import (
	"fmt"
	"math"
	"sort"

	"github.com/KaramelBytes/missioneda/internal/dataset"
	"github.com/go-gota/gota/series"
	"gonum.org/v1/gonum/stat"
)

// ColumnStats is one row of the descriptive statistics table.
type ColumnStats struct {
	Name  string
	Count int
	Mean  float64
	Std   float64
	Min   float64
	Q25   float64
	Q50   float64
	Q75   float64
	Max   float64
}

// SchemaEntry describes one column for the schema summary.
type SchemaEntry struct {
	Name    string
	NonNull int
	Dtype   string
}

// CategoryCount is the frequency of one categorical value.
type CategoryCount struct {
	Value string
	Count int
}

// GroupValue is an aggregate computed for one group key.
type GroupValue struct {
	Key   string
	Value float64
}

// CorrMatrix holds a symmetric Pearson correlation matrix across numeric columns.
type CorrMatrix struct {
	Columns []string
	Values  [][]float64 // row-major, Values[i][j]
}

// Describe computes count, mean, sample std, min, quartiles and max for
// every numeric column. Missing cells are excluded from every statistic.
func Describe(t *dataset.Table) ([]ColumnStats, error) {
	var out []ColumnStats
	for _, name := range t.NumericColumns() {
		vals, err := t.Floats(name)
		if err != nil {
			return nil, err
		}
		xs := Present(vals)
		cs := ColumnStats{Name: name, Count: len(xs)}
		if len(xs) == 0 {
			nan := math.NaN()
			cs.Mean, cs.Std, cs.Min, cs.Q25, cs.Q50, cs.Q75, cs.Max = nan, nan, nan, nan, nan, nan, nan
			out = append(out, cs)
			continue
		}
		sort.Float64s(xs)
		cs.Mean = stat.Mean(xs, nil)
		cs.Std = stat.StdDev(xs, nil)
		cs.Min = xs[0]
		cs.Max = xs[len(xs)-1]
		cs.Q25 = Quantile(xs, 0.25)
		cs.Q50 = Quantile(xs, 0.5)
		cs.Q75 = Quantile(xs, 0.75)
		out = append(out, cs)
	}
	return out, nil
}

// Schema lists every column with its non-null count and storage type.
func Schema(t *dataset.Table) []SchemaEntry {
	nulls := dataset.NullCounts(t)
	out := make([]SchemaEntry, 0, len(nulls))
	for _, nc := range nulls {
		kind, _ := t.Kind(nc.Column)
		out = append(out, SchemaEntry{
			Name:    nc.Column,
			NonNull: t.Len() - nc.Count,
			Dtype:   dtype(nc.Column, kind),
		})
	}
	return out
}

func dtype(col string, k series.Type) string {
	if col == dataset.ColLaunchDate {
		return "datetime64[ns]"
	}
	switch k {
	case series.Int:
		return "int64"
	case series.Float:
		return "float64"
	case series.Bool:
		return "bool"
	default:
		return "object"
	}
}

// ValueCounts counts distinct values of a column, most frequent first.
// Ties keep first-appearance order.
func ValueCounts(t *dataset.Table, col string) ([]CategoryCount, error) {
	vals, err := t.Strings(col)
	if err != nil {
		return nil, err
	}
	missing, _ := t.Missing(col)
	idx := map[string]int{}
	var out []CategoryCount
	for i, v := range vals {
		if missing[i] {
			continue
		}
		j, ok := idx[v]
		if !ok {
			j = len(out)
			idx[v] = j
			out = append(out, CategoryCount{Value: v})
		}
		out[j].Count++
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out, nil
}

// GroupMean averages valueCol per distinct keyCol value, rounded to two
// decimals, ordered by key.
func GroupMean(t *dataset.Table, keyCol, valueCol string) ([]GroupValue, error) {
	groups, keys, err := group(t, keyCol, valueCol)
	if err != nil {
		return nil, err
	}
	out := make([]GroupValue, 0, len(keys))
	for _, k := range keys {
		out = append(out, GroupValue{Key: k, Value: round2(stat.Mean(groups[k], nil))})
	}
	return out, nil
}

// GroupSum totals valueCol per distinct keyCol value, rounded to two
// decimals, largest first. Equal totals are ordered by key.
func GroupSum(t *dataset.Table, keyCol, valueCol string) ([]GroupValue, error) {
	groups, keys, err := group(t, keyCol, valueCol)
	if err != nil {
		return nil, err
	}
	out := make([]GroupValue, 0, len(keys))
	for _, k := range keys {
		var s float64
		for _, v := range groups[k] {
			s += v
		}
		out = append(out, GroupValue{Key: k, Value: round2(s)})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Value > out[j].Value })
	return out, nil
}

// group buckets the present values of valueCol by keyCol and returns the
// buckets along with their keys in ascending order.
func group(t *dataset.Table, keyCol, valueCol string) (map[string][]float64, []string, error) {
	keys, err := t.Strings(keyCol)
	if err != nil {
		return nil, nil, err
	}
	keyMissing, _ := t.Missing(keyCol)
	vals, err := t.Floats(valueCol)
	if err != nil {
		return nil, nil, err
	}
	groups := map[string][]float64{}
	for i, k := range keys {
		if keyMissing[i] || math.IsNaN(vals[i]) {
			continue
		}
		groups[k] = append(groups[k], vals[i])
	}
	order := make([]string, 0, len(groups))
	for k := range groups {
		order = append(order, k)
	}
	sort.Strings(order)
	return groups, order, nil
}

// Correlations builds the Pearson correlation matrix over numeric columns.
// Pairs are computed over rows where both values are present; a constant
// column yields NaN off the diagonal.
func Correlations(t *dataset.Table) (*CorrMatrix, error) {
	names := t.NumericColumns()
	cols := make([][]float64, len(names))
	for i, n := range names {
		v, err := t.Floats(n)
		if err != nil {
			return nil, err
		}
		cols[i] = v
	}
	n := len(names)
	mat := make([][]float64, n)
	for i := range mat {
		mat[i] = make([]float64, n)
	}
	for a := 0; a < n; a++ {
		mat[a][a] = 1
		for b := a + 1; b < n; b++ {
			x, y := pairwise(cols[a], cols[b])
			r := math.NaN()
			if len(x) >= 2 {
				r = stat.Correlation(x, y, nil)
			}
			if r > 1 {
				r = 1
			} else if r < -1 {
				r = -1
			}
			mat[a][b], mat[b][a] = r, r
		}
	}
	return &CorrMatrix{Columns: names, Values: mat}, nil
}

func pairwise(a, b []float64) (x, y []float64) {
	for i := range a {
		if math.IsNaN(a[i]) || math.IsNaN(b[i]) {
			continue
		}
		x = append(x, a[i])
		y = append(y, b[i])
	}
	return x, y
}

// Present drops NaN entries.
func Present(vals []float64) []float64 {
	out := make([]float64, 0, len(vals))
	for _, v := range vals {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}

func round2(x float64) float64 { return math.Round(x*100) / 100 }

// Quantile interpolates linearly between the closest ranks of a sorted slice.
// An empty slice yields NaN.
func Quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return math.NaN()
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	w := pos - float64(lo)
	return sorted[lo]*(1-w) + sorted[hi]*w
}

func fmtFloat(x float64, prec int) string {
	if math.IsNaN(x) {
		return "NaN"
	}
	return fmt.Sprintf("%.*f", prec, x)
}
