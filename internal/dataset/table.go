package dataset

import (
	"fmt"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// Column names of the mission dataset.
const (
	ColLaunchDate      = "Launch Date"
	ColTargetType      = "Target Type"
	ColTargetName      = "Target Name"
	ColMissionType     = "Mission Type"
	ColLaunchVehicle   = "Launch Vehicle"
	ColMissionCost     = "Mission Cost (billion USD)"
	ColMissionSuccess  = "Mission Success (%)"
	ColScientificYield = "Scientific Yield (points)"
	ColFuelConsumption = "Fuel Consumption (tons)"
	ColDistance        = "Distance from Earth (light-years)"
	ColCrewSize        = "Crew Size"
)

// Table is an in-memory mission table. Column types are inferred from the
// input; Launch Date is additionally kept as parsed calendar dates.
// A Table is never modified after construction; accessors return copies.
type Table struct {
	Name  string
	df    dataframe.DataFrame
	dates []time.Time
}

// Len returns the number of rows.
func (t *Table) Len() int { return t.df.Nrow() }

// Columns returns the column names in file order.
func (t *Table) Columns() []string { return t.df.Names() }

// HasColumn reports whether the named column exists.
func (t *Table) HasColumn(name string) bool {
	for _, n := range t.df.Names() {
		if n == name {
			return true
		}
	}
	return false
}

func (t *Table) col(name string) (series.Series, error) {
	if !t.HasColumn(name) {
		return series.Series{}, fmt.Errorf("%w: %q", ErrColumnNotFound, name)
	}
	return t.df.Col(name), nil
}

// Kind returns the inferred series type of a column.
func (t *Table) Kind(name string) (series.Type, error) {
	s, err := t.col(name)
	if err != nil {
		return "", err
	}
	return s.Type(), nil
}

// IsNumeric reports whether a column holds integers or floats. Launch Date
// is never numeric.
func (t *Table) IsNumeric(name string) bool {
	if name == ColLaunchDate {
		return false
	}
	k, err := t.Kind(name)
	if err != nil {
		return false
	}
	return k == series.Int || k == series.Float
}

// NumericColumns lists numeric columns in file order.
func (t *Table) NumericColumns() []string {
	var out []string
	for _, n := range t.df.Names() {
		if t.IsNumeric(n) {
			out = append(out, n)
		}
	}
	return out
}

// Floats returns a numeric column as float64; missing cells are NaN.
func (t *Table) Floats(name string) ([]float64, error) {
	s, err := t.col(name)
	if err != nil {
		return nil, err
	}
	if !t.IsNumeric(name) {
		return nil, fmt.Errorf("%w: %q", ErrNotNumeric, name)
	}
	return s.Float(), nil
}

// Strings returns a column rendered as strings; missing cells read "NaN".
func (t *Table) Strings(name string) ([]string, error) {
	s, err := t.col(name)
	if err != nil {
		return nil, err
	}
	return s.Records(), nil
}

// Missing returns the per-row missing mask for a column.
func (t *Table) Missing(name string) ([]bool, error) {
	s, err := t.col(name)
	if err != nil {
		return nil, err
	}
	return s.IsNaN(), nil
}

// LaunchDates returns the parsed launch dates; missing dates are the zero time.
func (t *Table) LaunchDates() []time.Time {
	out := make([]time.Time, len(t.dates))
	copy(out, t.dates)
	return out
}

// FloatsWhere returns the numeric column valueCol restricted to rows whose
// keyCol equals key. The result is empty, not an error, when no row matches.
func (t *Table) FloatsWhere(keyCol, key, valueCol string) ([]float64, error) {
	keys, err := t.Strings(keyCol)
	if err != nil {
		return nil, err
	}
	vals, err := t.Floats(valueCol)
	if err != nil {
		return nil, err
	}
	var out []float64
	for i, k := range keys {
		if k == key {
			out = append(out, vals[i])
		}
	}
	return out, nil
}

// Rows returns rows [from, to) as display strings in column order.
func (t *Table) Rows(from, to int) [][]string {
	if from < 0 {
		from = 0
	}
	if to > t.Len() {
		to = t.Len()
	}
	if from >= to {
		return nil
	}
	recs := t.df.Records() // first record is the header
	out := make([][]string, 0, to-from)
	for _, r := range recs[from+1 : to+1] {
		row := make([]string, len(r))
		copy(row, r)
		out = append(out, row)
	}
	return out
}

// Head returns up to n leading rows.
func (t *Table) Head(n int) [][]string { return t.Rows(0, n) }

// Tail returns up to n trailing rows.
func (t *Table) Tail(n int) [][]string { return t.Rows(t.Len()-n, t.Len()) }

// subset keeps the given row indexes, in order.
func (t *Table) subset(idx []int) *Table {
	dates := make([]time.Time, len(idx))
	for i, j := range idx {
		dates[i] = t.dates[j]
	}
	return &Table{Name: t.Name, df: t.df.Subset(idx), dates: dates}
}
