package dataset

// NullCount is the number of missing cells in one column.
type NullCount struct {
	Column string `json:"column"`
	Count  int    `json:"count"`
}

// CleanReport summarizes a DropMissing pass.
type CleanReport struct {
	RowsBefore int         `json:"rows_before"`
	RowsAfter  int         `json:"rows_after"`
	Nulls      []NullCount `json:"nulls"`
}

// Removed returns the number of dropped rows.
func (r CleanReport) Removed() int { return r.RowsBefore - r.RowsAfter }

// NullCounts returns per-column missing counts in column order.
func NullCounts(t *Table) []NullCount {
	cols := t.Columns()
	out := make([]NullCount, 0, len(cols))
	for _, c := range cols {
		mask, _ := t.Missing(c)
		n := 0
		for _, m := range mask {
			if m {
				n++
			}
		}
		out = append(out, NullCount{Column: c, Count: n})
	}
	return out
}

// DropMissing returns a new table without any row that has a missing value
// in any column. The input table is left untouched.
func DropMissing(t *Table) (*Table, CleanReport) {
	rep := CleanReport{RowsBefore: t.Len(), Nulls: NullCounts(t)}
	drop := make([]bool, t.Len())
	for _, c := range t.Columns() {
		mask, _ := t.Missing(c)
		for i, m := range mask {
			if m {
				drop[i] = true
			}
		}
	}
	keep := make([]int, 0, t.Len())
	for i, d := range drop {
		if !d {
			keep = append(keep, i)
		}
	}
	out := t
	if len(keep) != t.Len() {
		out = t.subset(keep)
	}
	rep.RowsAfter = out.Len()
	return out, rep
}
