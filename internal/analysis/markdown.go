package analysis

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/KaramelBytes/missioneda/internal/hypothesis"
)

// Markdown renders the report as a standalone document. Test results are
// included when tests is non-empty.
func (r *Report) Markdown(tests []hypothesis.Result) string {
	var b strings.Builder
	b.WriteString("[DATASET SUMMARY]\n")
	if r.Name != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", r.Name))
	}
	b.WriteString(fmt.Sprintf("Rows: %d\n", r.Rows))
	b.WriteString(fmt.Sprintf("Columns: %d\n\n", len(r.Schema)))

	stats := make(map[string]ColumnStats, len(r.Describe))
	for _, c := range r.Describe {
		stats[c.Name] = c
	}
	b.WriteString("[SCHEMA]\n")
	for _, s := range r.Schema {
		b.WriteString(fmt.Sprintf("- %s: %s (non-null %d)", safeName(s.Name), s.Dtype, s.NonNull))
		if c, ok := stats[s.Name]; ok {
			b.WriteString(fmt.Sprintf(": min %.4g, max %.4g, mean %.4g, std %.4g", c.Min, c.Max, c.Mean, c.Std))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n[MISSION COUNTS BY TARGET TYPE]\n")
	rows := make([][]string, len(r.TargetCounts))
	for i, c := range r.TargetCounts {
		rows[i] = []string{c.Value, strconv.Itoa(c.Count)}
	}
	mdTable(&b, []string{"Target Type", "count"}, rows)

	mdGroups(&b, "AVG. MISSION SUCCESS BY MISSION TYPE", r.SuccessByType)
	mdGroups(&b, "AVG. SCIENTIFIC YIELD BY LAUNCH VEHICLE", r.YieldByVehicle)
	mdGroups(&b, "TOTAL FUEL CONSUMPTION PER TARGET", r.FuelByTarget)

	if r.Corr != nil && len(r.Corr.Columns) >= 2 {
		b.WriteString("\n[CORRELATIONS]\n")
		// list top pairs by |r|
		type pr struct {
			A, B string
			R    float64
		}
		var pairs []pr
		n := len(r.Corr.Columns)
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				if math.IsNaN(r.Corr.Values[i][j]) {
					continue
				}
				pairs = append(pairs, pr{A: r.Corr.Columns[i], B: r.Corr.Columns[j], R: r.Corr.Values[i][j]})
			}
		}
		sort.Slice(pairs, func(i, j int) bool {
			ai := math.Abs(pairs[i].R)
			aj := math.Abs(pairs[j].R)
			if ai == aj {
				return pairs[i].A+pairs[i].B < pairs[j].A+pairs[j].B
			}
			return ai > aj
		})
		maxp := 10
		if len(pairs) < maxp {
			maxp = len(pairs)
		}
		for i := 0; i < maxp; i++ {
			b.WriteString(fmt.Sprintf("- %s ~ %s: r=%.3f\n", pairs[i].A, pairs[i].B, pairs[i].R))
		}
	}

	if len(tests) > 0 {
		b.WriteString("\n[HYPOTHESIS TESTS]\n")
		for _, t := range tests {
			b.WriteString(fmt.Sprintf("- %s: %s\n", t.Name, t.String()))
		}
	}
	return b.String()
}

func mdGroups(b *strings.Builder, title string, groups []GroupValue) {
	b.WriteString("\n[" + title + "]\n")
	rows := make([][]string, len(groups))
	for i, g := range groups {
		rows[i] = []string{g.Key, fmtFloat(g.Value, 2)}
	}
	mdTable(b, []string{"group", "value"}, rows)
}

func mdTable(b *strings.Builder, header []string, rows [][]string) {
	b.WriteString("| ")
	for i, h := range header {
		if i > 0 {
			b.WriteString(" | ")
		}
		b.WriteString(safeName(h))
	}
	b.WriteString(" |\n|")
	for range header {
		b.WriteString(" --- |")
	}
	b.WriteString("\n")
	for _, row := range rows {
		b.WriteString("| ")
		for i := range header {
			if i > 0 {
				b.WriteString(" | ")
			}
			val := ""
			if i < len(row) {
				val = row[i]
			}
			b.WriteString(safeVal(val))
		}
		b.WriteString(" |\n")
	}
}

func safeName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "(unnamed)"
	}
	return s
}

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }
