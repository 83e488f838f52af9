package analysis

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/KaramelBytes/missioneda/internal/dataset"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
)

// Report gathers every summary table printed for a cleaned mission table.
type Report struct {
	Name           string
	Rows           int
	Describe       []ColumnStats
	Schema         []SchemaEntry
	TargetCounts   []CategoryCount
	SuccessByType  []GroupValue
	YieldByVehicle []GroupValue
	FuelByTarget   []GroupValue
	Corr           *CorrMatrix
}

// Build computes the report tables. It fails if a referenced column is
// absent or not numeric.
func Build(t *dataset.Table) (*Report, error) {
	rep := &Report{Name: t.Name, Rows: t.Len(), Schema: Schema(t)}
	var err error
	if rep.Describe, err = Describe(t); err != nil {
		return nil, fmt.Errorf("describe: %w", err)
	}
	if rep.TargetCounts, err = ValueCounts(t, dataset.ColTargetType); err != nil {
		return nil, fmt.Errorf("value counts: %w", err)
	}
	if rep.SuccessByType, err = GroupMean(t, dataset.ColMissionType, dataset.ColMissionSuccess); err != nil {
		return nil, fmt.Errorf("success by mission type: %w", err)
	}
	if rep.YieldByVehicle, err = GroupMean(t, dataset.ColLaunchVehicle, dataset.ColScientificYield); err != nil {
		return nil, fmt.Errorf("yield by launch vehicle: %w", err)
	}
	if rep.FuelByTarget, err = GroupSum(t, dataset.ColTargetName, dataset.ColFuelConsumption); err != nil {
		return nil, fmt.Errorf("fuel by target: %w", err)
	}
	if rep.Corr, err = Correlations(t); err != nil {
		return nil, fmt.Errorf("correlations: %w", err)
	}
	return rep, nil
}

// Write prints all report tables in order.
func (r *Report) Write(w io.Writer) {
	Heading(w, "Table 1: Descriptive Statistics")
	tw := newTable(w, []string{"", "count", "mean", "std", "min", "25%", "50%", "75%", "max"})
	for _, c := range r.Describe {
		tw.Append([]string{
			c.Name, strconv.Itoa(c.Count),
			fmtFloat(c.Mean, 6), fmtFloat(c.Std, 6), fmtFloat(c.Min, 6), fmtFloat(c.Q25, 6),
			fmtFloat(c.Q50, 6), fmtFloat(c.Q75, 6), fmtFloat(c.Max, 6),
		})
	}
	tw.Render()

	Heading(w, "Schema")
	fmt.Fprintf(w, "%d entries, %d columns\n", r.Rows, len(r.Schema))
	tw = newTable(w, []string{"#", "Column", "Non-Null Count", "Dtype"})
	for i, s := range r.Schema {
		tw.Append([]string{strconv.Itoa(i), s.Name, fmt.Sprintf("%d non-null", s.NonNull), s.Dtype})
	}
	tw.Render()

	Heading(w, "Table 2: Mission Counts by Target Type")
	tw = newTable(w, []string{dataset.ColTargetType, "count"})
	for _, c := range r.TargetCounts {
		tw.Append([]string{c.Value, strconv.Itoa(c.Count)})
	}
	tw.Render()

	writeGroups(w, "Table 3: Avg. Mission Success by Mission Type", dataset.ColMissionType, dataset.ColMissionSuccess, r.SuccessByType)
	writeGroups(w, "Table 4: Avg. Scientific Yield by Launch Vehicle", dataset.ColLaunchVehicle, dataset.ColScientificYield, r.YieldByVehicle)
	writeGroups(w, "Table 5: Total Fuel Consumption per Target", dataset.ColTargetName, dataset.ColFuelConsumption, r.FuelByTarget)
}

func writeGroups(w io.Writer, title, keyCol, valueCol string, groups []GroupValue) {
	Heading(w, title)
	tw := newTable(w, []string{keyCol, valueCol})
	for _, g := range groups {
		tw.Append([]string{g.Key, fmtFloat(g.Value, 2)})
	}
	tw.Render()
}

// WriteNullCounts prints per-column missing counts.
func WriteNullCounts(w io.Writer, nulls []dataset.NullCount) {
	Heading(w, "Null Values in Each Column")
	tw := newTable(w, []string{"Column", "Nulls"})
	for _, n := range nulls {
		tw.Append([]string{n.Column, strconv.Itoa(n.Count)})
	}
	tw.Render()
}

// WriteRows prints raw rows under a heading.
func WriteRows(w io.Writer, title string, header []string, rows [][]string) {
	Heading(w, title)
	tw := newTable(w, header)
	tw.AppendBulk(rows)
	tw.Render()
}

var headingColor = color.New(color.FgCyan, color.Bold)

// Heading prints a section title. Only output going straight to stdout is
// coloured, so tee'd files and buffers stay plain text.
func Heading(w io.Writer, title string) {
	if f, ok := w.(*os.File); ok && f == os.Stdout {
		headingColor.Fprintf(w, "\n=== %s ===\n", title)
		return
	}
	fmt.Fprintf(w, "\n=== %s ===\n", title)
}

func newTable(w io.Writer, header []string) *tablewriter.Table {
	tw := tablewriter.NewWriter(w)
	tw.SetHeader(header)
	tw.SetAutoFormatHeaders(false)
	tw.SetAutoWrapText(false)
	tw.SetAlignment(tablewriter.ALIGN_RIGHT)
	return tw
}
