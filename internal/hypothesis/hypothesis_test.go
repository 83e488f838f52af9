package hypothesis

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/KaramelBytes/missioneda/internal/dataset"
)

func near(a, b, tol float64) bool { return math.Abs(a-b) <= tol }

func TestWelchTKnownValues(t *testing.T) {
	res, err := WelchT([]float64{1, 3}, []float64{4, 6})
	if err != nil {
		t.Fatalf("WelchT: %v", err)
	}
	if !near(res.Statistic, -2.1213203435596424, 1e-12) {
		t.Fatalf("statistic: got %v", res.Statistic)
	}
	if !near(res.DOF, 2, 1e-12) {
		t.Fatalf("dof: got %v", res.DOF)
	}
	if !near(res.PValue, 0.1679497056621564, 1e-8) {
		t.Fatalf("p-value: got %v", res.PValue)
	}
}

func TestZTestKnownValues(t *testing.T) {
	res, err := ZTest([]float64{1, 2, 3}, []float64{4, 5, 6, 7})
	if err != nil {
		t.Fatalf("ZTest: %v", err)
	}
	if !near(res.Statistic, -3.872983346207417, 1e-12) {
		t.Fatalf("statistic: got %v", res.Statistic)
	}
	if !near(res.PValue, 0.00010751117672950056, 1e-10) {
		t.Fatalf("p-value: got %v", res.PValue)
	}
}

func TestSwappingSamplesFlipsSignOnly(t *testing.T) {
	a := []float64{12.1, 14.3, 9.8, 11.0, 13.7}
	b := []float64{8.2, 10.4, 7.9, 9.1}
	for name, fn := range map[string]func(a, b []float64) (Result, error){"welch": WelchT, "z": ZTest} {
		ab, err := fn(a, b)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		ba, err := fn(b, a)
		if err != nil {
			t.Fatalf("%s swapped: %v", name, err)
		}
		if !near(ab.Statistic, -ba.Statistic, 1e-12) {
			t.Fatalf("%s: statistic %v vs swapped %v", name, ab.Statistic, ba.Statistic)
		}
		if ab.PValue != ba.PValue {
			t.Fatalf("%s: p-value %v vs swapped %v", name, ab.PValue, ba.PValue)
		}
		if ab.PValue < 0 || ab.PValue > 1 {
			t.Fatalf("%s: p-value out of range: %v", name, ab.PValue)
		}
	}
}

func TestEmptySamples(t *testing.T) {
	if _, err := WelchT(nil, []float64{1, 2}); !errors.Is(err, ErrEmptySample) {
		t.Fatalf("welch: expected ErrEmptySample, got %v", err)
	}
	if _, err := ZTest([]float64{1, 2}, nil); !errors.Is(err, ErrEmptySample) {
		t.Fatalf("z: expected ErrEmptySample, got %v", err)
	}
	if _, err := ChiSquare(Contingency{}); !errors.Is(err, ErrEmptySample) {
		t.Fatalf("chi: expected ErrEmptySample, got %v", err)
	}
}

func TestWelchSingletonIsNaN(t *testing.T) {
	res, err := WelchT([]float64{5}, []float64{1, 2, 3})
	if err != nil {
		t.Fatalf("WelchT: %v", err)
	}
	if !math.IsNaN(res.Statistic) || !math.IsNaN(res.PValue) {
		t.Fatalf("expected NaN result, got %+v", res)
	}
	if got := res.String(); got != "T-statistic = NaN, p-value = NaN" {
		t.Fatalf("unexpected rendering %q", got)
	}
}

func TestChiSquareKnownValues(t *testing.T) {
	ct := Contingency{
		Rows:   []string{"A", "B", "C"},
		Cols:   []string{"X", "Y"},
		Counts: [][]float64{{10, 20}, {20, 20}, {30, 10}},
	}
	res, err := ChiSquare(ct)
	if err != nil {
		t.Fatalf("ChiSquare: %v", err)
	}
	if res.DOF != 2 {
		t.Fatalf("dof: got %v", res.DOF)
	}
	if !near(res.Statistic, 12.52777777777778, 1e-9) {
		t.Fatalf("statistic: got %v", res.Statistic)
	}
	if !near(res.PValue, 0.001903827607695494, 1e-9) {
		t.Fatalf("p-value: got %v", res.PValue)
	}
}

func TestChiSquareYatesCorrection(t *testing.T) {
	ct := Contingency{
		Rows:   []string{"A", "B"},
		Cols:   []string{"X", "Y"},
		Counts: [][]float64{{12, 5}, {3, 10}},
	}
	res, err := ChiSquare(ct)
	if err != nil {
		t.Fatalf("ChiSquare: %v", err)
	}
	if !near(res.Statistic, 4.886877828054299, 1e-9) {
		t.Fatalf("statistic: got %v", res.Statistic)
	}
	if !near(res.PValue, 0.027061581911647137, 1e-8) {
		t.Fatalf("p-value: got %v", res.PValue)
	}
}

func TestChiSquareDegenerateAndZeroExpected(t *testing.T) {
	res, err := ChiSquare(Contingency{Rows: []string{"A"}, Cols: []string{"X", "Y"}, Counts: [][]float64{{3, 4}}})
	if err != nil {
		t.Fatalf("ChiSquare: %v", err)
	}
	if res.Statistic != 0 || res.PValue != 1 {
		t.Fatalf("zero-dof table should give 0 and 1, got %+v", res)
	}
	_, err = ChiSquare(Contingency{Rows: []string{"A", "B"}, Cols: []string{"X", "Y"}, Counts: [][]float64{{3, 0}, {4, 0}}})
	if !errors.Is(err, ErrZeroExpected) {
		t.Fatalf("expected ErrZeroExpected, got %v", err)
	}
}

func TestCrosstab(t *testing.T) {
	ct, err := Crosstab([]string{"SLS", "Starship", "SLS", "SLS"}, []string{"Research", "Mining", "Mining", "Research"})
	if err != nil {
		t.Fatalf("Crosstab: %v", err)
	}
	if strings.Join(ct.Rows, ",") != "SLS,Starship" || strings.Join(ct.Cols, ",") != "Mining,Research" {
		t.Fatalf("unexpected labels %v %v", ct.Rows, ct.Cols)
	}
	if ct.Counts[0][0] != 1 || ct.Counts[0][1] != 2 || ct.Counts[1][0] != 1 || ct.Counts[1][1] != 0 {
		t.Fatalf("unexpected counts %v", ct.Counts)
	}
	if _, err := Crosstab([]string{"a"}, nil); err == nil {
		t.Fatal("expected length mismatch error")
	}
}

func TestResultJSONEncodesNaNAsNull(t *testing.T) {
	b, err := json.Marshal(Result{Name: "z-test", Statistic: math.NaN(), PValue: 0.5, DOF: math.NaN(), N: []int{1, 2}})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	s := string(b)
	if !strings.Contains(s, `"statistic":null`) || !strings.Contains(s, `"p_value":0.5`) || strings.Contains(s, "dof") {
		t.Fatalf("unexpected json %s", s)
	}
}

func TestRunSuiteOnMissionTable(t *testing.T) {
	rows := []string{
		"Launch Date,Target Type,Target Name,Mission Type,Launch Vehicle,Mission Cost (billion USD),Mission Success (%),Scientific Yield (points),Fuel Consumption (tons),Distance from Earth (light-years),Crew Size",
		"2025-01-01,Moon,Titan,Research,SLS,10.0,90,10,100,0.5,5",
		"2025-01-02,Moon,Europa,Research,Starship,20.0,80,20,300,0.6,10",
		"2025-01-03,Exoplanet,Titan,Research,SLS,30.0,70,30,150,4.2,15",
		"2025-01-04,Exoplanet,Mars,Colonization,Starship,40.0,60,50,120,0.1,20",
		"2025-01-05,Exoplanet,Mars,Colonization,SLS,50.0,50,70,200,600,25",
		"2025-01-06,Moon,Europa,Colonization,Starship,60.0,40,35,50,0.7,30",
	}
	p := filepath.Join(t.TempDir(), "m.csv")
	if err := os.WriteFile(p, []byte(strings.Join(rows, "\n")), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	tab, err := dataset.Load(p, dataset.Options{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	var buf bytes.Buffer
	heading := func(w io.Writer, title string) { io.WriteString(w, "== "+title+"\n") }
	results, err := RunSuite(tab, &buf, heading)
	if err != nil {
		t.Fatalf("RunSuite: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	chi := results[0]
	if chi.Statistic < 0 || chi.PValue < 0 || chi.PValue > 1 {
		t.Fatalf("chi-square out of range: %+v", chi)
	}
	for _, r := range results[1:] {
		if r.PValue < 0 || r.PValue > 1 {
			t.Fatalf("%s p-value out of range: %v", r.Name, r.PValue)
		}
	}
	out := buf.String()
	for _, want := range []string{"Chi2 = ", "T-statistic = ", "Z-statistic = ", "== Z-Test: Mission Cost (Moon vs Exoplanet)"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRunSuiteMissingCategoryFails(t *testing.T) {
	rows := []string{
		"Launch Date,Target Type,Target Name,Mission Type,Launch Vehicle,Mission Cost (billion USD),Mission Success (%),Scientific Yield (points),Fuel Consumption (tons),Distance from Earth (light-years),Crew Size",
		"2025-01-01,Moon,Titan,Research,SLS,10.0,90,10,100,0.5,5",
		"2025-01-02,Moon,Europa,Research,Starship,20.0,80,20,300,0.6,10",
	}
	p := filepath.Join(t.TempDir(), "m.csv")
	if err := os.WriteFile(p, []byte(strings.Join(rows, "\n")), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	tab, err := dataset.Load(p, dataset.Options{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	_, err = RunSuite(tab, io.Discard, func(io.Writer, string) {})
	if !errors.Is(err, ErrEmptySample) {
		t.Fatalf("expected ErrEmptySample without colonization rows, got %v", err)
	}
}
