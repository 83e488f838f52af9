package run_test

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/KaramelBytes/missioneda/internal/charts"
	"github.com/KaramelBytes/missioneda/internal/dataset"
	"github.com/KaramelBytes/missioneda/internal/hypothesis"
	"github.com/KaramelBytes/missioneda/internal/run"
)

func TestSaveAndLoadRoundTrip(t *testing.T) {
	out := t.TempDir()
	r := run.New("missions.csv", out)
	r.RowsLoaded, r.RowsKept = 5, 4
	r.NullCounts = []dataset.NullCount{{Column: dataset.ColCrewSize, Count: 1}}
	r.Charts = []charts.Artifact{{Name: "pairplot", Title: "Pairplot of Numeric Features", Path: filepath.Join(r.Dir(), "02_pairplot.png")}}
	r.Tests = []hypothesis.Result{{Name: "welch t-test", Label: "T-statistic", Statistic: math.NaN(), PValue: math.NaN(), DOF: 1, N: []int{1, 3}}}
	if err := r.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}
	if r.FinishedAt.Before(r.StartedAt) {
		t.Fatalf("finished %v before started %v", r.FinishedAt, r.StartedAt)
	}

	b, err := os.ReadFile(filepath.Join(out, r.ID, "run.json"))
	if err != nil {
		t.Fatalf("read run.json: %v", err)
	}
	if !strings.Contains(string(b), `"statistic": null`) {
		t.Fatalf("NaN statistic should be null:\n%s", b)
	}

	got, err := run.Load(r.Dir())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.ID != r.ID || got.RowsKept != 4 || got.Input != "missions.csv" {
		t.Fatalf("unexpected run %+v", got)
	}
	if len(got.Tests) != 1 || !math.IsNaN(got.Tests[0].Statistic) || got.Tests[0].DOF != 1 {
		t.Fatalf("unexpected tests %+v", got.Tests)
	}
	if len(got.NullCounts) != 1 || got.NullCounts[0].Count != 1 {
		t.Fatalf("unexpected null counts %+v", got.NullCounts)
	}
}

func TestLoadMissing(t *testing.T) {
	if _, err := run.Load(t.TempDir()); err == nil || !strings.Contains(err.Error(), "run not found") {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestListNewestFirst(t *testing.T) {
	out := t.TempDir()
	older := run.New("a.csv", out)
	older.StartedAt = time.Now().Add(-time.Hour)
	if err := older.Save(); err != nil {
		t.Fatal(err)
	}
	newer := run.New("b.csv", out)
	if err := newer.Save(); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(out, "not-a-run"), 0o755); err != nil {
		t.Fatal(err)
	}
	runs, err := run.List(out)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(runs) != 2 || runs[0].ID != newer.ID || runs[1].ID != older.ID {
		t.Fatalf("unexpected order: %+v", runs)
	}
	none, err := run.List(filepath.Join(out, "missing"))
	if err != nil || len(none) != 0 {
		t.Fatalf("missing dir should list nothing, got %v %v", none, err)
	}
}
