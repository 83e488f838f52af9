package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

var missionRows = []string{
	"Mission ID,Launch Date,Target Type,Target Name,Mission Type,Launch Vehicle,Mission Cost (billion USD),Mission Success (%),Scientific Yield (points),Fuel Consumption (tons),Distance from Earth (light-years),Crew Size",
	"MSN-0001,2025-01-01,Moon,Titan,Research,SLS,10.5,95.0,60.1,800.2,0.5,5",
	"MSN-0002,2025-02-11,Exoplanet,Proxima b,Colonization,Starship,20.0,80.5,70.2,900.0,4.2,",
	"MSN-0003,2025-03-21,Moon,Europa,Research,Falcon Heavy,12.25,90.0,55.0,700.5,0.6,12",
	"MSN-0004,2025-04-30,Planet,Mars,Mining,SLS,8.0,85.0,40.3,650.0,0.1,30",
	"MSN-0005,2025-05-15,Exoplanet,Kepler-22b,Colonization,Starship,30.75,70.0,80.4,1200.0,600.0,50",
}

// runCmd is a helper to execute the root command with args and capture stdout.
func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	// Reset sticky flags that may persist Changed state across invocations
	for _, name := range []string{"config", "output-dir", "sheet", "delimiter", "no-record", "output", "no-charts"} {
		if fl := rootCmd.PersistentFlags().Lookup(name); fl != nil {
			_ = fl.Value.Set(fl.DefValue)
			fl.Changed = false
		}
		if fl := rootCmd.Flags().Lookup(name); fl != nil {
			_ = fl.Value.Set(fl.DefValue)
			fl.Changed = false
		}
	}
	// Reset loaded config so each call reads the isolated HOME
	cfg = nil
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func setupWorkspace(t *testing.T) (home, csv string) {
	t.Helper()
	home = t.TempDir()
	t.Setenv("HOME", home)
	csv = filepath.Join(home, "space_missions_dataset.csv")
	if err := os.WriteFile(csv, []byte(strings.Join(missionRows, "\n")), 0o644); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	return home, csv
}

func TestCLI_FullRunThenList(t *testing.T) {
	home, csv := setupWorkspace(t)
	outDir := filepath.Join(home, "eda_output")

	out, err := runCmd(t, csv, "--output-dir", outDir)
	if err != nil {
		t.Fatalf("full run: %v", err)
	}
	for _, want := range []string{"Table 1: Descriptive Statistics", "08_cost_by_target.png", "Chi2 = ", "recorded in"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}

	out, err = runCmd(t, "list", "--output-dir", outDir)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if !strings.Contains(out, "rows 4/5") || !strings.Contains(out, "charts 8") {
		t.Fatalf("unexpected list output:\n%s", out)
	}
}

func TestCLI_TestSubcommandWritesOutputFile(t *testing.T) {
	home, csv := setupWorkspace(t)
	report := filepath.Join(home, "results.txt")

	out, err := runCmd(t, "test", csv, "--no-record", "-o", report, "--output-dir", filepath.Join(home, "out"))
	if err != nil {
		t.Fatalf("test: %v", err)
	}
	if strings.Contains(out, "Table 1") {
		t.Fatalf("test subcommand printed report tables:\n%s", out)
	}
	b, err := os.ReadFile(report)
	if err != nil {
		t.Fatalf("read -o file: %v", err)
	}
	if !strings.Contains(string(b), "Z-statistic = ") {
		t.Fatalf("results file missing z-test:\n%s", b)
	}
	if _, err := os.Stat(filepath.Join(home, "out")); !os.IsNotExist(err) {
		t.Fatalf("--no-record test run should not create the output dir: %v", err)
	}
}

func TestCLI_ConfigSetThenShow(t *testing.T) {
	home, _ := setupWorkspace(t)
	cfgPath := filepath.Join(home, "cfg.yaml")

	if _, err := runCmd(t, "config", "set", "hist_bins", "25", "--config", cfgPath); err != nil {
		t.Fatalf("config set: %v", err)
	}
	out, err := runCmd(t, "config", "show", "--config", cfgPath)
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	if !strings.Contains(out, "hist_bins: 25") || !strings.Contains(out, "output_dir: eda_output") {
		t.Fatalf("unexpected config output:\n%s", out)
	}
	if _, err := runCmd(t, "config", "set", "hist_bins", "zero", "--config", cfgPath); err == nil {
		t.Fatal("expected invalid value error")
	}
}

func TestCLI_MissingInputFails(t *testing.T) {
	home, _ := setupWorkspace(t)
	_, err := runCmd(t, filepath.Join(home, "nope.csv"), "--no-record")
	if err == nil || !strings.HasPrefix(err.Error(), "load: ") {
		t.Fatalf("expected load error, got %v", err)
	}
}
