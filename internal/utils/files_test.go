package utils_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/KaramelBytes/missioneda/internal/utils"
)

func TestSafeWriteFileReplacesAtomically(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "run.json")
	if err := utils.SafeWriteFile(p, []byte("one")); err != nil {
		t.Fatalf("first write: %v", err)
	}
	if err := utils.SafeWriteFile(p, []byte("two")); err != nil {
		t.Fatalf("second write: %v", err)
	}
	b, err := os.ReadFile(p)
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != "two" {
		t.Fatalf("got %q", b)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("temp file left behind: %v", entries)
	}
}

func TestWriteJSONFileCreatesParent(t *testing.T) {
	p := filepath.Join(t.TempDir(), "out", "abc", "run.json")
	if err := utils.WriteJSONFile(p, map[string]int{"rows": 3}); err != nil {
		t.Fatalf("WriteJSONFile: %v", err)
	}
	b, err := os.ReadFile(p)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(b), "\n  \"rows\": 3") || !strings.HasSuffix(string(b), "}\n") {
		t.Fatalf("unexpected json %q", b)
	}
}

func TestFindRunDirWalksUp(t *testing.T) {
	root := t.TempDir()
	runDir := filepath.Join(root, "eda_output", "abc")
	nested := filepath.Join(runDir, "charts")
	if err := utils.EnsureDir(nested); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(runDir, "run.json"), []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}
	for _, start := range []string{runDir, nested, filepath.Join(runDir, "run.json")} {
		got, err := utils.FindRunDir(start)
		if err != nil {
			t.Fatalf("FindRunDir(%s): %v", start, err)
		}
		if got != runDir {
			t.Fatalf("FindRunDir(%s) = %s want %s", start, got, runDir)
		}
	}
	if _, err := utils.FindRunDir(root); !errors.Is(err, utils.ErrNoRunDir) {
		t.Fatalf("expected ErrNoRunDir, got %v", err)
	}
}
