package run

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/KaramelBytes/missioneda/internal/charts"
	"github.com/KaramelBytes/missioneda/internal/dataset"
	"github.com/KaramelBytes/missioneda/internal/hypothesis"
	"github.com/KaramelBytes/missioneda/internal/utils"
	"github.com/google/uuid"
)

const (
	recordFileName = utils.RecordFile
)

// Run records one pipeline execution persisted on disk.
type Run struct {
	ID         string              `json:"id"`
	Input      string              `json:"input"`
	StartedAt  time.Time           `json:"started_at"`
	FinishedAt time.Time           `json:"finished_at"`
	RowsLoaded int                 `json:"rows_loaded"`
	RowsKept   int                 `json:"rows_kept"`
	NullCounts []dataset.NullCount `json:"null_counts"`
	Charts     []charts.Artifact   `json:"charts"`
	Tests      []hypothesis.Result `json:"tests"`
	Report     string              `json:"report,omitempty"`

	// Not serialized: on-disk location of the run directory
	dir string `json:"-"`
}

// New constructs an in-memory run under outputDir/<id>. Call Save() to persist.
func New(input, outputDir string) *Run {
	id := uuid.NewString()
	return &Run{
		ID:        id,
		Input:     input,
		StartedAt: time.Now(),
		dir:       filepath.Join(outputDir, id),
	}
}

// Load reads run.json from the provided run directory.
func Load(dir string) (*Run, error) {
	path := filepath.Join(dir, recordFileName)
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("run not found at %s: %w", path, err)
		}
		return nil, fmt.Errorf("read run: %w", err)
	}
	var r Run
	if err := json.Unmarshal(b, &r); err != nil {
		return nil, fmt.Errorf("parse run: %w", err)
	}
	r.dir = dir
	return &r, nil
}

// Dir returns the on-disk run directory path.
func (r *Run) Dir() string { return r.dir }

// Save writes run.json using atomic write and stamps FinishedAt.
func (r *Run) Save() error {
	if r.dir == "" {
		return errors.New("run directory not set")
	}
	r.FinishedAt = time.Now()
	return utils.WriteJSONFile(filepath.Join(r.dir, recordFileName), r)
}

// List loads every run recorded under outputDir, newest first.
// Subdirectories without a readable run.json are skipped.
func List(outputDir string) ([]*Run, error) {
	entries, err := os.ReadDir(outputDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var out []*Run
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		r, err := Load(filepath.Join(outputDir, e.Name()))
		if err != nil {
			continue
		}
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].StartedAt.After(out[j].StartedAt) })
	return out, nil
}
