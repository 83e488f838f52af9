package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/KaramelBytes/missioneda/internal/analysis"
	"github.com/KaramelBytes/missioneda/internal/charts"
	"github.com/KaramelBytes/missioneda/internal/config"
	"github.com/KaramelBytes/missioneda/internal/dataset"
	"github.com/KaramelBytes/missioneda/internal/hypothesis"
	"github.com/KaramelBytes/missioneda/internal/run"
	"github.com/KaramelBytes/missioneda/internal/utils"
	"go.uber.org/zap"
)

const reportFileName = "report.md"

// Stage selects which outputs a run produces after loading and cleaning.
type Stage uint8

const (
	StageReport Stage = 1 << iota
	StageCharts
	StageTests

	StageAll = StageReport | StageCharts | StageTests
)

// Options configures one pipeline run.
type Options struct {
	Input     string
	OutputDir string
	Load      dataset.Options
	HeadRows  int
	Charts    charts.Options // Dir is set per run
	Stages    Stage
	Record    bool

	Out    io.Writer   // defaults to os.Stdout
	Logger *zap.Logger // defaults to a no-op logger
}

// FromConfig maps the global configuration onto pipeline options.
func FromConfig(c *config.Global) (Options, error) {
	delim, err := c.DelimiterRune()
	if err != nil {
		return Options{}, err
	}
	stages := StageReport | StageTests
	if c.Charts {
		stages |= StageCharts
	}
	return Options{
		Input:     c.Input,
		OutputDir: c.OutputDir,
		Load:      dataset.Options{Delimiter: delim, Sheet: c.Sheet},
		HeadRows:  c.HeadRows,
		Charts:    charts.Options{WidthIn: c.ChartWidthIn, HeightIn: c.ChartHeightIn, Bins: c.HistBins},
		Stages:    stages,
		Record:    c.Record,
	}, nil
}

// Run loads the input, drops incomplete rows and produces the selected
// outputs in order: tables, charts, hypothesis tests. The first failing
// stage aborts the run.
func Run(ctx context.Context, opt Options) (*run.Run, error) {
	w := opt.Out
	if w == nil {
		w = os.Stdout
	}
	log := opt.Logger
	if log == nil {
		log = zap.NewNop()
	}
	rec := run.New(opt.Input, opt.OutputDir)
	log = log.With(zap.String("run", rec.ID))

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	log.Info("loading dataset", zap.String("path", opt.Input))
	raw, err := dataset.Load(opt.Input, opt.Load)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	rec.RowsLoaded = raw.Len()
	log.Debug("dataset loaded", zap.Int("rows", raw.Len()), zap.Strings("columns", raw.Columns()))

	if opt.Stages&StageReport != 0 && opt.HeadRows > 0 {
		analysis.WriteRows(w, fmt.Sprintf("First %d Rows", opt.HeadRows), raw.Columns(), raw.Head(opt.HeadRows))
		analysis.WriteRows(w, fmt.Sprintf("Last %d Rows", opt.HeadRows), raw.Columns(), raw.Tail(opt.HeadRows))
	}

	clean, cr := dataset.DropMissing(raw)
	rec.NullCounts = cr.Nulls
	rec.RowsKept = cr.RowsAfter
	analysis.WriteNullCounts(w, cr.Nulls)
	if clean.Len() == 0 {
		return nil, fmt.Errorf("clean: every row has a missing value: %w", dataset.ErrNoData)
	}
	fmt.Fprintf(w, "\n✓ Dropped %d incomplete rows, %d remain\n", cr.Removed(), cr.RowsAfter)
	log.Info("dropped incomplete rows", zap.Int("removed", cr.Removed()), zap.Int("kept", cr.RowsAfter))

	var rep *analysis.Report
	if opt.Stages&StageReport != 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rep, err = analysis.Build(clean)
		if err != nil {
			return nil, fmt.Errorf("report: %w", err)
		}
		rep.Write(w)
		log.Debug("report written", zap.Int("numeric_columns", len(rep.Describe)))
	}

	if opt.Stages&StageCharts != 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		copt := opt.Charts
		copt.Dir = rec.Dir()
		log.Info("rendering charts", zap.String("dir", copt.Dir))
		arts, err := charts.Render(ctx, clean, copt)
		if err != nil {
			return nil, fmt.Errorf("charts: %w", err)
		}
		rec.Charts = arts
		analysis.Heading(w, "Charts")
		for _, a := range arts {
			fmt.Fprintf(w, "✓ %s: %s\n", a.Title, a.Path)
		}
	}

	if opt.Stages&StageTests != 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		log.Info("running hypothesis tests", zap.Int("tests", len(hypothesis.MissionSuite)))
		results, err := hypothesis.RunSuite(clean, w, analysis.Heading)
		if err != nil {
			return nil, fmt.Errorf("tests: %w", err)
		}
		rec.Tests = results
	}

	if opt.Record {
		if rep != nil {
			if err := utils.EnsureDir(rec.Dir()); err != nil {
				return nil, fmt.Errorf("record: %w", err)
			}
			p := filepath.Join(rec.Dir(), reportFileName)
			if err := utils.SafeWriteFile(p, []byte(rep.Markdown(rec.Tests))); err != nil {
				return nil, fmt.Errorf("record: %w", err)
			}
			rec.Report = p
		}
		if err := rec.Save(); err != nil {
			return nil, fmt.Errorf("record: %w", err)
		}
		fmt.Fprintf(w, "\n✓ Run %s recorded in %s\n", rec.ID, rec.Dir())
		log.Info("run recorded", zap.String("dir", rec.Dir()))
	}
	return rec, nil
}
