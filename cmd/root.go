package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	cfgpkg "github.com/KaramelBytes/missioneda/internal/config"
	"github.com/KaramelBytes/missioneda/internal/pipeline"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Global flags
	cfgFile string
	debug   bool
	// Config overrides (applied only when set)
	flagOutputDir string
	flagSheet     string
	flagDelimiter string
	flagNoRecord  bool
	flagNoCharts  bool
	flagOutput    string

	// Loaded configuration
	cfg *cfgpkg.Global
)

var rootCmd = &cobra.Command{
	Use:   "missioneda [file]",
	Short: "Exploratory data analysis of a space missions dataset",
	Long: `missioneda loads a space missions table (CSV or XLSX), drops incomplete rows,
prints summary tables, renders eight charts as PNG files and runs a chi-square,
Welch t and two-sample z test on the cleaned data.`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPipeline(cmd, args, pipeline.StageAll)
	},
}

// Execute is the entry point called by main.main()
func Execute() {
	// Initialize configuration before executing commands
	cobra.OnInitialize(loadConfig)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		stop()
		os.Exit(1)
	}
}

func init() {
	// Persistent global flags available to all subcommands
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default is ~/.missioneda/config.yaml)")
	pf.BoolVar(&debug, "debug", false, "enable debug logging on stderr")
	pf.StringVar(&flagOutputDir, "output-dir", "", "directory for run outputs (overrides config)")
	pf.StringVar(&flagSheet, "sheet", "", "sheet name for .xlsx input (overrides config)")
	pf.StringVar(&flagDelimiter, "delimiter", "", "CSV delimiter: ',', ';', '|' or 'tab' (overrides config)")
	pf.BoolVar(&flagNoRecord, "no-record", false, "do not write run.json")
	pf.StringVarP(&flagOutput, "output", "o", "", "also write printed tables and results to this file")
	rootCmd.Flags().BoolVar(&flagNoCharts, "no-charts", false, "skip chart rendering")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal here; commands that need config load it again and fail
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		return
	}
	cfg = c
}

// currentConfig returns the loaded configuration with CLI overrides applied.
func currentConfig(cmd *cobra.Command) (*cfgpkg.Global, error) {
	if cfg == nil {
		c, err := cfgpkg.Load(cfgFile)
		if err != nil {
			return nil, err
		}
		cfg = c
	}
	c := *cfg
	f := cmd.Flags()
	if f.Changed("output-dir") {
		c.OutputDir = flagOutputDir
	}
	if f.Changed("sheet") {
		c.Sheet = flagSheet
	}
	if f.Changed("delimiter") {
		if err := c.Set("delimiter", flagDelimiter); err != nil {
			return nil, fmt.Errorf("--delimiter: %w", err)
		}
	}
	if f.Changed("no-record") && flagNoRecord {
		c.Record = false
	}
	if f.Lookup("no-charts") != nil && f.Changed("no-charts") && flagNoCharts {
		c.Charts = false
	}
	return &c, nil
}

func newLogger() (*zap.Logger, error) {
	if !debug {
		return zap.NewNop(), nil
	}
	return zap.NewDevelopment()
}
