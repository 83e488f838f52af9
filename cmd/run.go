package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/KaramelBytes/missioneda/internal/pipeline"
	"github.com/spf13/cobra"
)

var describeCmd = &cobra.Command{
	Use:   "describe [file]",
	Short: "Print summary tables of the cleaned dataset",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPipeline(cmd, args, pipeline.StageReport)
	},
}

var plotCmd = &cobra.Command{
	Use:   "plot [file]",
	Short: "Render the eight charts of the cleaned dataset as PNG files",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPipeline(cmd, args, pipeline.StageCharts)
	},
}

var testCmd = &cobra.Command{
	Use:   "test [file]",
	Short: "Run the hypothesis tests on the cleaned dataset",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPipeline(cmd, args, pipeline.StageTests)
	},
}

func init() {
	rootCmd.AddCommand(describeCmd)
	rootCmd.AddCommand(plotCmd)
	rootCmd.AddCommand(testCmd)
}

func runPipeline(cmd *cobra.Command, args []string, stages pipeline.Stage) error {
	c, err := currentConfig(cmd)
	if err != nil {
		return err
	}
	if len(args) == 1 {
		c.Input = args[0]
	}
	opt, err := pipeline.FromConfig(c)
	if err != nil {
		return err
	}
	// Subcommands pick their stage explicitly; the full run honours config.
	if stages != pipeline.StageAll {
		opt.Stages = stages
	}

	var out io.Writer = cmd.OutOrStdout()
	if flagOutput != "" {
		f, err := os.Create(flagOutput)
		if err != nil {
			return fmt.Errorf("open output: %w", err)
		}
		defer f.Close()
		out = io.MultiWriter(out, f)
	}
	opt.Out = out

	logger, err := newLogger()
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()
	opt.Logger = logger

	_, err = pipeline.Run(cmd.Context(), opt)
	return err
}
