package cmd

import (
	"fmt"

	"github.com/KaramelBytes/missioneda/internal/run"
	"github.com/KaramelBytes/missioneda/internal/utils"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded runs in the output directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := currentConfig(cmd)
		if err != nil {
			return err
		}
		runs, err := run.List(c.OutputDir)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(runs) == 0 {
			fmt.Fprintln(out, "(no runs)")
			return nil
		}
		for _, r := range runs {
			fmt.Fprintf(out, "- %s  %s  %s  rows %d/%d  charts %d  tests %d\n",
				r.ID, r.StartedAt.Format("2006-01-02 15:04:05"), r.Input,
				r.RowsKept, r.RowsLoaded, len(r.Charts), len(r.Tests))
		}
		return nil
	},
}

var showCmd = &cobra.Command{
	Use:   "show <run-dir>",
	Short: "Print the test results of a recorded run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := utils.FindRunDir(args[0])
		if err != nil {
			return err
		}
		r, err := run.Load(dir)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Run %s (%s)\n", r.ID, r.Input)
		fmt.Fprintf(out, "Rows: %d loaded, %d kept\n", r.RowsLoaded, r.RowsKept)
		for _, a := range r.Charts {
			fmt.Fprintf(out, "Chart: %s\n", a.Path)
		}
		for _, t := range r.Tests {
			fmt.Fprintf(out, "%s: %s\n", t.Name, t.String())
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
}
