package commands

import (
	"github.com/b3rserker/gridmaven/internal/app"
	"github.com/spf13/cobra"
)

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("config", "c", "", "Directory to search for gridmaven.yaml, or the file itself")
	cmd.Flags().StringP("output-mode", "o", "auto", "Output mode: auto, tui, or linear")
	cmd.Flags().Bool("ci", false, "Use linear output mode (shorthand for --output-mode=linear)")
}

func runOptions(cmd *cobra.Command) app.RunOptions {
	dir, _ := cmd.Flags().GetString("config")
	outputMode, _ := cmd.Flags().GetString("output-mode")
	if ci, _ := cmd.Flags().GetBool("ci"); ci {
		outputMode = "linear"
	}
	full, _ := cmd.Flags().GetBool("full")
	return app.RunOptions{Dir: configDir(dir), Full: full, OutputMode: outputMode}
}

func (c *CLI) newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Build the reactor",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.app.Run(cmd.Context(), runOptions(cmd))
		},
	}
	addRunFlags(cmd)
	cmd.Flags().BoolP("full", "f", false, "Rebuild every module regardless of changes")
	return cmd
}

func (c *CLI) newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Build the reactor and rebuild whenever a module descriptor changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts := runOptions(cmd)
			if !cmd.Flags().Changed("output-mode") && !cmd.Flags().Changed("ci") {
				opts.OutputMode = ""
			}
			return c.app.Watch(cmd.Context(), opts)
		},
	}
	addRunFlags(cmd)
	return cmd
}
