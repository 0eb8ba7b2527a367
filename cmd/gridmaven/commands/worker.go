package commands

import (
	"github.com/b3rserker/gridmaven/internal/app"
	"github.com/spf13/cobra"
)

func (c *CLI) newWorkerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "worker",
		Short: "Manage worker processes",
	}

	cmd.AddCommand(c.newWorkerServeCmd())
	cmd.AddCommand(c.newWorkerStopCmd())

	return cmd
}

func (c *CLI) newWorkerServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve module builds on a socket or TCP address",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			socket, _ := cmd.Flags().GetString("socket")
			listen, _ := cmd.Flags().GetString("listen")
			idle, _ := cmd.Flags().GetDuration("idle-timeout")
			return c.app.ServeWorker(cmd.Context(), app.WorkerOptions{
				Socket:      socket,
				Listen:      listen,
				IdleTimeout: idle,
			})
		},
	}
	cmd.Flags().String("socket", "", "Unix socket to serve on")
	cmd.Flags().String("listen", "", "TCP address to serve on instead of a socket")
	cmd.Flags().Duration("idle-timeout", app.DefaultIdleTimeout, "Exit after this long without builds")
	cmd.MarkFlagsMutuallyExclusive("socket", "listen")
	return cmd
}

func (c *CLI) newWorkerStopCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stop",
		Short: "Stop the local workers of the project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dir, _ := cmd.Flags().GetString("config")
			return c.app.StopWorkers(cmd.Context(), configDir(dir))
		},
	}
	cmd.Flags().StringP("config", "c", "", "Directory to search for gridmaven.yaml, or the file itself")
	return cmd
}
