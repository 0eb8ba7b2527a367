// Package commands implements the CLI commands for gridmaven.
package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/b3rserker/gridmaven/internal/app"
	"github.com/b3rserker/gridmaven/internal/build"
	"github.com/spf13/cobra"
)

// CLI represents the command line interface for gridmaven.
type CLI struct {
	app     Application
	logger  Logger
	rootCmd *cobra.Command
}

// Application represents the application logic interface.
type Application interface {
	Run(ctx context.Context, opts app.RunOptions) error
	Watch(ctx context.Context, opts app.RunOptions) error
	Clean(ctx context.Context, opts app.CleanOptions) error
	StopWorkers(ctx context.Context, dir string) error
	ServeWorker(ctx context.Context, opts app.WorkerOptions) error
	ServeStore(ctx context.Context, opts app.StoreOptions) error
}

// Logger is the part of the logger the global flags configure.
type Logger interface {
	SetJSON(enable bool)
	SetVerbose(enable bool)
}

// New creates a new CLI instance with the given app.
func New(a Application, logger Logger) *CLI {
	rootCmd := &cobra.Command{
		Use:           "gridmaven",
		Short:         "Distributed reactor builds on a pool of workers",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"{{.Name}} version {{.Version}} (commit: %s, date: %s)\n",
		build.Commit,
		build.Date,
	))
	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().Bool("json", false, "Log as JSON")

	c := &CLI{
		app:     a,
		logger:  logger,
		rootCmd: rootCmd,
	}
	rootCmd.PersistentPreRun = c.configureLogger

	rootCmd.AddCommand(c.newRunCmd())
	rootCmd.AddCommand(c.newWatchCmd())
	rootCmd.AddCommand(c.newCleanCmd())
	rootCmd.AddCommand(c.newWorkerCmd())
	rootCmd.AddCommand(c.newStoreCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

func (c *CLI) configureLogger(cmd *cobra.Command, _ []string) {
	if c.logger == nil {
		return
	}
	verbose, _ := cmd.Flags().GetBool("verbose")
	jsonOut, _ := cmd.Flags().GetBool("json")
	c.logger.SetVerbose(verbose)
	c.logger.SetJSON(jsonOut)
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput sets the output and error streams for the root command. Used for testing.
func (c *CLI) SetOutput(out, err io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(err)
}
