package commands

import (
	"github.com/b3rserker/gridmaven/internal/app"
	"github.com/spf13/cobra"
)

// DefaultStoreListen matches the default store endpoint of gridmaven.yaml.
const DefaultStoreListen = "127.0.0.1:7070"

func (c *CLI) newStoreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "store",
		Short: "Manage the artifact store",
	}
	cmd.AddCommand(c.newStoreServeCmd())
	return cmd
}

func (c *CLI) newStoreServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve an artifact store from a local directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dir, _ := cmd.Flags().GetString("dir")
			listen, _ := cmd.Flags().GetString("listen")
			return c.app.ServeStore(cmd.Context(), app.StoreOptions{Dir: dir, Listen: listen})
		},
	}
	cmd.Flags().String("dir", "gridmaven-store", "Directory holding the blobs")
	cmd.Flags().String("listen", DefaultStoreListen, "TCP address to serve on")
	return cmd
}
