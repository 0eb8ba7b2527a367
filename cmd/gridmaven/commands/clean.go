package commands

import (
	"os"
	"path/filepath"

	"github.com/b3rserker/gridmaven/internal/app"
	"github.com/b3rserker/gridmaven/internal/core/domain"
	"github.com/spf13/cobra"
)

func (c *CLI) newCleanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove the persisted run state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dir, _ := cmd.Flags().GetString("config")
			workspace, _ := cmd.Flags().GetBool("workspace")
			return c.app.Clean(cmd.Context(), app.CleanOptions{Dir: configDir(dir), Workspace: workspace})
		},
	}

	cmd.Flags().StringP("config", "c", "", "Directory to search for gridmaven.yaml, or the file itself")
	cmd.Flags().BoolP("workspace", "w", false, "Also remove the build workspaces of local workers")

	return cmd
}

// configDir turns a --config value into the directory the search starts from.
func configDir(flag string) string {
	if flag == "" {
		return ""
	}
	if filepath.Base(flag) == domain.ConfigFileName {
		return filepath.Dir(flag)
	}
	if info, err := os.Stat(flag); err == nil && !info.IsDir() {
		return filepath.Dir(flag)
	}
	return flag
}
