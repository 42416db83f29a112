package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/memo/internal/app"
)

func (c *CLI) newCleanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove the cache directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dir, _ := cmd.Flags().GetString("cache-dir")
			return c.app.Clean(cmd.Context(), app.CleanOptions{CacheDir: dir})
		},
	}

	cmd.Flags().String("cache-dir", "", "Cache directory")

	return cmd
}
