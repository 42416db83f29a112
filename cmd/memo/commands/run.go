package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/memo/internal/adapters/config"
	"go.trai.ch/memo/internal/app"
)

func (c *CLI) newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [flags] -- command [args...]",
		Short: "Run a command, replaying its output when its dependencies are unchanged",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				// Display command usage help without returning an error
				_ = cmd.Help()
				return nil
			}

			opts := app.RunOptions{}
			opts.Deps, _ = cmd.Flags().GetStringArray("dep")
			opts.ContextDeps, _ = cmd.Flags().GetStringArray("context-dep")
			opts.CacheDir, _ = cmd.Flags().GetString("cache-dir")
			opts.CacheIdentifier, _ = cmd.Flags().GetString("cache-identifier")
			opts.NoCache, _ = cmd.Flags().GetBool("no-cache")
			opts.Watch, _ = cmd.Flags().GetBool("watch")
			opts.TTY, _ = cmd.Flags().GetBool("tty")

			if ttl, _ := cmd.Flags().GetString("ttl"); ttl != "" {
				d, err := config.ParseDuration(ttl)
				if err != nil {
					return err
				}
				opts.TTL = d
			}

			return c.app.Run(cmd.Context(), args, opts)
		},
	}

	// Everything after the command name belongs to the command.
	cmd.Flags().SetInterspersed(false)

	cmd.Flags().StringArrayP("dep", "d", nil, "File the command reads (repeatable)")
	cmd.Flags().StringArrayP("context-dep", "C", nil, "Directory whose listing the command depends on (repeatable)")
	cmd.Flags().String("ttl", "", "Entry lifetime, e.g. 12h or 30d")
	cmd.Flags().String("cache-dir", "", "Cache directory")
	cmd.Flags().String("cache-identifier", "", "Namespace for cache keys")
	cmd.Flags().BoolP("no-cache", "n", false, "Bypass the cache and always run the command")
	cmd.Flags().BoolP("watch", "w", false, "Re-run the command when a dependency changes")
	cmd.Flags().Bool("tty", false, "Run the command attached to a pseudo terminal")
	return cmd
}
