package commands

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"go.trai.ch/memo/internal/app"
	"go.trai.ch/memo/internal/ui/output"
	"go.trai.ch/memo/internal/ui/style"
)

func (c *CLI) newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show the number of cached entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dir, _ := cmd.Flags().GetString("cache-dir")
			report, err := c.app.Stats(cmd.Context(), app.StatsOptions{CacheDir: dir})
			if err != nil {
				return err
			}
			return renderStats(cmd.OutOrStdout(), report)
		},
	}

	cmd.Flags().String("cache-dir", "", "Cache directory")

	return cmd
}

func renderStats(w io.Writer, report app.StatsReport) error {
	r := lipgloss.NewRenderer(w, termenv.WithProfile(output.ColorProfile(w)))
	title := r.NewStyle().Bold(true).Foreground(style.Iris)
	label := r.NewStyle().Foreground(style.Slate).Width(10)
	live := r.NewStyle().Foreground(style.Green)
	expired := r.NewStyle().Foreground(style.Yellow)

	if !report.Exists {
		_, err := fmt.Fprintf(w, "%s\n%s\n",
			title.Render(report.Directory),
			label.Render(style.Circle+" no cache database"),
		)
		return err
	}

	_, err := fmt.Fprintf(w, "%s\n%s%s\n%s%s\n%s%d\n",
		title.Render(report.Directory),
		label.Render("live"), live.Render(fmt.Sprint(report.Live)),
		label.Render("expired"), expired.Render(fmt.Sprint(report.Expired)),
		label.Render("total"), report.Total(),
	)
	return err
}
