package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/zjrosen/pman/internal/log"
	"github.com/zjrosen/pman/internal/paths"
	"github.com/zjrosen/pman/internal/presentation"
	"github.com/zjrosen/pman/internal/registry"
	"github.com/zjrosen/pman/internal/watcher"
)

var (
	listFormat string
	listStatus string
	listWatch  bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List registry rows",
	Long: `List the projects recorded in the registry.

Examples:
  pman list
  pman list --status active
  pman list --format json | jq '.[].id'
  pman list --watch`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	listCmd.Flags().StringVarP(&listFormat, "format", "f", presentation.FormatTable, "Output format: table, json or yaml")
	listCmd.Flags().StringVarP(&listStatus, "status", "s", "", "Only rows with this status")
	listCmd.Flags().BoolVarP(&listWatch, "watch", "w", false, "Re-print when the registry or project directories change")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, _ []string) error {
	if !presentation.ValidFormat(listFormat) {
		return fmt.Errorf("unknown format %q: want table, json or yaml", listFormat)
	}

	p, err := notesPaths()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if !listWatch {
		return printRows(out, p)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	return watchRows(ctx, out, p)
}

func printRows(out io.Writer, p paths.NotesPaths) error {
	rows, err := registry.Load(p.Registry)
	if err != nil {
		return err
	}
	return presentation.NewFormatter(out, cfg.UI.Color).FormatRows(listFormat, presentation.FromRows(rows, listStatus))
}

// watchRows prints the rows, then again after every debounced change, until
// ctx is cancelled.
func watchRows(ctx context.Context, out io.Writer, p paths.NotesPaths) error {
	w, err := watcher.New(watcher.Config{
		RegistryPath: p.Registry,
		Roots:        []string{p.ProjectsDir, p.ArchivesProjectsDir},
		DebounceDur:  cfg.Watch.Debounce,
	})
	if err != nil {
		return err
	}
	defer func() { _ = w.Stop() }()

	changes, err := w.Start()
	if err != nil {
		return err
	}

	if err := printRows(out, p); err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-changes:
			log.Debug(log.CatWatcher, "Notes tree changed, reprinting")
			if _, err := fmt.Fprintln(out); err != nil {
				return err
			}
			if err := printRows(out, p); err != nil {
				return err
			}
		}
	}
}
