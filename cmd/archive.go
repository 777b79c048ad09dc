package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zjrosen/pman/internal/presentation"
	"github.com/zjrosen/pman/internal/project"
)

var archiveDryRun bool

var archiveCmd = &cobra.Command{
	Use:   "archive <dir-or-prefix>",
	Short: "Move a project to Archives/Projects and mark it archived",
	Long: `Archive an active project.

The project is named by its full directory name or by a prefix such as
proj-12 that matches exactly one directory. The directory moves to
Archives/Projects/ unchanged and its registry row gets status archived and
a link to the note in its new location.

Examples:
  pman archive proj-12
  pman archive proj-12-runes-notes
  pman archive proj-12 --dry-run`,
	Args: cobra.ExactArgs(1),
	RunE: runArchive,
}

func init() {
	archiveCmd.Flags().BoolVarP(&archiveDryRun, "dry-run", "n", false, "Show the move and registry change without making them")
	rootCmd.AddCommand(archiveCmd)
}

func runArchive(cmd *cobra.Command, args []string) error {
	p, err := notesPaths()
	if err != nil {
		return err
	}

	engine := project.NewEngine()
	out := cmd.OutOrStdout()

	if archiveDryRun {
		plan, err := engine.PlanArchive(p, args[0])
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(out, "Would move %s\n        to %s\n", plan.Source, plan.Destination); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(out, "Registry %s:\n", p.Registry); err != nil {
			return err
		}
		return presentation.NewFormatter(out, cfg.UI.Color).FormatDiff(plan.RegistryBefore, plan.RegistryAfter)
	}

	dest, err := engine.Archive(p, args[0])
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(out, "Archived %s\n", dest)
	return err
}
