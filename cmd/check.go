package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zjrosen/pman/internal/presentation"
	"github.com/zjrosen/pman/internal/project"
)

// errCheckFailed is returned when check finds issues so the process exits
// non-zero after the report has been printed.
var errCheckFailed = errors.New("registry and project directories disagree")

var checkFormat string

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Report drift between the registry and project directories",
	Long: `Compare the registry with Projects/ and Archives/Projects/ and report
rows without directories, directories without rows, status mismatches,
duplicate ids or slugs and note links that no longer resolve.

Nothing is repaired. Exits non-zero when any issue is found.`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().StringVarP(&checkFormat, "format", "f", presentation.FormatTable, "Output format: table, json or yaml")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, _ []string) error {
	if !presentation.ValidFormat(checkFormat) {
		return fmt.Errorf("unknown format %q: want table, json or yaml", checkFormat)
	}

	p, err := notesPaths()
	if err != nil {
		return err
	}

	report, err := project.Check(p)
	if err != nil {
		return err
	}

	f := presentation.NewFormatter(cmd.OutOrStdout(), cfg.UI.Color)
	if err := f.FormatReport(checkFormat, presentation.FromReport(report)); err != nil {
		return err
	}
	if !report.OK() {
		return fmt.Errorf("%w: %d issues", errCheckFailed, len(report.Issues))
	}
	return nil
}
