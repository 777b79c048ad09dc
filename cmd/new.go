package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zjrosen/pman/internal/project"
)

var (
	newStatus string
	newArea   string
)

var newCmd = &cobra.Command{
	Use:   "new <name>",
	Short: "Create a project directory, note and registry row",
	Long: `Create a new project.

The next id is one more than the largest PROJ-<n> anywhere in the registry.
The directory is Projects/proj-<id>-<slug>/ where the slug is derived from
the name, prefixed by the area's slug when --area is given. A slug already
used by an active or archived project is rejected.

Examples:
  pman new "Runes Notes"
  pman new "Runes Notes" --area religion
  pman new "Garden Plan" --status planning`,
	Args: cobra.MinimumNArgs(1),
	RunE: runNew,
}

func init() {
	newCmd.Flags().StringVarP(&newStatus, "status", "s", "", "Registry status (default: default_status from config)")
	newCmd.Flags().StringVarP(&newArea, "area", "a", "", "Area whose slug prefixes the project slug")
	rootCmd.AddCommand(newCmd)
}

func runNew(cmd *cobra.Command, args []string) error {
	p, err := notesPaths()
	if err != nil {
		return err
	}

	status := newStatus
	if status == "" {
		status = cfg.DefaultStatus
	}

	// Unquoted multi-word names arrive as separate args.
	name := strings.Join(args, " ")

	notePath, err := project.NewEngine().Create(p, name, status, newArea)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", notePath)
	return err
}
