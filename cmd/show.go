package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/zjrosen/pman/internal/markdown"
	"github.com/zjrosen/pman/internal/namespace"
	"github.com/zjrosen/pman/internal/paths"
	"github.com/zjrosen/pman/internal/project"
)

var showRaw bool

var showCmd = &cobra.Command{
	Use:   "show <dir-or-prefix>",
	Short: "Render a project's note",
	Long: `Render the README.md of a project, looking in Projects/ first and then
in Archives/Projects/.

Examples:
  pman show proj-12
  pman show proj-12 --raw`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

func init() {
	showCmd.Flags().BoolVar(&showRaw, "raw", false, "Print the markdown without rendering")
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	p, err := notesPaths()
	if err != nil {
		return err
	}

	dir, err := findAnyProject(p, args[0])
	if err != nil {
		return err
	}
	note := filepath.Join(dir, project.NoteFile)

	out := cmd.OutOrStdout()
	if showRaw {
		data, err := os.ReadFile(note)
		if err != nil {
			return fmt.Errorf("reading note: %w", err)
		}
		_, err = out.Write(data)
		return err
	}

	r, err := markdown.New(cfg.UI.Width, cfg.UI.MarkdownStyle)
	if err != nil {
		return err
	}
	rendered, err := r.RenderFile(note)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(out, rendered)
	return err
}

// findAnyProject resolves input in the active namespace, falling back to the
// archived one only when nothing active matches.
func findAnyProject(p paths.NotesPaths, input string) (string, error) {
	dir, err := namespace.FindProjectDir(p.ProjectsDir, input)
	if err == nil || !errors.Is(err, namespace.ErrNotFound) {
		return dir, err
	}
	return namespace.FindProjectDir(p.ArchivesProjectsDir, input)
}
