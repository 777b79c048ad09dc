package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/zjrosen/pman/internal/config"
	"github.com/zjrosen/pman/internal/log"
	"github.com/zjrosen/pman/internal/paths"
	"github.com/zjrosen/pman/internal/registry"
)

var initNoConfig bool

var initCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Create a notes tree and record it in .pman/config.yaml",
	Long: `Create Projects/, Archives/Projects/ and an empty registry under path
(default: the current directory). Existing directories and an existing
registry are left as they are.

The notes root is then recorded as notes_dir in the config file given by
--config, or in .pman/config.yaml in the current directory, so later
commands find it from here.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initNoConfig, "no-config", false, "Do not write notes_dir to a config file")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	target := "."
	if len(args) == 1 {
		target = args[0]
	}
	root, err := filepath.Abs(target)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", target, err)
	}

	p := paths.FromLayout(root, cfg.Layout.Layout())
	for _, dir := range []string{p.ProjectsDir, p.ArchivesProjectsDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}
	if err := registry.EnsureExists(p.Registry); err != nil {
		return err
	}
	log.Info(log.CatCLI, "Initialized notes tree", "root", root)

	out := cmd.OutOrStdout()
	if _, err := fmt.Fprintf(out, "Initialized %s\n", root); err != nil {
		return err
	}
	if initNoConfig {
		return nil
	}

	configPath := cfgFile
	if configPath == "" {
		configPath = localConfigPath
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := config.WriteDefaultConfig(configPath); err != nil {
			return err
		}
	}
	if err := config.SaveNotesDir(configPath, root); err != nil {
		return err
	}

	_, err = fmt.Fprintf(out, "Recorded notes_dir in %s\n", configPath)
	return err
}
