package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zjrosen/pman/internal/config"
	"github.com/zjrosen/pman/internal/log"
	"github.com/zjrosen/pman/internal/paths"
)

// Config file locations, relative to the working directory and the user's
// home respectively.
const (
	localConfigPath = ".pman/config.yaml"
	userConfigDir   = ".config/pman"
)

var (
	version   = "dev"
	cfgFile   string
	notesDir  string
	debug     bool
	cfg       config.Config
	cfgErr    error
	logCloser func()
)

var rootCmd = &cobra.Command{
	Use:   "pman",
	Short: "Manage numbered project notes and their registry",
	Long: `pman keeps a notes tree of numbered project directories in step with a
markdown registry table.

Projects live in Projects/proj-<id>-<slug>/README.md and move to
Archives/Projects/ when archived. Every project has one row in
Projects/_registry.md recording its id, name, status, created date and
a link to its note.`,
	Version:           version,
	PersistentPreRunE: setup,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: .pman/config.yaml, then ~/.config/pman/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&notesDir, "notes-dir", "",
		"notes root containing Projects/ and Archives/ (env PMAN_NOTES_DIR)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false,
		"write debug log to debug.log (or $PMAN_LOG)")
}

func initConfig() {
	viper.Reset()

	defaults := config.Defaults()
	viper.SetDefault("notes_dir", defaults.NotesDir)
	viper.SetDefault("default_status", defaults.DefaultStatus)
	viper.SetDefault("layout.projects_dir", defaults.Layout.ProjectsDir)
	viper.SetDefault("layout.archives_dir", defaults.Layout.ArchivesDir)
	viper.SetDefault("layout.registry_file", defaults.Layout.RegistryFile)
	viper.SetDefault("ui.markdown_style", defaults.UI.MarkdownStyle)
	viper.SetDefault("ui.width", defaults.UI.Width)
	viper.SetDefault("ui.color", defaults.UI.Color)
	viper.SetDefault("watch.debounce", defaults.Watch.Debounce)

	viper.SetEnvPrefix("PMAN")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	_ = viper.BindPFlag("notes_dir", rootCmd.PersistentFlags().Lookup("notes-dir"))

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// Config lookup order:
		// 1. .pman/config.yaml (current directory)
		// 2. ~/.config/pman/config.yaml (user config)
		if _, err := os.Stat(localConfigPath); err == nil {
			viper.SetConfigFile(localConfigPath)
		} else {
			home, _ := os.UserHomeDir()
			viper.AddConfigPath(filepath.Join(home, userConfigDir))
			viper.SetConfigName("config")
			viper.SetConfigType("yaml")
		}
	}

	cfgErr = nil
	if err := viper.ReadInConfig(); err != nil {
		// A missing config means defaults; anything else is reported on use.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			cfgErr = fmt.Errorf("reading config: %w", err)
		}
	}

	cfg = config.Config{}
	if err := viper.Unmarshal(&cfg); err != nil && cfgErr == nil {
		cfgErr = fmt.Errorf("decoding config: %w", err)
	}
}

func setup(cmd *cobra.Command, _ []string) error {
	// Arguments have been validated by now; later failures are runtime errors.
	cmd.SilenceUsage = true

	if debug || os.Getenv("PMAN_DEBUG") != "" {
		path := os.Getenv("PMAN_LOG")
		if path == "" {
			path = "debug.log"
		}
		closer, err := log.Init(path)
		if err != nil {
			return err
		}
		logCloser = closer
	}

	if cfgErr != nil {
		return cfgErr
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	log.Debug(log.CatConfig, "Loaded config", "file", viper.ConfigFileUsed(), "notes_dir", cfg.NotesDir)
	log.Debug(log.CatCLI, "Running command", "cmd", cmd.CommandPath())
	return nil
}

func closeLog() {
	if logCloser != nil {
		logCloser()
		logCloser = nil
	}
}

// notesPaths resolves the notes root from --notes-dir, PMAN_NOTES_DIR, the
// config file or the directory search, and applies the configured layout.
func notesPaths() (paths.NotesPaths, error) {
	root, err := paths.ResolveNotesDir(cfg.NotesDir)
	if err != nil {
		return paths.NotesPaths{}, fmt.Errorf("%w, or run 'pman init'", err)
	}
	p := paths.FromLayout(root, cfg.Layout.Layout())
	log.Debug(log.CatConfig, "Resolved notes root", "root", p.Root, "registry", p.Registry)
	return p, nil
}

// Execute runs the root command
func Execute() error {
	defer closeLog()
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
