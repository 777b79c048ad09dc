// Package config provides configuration types and defaults for pman.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/zjrosen/pman/internal/log"
	"github.com/zjrosen/pman/internal/paths"
)

// Config holds all configuration options for pman.
type Config struct {
	NotesDir      string       `mapstructure:"notes_dir"`
	DefaultStatus string       `mapstructure:"default_status"`
	Layout        LayoutConfig `mapstructure:"layout"`
	UI            UIConfig     `mapstructure:"ui"`
	Watch         WatchConfig  `mapstructure:"watch"`
}

// LayoutConfig holds the notes tree sub-paths, relative to notes_dir.
type LayoutConfig struct {
	ProjectsDir  string `mapstructure:"projects_dir"`
	ArchivesDir  string `mapstructure:"archives_dir"`
	RegistryFile string `mapstructure:"registry_file"`
}

// UIConfig holds output options.
type UIConfig struct {
	MarkdownStyle string `mapstructure:"markdown_style"` // "dark" (default), "light", "notty" or a style file
	Width         int    `mapstructure:"width"`          // word wrap for show; 0 means terminal default
	Color         bool   `mapstructure:"color"`
}

// WatchConfig holds options for list --watch.
type WatchConfig struct {
	Debounce time.Duration `mapstructure:"debounce"`
}

// Layout converts the configured sub-paths, filling gaps from the defaults.
func (l LayoutConfig) Layout() paths.Layout {
	out := paths.DefaultLayout()
	if l.ProjectsDir != "" {
		out.ProjectsDir = l.ProjectsDir
	}
	if l.ArchivesDir != "" {
		out.ArchivesDir = l.ArchivesDir
	}
	if l.RegistryFile != "" {
		out.RegistryFile = l.RegistryFile
	}
	return out
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	layout := paths.DefaultLayout()
	return Config{
		DefaultStatus: "active",
		Layout: LayoutConfig{
			ProjectsDir:  layout.ProjectsDir,
			ArchivesDir:  layout.ArchivesDir,
			RegistryFile: layout.RegistryFile,
		},
		UI: UIConfig{
			MarkdownStyle: "dark",
			Width:         100,
			Color:         true,
		},
		Watch: WatchConfig{
			Debounce: 300 * time.Millisecond,
		},
	}
}

// Validate checks a loaded config for values pman cannot work with.
func (c Config) Validate() error {
	var errs []error
	if c.DefaultStatus == "" {
		errs = append(errs, errors.New("default_status must not be empty"))
	} else if strings.ContainsAny(c.DefaultStatus, "\r\n") {
		errs = append(errs, fmt.Errorf("default_status must be a single line, got %q", c.DefaultStatus))
	}
	if c.UI.Width < 0 {
		errs = append(errs, fmt.Errorf("ui.width must not be negative, got %d", c.UI.Width))
	}
	if c.Watch.Debounce < 0 {
		errs = append(errs, fmt.Errorf("watch.debounce must not be negative, got %s", c.Watch.Debounce))
	}
	if err := ValidateLayout(c.Layout); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// ValidateLayout rejects layouts whose two roots coincide or whose registry
// is not a markdown file.
func ValidateLayout(l LayoutConfig) error {
	layout := l.Layout()
	if filepath.Clean(layout.ProjectsDir) == filepath.Clean(layout.ArchivesDir) {
		return fmt.Errorf("layout: projects_dir and archives_dir must differ, both are %q", layout.ProjectsDir)
	}
	if filepath.Ext(layout.RegistryFile) != ".md" {
		return fmt.Errorf("layout: registry_file must be a .md file, got %q", layout.RegistryFile)
	}
	return nil
}

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# pman configuration

# Notes tree containing Projects/ and Archives/Projects/.
# When unset, pman looks upward from the executable and then from the
# working directory for a directory containing both.
# notes_dir: /path/to/notes

# Status recorded for new projects when --status is not given
default_status: active

# Sub-paths inside notes_dir
layout:
  projects_dir: Projects
  archives_dir: Archives/Projects
  registry_file: Projects/_registry.md

# Output settings
ui:
  markdown_style: dark  # "dark" (default), "light", "notty" or a glamour style file
  width: 100            # Word wrap for 'pman show'
  color: true           # Styled table output for 'pman list'

# 'pman list --watch' settings
watch:
  debounce: 300ms
`
}

// WriteDefaultConfig creates a config file at the given path with default settings and comments.
// Creates the parent directory if it doesn't exist.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "Writing default config", "path", configPath)

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}
