package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/pman/internal/paths"
)

func TestDefaults_Valid(t *testing.T) {
	cfg := Defaults()
	require.NoError(t, cfg.Validate())
	require.Equal(t, "active", cfg.DefaultStatus)
	require.Equal(t, paths.DefaultLayout(), cfg.Layout.Layout())
	require.Empty(t, cfg.NotesDir, "notes_dir is resolved at runtime")
}

func TestValidate_CollectsErrors(t *testing.T) {
	cfg := Defaults()
	cfg.DefaultStatus = ""
	cfg.UI.Width = -1
	cfg.Watch.Debounce = -time.Second

	err := cfg.Validate()
	require.Error(t, err)
	require.Contains(t, err.Error(), "default_status")
	require.Contains(t, err.Error(), "ui.width")
	require.Contains(t, err.Error(), "watch.debounce")
}

func TestValidate_RejectsMultilineDefaultStatus(t *testing.T) {
	cfg := Defaults()
	cfg.DefaultStatus = "active\nPROJ-9"

	err := cfg.Validate()
	require.Error(t, err)
	require.Contains(t, err.Error(), "default_status must be a single line")
}

func TestValidateLayout(t *testing.T) {
	tests := []struct {
		name    string
		layout  LayoutConfig
		wantErr string
	}{
		{name: "empty uses defaults", layout: LayoutConfig{}},
		{name: "custom", layout: LayoutConfig{ProjectsDir: "Work", ArchivesDir: "Old/Work", RegistryFile: "Work/index.md"}},
		{name: "same roots", layout: LayoutConfig{ProjectsDir: "Work", ArchivesDir: "Work/"}, wantErr: "must differ"},
		{name: "registry not markdown", layout: LayoutConfig{RegistryFile: "Projects/registry.txt"}, wantErr: ".md file"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateLayout(tt.layout)
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLayoutConfig_FillsGaps(t *testing.T) {
	got := LayoutConfig{ProjectsDir: "Work"}.Layout()
	require.Equal(t, "Work", got.ProjectsDir)
	require.Equal(t, paths.DefaultArchivesDir, got.ArchivesDir)
	require.Equal(t, paths.DefaultRegistryFile, got.RegistryFile)
}

func TestDefaultConfigTemplate_MatchesDefaults(t *testing.T) {
	v := viper.New()
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(strings.NewReader(DefaultConfigTemplate())))

	var cfg Config
	require.NoError(t, v.Unmarshal(&cfg))
	require.Equal(t, Defaults(), cfg)
}

func TestWriteDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	require.NoError(t, WriteDefaultConfig(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, DefaultConfigTemplate(), string(data))
}
