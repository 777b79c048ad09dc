package markdown

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"
)

var ansiRegex = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func stripANSI(s string) string {
	return ansiRegex.ReplaceAllString(s, "")
}

func TestNew_Width(t *testing.T) {
	tests := []struct {
		in   int
		want int
	}{
		{in: 40, want: 40},
		{in: 120, want: 120},
		{in: 0, want: DefaultWidth},
		{in: -5, want: DefaultWidth},
	}
	for _, tt := range tests {
		r, err := New(tt.in, "")
		require.NoError(t, err, "New(%d) error", tt.in)
		require.Equal(t, tt.want, r.Width())
	}
}

func TestNew_UnknownStyleFile(t *testing.T) {
	_, err := New(80, filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
}

func TestRenderer_Render_Note(t *testing.T) {
	r, err := New(80, "notty")
	require.NoError(t, err)

	result, err := r.Render("# PROJ-1: Runes Notes\n\nCreated: 2025-04-01\n\n## Status\n- active\n")
	require.NoError(t, err)

	stripped := stripANSI(result)
	require.Contains(t, stripped, "PROJ-1: Runes Notes")
	require.Contains(t, stripped, "Created: 2025-04-01")
	require.Contains(t, stripped, "active")
}

func TestRenderer_RenderFile(t *testing.T) {
	r, err := New(80, "dark")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "README.md")
	require.NoError(t, os.WriteFile(path, []byte("- Item 1\n- Item 2\n"), 0o644))

	result, err := r.RenderFile(path)
	require.NoError(t, err)
	stripped := stripANSI(result)
	require.Contains(t, stripped, "Item 1")
	require.Contains(t, stripped, "Item 2")

	_, err = r.RenderFile(filepath.Join(t.TempDir(), "nope.md"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "reading note")
}
