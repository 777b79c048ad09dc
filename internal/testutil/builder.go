// Package testutil builds notes trees on disk for tests.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/pman/internal/namespace"
	"github.com/zjrosen/pman/internal/paths"
	"github.com/zjrosen/pman/internal/registry"
)

// Builder accumulates projects and registry lines and writes them under a
// temporary notes root.
type Builder struct {
	t        *testing.T
	root     string
	projects []projectData
	rawRows  []string
}

// NewBuilder creates a builder rooted at a fresh temp directory.
func NewBuilder(t *testing.T) *Builder {
	t.Helper()
	return &Builder{t: t, root: t.TempDir()}
}

// WithProject adds a project directory proj-<id>-<slug> with optional
// configuration.
func (b *Builder) WithProject(id int, slug string, opts ...ProjectOption) *Builder {
	p := defaultProject(id, slug)
	for _, opt := range opts {
		opt(&p)
	}
	b.projects = append(b.projects, p)
	return b
}

// WithRawRow appends a registry line verbatim, after the project rows.
func (b *Builder) WithRawRow(line string) *Builder {
	b.rawRows = append(b.rawRows, line)
	return b
}

// Build writes the tree and returns its paths. Both namespace roots and the
// registry always exist afterwards.
func (b *Builder) Build() paths.NotesPaths {
	b.t.Helper()
	p := paths.FromRoot(b.root)
	require.NoError(b.t, os.MkdirAll(p.ProjectsDir, 0o755))
	require.NoError(b.t, os.MkdirAll(p.ArchivesProjectsDir, 0o755))

	var reg strings.Builder
	reg.WriteString(registry.Header)
	for _, proj := range b.projects {
		dir := b.writeProject(p, proj)
		if proj.row {
			reg.WriteString(b.row(p, proj, dir).Format())
			reg.WriteString("\n")
		}
	}
	for _, line := range b.rawRows {
		reg.WriteString(line)
		reg.WriteString("\n")
	}
	require.NoError(b.t, os.WriteFile(p.Registry, []byte(reg.String()), 0o644))
	return p
}

func (b *Builder) writeProject(p paths.NotesPaths, proj projectData) string {
	b.t.Helper()
	parent := p.ProjectsDir
	if proj.archived {
		parent = p.ArchivesProjectsDir
	}
	dir := filepath.Join(parent, namespace.FormatDirName(proj.id, proj.slug))
	require.NoError(b.t, os.MkdirAll(dir, 0o755))
	if proj.note {
		content := fmt.Sprintf("# %s: %s\n", registry.FormatID(proj.id), proj.name)
		require.NoError(b.t, os.WriteFile(filepath.Join(dir, "README.md"), []byte(content), 0o644))
	}
	return dir
}

func (b *Builder) row(p paths.NotesPaths, proj projectData, dir string) registry.Row {
	b.t.Helper()
	target := proj.noteTarget
	if target == "" {
		linked := dir
		if proj.note {
			linked = filepath.Join(dir, "README.md")
		}
		rel, err := filepath.Rel(filepath.Dir(p.Registry), linked)
		require.NoError(b.t, err)
		target = filepath.ToSlash(rel)
		if !proj.note {
			target += "/"
		}
	}
	return registry.Row{
		ID:         registry.FormatID(proj.id),
		Name:       proj.name,
		Status:     proj.status,
		Created:    proj.created,
		NoteText:   target,
		NoteTarget: target,
	}
}
