package testutil

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/pman/internal/namespace"
	"github.com/zjrosen/pman/internal/registry"
)

func TestWithStandardNotes(t *testing.T) {
	p := NewBuilder(t).WithStandardNotes().Build()

	active, err := namespace.List(p.ProjectsDir)
	require.NoError(t, err)
	require.Len(t, active, 2)

	archived, err := namespace.List(p.ArchivesProjectsDir)
	require.NoError(t, err)
	require.Len(t, archived, 1)
	require.Equal(t, filepath.Join(p.ArchivesProjectsDir, "proj-2-old-budget"), archived[0].Path)

	contents, err := registry.Read(p.Registry)
	require.NoError(t, err)
	require.Equal(t, 4, registry.NextID(contents))
}
