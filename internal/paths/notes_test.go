package paths

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFromRoot(t *testing.T) {
	root := filepath.Join("/", "notes")
	p := FromRoot(root)

	require.Equal(t, root, p.Root)
	require.Equal(t, filepath.Join(root, "Projects"), p.ProjectsDir)
	require.Equal(t, filepath.Join(root, "Archives", "Projects"), p.ArchivesProjectsDir)
	require.Equal(t, filepath.Join(root, "Projects", "_registry.md"), p.Registry)
}

func TestFromLayout(t *testing.T) {
	root := filepath.Join("/", "notes")

	p := FromLayout(root, Layout{ProjectsDir: "Active", RegistryFile: "index.md"})
	require.Equal(t, filepath.Join(root, "Active"), p.ProjectsDir)
	require.Equal(t, filepath.Join(root, "Archives", "Projects"), p.ArchivesProjectsDir, "empty entries use defaults")
	require.Equal(t, filepath.Join(root, "index.md"), p.Registry)

	abs := filepath.Join("/", "elsewhere", "archive")
	p = FromLayout(root, Layout{ArchivesDir: abs})
	require.Equal(t, abs, p.ArchivesProjectsDir)
}

func TestFindNotesRoot(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "Projects", "proj-1-x"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "Archives"), 0o755))

	got, ok := FindNotesRoot(filepath.Join(root, "Projects", "proj-1-x"))
	require.True(t, ok)
	require.Equal(t, root, got)

	got, ok = FindNotesRoot(root)
	require.True(t, ok)
	require.Equal(t, root, got)
}

func TestFindNotesRoot_RequiresBothDirs(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "Projects"), 0o755))

	_, ok := FindNotesRoot(root)
	require.False(t, ok)
}

func TestResolveNotesDir_Explicit(t *testing.T) {
	dir := t.TempDir()
	got, err := ResolveNotesDir(dir)
	require.NoError(t, err)
	require.Equal(t, dir, got)
}

func TestResolveNotesDir_FromWorkingDir(t *testing.T) {
	root := t.TempDir()
	sub := filepath.Join(root, "Projects", "proj-2-y")
	require.NoError(t, os.MkdirAll(sub, 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "Archives"), 0o755))

	chdir(t, sub)

	got, err := ResolveNotesDir("")
	require.NoError(t, err)

	want, err := filepath.EvalSymlinks(root)
	require.NoError(t, err)
	gotResolved, err := filepath.EvalSymlinks(got)
	require.NoError(t, err)
	require.Equal(t, want, gotResolved)
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent of testing.T.Chdir, added in Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	oldwd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	abs := dir
	if !filepath.IsAbs(abs) {
		abs = filepath.Join(oldwd, dir)
	}
	t.Setenv("PWD", abs)
	t.Cleanup(func() {
		if err := os.Chdir(oldwd); err != nil {
			t.Fatal(err)
		}
	})
}
