// Package paths resolves the notes root and the locations derived from it.
package paths

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Default layout below the notes root.
const (
	DefaultProjectsDir  = "Projects"
	DefaultArchivesDir  = "Archives/Projects"
	DefaultRegistryFile = "Projects/_registry.md"
)

// ErrNotesRootNotFound is returned when no notes root can be located.
var ErrNotesRootNotFound = errors.New("could not locate notes root; use --notes-dir to specify it")

// Layout names the active root, archived root and registry file relative to
// the notes root. Empty fields fall back to the defaults.
type Layout struct {
	ProjectsDir  string
	ArchivesDir  string
	RegistryFile string
}

// DefaultLayout returns the standard Projects / Archives/Projects layout.
func DefaultLayout() Layout {
	return Layout{
		ProjectsDir:  DefaultProjectsDir,
		ArchivesDir:  DefaultArchivesDir,
		RegistryFile: DefaultRegistryFile,
	}
}

// NotesPaths holds the resolved locations the lifecycle engine works against.
type NotesPaths struct {
	Root                string
	ProjectsDir         string
	ArchivesProjectsDir string
	Registry            string
}

// FromRoot builds NotesPaths for the default layout under root.
func FromRoot(root string) NotesPaths {
	return FromLayout(root, DefaultLayout())
}

// FromLayout builds NotesPaths under root. Relative layout entries are joined
// to root; absolute ones are used as given.
func FromLayout(root string, layout Layout) NotesPaths {
	def := DefaultLayout()
	if layout.ProjectsDir == "" {
		layout.ProjectsDir = def.ProjectsDir
	}
	if layout.ArchivesDir == "" {
		layout.ArchivesDir = def.ArchivesDir
	}
	if layout.RegistryFile == "" {
		layout.RegistryFile = def.RegistryFile
	}

	return NotesPaths{
		Root:                root,
		ProjectsDir:         under(root, layout.ProjectsDir),
		ArchivesProjectsDir: under(root, layout.ArchivesDir),
		Registry:            under(root, layout.RegistryFile),
	}
}

func under(root, p string) string {
	p = filepath.FromSlash(p)
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(root, p)
}

// ResolveNotesDir locates the notes root.
//
// Lookup order:
//  1. explicit, when non-empty (e.g. --notes-dir or notes_dir in config)
//  2. nearest ancestor of the running executable holding Projects/ and Archives/
//  3. nearest ancestor of the working directory holding Projects/ and Archives/
func ResolveNotesDir(explicit string) (string, error) {
	if explicit != "" {
		abs, err := filepath.Abs(explicit)
		if err != nil {
			return "", fmt.Errorf("resolving notes dir %s: %w", explicit, err)
		}
		return abs, nil
	}

	if exe, err := os.Executable(); err == nil {
		if root, ok := FindNotesRoot(exe); ok {
			return root, nil
		}
	}

	if cwd, err := os.Getwd(); err == nil {
		if root, ok := FindNotesRoot(cwd); ok {
			return root, nil
		}
	}

	return "", ErrNotesRootNotFound
}

// FindNotesRoot walks from start up to the filesystem root and returns the first
// directory containing both a Projects and an Archives directory.
func FindNotesRoot(start string) (string, bool) {
	dir := filepath.Clean(start)
	for {
		if isDir(filepath.Join(dir, "Projects")) && isDir(filepath.Join(dir, "Archives")) {
			return dir, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

func isDir(p string) bool {
	info, err := os.Stat(p)
	return err == nil && info.IsDir()
}
