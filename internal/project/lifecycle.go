// Package project implements the project lifecycle: creating a project
// directory with its note and registry row, and archiving it.
//
// Both operations span the filesystem and the registry. Create writes the
// directory and note before appending the registry row, so a failure part way
// leaves an unregistered directory rather than a row without a directory.
// Archive moves the directory first and then rewrites the row; a registry
// failure after a successful move is reported, not rolled back. Check reports
// any such drift.
package project

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/zjrosen/pman/internal/log"
	"github.com/zjrosen/pman/internal/namespace"
	"github.com/zjrosen/pman/internal/paths"
	"github.com/zjrosen/pman/internal/registry"
	"github.com/zjrosen/pman/internal/slug"
	"github.com/zjrosen/pman/internal/templates"
)

// NoteFile is the note written inside every project directory.
const NoteFile = "README.md"

// DefaultStatus is recorded when no status is given.
const DefaultStatus = "active"

// Lifecycle errors
var (
	ErrDuplicateSlug   = errors.New("slug already exists in projects or archives")
	ErrAlreadyExists   = errors.New("project note already exists")
	ErrAlreadyArchived = errors.New("archive target already exists")
	ErrMoveFailed      = errors.New("failed to move project")
	ErrInvalidName     = errors.New("project name must be a single line")
	ErrInvalidStatus   = errors.New("project status must be a single line")
)

// Engine runs lifecycle operations against a notes tree.
type Engine struct {
	now    func() time.Time
	note   *templates.Note
	rename func(oldpath, newpath string) error
}

// Option customizes an Engine during construction.
type Option func(*Engine)

// WithClock overrides the clock used for the created date.
func WithClock(clock func() time.Time) Option {
	return func(e *Engine) {
		e.now = clock
	}
}

// WithNoteTemplate replaces the embedded note template.
func WithNoteTemplate(note *templates.Note) Option {
	return func(e *Engine) {
		e.note = note
	}
}

// NewEngine builds an Engine with the embedded note template and wall clock.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		now:    time.Now,
		rename: os.Rename,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.note == nil {
		e.note = templates.DefaultNote()
	}
	return e
}

// CreateProject creates a project with the default Engine and returns the path
// of its note.
func CreateProject(p paths.NotesPaths, name, status, area string) (string, error) {
	return NewEngine().Create(p, name, status, area)
}

// ArchiveProject archives a project with the default Engine and returns its new
// directory.
func ArchiveProject(p paths.NotesPaths, input string) (string, error) {
	return NewEngine().Archive(p, input)
}

// Create allocates the next id, creates proj-<id>-<slug> under the active root
// with a note inside, and appends the registry row. area is optional; when
// set, its slug prefixes the project slug.
func (e *Engine) Create(p paths.NotesPaths, name, status, area string) (string, error) {
	if strings.ContainsAny(name, "\r\n") || strings.ContainsAny(area, "\r\n") {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	if strings.ContainsAny(status, "\r\n") {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	if status == "" {
		status = DefaultStatus
	}

	if err := registry.EnsureExists(p.Registry); err != nil {
		return "", err
	}
	contents, err := registry.Read(p.Registry)
	if err != nil {
		return "", err
	}
	id := registry.NextID(contents)

	fullSlug, err := slug.Compose(name, area)
	if err != nil {
		return "", err
	}

	inUse, err := slugInUse(p, fullSlug)
	if err != nil {
		return "", err
	}
	if inUse {
		return "", fmt.Errorf("%w: %s", ErrDuplicateSlug, fullSlug)
	}

	dirName := namespace.FormatDirName(id, fullSlug)
	noteDir := filepath.Join(p.ProjectsDir, dirName)
	notePath := filepath.Join(noteDir, NoteFile)

	if _, err := os.Stat(notePath); err == nil {
		return "", fmt.Errorf("%w: %s", ErrAlreadyExists, notePath)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("checking %s: %w", notePath, err)
	}

	if err := os.MkdirAll(noteDir, 0o755); err != nil {
		return "", fmt.Errorf("creating project directory %s: %w", noteDir, err)
	}

	created := e.now()
	content, err := e.note.Render(templates.NoteData{
		ID:      registry.FormatID(id),
		Name:    name,
		Created: created.Format(registry.DateLayout),
		Status:  status,
		Area:    area,
	})
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(notePath, []byte(content), 0o644); err != nil { //nolint:gosec // G306: notes are meant to be readable
		return "", fmt.Errorf("writing note %s: %w", notePath, err)
	}
	log.Debug(log.CatProject, "Wrote project note", "path", notePath)

	target, err := linkTarget(p.Registry, notePath, false)
	if err != nil {
		return "", err
	}
	if err := registry.AppendRow(p.Registry, registry.NewRow(id, name, status, created, target)); err != nil {
		log.ErrorErr(log.CatProject, "Registry append failed after directory creation", err, "dir", noteDir)
		return "", fmt.Errorf("project directory %s created but not registered: %w", noteDir, err)
	}

	log.Info(log.CatProject, "Created project", "id", registry.FormatID(id), "slug", fullSlug, "note", notePath)
	return notePath, nil
}

// Archive moves the project directory matching input from the active root to
// the archived root and marks its registry row archived.
func (e *Engine) Archive(p paths.NotesPaths, input string) (string, error) {
	src, id, dest, err := resolveArchive(p, input)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(p.ArchivesProjectsDir, 0o755); err != nil {
		return "", fmt.Errorf("creating archive directory %s: %w", p.ArchivesProjectsDir, err)
	}
	if err := e.rename(src, dest); err != nil {
		log.ErrorErr(log.CatProject, "Move failed", err, "src", src, "dest", dest)
		return "", fmt.Errorf("%w %s to %s: %w", ErrMoveFailed, src, dest, err)
	}
	log.Debug(log.CatProject, "Moved project", "src", src, "dest", dest)

	target, err := noteTarget(p.Registry, dest)
	if err != nil {
		return "", err
	}
	if err := registry.UpdateRow(p.Registry, id, registry.StatusArchived, target); err != nil {
		log.ErrorErr(log.CatProject, "Registry update failed after move", err, "id", id, "dest", dest)
		return "", fmt.Errorf("project moved to %s but registry not updated: %w", dest, err)
	}

	log.Info(log.CatProject, "Archived project", "id", id, "dest", dest)
	return dest, nil
}

// ArchivePlan describes what Archive would do without doing it.
type ArchivePlan struct {
	ID             string
	Source         string
	Destination    string
	NoteTarget     string
	RegistryBefore string
	RegistryAfter  string
}

// PlanArchive resolves input and computes the move and registry rewrite that
// Archive would perform. Nothing on disk changes.
func (e *Engine) PlanArchive(p paths.NotesPaths, input string) (ArchivePlan, error) {
	src, id, dest, err := resolveArchive(p, input)
	if err != nil {
		return ArchivePlan{}, err
	}

	// The note is looked up at the source; the move keeps directory contents.
	var target string
	if exists(filepath.Join(src, NoteFile)) {
		target, err = linkTarget(p.Registry, filepath.Join(dest, NoteFile), false)
	} else {
		target, err = linkTarget(p.Registry, dest, true)
	}
	if err != nil {
		return ArchivePlan{}, err
	}

	before, err := registry.Read(p.Registry)
	if err != nil {
		return ArchivePlan{}, err
	}
	after, err := registry.RewriteRow(before, id, registry.StatusArchived, target)
	if err != nil {
		return ArchivePlan{}, fmt.Errorf("%s: %w", p.Registry, err)
	}

	return ArchivePlan{
		ID:             id,
		Source:         src,
		Destination:    dest,
		NoteTarget:     target,
		RegistryBefore: before,
		RegistryAfter:  after,
	}, nil
}

// resolveArchive finds the source directory, its registry id and the archive
// destination, and rejects an occupied destination.
func resolveArchive(p paths.NotesPaths, input string) (src, id, dest string, err error) {
	src, err = namespace.FindProjectDir(p.ProjectsDir, input)
	if err != nil {
		return "", "", "", err
	}

	dirName := filepath.Base(src)
	id, err = namespace.ProjectIDFromDir(dirName)
	if err != nil {
		return "", "", "", err
	}

	dest = filepath.Join(p.ArchivesProjectsDir, dirName)
	if _, statErr := os.Lstat(dest); statErr == nil {
		return "", "", "", fmt.Errorf("%w: %s", ErrAlreadyArchived, dest)
	} else if !errors.Is(statErr, fs.ErrNotExist) {
		return "", "", "", fmt.Errorf("checking %s: %w", dest, statErr)
	}
	return src, id, dest, nil
}

// slugInUse checks both namespaces; a slug taken in either blocks reuse.
func slugInUse(p paths.NotesPaths, s string) (bool, error) {
	for _, root := range []string{p.ProjectsDir, p.ArchivesProjectsDir} {
		found, err := namespace.HasSlug(root, s)
		if err != nil {
			return false, err
		}
		if found {
			return true, nil
		}
	}
	return false, nil
}

// noteTarget links to the note inside dir when present, otherwise to dir.
func noteTarget(registryPath, dir string) (string, error) {
	note := filepath.Join(dir, NoteFile)
	if exists(note) {
		return linkTarget(registryPath, note, false)
	}
	return linkTarget(registryPath, dir, true)
}

// linkTarget returns target relative to the registry's directory with forward
// slashes, adding a trailing slash for directories.
func linkTarget(registryPath, target string, isDir bool) (string, error) {
	base := filepath.Dir(registryPath)
	rel, err := filepath.Rel(base, target)
	if err != nil {
		return "", fmt.Errorf("computing link from %s to %s: %w", base, target, err)
	}
	rel = filepath.ToSlash(rel)
	if isDir {
		rel += "/"
	}
	return rel, nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
