// Package namespace scans a directory root for project directories that follow
// the proj-<id>-<slug> naming convention.
//
// Two roots exist in a notes tree (active and archived); this package answers
// questions about one root at a time and never looks below its immediate
// subdirectories.
package namespace

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/zjrosen/pman/internal/log"
)

// DirPrefix starts every project directory name.
const DirPrefix = "proj-"

// Lookup errors
var (
	ErrNotFound       = errors.New("no project directory matches")
	ErrAmbiguous      = errors.New("multiple project directories match")
	ErrInvalidDirName = errors.New("invalid project directory name")
)

// DirName is a parsed proj-<id>-<slug> directory name.
type DirName struct {
	// ID holds the digits verbatim, zero padding included.
	ID   string
	Slug string
}

// ProjectID returns the registry identifier for the directory, e.g. PROJ-0022.
func (d DirName) ProjectID() string {
	return "PROJ-" + d.ID
}

// String returns the directory name.
func (d DirName) String() string {
	return DirPrefix + d.ID + "-" + d.Slug
}

// Entry is a project directory found under a root.
type Entry struct {
	DirName
	Path string
}

// FormatDirName builds the directory name for a new project.
func FormatDirName(id int, slug string) string {
	return fmt.Sprintf("%s%d-%s", DirPrefix, id, slug)
}

// ParseDirName splits a proj-<digits>-<slug> name. The id segment must be
// non-empty and all digits and the slug must be non-empty.
func ParseDirName(name string) (DirName, error) {
	id, rest, ok := splitDirName(name)
	if !ok || rest == "" {
		return DirName{}, fmt.Errorf("%w: %s", ErrInvalidDirName, name)
	}
	return DirName{ID: id, Slug: rest}, nil
}

// ProjectIDFromDir derives the registry id from a directory name. Unlike
// ParseDirName it accepts a bare proj-<digits> name with no slug.
func ProjectIDFromDir(name string) (string, error) {
	id, _, ok := splitDirName(name)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrInvalidDirName, name)
	}
	return "PROJ-" + id, nil
}

func splitDirName(name string) (id, rest string, ok bool) {
	suffix, found := strings.CutPrefix(name, DirPrefix)
	if !found {
		return "", "", false
	}
	id, rest, _ = strings.Cut(suffix, "-")
	if id == "" || !isDigits(id) {
		return "", "", false
	}
	return id, rest, true
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// HasSlug reports whether any project directory directly under root carries
// exactly slug. A missing root contains no slugs.
func HasSlug(root, slug string) (bool, error) {
	entries, err := readDirs(root)
	if err != nil {
		return false, err
	}
	for _, name := range entries {
		id, rest, ok := splitDirName(name)
		if !ok {
			continue
		}
		if rest == slug {
			log.Debug(log.CatNamespace, "Slug in use", "root", root, "slug", slug, "dir", name, "id", id)
			return true, nil
		}
	}
	return false, nil
}

// FindProjectDir resolves input to a project directory under root. An exact
// directory name wins; otherwise input is treated as a prefix and must match
// exactly one directory named input-*.
func FindProjectDir(root, input string) (string, error) {
	if input == "" {
		return "", fmt.Errorf("%w: empty project reference", ErrNotFound)
	}

	direct := filepath.Join(root, input)
	if _, err := os.Stat(direct); err == nil {
		return direct, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("checking %s: %w", direct, err)
	}

	names, err := readDirs(root)
	if err != nil {
		return "", err
	}

	prefix := input + "-"
	var matches []string
	for _, name := range names {
		if strings.HasPrefix(name, prefix) {
			matches = append(matches, name)
		}
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%w %s in %s", ErrNotFound, input, root)
	case 1:
		return filepath.Join(root, matches[0]), nil
	default:
		sort.Strings(matches)
		return "", fmt.Errorf("%w %s: %s", ErrAmbiguous, input, strings.Join(matches, ", "))
	}
}

// List returns every conforming project directory under root, sorted by name.
// A missing root yields no entries.
func List(root string) ([]Entry, error) {
	names, err := readDirs(root)
	if err != nil {
		return nil, err
	}
	sort.Strings(names)

	var out []Entry
	for _, name := range names {
		dn, err := ParseDirName(name)
		if err != nil {
			continue
		}
		out = append(out, Entry{DirName: dn, Path: filepath.Join(root, name)})
	}
	return out, nil
}

// readDirs lists the names of immediate subdirectories of root.
func readDirs(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", root, err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	return names, nil
}
