// Package registry reads and writes the project registry: a markdown table with
// one row per project ever created.
//
// The file is the single source of truth for which ids exist and where each
// project's note currently lives. New rows are appended; the only in-place edit
// is UpdateRow, which rewrites the whole file through a temp file and rename.
//
// Nothing here guards against concurrent writers. Callers run one mutating
// operation at a time.
package registry

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/zjrosen/pman/internal/log"
)

// Header is written to a fresh registry file.
const Header = "# Project Registry\n\nFlat list of project notes. IDs are chronological and unique across all projects.\n\n| ID | Name | Status | Created | Note |\n| --- | --- | --- | --- | --- |\n"

// IDPrefix starts every project identifier.
const IDPrefix = "PROJ-"

// DateLayout is the format of the created column.
const DateLayout = "2006-01-02"

// StatusArchived is the status written when a project is archived.
const StatusArchived = "archived"

// Column positions in a data row.
const (
	colID = iota
	colName
	colStatus
	colCreated
	colNote
	numCols
)

// Update errors
var (
	ErrRowNotFound  = errors.New("registry entry not found")
	ErrMalformedRow = errors.New("registry entry malformed")
)

// idPattern matches an identifier anywhere in the file, not only in rows.
var idPattern = regexp.MustCompile(`PROJ-(\d+)`)

var linkPattern = regexp.MustCompile(`^\[(.*)\]\((.*)\)$`)

// Row is one registry entry.
type Row struct {
	ID         string
	Name       string
	Status     string
	Created    string
	NoteText   string
	NoteTarget string
}

// NewRow builds a row for a newly created project. The note link text equals
// its target.
func NewRow(id int, name, status string, created time.Time, noteTarget string) Row {
	return Row{
		ID:         FormatID(id),
		Name:       name,
		Status:     status,
		Created:    created.Format(DateLayout),
		NoteText:   noteTarget,
		NoteTarget: noteTarget,
	}
}

// Format renders the row as a table line without a trailing newline.
func (r Row) Format() string {
	return fmt.Sprintf("| %s | %s | %s | %s | %s |",
		r.ID, escapeCell(r.Name), escapeCell(r.Status), r.Created, FormatLink(r.NoteText, r.NoteTarget))
}

// Number returns the numeric part of the id.
func (r Row) Number() (int, bool) {
	digits, ok := strings.CutPrefix(r.ID, IDPrefix)
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0, false
	}
	return n, true
}

// FormatID renders n as PROJ-<n>.
func FormatID(n int) string {
	return IDPrefix + strconv.Itoa(n)
}

// FormatLink renders a markdown link.
func FormatLink(text, target string) string {
	return "[" + text + "](" + target + ")"
}

// ParseLink splits a markdown link cell. ok is false when the cell is not a
// single link.
func ParseLink(cell string) (text, target string, ok bool) {
	m := linkPattern.FindStringSubmatch(strings.TrimSpace(cell))
	if m == nil {
		return "", "", false
	}
	return m[1], m[2], true
}

// EnsureExists creates the registry with Header when it is missing, creating
// parent directories as needed. An existing file is never touched.
func EnsureExists(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("checking registry %s: %w", path, err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating registry directory %s: %w", dir, err)
	}

	// O_EXCL keeps a file created between Stat and here intact.
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644) //nolint:gosec // G304: registry path comes from resolved notes root
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return nil
		}
		return fmt.Errorf("creating registry file %s: %w", path, err)
	}
	if _, err := f.WriteString(Header); err != nil {
		_ = f.Close()
		return fmt.Errorf("writing registry header %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing registry file %s: %w", path, err)
	}

	log.Info(log.CatRegistry, "Created registry", "path", path)
	return nil
}

// Read returns the registry contents.
func Read(path string) (string, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: registry path comes from resolved notes root
	if err != nil {
		return "", fmt.Errorf("reading registry %s: %w", path, err)
	}
	return string(data), nil
}

// NextID returns one more than the largest PROJ-<n> found anywhere in
// contents, or 1 when there is none. Zero padding is ignored, so PROJ-0002 and
// PROJ-2 both count as 2.
//
// The scan covers the whole text, so a marker inside a project name or a
// stray comment also raises the next id.
func NextID(contents string) int {
	maxID := 0
	for _, m := range idPattern.FindAllStringSubmatch(contents, -1) {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if n > maxID {
			maxID = n
		}
	}
	return maxID + 1
}

// AppendRow writes row as a new line at the end of the registry. It opens the
// file for append only and never rewrites existing content. A file whose last
// line lacks a newline gets one before the row.
func AppendRow(path string, row Row) error {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_APPEND, 0) //nolint:gosec // G304: registry path comes from resolved notes root
	if err != nil {
		return fmt.Errorf("opening registry %s: %w", path, err)
	}

	line := row.Format() + "\n"
	unterminated, err := endsOpen(f)
	if err != nil {
		_ = f.Close()
		return fmt.Errorf("reading registry %s: %w", path, err)
	}
	if unterminated {
		line = "\n" + line
	}

	if _, err := f.WriteString(line); err != nil {
		_ = f.Close()
		return fmt.Errorf("appending to registry %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing registry %s: %w", path, err)
	}

	log.Info(log.CatRegistry, "Appended row", "id", row.ID, "path", path)
	return nil
}

// endsOpen reports whether f is non-empty and its last byte is not a newline.
func endsOpen(f *os.File) (bool, error) {
	info, err := f.Stat()
	if err != nil {
		return false, err
	}
	if info.Size() == 0 {
		return false, nil
	}
	last := make([]byte, 1)
	if _, err := f.ReadAt(last, info.Size()-1); err != nil {
		return false, err
	}
	return last[0] != '\n', nil
}

// UpdateRow sets the status and note link of the row for id and rewrites the
// registry. The new content goes to a temp file in the same directory which
// is then renamed over the original.
func UpdateRow(path, id, status, noteTarget string) error {
	contents, err := Read(path)
	if err != nil {
		return err
	}

	updated, err := RewriteRow(contents, id, status, noteTarget)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	if err := writeAtomic(path, []byte(updated)); err != nil {
		return err
	}

	log.Info(log.CatRegistry, "Updated row", "id", id, "status", status, "note", noteTarget, "path", path)
	return nil
}

// RewriteRow returns contents with the status and note columns of the first row
// whose id column equals id replaced. Every other line is kept byte for byte.
func RewriteRow(contents, id, status, noteTarget string) (string, error) {
	lines := strings.Split(contents, "\n")

	for i, line := range lines {
		body, cr := strings.CutSuffix(line, "\r")
		cells, ok := splitCells(body)
		if !ok || cells[colID] != id {
			continue
		}
		if len(cells) < numCols {
			return "", fmt.Errorf("%w for %s: %d columns", ErrMalformedRow, id, len(cells))
		}

		cells[colStatus] = escapeCell(status)
		cells[colNote] = FormatLink(noteTarget, noteTarget)
		rewritten := "| " + strings.Join(cells, " | ") + " |"
		if cr {
			rewritten += "\r"
		}
		lines[i] = rewritten
		return strings.Join(lines, "\n"), nil
	}

	return "", fmt.Errorf("%w for %s", ErrRowNotFound, id)
}

// ParseRows returns the data rows of a registry. Lines that are not table rows
// with an identifier and five columns are skipped.
func ParseRows(contents string) []Row {
	var rows []Row
	for _, line := range strings.Split(contents, "\n") {
		cells, ok := splitCells(strings.TrimSuffix(line, "\r"))
		if !ok || len(cells) < numCols || !strings.HasPrefix(cells[colID], IDPrefix) {
			continue
		}

		row := Row{
			ID:      cells[colID],
			Name:    unescapeCell(cells[colName]),
			Status:  unescapeCell(cells[colStatus]),
			Created: cells[colCreated],
		}
		if text, target, ok := ParseLink(cells[colNote]); ok {
			row.NoteText, row.NoteTarget = text, target
		} else {
			row.NoteText = cells[colNote]
		}
		rows = append(rows, row)
	}
	return rows
}

// Load reads and parses the registry at path.
func Load(path string) ([]Row, error) {
	contents, err := Read(path)
	if err != nil {
		return nil, err
	}
	return ParseRows(contents), nil
}

// splitCells trims surrounding whitespace and pipes from a table line and
// splits it on unescaped pipes. ok is false for lines that are not table rows.
func splitCells(line string) ([]string, bool) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "|") {
		return nil, false
	}
	trimmed = strings.TrimPrefix(trimmed, "|")
	if strings.HasSuffix(trimmed, "|") && !strings.HasSuffix(trimmed, `\|`) {
		trimmed = strings.TrimSuffix(trimmed, "|")
	}

	var cells []string
	start := 0
	for i := 0; i < len(trimmed); i++ {
		switch trimmed[i] {
		case '\\':
			i++
		case '|':
			cells = append(cells, strings.TrimSpace(trimmed[start:i]))
			start = i + 1
		}
	}
	cells = append(cells, strings.TrimSpace(trimmed[start:]))
	return cells, true
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

func unescapeCell(s string) string {
	return strings.ReplaceAll(s, `\|`, "|")
}

// writeAtomic replaces path with data via a temp file and rename, keeping the
// original file mode.
func writeAtomic(path string, data []byte) error {
	mode := fs.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+"-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp registry in %s: %w", dir, err)
	}
	tmpPath := tmp.Name()

	cleanup := func() { _ = os.Remove(tmpPath) }

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("writing temp registry %s: %w", tmpPath, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("syncing temp registry %s: %w", tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("closing temp registry %s: %w", tmpPath, err)
	}
	if err := os.Chmod(tmpPath, mode); err != nil {
		cleanup()
		return fmt.Errorf("setting mode on %s: %w", tmpPath, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		cleanup()
		return fmt.Errorf("replacing registry %s: %w", path, err)
	}
	return nil
}
