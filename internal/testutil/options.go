package testutil

// projectData holds all data for a project to be laid down on disk.
type projectData struct {
	id         int
	slug       string
	name       string
	status     string
	created    string
	archived   bool
	note       bool
	row        bool
	noteTarget string
}

// defaultProject returns a projectData with sensible defaults: an active
// project with a note and a registry row.
func defaultProject(id int, slug string) projectData {
	return projectData{
		id:      id,
		slug:    slug,
		name:    slug, // Default name is the slug
		status:  "active",
		created: "2025-01-01",
		note:    true,
		row:     true,
	}
}

// ProjectOption configures a project during builder setup.
type ProjectOption func(*projectData)

// Name sets the registry name and note heading.
func Name(name string) ProjectOption {
	return func(p *projectData) { p.name = name }
}

// Status sets the registry status.
func Status(status string) ProjectOption {
	return func(p *projectData) { p.status = status }
}

// Created sets the registry created date (YYYY-MM-DD).
func Created(date string) ProjectOption {
	return func(p *projectData) { p.created = date }
}

// Archived places the directory under the archived root. The status becomes
// "archived" unless Status is also given after it.
func Archived() ProjectOption {
	return func(p *projectData) {
		p.archived = true
		p.status = "archived"
	}
}

// WithoutNote leaves the project directory empty.
func WithoutNote() ProjectOption {
	return func(p *projectData) { p.note = false }
}

// WithoutRow skips the registry row, leaving an orphan directory.
func WithoutRow() ProjectOption {
	return func(p *projectData) { p.row = false }
}

// NoteTarget overrides the link recorded in the registry row.
func NoteTarget(target string) ProjectOption {
	return func(p *projectData) { p.noteTarget = target }
}
