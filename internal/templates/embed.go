// Package templates holds the embedded note templates written when a project
// is created.
package templates

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"text/template"
)

// NoteTemplate is the name of the default project note template.
const NoteTemplate = "notes/README.md.tmpl"

// noteTemplates embeds the project note templates.
//
//go:embed notes
var noteTemplates embed.FS

// NotesFS returns the embedded filesystem containing note templates.
func NotesFS() fs.FS {
	return noteTemplates
}

// NoteData is the data a note template is rendered with.
type NoteData struct {
	ID      string // PROJ-<n>
	Name    string
	Created string // YYYY-MM-DD
	Status  string
	Area    string // empty when the project has no area
}

// Note is a parsed note template.
type Note struct {
	tmpl *template.Template
}

// LoadNote parses the named template from fsys.
func LoadNote(fsys fs.FS, name string) (*Note, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("reading note template %s: %w", name, err)
	}
	tmpl, err := template.New(name).Option("missingkey=error").Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("parsing note template %s: %w", name, err)
	}
	return &Note{tmpl: tmpl}, nil
}

// DefaultNote returns the embedded project note template.
func DefaultNote() *Note {
	n, err := LoadNote(noteTemplates, NoteTemplate)
	if err != nil {
		// The template is compiled into the binary; failing here is a build defect.
		panic(err)
	}
	return n
}

// Render executes the template.
func (n *Note) Render(data NoteData) (string, error) {
	var buf bytes.Buffer
	if err := n.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("rendering note: %w", err)
	}
	return buf.String(), nil
}
