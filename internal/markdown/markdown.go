// Package markdown renders project notes for the terminal.
package markdown

import (
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
)

// DefaultWidth is used when no word wrap width is configured.
const DefaultWidth = 80

// noMarginStyle is a JSON style that removes document margins.
const noMarginStyle = `{
	"document": {
		"margin": 0,
		"block_prefix": "",
		"block_suffix": ""
	}
}`

// Renderer wraps glamour with pman-specific configuration.
type Renderer struct {
	renderer *glamour.TermRenderer
	width    int
}

// New creates a markdown renderer with the given width and style.
// style is a glamour standard style name ("dark", "light", "notty", ...) or a
// path to a JSON style file. Defaults to "dark" if empty. A fixed style avoids
// the terminal background query that WithAutoStyle performs.
func New(width int, style string) (*Renderer, error) {
	if style == "" {
		style = "dark"
	}
	if width <= 0 {
		width = DefaultWidth
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStylePath(style),
		glamour.WithStylesFromJSONBytes([]byte(noMarginStyle)),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, fmt.Errorf("creating markdown renderer: %w", err)
	}
	return &Renderer{renderer: r, width: width}, nil
}

// Width returns the configured word wrap width.
func (r *Renderer) Width() int {
	return r.width
}

// Render transforms markdown to styled terminal output.
func (r *Renderer) Render(markdown string) (string, error) {
	return r.renderer.Render(markdown)
}

// RenderFile reads and renders the note at path.
func (r *Renderer) RenderFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading note: %w", err)
	}
	return r.Render(string(data))
}
