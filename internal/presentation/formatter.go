package presentation

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/mattn/go-runewidth"
	"gopkg.in/yaml.v3"

	"github.com/zjrosen/pman/internal/registry"
)

// Output formats accepted by Formatter.
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

// MaxNameWidth bounds the name column in table output.
const MaxNameWidth = 40

var (
	headerStyle   = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle     = lipgloss.NewStyle().Padding(0, 1)
	archivedStyle = cellStyle.Foreground(lipgloss.Color("#BBBBBB"))
	borderStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#696969"))
)

// Formatter handles output formatting
type Formatter struct {
	writer io.Writer
	color  bool
}

// NewFormatter creates a new formatter
func NewFormatter(writer io.Writer, color bool) *Formatter {
	return &Formatter{
		writer: writer,
		color:  color,
	}
}

// ValidFormat reports whether format names a supported output format.
func ValidFormat(format string) bool {
	switch format {
	case FormatTable, FormatJSON, FormatYAML:
		return true
	}
	return false
}

// FormatRows writes rows in the given format.
func (f *Formatter) FormatRows(format string, rows []RowDTO) error {
	switch format {
	case FormatJSON:
		return f.json(rows)
	case FormatYAML:
		return f.yaml(rows)
	case FormatTable, "":
		return f.rowsTable(rows)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

// FormatReport writes a consistency report in the given format.
func (f *Formatter) FormatReport(format string, report ReportDTO) error {
	switch format {
	case FormatJSON:
		return f.json(report)
	case FormatYAML:
		return f.yaml(report)
	case FormatTable, "":
		return f.reportText(report)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

func (f *Formatter) json(v any) error {
	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func (f *Formatter) yaml(v any) error {
	encoder := yaml.NewEncoder(f.writer)
	encoder.SetIndent(2)
	if err := encoder.Encode(v); err != nil {
		return err
	}
	return encoder.Close()
}

func (f *Formatter) rowsTable(rows []RowDTO) error {
	t := table.New().
		Headers("ID", "NAME", "STATUS", "CREATED", "NOTE")
	for _, r := range rows {
		t.Row(r.ID, Truncate(r.Name, MaxNameWidth), r.Status, r.Created, r.Note)
	}

	if f.color {
		t.Border(lipgloss.RoundedBorder()).
			BorderStyle(borderStyle).
			StyleFunc(func(row, _ int) lipgloss.Style {
				switch {
				case row == table.HeaderRow:
					return headerStyle
				case row >= 0 && row < len(rows) && rows[row].Status == registry.StatusArchived:
					return archivedStyle
				default:
					return cellStyle
				}
			})
	} else {
		plain := lipgloss.NewStyle().PaddingRight(2)
		t.BorderTop(false).
			BorderBottom(false).
			BorderLeft(false).
			BorderRight(false).
			BorderColumn(false).
			BorderHeader(false).
			StyleFunc(func(_, _ int) lipgloss.Style { return plain })
	}

	_, err := fmt.Fprintln(f.writer, t.Render())
	return err
}

func (f *Formatter) reportText(report ReportDTO) error {
	if _, err := fmt.Fprintf(f.writer, "%d rows, %d active, %d archived\n", report.Rows, report.Active, report.Archived); err != nil {
		return err
	}
	if report.OK {
		_, err := fmt.Fprintln(f.writer, "OK")
		return err
	}
	for _, i := range report.Issues {
		line := i.Kind
		if i.ID != "" {
			line += " " + i.ID
		}
		if i.Path != "" {
			line += " " + i.Path
		}
		if i.Detail != "" {
			line += ": " + i.Detail
		}
		if _, err := fmt.Fprintln(f.writer, line); err != nil {
			return err
		}
	}
	return nil
}

// Truncate shortens s to at most width terminal cells, ending with an
// ellipsis when cut.
func Truncate(s string, width int) string {
	if runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, "…")
}
