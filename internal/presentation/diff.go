package presentation

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// DiffLine is one line of a line-level diff.
type DiffLine struct {
	Op   diffmatchpatch.Operation
	Text string
}

// LineDiff computes a line-level diff of two texts. Equal lines are kept so
// callers can choose how much context to show.
func LineDiff(before, after string) []DiffLine {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffMain(a, b, false)
	diffs = dmp.DiffCharsToLines(diffs, lines)

	var out []DiffLine
	for _, d := range diffs {
		text := strings.TrimSuffix(d.Text, "\n")
		for _, line := range strings.Split(text, "\n") {
			out = append(out, DiffLine{Op: d.Type, Text: line})
		}
	}
	return out
}

var (
	deleteStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF8787"))
	insertStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#73F59F"))
)

// FormatDiff writes only the changed lines of before→after, prefixed with
// "-" or "+".
func (f *Formatter) FormatDiff(before, after string) error {
	for _, l := range LineDiff(before, after) {
		var line string
		switch l.Op {
		case diffmatchpatch.DiffDelete:
			line = "- " + l.Text
			if f.color {
				line = deleteStyle.Render(line)
			}
		case diffmatchpatch.DiffInsert:
			line = "+ " + l.Text
			if f.color {
				line = insertStyle.Render(line)
			}
		default:
			continue
		}
		if _, err := fmt.Fprintln(f.writer, line); err != nil {
			return err
		}
	}
	return nil
}
