package presentation

import (
	"bytes"
	"testing"

	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/stretchr/testify/require"
)

func TestLineDiff_SingleRowChange(t *testing.T) {
	before := "| h |\n| PROJ-1 | A | active |\n| PROJ-2 | B | active |\n"
	after := "| h |\n| PROJ-1 | A | archived |\n| PROJ-2 | B | active |\n"

	var deleted, inserted []string
	for _, l := range LineDiff(before, after) {
		switch l.Op {
		case diffmatchpatch.DiffDelete:
			deleted = append(deleted, l.Text)
		case diffmatchpatch.DiffInsert:
			inserted = append(inserted, l.Text)
		}
	}
	require.Equal(t, []string{"| PROJ-1 | A | active |"}, deleted)
	require.Equal(t, []string{"| PROJ-1 | A | archived |"}, inserted)
}

func TestFormatDiff(t *testing.T) {
	var buf bytes.Buffer
	err := NewFormatter(&buf, false).FormatDiff("a\nb\nc\n", "a\nB\nc\n")
	require.NoError(t, err)
	require.Equal(t, "- b\n+ B\n", buf.String())
}

func TestFormatDiff_NoChange(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewFormatter(&buf, false).FormatDiff("same\n", "same\n"))
	require.Empty(t, buf.String())
}
