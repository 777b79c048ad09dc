package slug

import (
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "compacts punctuation", input: "Hello, World!!!", want: "hello-world"},
		{name: "lowercases", input: "Runes Notes", want: "runes-notes"},
		{name: "trims edges", input: "  --spaced out--  ", want: "spaced-out"},
		{name: "keeps digits", input: "Q3 2025 Plan", want: "q3-2025-plan"},
		{name: "non-ascii is a separator", input: "Café Über", want: "caf-ber"},
		{name: "already a slug", input: "already-a-slug", want: "already-a-slug"},
		{name: "underscores collapse", input: "snake_case__name", want: "snake-case-name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Slugify(tt.input)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestSlugify_Empty(t *testing.T) {
	for _, input := range []string{"", "!!!", "   ", "éè", "---"} {
		_, err := Slugify(input)
		require.ErrorIs(t, err, ErrEmptySlug, "input %q", input)
	}
}

func TestCompose(t *testing.T) {
	got, err := Compose("Runes Notes", "religion")
	require.NoError(t, err)
	require.Equal(t, "religion-runes-notes", got)

	got, err = Compose("Runes Notes", "")
	require.NoError(t, err)
	require.Equal(t, "runes-notes", got, "empty area adds no separator")

	got, err = Compose("Plan", "Home Lab")
	require.NoError(t, err)
	require.Equal(t, "home-lab-plan", got)
}

func TestCompose_Errors(t *testing.T) {
	_, err := Compose("???", "area")
	require.ErrorIs(t, err, ErrEmptySlug)

	_, err = Compose("Name", "!!")
	require.ErrorIs(t, err, ErrEmptySlug)
	require.Contains(t, err.Error(), "area")
}

func TestValid(t *testing.T) {
	require.True(t, Valid("hello-world"))
	require.True(t, Valid("a1"))
	require.False(t, Valid(""))
	require.False(t, Valid("-lead"))
	require.False(t, Valid("trail-"))
	require.False(t, Valid("dou--ble"))
	require.False(t, Valid("Upper"))
	require.False(t, Valid("sp ace"))
}

func TestSlugify_OutputShape(t *testing.T) {
	rapid.Check(t, func(r *rapid.T) {
		input := rapid.String().Draw(r, "input")
		got, err := Slugify(input)
		if err != nil {
			return
		}
		if !Valid(got) {
			r.Fatalf("Slugify(%q) = %q is not a valid slug", input, got)
		}
	})
}

func TestSlugify_ValidSlugIsFixedPoint(t *testing.T) {
	rapid.Check(t, func(r *rapid.T) {
		s := rapid.StringMatching(`[a-z0-9]{1,8}(-[a-z0-9]{1,8}){0,4}`).Draw(r, "slug")
		got, err := Slugify(s)
		if err != nil {
			r.Fatalf("Slugify(%q) failed: %v", s, err)
		}
		if got != s {
			r.Fatalf("Slugify(%q) = %q, want unchanged", s, got)
		}
	})
}

func TestSlugify_Deterministic(t *testing.T) {
	rapid.Check(t, func(r *rapid.T) {
		input := rapid.String().Draw(r, "input")
		a, errA := Slugify(input)
		b, errB := Slugify(input)
		if a != b || (errA == nil) != (errB == nil) {
			r.Fatalf("Slugify(%q) not deterministic", input)
		}
	})
}
