// Package slug turns human project names into filesystem- and link-safe tokens.
package slug

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEmptySlug is returned when a name normalizes to nothing.
var ErrEmptySlug = errors.New("name produces an empty slug")

// Slugify lower-cases ASCII letters and digits and collapses every run of any
// other character, non-ASCII included, into a single '-'. Leading and trailing
// dashes are trimmed.
func Slugify(name string) (string, error) {
	var b strings.Builder
	b.Grow(len(name))
	prevDash := false

	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			prevDash = false
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r + ('a' - 'A'))
			prevDash = false
		case !prevDash:
			b.WriteByte('-')
			prevDash = true
		}
	}

	s := strings.Trim(b.String(), "-")
	if s == "" {
		return "", fmt.Errorf("%w: %q", ErrEmptySlug, name)
	}
	return s, nil
}

// Compose returns the slug of name, prefixed with the slug of area when area is
// non-empty. An empty area is treated as absent.
func Compose(name, area string) (string, error) {
	s, err := Slugify(name)
	if err != nil {
		return "", err
	}
	if area == "" {
		return s, nil
	}
	a, err := Slugify(area)
	if err != nil {
		return "", fmt.Errorf("area: %w", err)
	}
	return a + "-" + s, nil
}

// Valid reports whether s is already a slug: non-empty, lowercase ASCII letters,
// digits and single interior dashes.
func Valid(s string) bool {
	if s == "" || s[0] == '-' || s[len(s)-1] == '-' {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9':
		case c == '-':
			if s[i-1] == '-' {
				return false
			}
		default:
			return false
		}
	}
	return true
}
