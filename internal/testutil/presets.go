package testutil

// WithStandardNotes adds a small consistent tree:
//
//	Projects/proj-1-garden-plan          active
//	Projects/proj-3-religion-runes-notes active
//	Archives/Projects/proj-2-old-budget  archived
func (b *Builder) WithStandardNotes() *Builder {
	return b.
		WithProject(1, "garden-plan", Name("Garden Plan"), Created("2025-01-05")).
		WithProject(2, "old-budget", Name("Old Budget"), Created("2025-02-10"), Archived()).
		WithProject(3, "religion-runes-notes", Name("Runes Notes"), Created("2025-03-15"))
}
