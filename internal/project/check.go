package project

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/zjrosen/pman/internal/log"
	"github.com/zjrosen/pman/internal/namespace"
	"github.com/zjrosen/pman/internal/paths"
	"github.com/zjrosen/pman/internal/registry"
	"github.com/zjrosen/pman/internal/slug"
)

// IssueKind classifies a registry/filesystem disagreement.
type IssueKind string

const (
	IssueDuplicateID    IssueKind = "duplicate-id"    // more than one registry row for an id
	IssueMissingDir     IssueKind = "missing-dir"     // row with no directory in either namespace
	IssueOrphanDir      IssueKind = "orphan-dir"      // directory with no registry row
	IssueStatusMismatch IssueKind = "status-mismatch" // archived row with active directory or the reverse
	IssueStaleLink      IssueKind = "stale-link"      // note link does not resolve
	IssueDuplicateSlug  IssueKind = "duplicate-slug"  // slug used by more than one directory
	IssueBadSlug        IssueKind = "bad-slug"        // directory slug that Slugify would not produce
)

// Issue is one finding of Check.
type Issue struct {
	Kind   IssueKind
	ID     string
	Path   string
	Detail string
}

func (i Issue) String() string {
	parts := []string{string(i.Kind)}
	if i.ID != "" {
		parts = append(parts, i.ID)
	}
	if i.Path != "" {
		parts = append(parts, i.Path)
	}
	s := strings.Join(parts, " ")
	if i.Detail != "" {
		s += ": " + i.Detail
	}
	return s
}

// Report is the result of Check.
type Report struct {
	Rows     int
	Active   int
	Archived int
	Issues   []Issue
}

// OK reports whether no issues were found.
func (r Report) OK() bool {
	return len(r.Issues) == 0
}

// Check compares the registry with both namespaces and reports every
// disagreement. It only reads.
func Check(p paths.NotesPaths) (Report, error) {
	rows, err := registry.Load(p.Registry)
	if err != nil {
		return Report{}, err
	}
	active, err := namespace.List(p.ProjectsDir)
	if err != nil {
		return Report{}, err
	}
	archived, err := namespace.List(p.ArchivesProjectsDir)
	if err != nil {
		return Report{}, err
	}

	report := Report{Rows: len(rows), Active: len(active), Archived: len(archived)}
	add := func(i Issue) { report.Issues = append(report.Issues, i) }

	type located struct {
		entry    namespace.Entry
		archived bool
	}
	dirsByID := make(map[string][]located)
	dirsBySlug := make(map[string][]string)
	for _, e := range active {
		dirsByID[e.ProjectID()] = append(dirsByID[e.ProjectID()], located{entry: e})
		dirsBySlug[e.Slug] = append(dirsBySlug[e.Slug], e.Path)
	}
	for _, e := range archived {
		dirsByID[e.ProjectID()] = append(dirsByID[e.ProjectID()], located{entry: e, archived: true})
		dirsBySlug[e.Slug] = append(dirsBySlug[e.Slug], e.Path)
	}

	seen := make(map[string]bool, len(rows))
	base := filepath.Dir(p.Registry)
	for _, row := range rows {
		if seen[row.ID] {
			add(Issue{Kind: IssueDuplicateID, ID: row.ID, Detail: "listed more than once"})
			continue
		}
		seen[row.ID] = true

		dirs := dirsByID[row.ID]
		if len(dirs) == 0 {
			add(Issue{Kind: IssueMissingDir, ID: row.ID, Detail: "no directory in projects or archives"})
			continue
		}

		rowArchived := row.Status == registry.StatusArchived
		for _, d := range dirs {
			if d.archived != rowArchived {
				add(Issue{
					Kind:   IssueStatusMismatch,
					ID:     row.ID,
					Path:   d.entry.Path,
					Detail: fmt.Sprintf("status %q but directory is %s", row.Status, where(d.archived)),
				})
			}
		}

		if row.NoteTarget != "" && !exists(filepath.Join(base, filepath.FromSlash(row.NoteTarget))) {
			add(Issue{Kind: IssueStaleLink, ID: row.ID, Detail: "note link " + row.NoteTarget + " does not resolve"})
		}
	}

	ids := make([]string, 0, len(dirsByID))
	for id := range dirsByID {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		if seen[id] {
			continue
		}
		for _, d := range dirsByID[id] {
			add(Issue{Kind: IssueOrphanDir, ID: id, Path: d.entry.Path, Detail: "not in registry"})
		}
	}

	for _, e := range append(append([]namespace.Entry{}, active...), archived...) {
		if !slug.Valid(e.Slug) {
			add(Issue{Kind: IssueBadSlug, ID: e.ProjectID(), Path: e.Path, Detail: fmt.Sprintf("slug %q is not lowercase letters, digits and single dashes", e.Slug)})
		}
	}

	slugs := make([]string, 0, len(dirsBySlug))
	for s, dirs := range dirsBySlug {
		if len(dirs) > 1 {
			slugs = append(slugs, s)
		}
	}
	sort.Strings(slugs)
	for _, s := range slugs {
		add(Issue{Kind: IssueDuplicateSlug, Path: dirsBySlug[s][0], Detail: fmt.Sprintf("slug %q used by %d directories", s, len(dirsBySlug[s]))})
	}

	log.Debug(log.CatProject, "Checked registry", "rows", report.Rows, "issues", len(report.Issues))
	return report, nil
}

func where(archived bool) string {
	if archived {
		return "archived"
	}
	return "active"
}
