package presentation

import (
	"github.com/zjrosen/pman/internal/project"
	"github.com/zjrosen/pman/internal/registry"
)

// RowDTO represents a registry row for presentation
type RowDTO struct {
	ID      string `json:"id" yaml:"id"`
	Name    string `json:"name" yaml:"name"`
	Status  string `json:"status" yaml:"status"`
	Created string `json:"created" yaml:"created"`
	Note    string `json:"note" yaml:"note"`
}

// FromRow converts a registry row to a DTO
func FromRow(r registry.Row) RowDTO {
	return RowDTO{
		ID:      r.ID,
		Name:    r.Name,
		Status:  r.Status,
		Created: r.Created,
		Note:    r.NoteTarget,
	}
}

// FromRows converts rows, keeping only those whose status matches when status
// is non-empty.
func FromRows(rows []registry.Row, status string) []RowDTO {
	out := make([]RowDTO, 0, len(rows))
	for _, r := range rows {
		if status != "" && r.Status != status {
			continue
		}
		out = append(out, FromRow(r))
	}
	return out
}

// IssueDTO represents one consistency finding
type IssueDTO struct {
	Kind   string `json:"kind" yaml:"kind"`
	ID     string `json:"id,omitempty" yaml:"id,omitempty"`
	Path   string `json:"path,omitempty" yaml:"path,omitempty"`
	Detail string `json:"detail,omitempty" yaml:"detail,omitempty"`
}

// ReportDTO represents a consistency report
type ReportDTO struct {
	OK       bool       `json:"ok" yaml:"ok"`
	Rows     int        `json:"rows" yaml:"rows"`
	Active   int        `json:"active" yaml:"active"`
	Archived int        `json:"archived" yaml:"archived"`
	Issues   []IssueDTO `json:"issues" yaml:"issues"`
}

// FromReport converts a check report to a DTO
func FromReport(r project.Report) ReportDTO {
	issues := make([]IssueDTO, 0, len(r.Issues))
	for _, i := range r.Issues {
		issues = append(issues, IssueDTO{
			Kind:   string(i.Kind),
			ID:     i.ID,
			Path:   i.Path,
			Detail: i.Detail,
		})
	}
	return ReportDTO{
		OK:       r.OK(),
		Rows:     r.Rows,
		Active:   r.Active,
		Archived: r.Archived,
		Issues:   issues,
	}
}
