package model

import "slices"

// Issue はプロジェクトに属する課題。ID はプロジェクト内で一意。
type Issue struct {
	Hash          string    `json:"hash" yaml:"hash"`
	PrevHash      string    `json:"prevHash" yaml:"prevHash"`
	ID            string    `json:"id" yaml:"id" validate:"required"`
	ProjectID     string    `json:"projectId" yaml:"projectId" validate:"required"`
	Status        string    `json:"status" yaml:"status"`
	Summary       string    `json:"summary" yaml:"summary"`
	Labels        []string  `json:"labels" yaml:"labels"`
	Comments      []Comment `json:"comments" yaml:"comments"`
	SubmitterName string    `json:"submitterName" yaml:"submitterName"`
	Assignees     []string  `json:"assignees" yaml:"assignees"`

	// Epoch timestamps. nil means "not set" (e.g. an open issue has no TimeClosed).
	TimeCreated *int64 `json:"timeCreated,omitempty" yaml:"timeCreated,omitempty"`
	TimeUpdated *int64 `json:"timeUpdated,omitempty" yaml:"timeUpdated,omitempty"`
	TimeClosed  *int64 `json:"timeClosed,omitempty" yaml:"timeClosed,omitempty"`
}

// Comment is immutable once stored.
type Comment struct {
	Author string `json:"author" yaml:"author"`
	Body   string `json:"body" yaml:"body"`
}

// Clone returns a deep copy of i.
func (i *Issue) Clone() *Issue {
	if i == nil {
		return nil
	}
	c := *i
	c.Labels = slices.Clone(i.Labels)
	c.Comments = slices.Clone(i.Comments)
	c.Assignees = slices.Clone(i.Assignees)
	c.TimeCreated = cloneTime(i.TimeCreated)
	c.TimeUpdated = cloneTime(i.TimeUpdated)
	c.TimeClosed = cloneTime(i.TimeClosed)
	return &c
}

func cloneTime(t *int64) *int64 {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
