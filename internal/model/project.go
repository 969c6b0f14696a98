package model

// Project はトラッカー（GitHub, Google Code など）から公開されたプロジェクトのスナップショット。
// Issues は Project が所有し、Project と同じレコードに保存される。
type Project struct {
	Hash        string            `json:"hash" yaml:"hash"`
	PrevHash    string            `json:"prevHash" yaml:"prevHash"`
	ID          string            `json:"id" yaml:"id" validate:"required"`
	OwnerName   string            `json:"ownerName" yaml:"ownerName"`
	Name        string            `json:"name" yaml:"name"`
	Description string            `json:"description" yaml:"description"`
	Source      string            `json:"source" yaml:"source"` // origin tracker, e.g. "GitHub"
	Issues      map[string]*Issue `json:"issues" yaml:"issues"`
}

// Clone returns a deep copy of p. Stores hand out clones so callers can
// mutate the result without touching stored state.
func (p *Project) Clone() *Project {
	if p == nil {
		return nil
	}
	c := *p
	if p.Issues != nil {
		c.Issues = make(map[string]*Issue, len(p.Issues))
		for id, issue := range p.Issues {
			c.Issues[id] = issue.Clone()
		}
	}
	return &c
}

// HashSummary は GET /hashes のプロジェクト単位の要素
type HashSummary struct {
	Project string            `json:"project"`
	Issues  map[string]string `json:"issues"`
}
