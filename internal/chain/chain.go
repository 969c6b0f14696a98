// Package chain maintains the hash/prevHash version chain of projects and
// issues.
//
// A stored entity's hash only moves when its content changes: the old hash
// becomes prevHash and the fingerprint of the new content becomes hash.
// Re-submitting identical content leaves both fields as they were.
package chain

import (
	"github.com/trackforever/backend/internal/fingerprint"
	"github.com/trackforever/backend/internal/model"
)

// ReconcileProject sets incoming.Hash and incoming.PrevHash against stored
// (nil when the project is new) and reports whether the content changed.
func ReconcileProject(stored, incoming *model.Project) bool {
	h := fingerprint.Project(incoming)
	if stored == nil {
		incoming.Hash, incoming.PrevHash = h, ""
		return true
	}
	if h == stored.Hash {
		incoming.Hash, incoming.PrevHash = stored.Hash, stored.PrevHash
		return false
	}
	incoming.Hash, incoming.PrevHash = h, stored.Hash
	return true
}

// ReconcileIssue is ReconcileProject for a single issue.
func ReconcileIssue(stored, incoming *model.Issue) bool {
	h := fingerprint.Issue(incoming)
	if stored == nil {
		incoming.Hash, incoming.PrevHash = h, ""
		return true
	}
	if h == stored.Hash {
		incoming.Hash, incoming.PrevHash = stored.Hash, stored.PrevHash
		return false
	}
	incoming.Hash, incoming.PrevHash = h, stored.Hash
	return true
}

// MergeIssues applies incoming to the issues map of project, reconciling
// each issue against the one stored under the same id. Issues not named in
// incoming are left untouched. Issues are applied in order, so a repeated id
// is reconciled against its earlier occurrence. It returns the resulting
// hash per submitted issue id and whether any issue changed.
func MergeIssues(project *model.Project, incoming []*model.Issue) (map[string]string, bool) {
	if project.Issues == nil {
		project.Issues = make(map[string]*model.Issue, len(incoming))
	}
	hashes := make(map[string]string, len(incoming))
	changed := false
	for _, issue := range incoming {
		if ReconcileIssue(project.Issues[issue.ID], issue) {
			changed = true
		}
		project.Issues[issue.ID] = issue
		hashes[issue.ID] = issue.Hash
	}
	return hashes, changed
}
