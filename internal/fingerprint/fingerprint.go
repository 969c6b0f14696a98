// Package fingerprint computes the content hash stored in the hash and
// prevHash fields: SHA3-512 over the canonical encoding, as lowercase hex.
package fingerprint

import (
	"encoding/hex"
	"log/slog"

	"golang.org/x/crypto/sha3"

	"github.com/trackforever/backend/internal/canonical"
	"github.com/trackforever/backend/internal/model"
)

// Size is the length of a fingerprint in hex characters.
const Size = 2 * 64

// Digest hashes b.
func Digest(b []byte) string {
	sum := sha3.Sum512(b)
	return hex.EncodeToString(sum[:])
}

// Project returns the fingerprint of p's own fields (not its issues).
func Project(p *model.Project) string {
	b := canonical.EncodeProject(p)
	slog.Debug("project canonical encoding", "project_id", p.ID, "json", string(b))
	return Digest(b)
}

// Issue returns the fingerprint of i.
func Issue(i *model.Issue) string {
	b := canonical.EncodeIssue(i)
	slog.Debug("issue canonical encoding", "project_id", i.ProjectID, "issue_id", i.ID, "json", string(b))
	return Digest(b)
}
