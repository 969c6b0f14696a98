// Package canonical produces the deterministic byte encoding of projects and
// issues that content fingerprints are computed from.
//
// The encoding is compact JSON with a fixed field order (schema v1):
//
//	project: id, ownerName, name, description, source
//	issue:   id, projectId, status, summary, labels, comments (author, body),
//	         submitterName, assignees, timeCreated, timeUpdated, timeClosed
//
// hash and prevHash are never encoded. A project's issues are not part of the
// project encoding; each issue is fingerprinted on its own. Strings are NFC
// normalized, HTML escaping is off, a nil sequence encodes like an empty one
// and an absent timestamp encodes as null.
//
// Stored hashes depend on this byte layout. Changing the field order or the
// escaping rules invalidates every fingerprint in the store.
package canonical

import (
	"bytes"
	"encoding/json"
	"strconv"

	"golang.org/x/text/unicode/norm"

	"github.com/trackforever/backend/internal/model"
)

// EncodeProject returns the canonical encoding of p.
func EncodeProject(p *model.Project) []byte {
	var w writer
	w.begin('{')
	w.stringField("id", p.ID)
	w.stringField("ownerName", p.OwnerName)
	w.stringField("name", p.Name)
	w.stringField("description", p.Description)
	w.stringField("source", p.Source)
	w.end('}')
	return w.buf.Bytes()
}

// EncodeIssue returns the canonical encoding of i.
func EncodeIssue(i *model.Issue) []byte {
	var w writer
	w.begin('{')
	w.stringField("id", i.ID)
	w.stringField("projectId", i.ProjectID)
	w.stringField("status", i.Status)
	w.stringField("summary", i.Summary)
	w.stringsField("labels", i.Labels)

	w.key("comments")
	w.begin('[')
	for _, c := range i.Comments {
		w.sep()
		w.begin('{')
		w.stringField("author", c.Author)
		w.stringField("body", c.Body)
		w.end('}')
	}
	w.end(']')

	w.stringField("submitterName", i.SubmitterName)
	w.stringsField("assignees", i.Assignees)
	w.timeField("timeCreated", i.TimeCreated)
	w.timeField("timeUpdated", i.TimeUpdated)
	w.timeField("timeClosed", i.TimeClosed)
	w.end('}')
	return w.buf.Bytes()
}

// writer emits compact JSON. first tracks, per open container, whether the
// next element is the first one (no leading comma).
type writer struct {
	buf   bytes.Buffer
	first []bool
}

func (w *writer) begin(c byte) {
	w.buf.WriteByte(c)
	w.first = append(w.first, true)
}

func (w *writer) end(c byte) {
	w.first = w.first[:len(w.first)-1]
	w.buf.WriteByte(c)
}

func (w *writer) sep() {
	top := len(w.first) - 1
	if w.first[top] {
		w.first[top] = false
		return
	}
	w.buf.WriteByte(',')
}

func (w *writer) key(k string) {
	w.sep()
	w.str(k)
	w.buf.WriteByte(':')
}

func (w *writer) stringField(k, v string) {
	w.key(k)
	w.str(v)
}

func (w *writer) stringsField(k string, vs []string) {
	w.key(k)
	w.begin('[')
	for _, v := range vs {
		w.sep()
		w.str(v)
	}
	w.end(']')
}

func (w *writer) timeField(k string, t *int64) {
	w.key(k)
	if t == nil {
		w.buf.WriteString("null")
		return
	}
	w.buf.WriteString(strconv.FormatInt(*t, 10))
}

// str writes s as a JSON string literal after NFC normalization.
func (w *writer) str(s string) {
	var b bytes.Buffer
	enc := json.NewEncoder(&b)
	enc.SetEscapeHTML(false)
	// Encoding a string cannot fail.
	_ = enc.Encode(norm.NFC.String(s))
	w.buf.Write(bytes.TrimSuffix(b.Bytes(), []byte{'\n'}))
}
