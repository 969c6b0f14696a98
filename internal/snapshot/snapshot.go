// Package snapshot reads and writes YAML store snapshots. The format is the
// one `trackforever-admin seed` consumes, so an export can be seeded back.
package snapshot

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/trackforever/backend/internal/model"
)

// Sink はスナップショットの保存先を抽象化するインターフェース。
// ローカルファイルシステム実装の他、オブジェクトストレージ等に差し替え可能。
type Sink interface {
	// Save は data を key に保存し、保存先の場所を返す
	Save(ctx context.Context, key string, data io.Reader) (location string, err error)
}

// Read は YAML のプロジェクト一覧を読み込む
func Read(r io.Reader) ([]*model.Project, error) {
	var projects []*model.Project
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&projects); err != nil && err != io.EOF {
		return nil, fmt.Errorf("snapshot: decode: %w", err)
	}
	return projects, nil
}

// Encode は projects を YAML に書き出す
func Encode(w io.Writer, projects []*model.Project) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(projects); err != nil {
		return fmt.Errorf("snapshot: encode: %w", err)
	}
	return enc.Close()
}

// Key は at 時点のスナップショットのキーを返す
func Key(at time.Time) string {
	return "snapshot-" + at.UTC().Format("20060102T150405Z") + ".yaml"
}

// Write は projects を sink に保存し、保存先を返す
func Write(ctx context.Context, sink Sink, at time.Time, projects []*model.Project) (string, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, projects); err != nil {
		return "", err
	}
	return sink.Save(ctx, Key(at), &buf)
}
