package snapshot

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// LocalSink はローカルディレクトリにスナップショットを保存する Sink 実装。
type LocalSink struct {
	baseDir string
}

// NewLocalSink は LocalSink を生成する。
func NewLocalSink(baseDir string) *LocalSink {
	return &LocalSink{baseDir: baseDir}
}

// Save writes to a temporary file and renames it, so a reader never sees a
// partial snapshot.
func (s *LocalSink) Save(_ context.Context, key string, data io.Reader) (string, error) {
	dest := filepath.Join(s.baseDir, key)
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return "", fmt.Errorf("snapshot: mkdir: %w", err)
	}

	f, err := os.CreateTemp(filepath.Dir(dest), ".tmp-"+filepath.Base(key))
	if err != nil {
		return "", fmt.Errorf("snapshot: create: %w", err)
	}
	tmp := f.Name()
	if _, err := io.Copy(f, data); err != nil {
		f.Close()
		os.Remove(tmp)
		return "", fmt.Errorf("snapshot: write: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("snapshot: close: %w", err)
	}
	if err := os.Rename(tmp, dest); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("snapshot: rename: %w", err)
	}
	return dest, nil
}
