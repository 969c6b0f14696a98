package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/dgraph-io/badger/v4"

	"github.com/trackforever/backend/internal/model"
)

// projectPrefix namespaces project records. Every key is projectPrefix + id.
var projectPrefix = []byte("project/")

// maxConflictRetries bounds optimistic retries of Upsert.
const maxConflictRetries = 16

// BadgerConfig holds configuration for the embedded Badger store.
type BadgerConfig struct {
	// Path is the directory for Badger files. Ignored when InMemory is true.
	Path string
	// InMemory keeps everything in RAM. Useful for tests.
	InMemory   bool
	SyncWrites bool
	// Logger receives Badger's internal logs. nil disables them.
	Logger *slog.Logger
}

// badgerLogger adapts slog.Logger to Badger's Logger interface.
type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Info(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

// OpenBadger opens a Badger database for cfg.
func OpenBadger(cfg BadgerConfig) (*badger.DB, error) {
	if !cfg.InMemory && cfg.Path == "" {
		return nil, errors.New("badger: path is required for persistent database")
	}

	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(cfg.Path, 0o750); err != nil {
			return nil, fmt.Errorf("badger: create directory %s: %w", cfg.Path, err)
		}
		opts = badger.DefaultOptions(cfg.Path)
	}
	opts = opts.WithSyncWrites(cfg.SyncWrites).WithNumVersionsToKeep(1)
	if cfg.Logger != nil {
		opts = opts.WithLogger(&badgerLogger{logger: cfg.Logger})
	} else {
		opts = opts.WithLogger(nil)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("badger: open: %w", err)
	}
	return db, nil
}

// BadgerProjectRepository は ProjectRepository の Badger（組み込み KV）実装
type BadgerProjectRepository struct {
	db *badger.DB
}

// NewBadgerProjectRepository は BadgerProjectRepository を生成する
func NewBadgerProjectRepository(db *badger.DB) *BadgerProjectRepository {
	return &BadgerProjectRepository{db: db}
}

func projectKey(id string) []byte {
	return append(append([]byte{}, projectPrefix...), id...)
}

func (r *BadgerProjectRepository) Ping(_ context.Context) error {
	if r.db.IsClosed() {
		return errors.New("badger: database is closed")
	}
	return nil
}

func (r *BadgerProjectRepository) Close() error {
	return r.db.Close()
}

func getProject(txn *badger.Txn, id string) (*model.Project, error) {
	item, err := txn.Get(projectKey(id))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	doc, err := item.ValueCopy(nil)
	if err != nil {
		return nil, err
	}
	return unmarshalProject(doc)
}

func setProject(txn *badger.Txn, p *model.Project) error {
	doc, err := marshalProject(p)
	if err != nil {
		return err
	}
	return txn.Set(projectKey(p.ID), doc)
}

func (r *BadgerProjectRepository) GetByID(_ context.Context, id string) (*model.Project, error) {
	var p *model.Project
	err := r.db.View(func(txn *badger.Txn) error {
		var err error
		p, err = getProject(txn, id)
		return err
	})
	return p, err
}

// List はキー順（= ID 順）で全プロジェクトを返す
func (r *BadgerProjectRepository) List(_ context.Context) ([]*model.Project, error) {
	projects := []*model.Project{}
	err := r.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.IteratorOptions{PrefetchValues: true, PrefetchSize: 100, Prefix: projectPrefix})
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			doc, err := it.Item().ValueCopy(nil)
			if err != nil {
				return err
			}
			p, err := unmarshalProject(doc)
			if err != nil {
				return err
			}
			projects = append(projects, p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return projects, nil
}

func (r *BadgerProjectRepository) Put(_ context.Context, project *model.Project) error {
	return r.db.Update(func(txn *badger.Txn) error {
		return setProject(txn, project)
	})
}

func (r *BadgerProjectRepository) Delete(_ context.Context, id string) error {
	return r.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(projectKey(id)); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return ErrNotFound
			}
			return err
		}
		return txn.Delete(projectKey(id))
	})
}

// DeleteByHash はハッシュの索引を持たないため全件を走査する
func (r *BadgerProjectRepository) DeleteByHash(ctx context.Context, hash string) error {
	projects, err := r.List(ctx)
	if err != nil {
		return err
	}
	for _, p := range projects {
		if p.Hash == hash {
			return r.Delete(ctx, p.ID)
		}
	}
	return ErrNotFound
}

func (r *BadgerProjectRepository) DeleteAll(_ context.Context) error {
	return r.db.DropPrefix(projectPrefix)
}

// Upsert は楽観的トランザクションで実行し、競合時は再試行する
func (r *BadgerProjectRepository) Upsert(ctx context.Context, id string, fn UpsertFunc) error {
	for attempt := 0; attempt < maxConflictRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		err := r.db.Update(func(txn *badger.Txn) error {
			current, err := getProject(txn, id)
			if err != nil && !errors.Is(err, ErrNotFound) {
				return err
			}
			next, err := fn(current)
			if err != nil || next == nil {
				return err
			}
			return setProject(txn, next)
		})
		if !errors.Is(err, badger.ErrConflict) {
			return err
		}
	}
	return fmt.Errorf("badger: upsert %s: %w", id, badger.ErrConflict)
}
