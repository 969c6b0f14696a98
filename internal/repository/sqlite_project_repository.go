package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/trackforever/backend/internal/model"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS projects (
    id         TEXT PRIMARY KEY,
    hash       TEXT NOT NULL,
    doc        TEXT NOT NULL,
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_projects_hash ON projects (hash);
`

// SQLiteProjectRepository は ProjectRepository の SQLite 実装（単一プロセス向け）。
// 接続を 1 本に制限し、トランザクションを直列化する。
type SQLiteProjectRepository struct {
	db *sql.DB
}

// NewSQLiteProjectRepository は path の SQLite DB を開き、スキーマを作成する。
// path に ":memory:" を渡すとインメモリ DB になる。
func NewSQLiteProjectRepository(path string) (*SQLiteProjectRepository, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	return &SQLiteProjectRepository{db: db}, nil
}

func (r *SQLiteProjectRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *SQLiteProjectRepository) Close() error {
	return r.db.Close()
}

type sqlQuerier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (r *SQLiteProjectRepository) GetByID(ctx context.Context, id string) (*model.Project, error) {
	return r.get(ctx, r.db, id)
}

func (r *SQLiteProjectRepository) get(ctx context.Context, q sqlQuerier, id string) (*model.Project, error) {
	var doc string
	err := q.QueryRowContext(ctx, `SELECT doc FROM projects WHERE id = ?`, id).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return unmarshalProject([]byte(doc))
}

func (r *SQLiteProjectRepository) List(ctx context.Context) ([]*model.Project, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT doc FROM projects ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	projects := []*model.Project{}
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, err
		}
		p, err := unmarshalProject([]byte(doc))
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

func (r *SQLiteProjectRepository) Put(ctx context.Context, project *model.Project) error {
	return r.put(ctx, r.db, project)
}

func (r *SQLiteProjectRepository) put(ctx context.Context, q sqlQuerier, project *model.Project) error {
	doc, err := marshalProject(project)
	if err != nil {
		return err
	}
	_, err = q.ExecContext(ctx,
		`INSERT INTO projects (id, hash, doc) VALUES (?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET
		   hash = excluded.hash,
		   doc = excluded.doc,
		   updated_at = CURRENT_TIMESTAMP`,
		project.ID, project.Hash, string(doc),
	)
	if err != nil {
		return fmt.Errorf("failed to save project: %w", err)
	}
	return nil
}

func (r *SQLiteProjectRepository) Delete(ctx context.Context, id string) error {
	return r.deleteWhere(ctx, `DELETE FROM projects WHERE id = ?`, id)
}

func (r *SQLiteProjectRepository) DeleteByHash(ctx context.Context, hash string) error {
	return r.deleteWhere(ctx, `DELETE FROM projects WHERE hash = ?`, hash)
}

func (r *SQLiteProjectRepository) deleteWhere(ctx context.Context, query, arg string) error {
	res, err := r.db.ExecContext(ctx, query, arg)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SQLiteProjectRepository) DeleteAll(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM projects`)
	return err
}

func (r *SQLiteProjectRepository) Upsert(ctx context.Context, id string, fn UpsertFunc) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	current, err := r.get(ctx, tx, id)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}
	next, err := fn(current)
	if err != nil || next == nil {
		return err
	}
	if err := r.put(ctx, tx, next); err != nil {
		return err
	}
	return tx.Commit()
}
