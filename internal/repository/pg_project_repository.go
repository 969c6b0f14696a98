package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/trackforever/backend/internal/model"
)

// PgProjectRepository は ProjectRepository の PostgreSQL 実装。
// プロジェクトは Issue を含めた JSON ドキュメントを BYTEA として 1 行に保存する。
type PgProjectRepository struct {
	pool *pgxpool.Pool
}

// NewPgProjectRepository は PgProjectRepository を生成する
func NewPgProjectRepository(pool *pgxpool.Pool) *PgProjectRepository {
	return &PgProjectRepository{pool: pool}
}

func (r *PgProjectRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

func (r *PgProjectRepository) Close() error {
	r.pool.Close()
	return nil
}

// GetByID は ID でプロジェクトを取得する
func (r *PgProjectRepository) GetByID(ctx context.Context, id string) (*model.Project, error) {
	var doc []byte
	err := r.pool.QueryRow(ctx, `SELECT doc FROM projects WHERE id = $1`, id).Scan(&doc)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return unmarshalProject(doc)
}

// List は全プロジェクトを取得する
func (r *PgProjectRepository) List(ctx context.Context) ([]*model.Project, error) {
	rows, err := r.pool.Query(ctx, `SELECT doc FROM projects ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	projects := []*model.Project{}
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, err
		}
		p, err := unmarshalProject(doc)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// Put はプロジェクトを作成または置き換える
func (r *PgProjectRepository) Put(ctx context.Context, project *model.Project) error {
	return r.put(ctx, r.pool, project)
}

// execer は *pgxpool.Pool と pgx.Tx の共通部分
type execer interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

func (r *PgProjectRepository) put(ctx context.Context, q execer, project *model.Project) error {
	doc, err := marshalProject(project)
	if err != nil {
		return err
	}
	_, err = q.Exec(ctx,
		`INSERT INTO projects (id, hash, doc)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (id) DO UPDATE SET
		   hash = EXCLUDED.hash,
		   doc = EXCLUDED.doc,
		   updated_at = NOW()`,
		project.ID, project.Hash, doc,
	)
	return err
}

// Delete は ID でプロジェクトを削除する。対象が存在しない場合は ErrNotFound を返す。
func (r *PgProjectRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteByHash は現在のハッシュが一致するプロジェクトを削除する
func (r *PgProjectRepository) DeleteByHash(ctx context.Context, hash string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM projects WHERE hash = $1`, hash)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteAll は全プロジェクトを削除する
func (r *PgProjectRepository) DeleteAll(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM projects`)
	return err
}

// Upsert は同じ id に対する読み込み・更新をトランザクション内で直列化する。
// 行が存在しない場合も advisory lock で同時作成を防ぐ。
func (r *PgProjectRepository) Upsert(ctx context.Context, id string, fn UpsertFunc) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, id); err != nil {
		return err
	}

	var current *model.Project
	var doc []byte
	err = tx.QueryRow(ctx, `SELECT doc FROM projects WHERE id = $1 FOR UPDATE`, id).Scan(&doc)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
	case err != nil:
		return err
	default:
		if current, err = unmarshalProject(doc); err != nil {
			return err
		}
	}

	next, err := fn(current)
	if err != nil || next == nil {
		return err
	}
	if err := r.put(ctx, tx, next); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
