package repository

import (
	"context"

	"github.com/trackforever/backend/internal/model"
)

// DB は DB 接続の生存確認を行うインターフェース
type DB interface {
	Ping(ctx context.Context) error
}

// UpsertFunc receives the stored project (nil when absent) and returns the
// project to store. Returning a nil project leaves the store untouched.
// The current value is a private copy and may be modified and returned.
type UpsertFunc func(current *model.Project) (*model.Project, error)

// ProjectRepository はプロジェクト（と埋め込まれた Issue）永続化のインターフェース。
// 返される *model.Project は呼び出し側のコピーで、変更しても保存内容には影響しない。
type ProjectRepository interface {
	DB
	// GetByID は存在しない場合 ErrNotFound を返す
	GetByID(ctx context.Context, id string) (*model.Project, error)
	// List は全プロジェクトを ID 順で返す。空の場合は空スライス
	List(ctx context.Context) ([]*model.Project, error)
	Put(ctx context.Context, project *model.Project) error
	Delete(ctx context.Context, id string) error
	DeleteByHash(ctx context.Context, hash string) error
	DeleteAll(ctx context.Context) error
	// Upsert runs fn and stores its result atomically with respect to other
	// Upsert calls on the same id. Errors returned by fn are passed through.
	Upsert(ctx context.Context, id string, fn UpsertFunc) error
	Close() error
}
