package service

import (
	"context"

	"github.com/trackforever/backend/internal/model"
	"github.com/trackforever/backend/internal/outcome"
)

// SyncService はトラッカーから送られたバッチを保存済みの状態とマージするインターフェース。
// キー単位の失敗（未知のプロジェクト、不正なエンティティ）は Report に記録され、
// error はストア自体の障害の場合のみ返す。
type SyncService interface {
	// SetIssues は projectId → Issue 一覧のバッチをマージする。Report はキーのソート順
	SetIssues(ctx context.Context, batch map[string][]*model.Issue) (*outcome.Report, error)
	// SetProjects はプロジェクトを作成・更新する。Report は送信順
	SetProjects(ctx context.Context, projects []*model.Project) (*outcome.Report, error)
}
