package service

import (
	"context"

	"github.com/trackforever/backend/internal/model"
	"github.com/trackforever/backend/internal/outcome"
)

// LookupService は読み取り側（一覧・ハッシュ射影・指定 ID の取得）のインターフェース
type LookupService interface {
	List(ctx context.Context) ([]*model.Project, error)
	GetProject(ctx context.Context, id string) (*model.Project, error)
	// Hashes は projectId → {project hash, issueId → hash} の射影を返す
	Hashes(ctx context.Context) (map[string]model.HashSummary, error)
	// RequestedProjects は要求順で見つかったプロジェクトだけを返す
	RequestedProjects(ctx context.Context, ids []string) ([]*model.Project, outcome.Status, error)
	// RequestedIssues は projectId → 見つかった Issue 一覧を返す。存在しないプロジェクトは空スライス
	RequestedIssues(ctx context.Context, ids map[string][]string) (map[string][]*model.Issue, outcome.Status, error)
}
