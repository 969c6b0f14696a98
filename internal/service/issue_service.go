package service

import (
	"context"

	"github.com/trackforever/backend/internal/model"
)

// IssueService は (projectId, issueId) の複合キーで Issue を扱うインターフェース。
// Issue はプロジェクトのレコード内にのみ保存され、このサービスはその派生ビューになる。
type IssueService interface {
	GetIssue(ctx context.Context, projectID, issueID string) (*model.Issue, error)
	// ListByProject は ID 順の Issue 一覧を返す
	ListByProject(ctx context.Context, projectID string) ([]*model.Issue, error)
	// PutIssue は 1 件の Issue をマージし、新しいハッシュを返す
	PutIssue(ctx context.Context, issue *model.Issue) (string, error)
	DeleteIssue(ctx context.Context, projectID, issueID string) error
}
