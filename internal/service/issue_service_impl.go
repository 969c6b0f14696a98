package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/trackforever/backend/internal/chain"
	"github.com/trackforever/backend/internal/model"
	"github.com/trackforever/backend/internal/repository"
)

// IssueServiceImpl は IssueService の実装
type IssueServiceImpl struct {
	projectRepo repository.ProjectRepository
}

// NewIssueService は IssueServiceImpl を生成する（DI: ProjectRepository を注入）
func NewIssueService(projectRepo repository.ProjectRepository) IssueService {
	return &IssueServiceImpl{projectRepo: projectRepo}
}

// GetIssue はプロジェクトまたは Issue が存在しない場合 repository.ErrNotFound を返す
func (s *IssueServiceImpl) GetIssue(ctx context.Context, projectID, issueID string) (*model.Issue, error) {
	p, err := s.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	issue, ok := p.Issues[issueID]
	if !ok || issue == nil {
		return nil, repository.ErrNotFound
	}
	return issue, nil
}

// ListByProject はプロジェクトの Issue 一覧を返す
func (s *IssueServiceImpl) ListByProject(ctx context.Context, projectID string) ([]*model.Issue, error) {
	p, err := s.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	issues := make([]*model.Issue, 0, len(p.Issues))
	for _, issue := range p.Issues {
		issues = append(issues, issue)
	}
	sort.Slice(issues, func(i, j int) bool { return issues[i].ID < issues[j].ID })
	return issues, nil
}

// PutIssue はハッシュチェーンを更新して Issue を保存する
func (s *IssueServiceImpl) PutIssue(ctx context.Context, issue *model.Issue) (string, error) {
	if issue == nil || issue.ID == "" || issue.ProjectID == "" {
		return "", fmt.Errorf("%w: issue requires id and projectId", ErrMalformedEntity)
	}
	var hash string
	err := s.projectRepo.Upsert(ctx, issue.ProjectID, func(current *model.Project) (*model.Project, error) {
		if current == nil {
			return nil, repository.ErrNotFound
		}
		hashes, changed := chain.MergeIssues(current, []*model.Issue{issue.Clone()})
		hash = hashes[issue.ID]
		if !changed {
			return nil, nil
		}
		return current, nil
	})
	if err != nil {
		return "", err
	}
	return hash, nil
}

// DeleteIssue はプロジェクトから Issue を取り除く（管理用）。プロジェクトのハッシュは変わらない。
func (s *IssueServiceImpl) DeleteIssue(ctx context.Context, projectID, issueID string) error {
	return s.projectRepo.Upsert(ctx, projectID, func(current *model.Project) (*model.Project, error) {
		if current == nil {
			return nil, repository.ErrNotFound
		}
		if _, ok := current.Issues[issueID]; !ok {
			return nil, repository.ErrNotFound
		}
		delete(current.Issues, issueID)
		return current, nil
	})
}
