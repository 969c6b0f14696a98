package service

import (
	"context"
	"log/slog"

	"github.com/trackforever/backend/internal/model"
	"github.com/trackforever/backend/internal/outcome"
	"github.com/trackforever/backend/internal/repository"
)

// AdminService はプロトコル外の管理操作（削除・初期データ投入）
type AdminService interface {
	DeleteAll(ctx context.Context) error
	Delete(ctx context.Context, id string) error
	DeleteByHash(ctx context.Context, hash string) error
	// Seed は projects を SetProjects で、その Issue を SetIssues で投入する
	Seed(ctx context.Context, projects []*model.Project) (*SeedResult, error)
}

// SeedResult holds the reports of the two merges Seed performs.
type SeedResult struct {
	Projects *outcome.Report
	Issues   *outcome.Report
}

// AdminServiceImpl は AdminService の実装
type AdminServiceImpl struct {
	projectRepo repository.ProjectRepository
	sync        SyncService
}

// NewAdminService は AdminServiceImpl を生成する
func NewAdminService(projectRepo repository.ProjectRepository, sync SyncService) AdminService {
	return &AdminServiceImpl{projectRepo: projectRepo, sync: sync}
}

func (s *AdminServiceImpl) DeleteAll(ctx context.Context) error {
	slog.Warn("deleting all projects")
	return s.projectRepo.DeleteAll(ctx)
}

func (s *AdminServiceImpl) Delete(ctx context.Context, id string) error {
	slog.Info("deleting project", "project_id", id)
	return s.projectRepo.Delete(ctx, id)
}

func (s *AdminServiceImpl) DeleteByHash(ctx context.Context, hash string) error {
	slog.Info("deleting project by hash", "hash", hash)
	return s.projectRepo.DeleteByHash(ctx, hash)
}

// Seed は既存プロジェクトにも Issue がマージされるよう、プロジェクトと Issue を分けて投入する
func (s *AdminServiceImpl) Seed(ctx context.Context, projects []*model.Project) (*SeedResult, error) {
	bare := make([]*model.Project, 0, len(projects))
	issues := make(map[string][]*model.Issue)
	for _, p := range projects {
		if p == nil {
			continue
		}
		q := p.Clone()
		q.Issues = nil
		bare = append(bare, q)
		for id, issue := range p.Issues {
			if issue == nil {
				// SetIssues がキー単位で malformed_entity として報告する
				issues[p.ID] = append(issues[p.ID], nil)
				continue
			}
			issue = issue.Clone()
			if issue.ID == "" {
				issue.ID = id
			}
			if issue.ProjectID == "" {
				issue.ProjectID = p.ID
			}
			issues[p.ID] = append(issues[p.ID], issue)
		}
	}

	projectReport, err := s.sync.SetProjects(ctx, bare)
	if err != nil {
		return nil, err
	}
	issueReport, err := s.sync.SetIssues(ctx, issues)
	if err != nil {
		return nil, err
	}
	return &SeedResult{Projects: projectReport, Issues: issueReport}, nil
}
