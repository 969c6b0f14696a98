package handler

import (
	"context"

	"github.com/trackforever/backend/internal/model"
	"github.com/trackforever/backend/internal/outcome"
	"github.com/trackforever/backend/internal/repository"
	"github.com/trackforever/backend/internal/service"
)

// mockLookupService は LookupService のモック
type mockLookupService struct {
	listFunc              func(ctx context.Context) ([]*model.Project, error)
	getProjectFunc        func(ctx context.Context, id string) (*model.Project, error)
	hashesFunc            func(ctx context.Context) (map[string]model.HashSummary, error)
	requestedProjectsFunc func(ctx context.Context, ids []string) ([]*model.Project, outcome.Status, error)
	requestedIssuesFunc   func(ctx context.Context, ids map[string][]string) (map[string][]*model.Issue, outcome.Status, error)
}

func (m *mockLookupService) List(ctx context.Context) ([]*model.Project, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx)
	}
	return []*model.Project{}, nil
}

func (m *mockLookupService) GetProject(ctx context.Context, id string) (*model.Project, error) {
	if m.getProjectFunc != nil {
		return m.getProjectFunc(ctx, id)
	}
	return nil, repository.ErrNotFound
}

func (m *mockLookupService) Hashes(ctx context.Context) (map[string]model.HashSummary, error) {
	if m.hashesFunc != nil {
		return m.hashesFunc(ctx)
	}
	return map[string]model.HashSummary{}, nil
}

func (m *mockLookupService) RequestedProjects(ctx context.Context, ids []string) ([]*model.Project, outcome.Status, error) {
	if m.requestedProjectsFunc != nil {
		return m.requestedProjectsFunc(ctx, ids)
	}
	return []*model.Project{}, outcome.StatusComplete, nil
}

func (m *mockLookupService) RequestedIssues(ctx context.Context, ids map[string][]string) (map[string][]*model.Issue, outcome.Status, error) {
	if m.requestedIssuesFunc != nil {
		return m.requestedIssuesFunc(ctx, ids)
	}
	return map[string][]*model.Issue{}, outcome.StatusComplete, nil
}

// mockSyncService は SyncService のモック
type mockSyncService struct {
	setIssuesFunc   func(ctx context.Context, batch map[string][]*model.Issue) (*outcome.Report, error)
	setProjectsFunc func(ctx context.Context, projects []*model.Project) (*outcome.Report, error)
}

func (m *mockSyncService) SetIssues(ctx context.Context, batch map[string][]*model.Issue) (*outcome.Report, error) {
	if m.setIssuesFunc != nil {
		return m.setIssuesFunc(ctx, batch)
	}
	return &outcome.Report{}, nil
}

func (m *mockSyncService) SetProjects(ctx context.Context, projects []*model.Project) (*outcome.Report, error) {
	if m.setProjectsFunc != nil {
		return m.setProjectsFunc(ctx, projects)
	}
	return &outcome.Report{}, nil
}

// mockIssueService は IssueService のモック
type mockIssueService struct {
	getIssueFunc      func(ctx context.Context, projectID, issueID string) (*model.Issue, error)
	listByProjectFunc func(ctx context.Context, projectID string) ([]*model.Issue, error)
	putIssueFunc      func(ctx context.Context, issue *model.Issue) (string, error)
	deleteIssueFunc   func(ctx context.Context, projectID, issueID string) error
}

func (m *mockIssueService) GetIssue(ctx context.Context, projectID, issueID string) (*model.Issue, error) {
	if m.getIssueFunc != nil {
		return m.getIssueFunc(ctx, projectID, issueID)
	}
	return nil, repository.ErrNotFound
}

func (m *mockIssueService) ListByProject(ctx context.Context, projectID string) ([]*model.Issue, error) {
	if m.listByProjectFunc != nil {
		return m.listByProjectFunc(ctx, projectID)
	}
	return []*model.Issue{}, nil
}

func (m *mockIssueService) PutIssue(ctx context.Context, issue *model.Issue) (string, error) {
	if m.putIssueFunc != nil {
		return m.putIssueFunc(ctx, issue)
	}
	return "", nil
}

func (m *mockIssueService) DeleteIssue(ctx context.Context, projectID, issueID string) error {
	if m.deleteIssueFunc != nil {
		return m.deleteIssueFunc(ctx, projectID, issueID)
	}
	return nil
}

// mockAdminService は AdminService のモック
type mockAdminService struct {
	deleteAllFunc    func(ctx context.Context) error
	deleteFunc       func(ctx context.Context, id string) error
	deleteByHashFunc func(ctx context.Context, hash string) error
}

func (m *mockAdminService) DeleteAll(ctx context.Context) error {
	if m.deleteAllFunc != nil {
		return m.deleteAllFunc(ctx)
	}
	return nil
}

func (m *mockAdminService) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

func (m *mockAdminService) DeleteByHash(ctx context.Context, hash string) error {
	if m.deleteByHashFunc != nil {
		return m.deleteByHashFunc(ctx, hash)
	}
	return nil
}

func (m *mockAdminService) Seed(_ context.Context, _ []*model.Project) (*service.SeedResult, error) {
	return &service.SeedResult{Projects: &outcome.Report{}, Issues: &outcome.Report{}}, nil
}
