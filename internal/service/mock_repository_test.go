package service

import (
	"context"
	"testing"

	"github.com/trackforever/backend/internal/model"
	"github.com/trackforever/backend/internal/repository"
)

// mockProjectRepository は ProjectRepository のモック
type mockProjectRepository struct {
	getByIDFunc      func(ctx context.Context, id string) (*model.Project, error)
	listFunc         func(ctx context.Context) ([]*model.Project, error)
	putFunc          func(ctx context.Context, project *model.Project) error
	deleteFunc       func(ctx context.Context, id string) error
	deleteByHashFunc func(ctx context.Context, hash string) error
	deleteAllFunc    func(ctx context.Context) error
	upsertFunc       func(ctx context.Context, id string, fn repository.UpsertFunc) error
}

func (m *mockProjectRepository) Ping(_ context.Context) error { return nil }

func (m *mockProjectRepository) Close() error { return nil }

func (m *mockProjectRepository) GetByID(ctx context.Context, id string) (*model.Project, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, repository.ErrNotFound
}

func (m *mockProjectRepository) List(ctx context.Context) ([]*model.Project, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx)
	}
	return nil, nil
}

func (m *mockProjectRepository) Put(ctx context.Context, project *model.Project) error {
	if m.putFunc != nil {
		return m.putFunc(ctx, project)
	}
	return nil
}

func (m *mockProjectRepository) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

func (m *mockProjectRepository) DeleteByHash(ctx context.Context, hash string) error {
	if m.deleteByHashFunc != nil {
		return m.deleteByHashFunc(ctx, hash)
	}
	return nil
}

func (m *mockProjectRepository) DeleteAll(ctx context.Context) error {
	if m.deleteAllFunc != nil {
		return m.deleteAllFunc(ctx)
	}
	return nil
}

func (m *mockProjectRepository) Upsert(ctx context.Context, id string, fn repository.UpsertFunc) error {
	if m.upsertFunc != nil {
		return m.upsertFunc(ctx, id, fn)
	}
	_, err := fn(nil)
	return err
}

func ptr(v int64) *int64 { return &v }

func testProject(id string) *model.Project {
	return &model.Project{
		ID:          id,
		OwnerName:   "Will",
		Name:        "Test Project " + id,
		Description: "This is a very complex project.",
		Source:      "Google Code",
	}
}

func testIssue(projectID, id, summary string) *model.Issue {
	return &model.Issue{
		ID:            id,
		ProjectID:     projectID,
		Status:        "open",
		Summary:       summary,
		Labels:        []string{"bug"},
		Comments:      []model.Comment{{Author: "alice", Body: "repro attached"}},
		SubmitterName: "alice",
		Assignees:     []string{"bob"},
		TimeCreated:   ptr(1400000000),
	}
}

// seedStore は memory リポジトリに projects を保存する
func seedStore(t *testing.T, repo repository.ProjectRepository, projects ...*model.Project) {
	for _, p := range projects {
		if err := repo.Put(context.Background(), p); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
}
