package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/trackforever/backend/internal/model"
)

// MemoryProjectRepository は ProjectRepository のインメモリ実装（開発・テスト用）
type MemoryProjectRepository struct {
	mu       sync.Mutex
	projects map[string]*model.Project
}

// NewMemoryProjectRepository は MemoryProjectRepository を生成する
func NewMemoryProjectRepository() *MemoryProjectRepository {
	return &MemoryProjectRepository{projects: make(map[string]*model.Project)}
}

func (r *MemoryProjectRepository) Ping(_ context.Context) error { return nil }

func (r *MemoryProjectRepository) Close() error { return nil }

func (r *MemoryProjectRepository) GetByID(_ context.Context, id string) (*model.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.projects[id]
	if !ok {
		return nil, ErrNotFound
	}
	return p.Clone(), nil
}

func (r *MemoryProjectRepository) List(_ context.Context) ([]*model.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	projects := make([]*model.Project, 0, len(r.projects))
	for _, p := range r.projects {
		projects = append(projects, p.Clone())
	}
	sort.Slice(projects, func(i, j int) bool { return projects[i].ID < projects[j].ID })
	return projects, nil
}

func (r *MemoryProjectRepository) Put(_ context.Context, project *model.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.projects[project.ID] = project.Clone()
	return nil
}

func (r *MemoryProjectRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.projects[id]; !ok {
		return ErrNotFound
	}
	delete(r.projects, id)
	return nil
}

func (r *MemoryProjectRepository) DeleteByHash(_ context.Context, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, p := range r.projects {
		if p.Hash == hash {
			delete(r.projects, id)
			return nil
		}
	}
	return ErrNotFound
}

func (r *MemoryProjectRepository) DeleteAll(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.projects = make(map[string]*model.Project)
	return nil
}

// Upsert holds the repository lock for the whole read-modify-write, so fn
// must not call back into the repository.
func (r *MemoryProjectRepository) Upsert(_ context.Context, id string, fn UpsertFunc) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	next, err := fn(r.projects[id].Clone())
	if err != nil || next == nil {
		return err
	}
	r.projects[id] = next.Clone()
	return nil
}
