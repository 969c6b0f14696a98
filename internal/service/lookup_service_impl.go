package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/trackforever/backend/internal/model"
	"github.com/trackforever/backend/internal/outcome"
	"github.com/trackforever/backend/internal/repository"
)

// LookupServiceImpl は LookupService の実装
type LookupServiceImpl struct {
	projectRepo repository.ProjectRepository
	workers     int
}

// NewLookupService は LookupServiceImpl を生成する（DI: ProjectRepository を注入）
func NewLookupService(projectRepo repository.ProjectRepository, workers int) LookupService {
	if workers < 1 {
		workers = DefaultWorkers
	}
	return &LookupServiceImpl{projectRepo: projectRepo, workers: workers}
}

// List は全プロジェクトを取得する
func (s *LookupServiceImpl) List(ctx context.Context) ([]*model.Project, error) {
	projects, err := s.projectRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	if projects == nil {
		projects = []*model.Project{}
	}
	return projects, nil
}

// GetProject は ID でプロジェクトを取得する
func (s *LookupServiceImpl) GetProject(ctx context.Context, id string) (*model.Project, error) {
	return s.projectRepo.GetByID(ctx, id)
}

// Hashes は全プロジェクトのハッシュ射影を返す
func (s *LookupServiceImpl) Hashes(ctx context.Context) (map[string]model.HashSummary, error) {
	projects, err := s.projectRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	hashes := make(map[string]model.HashSummary, len(projects))
	for _, p := range projects {
		issues := make(map[string]string, len(p.Issues))
		for id, issue := range p.Issues {
			issues[id] = issue.Hash
		}
		hashes[p.ID] = model.HashSummary{Project: p.Hash, Issues: issues}
	}
	return hashes, nil
}

// RequestedProjects は指定 ID のプロジェクトを並行に取得する
func (s *LookupServiceImpl) RequestedProjects(ctx context.Context, ids []string) ([]*model.Project, outcome.Status, error) {
	found := make([]*model.Project, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, id := range ids {
		g.Go(func() error {
			p, err := s.projectRepo.GetByID(gctx, id)
			if errors.Is(err, repository.ErrNotFound) {
				return nil
			}
			if err != nil {
				return fmt.Errorf("get project %s: %w", id, err)
			}
			found[i] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, outcome.StatusFailed, err
	}

	projects := make([]*model.Project, 0, len(ids))
	for _, p := range found {
		if p != nil {
			projects = append(projects, p)
		}
	}
	status := outcome.Fold(len(projects), len(ids)-len(projects))
	lookupRequestsTotal.WithLabelValues("project", status.String()).Inc()
	slog.Debug("requested projects", "requested", len(ids), "found", len(projects), "status", status.String())
	return projects, status, nil
}

// RequestedIssues は指定された Issue を取得する。
// 要求した Issue がすべて見つかれば complete、一部なら partial、一つも見つからなければ failed。
func (s *LookupServiceImpl) RequestedIssues(ctx context.Context, ids map[string][]string) (map[string][]*model.Issue, outcome.Status, error) {
	type result struct {
		issues      []*model.Issue
		ok, missing int
	}
	keys := make([]string, 0, len(ids))
	for k := range ids {
		keys = append(keys, k)
	}
	results := make([]result, len(keys))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, key := range keys {
		g.Go(func() error {
			requested := ids[key]
			res := result{issues: []*model.Issue{}}
			p, err := s.projectRepo.GetByID(gctx, key)
			switch {
			case errors.Is(err, repository.ErrNotFound):
				res.missing = max(1, len(requested))
			case err != nil:
				return fmt.Errorf("get project %s: %w", key, err)
			default:
				if len(requested) == 0 {
					res.ok = 1
				}
				for _, issueID := range requested {
					if issue, ok := p.Issues[issueID]; ok && issue != nil {
						res.issues = append(res.issues, issue)
						res.ok++
					} else {
						res.missing++
					}
				}
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, outcome.StatusFailed, err
	}

	issues := make(map[string][]*model.Issue, len(keys))
	ok, missing := 0, 0
	for i, key := range keys {
		issues[key] = results[i].issues
		ok += results[i].ok
		missing += results[i].missing
	}
	status := outcome.Fold(ok, missing)
	lookupRequestsTotal.WithLabelValues("issue", status.String()).Inc()
	slog.Debug("requested issues", "projects", len(keys), "found", ok, "missing", missing, "status", status.String())
	return issues, status, nil
}
