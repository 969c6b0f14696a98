package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/errgroup"

	"github.com/trackforever/backend/internal/chain"
	"github.com/trackforever/backend/internal/model"
	"github.com/trackforever/backend/internal/outcome"
	"github.com/trackforever/backend/internal/repository"
)

// DefaultWorkers is the per-batch key concurrency used when none is configured.
const DefaultWorkers = 4

// SyncServiceImpl は SyncService の実装
type SyncServiceImpl struct {
	projectRepo repository.ProjectRepository
	workers     int
	validate    *validator.Validate
}

// NewSyncService は SyncServiceImpl を生成する（DI: ProjectRepository を注入）。
// workers はバッチ内で同時に処理するキー数の上限。
func NewSyncService(projectRepo repository.ProjectRepository, workers int) SyncService {
	if workers < 1 {
		workers = DefaultWorkers
	}
	return &SyncServiceImpl{projectRepo: projectRepo, workers: workers, validate: validator.New()}
}

// SetIssues はプロジェクトごとに Issue をマージする
func (s *SyncServiceImpl) SetIssues(ctx context.Context, batch map[string][]*model.Issue) (*outcome.Report, error) {
	keys := make([]string, 0, len(batch))
	for k := range batch {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	outcomes := make([]outcome.Outcome, len(keys))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, key := range keys {
		g.Go(func() error {
			o, err := s.mergeIssues(gctx, key, batch[key])
			if err != nil {
				return fmt.Errorf("set issues for project %s: %w", key, err)
			}
			outcomes[i] = o
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := &outcome.Report{Outcomes: outcomes}
	recordMerge("issue", report)
	logReport("set issues", report)
	return report, nil
}

func (s *SyncServiceImpl) mergeIssues(ctx context.Context, key string, issues []*model.Issue) (outcome.Outcome, error) {
	if err := s.validateIssues(key, issues); err != nil {
		return outcome.Failed(key, outcome.ReasonMalformed, err.Error()), nil
	}

	var hashes map[string]string
	err := s.projectRepo.Upsert(ctx, key, func(current *model.Project) (*model.Project, error) {
		if current == nil {
			return nil, repository.ErrNotFound
		}
		// fn may be retried by the store, so work on fresh copies each time.
		incoming := make([]*model.Issue, len(issues))
		for i, issue := range issues {
			incoming[i] = issue.Clone()
		}
		var changed bool
		hashes, changed = chain.MergeIssues(current, incoming)
		if !changed {
			return nil, nil
		}
		return current, nil
	})
	if errors.Is(err, repository.ErrNotFound) {
		return outcome.Failed(key, outcome.ReasonUnknownProject, "project does not exist"), nil
	}
	if err != nil {
		return outcome.Outcome{}, err
	}
	return outcome.IssuesSuccess(key, hashes), nil
}

func (s *SyncServiceImpl) validateIssues(key string, issues []*model.Issue) error {
	for i, issue := range issues {
		if issue == nil {
			return fmt.Errorf("%w: issue #%d is null", ErrMalformedEntity, i)
		}
		if err := s.validate.Struct(issue); err != nil {
			return fmt.Errorf("%w: issue #%d: %v", ErrMalformedEntity, i, err)
		}
		if issue.ProjectID != key {
			return fmt.Errorf("%w: issue %q has projectId %q, submitted under %q",
				ErrMalformedEntity, issue.ID, issue.ProjectID, key)
		}
	}
	return nil
}

// SetProjects はプロジェクトを作成・更新する。
// 既存プロジェクトの Issue は保存済みのものを維持し、新規プロジェクトの Issue は新規としてハッシュを計算する。
func (s *SyncServiceImpl) SetProjects(ctx context.Context, projects []*model.Project) (*outcome.Report, error) {
	outcomes := make([]outcome.Outcome, len(projects))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, p := range projects {
		g.Go(func() error {
			o, err := s.mergeProject(gctx, p)
			if err != nil {
				return fmt.Errorf("set project %s: %w", p.ID, err)
			}
			outcomes[i] = o
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := &outcome.Report{Outcomes: outcomes}
	recordMerge("project", report)
	logReport("set projects", report)
	return report, nil
}

func (s *SyncServiceImpl) mergeProject(ctx context.Context, p *model.Project) (outcome.Outcome, error) {
	if p == nil {
		return outcome.Failed("", outcome.ReasonMalformed, "project is null"), nil
	}
	if err := s.validateProject(p); err != nil {
		return outcome.Failed(p.ID, outcome.ReasonMalformed, err.Error()), nil
	}

	var hash string
	err := s.projectRepo.Upsert(ctx, p.ID, func(current *model.Project) (*model.Project, error) {
		next := p.Clone()
		changed := chain.ReconcileProject(current, next)
		hash = next.Hash
		if current != nil {
			if !changed {
				return nil, nil
			}
			next.Issues = current.Issues
			return next, nil
		}

		ids := make([]string, 0, len(next.Issues))
		for id := range next.Issues {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		issues := make([]*model.Issue, len(ids))
		for i, id := range ids {
			issues[i] = next.Issues[id]
		}
		next.Issues = nil
		chain.MergeIssues(next, issues)
		return next, nil
	})
	if err != nil {
		return outcome.Outcome{}, err
	}
	return outcome.ProjectSuccess(p.ID, hash), nil
}

func (s *SyncServiceImpl) validateProject(p *model.Project) error {
	if err := s.validate.Struct(p); err != nil {
		return fmt.Errorf("%w: project: %v", ErrMalformedEntity, err)
	}
	issues := make([]*model.Issue, 0, len(p.Issues))
	for id, issue := range p.Issues {
		if issue != nil && issue.ID != id {
			return fmt.Errorf("%w: issue %q stored under key %q", ErrMalformedEntity, issue.ID, id)
		}
		issues = append(issues, issue)
	}
	return s.validateIssues(p.ID, issues)
}

func logReport(op string, r *outcome.Report) {
	for _, o := range r.Failures() {
		slog.Warn(op+": key failed", "key", o.Key, "reason", o.Reason, "detail", o.Detail)
	}
	slog.Info(op, "keys", len(r.Outcomes), "status", r.Status().String())
}
