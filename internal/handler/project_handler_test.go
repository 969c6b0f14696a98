package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"github.com/trackforever/backend/internal/model"
	"github.com/trackforever/backend/internal/outcome"
	"github.com/trackforever/backend/internal/repository"
)

func newProjectMux(lookup *mockLookupService, sync *mockSyncService, issues *mockIssueService) *http.ServeMux {
	h := NewProjectHandler(lookup, sync, issues)
	mux := http.NewServeMux()
	mux.HandleFunc("GET /projects", h.List)
	mux.HandleFunc("GET /projects/{id}", h.Get)
	mux.HandleFunc("GET /projects/{id}/issues", h.Issues)
	mux.HandleFunc("GET /hashes", h.Hashes)
	mux.HandleFunc("PUT /projects", h.SetProjects)
	mux.HandleFunc("POST /projects", h.Requested)
	return mux
}

func TestProjectHandler_List(t *testing.T) {
	lookup := &mockLookupService{
		listFunc: func(ctx context.Context) ([]*model.Project, error) {
			return []*model.Project{{ID: "p1", Name: "P1", Hash: "h1"}}, nil
		},
	}
	mux := newProjectMux(lookup, &mockSyncService{}, &mockIssueService{})

	req := httptest.NewRequest("GET", "/projects", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	var got []*model.Project
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 1 || got[0].Name != "P1" || got[0].Hash != "h1" {
		t.Errorf("unexpected projects: %+v", got)
	}
}

func TestProjectHandler_List_Empty(t *testing.T) {
	mux := newProjectMux(&mockLookupService{}, &mockSyncService{}, &mockIssueService{})

	req := httptest.NewRequest("GET", "/projects", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if body := strings.TrimSpace(rec.Body.String()); body != "[]" {
		t.Errorf("expected [], got %s", body)
	}
}

func TestProjectHandler_List_StoreError(t *testing.T) {
	lookup := &mockLookupService{
		listFunc: func(ctx context.Context) ([]*model.Project, error) {
			return nil, errors.New("connection refused")
		},
	}
	mux := newProjectMux(lookup, &mockSyncService{}, &mockIssueService{})

	req := httptest.NewRequest("GET", "/projects", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "internal_error") {
		t.Errorf("expected internal_error, got %s", rec.Body.String())
	}
}

func TestProjectHandler_Get(t *testing.T) {
	lookup := &mockLookupService{
		getProjectFunc: func(ctx context.Context, id string) (*model.Project, error) {
			if id != "testproj1" {
				return nil, repository.ErrNotFound
			}
			return &model.Project{ID: id, Hash: "H"}, nil
		},
	}
	mux := newProjectMux(lookup, &mockSyncService{}, &mockIssueService{})

	req := httptest.NewRequest("GET", "/projects/testproj1", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var got model.Project
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.ID != "testproj1" || got.Hash != "H" || got.PrevHash != "" {
		t.Errorf("unexpected project: %+v", got)
	}
}

func TestProjectHandler_Get_Gone(t *testing.T) {
	mux := newProjectMux(&mockLookupService{}, &mockSyncService{}, &mockIssueService{})

	req := httptest.NewRequest("GET", "/projects/missing", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusGone {
		t.Errorf("expected 410, got %d", rec.Code)
	}
}

func TestProjectHandler_Issues(t *testing.T) {
	issues := &mockIssueService{
		listByProjectFunc: func(ctx context.Context, projectID string) ([]*model.Issue, error) {
			if projectID != "p1" {
				return nil, repository.ErrNotFound
			}
			return []*model.Issue{{ID: "1", ProjectID: "p1"}, {ID: "2", ProjectID: "p1"}}, nil
		},
	}
	mux := newProjectMux(&mockLookupService{}, &mockSyncService{}, issues)

	req := httptest.NewRequest("GET", "/projects/p1/issues", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	var got []*model.Issue
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if rec.Code != http.StatusOK || len(got) != 2 {
		t.Errorf("expected 200 with 2 issues, got %d with %d", rec.Code, len(got))
	}

	req = httptest.NewRequest("GET", "/projects/gone/issues", nil)
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusGone {
		t.Errorf("expected 410, got %d", rec.Code)
	}
}

func TestProjectHandler_Hashes(t *testing.T) {
	lookup := &mockLookupService{
		hashesFunc: func(ctx context.Context) (map[string]model.HashSummary, error) {
			return map[string]model.HashSummary{
				"p1": {Project: "hp", Issues: map[string]string{"1": "hi"}},
			}, nil
		},
	}
	mux := newProjectMux(lookup, &mockSyncService{}, &mockIssueService{})

	req := httptest.NewRequest("GET", "/hashes", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	var got map[string]map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := map[string]map[string]any{
		"p1": {"project": "hp", "issues": map[string]any{"1": "hi"}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestProjectHandler_SetProjects_Complete(t *testing.T) {
	var received []*model.Project
	sync := &mockSyncService{
		setProjectsFunc: func(ctx context.Context, projects []*model.Project) (*outcome.Report, error) {
			received = projects
			return &outcome.Report{Outcomes: []outcome.Outcome{outcome.ProjectSuccess("p1", "h1")}}, nil
		},
	}
	mux := newProjectMux(&mockLookupService{}, sync, &mockIssueService{})

	body := `[{"id":"p1","ownerName":"Will","name":"P1","description":"d","source":"Google Code"}]`
	req := httptest.NewRequest("PUT", "/projects", strings.NewReader(body))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if len(received) != 1 || received[0].OwnerName != "Will" {
		t.Errorf("unexpected projects passed to service: %+v", received)
	}
	var got map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got["p1"] != "h1" {
		t.Errorf("expected p1=h1, got %v", got)
	}
}

func TestProjectHandler_SetProjects_Partial(t *testing.T) {
	sync := &mockSyncService{
		setProjectsFunc: func(ctx context.Context, projects []*model.Project) (*outcome.Report, error) {
			return &outcome.Report{Outcomes: []outcome.Outcome{
				outcome.ProjectSuccess("p1", "h1"),
				outcome.Failed("", outcome.ReasonMalformed, "missing id"),
			}}, nil
		},
	}
	mux := newProjectMux(&mockLookupService{}, sync, &mockIssueService{})

	req := httptest.NewRequest("PUT", "/projects", strings.NewReader(`[{"id":"p1"},{"name":"x"}]`))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusMultiStatus {
		t.Fatalf("expected 207, got %d", rec.Code)
	}
	var got struct {
		Succeeded map[string]string         `json:"succeeded"`
		Failed    map[string]*model.Project `json:"failed"`
		Errors    map[string]string         `json:"errors"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Succeeded["p1"] != "h1" || len(got.Failed) != 1 || got.Errors[""] != "malformed_entity" {
		t.Errorf("unexpected body: %+v", got)
	}
	if p := got.Failed[""]; p == nil || p.Name != "x" {
		t.Errorf("expected submitted project echoed under failed, got %+v", got.Failed)
	}
}

func TestProjectHandler_SetProjects_InvalidJSON(t *testing.T) {
	mux := newProjectMux(&mockLookupService{}, &mockSyncService{}, &mockIssueService{})

	req := httptest.NewRequest("PUT", "/projects", strings.NewReader(`{"id":`))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "invalid_json") {
		t.Errorf("expected invalid_json, got %s", rec.Body.String())
	}
}

func TestProjectHandler_Requested(t *testing.T) {
	tests := []struct {
		name   string
		status outcome.Status
		want   int
	}{
		{"complete", outcome.StatusComplete, http.StatusOK},
		{"partial", outcome.StatusPartial, http.StatusMultiStatus},
		{"nothing found", outcome.StatusFailed, http.StatusGone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotIDs []string
			lookup := &mockLookupService{
				requestedProjectsFunc: func(ctx context.Context, ids []string) ([]*model.Project, outcome.Status, error) {
					gotIDs = ids
					return []*model.Project{{ID: "p1"}}, tt.status, nil
				},
			}
			mux := newProjectMux(lookup, &mockSyncService{}, &mockIssueService{})

			req := httptest.NewRequest("POST", "/projects", strings.NewReader(`["p1","p2"]`))
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			if rec.Code != tt.want {
				t.Errorf("expected %d, got %d", tt.want, rec.Code)
			}
			if !reflect.DeepEqual(gotIDs, []string{"p1", "p2"}) {
				t.Errorf("expected ids [p1 p2], got %v", gotIDs)
			}
		})
	}
}
