package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/trackforever/backend/internal/model"
	"github.com/trackforever/backend/internal/repository"
	"github.com/trackforever/backend/internal/service"
)

func newTestServer(t *testing.T, adminToken string) *httptest.Server {
	t.Helper()
	repo := repository.NewMemoryProjectRepository()
	sync := service.NewSyncService(repo, 2)
	router, closeFn := NewRouter(RouterConfig{
		DB:         repo,
		Lookup:     service.NewLookupService(repo, 2),
		Sync:       sync,
		Issues:     service.NewIssueService(repo),
		Admin:      service.NewAdminService(repo, sync),
		CORSOrigin: "*",
		AdminToken: adminToken,
	})
	srv := httptest.NewServer(router)
	t.Cleanup(func() {
		srv.Close()
		closeFn()
	})
	return srv
}

func do(t *testing.T, srv *httptest.Server, method, path, body string, headers ...string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, srv.URL+path, strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	resp, err := srv.Client().Do(req)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestRouter_SyncRoundTrip(t *testing.T) {
	srv := newTestServer(t, "")

	project := `[{"id":"testproj1","ownerName":"Will","name":"Test Project 1","description":"This is a very complex project 1.","source":"Google Code"}]`
	resp := do(t, srv, "PUT", "/projects", project)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("PUT /projects: expected 200, got %d", resp.StatusCode)
	}
	var projectHashes map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&projectHashes); err != nil {
		t.Fatalf("decode: %v", err)
	}
	h := projectHashes["testproj1"]
	if len(h) != 128 {
		t.Fatalf("expected 128-char hash, got %q", h)
	}

	resp = do(t, srv, "GET", "/projects/testproj1", "")
	var got model.Project
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Hash != h || got.PrevHash != "" {
		t.Errorf("expected hash %s with empty prevHash, got %s / %q", h, got.Hash, got.PrevHash)
	}

	issues := `{"testproj1":[{"id":"issue1","projectId":"testproj1","summary":"crash"}],"missingProj":[{"id":"issue2","projectId":"missingProj"}]}`
	resp = do(t, srv, "PUT", "/issues", issues)
	if resp.StatusCode != http.StatusMultiStatus {
		t.Fatalf("PUT /issues: expected 207, got %d", resp.StatusCode)
	}

	resp = do(t, srv, "GET", "/hashes", "")
	var hashes map[string]model.HashSummary
	if err := json.NewDecoder(resp.Body).Decode(&hashes); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if hashes["testproj1"].Project != h || len(hashes["testproj1"].Issues["issue1"]) != 128 {
		t.Errorf("unexpected hashes: %+v", hashes)
	}

	resp = do(t, srv, "GET", "/issues/testproj1/issue1", "")
	if resp.StatusCode != http.StatusOK {
		t.Errorf("GET issue: expected 200, got %d", resp.StatusCode)
	}
	resp = do(t, srv, "GET", "/issues/testproj1/nope", "")
	if resp.StatusCode != http.StatusGone {
		t.Errorf("GET missing issue: expected 410, got %d", resp.StatusCode)
	}
	if resp.Header.Get("X-Request-ID") == "" {
		t.Error("expected X-Request-ID header")
	}
	if resp.Header.Get("Access-Control-Allow-Origin") != "*" {
		t.Error("expected CORS header")
	}
}

func TestRouter_AdminRequiresToken(t *testing.T) {
	srv := newTestServer(t, "s3cret")

	do(t, srv, "PUT", "/projects", `[{"id":"p1"}]`)

	resp := do(t, srv, "DELETE", "/admin/projects/p1", "")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 without token, got %d", resp.StatusCode)
	}

	resp = do(t, srv, "DELETE", "/admin/projects/p1", "", "Authorization", "Bearer s3cret")
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200 with token, got %d", resp.StatusCode)
	}

	resp = do(t, srv, "GET", "/projects/p1", "")
	if resp.StatusCode != http.StatusGone {
		t.Errorf("expected 410 after delete, got %d", resp.StatusCode)
	}
}

func TestRouter_HealthAndMetrics(t *testing.T) {
	srv := newTestServer(t, "")

	resp := do(t, srv, "GET", "/health", "")
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}

	do(t, srv, "PUT", "/projects", `[{"id":"p1"}]`)
	resp = do(t, srv, "GET", "/metrics", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	buf := new(strings.Builder)
	if _, err := io.Copy(buf, resp.Body); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "trackforever_merge_batches_total") {
		t.Error("expected merge metrics in exposition")
	}
}
