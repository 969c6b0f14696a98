package handler

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/trackforever/backend/internal/repository"
	"github.com/trackforever/backend/internal/service"
	"github.com/trackforever/backend/pkg/auth"
)

// RouterConfig はルーティングに必要な依存
type RouterConfig struct {
	DB                 repository.DB
	Lookup             service.LookupService
	Sync               service.SyncService
	Issues             service.IssueService
	Admin              service.AdminService
	CORSOrigin         string
	AdminToken         string
	RateLimitPerMinute int // 0 で無効
	TrustedProxyCount  int
}

// NewRouter は全ルートを登録し、ミドルウェアを適用した http.Handler を返す。
// 返される close はレートリミッタを停止する
func NewRouter(cfg RouterConfig) (http.Handler, func()) {
	h := New(cfg.DB, cfg.CORSOrigin)
	projectHandler := NewProjectHandler(cfg.Lookup, cfg.Sync, cfg.Issues)
	issueHandler := NewIssueHandler(cfg.Lookup, cfg.Sync, cfg.Issues)
	adminHandler := NewAdminHandler(cfg.Admin, cfg.Issues)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", h.Health)
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /projects", projectHandler.List)
	mux.HandleFunc("GET /projects/{id}", projectHandler.Get)
	mux.HandleFunc("GET /projects/{id}/issues", projectHandler.Issues)
	mux.HandleFunc("GET /hashes", projectHandler.Hashes)
	mux.HandleFunc("PUT /projects", projectHandler.SetProjects)
	mux.HandleFunc("POST /projects", projectHandler.Requested)

	mux.HandleFunc("GET /issues/{projectId}/{issueId}", issueHandler.Get)
	mux.HandleFunc("PUT /issues", issueHandler.SetIssues)
	mux.HandleFunc("PUT /issues/{projectId}/{issueId}", issueHandler.Put)
	mux.HandleFunc("POST /issues", issueHandler.Requested)

	// 管理 API（ADMIN_TOKEN 設定時は Bearer 認証必須）
	requireAdmin := auth.RequireToken(cfg.AdminToken)
	mux.Handle("DELETE /admin/projects", requireAdmin(http.HandlerFunc(adminHandler.DeleteAll)))
	mux.Handle("DELETE /admin/projects/{id}", requireAdmin(http.HandlerFunc(adminHandler.Delete)))
	mux.Handle("DELETE /admin/hashes/{hash}", requireAdmin(http.HandlerFunc(adminHandler.DeleteByHash)))
	mux.Handle("DELETE /admin/issues/{projectId}/{issueId}", requireAdmin(http.HandlerFunc(adminHandler.DeleteIssue)))

	var next http.Handler = mux
	closeFn := func() {}
	if cfg.RateLimitPerMinute > 0 {
		rl := NewRateLimiter(cfg.RateLimitPerMinute, cfg.TrustedProxyCount)
		next = rl.Middleware(next)
		closeFn = rl.Close
	}
	return h.CORS(RequestLogger(SecurityHeaders(next))), closeFn
}
