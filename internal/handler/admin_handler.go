package handler

import (
	"net/http"

	"github.com/trackforever/backend/internal/service"
)

// AdminHandler は管理用削除 API のハンドラ。ルーティング側で auth.RequireToken を掛ける
type AdminHandler struct {
	adminService service.AdminService
	issueService service.IssueService
}

// NewAdminHandler は AdminHandler を生成する
func NewAdminHandler(adminService service.AdminService, issueService service.IssueService) *AdminHandler {
	return &AdminHandler{adminService: adminService, issueService: issueService}
}

var okResponse = map[string]bool{"ok": true}

// DeleteAll は DELETE /admin/projects を処理する
func (h *AdminHandler) DeleteAll(w http.ResponseWriter, r *http.Request) {
	if err := h.adminService.DeleteAll(r.Context()); err != nil {
		writeInternalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, okResponse)
}

// Delete は DELETE /admin/projects/{id} を処理する
func (h *AdminHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.adminService.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeLookupError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, okResponse)
}

// DeleteByHash は DELETE /admin/hashes/{hash} を処理する
func (h *AdminHandler) DeleteByHash(w http.ResponseWriter, r *http.Request) {
	if err := h.adminService.DeleteByHash(r.Context(), r.PathValue("hash")); err != nil {
		writeLookupError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, okResponse)
}

// DeleteIssue は DELETE /admin/issues/{projectId}/{issueId} を処理する
func (h *AdminHandler) DeleteIssue(w http.ResponseWriter, r *http.Request) {
	if err := h.issueService.DeleteIssue(r.Context(), r.PathValue("projectId"), r.PathValue("issueId")); err != nil {
		writeLookupError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, okResponse)
}
