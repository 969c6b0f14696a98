package handler

import (
	"net/http"

	"github.com/trackforever/backend/internal/model"
	"github.com/trackforever/backend/internal/service"
)

// ProjectHandler はプロジェクトの同期・参照の HTTP ハンドラ
type ProjectHandler struct {
	lookupService service.LookupService
	syncService   service.SyncService
	issueService  service.IssueService
}

// NewProjectHandler は ProjectHandler を生成する
func NewProjectHandler(lookupService service.LookupService, syncService service.SyncService, issueService service.IssueService) *ProjectHandler {
	return &ProjectHandler{lookupService: lookupService, syncService: syncService, issueService: issueService}
}

// List は GET /projects を処理する
func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	projects, err := h.lookupService.List(r.Context())
	if err != nil {
		writeInternalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, projects)
}

// Get は GET /projects/{id} を処理する。存在しない場合は 410
func (h *ProjectHandler) Get(w http.ResponseWriter, r *http.Request) {
	project, err := h.lookupService.GetProject(r.Context(), r.PathValue("id"))
	if err != nil {
		writeLookupError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, project)
}

// Issues は GET /projects/{id}/issues を処理する
func (h *ProjectHandler) Issues(w http.ResponseWriter, r *http.Request) {
	issues, err := h.issueService.ListByProject(r.Context(), r.PathValue("id"))
	if err != nil {
		writeLookupError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, issues)
}

// Hashes は GET /hashes を処理する
func (h *ProjectHandler) Hashes(w http.ResponseWriter, r *http.Request) {
	hashes, err := h.lookupService.Hashes(r.Context())
	if err != nil {
		writeInternalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, hashes)
}

// SetProjects は PUT /projects を処理する
func (h *ProjectHandler) SetProjects(w http.ResponseWriter, r *http.Request) {
	var projects []*model.Project
	if !decodeBody(w, r, &projects) {
		return
	}

	report, err := h.syncService.SetProjects(r.Context(), projects)
	if err != nil {
		writeInternalError(w, r, err)
		return
	}

	hashes := make(map[string]string, len(report.Outcomes))
	for _, o := range report.Succeeded() {
		hashes[o.Key] = o.Hash
	}
	submitted := make(map[string]*model.Project, len(projects))
	for _, p := range projects {
		if p != nil {
			submitted[p.ID] = p
		}
	}
	writeReport(w, report, hashes, func(key string) any { return submitted[key] })
}

// Requested は POST /projects を処理する。ボディはプロジェクト ID の配列
func (h *ProjectHandler) Requested(w http.ResponseWriter, r *http.Request) {
	var ids []string
	if !decodeBody(w, r, &ids) {
		return
	}

	projects, status, err := h.lookupService.RequestedProjects(r.Context(), ids)
	if err != nil {
		writeInternalError(w, r, err)
		return
	}
	writeJSON(w, statusCode(status), projects)
}
