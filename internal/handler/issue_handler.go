package handler

import (
	"errors"
	"net/http"

	"github.com/trackforever/backend/internal/model"
	"github.com/trackforever/backend/internal/service"
)

// IssueHandler は Issue の同期・参照の HTTP ハンドラ
type IssueHandler struct {
	lookupService service.LookupService
	syncService   service.SyncService
	issueService  service.IssueService
}

// NewIssueHandler は IssueHandler を生成する
func NewIssueHandler(lookupService service.LookupService, syncService service.SyncService, issueService service.IssueService) *IssueHandler {
	return &IssueHandler{lookupService: lookupService, syncService: syncService, issueService: issueService}
}

// Get は GET /issues/{projectId}/{issueId} を処理する
func (h *IssueHandler) Get(w http.ResponseWriter, r *http.Request) {
	issue, err := h.issueService.GetIssue(r.Context(), r.PathValue("projectId"), r.PathValue("issueId"))
	if err != nil {
		writeLookupError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, issue)
}

// Put は PUT /issues/{projectId}/{issueId} を処理する。パスの ID がボディより優先される
func (h *IssueHandler) Put(w http.ResponseWriter, r *http.Request) {
	var issue model.Issue
	if !decodeBody(w, r, &issue) {
		return
	}
	issue.ProjectID = r.PathValue("projectId")
	issue.ID = r.PathValue("issueId")

	hash, err := h.issueService.PutIssue(r.Context(), &issue)
	if errors.Is(err, service.ErrMalformedEntity) {
		writeError(w, http.StatusBadRequest, "malformed_entity")
		return
	}
	if err != nil {
		writeLookupError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{issue.ID: hash})
}

// SetIssues は PUT /issues を処理する。ボディは projectId → Issue 配列
func (h *IssueHandler) SetIssues(w http.ResponseWriter, r *http.Request) {
	var batch map[string][]*model.Issue
	if !decodeBody(w, r, &batch) {
		return
	}

	report, err := h.syncService.SetIssues(r.Context(), batch)
	if err != nil {
		writeInternalError(w, r, err)
		return
	}

	hashes := make(map[string]map[string]string, len(report.Outcomes))
	for _, o := range report.Succeeded() {
		hashes[o.Key] = o.Issues
	}
	writeReport(w, report, hashes, func(key string) any { return batch[key] })
}

// Requested は POST /issues を処理する。ボディは projectId → Issue ID 配列
func (h *IssueHandler) Requested(w http.ResponseWriter, r *http.Request) {
	var ids map[string][]string
	if !decodeBody(w, r, &ids) {
		return
	}

	issues, status, err := h.lookupService.RequestedIssues(r.Context(), ids)
	if err != nil {
		writeInternalError(w, r, err)
		return
	}
	writeJSON(w, statusCode(status), issues)
}
