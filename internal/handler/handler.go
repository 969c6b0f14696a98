package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/trackforever/backend/internal/outcome"
	"github.com/trackforever/backend/internal/repository"
)

// maxBodyBytes bounds PUT/POST batch bodies.
const maxBodyBytes = 16 << 20

type Handler struct {
	db         repository.DB
	corsOrigin string
}

func New(db repository.DB, corsOrigin string) *Handler {
	return &Handler{db: db, corsOrigin: corsOrigin}
}

func (h *Handler) CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", h.corsOrigin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")
		// credentials cannot be combined with a wildcard origin
		if h.corsOrigin != "*" {
			w.Header().Set("Access-Control-Allow-Credentials", "true")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]string{"error": code})
}

// decodeBody は JSON ボディを v にデコードする。失敗時は 400 を書き込み false を返す
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		slog.Debug("invalid request body", "path", r.URL.Path, "error", err)
		writeError(w, http.StatusBadRequest, "invalid_json")
		return false
	}
	return true
}

// writeLookupError は存在しないエンティティを 410、それ以外を 500 として書き込む
func writeLookupError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, repository.ErrNotFound) {
		writeError(w, http.StatusGone, "not_found")
		return
	}
	writeInternalError(w, r, err)
}

func writeInternalError(w http.ResponseWriter, r *http.Request, err error) {
	slog.Error("request failed",
		"method", r.Method,
		"path", r.URL.Path,
		"request_id", RequestIDFromContext(r.Context()),
		"error", err,
	)
	writeError(w, http.StatusInternalServerError, "internal_error")
}

// statusCode は集約ステータスを HTTP ステータスに変換する
func statusCode(s outcome.Status) int {
	switch s {
	case outcome.StatusPartial:
		return http.StatusMultiStatus
	case outcome.StatusFailed:
		return http.StatusGone
	default:
		return http.StatusOK
	}
}

// batchResponse は一部または全部が失敗したバッチ書き込みの応答。
// failed は失敗したキー → 送信されたペイロード
type batchResponse struct {
	Succeeded any               `json:"succeeded"`
	Failed    map[string]any    `json:"failed"`
	Errors    map[string]string `json:"errors"`
}

// writeReport は完全成功なら succeeded をそのまま、そうでなければ batchResponse を書き込む。
// payload は失敗したキーの元のペイロードを返す
func writeReport(w http.ResponseWriter, report *outcome.Report, succeeded any, payload func(key string) any) {
	status := report.Status()
	if status == outcome.StatusComplete {
		writeJSON(w, http.StatusOK, succeeded)
		return
	}
	failures := report.Failures()
	resp := batchResponse{
		Succeeded: succeeded,
		Failed:    make(map[string]any, len(failures)),
		Errors:    make(map[string]string, len(failures)),
	}
	for _, o := range failures {
		resp.Failed[o.Key] = payload(o.Key)
		resp.Errors[o.Key] = string(o.Reason)
	}
	writeJSON(w, statusCode(status), resp)
}
