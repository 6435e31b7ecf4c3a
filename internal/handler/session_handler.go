package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/hirely/gateway/internal/middleware"
	"github.com/hirely/gateway/internal/model"
)

// SessionBridge はセッションCookieの操作に必要なインターフェース。
// session.Bridgeの部分集合として定義する。
type SessionBridge interface {
	Establish(w http.ResponseWriter, token string, user *model.UserSummary) error
	Clear(w http.ResponseWriter)
}

// SessionMetrics はセッション操作のメトリクス記録インターフェース。
type SessionMetrics interface {
	RecordSessionEstablished()
	RecordSessionCleared()
}

// SessionHandler はセッションCookieブリッジのHTTPハンドラー。
type SessionHandler struct {
	bridge  SessionBridge
	metrics SessionMetrics
}

// NewSessionHandler はSessionHandlerを生成する。
func NewSessionHandler(bridge SessionBridge, metrics SessionMetrics) *SessionHandler {
	return &SessionHandler{
		bridge:  bridge,
		metrics: metrics,
	}
}

// establishSessionRequest はセッション確立リクエストのボディ。
type establishSessionRequest struct {
	Token string             `json:"token"`
	User  *model.UserSummary `json:"user"`
}

// Establish は上流認証後のトークンとユーザー要約をCookieペアとして設定する。
// POST /api/auth/session
func (h *SessionHandler) Establish(w http.ResponseWriter, r *http.Request) {
	var req establishSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteErrorResponse(w, model.NewValidationError("Request body must be valid JSON"))
		return
	}

	if req.Token == "" || req.User == nil {
		middleware.WriteErrorResponse(w, model.NewValidationError("Token and user data are required"))
		return
	}

	if err := h.bridge.Establish(w, req.Token, req.User); err != nil {
		slog.Error("failed to establish session",
			slog.String("user_id", string(req.User.ID)),
			slog.String("error", err.Error()),
		)
		middleware.WriteErrorResponse(w, model.NewSessionStoreError())
		return
	}

	h.metrics.RecordSessionEstablished()
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// Clear はセッション関連の全Cookieを削除する。
// 既にクリア済みのセッションに対しても成功する（冪等）。
// POST /api/auth/session/clear
func (h *SessionHandler) Clear(w http.ResponseWriter, r *http.Request) {
	h.bridge.Clear(w)
	h.metrics.RecordSessionCleared()
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}
