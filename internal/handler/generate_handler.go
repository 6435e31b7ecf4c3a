package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/hirely/gateway/internal/middleware"
	"github.com/hirely/gateway/internal/model"
	"github.com/hirely/gateway/internal/proxy"
)

// DispatcherInterface は面接生成ハンドラーが必要とするプロキシインターフェース。
type DispatcherInterface interface {
	Forward(ctx context.Context, endpoint proxy.Endpoint, payload map[string]any, cred *model.Credential) *model.ProxyResult
	BaseURL() string
}

// GenerateHandler は面接生成プロキシのHTTPハンドラー。
type GenerateHandler struct {
	dispatcher DispatcherInterface
	endpoint   proxy.Endpoint
}

// NewGenerateHandler はGenerateHandlerを生成する。
func NewGenerateHandler(dispatcher DispatcherInterface) *GenerateHandler {
	return &GenerateHandler{
		dispatcher: dispatcher,
		endpoint:   proxy.GenerateInterviewEndpoint(),
	}
}

// Info はエンドポイントの自己紹介レスポンスを返す。疎通確認用。
// GET /api/interviews/generate
func (h *GenerateHandler) Info(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Interview generation proxy is running",
		"data": map[string]any{
			"upstream": h.dispatcher.BaseURL(),
			"method":   "POST",
		},
	})
}

// Generate は面接生成リクエストを検証して上流へ転送する。
// POST /api/interviews/generate
func (h *GenerateHandler) Generate(w http.ResponseWriter, r *http.Request) {
	cred, err := middleware.CredentialFromContext(r.Context())
	if err != nil {
		middleware.WriteErrorResponse(w, model.NewUnauthenticatedError("Authorization header is required"))
		return
	}

	var payload map[string]any
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		middleware.WriteErrorResponse(w, model.NewValidationError("Request body must be valid JSON"))
		return
	}

	result := h.dispatcher.Forward(r.Context(), h.endpoint, payload, cred)
	if result.Err != nil {
		middleware.WriteErrorResponse(w, result.Err)
		return
	}

	body := map[string]any{
		"success": true,
		"data":    json.RawMessage(result.Data),
	}
	if result.Message != "" {
		body["message"] = result.Message
	}
	writeJSON(w, result.Status, body)
}
