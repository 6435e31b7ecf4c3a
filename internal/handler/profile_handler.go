package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/hirely/gateway/internal/middleware"
	"github.com/hirely/gateway/internal/model"
)

// ProfileServiceInterface はプロフィールハンドラーが必要とするサービスインターフェース。
type ProfileServiceInterface interface {
	// EnsureProfile はプロフィールを取得し、なければ既定値で作成する。
	EnsureProfile(ctx context.Context, userID, email string) (*model.Profile, error)
	// UpdateProfile はパッチに明示されたフィールドのみを更新する。
	UpdateProfile(ctx context.Context, userID string, patch *model.ProfilePatch) (*model.Profile, error)
	// UpsertProfile はプロフィールを作成または置換する。
	UpsertProfile(ctx context.Context, userID, email string, patch *model.ProfilePatch) (*model.Profile, error)
}

// ProfileMetrics はプロフィール操作のメトリクス記録インターフェース。
type ProfileMetrics interface {
	RecordProfileUpsert()
}

// ProfileHandler はプロフィール管理のHTTPハンドラー。
type ProfileHandler struct {
	service ProfileServiceInterface
	metrics ProfileMetrics
}

// NewProfileHandler はProfileHandlerを生成する。
func NewProfileHandler(service ProfileServiceInterface, metrics ProfileMetrics) *ProfileHandler {
	return &ProfileHandler{
		service: service,
		metrics: metrics,
	}
}

// Get は現在のユーザーのプロフィールを返す。存在しなければ既定値で作成する。
// GET /api/profile
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	cred, err := middleware.CredentialFromContext(r.Context())
	if err != nil {
		middleware.WriteErrorResponse(w, model.NewUnauthenticatedError("Not authenticated"))
		return
	}

	p, err := h.service.EnsureProfile(r.Context(), string(cred.User.ID), cred.User.Email)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"profile": p,
		"user":    cred.User,
	})
}

// Update はプロフィールの部分更新を処理する。
// パッチに含まれないフィールドは変更されない。
// PUT /api/profile
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	cred, err := middleware.CredentialFromContext(r.Context())
	if err != nil {
		middleware.WriteErrorResponse(w, model.NewUnauthenticatedError("Not authenticated"))
		return
	}

	var patch model.ProfilePatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		middleware.WriteErrorResponse(w, model.NewValidationError("Request body must be valid JSON"))
		return
	}

	p, err := h.service.UpdateProfile(r.Context(), string(cred.User.ID), &patch)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"profile": p,
	})
}

// Upsert はプロフィールの作成または置換を処理する。
// POST /api/profile
func (h *ProfileHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	cred, err := middleware.CredentialFromContext(r.Context())
	if err != nil {
		middleware.WriteErrorResponse(w, model.NewUnauthenticatedError("Not authenticated"))
		return
	}

	var patch model.ProfilePatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		middleware.WriteErrorResponse(w, model.NewValidationError("Request body must be valid JSON"))
		return
	}

	p, err := h.service.UpsertProfile(r.Context(), string(cred.User.ID), cred.User.Email, &patch)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	h.metrics.RecordProfileUpsert()
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"profile": p,
	})
}
