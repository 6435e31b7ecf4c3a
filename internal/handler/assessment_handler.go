package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/hirely/gateway/internal/middleware"
	"github.com/hirely/gateway/internal/model"
)

// AssessmentServiceInterface は評価ハンドラーが必要とするサービスインターフェース。
type AssessmentServiceInterface interface {
	// ListAssessments はユーザーの評価を新しい順で返す。
	ListAssessments(ctx context.Context, userID, email string) ([]*model.Assessment, error)
	// CreateAssessment は評価を保存して返す。
	CreateAssessment(ctx context.Context, userID, email string, input *model.AssessmentInput) (*model.Assessment, error)
}

// AssessmentHandler はクイズ評価のHTTPハンドラー。
type AssessmentHandler struct {
	service AssessmentServiceInterface
}

// NewAssessmentHandler はAssessmentHandlerを生成する。
func NewAssessmentHandler(service AssessmentServiceInterface) *AssessmentHandler {
	return &AssessmentHandler{service: service}
}

// List は現在のユーザーの評価一覧を返す。
// GET /api/assessments
func (h *AssessmentHandler) List(w http.ResponseWriter, r *http.Request) {
	cred, err := middleware.CredentialFromContext(r.Context())
	if err != nil {
		middleware.WriteErrorResponse(w, model.NewUnauthenticatedError("Not authenticated"))
		return
	}

	assessments, err := h.service.ListAssessments(r.Context(), string(cred.User.ID), cred.User.Email)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":     true,
		"assessments": assessments,
	})
}

// Create は評価を保存する。
// POST /api/assessments
func (h *AssessmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	cred, err := middleware.CredentialFromContext(r.Context())
	if err != nil {
		middleware.WriteErrorResponse(w, model.NewUnauthenticatedError("Not authenticated"))
		return
	}

	var input model.AssessmentInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		middleware.WriteErrorResponse(w, model.NewValidationError("Request body must be valid JSON"))
		return
	}

	a, err := h.service.CreateAssessment(r.Context(), string(cred.User.ID), cred.User.Email, &input)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"success":    true,
		"assessment": a,
	})
}
