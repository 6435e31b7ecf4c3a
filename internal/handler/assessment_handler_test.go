package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hirely/gateway/internal/model"
)

// --- モック定義 ---

type mockAssessmentService struct {
	listFn   func(ctx context.Context, userID, email string) ([]*model.Assessment, error)
	createFn func(ctx context.Context, userID, email string, input *model.AssessmentInput) (*model.Assessment, error)
}

func (m *mockAssessmentService) ListAssessments(ctx context.Context, userID, email string) ([]*model.Assessment, error) {
	if m.listFn != nil {
		return m.listFn(ctx, userID, email)
	}
	return []*model.Assessment{}, nil
}

func (m *mockAssessmentService) CreateAssessment(ctx context.Context, userID, email string, input *model.AssessmentInput) (*model.Assessment, error) {
	if m.createFn != nil {
		return m.createFn(ctx, userID, email, input)
	}
	return &model.Assessment{ID: "as-1", UserID: userID}, nil
}

// --- テスト ---

func TestAssessmentHandler_List_Success(t *testing.T) {
	svc := &mockAssessmentService{
		listFn: func(ctx context.Context, userID, email string) ([]*model.Assessment, error) {
			return []*model.Assessment{
				{ID: "as-2", UserID: userID, QuizScore: 9},
				{ID: "as-1", UserID: userID, QuizScore: 7},
			}, nil
		},
	}
	h := NewAssessmentHandler(svc)

	req := sessionRequest(http.MethodGet, "/api/assessments", "")
	w := httptest.NewRecorder()
	h.List(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	assessments, ok := body["assessments"].([]any)
	if !ok || len(assessments) != 2 {
		t.Errorf("assessments = %v, want 2 entries", body["assessments"])
	}
}

func TestAssessmentHandler_List_NoCredential_Returns401(t *testing.T) {
	h := NewAssessmentHandler(&mockAssessmentService{})

	req := httptest.NewRequest(http.MethodGet, "/api/assessments", nil)
	w := httptest.NewRecorder()
	h.List(w, req)

	if w.Result().StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusUnauthorized)
	}
}

func TestAssessmentHandler_Create_Returns201(t *testing.T) {
	var gotInput *model.AssessmentInput
	svc := &mockAssessmentService{
		createFn: func(ctx context.Context, userID, email string, input *model.AssessmentInput) (*model.Assessment, error) {
			gotInput = input
			return &model.Assessment{ID: "as-1", UserID: userID, QuizScore: input.QuizScore}, nil
		},
	}
	h := NewAssessmentHandler(svc)

	body := `{"quizScore":8.5,"category":"Technical","questions":[{"q":"x"}]}`
	req := sessionRequest(http.MethodPost, "/api/assessments", body)
	w := httptest.NewRecorder()
	h.Create(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusCreated)
	}
	if gotInput == nil || gotInput.QuizScore != 8.5 || gotInput.Category != "Technical" {
		t.Errorf("input = %+v, want decoded body", gotInput)
	}

	var respBody map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&respBody); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	assessment, ok := respBody["assessment"].(map[string]any)
	if !ok || assessment["id"] != "as-1" {
		t.Errorf("assessment = %v, want created record", respBody["assessment"])
	}
}

func TestAssessmentHandler_Create_InvalidJSON_Returns400(t *testing.T) {
	h := NewAssessmentHandler(&mockAssessmentService{})

	req := sessionRequest(http.MethodPost, "/api/assessments", "{bad")
	w := httptest.NewRecorder()
	h.Create(w, req)

	if w.Result().StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusBadRequest)
	}
}
