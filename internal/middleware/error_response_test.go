package middleware

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/hirely/gateway/internal/model"
)

func TestWriteErrorResponse_EnvelopeFormat(t *testing.T) {
	w := httptest.NewRecorder()

	WriteErrorResponse(w, model.NewValidationError("Missing required fields: role are required"))

	resp := w.Result()
	if resp.StatusCode != 400 {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/json; charset=utf-8" {
		t.Errorf("Content-Type = %q, want JSON", ct)
	}

	var body ErrorResponseBody
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body.Success {
		t.Error("success should be false")
	}
	if body.Code != model.ErrCodeValidation {
		t.Errorf("code = %q, want %q", body.Code, model.ErrCodeValidation)
	}
	if body.Error != "Missing required fields: role are required" {
		t.Errorf("error = %q, want message", body.Error)
	}
	if body.Details != nil {
		t.Errorf("details = %v, want omitted", body.Details)
	}
}

func TestWriteErrorResponse_DetailsPassthrough(t *testing.T) {
	w := httptest.NewRecorder()

	WriteErrorResponse(w, model.NewUpstreamError(422, "invalid role", map[string]any{"field": "role"}))

	resp := w.Result()
	if resp.StatusCode != 422 {
		t.Errorf("status = %d, want upstream status mirrored", resp.StatusCode)
	}

	var body ErrorResponseBody
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	details, ok := body.Details.(map[string]any)
	if !ok || details["field"] != "role" {
		t.Errorf("details = %v, want passthrough", body.Details)
	}
}

// Status未設定のAPIErrorは500として扱う
func TestWriteErrorResponse_ZeroStatus_Defaults500(t *testing.T) {
	w := httptest.NewRecorder()

	WriteErrorResponse(w, &model.APIError{Code: "X", Message: "y"})

	if w.Result().StatusCode != 500 {
		t.Errorf("status = %d, want 500", w.Result().StatusCode)
	}
}

func TestWriteInternalServerError(t *testing.T) {
	w := httptest.NewRecorder()

	WriteInternalServerError(w)

	resp := w.Result()
	if resp.StatusCode != 500 {
		t.Errorf("status = %d, want 500", resp.StatusCode)
	}

	var body ErrorResponseBody
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body.Code != model.ErrCodeInternal {
		t.Errorf("code = %q, want %q", body.Code, model.ErrCodeInternal)
	}
}
