package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/hirely/gateway/internal/model"
)

// ErrorResponseBody はエラーレスポンスの統一エンベロープ。
// 全てのエラーはこの形式でクライアントに返される。
type ErrorResponseBody struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Code    string `json:"code"`
	Details any    `json:"details,omitempty"`
}

// WriteErrorResponse はAPIErrorを統一エンベロープでレスポンスに書き出す。
func WriteErrorResponse(w http.ResponseWriter, apiErr *model.APIError) {
	status := apiErr.Status
	if status == 0 {
		status = http.StatusInternalServerError
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	body := ErrorResponseBody{
		Success: false,
		Error:   apiErr.Message,
		Code:    apiErr.Code,
		Details: apiErr.Details,
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("failed to encode error response", slog.String("error", err.Error()))
	}
}

// WriteInternalServerError は予期しないエラー用の500レスポンスを書き出す。
func WriteInternalServerError(w http.ResponseWriter) {
	WriteErrorResponse(w, model.NewInternalError())
}
