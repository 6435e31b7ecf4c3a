// Package handler はHTTPハンドラーとルーティングを提供する。
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/hirely/gateway/internal/middleware"
	"github.com/hirely/gateway/internal/model"
)

// writeJSON はレスポンスをJSONで書き出す。
func writeJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("failed to encode response", slog.String("error", err.Error()))
	}
}

// handleServiceError はサービス層から返されたエラーをエンベロープに変換する。
// APIError以外のエラーは詳細をログに記録し、一般的なSTORAGE_ERRORとして返す。
func handleServiceError(w http.ResponseWriter, err error) {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		middleware.WriteErrorResponse(w, apiErr)
		return
	}

	slog.Error("service error", slog.String("error", err.Error()))
	middleware.WriteErrorResponse(w, model.NewStorageError())
}
