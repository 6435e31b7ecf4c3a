package model

import (
	"fmt"
	"net/http"
)

// 定義済みエラーコード
const (
	ErrCodeValidation          = "VALIDATION_ERROR"
	ErrCodeUnauthenticated     = "UNAUTHENTICATED"
	ErrCodeNotFound            = "NOT_FOUND"
	ErrCodeUpstreamError       = "UPSTREAM_ERROR"
	ErrCodeUpstreamUnreachable = "UPSTREAM_UNREACHABLE"
	ErrCodeRateLimited         = "RATE_LIMITED"
	ErrCodeSessionStore        = "SESSION_STORE_ERROR"
	ErrCodeStorage             = "STORAGE_ERROR"
	ErrCodeInternal            = "INTERNAL_ERROR"
)

// APIError は統一エラーフォーマットを表す。
// Detailsは既知の安全な情報源（上流のdetailsパススルー等）からのみ設定する。
type APIError struct {
	Code    string // エラーコード
	Message string // ユーザー向けメッセージ
	Status  int    // HTTPステータスコード
	Details any    // 追加情報（省略可）
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// NewValidationError は入力検証エラーを生成する。
// ネットワークにもストアにも到達する前に返されることを前提とする。
func NewValidationError(reason string) *APIError {
	return &APIError{
		Code:    ErrCodeValidation,
		Message: reason,
		Status:  http.StatusBadRequest,
	}
}

// NewUnauthenticatedError は利用可能な資格情報がない場合のエラーを生成する。
func NewUnauthenticatedError(reason string) *APIError {
	return &APIError{
		Code:    ErrCodeUnauthenticated,
		Message: reason,
		Status:  http.StatusUnauthorized,
	}
}

// NewNotFoundError は参照先エンティティが存在しない場合のエラーを生成する。
func NewNotFoundError(what string) *APIError {
	return &APIError{
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf("%s not found", what),
		Status:  http.StatusNotFound,
	}
}

// NewUpstreamError は上流には到達したが失敗応答が返った場合のエラーを生成する。
// statusには上流のHTTPステータスをそのまま写す。
func NewUpstreamError(status int, message string, details any) *APIError {
	if message == "" {
		message = "Upstream service returned an error"
	}
	return &APIError{
		Code:    ErrCodeUpstreamError,
		Message: message,
		Status:  status,
		Details: details,
	}
}

// NewUpstreamUnreachableError はトランスポートレベルの失敗（接続不可、タイムアウト）の
// エラーを生成する。個別のトランスポートエラー文言には依存しない固定の503を返す。
func NewUpstreamUnreachableError(baseURL string) *APIError {
	return &APIError{
		Code:    ErrCodeUpstreamUnreachable,
		Message: fmt.Sprintf("Cannot connect to upstream backend at %s. Make sure the backend server is running.", baseURL),
		Status:  http.StatusServiceUnavailable,
	}
}

// NewRateLimitedError はレート制限超過のエラーを生成する。
func NewRateLimitedError() *APIError {
	return &APIError{
		Code:    ErrCodeRateLimited,
		Message: "Too many requests. Please try again later.",
		Status:  http.StatusTooManyRequests,
	}
}

// NewSessionStoreError はCookieストレージへの書き込み失敗エラーを生成する。
// 呼び出し元はリトライせず500系として返す。
func NewSessionStoreError() *APIError {
	return &APIError{
		Code:    ErrCodeSessionStore,
		Message: "Failed to store session",
		Status:  http.StatusInternalServerError,
	}
}

// NewStorageError はローカル永続化の失敗エラーを生成する。
// 詳細はログのみに記録し、ユーザーには一般的なメッセージを返す。
func NewStorageError() *APIError {
	return &APIError{
		Code:    ErrCodeStorage,
		Message: "A storage error occurred",
		Status:  http.StatusInternalServerError,
	}
}

// NewInternalError は予期しないエラーの統一レスポンスを生成する。
// スタックトレース等の内部情報をレスポンスに含めてはならない。
func NewInternalError() *APIError {
	return &APIError{
		Code:    ErrCodeInternal,
		Message: "An internal error occurred",
		Status:  http.StatusInternalServerError,
	}
}
