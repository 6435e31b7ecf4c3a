// Package middleware はHTTPミドルウェアを提供する。
package middleware

import (
	"context"
	"fmt"
	"net/http"

	"github.com/hirely/gateway/internal/model"
)

// contextKey はコンテキストに値を格納するための型安全なキー。
type contextKey string

// credentialContextKey はリクエストコンテキストにクレデンシャルを格納するためのキー。
var credentialContextKey = contextKey("credential")

// CredentialResolver はリクエストからクレデンシャルを解決するインターフェース。
// auth.TokenStoreの部分集合として定義する。
type CredentialResolver interface {
	Resolve(r *http.Request) *model.Credential
}

// NewTokenAuthMiddleware はベアラートークンの存在を必須とするミドルウェアを返す。
// Authorizationヘッダーまたはセッションクッキーからトークンを解決し、
// クレデンシャルをリクエストコンテキストに注入する。
// トークンが見つからない場合は401をエンベロープ形式で返す。
// ユーザーサマリーは任意（プロキシ転送にはトークンのみが必要）。
func NewTokenAuthMiddleware(resolver CredentialResolver) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cred := resolver.Resolve(r)
			if cred == nil || cred.Token == "" {
				WriteErrorResponse(w, model.NewUnauthenticatedError("Authorization header is required"))
				return
			}

			ctx := ContextWithCredential(r.Context(), cred)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// NewSessionAuthMiddleware はトークンとユーザーサマリーの両方を必須とするミドルウェアを返す。
// プロフィール・評価操作はアイデンティティIDを必要とするため、
// ユーザークッキーが欠落または解釈不能なリクエストは401となる。
func NewSessionAuthMiddleware(resolver CredentialResolver) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cred := resolver.Resolve(r)
			if cred == nil || cred.Token == "" || cred.User == nil || cred.User.ID == "" {
				WriteErrorResponse(w, model.NewUnauthenticatedError("Not authenticated"))
				return
			}

			ctx := ContextWithCredential(r.Context(), cred)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// CredentialFromContext はリクエストコンテキストからクレデンシャルを取得する。
// 認証ミドルウェアを通過したリクエストでのみ有効。
func CredentialFromContext(ctx context.Context) (*model.Credential, error) {
	cred, ok := ctx.Value(credentialContextKey).(*model.Credential)
	if !ok || cred == nil {
		return nil, fmt.Errorf("credential not found in context")
	}
	return cred, nil
}

// ContextWithCredential はコンテキストにクレデンシャルを注入する。
// テストやミドルウェア以外のコンテキスト生成で使用する。
func ContextWithCredential(ctx context.Context, cred *model.Credential) context.Context {
	return context.WithValue(ctx, credentialContextKey, cred)
}
