// Package auth は呼び出し元の資格情報の解決を提供する。
//
// 認証そのもの（トークンの検証・発行）は上流のアイデンティティサービスが所有する。
// このパッケージはリクエストからベアラートークンとユーザー要約を取り出すだけの
// 純粋なルックアップであり、副作用を持たない。
package auth

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/hirely/gateway/internal/model"
)

// セッションCookieの名前。Session Cookie Bridgeと共有する。
const (
	// TokenCookieName はベアラートークンを保持するCookie名。
	TokenCookieName = "token"
	// UserCookieName はJSONシリアライズされたUserSummaryを保持するCookie名。
	UserCookieName = "user"
	// LegacyTokenCookieName は旧バージョンのシステムが設定していたトークンCookie名。
	// 解決時のフォールバックとクリア対象としてのみ扱う。
	LegacyTokenCookieName = "access_token"
)

// TokenStore はリクエストヘッダーとCookieから資格情報を解決する。
type TokenStore struct{}

// NewTokenStore はTokenStoreを生成する。
func NewTokenStore() *TokenStore {
	return &TokenStore{}
}

// Resolve はリクエストから資格情報を解決する。
// 優先順位: Authorization: Bearerヘッダー > tokenCookie > 旧access_tokenCookie。
// userCookieが存在し正しくパースできた場合はユーザー要約も併せて返す。
// どの情報源からもトークンが得られない場合はnil（未認証）を返す。
func (s *TokenStore) Resolve(r *http.Request) *model.Credential {
	cred := &model.Credential{}

	if h := r.Header.Get("Authorization"); h != "" {
		if token, ok := parseBearer(h); ok {
			cred.Token = token
		}
	}

	if cred.Token == "" {
		if c, err := r.Cookie(TokenCookieName); err == nil && c.Value != "" {
			cred.Token = c.Value
		}
	}
	if cred.Token == "" {
		if c, err := r.Cookie(LegacyTokenCookieName); err == nil && c.Value != "" {
			cred.Token = c.Value
		}
	}

	if cred.Token == "" {
		return nil
	}

	if c, err := r.Cookie(UserCookieName); err == nil && c.Value != "" {
		if user := parseUserCookie(c.Value); user != nil {
			cred.User = user
		}
	}

	return cred
}

// parseBearer はAuthorizationヘッダーからベアラートークンを取り出す。
// スキームがBearer以外、またはトークンが空の場合は不正として扱う。
func parseBearer(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", false
	}
	return token, true
}

// parseUserCookie はuserCookieの値をUserSummaryとしてパースする。
// 値はBridgeがURLエンコードして保存しているためデコードしてから読む。
// パースできない場合はnilを返す（トークンのみの資格情報として扱う）。
func parseUserCookie(value string) *model.UserSummary {
	raw := value
	if decoded, err := url.QueryUnescape(value); err == nil {
		raw = decoded
	}

	var user model.UserSummary
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return nil
	}
	user.Role = user.Role.Normalize()
	return &user
}
