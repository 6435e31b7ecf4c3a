// Package session はセッションCookieブリッジを提供する。
//
// 上流での認証成功後に発行されたトークンとユーザー要約を、HTTP Only Cookieの
// ペアにミラーリングする。Cookieは資格情報のコピーであり所有者ではない。
// 有効期限は独立に管理される（既定7日）。
package session

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/hirely/gateway/internal/auth"
	"github.com/hirely/gateway/internal/model"
)

// Config はブリッジのCookie属性設定。
type Config struct {
	Secure bool   // 本番相当環境ではtrue
	Domain string // 空の場合はホストのみ
	MaxAge int    // 秒。既定は7日（604800）
}

// Bridge はセッションCookieの確立とクリアを行う。
type Bridge struct {
	config Config
}

// NewBridge はBridgeを生成する。
func NewBridge(config Config) *Bridge {
	return &Bridge{config: config}
}

// Establish はトークンCookieとユーザーCookieのペアを設定する。
// 両方のCookieを検証してから書き込むため、部分的なセッション状態は発生しない。
// 空のトークンは無効な資格情報でありエラーを返す。
func (b *Bridge) Establish(w http.ResponseWriter, token string, user *model.UserSummary) error {
	if token == "" {
		return fmt.Errorf("token is required")
	}
	if user == nil {
		return fmt.Errorf("user summary is required")
	}

	payload, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to serialize user summary: %w", err)
	}

	tokenCookie := b.newCookie(auth.TokenCookieName, token, b.config.MaxAge)
	// Cookie値にJSONの引用符等は使えないためURLエンコードして保存する
	userCookie := b.newCookie(auth.UserCookieName, url.QueryEscape(string(payload)), b.config.MaxAge)

	// 片方だけ書き込まれた状態を作らないよう、両方を検証してから設定する
	if err := tokenCookie.Valid(); err != nil {
		return fmt.Errorf("invalid token cookie: %w", err)
	}
	if err := userCookie.Valid(); err != nil {
		return fmt.Errorf("invalid user cookie: %w", err)
	}

	http.SetCookie(w, tokenCookie)
	http.SetCookie(w, userCookie)
	return nil
}

// Clear はセッション関連の全Cookieを削除する。
// 旧バージョンが設定していた可能性のあるaccess_tokenCookieも対象に含める。
// 既にクリア済みのセッションに対しても成功する（冪等）。
func (b *Bridge) Clear(w http.ResponseWriter) {
	for _, name := range []string{
		auth.TokenCookieName,
		auth.UserCookieName,
		auth.LegacyTokenCookieName,
	} {
		http.SetCookie(w, b.newCookie(name, "", -1))
	}
}

// newCookie はブリッジ共通の属性を持つCookieを生成する。
// サイト全体パス、HTTP Only、SameSite=Laxで統一する。
func (b *Bridge) newCookie(name, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Domain:   b.config.Domain,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   b.config.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}
