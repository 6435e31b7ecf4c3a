package auth

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/hirely/gateway/internal/model"
)

func TestTokenStore_Resolve_BearerHeader(t *testing.T) {
	store := NewTokenStore()

	req := httptest.NewRequest(http.MethodGet, "/api/test", nil)
	req.Header.Set("Authorization", "Bearer header-token")

	cred := store.Resolve(req)
	if cred == nil {
		t.Fatal("expected credential, got nil")
	}
	if cred.Token != "header-token" {
		t.Errorf("Token = %q, want %q", cred.Token, "header-token")
	}
	if cred.User != nil {
		t.Errorf("User = %v, want nil", cred.User)
	}
}

func TestTokenStore_Resolve_HeaderTakesPrecedenceOverCookie(t *testing.T) {
	store := NewTokenStore()

	req := httptest.NewRequest(http.MethodGet, "/api/test", nil)
	req.Header.Set("Authorization", "Bearer header-token")
	req.AddCookie(&http.Cookie{Name: TokenCookieName, Value: "cookie-token"})

	cred := store.Resolve(req)
	if cred == nil {
		t.Fatal("expected credential, got nil")
	}
	if cred.Token != "header-token" {
		t.Errorf("Token = %q, want %q", cred.Token, "header-token")
	}
}

func TestTokenStore_Resolve_TokenCookie(t *testing.T) {
	store := NewTokenStore()

	req := httptest.NewRequest(http.MethodGet, "/api/test", nil)
	req.AddCookie(&http.Cookie{Name: TokenCookieName, Value: "cookie-token"})

	cred := store.Resolve(req)
	if cred == nil {
		t.Fatal("expected credential, got nil")
	}
	if cred.Token != "cookie-token" {
		t.Errorf("Token = %q, want %q", cred.Token, "cookie-token")
	}
}

func TestTokenStore_Resolve_LegacyCookieFallback(t *testing.T) {
	store := NewTokenStore()

	req := httptest.NewRequest(http.MethodGet, "/api/test", nil)
	req.AddCookie(&http.Cookie{Name: LegacyTokenCookieName, Value: "legacy-token"})

	cred := store.Resolve(req)
	if cred == nil {
		t.Fatal("expected credential, got nil")
	}
	if cred.Token != "legacy-token" {
		t.Errorf("Token = %q, want %q", cred.Token, "legacy-token")
	}
}

func TestTokenStore_Resolve_TokenCookieTakesPrecedenceOverLegacy(t *testing.T) {
	store := NewTokenStore()

	req := httptest.NewRequest(http.MethodGet, "/api/test", nil)
	req.AddCookie(&http.Cookie{Name: TokenCookieName, Value: "current-token"})
	req.AddCookie(&http.Cookie{Name: LegacyTokenCookieName, Value: "legacy-token"})

	cred := store.Resolve(req)
	if cred == nil {
		t.Fatal("expected credential, got nil")
	}
	if cred.Token != "current-token" {
		t.Errorf("Token = %q, want %q", cred.Token, "current-token")
	}
}

func TestTokenStore_Resolve_NoToken_ReturnsNil(t *testing.T) {
	store := NewTokenStore()

	req := httptest.NewRequest(http.MethodGet, "/api/test", nil)

	if cred := store.Resolve(req); cred != nil {
		t.Errorf("expected nil credential, got %+v", cred)
	}
}

// userCookieのみではトークンが解決できず未認証として扱う
func TestTokenStore_Resolve_UserCookieWithoutToken_ReturnsNil(t *testing.T) {
	store := NewTokenStore()

	req := httptest.NewRequest(http.MethodGet, "/api/test", nil)
	req.AddCookie(&http.Cookie{
		Name:  UserCookieName,
		Value: url.QueryEscape(`{"id":"42","email":"a@example.com"}`),
	})

	if cred := store.Resolve(req); cred != nil {
		t.Errorf("expected nil credential, got %+v", cred)
	}
}

func TestTokenStore_Resolve_UserCookie(t *testing.T) {
	store := NewTokenStore()

	req := httptest.NewRequest(http.MethodGet, "/api/test", nil)
	req.AddCookie(&http.Cookie{Name: TokenCookieName, Value: "tok"})
	req.AddCookie(&http.Cookie{
		Name:  UserCookieName,
		Value: url.QueryEscape(`{"id":42,"email":"a@example.com","user_type":"candidate"}`),
	})

	cred := store.Resolve(req)
	if cred == nil {
		t.Fatal("expected credential, got nil")
	}
	if cred.User == nil {
		t.Fatal("expected user summary, got nil")
	}
	// 数値IDも文字列として吸収される
	if cred.User.ID != model.FlexID("42") {
		t.Errorf("ID = %q, want %q", cred.User.ID, "42")
	}
	if cred.User.Email != "a@example.com" {
		t.Errorf("Email = %q, want %q", cred.User.Email, "a@example.com")
	}
	if cred.User.Role != model.RoleCandidate {
		t.Errorf("Role = %q, want %q", cred.User.Role, model.RoleCandidate)
	}
}

func TestTokenStore_Resolve_UnknownRole_Normalized(t *testing.T) {
	store := NewTokenStore()

	req := httptest.NewRequest(http.MethodGet, "/api/test", nil)
	req.AddCookie(&http.Cookie{Name: TokenCookieName, Value: "tok"})
	req.AddCookie(&http.Cookie{
		Name:  UserCookieName,
		Value: url.QueryEscape(`{"id":"7","email":"b@example.com","user_type":"superadmin"}`),
	})

	cred := store.Resolve(req)
	if cred == nil || cred.User == nil {
		t.Fatal("expected credential with user")
	}
	if cred.User.Role != model.RoleUnspecified {
		t.Errorf("Role = %q, want %q", cred.User.Role, model.RoleUnspecified)
	}
}

func TestTokenStore_Resolve_MalformedUserCookie_TokenOnly(t *testing.T) {
	store := NewTokenStore()

	req := httptest.NewRequest(http.MethodGet, "/api/test", nil)
	req.AddCookie(&http.Cookie{Name: TokenCookieName, Value: "tok"})
	req.AddCookie(&http.Cookie{Name: UserCookieName, Value: "not-json"})

	cred := store.Resolve(req)
	if cred == nil {
		t.Fatal("expected credential, got nil")
	}
	if cred.Token != "tok" {
		t.Errorf("Token = %q, want %q", cred.Token, "tok")
	}
	if cred.User != nil {
		t.Errorf("User = %+v, want nil", cred.User)
	}
}

func TestParseBearer(t *testing.T) {
	tests := []struct {
		name      string
		header    string
		wantToken string
		wantOK    bool
	}{
		{"standard", "Bearer abc123", "abc123", true},
		{"lowercase scheme", "bearer abc123", "abc123", true},
		{"missing token", "Bearer ", "", false},
		{"missing scheme", "abc123", "", false},
		{"wrong scheme", "Basic abc123", "", false},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, ok := parseBearer(tt.header)
			if ok != tt.wantOK {
				t.Errorf("ok = %v, want %v", ok, tt.wantOK)
			}
			if token != tt.wantToken {
				t.Errorf("token = %q, want %q", token, tt.wantToken)
			}
		})
	}
}
