package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/hirely/gateway/internal/metrics"
	"github.com/hirely/gateway/internal/middleware"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	CredentialResolver middleware.CredentialResolver
	CORSAllowedOrigin  string
	RateLimiter        *middleware.RateLimiter
	Logger             *slog.Logger

	// セッション
	SessionBridge SessionBridge

	// 面接生成プロキシ
	Dispatcher DispatcherInterface

	// プロフィール・評価
	ProfileService    ProfileServiceInterface
	AssessmentService AssessmentServiceInterface

	// 運用系
	HealthChecker HealthChecker
	Metrics       *metrics.Collector
	Gatherer      prometheus.Gatherer
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	CORSMiddleware → SecurityHeaders → Recovery → Logging → 認証 → RateLimit
//
// セッションルート（/api/auth/*）と運用系ルート（/health、/metrics）は
// 認証ミドルウェアの外に配置する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	// 全ルートに効くミドルウェアを最上位に適用
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewLoggingMiddleware(deps.Logger))

	sessionHandler := NewSessionHandler(deps.SessionBridge, deps.Metrics)
	generateHandler := NewGenerateHandler(deps.Dispatcher)
	profileHandler := NewProfileHandler(deps.ProfileService, deps.Metrics)
	assessmentHandler := NewAssessmentHandler(deps.AssessmentService)
	healthHandler := NewHealthHandler(deps.HealthChecker)

	// --- 認証不要のルート ---

	r.Get("/health", healthHandler.Check)
	r.Handle("/metrics", metrics.Handler(deps.Gatherer))

	// セッションCookieブリッジ。クリアは冪等のため認証を要求しない
	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/session", sessionHandler.Establish)
		r.Post("/session/clear", sessionHandler.Clear)
	})

	// --- 面接生成プロキシ ---
	// GETは疎通確認のため認証不要。POSTはベアラートークン必須で、
	// 面接生成専用レート制限を追加で適用する
	r.Route("/api/interviews/generate", func(r chi.Router) {
		r.Get("/", generateHandler.Info)
		r.With(
			middleware.NewTokenAuthMiddleware(deps.CredentialResolver),
			deps.RateLimiter.GenerationMiddleware(),
		).Post("/", generateHandler.Generate)
	})

	// --- フルセッション（トークン+ユーザー要約）が必要なルート ---
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewSessionAuthMiddleware(deps.CredentialResolver))
		r.Use(deps.RateLimiter.GeneralMiddleware())

		r.Route("/api/profile", func(r chi.Router) {
			r.Get("/", profileHandler.Get)
			r.Put("/", profileHandler.Update)
			r.Post("/", profileHandler.Upsert)
		})

		r.Route("/api/assessments", func(r chi.Router) {
			r.Get("/", assessmentHandler.List)
			r.Post("/", assessmentHandler.Create)
		})
	})

	return r
}
