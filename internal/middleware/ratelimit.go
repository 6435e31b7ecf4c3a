package middleware

import (
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/hirely/gateway/internal/model"
)

// RateLimiterConfig はレート制限の設定を保持する。
type RateLimiterConfig struct {
	GeneralRate     rate.Limit    // API全般のレート（req/sec）。120/60 = 2 req/sec
	GeneralBurst    int           // API全般のバーストサイズ
	GenerationRate  rate.Limit    // 面接生成のレート（req/sec）。10/60
	GenerationBurst int           // 面接生成のバーストサイズ
	CleanupInterval time.Duration // 期限切れエントリのクリーンアップ間隔
}

// DefaultRateLimiterConfig はデフォルトのレート制限設定を返す。
// 要件: API全般 120 req/min/user、面接生成 10 req/min/user
func DefaultRateLimiterConfig() RateLimiterConfig {
	return RateLimiterConfig{
		GeneralRate:     rate.Limit(120.0 / 60.0), // 2 req/sec
		GeneralBurst:    120,
		GenerationRate:  rate.Limit(10.0 / 60.0), // ~0.167 req/sec
		GenerationBurst: 10,
		CleanupInterval: 5 * time.Minute,
	}
}

// clientLimiter は呼び出し元ごとのレートリミッターとアクセス時刻を保持する。
type clientLimiter struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// RateLimiter は呼び出し元ごとのレート制限を管理する。
// API全般のレート制限と面接生成のレート制限の2種類を提供する。
// キーにはユーザーIDを使い、ユーザーサマリーがない場合はトークン値で代替する。
type RateLimiter struct {
	config RateLimiterConfig

	generalMu       sync.RWMutex
	generalLimiters map[string]*clientLimiter

	generationMu       sync.RWMutex
	generationLimiters map[string]*clientLimiter

	stopCh chan struct{}
}

// NewRateLimiter は新しいRateLimiterを生成する。
// バックグラウンドで期限切れエントリのクリーンアップを開始する。
func NewRateLimiter(config RateLimiterConfig) *RateLimiter {
	rl := &RateLimiter{
		config:             config,
		generalLimiters:    make(map[string]*clientLimiter),
		generationLimiters: make(map[string]*clientLimiter),
		stopCh:             make(chan struct{}),
	}

	go rl.cleanupLoop()

	return rl
}

// Stop はクリーンアップのバックグラウンドゴルーチンを停止する。
func (rl *RateLimiter) Stop() {
	close(rl.stopCh)
}

// GeneralMiddleware はAPI全般のレート制限ミドルウェアを返す。
// リクエストコンテキストにクレデンシャルが含まれている必要がある
// （認証ミドルウェアの後に配置）。
func (rl *RateLimiter) GeneralMiddleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key, ok := limiterKeyFromContext(r)
			if !ok {
				WriteErrorResponse(w, model.NewUnauthenticatedError("Not authenticated"))
				return
			}

			limiter := rl.getOrCreateGeneralLimiter(key)

			if !limiter.Allow() {
				writeRateLimitResponse(w, rl.config.GeneralRate)
				slog.Warn("rate limit exceeded",
					slog.String("limit_type", "general"),
				)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// GenerationMiddleware は面接生成専用のレート制限ミドルウェアを返す。
// API全般のレート制限とは独立に動作する。
func (rl *RateLimiter) GenerationMiddleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key, ok := limiterKeyFromContext(r)
			if !ok {
				WriteErrorResponse(w, model.NewUnauthenticatedError("Not authenticated"))
				return
			}

			limiter := rl.getOrCreateGenerationLimiter(key)

			if !limiter.Allow() {
				writeRateLimitResponse(w, rl.config.GenerationRate)
				slog.Warn("rate limit exceeded",
					slog.String("limit_type", "generation"),
				)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// GeneralLimiterCount は現在管理されているAPI全般リミッターのエントリ数を返す。
// テストおよびメトリクス用。
func (rl *RateLimiter) GeneralLimiterCount() int {
	rl.generalMu.RLock()
	defer rl.generalMu.RUnlock()
	return len(rl.generalLimiters)
}

// GenerationLimiterCount は現在管理されている面接生成リミッターのエントリ数を返す。
// テストおよびメトリクス用。
func (rl *RateLimiter) GenerationLimiterCount() int {
	rl.generationMu.RLock()
	defer rl.generationMu.RUnlock()
	return len(rl.generationLimiters)
}

// limiterKeyFromContext は呼び出し元のレート制限キーを決定する。
// ユーザーIDがあればそれを、なければトークン値を使用する。
func limiterKeyFromContext(r *http.Request) (string, bool) {
	cred, err := CredentialFromContext(r.Context())
	if err != nil || cred.Token == "" {
		return "", false
	}
	if cred.User != nil && cred.User.ID != "" {
		return string(cred.User.ID), true
	}
	return cred.Token, true
}

// getOrCreateGeneralLimiter は呼び出し元のAPI全般リミッターを取得または作成する。
func (rl *RateLimiter) getOrCreateGeneralLimiter(key string) *rate.Limiter {
	rl.generalMu.RLock()
	cl, exists := rl.generalLimiters[key]
	rl.generalMu.RUnlock()

	if exists {
		rl.generalMu.Lock()
		cl.lastAccess = time.Now()
		rl.generalMu.Unlock()
		return cl.limiter
	}

	rl.generalMu.Lock()
	defer rl.generalMu.Unlock()

	// ダブルチェック
	if cl, exists := rl.generalLimiters[key]; exists {
		cl.lastAccess = time.Now()
		return cl.limiter
	}

	limiter := rate.NewLimiter(rl.config.GeneralRate, rl.config.GeneralBurst)
	rl.generalLimiters[key] = &clientLimiter{
		limiter:    limiter,
		lastAccess: time.Now(),
	}

	return limiter
}

// getOrCreateGenerationLimiter は呼び出し元の面接生成リミッターを取得または作成する。
func (rl *RateLimiter) getOrCreateGenerationLimiter(key string) *rate.Limiter {
	rl.generationMu.RLock()
	cl, exists := rl.generationLimiters[key]
	rl.generationMu.RUnlock()

	if exists {
		rl.generationMu.Lock()
		cl.lastAccess = time.Now()
		rl.generationMu.Unlock()
		return cl.limiter
	}

	rl.generationMu.Lock()
	defer rl.generationMu.Unlock()

	// ダブルチェック
	if cl, exists := rl.generationLimiters[key]; exists {
		cl.lastAccess = time.Now()
		return cl.limiter
	}

	limiter := rate.NewLimiter(rl.config.GenerationRate, rl.config.GenerationBurst)
	rl.generationLimiters[key] = &clientLimiter{
		limiter:    limiter,
		lastAccess: time.Now(),
	}

	return limiter
}

// cleanupLoop はバックグラウンドで期限切れエントリを定期的にクリーンアップする。
func (rl *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(rl.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanup()
		case <-rl.stopCh:
			return
		}
	}
}

// cleanup は最終アクセス時刻がCleanupIntervalの2倍を超えたエントリを削除する。
func (rl *RateLimiter) cleanup() {
	ttl := rl.config.CleanupInterval * 2

	now := time.Now()

	rl.generalMu.Lock()
	for key, cl := range rl.generalLimiters {
		if now.Sub(cl.lastAccess) > ttl {
			delete(rl.generalLimiters, key)
		}
	}
	rl.generalMu.Unlock()

	rl.generationMu.Lock()
	for key, cl := range rl.generationLimiters {
		if now.Sub(cl.lastAccess) > ttl {
			delete(rl.generationLimiters, key)
		}
	}
	rl.generationMu.Unlock()
}

// writeRateLimitResponse は429 Too Many Requestsレスポンスを書き込む。
// Retry-Afterヘッダーにはトークンが補充されるまでの推定秒数を設定する。
func writeRateLimitResponse(w http.ResponseWriter, r rate.Limit) {
	// Retry-Afterの算出: 1トークンが補充されるまでの秒数
	retryAfterSec := int(math.Ceil(1.0 / float64(r)))
	if retryAfterSec < 1 {
		retryAfterSec = 1
	}

	w.Header().Set("Retry-After", strconv.Itoa(retryAfterSec))
	WriteErrorResponse(w, model.NewRateLimitedError())
}
