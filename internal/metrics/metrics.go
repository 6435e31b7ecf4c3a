// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector はメトリクス収集のインターフェース。
// プロキシやハンドラー層から利用する。
type MetricsCollector interface {
	RecordUpstreamStatus(endpoint string, statusCode int)
	RecordUpstreamLatency(endpoint string, duration time.Duration)
	RecordUpstreamUnreachable(endpoint string)
	RecordValidationFailure(endpoint string)
	RecordSessionEstablished()
	RecordSessionCleared()
	RecordProfileUpsert()
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	upstreamStatus      *prometheus.CounterVec
	upstreamLatency     *prometheus.HistogramVec
	upstreamUnreachable *prometheus.CounterVec
	validationFailures  *prometheus.CounterVec
	sessionsEstablished prometheus.Counter
	sessionsCleared     prometheus.Counter
	profileUpserts      prometheus.Counter
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		upstreamStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gateway_upstream_status_total",
			Help: "上流レスポンスのエンドポイント・ステータスコード別の合計数",
		}, []string{"endpoint", "status_code"}),
		upstreamLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "gateway_upstream_latency_seconds",
			Help:    "上流呼び出しのレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),
		upstreamUnreachable: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gateway_upstream_unreachable_total",
			Help: "上流への接続失敗の合計数",
		}, []string{"endpoint"}),
		validationFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gateway_validation_failures_total",
			Help: "転送前の入力検証失敗の合計数",
		}, []string{"endpoint"}),
		sessionsEstablished: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gateway_sessions_established_total",
			Help: "セッションCookie設定の合計数",
		}),
		sessionsCleared: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gateway_sessions_cleared_total",
			Help: "セッションCookie破棄の合計数",
		}),
		profileUpserts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gateway_profile_upserts_total",
			Help: "プロフィール作成・置換の合計数",
		}),
	}

	reg.MustRegister(
		c.upstreamStatus,
		c.upstreamLatency,
		c.upstreamUnreachable,
		c.validationFailures,
		c.sessionsEstablished,
		c.sessionsCleared,
		c.profileUpserts,
	)

	return c
}

// RecordUpstreamStatus は上流レスポンスのステータスコードを記録する。
func (c *Collector) RecordUpstreamStatus(endpoint string, statusCode int) {
	c.upstreamStatus.WithLabelValues(endpoint, strconv.Itoa(statusCode)).Inc()
}

// RecordUpstreamLatency は上流呼び出しのレイテンシを記録する。
func (c *Collector) RecordUpstreamLatency(endpoint string, duration time.Duration) {
	c.upstreamLatency.WithLabelValues(endpoint).Observe(duration.Seconds())
}

// RecordUpstreamUnreachable は上流への接続失敗を記録する。
func (c *Collector) RecordUpstreamUnreachable(endpoint string) {
	c.upstreamUnreachable.WithLabelValues(endpoint).Inc()
}

// RecordValidationFailure は転送前の入力検証失敗を記録する。
func (c *Collector) RecordValidationFailure(endpoint string) {
	c.validationFailures.WithLabelValues(endpoint).Inc()
}

// RecordSessionEstablished はセッションCookie設定を記録する。
func (c *Collector) RecordSessionEstablished() {
	c.sessionsEstablished.Inc()
}

// RecordSessionCleared はセッションCookie破棄を記録する。
func (c *Collector) RecordSessionCleared() {
	c.sessionsCleared.Inc()
}

// RecordProfileUpsert はプロフィール作成・置換を記録する。
func (c *Collector) RecordProfileUpsert() {
	c.profileUpserts.Inc()
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
