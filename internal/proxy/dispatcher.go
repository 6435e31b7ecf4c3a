// Package proxy は上流サービスへのリクエスト転送を提供する。
//
// Dispatcherは検証済みペイロードをちょうど1回のHTTP呼び出しで上流に転送し、
// 上流のレスポンス/エラー形式をこのシステムのレスポンスエンベロープに写像する。
// リトライとキャッシュは行わない。リトライポリシーは呼び出し元の責務。
package proxy

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/hirely/gateway/internal/model"
)

// 上流レスポンスボディの読み取り上限
const maxResponseSize = 1 << 20 // 1MiB

// Metrics はDispatcherが記録するメトリクスのインターフェース。
type Metrics interface {
	RecordUpstreamStatus(endpoint string, statusCode int)
	RecordUpstreamLatency(endpoint string, duration time.Duration)
	RecordUpstreamUnreachable(endpoint string)
	RecordValidationFailure(endpoint string)
}

// Config はDispatcherの設定。
type Config struct {
	BaseURL string        // 上流のベースURL
	Timeout time.Duration // 転送1回あたりの上限。タイムアウトはUPSTREAM_UNREACHABLE扱い
}

// Dispatcher は上流プロキシディスパッチャ。
type Dispatcher struct {
	baseURL string
	client  *http.Client
	logger  *slog.Logger
	metrics Metrics
}

// NewDispatcher はDispatcherを生成する。タイムアウト未指定時は10秒を適用する。
func NewDispatcher(cfg Config, logger *slog.Logger, metrics Metrics) *Dispatcher {
	cfg = cfg.withDefaults()
	return &Dispatcher{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		client:  &http.Client{Timeout: cfg.Timeout},
		logger:  logger,
		metrics: metrics,
	}
}

// BaseURL は設定された上流ベースURLを返す。
func (d *Dispatcher) BaseURL() string {
	return d.baseURL
}

// upstreamEnvelope は上流サービスのレスポンス形式。
type upstreamEnvelope struct {
	Success *bool           `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
	Details json.RawMessage `json:"details"`
}

// Forward はペイロードを検証・正規化し、上流エンドポイントへ転送する。
//
// 処理順序:
//  1. 資格情報の確認（なければUNAUTHENTICATED、ネットワーク到達なし）
//  2. ペイロードの検証（失敗はVALIDATION_ERROR、ネットワーク到達なし）
//  3. 1回だけのHTTP呼び出し。トークンはAuthorizationヘッダーにそのまま転送
//  4. 結果の正規化。上流の失敗ステータスはそのまま写し、エラーコード/詳細が
//     あればパススルーする。トランスポート失敗はUPSTREAM_UNREACHABLE（503）
func (d *Dispatcher) Forward(ctx context.Context, endpoint Endpoint, payload map[string]any, cred *model.Credential) *model.ProxyResult {
	// 1. 資格情報の確認
	if cred == nil || cred.Token == "" {
		return failure(model.NewUnauthenticatedError("Authorization header is required"))
	}

	// 2. 検証と正規化
	normalized, apiErr := endpoint.ValidateAndNormalize(payload)
	if apiErr != nil {
		d.metrics.RecordValidationFailure(endpoint.Name)
		return failure(apiErr)
	}

	body, err := json.Marshal(normalized)
	if err != nil {
		return failure(model.NewValidationError("Request body could not be serialized"))
	}

	url := d.baseURL + endpoint.Path
	req, err := http.NewRequestWithContext(ctx, endpoint.Method, url, bytes.NewReader(body))
	if err != nil {
		d.logger.Error("failed to build upstream request",
			slog.String("endpoint", endpoint.Name),
			slog.String("error", err.Error()),
		)
		return failure(model.NewInternalError())
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+cred.Token)

	// 3. HTTP呼び出し（1回のみ、リトライなし）
	start := time.Now()
	resp, err := d.client.Do(req)
	if err != nil {
		d.metrics.RecordUpstreamUnreachable(endpoint.Name)
		d.logger.Error("upstream request failed",
			slog.String("endpoint", endpoint.Name),
			slog.String("url", url),
			slog.String("error", err.Error()),
		)
		return failure(model.NewUpstreamUnreachableError(d.baseURL))
	}
	defer resp.Body.Close()

	duration := time.Since(start)
	d.metrics.RecordUpstreamStatus(endpoint.Name, resp.StatusCode)
	d.metrics.RecordUpstreamLatency(endpoint.Name, duration)

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		d.logger.Error("failed to read upstream response",
			slog.String("endpoint", endpoint.Name),
			slog.String("error", err.Error()),
		)
		return failure(model.NewUpstreamError(http.StatusBadGateway, "Upstream response could not be read", nil))
	}

	var upstream upstreamEnvelope
	parseErr := json.Unmarshal(raw, &upstream)

	// 4a. 上流の失敗応答: ステータスを写し、error/detailsをパススルー
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var details any
		if len(upstream.Details) > 0 && string(upstream.Details) != "null" {
			details = upstream.Details
		}
		d.logger.Warn("upstream returned an error",
			slog.String("endpoint", endpoint.Name),
			slog.Int("http_status", resp.StatusCode),
			slog.String("upstream_error", upstream.Error),
			slog.Float64("duration_ms", float64(duration.Milliseconds())),
		)
		return failure(model.NewUpstreamError(resp.StatusCode, upstream.Error, details))
	}

	// 4b. 成功ステータスだがJSONとして読めない応答
	if parseErr != nil {
		d.logger.Error("upstream returned an invalid response body",
			slog.String("endpoint", endpoint.Name),
			slog.Int("http_status", resp.StatusCode),
			slog.String("error", parseErr.Error()),
		)
		return failure(model.NewUpstreamError(http.StatusBadGateway, "Upstream service returned an invalid response", nil))
	}

	// 4c. 成功応答。dataフィールドがない形式の上流に備えてボディ全体へフォールバック
	data := upstream.Data
	if len(data) == 0 {
		data = raw
	}

	d.logger.Info("upstream request completed",
		slog.String("endpoint", endpoint.Name),
		slog.Int("http_status", resp.StatusCode),
		slog.Float64("duration_ms", float64(duration.Milliseconds())),
	)

	return &model.ProxyResult{
		Status:  http.StatusOK,
		Success: true,
		Data:    data,
		Message: upstream.Message,
	}
}

// failure はAPIErrorを失敗のProxyResultに包む。
func failure(err *model.APIError) *model.ProxyResult {
	return &model.ProxyResult{
		Status: err.Status,
		Err:    err,
	}
}

// withDefaults はタイムアウト未指定（0以下）に既定の10秒を適用する。
// 無制限のブロッキングを避けるための保守的な上限。
func (c Config) withDefaults() Config {
	if c.Timeout <= 0 {
		c.Timeout = 10 * time.Second
	}
	return c
}
