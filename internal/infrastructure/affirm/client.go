package affirm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"storefront-server/internal/domain/charge"
	"storefront-server/internal/domain/credential"
	otelinfra "storefront-server/internal/infrastructure/observability/otel"
)

const (
	defaultRequestTimeout = 30 * time.Second

	// 応答ボディの読み込み上限
	maxResponseBodyBytes = 1 << 20

	// ログに載せるボディの上限（PII保護のため必ず切り詰める）
	maxLoggedBodyBytes = 4000
)

// HTTPDoer HTTPリクエストを実行するインターフェース
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client 後払いプロバイダーAPI v2のクライアント
type Client struct {
	baseURL     string
	environment string // ログ用（"prod" / "sandbox"）
	httpClient  HTTPDoer
	logger      *otelinfra.Logger
	metrics     *otelinfra.Metrics
}

// ClientConfig Clientの構築オプション
type ClientConfig struct {
	BaseURL    string
	Production bool
	Timeout    time.Duration
	HTTPClient HTTPDoer // 未指定時はタイムアウト付きのhttp.Client
	Logger     *otelinfra.Logger
	Metrics    *otelinfra.Metrics
}

// NewClient 新しいClientを作成
func NewClient(cfg ClientConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	env := "sandbox"
	if cfg.Production {
		env = "prod"
	}
	return &Client{
		baseURL:     cfg.BaseURL,
		environment: env,
		httpClient:  httpClient,
		logger:      cfg.Logger,
		metrics:     cfg.Metrics,
	}
}

// CreateCharge checkout_tokenからチャージを作成する
func (c *Client) CreateCharge(ctx context.Context, auth credential.AuthCandidate, checkoutToken string) (*charge.ProviderResponse, error) {
	payload := map[string]string{"checkout_token": checkoutToken}
	return c.post(ctx, "charges", c.baseURL+"/charges", auth, payload)
}

// CaptureCharge 作成済みチャージをキャプチャーする
func (c *Client) CaptureCharge(ctx context.Context, auth credential.AuthCandidate, chargeID string, req *charge.CaptureRequest) (*charge.ProviderResponse, error) {
	endpoint := fmt.Sprintf("%s/charges/%s/capture", c.baseURL, url.PathEscape(chargeID))
	return c.post(ctx, "capture", endpoint, auth, req)
}

// post JSONボディをPOSTし、ステータスと生ボディを返す
// トランスポートレベルの失敗のみerrorになる
func (c *Client) post(ctx context.Context, name, endpoint string, auth credential.AuthCandidate, payload interface{}) (*charge.ProviderResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s request: %w", name, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build %s request: %w", name, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", auth.HeaderValue())

	start := time.Now()
	res, err := c.httpClient.Do(req)
	if err != nil {
		if c.logger != nil {
			c.logger.Error(ctx, "provider call failed", err, map[string]interface{}{
				"env":      c.environment,
				"endpoint": name,
				"scheme":   auth.Scheme().String(),
			})
		}
		return nil, fmt.Errorf("%s request failed: %w", name, err)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(res.Body, maxResponseBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s response: %w", name, err)
	}

	if c.metrics != nil {
		c.metrics.RecordProviderCall(ctx, name, res.StatusCode, time.Since(start).Seconds())
	}
	if c.logger != nil {
		c.logger.Info(ctx, "provider call completed", map[string]interface{}{
			"env":      c.environment,
			"endpoint": name,
			"scheme":   auth.Scheme().String(),
			"status":   res.StatusCode,
			"resp":     SafeBody(raw),
		})
	}

	return &charge.ProviderResponse{
		StatusCode: res.StatusCode,
		Body:       normalizeBody(raw),
	}, nil
}

// normalizeBody ボディを有効なJSONに正規化する
// JSONとして解釈できない応答（HTML等）は {"raw": "..."} に包む
func normalizeBody(raw []byte) json.RawMessage {
	if len(bytes.TrimSpace(raw)) == 0 {
		return json.RawMessage("null")
	}
	if json.Valid(raw) {
		return json.RawMessage(raw)
	}
	wrapped, err := json.Marshal(map[string]string{"raw": string(raw)})
	if err != nil {
		return json.RawMessage("null")
	}
	return json.RawMessage(wrapped)
}

// SafeBody ログ出力向けにボディを切り詰める
func SafeBody(raw []byte) string {
	if len(raw) > maxLoggedBodyBytes {
		return string(raw[:maxLoggedBodyBytes])
	}
	return string(raw)
}
