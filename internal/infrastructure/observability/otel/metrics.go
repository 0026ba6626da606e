package otel

import (
	"context"
	"strconv"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics メトリクス定義
type Metrics struct {
	// プロバイダー呼び出し数
	ProviderCallCount metric.Int64Counter

	// プロバイダー呼び出しのレイテンシ
	ProviderLatency metric.Float64Histogram

	// チャージ処理数（ステップ・結果別）
	ChargeCount metric.Int64Counter

	// チェックアウトセッション作成数
	CheckoutSessionCount metric.Int64Counter

	// リクエスト数
	RequestCount metric.Int64Counter

	// レスポンス時間
	ResponseTime metric.Float64Histogram

	// エラー率
	ErrorCount metric.Int64Counter
}

// NewMetrics 新しいMetricsを作成
func NewMetrics(meterName string) (*Metrics, error) {
	meter := otel.Meter(meterName)

	providerCallCount, err := meter.Int64Counter(
		"provider_calls_total",
		metric.WithDescription("Total number of financing provider API calls"),
	)
	if err != nil {
		return nil, err
	}

	providerLatency, err := meter.Float64Histogram(
		"provider_call_duration_seconds",
		metric.WithDescription("Financing provider API call duration in seconds"),
	)
	if err != nil {
		return nil, err
	}

	chargeCount, err := meter.Int64Counter(
		"charges_total",
		metric.WithDescription("Total number of charge flow steps"),
	)
	if err != nil {
		return nil, err
	}

	checkoutSessionCount, err := meter.Int64Counter(
		"checkout_sessions_total",
		metric.WithDescription("Total number of hosted checkout sessions"),
	)
	if err != nil {
		return nil, err
	}

	requestCount, err := meter.Int64Counter(
		"requests_total",
		metric.WithDescription("Total number of requests"),
	)
	if err != nil {
		return nil, err
	}

	responseTime, err := meter.Float64Histogram(
		"response_time_seconds",
		metric.WithDescription("Response time in seconds"),
	)
	if err != nil {
		return nil, err
	}

	errorCount, err := meter.Int64Counter(
		"errors_total",
		metric.WithDescription("Total number of errors"),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		ProviderCallCount:    providerCallCount,
		ProviderLatency:      providerLatency,
		ChargeCount:          chargeCount,
		CheckoutSessionCount: checkoutSessionCount,
		RequestCount:         requestCount,
		ResponseTime:         responseTime,
		ErrorCount:           errorCount,
	}, nil
}

// RecordProviderCall プロバイダー呼び出しを記録
func (m *Metrics) RecordProviderCall(ctx context.Context, endpoint string, status int, duration float64) {
	attrs := metric.WithAttributes(
		attribute.String("endpoint", endpoint),
		attribute.String("status", strconv.Itoa(status)),
	)
	m.ProviderCallCount.Add(ctx, 1, attrs)
	m.ProviderLatency.Record(ctx, duration, attrs)
}

// RecordCharge チャージフローのステップ結果を記録
func (m *Metrics) RecordCharge(ctx context.Context, step, outcome string) {
	m.ChargeCount.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("step", step),
			attribute.String("outcome", outcome),
		),
	)
}

// RecordCheckoutSession チェックアウトセッション作成を記録
func (m *Metrics) RecordCheckoutSession(ctx context.Context, outcome string) {
	m.CheckoutSessionCount.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("outcome", outcome),
		),
	)
}

// RecordRequest リクエストを記録
func (m *Metrics) RecordRequest(ctx context.Context, method, path string) {
	m.RequestCount.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("method", method),
			attribute.String("path", path),
		),
	)
}

// RecordResponseTime レスポンス時間を記録
func (m *Metrics) RecordResponseTime(ctx context.Context, method, path string, duration float64) {
	m.ResponseTime.Record(ctx, duration,
		metric.WithAttributes(
			attribute.String("method", method),
			attribute.String("path", path),
		),
	)
}

// RecordError エラーを記録
func (m *Metrics) RecordError(ctx context.Context, errorType string) {
	m.ErrorCount.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("error_type", errorType),
		),
	)
}
