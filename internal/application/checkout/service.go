package checkout

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"storefront-server/internal/domain/checkout"
	otelinfra "storefront-server/internal/infrastructure/observability/otel"
)

// CheckoutApplicationService カード決済のホスト型チェックアウトを構築するサービス
type CheckoutApplicationService struct {
	gateway        checkout.Gateway // nilの場合はカード決済が未設定
	fallbackOrigin string
	logger         *otelinfra.Logger
	metrics        *otelinfra.Metrics
	tracer         trace.Tracer
}

// NewCheckoutApplicationService 新しいCheckoutApplicationServiceを作成
func NewCheckoutApplicationService(
	gateway checkout.Gateway,
	fallbackOrigin string,
	logger *otelinfra.Logger,
	metrics *otelinfra.Metrics,
) *CheckoutApplicationService {
	return &CheckoutApplicationService{
		gateway:        gateway,
		fallbackOrigin: fallbackOrigin,
		logger:         logger,
		metrics:        metrics,
		tracer:         otel.Tracer("checkout-service"),
	}
}

// CreateCardSession カートの内容からホスト型チェックアウトセッションを作成する
func (s *CheckoutApplicationService) CreateCardSession(ctx context.Context, req *CreateCardSessionRequest) (*CreateCardSessionResponse, error) {
	ctx, span := s.tracer.Start(ctx, "CheckoutApplicationService.CreateCardSession")
	defer span.End()

	span.SetAttributes(attribute.Int("item_count", len(req.Items)))

	if s.gateway == nil {
		err := checkout.ErrCardNotConfigured
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		s.logger.Error(ctx, "Card checkout requested but not configured", err, nil)
		return nil, err
	}

	sessionReq, err := checkout.BuildSessionRequest(req.Items, req.Origin, s.fallbackOrigin, req.CustomerEmail)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, err
	}

	url, err := s.gateway.CreateSession(ctx, sessionReq)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		s.logger.Error(ctx, "Failed to create checkout session", err, map[string]interface{}{
			"item_count": len(sessionReq.LineItems),
		})
		s.metrics.RecordCheckoutSession(ctx, "failed")
		return nil, err
	}

	s.logger.Info(ctx, "Checkout session created", map[string]interface{}{
		"item_count": len(sessionReq.LineItems),
	})
	s.metrics.RecordCheckoutSession(ctx, "created")

	return &CreateCardSessionResponse{URL: url}, nil
}
