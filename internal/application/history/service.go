package history

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"storefront-server/internal/domain/attempt"
	"storefront-server/internal/domain/charge"
	otelinfra "storefront-server/internal/infrastructure/observability/otel"
)

// HistoryApplicationService 決済試行の照合用履歴サービス
type HistoryApplicationService struct {
	attemptRepo attempt.AttemptRepository
	logger      *otelinfra.Logger
	metrics     *otelinfra.Metrics
	tracer      trace.Tracer
}

// NewHistoryApplicationService 新しいHistoryApplicationServiceを作成
func NewHistoryApplicationService(
	attemptRepo attempt.AttemptRepository,
	logger *otelinfra.Logger,
	metrics *otelinfra.Metrics,
) *HistoryApplicationService {
	return &HistoryApplicationService{
		attemptRepo: attemptRepo,
		logger:      logger,
		metrics:     metrics,
		tracer:      otel.Tracer("history-service"),
	}
}

// GetAttemptHistory 注文に紐づく決済試行履歴を新しい順で取得
func (s *HistoryApplicationService) GetAttemptHistory(ctx context.Context, req *GetAttemptHistoryRequest) (*GetAttemptHistoryResponse, error) {
	ctx, span := s.tracer.Start(ctx, "HistoryApplicationService.GetAttemptHistory")
	defer span.End()

	span.SetAttributes(
		attribute.String("order_id", charge.TruncateOrderID(req.OrderID)),
		attribute.Int("limit", req.Limit),
		attribute.Int("offset", req.Offset),
	)

	if req.OrderID == "" {
		err := charge.ErrMissingOrderID
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, err
	}

	// バリデーション
	if req.Limit <= 0 {
		req.Limit = 20 // デフォルト値
	}
	if req.Limit > 100 {
		req.Limit = 100 // 最大値
	}
	if req.Offset < 0 {
		req.Offset = 0
	}

	attempts, err := s.attemptRepo.FindByOrderID(ctx, req.OrderID, req.Limit, req.Offset)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		s.logger.Error(ctx, "Failed to get attempt history", err, map[string]interface{}{
			"order_id": charge.TruncateOrderID(req.OrderID),
		})
		return nil, fmt.Errorf("failed to get attempt history: %w", err)
	}

	s.metrics.RecordRequest(ctx, "GET", "/api/v1/orders/{order_id}/attempts")

	return &GetAttemptHistoryResponse{
		Attempts: attempts,
		Total:    len(attempts),
		Limit:    req.Limit,
		Offset:   req.Offset,
	}, nil
}
