package charge

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"storefront-server/internal/domain/attempt"
	"storefront-server/internal/domain/charge"
	"storefront-server/internal/domain/credential"
	otelinfra "storefront-server/internal/infrastructure/observability/otel"
)

// ChargeApplicationService 後払い決済の与信・キャプチャーを統括するサービス
//
// 認証候補を順に試し、401/403とトランスポート失敗のみ次の候補へ
// フォールバックする。それ以外のプロバイダー応答はその時点で確定となる
type ChargeApplicationService struct {
	gateway     charge.Gateway
	attemptRepo attempt.AttemptRepository // nilの場合は監査記録を行わない
	publicKey   string
	privateKey  string
	logger      *otelinfra.Logger
	metrics     *otelinfra.Metrics
	tracer      trace.Tracer
}

// NewChargeApplicationService 新しいChargeApplicationServiceを作成
func NewChargeApplicationService(
	gateway charge.Gateway,
	attemptRepo attempt.AttemptRepository,
	publicKey string,
	privateKey string,
	logger *otelinfra.Logger,
	metrics *otelinfra.Metrics,
) *ChargeApplicationService {
	return &ChargeApplicationService{
		gateway:     gateway,
		attemptRepo: attemptRepo,
		publicKey:   publicKey,
		privateKey:  privateKey,
		logger:      logger,
		metrics:     metrics,
		tracer:      otel.Tracer("charge-service"),
	}
}

// AuthorizeCharge チャージを与信し、指定があれば続けてキャプチャーする
func (s *ChargeApplicationService) AuthorizeCharge(ctx context.Context, req *AuthorizeChargeRequest) (*AuthorizeChargeResponse, error) {
	ctx, span := s.tracer.Start(ctx, "ChargeApplicationService.AuthorizeCharge")
	defer span.End()

	cr, err := charge.NewChargeRequest(req.toParams())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(
		attribute.String("order_id", cr.TruncatedOrderID()),
		attribute.Bool("capture", cr.Capture()),
	)

	candidates := credential.Resolve(s.publicKey, s.privateKey)
	if len(candidates) == 0 {
		err := credential.ErrNoAuthCandidates
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		s.logger.Error(ctx, "Financing credentials not configured", err, nil)
		return nil, err
	}

	s.logger.Info(ctx, "Authorizing charge", map[string]interface{}{
		"order_id":     cr.TruncatedOrderID(),
		"capture":      cr.Capture(),
		"auth_schemes": credential.SchemeNames(candidates),
	})

	chargeResp, usedAuth, err := s.callWithFallback(ctx, attempt.StepCharges, cr.OrderID(), "", candidates,
		func(ctx context.Context, auth credential.AuthCandidate) (*charge.ProviderResponse, error) {
			return s.gateway.CreateCharge(ctx, auth, cr.CheckoutToken())
		})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		s.metrics.RecordError(ctx, "provider_unreachable")
		return nil, err
	}

	if !chargeResp.OK() {
		// 認証候補を使い切った場合も含め、最後のプロバイダー応答をそのまま返す
		s.logger.Warn(ctx, "Charge authorization rejected by provider", map[string]interface{}{
			"order_id":    cr.TruncatedOrderID(),
			"auth_scheme": usedAuth.Scheme().String(),
			"status":      chargeResp.StatusCode,
		})
		s.metrics.RecordCharge(ctx, attempt.StepCharges.String(), attempt.OutcomeRejected.String())
		return &AuthorizeChargeResponse{
			OK:             false,
			Step:           attempt.StepCharges.String(),
			AuthScheme:     usedAuth.Scheme().String(),
			ProviderStatus: chargeResp.StatusCode,
			ErrorBody:      chargeResp.Body,
		}, nil
	}

	created := charge.DecodeCharge(chargeResp.Body)
	span.SetAttributes(attribute.String("charge_id", created.ID))
	s.metrics.RecordCharge(ctx, attempt.StepCharges.String(), attempt.OutcomeSucceeded.String())

	if !cr.Capture() {
		s.logger.Info(ctx, "Charge authorized (auth only)", map[string]interface{}{
			"order_id":    cr.TruncatedOrderID(),
			"charge_id":   created.ID,
			"auth_scheme": usedAuth.Scheme().String(),
		})
		return &AuthorizeChargeResponse{
			OK:             true,
			Step:           attempt.StepCharges.String(),
			ChargeID:       created.ID,
			AuthScheme:     usedAuth.Scheme().String(),
			ProviderStatus: chargeResp.StatusCode,
			ChargeBody:     chargeResp.Body,
		}, nil
	}

	captureReq := &charge.CaptureRequest{
		OrderID:              cr.OrderID(),
		Amount:               cr.Amount(),
		Currency:             cr.Currency(),
		ShippingCarrier:      cr.ShippingCarrier(),
		ShippingConfirmation: cr.ShippingConfirmation(),
	}

	captureResp, captureAuth, err := s.callWithFallback(ctx, attempt.StepCapture, cr.OrderID(), created.ID, candidates,
		func(ctx context.Context, auth credential.AuthCandidate) (*charge.ProviderResponse, error) {
			return s.gateway.CaptureCharge(ctx, auth, created.ID, captureReq)
		})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		s.logger.Error(ctx, "Capture unreachable after successful authorization", err, map[string]interface{}{
			"order_id":  cr.TruncatedOrderID(),
			"charge_id": created.ID,
		})
		s.metrics.RecordError(ctx, "provider_unreachable")
		return nil, err
	}

	if !captureResp.OK() {
		s.logger.Warn(ctx, "Capture rejected by provider", map[string]interface{}{
			"order_id":    cr.TruncatedOrderID(),
			"charge_id":   created.ID,
			"auth_scheme": captureAuth.Scheme().String(),
			"status":      captureResp.StatusCode,
		})
		s.metrics.RecordCharge(ctx, attempt.StepCapture.String(), attempt.OutcomeRejected.String())
		return &AuthorizeChargeResponse{
			OK:             false,
			Step:           attempt.StepCapture.String(),
			ChargeID:       created.ID,
			AuthScheme:     captureAuth.Scheme().String(),
			ProviderStatus: captureResp.StatusCode,
			ChargeBody:     chargeResp.Body,
			ErrorBody:      captureResp.Body,
		}, nil
	}

	s.logger.Info(ctx, "Charge captured", map[string]interface{}{
		"order_id":    cr.TruncatedOrderID(),
		"charge_id":   created.ID,
		"amount":      cr.Amount(),
		"currency":    cr.Currency(),
		"auth_scheme": captureAuth.Scheme().String(),
	})
	s.metrics.RecordCharge(ctx, attempt.StepCapture.String(), attempt.OutcomeSucceeded.String())

	return &AuthorizeChargeResponse{
		OK:             true,
		Step:           attempt.StepCapture.String(),
		ChargeID:       created.ID,
		AuthScheme:     captureAuth.Scheme().String(),
		ProviderStatus: captureResp.StatusCode,
		ChargeBody:     chargeResp.Body,
		CaptureBody:    captureResp.Body,
	}, nil
}

// callWithFallback 認証候補を順に試してプロバイダーを呼び出す
//
// 401/403とトランスポート失敗は次の候補へ進む。それ以外は成功・失敗を問わず
// その応答で確定する。候補を使い切った場合は最後の401/403応答を返し、
// 全候補がトランスポート失敗の場合のみErrProviderUnreachableを返す
func (s *ChargeApplicationService) callWithFallback(
	ctx context.Context,
	step attempt.Step,
	orderID string,
	chargeID string,
	candidates []credential.AuthCandidate,
	call func(ctx context.Context, auth credential.AuthCandidate) (*charge.ProviderResponse, error),
) (*charge.ProviderResponse, credential.AuthCandidate, error) {
	var lastResp *charge.ProviderResponse
	var lastAuth credential.AuthCandidate

	for _, auth := range candidates {
		resp, err := call(ctx, auth)
		if err != nil {
			s.logger.Warn(ctx, "Provider call failed, trying next credential", map[string]interface{}{
				"step":        step.String(),
				"auth_scheme": auth.Scheme().String(),
				"error":       err.Error(),
			})
			s.recordAttempt(ctx, orderID, chargeID, step, auth, 0, attempt.OutcomeUnreachable)
			continue
		}

		if resp.AuthRejected() {
			s.logger.Warn(ctx, "Provider rejected credential, trying next", map[string]interface{}{
				"step":        step.String(),
				"auth_scheme": auth.Scheme().String(),
				"status":      resp.StatusCode,
			})
			s.recordAttempt(ctx, orderID, chargeID, step, auth, resp.StatusCode, attempt.OutcomeAuthRejected)
			lastResp = resp
			lastAuth = auth
			continue
		}

		outcome := attempt.OutcomeRejected
		if resp.OK() {
			outcome = attempt.OutcomeSucceeded
		}
		s.recordAttempt(ctx, orderID, chargeID, step, auth, resp.StatusCode, outcome)
		return resp, auth, nil
	}

	if lastResp != nil {
		return lastResp, lastAuth, nil
	}

	return nil, credential.AuthCandidate{}, charge.ErrProviderUnreachable
}

// recordAttempt 監査記録をベストエフォートで保存する
// 保存失敗は決済処理の結果に影響させない
func (s *ChargeApplicationService) recordAttempt(
	ctx context.Context,
	orderID string,
	chargeID string,
	step attempt.Step,
	auth credential.AuthCandidate,
	httpStatus int,
	outcome attempt.Outcome,
) {
	if s.attemptRepo == nil {
		return
	}

	a := attempt.NewAttempt(orderID, chargeID, step, auth.Scheme().String(), httpStatus, outcome)
	if err := s.attemptRepo.Save(ctx, a); err != nil {
		s.logger.Warn(ctx, "Failed to save payment attempt", map[string]interface{}{
			"order_id": charge.TruncateOrderID(orderID),
			"step":     step.String(),
			"error":    err.Error(),
		})
	}
}
