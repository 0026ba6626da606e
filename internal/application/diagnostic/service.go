package diagnostic

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"storefront-server/internal/domain/charge"
	"storefront-server/internal/domain/credential"
	"storefront-server/internal/infrastructure/config"
	otelinfra "storefront-server/internal/infrastructure/observability/otel"
)

// 意図的に無効なトークン。プロバイダーが400/422で拒否すれば
// 認証情報とベースURLが正しいと判断できる
const fakeCheckoutToken = "diag_fake_checkout_token_000"

// ErrForbidden 診断用シークレットが不一致
var ErrForbidden = errors.New("diag_forbidden")

// DiagnosticApplicationService 設定・疎通診断サービス
type DiagnosticApplicationService struct {
	gateway charge.Gateway
	cfg     *config.Config
	logger  *otelinfra.Logger
	tracer  trace.Tracer
}

// NewDiagnosticApplicationService 新しいDiagnosticApplicationServiceを作成
func NewDiagnosticApplicationService(
	gateway charge.Gateway,
	cfg *config.Config,
	logger *otelinfra.Logger,
) *DiagnosticApplicationService {
	return &DiagnosticApplicationService{
		gateway: gateway,
		cfg:     cfg,
		logger:  logger,
		tracer:  otel.Tracer("diagnostic-service"),
	}
}

// GetLocalDiagnostics 設定の有無のみを報告する（ネットワーク呼び出しなし）
func (s *DiagnosticApplicationService) GetLocalDiagnostics(ctx context.Context) *LocalDiagnostics {
	candidates := credential.Resolve(s.cfg.Financing.PublicKey, s.cfg.Financing.PrivateKey)

	return &LocalDiagnostics{
		EnvRaw:  s.cfg.Financing.EnvRaw,
		IsProd:  s.cfg.Financing.Production,
		BaseURL: s.cfg.Financing.BaseURL,
		Flags: DiagnosticFlags{
			HasPublicKey:      s.cfg.Financing.PublicKey != "",
			HasPrivateKey:     s.cfg.Financing.PrivateKey != "",
			HasAllowedOrigins: len(s.cfg.CORS.AllowedOrigins) > 0,
			HasDiagSecret:     s.cfg.Diagnostics.Secret != "",
		},
		Schemes: credential.SchemeNames(candidates),
	}
}

// RunRemoteProbe 無効なトークンで1回だけプロバイダーを呼び出し、認証情報を検証する
//
// シークレットが設定されている場合はprovidedSecretの一致を要求する。
// トランスポート失敗はエラーにせず、Fetched=falseの結果として返す
func (s *DiagnosticApplicationService) RunRemoteProbe(ctx context.Context, providedSecret string) (*RemoteDiagnostics, error) {
	ctx, span := s.tracer.Start(ctx, "DiagnosticApplicationService.RunRemoteProbe")
	defer span.End()

	if s.cfg.Diagnostics.Secret != "" {
		if subtle.ConstantTimeCompare([]byte(providedSecret), []byte(s.cfg.Diagnostics.Secret)) != 1 {
			span.SetStatus(otelcodes.Error, ErrForbidden.Error())
			s.logger.Warn(ctx, "Remote diagnostics denied: secret mismatch", nil)
			return nil, ErrForbidden
		}
	}

	candidates := credential.Resolve(s.cfg.Financing.PublicKey, s.cfg.Financing.PrivateKey)
	if len(candidates) == 0 {
		err := credential.ErrNoAuthCandidates
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, err
	}

	resp, err := s.gateway.CreateCharge(ctx, candidates[0], fakeCheckoutToken)
	if err != nil {
		// 疎通確認の失敗は診断結果であってエラーではない
		s.logger.Warn(ctx, "Remote diagnostics: provider unreachable", map[string]interface{}{
			"error": err.Error(),
		})
		return &RemoteDiagnostics{Pass: false, Fetched: false}, nil
	}

	pass := resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnprocessableEntity
	span.SetAttributes(
		attribute.Int("provider_status", resp.StatusCode),
		attribute.Bool("pass", pass),
	)

	s.logger.Info(ctx, "Remote diagnostics completed", map[string]interface{}{
		"status": resp.StatusCode,
		"pass":   pass,
	})

	return &RemoteDiagnostics{
		Pass:       pass,
		Fetched:    true,
		HTTPStatus: resp.StatusCode,
		Body:       resp.Body,
	}, nil
}
