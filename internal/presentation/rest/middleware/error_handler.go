package middleware

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	diagnosticapp "storefront-server/internal/application/diagnostic"
	"storefront-server/internal/domain/attempt"
	"storefront-server/internal/domain/charge"
	"storefront-server/internal/domain/checkout"
	"storefront-server/internal/domain/credential"
	otelinfra "storefront-server/internal/infrastructure/observability/otel"
)

// ErrorResponse エラーレスポンス
type ErrorResponse struct {
	OK      bool   `json:"ok"`
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

// ErrorHandlerMiddleware エラーハンドリングミドルウェア
func ErrorHandlerMiddleware(logger *otelinfra.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)
			if err == nil {
				return nil
			}

			// エラーハンドリング
			return handleError(c, err, logger)
		}
	}
}

// handleError エラーを処理して適切なHTTPレスポンスを返す
func handleError(c echo.Context, err error, logger *otelinfra.Logger) error {
	ctx := c.Request().Context()

	// クライアント入力エラー（400）
	for domainErr, code := range map[error]string{
		charge.ErrMissingCheckoutToken: "missing_checkout_token",
		charge.ErrMissingOrderID:       "missing_order_id",
		charge.ErrAmountRequired:       "amount_required",
		charge.ErrAmountNotPositive:    "invalid_amount",
		checkout.ErrEmptyCart:          "items_required",
	} {
		if errors.Is(err, domainErr) {
			logger.Warn(ctx, "Invalid request", map[string]interface{}{
				"error": err.Error(),
			})
			return c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   code,
				Message: err.Error(),
			})
		}
	}

	// 設定エラー（500）: 偽の認証情報で続行せず必ず失敗させる
	if errors.Is(err, credential.ErrNoAuthCandidates) {
		logger.Error(ctx, "Financing credentials missing", err, nil)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "missing_financing_keys",
			Message: err.Error(),
		})
	}

	if errors.Is(err, checkout.ErrCardNotConfigured) {
		logger.Error(ctx, "Card checkout not configured", err, nil)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "card_not_configured",
			Message: err.Error(),
		})
	}

	// 全認証候補でトランスポート失敗（500）
	if errors.Is(err, charge.ErrProviderUnreachable) {
		logger.Error(ctx, "Financing provider unreachable", err, nil)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "provider_unreachable",
			Message: err.Error(),
		})
	}

	// 診断シークレット不一致（403）
	if errors.Is(err, diagnosticapp.ErrForbidden) {
		logger.Warn(ctx, "Diagnostic access forbidden", nil)
		return c.JSON(http.StatusForbidden, ErrorResponse{
			Error: "diag_forbidden",
		})
	}

	if errors.Is(err, attempt.ErrAttemptNotFound) {
		logger.Warn(ctx, "Attempt not found", map[string]interface{}{
			"error": err.Error(),
		})
		return c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "attempt_not_found",
			Message: err.Error(),
		})
	}

	// カードプロバイダーのセッション作成エラー（500）
	var sessionErr *checkout.SessionError
	if errors.As(err, &sessionErr) {
		logger.Error(ctx, "Checkout session error", err, map[string]interface{}{
			"code": sessionErr.Code,
		})
		return c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: sessionErr.Message,
			Code:  sessionErr.Code,
		})
	}

	// EchoのHTTPエラー
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		logger.Warn(ctx, "HTTP error", map[string]interface{}{
			"status_code": httpErr.Code,
			"message":     httpErr.Message,
		})
		message := ""
		if msg, ok := httpErr.Message.(string); ok {
			message = msg
		} else {
			message = http.StatusText(httpErr.Code)
		}
		return c.JSON(httpErr.Code, ErrorResponse{
			Error:   http.StatusText(httpErr.Code),
			Message: message,
		})
	}

	// 予期しないエラー
	logger.Error(ctx, "Internal server error", err, map[string]interface{}{
		"path": c.Request().URL.Path,
	})
	return c.JSON(http.StatusInternalServerError, ErrorResponse{
		Error:   "server_error",
		Message: "An unexpected error occurred",
	})
}
