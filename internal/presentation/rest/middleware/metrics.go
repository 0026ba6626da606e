package middleware

import (
	"time"

	"github.com/labstack/echo/v4"

	otelinfra "storefront-server/internal/infrastructure/observability/otel"
)

// MetricsMiddleware メトリクス記録ミドルウェア
func MetricsMiddleware(metrics *otelinfra.Metrics) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			// 死活監視系のノイズは記録しない
			if isProbePath(c.Path()) {
				return next(c)
			}

			start := time.Now()

			// リクエスト数を記録
			metrics.RecordRequest(c.Request().Context(), c.Request().Method, c.Path())

			err := next(c)

			// レスポンス時間を記録（秒単位）
			duration := time.Since(start).Seconds()
			metrics.RecordResponseTime(c.Request().Context(), c.Request().Method, c.Path(), duration)

			// エラーハンドリングミドルウェアがエラーを応答に変換した後でも
			// 拾えるよう、戻り値ではなくステータスコードで判定する
			statusCode := c.Response().Status
			if statusCode >= 400 {
				errorType := "client_error"
				if statusCode >= 500 {
					errorType = "server_error"
				}
				metrics.RecordError(c.Request().Context(), errorType)
			}

			return err
		}
	}
}

// isProbePath 死活監視用のパスかどうかを判定
func isProbePath(path string) bool {
	return path == "/health" || path == "/api/v1/ping"
}
