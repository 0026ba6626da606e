package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"
)

// SecurityHeadersMiddleware セキュリティヘッダーを設定するミドルウェア
//
// 決済応答はプロバイダーのステータスやエラーボディを含むため、
// /api/v1配下は常にキャッシュ禁止とする
func SecurityHeadersMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			h := c.Response().Header()

			// クリックジャッキング保護
			h.Set("X-Frame-Options", "DENY")

			// MIMEタイプスニッフィング保護
			h.Set("X-Content-Type-Options", "nosniff")

			path := c.Request().URL.Path

			// 決済APIの応答はキャッシュさせない
			if strings.HasPrefix(path, "/api/v1") {
				h.Set("Cache-Control", "no-store")
			}

			// コンテンツセキュリティポリシー
			// ドキュメント系パスのみ外部CDNを許可
			if isDocsPath(path) {
				h.Set("Content-Security-Policy",
					"default-src 'self'; script-src 'self' 'unsafe-inline' https://unpkg.com https://cdn.jsdelivr.net; style-src 'self' 'unsafe-inline' https://unpkg.com https://fonts.googleapis.com; font-src 'self' https://fonts.gstatic.com; img-src 'self' data: https:;")
			} else {
				h.Set("Content-Security-Policy",
					"default-src 'none'; frame-ancestors 'none'")
			}

			// Strict-Transport-Security（HTTPS使用時）
			if c.Scheme() == "https" {
				h.Set("Strict-Transport-Security",
					"max-age=31536000; includeSubDomains")
			}

			h.Set("Referrer-Policy", "strict-origin-when-cross-origin")

			return next(c)
		}
	}
}

// isDocsPath APIドキュメント関連のパスかどうかを判定
func isDocsPath(path string) bool {
	return path == "/redoc" || path == "/openapi.yaml" || strings.HasPrefix(path, "/swagger")
}
