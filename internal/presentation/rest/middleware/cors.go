package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"storefront-server/internal/infrastructure/config"
)

const (
	corsAllowMethods = "GET, POST, OPTIONS"
	corsAllowHeaders = "Content-Type, Authorization, x-diag-secret"
)

// CORSMiddleware オリジン許可リストに基づくCORSミドルウェア
//
// 許可リストが未設定の場合はワイルドカードを返す（意図的なデフォルトオープン）。
// 設定済みの場合、リストにあるオリジンはそのまま反映し、それ以外は
// リスト先頭のオリジンを返す。プリフライトは空ボディの200で応答する
func CORSMiddleware(cfg *config.CORSConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			origin := c.Request().Header.Get(echo.HeaderOrigin)

			h := c.Response().Header()
			h.Set("Access-Control-Allow-Origin", resolveAllowOrigin(cfg.AllowedOrigins, origin))
			h.Set("Access-Control-Allow-Methods", corsAllowMethods)
			h.Set("Access-Control-Allow-Headers", corsAllowHeaders)
			if len(cfg.AllowedOrigins) > 0 {
				h.Set("Vary", "Origin")
			}

			if c.Request().Method == http.MethodOptions {
				return c.NoContent(http.StatusOK)
			}

			return next(c)
		}
	}
}

// resolveAllowOrigin 応答に設定するAllow-Originを解決する
func resolveAllowOrigin(allowed []string, origin string) string {
	if len(allowed) == 0 {
		return "*"
	}
	for _, a := range allowed {
		if a == origin {
			return origin
		}
	}
	return allowed[0]
}
