package rest

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	chargeapp "storefront-server/internal/application/charge"
	checkoutapp "storefront-server/internal/application/checkout"
	diagnosticapp "storefront-server/internal/application/diagnostic"
	historyapp "storefront-server/internal/application/history"
	"storefront-server/internal/infrastructure/config"
	otelinfra "storefront-server/internal/infrastructure/observability/otel"
	"storefront-server/internal/presentation/rest/handler"
	restmiddleware "storefront-server/internal/presentation/rest/middleware"
)

// Router REST APIルーター
type Router struct {
	echo                *echo.Echo
	chargeHandler       *handler.ChargeHandler
	cardCheckoutHandler *handler.CardCheckoutHandler
	historyHandler      *handler.HistoryHandler
}

// NewRouter 新しいRouterを作成
//
// historyServiceは監査ストアが有効な場合のみ渡される。nilの場合、
// 照合用エンドポイントは登録されない
func NewRouter(
	cfg *config.Config,
	logger *otelinfra.Logger,
	metrics *otelinfra.Metrics,
	chargeService *chargeapp.ChargeApplicationService,
	checkoutService *checkoutapp.CheckoutApplicationService,
	diagnosticService *diagnosticapp.DiagnosticApplicationService,
	historyService *historyapp.HistoryApplicationService,
) (*Router, error) {
	e := echo.New()

	// エラーはエラーハンドリングミドルウェアで応答に変換される。
	// ここに到達するのは応答書き込み自体の失敗などに限られるため、
	// 握りつぶさずログに残す
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		if err == nil {
			return
		}
		logger.Error(c.Request().Context(), "Error escaped the error handling middleware", err, map[string]interface{}{
			"method": c.Request().Method,
			"path":   c.Request().URL.Path,
		})
	}

	// ミドルウェアの設定
	setupMiddleware(e, cfg, logger, metrics)

	// ハンドラーの作成
	chargeHandler := handler.NewChargeHandler(chargeService, diagnosticService)
	cardCheckoutHandler := handler.NewCardCheckoutHandler(checkoutService)
	var historyHandler *handler.HistoryHandler
	if historyService != nil {
		historyHandler = handler.NewHistoryHandler(historyService)
	}

	// ルーティングの設定
	setupRoutes(e, cfg, logger, chargeHandler, cardCheckoutHandler, historyHandler)

	// Swagger UI / ReDoc統合
	SetupSwagger(e)

	return &Router{
		echo:                e,
		chargeHandler:       chargeHandler,
		cardCheckoutHandler: cardCheckoutHandler,
		historyHandler:      historyHandler,
	}, nil
}

// setupMiddleware ミドルウェアを設定
func setupMiddleware(e *echo.Echo, cfg *config.Config, logger *otelinfra.Logger, metrics *otelinfra.Metrics) {
	// リカバリーミドルウェア
	e.Use(middleware.Recover())

	// CORS設定（許可リスト方式、プリフライトは空ボディの200）
	e.Use(restmiddleware.CORSMiddleware(&cfg.CORS))

	// リクエストIDの設定
	e.Use(middleware.RequestID())

	// トレーシングミドルウェア
	e.Use(restmiddleware.TracingMiddleware())

	// ログミドルウェア
	e.Use(restmiddleware.LoggingMiddleware(logger))

	// メトリクスミドルウェア
	e.Use(restmiddleware.MetricsMiddleware(metrics))

	// セキュリティヘッダー
	e.Use(restmiddleware.SecurityHeadersMiddleware())

	// エラーハンドリングミドルウェア
	e.Use(restmiddleware.ErrorHandlerMiddleware(logger))
}

// setupRoutes ルーティングを設定
func setupRoutes(
	e *echo.Echo,
	cfg *config.Config,
	logger *otelinfra.Logger,
	chargeHandler *handler.ChargeHandler,
	cardCheckoutHandler *handler.CardCheckoutHandler,
	historyHandler *handler.HistoryHandler,
) {
	// API v1グループ
	api := e.Group("/api/v1")

	// 決済エンドポイント（クライアントから直接呼ばれるため認証なし）
	api.POST("/charges", chargeHandler.AuthorizeCharge)
	api.POST("/card-checkout", cardCheckoutHandler.CreateSession)

	// 疎通確認エンドポイント
	api.GET("/ping", func(c echo.Context) error {
		c.Response().Header().Set("Cache-Control", "no-store")
		return c.JSON(200, map[string]interface{}{
			"ok": true,
			"ts": time.Now().UnixMilli(),
		})
	})

	// 照合用エンドポイント（監査ストア有効時のみ、JWT認証必須）
	// 認証ミドルウェアはルート単位で付与する。グループに付けると
	// /api/v1配下の未登録パス・未登録メソッドまで認証が先に走り、
	// 本来の404/405が返らなくなる
	if historyHandler != nil {
		api.GET("/orders/:order_id/attempts", historyHandler.GetAttemptHistory,
			restmiddleware.AuthMiddleware(&cfg.JWT, logger))
	}

	// ヘルスチェックエンドポイント（認証不要）
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok"})
	})
}

// Start サーバーを起動
func (r *Router) Start(address string) error {
	return r.echo.Start(address)
}

// Shutdown サーバーをシャットダウン
func (r *Router) Shutdown() error {
	return r.echo.Close()
}
