package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	chargeapp "storefront-server/internal/application/charge"
	checkoutapp "storefront-server/internal/application/checkout"
	diagnosticapp "storefront-server/internal/application/diagnostic"
	historyapp "storefront-server/internal/application/history"
	"storefront-server/internal/domain/attempt"
	"storefront-server/internal/domain/checkout"
	"storefront-server/internal/infrastructure/affirm"
	"storefront-server/internal/infrastructure/config"
	otelinfra "storefront-server/internal/infrastructure/observability/otel"
	"storefront-server/internal/infrastructure/persistence/mysql"
	"storefront-server/internal/infrastructure/stripe"
	"storefront-server/internal/presentation/rest"
)

func main() {
	// 設定の読み込み
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// OpenTelemetryの初期化
	tracerShutdown, err := otelinfra.InitTracer(&cfg.OpenTelemetry)
	if err != nil {
		log.Fatalf("Failed to initialize tracer: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracerShutdown(ctx); err != nil {
			log.Printf("Failed to shutdown tracer: %v", err)
		}
	}()

	meterShutdown, err := otelinfra.InitMeter(&cfg.OpenTelemetry)
	if err != nil {
		log.Fatalf("Failed to initialize meter: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := meterShutdown(ctx); err != nil {
			log.Printf("Failed to shutdown meter: %v", err)
		}
	}()

	// ロガーとメトリクスの初期化
	tracer := otelinfra.Tracer("storefront-server")
	logger := otelinfra.NewLogger(tracer)
	metrics, err := otelinfra.NewMetrics("storefront-server")
	if err != nil {
		log.Fatalf("Failed to create metrics: %v", err)
	}

	// 監査ストアの初期化（有効時のみ）
	// 監査記録はベストエフォートのため、nilリポジトリのままでも決済は動作する
	var attemptRepo attempt.AttemptRepository
	var historyService *historyapp.HistoryApplicationService
	if cfg.Audit.Enabled {
		db, err := mysql.NewDB(&cfg.Database)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()

		attemptRepo = mysql.NewAttemptRepository(db)
	}

	// 後払いプロバイダーのゲートウェイ
	financingGateway := affirm.NewClient(affirm.ClientConfig{
		BaseURL:    cfg.Financing.BaseURL,
		Production: cfg.Financing.Production,
		Timeout:    cfg.Financing.Timeout,
		Logger:     logger,
		Metrics:    metrics,
	})

	// カード決済のゲートウェイ（シークレットキー未設定時はnilのまま）
	var cardGateway checkout.Gateway
	if c := stripe.NewClient(cfg.Card.SecretKey, logger); c != nil {
		cardGateway = c
	}

	// アプリケーションサービスの初期化
	chargeService := chargeapp.NewChargeApplicationService(
		financingGateway,
		attemptRepo,
		cfg.Financing.PublicKey,
		cfg.Financing.PrivateKey,
		logger,
		metrics,
	)

	checkoutService := checkoutapp.NewCheckoutApplicationService(
		cardGateway,
		cfg.Card.FallbackOrigin,
		logger,
		metrics,
	)

	diagnosticService := diagnosticapp.NewDiagnosticApplicationService(
		financingGateway,
		cfg,
		logger,
	)

	// 照合用エンドポイントは監査ストアとJWTシークレットの両方が揃った場合のみ公開
	if attemptRepo != nil && cfg.JWT.Secret != "" {
		historyService = historyapp.NewHistoryApplicationService(
			attemptRepo,
			logger,
			metrics,
		)
	}

	// REST APIルーターの初期化
	router, err := rest.NewRouter(
		cfg,
		logger,
		metrics,
		chargeService,
		checkoutService,
		diagnosticService,
		historyService,
	)
	if err != nil {
		log.Fatalf("Failed to create router: %v", err)
	}

	// サーバーアドレスの設定
	address := fmt.Sprintf(":%d", cfg.Server.Port)

	// グレースフルシャットダウンの設定
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	// REST APIサーバーを別ゴルーチンで起動
	go func() {
		log.Printf("REST API server starting on %s", address)
		if err := router.Start(address); err != nil {
			log.Printf("REST API server error: %v", err)
		}
	}()

	// シグナルを待機
	<-quit
	log.Println("Shutting down server...")

	// グレースフルシャットダウン
	if err := router.Shutdown(); err != nil {
		log.Printf("Error shutting down REST API server: %v", err)
	}

	log.Println("Server stopped")
}
