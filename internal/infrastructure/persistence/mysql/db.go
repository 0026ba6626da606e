package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"storefront-server/internal/infrastructure/config"

	_ "github.com/go-sql-driver/mysql"
)

const startupTimeout = 5 * time.Second

// DB 監査ストア用のデータベース接続を提供
type DB struct {
	*sql.DB
}

// NewDB 新しいデータベース接続を作成
//
// 監査ストアは追記専用の単一テーブルのため、起動時にスキーマも用意する
func NewDB(cfg *config.DatabaseConfig) (*DB, error) {
	db, err := sql.Open("mysql", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// 接続プールの設定
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	wrapped := &DB{DB: db}
	if err := wrapped.ensureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}

	return wrapped, nil
}

// ensureSchema 監査テーブルを用意する
func (db *DB) ensureSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS payment_attempts (
			attempt_id  CHAR(36)     NOT NULL,
			order_id    VARCHAR(191) NOT NULL,
			charge_id   VARCHAR(191) NOT NULL DEFAULT '',
			step        VARCHAR(16)  NOT NULL,
			auth_scheme VARCHAR(32)  NOT NULL,
			http_status INT          NOT NULL DEFAULT 0,
			outcome     VARCHAR(16)  NOT NULL,
			created_at  DATETIME(6)  NOT NULL,
			PRIMARY KEY (attempt_id),
			KEY idx_payment_attempts_order (order_id, created_at)
		)
	`

	if _, err := db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to ensure payment_attempts schema: %w", err)
	}

	return nil
}

// Close データベース接続を閉じる
func (db *DB) Close() error {
	return db.DB.Close()
}

// HealthCheck データベースのヘルスチェックを実行
func (db *DB) HealthCheck() error {
	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	return db.PingContext(ctx)
}
