package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// プロバイダーAPIのベースURL（prod / sandbox）
const (
	financingProdBaseURL    = "https://api.affirm.com/api/v2"
	financingSandboxBaseURL = "https://api.sandbox.affirm.com/api/v2"
)

// Config アプリケーション全体の設定
type Config struct {
	Server      ServerConfig
	Financing   FinancingConfig
	Card        CardConfig
	CORS        CORSConfig
	Diagnostics DiagnosticsConfig
	Audit       AuditConfig
	Database    DatabaseConfig
	JWT         JWTConfig

	OpenTelemetry OpenTelemetryConfig
	Environment   string
}

// ServerConfig サーバー設定
type ServerConfig struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// FinancingConfig 後払い（BNPL）プロバイダーの設定
type FinancingConfig struct {
	EnvRaw     string // FINANCING_ENVの生の値
	Production bool
	BaseURL    string // 常に /api/v2 で終わる形に正規化される
	PublicKey  string
	PrivateKey string
	Timeout    time.Duration
}

// CardConfig カード決済（ホスト型チェックアウト）の設定
type CardConfig struct {
	SecretKey      string
	FallbackOrigin string // origin未指定・不正時のリダイレクト先
}

// CORSConfig オリジン許可リストの設定
type CORSConfig struct {
	// 空の場合はワイルドカード（意図的なデフォルトオープン）
	AllowedOrigins []string
}

// DiagnosticsConfig 診断エンドポイントの設定
type DiagnosticsConfig struct {
	// 設定されている場合、remote診断はx-diag-secretヘッダーの一致を要求する
	Secret string
}

// AuditConfig 決済試行の監査ログ設定
type AuditConfig struct {
	Enabled bool
}

// DatabaseConfig データベース設定
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Database        string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// JWTConfig JWT設定（照合用エンドポイントの認証）
type JWTConfig struct {
	Secret string
	Issuer string
}

// OpenTelemetryConfig OpenTelemetry設定
type OpenTelemetryConfig struct {
	Enabled         bool
	ServiceName     string
	ServiceVersion  string
	OTLPEndpoint    string
	OTLPInsecure    bool
	TraceExporter   string // "otlp", "stdout"
	MetricsExporter string // "otlp", "stdout"

	// 決済トラフィックのサンプリング率（0.0〜1.0）
	TraceSampleRatio float64
}

// Load 設定を読み込む
func Load() (*Config, error) {
	// .envファイルを読み込む（存在しない場合は無視）
	_ = godotenv.Load()

	env := getEnv("ENVIRONMENT", "development")

	financingEnv := strings.ToLower(getEnv("FINANCING_ENV", ""))
	isProd := financingEnv == "prod" || financingEnv == "production"

	defaultBase := financingSandboxBaseURL
	if isProd {
		defaultBase = financingProdBaseURL
	}

	cfg := &Config{
		Environment: env,
		Server: ServerConfig{
			Port:         getEnvAsInt("SERVER_PORT", 8080),
			ReadTimeout:  getEnvAsDuration("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout: getEnvAsDuration("SERVER_WRITE_TIMEOUT", 15*time.Second),
			IdleTimeout:  getEnvAsDuration("SERVER_IDLE_TIMEOUT", 60*time.Second),
		},
		Financing: FinancingConfig{
			EnvRaw:     financingEnv,
			Production: isProd,
			BaseURL:    normalizeFinancingBaseURL(getEnv("FINANCING_BASE_URL", defaultBase)),
			PublicKey:  firstEnv("FINANCING_PUBLIC_API_KEY", "FINANCING_PUBLIC_KEY"),
			PrivateKey: firstEnv("FINANCING_PRIVATE_API_KEY", "FINANCING_PRIVATE_KEY"),
			Timeout:    getEnvAsDuration("FINANCING_TIMEOUT", 30*time.Second),
		},
		Card: CardConfig{
			SecretKey:      getEnv("STRIPE_SECRET_KEY", ""),
			FallbackOrigin: getEnv("CARD_FALLBACK_ORIGIN", "https://ebabselectronic.com"),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitAndTrim(getEnv("ALLOWED_ORIGINS", "")),
		},
		Diagnostics: DiagnosticsConfig{
			Secret: getEnv("DIAG_SECRET", ""),
		},
		Audit: AuditConfig{
			Enabled: getEnvAsBool("AUDIT_ENABLED", false),
		},
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnvAsInt("DB_PORT", 3306),
			User:            getEnv("DB_USER", "root"),
			Password:        getEnv("DB_PASSWORD", ""),
			Database:        getEnv("DB_NAME", "storefront_db"),
			MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
			ConnMaxIdleTime: getEnvAsDuration("DB_CONN_MAX_IDLE_TIME", 10*time.Minute),
		},
		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", ""),
			Issuer: getEnv("JWT_ISSUER", "storefront-server"),
		},
		OpenTelemetry: OpenTelemetryConfig{
			Enabled:         getEnvAsBool("OTEL_ENABLED", true),
			ServiceName:     getEnv("OTEL_SERVICE_NAME", "storefront-server"),
			ServiceVersion:  getEnv("OTEL_SERVICE_VERSION", "1.0.0"),
			OTLPEndpoint:    getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "http://localhost:4318"),
			OTLPInsecure:    getEnvAsBool("OTEL_EXPORTER_OTLP_INSECURE", true),
			TraceExporter:   getEnv("OTEL_TRACES_EXPORTER", "otlp"),
			MetricsExporter: getEnv("OTEL_METRICS_EXPORTER", "otlp"),

			TraceSampleRatio: getEnvAsFloat("OTEL_TRACES_SAMPLER_RATIO", 1.0),
		},
	}

	// 必須設定の検証
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate 設定の検証
//
// プロバイダーキーは起動時の必須項目にしない。キー欠如はリクエスト処理時に
// 設定エラー（500系）として返す契約のため、ここで落とすと診断エンドポイント
// まで使えなくなる。
func (c *Config) validate() error {
	if c.Financing.BaseURL == "" {
		return fmt.Errorf("FINANCING_BASE_URL must not be empty")
	}
	if c.Audit.Enabled {
		if c.Database.Host == "" {
			return fmt.Errorf("DB_HOST is required when AUDIT_ENABLED=true")
		}
		if c.Database.Database == "" {
			return fmt.Errorf("DB_NAME is required when AUDIT_ENABLED=true")
		}
	}
	return nil
}

// DSN データベース接続文字列を返す
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		c.User,
		c.Password,
		c.Host,
		c.Port,
		c.Database,
	)
}

// normalizeFinancingBaseURL ベースURLを正規化する
// 末尾スラッシュを除去し、/api/v2 で終わらない場合は付与する
func normalizeFinancingBaseURL(raw string) string {
	base := strings.TrimRight(strings.TrimSpace(raw), "/")
	if base == "" {
		return base
	}
	if !strings.HasSuffix(base, "/api/v2") {
		base += "/api/v2"
	}
	return base
}

// firstEnv 複数の環境変数名のうち最初に値が設定されているものを返す
func firstEnv(keys ...string) string {
	for _, key := range keys {
		if value := strings.TrimSpace(os.Getenv(key)); value != "" {
			return value
		}
	}
	return ""
}

// splitAndTrim カンマ区切りの文字列を分割して空要素を除去する
func splitAndTrim(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// getEnv 環境変数を取得（デフォルト値付き）
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt 環境変数を整数として取得
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsFloat 環境変数を浮動小数点数として取得
func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsBool 環境変数を真偽値として取得
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsDuration 環境変数を時間として取得
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
