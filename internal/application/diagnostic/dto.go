package diagnostic

import "encoding/json"

// LocalDiagnostics 設定の診断結果（ネットワーク呼び出しなし）
//
// 秘密値そのものは含めない。設定有無のブール値とスキーム名のみ
type LocalDiagnostics struct {
	EnvRaw  string          `json:"env_raw"`
	IsProd  bool            `json:"is_prod"`
	BaseURL string          `json:"base_url"`
	Flags   DiagnosticFlags `json:"flags"`
	Schemes []string        `json:"schemes"`
}

// DiagnosticFlags 任意設定の有無
type DiagnosticFlags struct {
	HasPublicKey      bool `json:"has_public_key"`
	HasPrivateKey     bool `json:"has_private_key"`
	HasAllowedOrigins bool `json:"has_allowed_origins"`
	HasDiagSecret     bool `json:"has_diag_secret"`
}

// RemoteDiagnostics プロバイダーへの疎通・認証チェックの結果
//
// Fetchedがfalseの場合はトランスポートレベルで失敗しており、
// HTTPStatusは意味を持たない
type RemoteDiagnostics struct {
	Pass       bool
	Fetched    bool
	HTTPStatus int
	Body       json.RawMessage
}
