package handler

import "encoding/json"

// ChargeSuccessResponse 与信・キャプチャー成功レスポンス
// @Description 与信・キャプチャー成功レスポンス
type ChargeSuccessResponse struct {
	OK      bool            `json:"ok" example:"true"`
	Charge  json.RawMessage `json:"charge" swaggertype:"object"`
	Capture json.RawMessage `json:"capture" swaggertype:"object"` // capture=false時はnull
}

// ChargeFailureResponse プロバイダー拒否時のレスポンス
// @Description プロバイダー拒否時のレスポンス（プロバイダーのステータスコードで返す）
type ChargeFailureResponse struct {
	OK    bool            `json:"ok" example:"false"`
	Step  string          `json:"step" example:"charges"`
	Error json.RawMessage `json:"error" swaggertype:"object"`
}

// LocalDiagResponse ローカル診断レスポンス
// @Description ローカル診断レスポンス
type LocalDiagResponse struct {
	OK   bool        `json:"ok" example:"true"`
	Diag interface{} `json:"diag"`
}

// RemoteDiagResult リモート診断の結果
// @Description リモート診断の結果。statusは数値またはfetch_failed
type RemoteDiagResult struct {
	Status interface{}     `json:"status"`
	Pass   bool            `json:"pass"`
	Body   json.RawMessage `json:"body,omitempty" swaggertype:"object"`
}

// RemoteDiagResponse リモート診断レスポンス
// @Description リモート診断レスポンス
type RemoteDiagResponse struct {
	OK     bool             `json:"ok" example:"true"`
	Remote RemoteDiagResult `json:"remote"`
}
