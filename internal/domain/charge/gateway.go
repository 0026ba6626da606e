package charge

import (
	"context"
	"encoding/json"
	"net/http"

	"storefront-server/internal/domain/credential"
)

// Gateway 後払いプロバイダーへのゲートウェイ
//
// トランスポートレベルの失敗のみerrorで返す。プロバイダーがHTTPステータスを
// 返した場合は（4xx/5xxを含めて）ProviderResponseとして返す。
type Gateway interface {
	// CreateCharge checkout_tokenからチャージ（与信）を作成する
	CreateCharge(ctx context.Context, auth credential.AuthCandidate, checkoutToken string) (*ProviderResponse, error)

	// CaptureCharge 作成済みチャージをキャプチャー（売上確定）する
	CaptureCharge(ctx context.Context, auth credential.AuthCandidate, chargeID string, req *CaptureRequest) (*ProviderResponse, error)
}

// CaptureRequest キャプチャーAPIへのリクエスト
type CaptureRequest struct {
	OrderID              string `json:"order_id"`
	Amount               int64  `json:"amount"` // マイナー単位
	Currency             string `json:"currency"`
	ShippingCarrier      string `json:"shipping_carrier,omitempty"`
	ShippingConfirmation string `json:"shipping_confirmation,omitempty"`
}

// ProviderResponse プロバイダーからのHTTP応答
// ボディはスキーマを固定せず生のまま保持する（呼び出し元へそのまま返す契約）
type ProviderResponse struct {
	StatusCode int
	Body       json.RawMessage
}

// OK 2xx応答かどうかを返す
func (r *ProviderResponse) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// AuthRejected 認証拒否（401/403）かどうかを返す
// これらのみ次の認証候補へのフォールバック対象となる
func (r *ProviderResponse) AuthRejected() bool {
	return r.StatusCode == http.StatusUnauthorized || r.StatusCode == http.StatusForbidden
}

// Charge プロバイダーのチャージ応答から参照するフィールド
// idとstatusのみを見る。全スキーマはモデル化しない
type Charge struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// DecodeCharge 応答ボディからチャージのid/statusを取り出す
func DecodeCharge(body json.RawMessage) Charge {
	var c Charge
	// idが取れない場合も呼び出し元でハンドリングするためエラーは握る
	_ = json.Unmarshal(body, &c)
	return c
}
