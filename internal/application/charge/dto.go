package charge

import (
	"encoding/json"

	"storefront-server/internal/domain/charge"
)

// AuthorizeChargeRequest 与信リクエスト
type AuthorizeChargeRequest struct {
	CheckoutToken        string
	OrderID              string
	Capture              *bool
	AmountCents          *float64
	Amount               *float64
	Currency             string
	ShippingCarrier      string
	ShippingConfirmation string
}

// AuthorizeChargeResponse 与信・キャプチャーの結果
//
// OKがfalseの場合、Stepは失敗したステップ（"charges" / "capture"）を示し、
// ErrorBodyにはプロバイダーのレスポンスボディがそのまま入る
type AuthorizeChargeResponse struct {
	OK             bool
	Step           string
	ChargeID       string
	AuthScheme     string
	ProviderStatus int
	ChargeBody     json.RawMessage
	CaptureBody    json.RawMessage
	ErrorBody      json.RawMessage
}

func (r *AuthorizeChargeRequest) toParams() charge.ChargeRequestParams {
	return charge.ChargeRequestParams{
		CheckoutToken:        r.CheckoutToken,
		OrderID:              r.OrderID,
		Capture:              r.Capture,
		AmountCents:          r.AmountCents,
		Amount:               r.Amount,
		Currency:             r.Currency,
		ShippingCarrier:      r.ShippingCarrier,
		ShippingConfirmation: r.ShippingConfirmation,
	}
}
