package charge

import (
	"math"
	"strings"
	"time"
)

// ChargeRequest チャージ作成・キャプチャーの検証済みリクエスト
// 1リクエストにつき1チャージのみ作成される
type ChargeRequest struct {
	checkoutToken        string
	orderID              string
	capture              bool
	amount               int64 // マイナー通貨単位（セント）。capture=falseの場合は0
	currency             string
	shippingCarrier      string
	shippingConfirmation string
	createdAt            time.Time
}

// ChargeRequestParams ChargeRequest構築の入力
// Amount系はJSONの数値をそのまま受けるためポインタで未指定を表す
type ChargeRequestParams struct {
	CheckoutToken        string
	OrderID              string
	Capture              *bool    // 未指定はtrue
	AmountCents          *float64 // マイナー単位
	Amount               *float64 // メジャー単位（後方互換、×100で換算）
	Currency             string
	ShippingCarrier      string
	ShippingConfirmation string
}

// NewChargeRequest 入力を検証してChargeRequestを構築する
func NewChargeRequest(p ChargeRequestParams) (*ChargeRequest, error) {
	token := strings.TrimSpace(p.CheckoutToken)
	if token == "" {
		return nil, ErrMissingCheckoutToken
	}

	orderID := strings.TrimSpace(p.OrderID)
	if orderID == "" {
		return nil, ErrMissingOrderID
	}

	// キャプチャーは明示的にfalseを渡さない限り行う
	capture := true
	if p.Capture != nil {
		capture = *p.Capture
	}

	var amount int64
	if capture {
		resolved, err := resolveCaptureAmount(p.AmountCents, p.Amount)
		if err != nil {
			return nil, err
		}
		amount = resolved
	}

	currency := strings.ToUpper(strings.TrimSpace(p.Currency))
	if currency == "" {
		currency = "USD"
	}

	return &ChargeRequest{
		checkoutToken:        token,
		orderID:              orderID,
		capture:              capture,
		amount:               amount,
		currency:             currency,
		shippingCarrier:      p.ShippingCarrier,
		shippingConfirmation: p.ShippingConfirmation,
		createdAt:            time.Now(),
	}, nil
}

// resolveCaptureAmount キャプチャー金額をマイナー単位に解決する
//
// amount_cents（マイナー単位）を優先し、なければamount（メジャー単位の小数）を
// 100倍して換算する。どちらも最近接整数に丸める。
func resolveCaptureAmount(amountCents, amount *float64) (int64, error) {
	var raw float64
	switch {
	case amountCents != nil:
		raw = *amountCents
	case amount != nil:
		raw = *amount * 100
	default:
		return 0, ErrAmountRequired
	}

	if math.IsNaN(raw) || math.IsInf(raw, 0) {
		return 0, ErrAmountRequired
	}

	resolved := int64(math.Round(raw))
	if resolved <= 0 {
		return 0, ErrAmountNotPositive
	}
	return resolved, nil
}

// CheckoutToken チェックアウトトークンを返す
func (r *ChargeRequest) CheckoutToken() string {
	return r.checkoutToken
}

// OrderID 注文IDを返す
func (r *ChargeRequest) OrderID() string {
	return r.orderID
}

// Capture キャプチャーを行うかどうかを返す
func (r *ChargeRequest) Capture() bool {
	return r.capture
}

// Amount キャプチャー金額（マイナー単位）を返す
func (r *ChargeRequest) Amount() int64 {
	return r.amount
}

// Currency 通貨コードを返す
func (r *ChargeRequest) Currency() string {
	return r.currency
}

// ShippingCarrier 配送業者を返す
func (r *ChargeRequest) ShippingCarrier() string {
	return r.shippingCarrier
}

// ShippingConfirmation 配送確認番号を返す
func (r *ChargeRequest) ShippingConfirmation() string {
	return r.shippingConfirmation
}

// CreatedAt 作成日時を返す
func (r *ChargeRequest) CreatedAt() time.Time {
	return r.createdAt
}

// TruncatedOrderID ログ用に短縮した注文IDを返す
func (r *ChargeRequest) TruncatedOrderID() string {
	return TruncateOrderID(r.orderID)
}

// TruncateOrderID 注文IDをログ出力向けに短縮する
func TruncateOrderID(orderID string) string {
	const max = 16
	if len(orderID) <= max {
		return orderID
	}
	return orderID[:max] + "..."
}
