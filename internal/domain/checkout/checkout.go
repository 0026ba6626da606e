package checkout

import (
	"context"
	"fmt"
	"math"
	"strings"
)

// 単価の下限（マイナー単位）。カードプロバイダーの最低決済額を下回らないための安全値
const minUnitAmount = 50

// 表示名の最大長
const maxNameLength = 120

// CartItem クライアントから渡されるカートの明細
type CartItem struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"` // メジャー単位（ドル）
	Qty   int64   `json:"qty"`
}

// LineItem 正規化済みの明細
type LineItem struct {
	Name       string
	UnitAmount int64 // マイナー単位、minUnitAmount以上
	Quantity   int64 // 1以上
	Currency   string
}

// SessionRequest ホスト型チェックアウトセッションの構築入力
type SessionRequest struct {
	LineItems     []LineItem
	CustomerEmail string // 空の場合は未指定
	SuccessURL    string
	CancelURL     string
}

// SessionError プロバイダー側のセッション作成エラー
type SessionError struct {
	Message string
	Code    string
}

// Error エラーメッセージを返す
func (e *SessionError) Error() string {
	return e.Message
}

// Gateway ホスト型チェックアウトのプロバイダーゲートウェイ
type Gateway interface {
	// CreateSession セッションを作成しリダイレクトURLを返す
	CreateSession(ctx context.Context, req *SessionRequest) (string, error)
}

// NormalizeLineItems カート明細を安全な値域に正規化する
//
// 名前は未指定なら「Item N」、最大120文字に切り詰める。単価は×100で
// マイナー単位化して下限50にクランプ、数量は下限1にクランプする。
func NormalizeLineItems(items []CartItem) ([]LineItem, error) {
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	out := make([]LineItem, len(items))
	for i, it := range items {
		name := strings.TrimSpace(it.Name)
		if name == "" {
			name = fmt.Sprintf("Item %d", i+1)
		}
		if len(name) > maxNameLength {
			name = name[:maxNameLength]
		}

		raw := math.Round(it.Price * 100)
		unitAmount := int64(raw)
		if math.IsNaN(raw) || math.IsInf(raw, 0) || unitAmount < minUnitAmount {
			unitAmount = minUnitAmount
		}

		qty := it.Qty
		if qty < 1 {
			qty = 1
		}

		out[i] = LineItem{
			Name:       name,
			UnitAmount: unitAmount,
			Quantity:   qty,
			Currency:   "usd",
		}
	}
	return out, nil
}

// ResolveOrigin リダイレクト先オリジンを解決する
// httpで始まらない値はフォールバックに置き換える
func ResolveOrigin(origin, fallback string) string {
	if strings.HasPrefix(origin, "http") {
		return origin
	}
	return fallback
}

// ResolveCustomerEmail メールアドレスらしい値のみ通す
func ResolveCustomerEmail(email string) string {
	if strings.Contains(email, "@") {
		return email
	}
	return ""
}

// BuildSessionRequest 正規化済みのセッションリクエストを構築する
func BuildSessionRequest(items []CartItem, origin, fallbackOrigin, customerEmail string) (*SessionRequest, error) {
	lineItems, err := NormalizeLineItems(items)
	if err != nil {
		return nil, err
	}

	resolvedOrigin := ResolveOrigin(origin, fallbackOrigin)

	return &SessionRequest{
		LineItems:     lineItems,
		CustomerEmail: ResolveCustomerEmail(customerEmail),
		SuccessURL:    resolvedOrigin + "/?card=success",
		CancelURL:     resolvedOrigin + "/?card=cancel",
	}, nil
}
