package charge

import "errors"

var (
	// ErrMissingCheckoutToken checkout_tokenが未指定
	ErrMissingCheckoutToken = errors.New("missing checkout_token")

	// ErrMissingOrderID order_idが未指定
	ErrMissingOrderID = errors.New("missing order_id")

	// ErrAmountRequired キャプチャー時に金額が未指定または数値でない
	ErrAmountRequired = errors.New("amount_cents (number) or amount (number) required for capture=true")

	// ErrAmountNotPositive 金額が0以下
	ErrAmountNotPositive = errors.New("amount must be > 0")

	// ErrProviderUnreachable 全候補でトランスポートレベルの失敗
	ErrProviderUnreachable = errors.New("financing provider unreachable")
)
