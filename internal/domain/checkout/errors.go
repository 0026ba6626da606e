package checkout

import "errors"

var (
	// ErrEmptyCart 明細が空
	ErrEmptyCart = errors.New("items array required")

	// ErrCardNotConfigured カードプロバイダーのキーが未設定
	ErrCardNotConfigured = errors.New("missing STRIPE_SECRET_KEY env var")
)
