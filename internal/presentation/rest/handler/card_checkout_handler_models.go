package handler

// CardCheckoutItem カートの明細
// @Description カートの明細
type CardCheckoutItem struct {
	Name  string  `json:"name" example:"Wireless Mouse"`
	Price float64 `json:"price" example:"25.99"`
	Qty   int64   `json:"qty" example:"1"`
}

// CardCheckoutRequest カード決済セッション作成リクエスト
// @Description カード決済セッション作成リクエスト
type CardCheckoutRequest struct {
	Items         []CardCheckoutItem `json:"items"`
	Origin        string             `json:"origin" example:"https://shop.example.com"`
	CustomerEmail string             `json:"customer_email" example:"buyer@example.com"`
}

// CardCheckoutResponse カード決済セッション作成レスポンス
// @Description カード決済セッション作成レスポンス
type CardCheckoutResponse struct {
	OK  bool   `json:"ok" example:"true"`
	URL string `json:"url" example:"https://checkout.stripe.com/c/pay/cs_live_123"`
}
