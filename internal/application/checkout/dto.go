package checkout

import "storefront-server/internal/domain/checkout"

// CreateCardSessionRequest ホスト型チェックアウトセッションの作成リクエスト
type CreateCardSessionRequest struct {
	Items         []checkout.CartItem
	Origin        string
	CustomerEmail string
}

// CreateCardSessionResponse 作成されたセッションのリダイレクト先URL
type CreateCardSessionResponse struct {
	URL string
}
