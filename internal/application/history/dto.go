package history

import "storefront-server/internal/domain/attempt"

// GetAttemptHistoryRequest 決済試行履歴の取得リクエスト
type GetAttemptHistoryRequest struct {
	OrderID string
	Limit   int
	Offset  int
}

// GetAttemptHistoryResponse 決済試行履歴の取得レスポンス
type GetAttemptHistoryResponse struct {
	Attempts []*attempt.Attempt
	Total    int
	Limit    int
	Offset   int
}
