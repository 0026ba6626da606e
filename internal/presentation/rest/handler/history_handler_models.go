package handler

// AttemptRecord 決済試行1件
// @Description 決済試行1件
type AttemptRecord struct {
	AttemptID  string `json:"attempt_id" example:"6f1c7d2e-8a3b-4c5d-9e0f-112233445566"`
	OrderID    string `json:"order_id" example:"ORDER-1001"`
	ChargeID   string `json:"charge_id,omitempty" example:"ALO1-UPPY"`
	Step       string `json:"step" example:"charges"`
	AuthScheme string `json:"auth_scheme" example:"private_only"`
	HTTPStatus int    `json:"http_status" example:"200"`
	Outcome    string `json:"outcome" example:"succeeded"`
	CreatedAt  string `json:"created_at" example:"2025-06-01T12:00:00Z"`
}

// AttemptHistoryResponse 決済試行履歴レスポンス
// @Description 決済試行履歴レスポンス
type AttemptHistoryResponse struct {
	OK       bool            `json:"ok" example:"true"`
	Attempts []AttemptRecord `json:"attempts"`
	Total    int             `json:"total" example:"2"`
	Limit    int             `json:"limit" example:"20"`
	Offset   int             `json:"offset" example:"0"`
}
