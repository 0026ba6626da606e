package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	historyapp "storefront-server/internal/application/history"
)

// HistoryHandler 決済試行履歴ハンドラー
type HistoryHandler struct {
	historyService *historyapp.HistoryApplicationService
}

// NewHistoryHandler 新しいHistoryHandlerを作成
func NewHistoryHandler(historyService *historyapp.HistoryApplicationService) *HistoryHandler {
	return &HistoryHandler{
		historyService: historyService,
	}
}

// GetAttemptHistory 決済試行履歴取得ハンドラー
// @Summary 決済試行履歴を取得
// @Description 注文IDに紐づくプロバイダー呼び出しの監査記録を新しい順で取得します
// @Tags history
// @Produce json
// @Security Bearer
// @Param order_id path string true "注文ID"
// @Param limit query int false "取得件数（デフォルト: 20、最大: 100）"
// @Param offset query int false "オフセット（デフォルト: 0）"
// @Success 200 {object} AttemptHistoryResponse "履歴取得成功"
// @Failure 401 {object} middleware.ErrorResponse "認証エラー"
// @Router /orders/{order_id}/attempts [get]
func (h *HistoryHandler) GetAttemptHistory(c echo.Context) error {
	orderID := c.Param("order_id")

	limit := 0
	if v := c.QueryParam("limit"); v != "" {
		limit, _ = strconv.Atoi(v)
	}
	offset := 0
	if v := c.QueryParam("offset"); v != "" {
		offset, _ = strconv.Atoi(v)
	}

	resp, err := h.historyService.GetAttemptHistory(c.Request().Context(), &historyapp.GetAttemptHistoryRequest{
		OrderID: orderID,
		Limit:   limit,
		Offset:  offset,
	})
	if err != nil {
		return err
	}

	records := make([]AttemptRecord, len(resp.Attempts))
	for i, a := range resp.Attempts {
		records[i] = AttemptRecord{
			AttemptID:  a.AttemptID(),
			OrderID:    a.OrderID(),
			ChargeID:   a.ChargeID(),
			Step:       a.Step().String(),
			AuthScheme: a.AuthScheme(),
			HTTPStatus: a.HTTPStatus(),
			Outcome:    a.Outcome().String(),
			CreatedAt:  a.CreatedAt().UTC().Format(time.RFC3339),
		}
	}

	return c.JSON(http.StatusOK, AttemptHistoryResponse{
		OK:       true,
		Attempts: records,
		Total:    resp.Total,
		Limit:    resp.Limit,
		Offset:   resp.Offset,
	})
}
