package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	checkoutapp "storefront-server/internal/application/checkout"
	"storefront-server/internal/domain/checkout"
)

// CardCheckoutHandler カード決済ハンドラー
type CardCheckoutHandler struct {
	checkoutService *checkoutapp.CheckoutApplicationService
}

// NewCardCheckoutHandler 新しいCardCheckoutHandlerを作成
func NewCardCheckoutHandler(checkoutService *checkoutapp.CheckoutApplicationService) *CardCheckoutHandler {
	return &CardCheckoutHandler{
		checkoutService: checkoutService,
	}
}

// CreateSession カード決済セッション作成ハンドラー
// @Summary ホスト型チェックアウトセッションを作成
// @Description カートの明細からカード決済用のホスト型チェックアウトセッションを作成します
// @Tags card-checkout
// @Accept json
// @Produce json
// @Param request body CardCheckoutRequest true "セッション作成リクエスト"
// @Success 200 {object} CardCheckoutResponse "セッション作成成功"
// @Failure 400 {object} middleware.ErrorResponse "カートが空"
// @Failure 500 {object} middleware.ErrorResponse "設定エラー・プロバイダーエラー"
// @Router /card-checkout [post]
func (h *CardCheckoutHandler) CreateSession(c echo.Context) error {
	body := parseBodyOrDefault(c)

	req := &checkoutapp.CreateCardSessionRequest{
		Items:         cartItems(body),
		Origin:        stringField(body, "origin"),
		CustomerEmail: stringField(body, "customer_email"),
	}

	resp, err := h.checkoutService.CreateCardSession(c.Request().Context(), req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, CardCheckoutResponse{
		OK:  true,
		URL: resp.URL,
	})
}

// cartItems itemsフィールドをカート明細として取り出す
// 配列でない場合や要素の型が合わない場合は未指定扱い
func cartItems(body map[string]interface{}) []checkout.CartItem {
	raw, ok := body["items"].([]interface{})
	if !ok {
		return nil
	}

	items := make([]checkout.CartItem, 0, len(raw))
	for _, e := range raw {
		m, ok := e.(map[string]interface{})
		if !ok {
			continue
		}

		item := checkout.CartItem{
			Name: stringField(m, "name"),
		}
		if price := numberField(m, "price"); price != nil {
			item.Price = *price
		}
		if qty := numberField(m, "qty"); qty != nil {
			item.Qty = int64(*qty)
		}
		items = append(items, item)
	}
	return items
}
