package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	chargeapp "storefront-server/internal/application/charge"
	diagnosticapp "storefront-server/internal/application/diagnostic"
)

// 受け付けるリクエストボディの上限
const maxRequestBodyBytes = 1 << 20

// ChargeHandler 後払い決済ハンドラー
type ChargeHandler struct {
	chargeService     *chargeapp.ChargeApplicationService
	diagnosticService *diagnosticapp.DiagnosticApplicationService
}

// NewChargeHandler 新しいChargeHandlerを作成
func NewChargeHandler(
	chargeService *chargeapp.ChargeApplicationService,
	diagnosticService *diagnosticapp.DiagnosticApplicationService,
) *ChargeHandler {
	return &ChargeHandler{
		chargeService:     chargeService,
		diagnosticService: diagnosticService,
	}
}

// AuthorizeCharge 与信・キャプチャーハンドラー
// @Summary チャージを与信・キャプチャー
// @Description checkout_tokenからチャージを作成し、指定があれば続けてキャプチャーします。diag指定時は診断モードとして動作します
// @Tags charges
// @Accept json
// @Produce json
// @Success 200 {object} ChargeSuccessResponse "与信・キャプチャー成功"
// @Failure 400 {object} middleware.ErrorResponse "必須フィールド不足"
// @Failure 403 {object} middleware.ErrorResponse "診断アクセス拒否"
// @Failure 500 {object} middleware.ErrorResponse "設定エラー・プロバイダー到達不能"
// @Router /charges [post]
func (h *ChargeHandler) AuthorizeCharge(c echo.Context) error {
	body := parseBodyOrDefault(c)

	// 診断モードの振り分け
	if diag, ok := body["diag"]; ok {
		if b, ok := diag.(bool); ok && b {
			return h.localDiag(c)
		}
		if s, ok := diag.(string); ok && s == "remote" {
			return h.remoteDiag(c)
		}
	}

	req := &chargeapp.AuthorizeChargeRequest{
		CheckoutToken:        stringField(body, "checkout_token"),
		OrderID:              stringField(body, "order_id"),
		Capture:              boolField(body, "capture"),
		AmountCents:          numberField(body, "amount_cents"),
		Amount:               numberField(body, "amount"),
		Currency:             stringField(body, "currency"),
		ShippingCarrier:      stringField(body, "shipping_carrier"),
		ShippingConfirmation: stringField(body, "shipping_confirmation"),
	}

	resp, err := h.chargeService.AuthorizeCharge(c.Request().Context(), req)
	if err != nil {
		return err
	}

	// プロバイダーの拒否はプロバイダーのステータスコードのまま返す
	if !resp.OK {
		return c.JSON(resp.ProviderStatus, ChargeFailureResponse{
			Step:  resp.Step,
			Error: resp.ErrorBody,
		})
	}

	return c.JSON(http.StatusOK, ChargeSuccessResponse{
		OK:      true,
		Charge:  resp.ChargeBody,
		Capture: resp.CaptureBody,
	})
}

// localDiag 設定診断（ネットワーク呼び出しなし）
func (h *ChargeHandler) localDiag(c echo.Context) error {
	diag := h.diagnosticService.GetLocalDiagnostics(c.Request().Context())
	return c.JSON(http.StatusOK, LocalDiagResponse{
		OK:   true,
		Diag: diag,
	})
}

// remoteDiag プロバイダーへの疎通・認証診断
func (h *ChargeHandler) remoteDiag(c echo.Context) error {
	secret := c.Request().Header.Get("x-diag-secret")

	result, err := h.diagnosticService.RunRemoteProbe(c.Request().Context(), secret)
	if err != nil {
		return err
	}

	var status interface{} = "fetch_failed"
	if result.Fetched {
		status = result.HTTPStatus
	}

	return c.JSON(http.StatusOK, RemoteDiagResponse{
		OK: true,
		Remote: RemoteDiagResult{
			Status: status,
			Pass:   result.Pass,
			Body:   result.Body,
		},
	})
}

// parseBodyOrDefault リクエストボディをJSONとして読む
// 解釈できない場合は空のオブジェクトとして扱い、バリデーションは各ハンドラーに委ねる
func parseBodyOrDefault(c echo.Context) map[string]interface{} {
	raw, err := io.ReadAll(io.LimitReader(c.Request().Body, maxRequestBodyBytes))
	if err != nil {
		return map[string]interface{}{}
	}

	var body map[string]interface{}
	if err := json.Unmarshal(raw, &body); err != nil || body == nil {
		return map[string]interface{}{}
	}
	return body
}

// stringField 文字列フィールドを取り出す。型が違う場合は未指定扱い
func stringField(body map[string]interface{}, key string) string {
	if v, ok := body[key].(string); ok {
		return v
	}
	return ""
}

// numberField 数値フィールドを取り出す。型が違う場合は未指定扱い
func numberField(body map[string]interface{}, key string) *float64 {
	if v, ok := body[key].(float64); ok {
		return &v
	}
	return nil
}

// boolField 真偽値フィールドを取り出す。型が違う場合は未指定扱い
func boolField(body map[string]interface{}, key string) *bool {
	if v, ok := body[key].(bool); ok {
		return &v
	}
	return nil
}
