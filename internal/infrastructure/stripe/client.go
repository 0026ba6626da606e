package stripe

import (
	"context"
	"errors"

	stripeapi "github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"

	"storefront-server/internal/domain/checkout"
	otelinfra "storefront-server/internal/infrastructure/observability/otel"
)

// Client ホスト型チェックアウトセッションを作成するStripeクライアント
type Client struct {
	api    *client.API
	logger *otelinfra.Logger
}

// NewClient 新しいClientを作成
// secretKeyが空の場合はnilを返す（カード決済を無効化）
func NewClient(secretKey string, logger *otelinfra.Logger) *Client {
	if secretKey == "" {
		return nil
	}

	api := &client.API{}
	api.Init(secretKey, nil)

	return &Client{
		api:    api,
		logger: logger,
	}
}

// CreateSession チェックアウトセッションを作成しリダイレクトURLを返す
func (c *Client) CreateSession(ctx context.Context, req *checkout.SessionRequest) (string, error) {
	lineItems := make([]*stripeapi.CheckoutSessionLineItemParams, len(req.LineItems))
	for i, it := range req.LineItems {
		lineItems[i] = &stripeapi.CheckoutSessionLineItemParams{
			PriceData: &stripeapi.CheckoutSessionLineItemPriceDataParams{
				Currency: stripeapi.String(it.Currency),
				ProductData: &stripeapi.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripeapi.String(it.Name),
				},
				UnitAmount: stripeapi.Int64(it.UnitAmount),
			},
			Quantity: stripeapi.Int64(it.Quantity),
		}
	}

	params := &stripeapi.CheckoutSessionParams{
		Mode:      stripeapi.String(string(stripeapi.CheckoutSessionModePayment)),
		LineItems: lineItems,

		// 与信審査系（BNPL含む）の適格性を上げるための追加収集
		BillingAddressCollection: stripeapi.String("required"),
		ShippingAddressCollection: &stripeapi.CheckoutSessionShippingAddressCollectionParams{
			AllowedCountries: stripeapi.StringSlice([]string{"US"}),
		},
		PhoneNumberCollection: &stripeapi.CheckoutSessionPhoneNumberCollectionParams{
			Enabled: stripeapi.Bool(true),
		},

		SuccessURL: stripeapi.String(req.SuccessURL),
		CancelURL:  stripeapi.String(req.CancelURL),
	}
	params.Context = ctx

	if req.CustomerEmail != "" {
		params.CustomerEmail = stripeapi.String(req.CustomerEmail)
	}

	session, err := c.api.CheckoutSessions.New(params)
	if err != nil {
		sessionErr := &checkout.SessionError{Message: err.Error()}

		var stripeErr *stripeapi.Error
		if errors.As(err, &stripeErr) {
			sessionErr.Message = stripeErr.Msg
			sessionErr.Code = string(stripeErr.Code)
		}

		if c.logger != nil {
			c.logger.Error(ctx, "checkout session creation failed", err, map[string]interface{}{
				"code": sessionErr.Code,
			})
		}
		return "", sessionErr
	}

	if c.logger != nil {
		c.logger.Info(ctx, "checkout session created", map[string]interface{}{
			"session_id": session.ID,
		})
	}

	return session.URL, nil
}
