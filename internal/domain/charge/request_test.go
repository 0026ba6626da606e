package charge

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatPtr(f float64) *float64 { return &f }
func boolPtr(b bool) *bool        { return &b }

func TestNewChargeRequest(t *testing.T) {
	tests := []struct {
		name      string
		params    ChargeRequestParams
		wantErr   error
		checkFunc func(*testing.T, *ChargeRequest)
	}{
		{
			name: "正常系: amount_centsでキャプチャー",
			params: ChargeRequestParams{
				CheckoutToken: "tok_abc",
				OrderID:       "ORDER-1",
				AmountCents:   floatPtr(5000),
			},
			checkFunc: func(t *testing.T, r *ChargeRequest) {
				assert.True(t, r.Capture())
				assert.Equal(t, int64(5000), r.Amount())
				assert.Equal(t, "USD", r.Currency())
			},
		},
		{
			name: "正常系: captureはデフォルトでtrue",
			params: ChargeRequestParams{
				CheckoutToken: "tok_abc",
				OrderID:       "ORDER-1",
				AmountCents:   floatPtr(100),
			},
			checkFunc: func(t *testing.T, r *ChargeRequest) {
				assert.True(t, r.Capture())
			},
		},
		{
			name: "正常系: capture=falseなら金額不要",
			params: ChargeRequestParams{
				CheckoutToken: "tok_abc",
				OrderID:       "ORDER-1",
				Capture:       boolPtr(false),
			},
			checkFunc: func(t *testing.T, r *ChargeRequest) {
				assert.False(t, r.Capture())
				assert.Equal(t, int64(0), r.Amount())
			},
		},
		{
			name: "正常系: 通貨は大文字化される",
			params: ChargeRequestParams{
				CheckoutToken: "tok_abc",
				OrderID:       "ORDER-1",
				AmountCents:   floatPtr(100),
				Currency:      " usd ",
			},
			checkFunc: func(t *testing.T, r *ChargeRequest) {
				assert.Equal(t, "USD", r.Currency())
			},
		},
		{
			name: "異常系: checkout_tokenが空",
			params: ChargeRequestParams{
				CheckoutToken: "   ",
				OrderID:       "ORDER-1",
				AmountCents:   floatPtr(100),
			},
			wantErr: ErrMissingCheckoutToken,
		},
		{
			name: "異常系: order_idが空",
			params: ChargeRequestParams{
				CheckoutToken: "tok_abc",
				OrderID:       "",
				AmountCents:   floatPtr(100),
			},
			wantErr: ErrMissingOrderID,
		},
		{
			name: "異常系: キャプチャー時に金額未指定",
			params: ChargeRequestParams{
				CheckoutToken: "tok_abc",
				OrderID:       "ORDER-1",
			},
			wantErr: ErrAmountRequired,
		},
		{
			name: "異常系: 金額が0以下",
			params: ChargeRequestParams{
				CheckoutToken: "tok_abc",
				OrderID:       "ORDER-1",
				AmountCents:   floatPtr(0),
			},
			wantErr: ErrAmountNotPositive,
		},
		{
			name: "異常系: 金額が非有限",
			params: ChargeRequestParams{
				CheckoutToken: "tok_abc",
				OrderID:       "ORDER-1",
				AmountCents:   floatPtr(math.Inf(1)),
			},
			wantErr: ErrAmountRequired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := NewChargeRequest(tt.params)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, req)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, req)
			if tt.checkFunc != nil {
				tt.checkFunc(t, req)
			}
		})
	}
}

// メジャー単位のamountとマイナー単位のamount_centsは同じ金額に解決される
func TestNewChargeRequest_AmountUnitEquivalence(t *testing.T) {
	major, err := NewChargeRequest(ChargeRequestParams{
		CheckoutToken: "tok_abc",
		OrderID:       "ORDER-1",
		Amount:        floatPtr(12.3),
	})
	require.NoError(t, err)

	minor, err := NewChargeRequest(ChargeRequestParams{
		CheckoutToken: "tok_abc",
		OrderID:       "ORDER-1",
		AmountCents:   floatPtr(1230),
	})
	require.NoError(t, err)

	assert.Equal(t, int64(1230), major.Amount())
	assert.Equal(t, major.Amount(), minor.Amount())
}

// amount_centsが両方来た場合はamount_centsが優先される
func TestNewChargeRequest_AmountCentsWins(t *testing.T) {
	req, err := NewChargeRequest(ChargeRequestParams{
		CheckoutToken: "tok_abc",
		OrderID:       "ORDER-1",
		AmountCents:   floatPtr(500),
		Amount:        floatPtr(99.99),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(500), req.Amount())
}

func TestTruncateOrderID(t *testing.T) {
	assert.Equal(t, "ORDER-1", TruncateOrderID("ORDER-1"))
	assert.Equal(t, "0123456789abcdef...", TruncateOrderID("0123456789abcdef0123"))
}
