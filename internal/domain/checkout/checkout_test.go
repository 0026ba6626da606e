package checkout

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeLineItems(t *testing.T) {
	tests := []struct {
		name      string
		items     []CartItem
		wantErr   error
		checkFunc func(*testing.T, []LineItem)
	}{
		{
			name:    "異常系: 空カート",
			items:   nil,
			wantErr: ErrEmptyCart,
		},
		{
			name: "正常系: 通常の明細",
			items: []CartItem{
				{Name: "Sport Bike", Price: 1999.99, Qty: 2},
			},
			checkFunc: func(t *testing.T, out []LineItem) {
				require.Len(t, out, 1)
				assert.Equal(t, "Sport Bike", out[0].Name)
				assert.Equal(t, int64(199999), out[0].UnitAmount)
				assert.Equal(t, int64(2), out[0].Quantity)
				assert.Equal(t, "usd", out[0].Currency)
			},
		},
		{
			name: "正常系: 名前未指定はItem Nで補う",
			items: []CartItem{
				{Price: 10, Qty: 1},
				{Name: "  ", Price: 10, Qty: 1},
			},
			checkFunc: func(t *testing.T, out []LineItem) {
				assert.Equal(t, "Item 1", out[0].Name)
				assert.Equal(t, "Item 2", out[1].Name)
			},
		},
		{
			name: "正常系: 長い名前は120文字に切り詰める",
			items: []CartItem{
				{Name: strings.Repeat("a", 200), Price: 10, Qty: 1},
			},
			checkFunc: func(t *testing.T, out []LineItem) {
				assert.Len(t, out[0].Name, 120)
			},
		},
		{
			name: "正常系: 単価は下限50にクランプされる",
			items: []CartItem{
				{Name: "Sticker", Price: 0.10, Qty: 1},
				{Name: "Freebie", Price: 0, Qty: 1},
				{Name: "Weird", Price: -5, Qty: 1},
			},
			checkFunc: func(t *testing.T, out []LineItem) {
				assert.Equal(t, int64(50), out[0].UnitAmount)
				assert.Equal(t, int64(50), out[1].UnitAmount)
				assert.Equal(t, int64(50), out[2].UnitAmount)
			},
		},
		{
			name: "正常系: 数量は下限1にクランプされる",
			items: []CartItem{
				{Name: "Helmet", Price: 100, Qty: 0},
				{Name: "Gloves", Price: 100, Qty: -3},
			},
			checkFunc: func(t *testing.T, out []LineItem) {
				assert.Equal(t, int64(1), out[0].Quantity)
				assert.Equal(t, int64(1), out[1].Quantity)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := NormalizeLineItems(tt.items)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			if tt.checkFunc != nil {
				tt.checkFunc(t, out)
			}
		})
	}
}

func TestResolveOrigin(t *testing.T) {
	const fallback = "https://ebabselectronic.com"

	assert.Equal(t, "https://shop.example.com", ResolveOrigin("https://shop.example.com", fallback))
	assert.Equal(t, "http://localhost:5173", ResolveOrigin("http://localhost:5173", fallback))
	assert.Equal(t, fallback, ResolveOrigin("javascript:alert(1)", fallback))
	assert.Equal(t, fallback, ResolveOrigin("", fallback))
}

func TestResolveCustomerEmail(t *testing.T) {
	assert.Equal(t, "buyer@example.com", ResolveCustomerEmail("buyer@example.com"))
	assert.Empty(t, ResolveCustomerEmail("not-an-email"))
	assert.Empty(t, ResolveCustomerEmail(""))
}

func TestBuildSessionRequest(t *testing.T) {
	req, err := BuildSessionRequest(
		[]CartItem{{Name: "Helmet", Price: 100, Qty: 1}},
		"https://shop.example.com",
		"https://ebabselectronic.com",
		"buyer@example.com",
	)
	require.NoError(t, err)
	assert.Equal(t, "https://shop.example.com/?card=success", req.SuccessURL)
	assert.Equal(t, "https://shop.example.com/?card=cancel", req.CancelURL)
	assert.Equal(t, "buyer@example.com", req.CustomerEmail)
	assert.Len(t, req.LineItems, 1)
}
