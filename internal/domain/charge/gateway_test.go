package charge

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProviderResponse_OK(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   bool
	}{
		{name: "正常系: 200はOK", status: 200, want: true},
		{name: "正常系: 201はOK", status: 201, want: true},
		{name: "異常系: 400はOKでない", status: 400, want: false},
		{name: "異常系: 500はOKでない", status: 500, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &ProviderResponse{StatusCode: tt.status}
			assert.Equal(t, tt.want, r.OK())
		})
	}
}

func TestProviderResponse_AuthRejected(t *testing.T) {
	assert.True(t, (&ProviderResponse{StatusCode: 401}).AuthRejected())
	assert.True(t, (&ProviderResponse{StatusCode: 403}).AuthRejected())
	// 業務エラーは認証フォールバックの対象外
	assert.False(t, (&ProviderResponse{StatusCode: 400}).AuthRejected())
	assert.False(t, (&ProviderResponse{StatusCode: 422}).AuthRejected())
	assert.False(t, (&ProviderResponse{StatusCode: 200}).AuthRejected())
}

func TestDecodeCharge(t *testing.T) {
	c := DecodeCharge(json.RawMessage(`{"id":"chg_1","status":"authorized","amount":5000}`))
	assert.Equal(t, "chg_1", c.ID)
	assert.Equal(t, "authorized", c.Status)

	// 不正なJSONでも空のChargeを返す
	c = DecodeCharge(json.RawMessage(`not-json`))
	assert.Empty(t, c.ID)
}
