package credential

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name        string
		publicKey   string
		privateKey  string
		wantSchemes []Scheme
	}{
		{
			name:        "正常系: 両キーありで2候補（private_only優先）",
			publicKey:   "pub_key",
			privateKey:  "priv_key",
			wantSchemes: []Scheme{SchemePrivateOnly, SchemePublicPrivate},
		},
		{
			name:        "正常系: 秘密キーのみで1候補",
			publicKey:   "",
			privateKey:  "priv_key",
			wantSchemes: []Scheme{SchemePrivateOnly},
		},
		{
			name:        "異常系: 秘密キーなしで空リスト",
			publicKey:   "pub_key",
			privateKey:  "",
			wantSchemes: nil,
		},
		{
			name:        "異常系: 空白のみのキーは未設定扱い",
			publicKey:   "  ",
			privateKey:  "   ",
			wantSchemes: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			candidates := Resolve(tt.publicKey, tt.privateKey)
			require.Len(t, candidates, len(tt.wantSchemes))
			for i, want := range tt.wantSchemes {
				assert.Equal(t, want, candidates[i].Scheme())
			}
		})
	}
}

func TestResolve_HeaderValues(t *testing.T) {
	candidates := Resolve("pub_key", "priv_key")
	require.Len(t, candidates, 2)

	// private_only: 秘密キーがユーザー名、パスワード空
	wantPrivOnly := "Basic " + base64.StdEncoding.EncodeToString([]byte("priv_key:"))
	assert.Equal(t, wantPrivOnly, candidates[0].HeaderValue())

	// public_private: 公開キー:秘密キー
	wantPaired := "Basic " + base64.StdEncoding.EncodeToString([]byte("pub_key:priv_key"))
	assert.Equal(t, wantPaired, candidates[1].HeaderValue())
}

func TestSchemeNames(t *testing.T) {
	candidates := Resolve("pub_key", "priv_key")
	assert.Equal(t, []string{"private_only", "public_private"}, SchemeNames(candidates))

	assert.Empty(t, SchemeNames(nil))
}
