package credential

import (
	"encoding/base64"
	"strings"
)

// Scheme 認証スキームを表す値オブジェクト
type Scheme string

const (
	SchemePrivateOnly   Scheme = "private_only"   // 秘密キー単独（パスワード空のBasic認証）
	SchemePublicPrivate Scheme = "public_private" // 公開キー:秘密キーのペア
)

// String 文字列表現を返す
func (s Scheme) String() string {
	return string(s)
}

// AuthCandidate プロバイダー認証の候補
// リクエストごとに設定から構築され、優先順に試行される
type AuthCandidate struct {
	scheme      Scheme
	headerValue string // Authorizationヘッダーに載せる値（Basic xxx）
}

// Scheme 認証スキームを返す
func (c AuthCandidate) Scheme() Scheme {
	return c.scheme
}

// HeaderValue Authorizationヘッダー値を返す
func (c AuthCandidate) HeaderValue() string {
	return c.headerValue
}

// Resolve 設定から認証候補を優先順で導出する
//
// 1. private_only: 秘密キーのみ（診断エンドポイントで実績のある形）
// 2. public_private: 公開キーと秘密キーが両方ある場合のみ
//
// 秘密キーがない場合は空リストを返す。呼び出し側は設定エラー（500系）として
// 扱わなければならない。
func Resolve(publicKey, privateKey string) []AuthCandidate {
	publicKey = strings.TrimSpace(publicKey)
	privateKey = strings.TrimSpace(privateKey)

	if privateKey == "" {
		return nil
	}

	candidates := []AuthCandidate{
		{
			scheme:      SchemePrivateOnly,
			headerValue: basicAuth(privateKey, ""),
		},
	}

	if publicKey != "" {
		candidates = append(candidates, AuthCandidate{
			scheme:      SchemePublicPrivate,
			headerValue: basicAuth(publicKey, privateKey),
		})
	}

	return candidates
}

// SchemeNames 候補のスキーム名一覧を返す（診断レポート用）
func SchemeNames(candidates []AuthCandidate) []string {
	names := make([]string, len(candidates))
	for i, c := range candidates {
		names[i] = c.Scheme().String()
	}
	return names
}

// basicAuth Basic認証ヘッダー値を構築する
func basicAuth(user, password string) string {
	token := base64.StdEncoding.EncodeToString([]byte(user + ":" + password))
	return "Basic " + token
}
