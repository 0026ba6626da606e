package credential

import "errors"

var (
	// ErrNoAuthCandidates 使用可能な認証候補がない（キー未設定）
	ErrNoAuthCandidates = errors.New("no auth candidates available: financing private key is not configured")
)
