package attempt

import "context"

// AttemptRepository Attemptの永続化を行うリポジトリ
type AttemptRepository interface {
	// Save Attemptを保存する
	Save(ctx context.Context, a *Attempt) error

	// FindByOrderID 注文IDに紐づくAttemptを新しい順で取得する
	FindByOrderID(ctx context.Context, orderID string, limit, offset int) ([]*Attempt, error)
}
