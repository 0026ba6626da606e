package mysql

import (
	"context"
	"fmt"
	"time"

	"storefront-server/internal/domain/attempt"
)

// AttemptRepository MySQL実装のAttemptRepository
type AttemptRepository struct {
	db *DB
}

// NewAttemptRepository 新しいAttemptRepositoryを作成
func NewAttemptRepository(db *DB) *AttemptRepository {
	return &AttemptRepository{db: db}
}

// Save Attemptを保存
// 監査レコードは追記専用のためINSERTのみ
func (r *AttemptRepository) Save(ctx context.Context, a *attempt.Attempt) error {
	query := `
		INSERT INTO payment_attempts (
			attempt_id, order_id, charge_id, step, auth_scheme,
			http_status, outcome, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		a.AttemptID(),
		a.OrderID(),
		a.ChargeID(),
		a.Step().String(),
		a.AuthScheme(),
		a.HTTPStatus(),
		a.Outcome().String(),
		a.CreatedAt(),
	)

	if err != nil {
		return fmt.Errorf("failed to save attempt: %w", err)
	}

	return nil
}

// FindByOrderID 注文IDに紐づくAttemptを新しい順で取得
func (r *AttemptRepository) FindByOrderID(ctx context.Context, orderID string, limit, offset int) ([]*attempt.Attempt, error) {
	query := `
		SELECT
			attempt_id, order_id, charge_id, step, auth_scheme,
			http_status, outcome, created_at
		FROM payment_attempts
		WHERE order_id = ?
		ORDER BY created_at DESC
		LIMIT ? OFFSET ?
	`

	rows, err := r.db.QueryContext(ctx, query, orderID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to find attempts: %w", err)
	}
	defer rows.Close()

	var attempts []*attempt.Attempt
	for rows.Next() {
		var attemptID, dbOrderID, chargeID, stepStr, authScheme, outcomeStr string
		var httpStatus int
		var createdAt time.Time

		if err := rows.Scan(
			&attemptID,
			&dbOrderID,
			&chargeID,
			&stepStr,
			&authScheme,
			&httpStatus,
			&outcomeStr,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan attempt: %w", err)
		}

		step, err := attempt.NewStep(stepStr)
		if err != nil {
			return nil, fmt.Errorf("invalid step: %w", err)
		}

		attempts = append(attempts, attempt.Restore(
			attemptID,
			dbOrderID,
			chargeID,
			step,
			authScheme,
			httpStatus,
			attempt.Outcome(outcomeStr),
			createdAt,
		))
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate attempts: %w", err)
	}

	return attempts, nil
}
