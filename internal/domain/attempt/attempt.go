package attempt

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Step 決済フローのステップを表す値オブジェクト
type Step string

const (
	StepCharges Step = "charges" // 与信（チャージ作成）
	StepCapture Step = "capture" // キャプチャー
)

// NewStep 新しいStepを作成
func NewStep(s string) (Step, error) {
	switch s {
	case "charges", "capture":
		return Step(s), nil
	default:
		return "", fmt.Errorf("invalid step: %s", s)
	}
}

// String 文字列表現を返す
func (s Step) String() string {
	return string(s)
}

// Outcome 試行の結果を表す値オブジェクト
type Outcome string

const (
	OutcomeSucceeded    Outcome = "succeeded"     // 2xx
	OutcomeRejected     Outcome = "rejected"      // 業務エラー（4xx/5xx、認証以外）
	OutcomeAuthRejected Outcome = "auth_rejected" // 401/403
	OutcomeUnreachable  Outcome = "unreachable"   // トランスポート失敗
)

// String 文字列表現を返す
func (o Outcome) String() string {
	return string(o)
}

// Attempt プロバイダー呼び出し1回の監査記録
//
// 照合（手動リコンサイル）用の追記専用レコード。チャージ処理のパスは
// このレコードを読み戻さない
type Attempt struct {
	attemptID  string
	orderID    string
	chargeID   string // 与信前は空
	step       Step
	authScheme string
	httpStatus int // トランスポート失敗時は0
	outcome    Outcome
	createdAt  time.Time
}

// NewAttempt 新しいAttemptを作成
func NewAttempt(
	orderID string,
	chargeID string,
	step Step,
	authScheme string,
	httpStatus int,
	outcome Outcome,
) *Attempt {
	return &Attempt{
		attemptID:  uuid.NewString(),
		orderID:    orderID,
		chargeID:   chargeID,
		step:       step,
		authScheme: authScheme,
		httpStatus: httpStatus,
		outcome:    outcome,
		createdAt:  time.Now(),
	}
}

// Restore 永続化済みの値からAttemptを復元する
func Restore(
	attemptID string,
	orderID string,
	chargeID string,
	step Step,
	authScheme string,
	httpStatus int,
	outcome Outcome,
	createdAt time.Time,
) *Attempt {
	return &Attempt{
		attemptID:  attemptID,
		orderID:    orderID,
		chargeID:   chargeID,
		step:       step,
		authScheme: authScheme,
		httpStatus: httpStatus,
		outcome:    outcome,
		createdAt:  createdAt,
	}
}

// AttemptID 試行IDを返す
func (a *Attempt) AttemptID() string {
	return a.attemptID
}

// OrderID 注文IDを返す
func (a *Attempt) OrderID() string {
	return a.orderID
}

// ChargeID チャージIDを返す
func (a *Attempt) ChargeID() string {
	return a.chargeID
}

// Step ステップを返す
func (a *Attempt) Step() Step {
	return a.step
}

// AuthScheme 使用した認証スキーム名を返す
func (a *Attempt) AuthScheme() string {
	return a.authScheme
}

// HTTPStatus プロバイダーのHTTPステータスを返す
func (a *Attempt) HTTPStatus() int {
	return a.httpStatus
}

// Outcome 結果を返す
func (a *Attempt) Outcome() Outcome {
	return a.outcome
}

// CreatedAt 作成日時を返す
func (a *Attempt) CreatedAt() time.Time {
	return a.createdAt
}
