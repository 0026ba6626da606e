package charge

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"

	"storefront-server/internal/domain/attempt"
	"storefront-server/internal/domain/charge"
	"storefront-server/internal/domain/credential"
	otelinfra "storefront-server/internal/infrastructure/observability/otel"
)

// MockGateway モックの後払いプロバイダーゲートウェイ
type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) CreateCharge(ctx context.Context, auth credential.AuthCandidate, checkoutToken string) (*charge.ProviderResponse, error) {
	args := m.Called(ctx, auth, checkoutToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*charge.ProviderResponse), args.Error(1)
}

func (m *MockGateway) CaptureCharge(ctx context.Context, auth credential.AuthCandidate, chargeID string, req *charge.CaptureRequest) (*charge.ProviderResponse, error) {
	args := m.Called(ctx, auth, chargeID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*charge.ProviderResponse), args.Error(1)
}

// MockAttemptRepository モック監査リポジトリ
type MockAttemptRepository struct {
	mock.Mock
}

func (m *MockAttemptRepository) Save(ctx context.Context, a *attempt.Attempt) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockAttemptRepository) FindByOrderID(ctx context.Context, orderID string, limit, offset int) ([]*attempt.Attempt, error) {
	args := m.Called(ctx, orderID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*attempt.Attempt), args.Error(1)
}

func withScheme(s credential.Scheme) interface{} {
	return mock.MatchedBy(func(auth credential.AuthCandidate) bool {
		return auth.Scheme() == s
	})
}

func boolPtr(b bool) *bool { return &b }

func f64Ptr(f float64) *float64 { return &f }

func resp(status int, body string) *charge.ProviderResponse {
	return &charge.ProviderResponse{StatusCode: status, Body: json.RawMessage(body)}
}

func TestChargeApplicationService_AuthorizeCharge(t *testing.T) {
	tests := []struct {
		name       string
		req        *AuthorizeChargeRequest
		privateKey string
		publicKey  string
		setupMocks func(*MockGateway)
		wantError  error
		checkFunc  func(*testing.T, *AuthorizeChargeResponse)
	}{
		{
			name: "正常系: 与信とキャプチャーが成功",
			req: &AuthorizeChargeRequest{
				CheckoutToken: "tok_abc",
				OrderID:       "ORDER-1",
				AmountCents:   f64Ptr(1230),
			},
			privateKey: "priv",
			publicKey:  "pub",
			setupMocks: func(mg *MockGateway) {
				mg.On("CreateCharge", mock.Anything, withScheme(credential.SchemePrivateOnly), "tok_abc").
					Return(resp(200, `{"id":"chg_1","status":"authorized"}`), nil)
				mg.On("CaptureCharge", mock.Anything, withScheme(credential.SchemePrivateOnly), "chg_1",
					&charge.CaptureRequest{OrderID: "ORDER-1", Amount: 1230, Currency: "USD"}).
					Return(resp(200, `{"id":"chg_1","status":"captured"}`), nil)
			},
			checkFunc: func(t *testing.T, got *AuthorizeChargeResponse) {
				assert.True(t, got.OK)
				assert.Equal(t, "capture", got.Step)
				assert.Equal(t, "chg_1", got.ChargeID)
				assert.Equal(t, "private_only", got.AuthScheme)
				assert.JSONEq(t, `{"id":"chg_1","status":"authorized"}`, string(got.ChargeBody))
				assert.JSONEq(t, `{"id":"chg_1","status":"captured"}`, string(got.CaptureBody))
			},
		},
		{
			name: "正常系: capture=falseで与信のみ",
			req: &AuthorizeChargeRequest{
				CheckoutToken: "tok_abc",
				OrderID:       "ORDER-1",
				Capture:       boolPtr(false),
			},
			privateKey: "priv",
			setupMocks: func(mg *MockGateway) {
				mg.On("CreateCharge", mock.Anything, withScheme(credential.SchemePrivateOnly), "tok_abc").
					Return(resp(200, `{"id":"chg_1","status":"authorized"}`), nil)
			},
			checkFunc: func(t *testing.T, got *AuthorizeChargeResponse) {
				assert.True(t, got.OK)
				assert.Equal(t, "charges", got.Step)
				assert.Equal(t, "chg_1", got.ChargeID)
				assert.Nil(t, got.CaptureBody)
			},
		},
		{
			name: "正常系: 401で次の認証候補にフォールバック",
			req: &AuthorizeChargeRequest{
				CheckoutToken: "tok_abc",
				OrderID:       "ORDER-1",
				Amount:        f64Ptr(12.3),
			},
			privateKey: "priv",
			publicKey:  "pub",
			setupMocks: func(mg *MockGateway) {
				mg.On("CreateCharge", mock.Anything, withScheme(credential.SchemePrivateOnly), "tok_abc").
					Return(resp(401, `{"message":"unauthorized"}`), nil)
				mg.On("CreateCharge", mock.Anything, withScheme(credential.SchemePublicPrivate), "tok_abc").
					Return(resp(200, `{"id":"chg_2","status":"authorized"}`), nil)
				mg.On("CaptureCharge", mock.Anything, withScheme(credential.SchemePrivateOnly), "chg_2",
					&charge.CaptureRequest{OrderID: "ORDER-1", Amount: 1230, Currency: "USD"}).
					Return(resp(200, `{"id":"chg_2","status":"captured"}`), nil)
			},
			checkFunc: func(t *testing.T, got *AuthorizeChargeResponse) {
				assert.True(t, got.OK)
				assert.Equal(t, "chg_2", got.ChargeID)
			},
		},
		{
			name: "正常系: 全候補が認証拒否なら最後の応答をそのまま返す",
			req: &AuthorizeChargeRequest{
				CheckoutToken: "tok_abc",
				OrderID:       "ORDER-1",
				Capture:       boolPtr(false),
			},
			privateKey: "priv",
			publicKey:  "pub",
			setupMocks: func(mg *MockGateway) {
				mg.On("CreateCharge", mock.Anything, withScheme(credential.SchemePrivateOnly), "tok_abc").
					Return(resp(401, `{"message":"bad key"}`), nil)
				mg.On("CreateCharge", mock.Anything, withScheme(credential.SchemePublicPrivate), "tok_abc").
					Return(resp(403, `{"message":"forbidden"}`), nil)
			},
			checkFunc: func(t *testing.T, got *AuthorizeChargeResponse) {
				assert.False(t, got.OK)
				assert.Equal(t, "charges", got.Step)
				assert.Equal(t, 403, got.ProviderStatus)
				assert.JSONEq(t, `{"message":"forbidden"}`, string(got.ErrorBody))
			},
		},
		{
			name: "正常系: 業務エラー（422）はフォールバックせず確定",
			req: &AuthorizeChargeRequest{
				CheckoutToken: "tok_expired",
				OrderID:       "ORDER-1",
				Capture:       boolPtr(false),
			},
			privateKey: "priv",
			publicKey:  "pub",
			setupMocks: func(mg *MockGateway) {
				mg.On("CreateCharge", mock.Anything, withScheme(credential.SchemePrivateOnly), "tok_expired").
					Return(resp(422, `{"code":"checkout-token-used"}`), nil).Once()
			},
			checkFunc: func(t *testing.T, got *AuthorizeChargeResponse) {
				assert.False(t, got.OK)
				assert.Equal(t, "charges", got.Step)
				assert.Equal(t, 422, got.ProviderStatus)
				assert.JSONEq(t, `{"code":"checkout-token-used"}`, string(got.ErrorBody))
			},
		},
		{
			name: "正常系: キャプチャー拒否はstep=captureで返す",
			req: &AuthorizeChargeRequest{
				CheckoutToken: "tok_abc",
				OrderID:       "ORDER-1",
				AmountCents:   f64Ptr(1000),
			},
			privateKey: "priv",
			setupMocks: func(mg *MockGateway) {
				mg.On("CreateCharge", mock.Anything, withScheme(credential.SchemePrivateOnly), "tok_abc").
					Return(resp(200, `{"id":"chg_1","status":"authorized"}`), nil)
				mg.On("CaptureCharge", mock.Anything, withScheme(credential.SchemePrivateOnly), "chg_1", mock.Anything).
					Return(resp(400, `{"code":"capture-declined"}`), nil)
			},
			checkFunc: func(t *testing.T, got *AuthorizeChargeResponse) {
				assert.False(t, got.OK)
				assert.Equal(t, "capture", got.Step)
				assert.Equal(t, "chg_1", got.ChargeID)
				assert.Equal(t, 400, got.ProviderStatus)
			},
		},
		{
			name: "異常系: checkout_token未指定",
			req: &AuthorizeChargeRequest{
				OrderID: "ORDER-1",
				Capture: boolPtr(false),
			},
			privateKey: "priv",
			setupMocks: func(mg *MockGateway) {},
			wantError:  charge.ErrMissingCheckoutToken,
		},
		{
			name: "異常系: 秘密鍵未設定",
			req: &AuthorizeChargeRequest{
				CheckoutToken: "tok_abc",
				OrderID:       "ORDER-1",
				Capture:       boolPtr(false),
			},
			privateKey: "",
			publicKey:  "pub",
			setupMocks: func(mg *MockGateway) {},
			wantError:  credential.ErrNoAuthCandidates,
		},
		{
			name: "異常系: 全候補でトランスポート失敗",
			req: &AuthorizeChargeRequest{
				CheckoutToken: "tok_abc",
				OrderID:       "ORDER-1",
				Capture:       boolPtr(false),
			},
			privateKey: "priv",
			publicKey:  "pub",
			setupMocks: func(mg *MockGateway) {
				mg.On("CreateCharge", mock.Anything, mock.Anything, "tok_abc").
					Return(nil, assert.AnError)
			},
			wantError: charge.ErrProviderUnreachable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockGateway := new(MockGateway)
			tt.setupMocks(mockGateway)

			tracer := otel.Tracer("test")
			logger := otelinfra.NewLogger(tracer)
			metrics, err := otelinfra.NewMetrics("test")
			require.NoError(t, err)

			svc := NewChargeApplicationService(
				mockGateway,
				nil,
				tt.publicKey,
				tt.privateKey,
				logger,
				metrics,
			)

			got, err := svc.AuthorizeCharge(context.Background(), tt.req)

			if tt.wantError != nil {
				assert.ErrorIs(t, err, tt.wantError)
				return
			}

			require.NoError(t, err)
			if tt.checkFunc != nil {
				tt.checkFunc(t, got)
			}
			mockGateway.AssertExpectations(t)
		})
	}
}

func TestChargeApplicationService_AuthorizeCharge_監査記録(t *testing.T) {
	t.Run("正常系: 与信とキャプチャーの試行が記録される", func(t *testing.T) {
		mockGateway := new(MockGateway)
		mockGateway.On("CreateCharge", mock.Anything, withScheme(credential.SchemePrivateOnly), "tok_abc").
			Return(resp(401, `{"message":"unauthorized"}`), nil)
		mockGateway.On("CreateCharge", mock.Anything, withScheme(credential.SchemePublicPrivate), "tok_abc").
			Return(resp(200, `{"id":"chg_1"}`), nil)
		mockGateway.On("CaptureCharge", mock.Anything, withScheme(credential.SchemePrivateOnly), "chg_1", mock.Anything).
			Return(resp(200, `{"id":"chg_1","status":"captured"}`), nil)

		mockRepo := new(MockAttemptRepository)
		mockRepo.On("Save", mock.Anything, mock.MatchedBy(func(a *attempt.Attempt) bool {
			return a.OrderID() == "ORDER-1"
		})).Return(nil).Times(3)

		tracer := otel.Tracer("test")
		logger := otelinfra.NewLogger(tracer)
		metrics, err := otelinfra.NewMetrics("test")
		require.NoError(t, err)

		svc := NewChargeApplicationService(mockGateway, mockRepo, "pub", "priv", logger, metrics)

		got, err := svc.AuthorizeCharge(context.Background(), &AuthorizeChargeRequest{
			CheckoutToken: "tok_abc",
			OrderID:       "ORDER-1",
			AmountCents:   f64Ptr(500),
		})
		require.NoError(t, err)
		assert.True(t, got.OK)
		mockRepo.AssertExpectations(t)
	})

	t.Run("正常系: 記録の失敗は決済結果に影響しない", func(t *testing.T) {
		mockGateway := new(MockGateway)
		mockGateway.On("CreateCharge", mock.Anything, mock.Anything, "tok_abc").
			Return(resp(200, `{"id":"chg_1"}`), nil)

		mockRepo := new(MockAttemptRepository)
		mockRepo.On("Save", mock.Anything, mock.Anything).Return(assert.AnError)

		tracer := otel.Tracer("test")
		logger := otelinfra.NewLogger(tracer)
		metrics, err := otelinfra.NewMetrics("test")
		require.NoError(t, err)

		svc := NewChargeApplicationService(mockGateway, mockRepo, "", "priv", logger, metrics)

		got, err := svc.AuthorizeCharge(context.Background(), &AuthorizeChargeRequest{
			CheckoutToken: "tok_abc",
			OrderID:       "ORDER-1",
			Capture:       boolPtr(false),
		})
		require.NoError(t, err)
		assert.True(t, got.OK)
	})
}
