package handler

import (
	"context"

	"github.com/stretchr/testify/mock"

	"storefront-server/internal/domain/attempt"
	"storefront-server/internal/domain/charge"
	"storefront-server/internal/domain/checkout"
	"storefront-server/internal/domain/credential"
)

// MockChargeGateway モックの後払いプロバイダーゲートウェイ
type MockChargeGateway struct {
	mock.Mock
}

func (m *MockChargeGateway) CreateCharge(ctx context.Context, auth credential.AuthCandidate, checkoutToken string) (*charge.ProviderResponse, error) {
	args := m.Called(ctx, auth, checkoutToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*charge.ProviderResponse), args.Error(1)
}

func (m *MockChargeGateway) CaptureCharge(ctx context.Context, auth credential.AuthCandidate, chargeID string, req *charge.CaptureRequest) (*charge.ProviderResponse, error) {
	args := m.Called(ctx, auth, chargeID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*charge.ProviderResponse), args.Error(1)
}

// MockSessionGateway モックのカード決済ゲートウェイ
type MockSessionGateway struct {
	mock.Mock
}

func (m *MockSessionGateway) CreateSession(ctx context.Context, req *checkout.SessionRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
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
