package mocks

import (
	"context"

	"github.com/kevin07696/authnet-service/internal/adapters/ports"
	"github.com/kevin07696/authnet-service/internal/domain"
	"github.com/stretchr/testify/mock"
)

// MockPaymentGateway is a testify mock of ports.PaymentGateway.
type MockPaymentGateway struct {
	mock.Mock
}

var _ ports.PaymentGateway = (*MockPaymentGateway)(nil)

func (m *MockPaymentGateway) ProcessPayment(ctx context.Context, data, extra map[string]string) (domain.TransactionResponse, error) {
	args := m.Called(ctx, data, extra)
	return args.Get(0).(domain.TransactionResponse), args.Error(1)
}

// MockProfileGateway is a testify mock of ports.ProfileGateway.
type MockProfileGateway struct {
	mock.Mock
}

var _ ports.ProfileGateway = (*MockProfileGateway)(nil)

func (m *MockProfileGateway) CreateCustomerProfile(ctx context.Context, req ports.CreateCustomerProfileRequest) (*ports.CreateCustomerProfileResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ports.CreateCustomerProfileResult), args.Error(1)
}

func (m *MockProfileGateway) CreateCustomerPaymentProfile(ctx context.Context, customerProfileID string, payment domain.PaymentData, billing domain.BillingData) (string, error) {
	args := m.Called(ctx, customerProfileID, payment, billing)
	return args.String(0), args.Error(1)
}
