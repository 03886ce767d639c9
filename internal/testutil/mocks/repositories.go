package mocks

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/kevin07696/authnet-service/internal/domain"
	"github.com/kevin07696/authnet-service/internal/domain/ports"
	"github.com/stretchr/testify/mock"
)

// MockResponseRepository is a testify mock of ports.ResponseRepository.
type MockResponseRepository struct {
	mock.Mock
}

var _ ports.ResponseRepository = (*MockResponseRepository)(nil)

func (m *MockResponseRepository) Create(ctx context.Context, db ports.DBTX, resp *domain.TransactionResponse) error {
	args := m.Called(ctx, db, resp)
	return args.Error(0)
}

func (m *MockResponseRepository) GetByID(ctx context.Context, db ports.DBTX, id uuid.UUID) (*domain.TransactionResponse, error) {
	args := m.Called(ctx, db, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TransactionResponse), args.Error(1)
}

// InMemoryProfileRepository is a map-backed ports.ProfileRepository that
// enforces one customer profile per user like the real schema.
type InMemoryProfileRepository struct {
	mu        sync.Mutex
	customers map[string]*domain.CustomerProfile
	payments  []*domain.CustomerPaymentProfile
	// FailCreatePayment makes CreatePaymentProfile return this error.
	FailCreatePayment error
}

var _ ports.ProfileRepository = (*InMemoryProfileRepository)(nil)

func NewInMemoryProfileRepository() *InMemoryProfileRepository {
	return &InMemoryProfileRepository{customers: make(map[string]*domain.CustomerProfile)}
}

func (r *InMemoryProfileRepository) GetCustomerProfileByUserID(ctx context.Context, db ports.DBTX, userID string) (*domain.CustomerProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.customers[userID]
	if !ok {
		return nil, domain.ErrCustomerProfileNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *InMemoryProfileRepository) CreateCustomerProfile(ctx context.Context, tx ports.DBTX, profile *domain.CustomerProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.customers[profile.UserID]; ok {
		return domain.WrapError(domain.ErrorCodeDatabaseError, "customer profile already exists", nil)
	}
	cp := *profile
	r.customers[profile.UserID] = &cp
	return nil
}

func (r *InMemoryProfileRepository) CreatePaymentProfile(ctx context.Context, tx ports.DBTX, profile *domain.CustomerPaymentProfile) error {
	if r.FailCreatePayment != nil {
		return r.FailCreatePayment
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *profile
	r.payments = append(r.payments, &cp)
	return nil
}

func (r *InMemoryProfileRepository) GetPaymentProfileForUser(ctx context.Context, db ports.DBTX, id uuid.UUID, userID string) (*domain.CustomerPaymentProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	owner, ok := r.customers[userID]
	if !ok {
		return nil, domain.ErrPaymentProfileNotFound
	}
	for _, p := range r.payments {
		if p.ID == id && p.CustomerProfileID == owner.ID {
			cp := *p
			return &cp, nil
		}
	}
	return nil, domain.ErrPaymentProfileNotFound
}

func (r *InMemoryProfileRepository) ListPaymentProfilesForUser(ctx context.Context, db ports.DBTX, userID string) ([]*domain.CustomerPaymentProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.CustomerPaymentProfile, 0)
	owner, ok := r.customers[userID]
	if !ok {
		return out, nil
	}
	for _, p := range r.payments {
		if p.CustomerProfileID == owner.ID {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// CustomerProfileCount returns how many customer profiles exist.
func (r *InMemoryProfileRepository) CustomerProfileCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.customers)
}

// PaymentProfileCount returns how many payment profiles exist.
func (r *InMemoryProfileRepository) PaymentProfileCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.payments)
}
