package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/kevin07696/authnet-service/internal/domain"
)

// ProfileRepository persists the local mirror of gateway customer and payment profiles.
type ProfileRepository interface {
	// GetCustomerProfileByUserID returns domain.ErrCustomerProfileNotFound when the user has none.
	GetCustomerProfileByUserID(ctx context.Context, db DBTX, userID string) (*domain.CustomerProfile, error)

	// CreateCustomerProfile fails if the user already has a customer profile.
	CreateCustomerProfile(ctx context.Context, tx DBTX, profile *domain.CustomerProfile) error

	CreatePaymentProfile(ctx context.Context, tx DBTX, profile *domain.CustomerPaymentProfile) error

	// GetPaymentProfileForUser returns domain.ErrPaymentProfileNotFound when the
	// profile does not exist or belongs to another user.
	GetPaymentProfileForUser(ctx context.Context, db DBTX, id uuid.UUID, userID string) (*domain.CustomerPaymentProfile, error)

	// ListPaymentProfilesForUser returns the user's payment profiles, newest first.
	ListPaymentProfilesForUser(ctx context.Context, db DBTX, userID string) ([]*domain.CustomerPaymentProfile, error)
}
