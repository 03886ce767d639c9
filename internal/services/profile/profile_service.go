// Package profile stores cards as gateway payment profiles.
package profile

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	adapterports "github.com/kevin07696/authnet-service/internal/adapters/ports"
	"github.com/kevin07696/authnet-service/internal/domain"
	dbports "github.com/kevin07696/authnet-service/internal/domain/ports"
	"github.com/kevin07696/authnet-service/internal/services/ports"
	"github.com/kevin07696/authnet-service/pkg/observability"
	"github.com/kevin07696/authnet-service/pkg/timeutil"
	"go.uber.org/zap"
)

// profileService implements the ProfileService port
type profileService struct {
	db      dbports.DBPort
	repo    dbports.ProfileRepository
	gateway adapterports.ProfileGateway
	logger  *zap.Logger
}

// NewProfileService creates a new profile service
func NewProfileService(
	db dbports.DBPort,
	repo dbports.ProfileRepository,
	gateway adapterports.ProfileGateway,
	logger *zap.Logger,
) ports.ProfileService {
	return &profileService{
		db:      db,
		repo:    repo,
		gateway: gateway,
		logger:  logger,
	}
}

// CreatePaymentProfile creates exactly one payment profile per call. The
// customer profile is created lazily together with its first payment profile.
func (s *profileService) CreatePaymentProfile(ctx context.Context, req *ports.CreatePaymentProfileRequest) (*domain.CustomerPaymentProfile, error) {
	if req == nil || req.UserID == "" {
		return nil, domain.ErrIdentityMissing
	}

	s.logger.Info("Creating payment profile",
		zap.String("user_id", req.UserID),
		zap.String("card_last_four", req.Payment.LastFour()),
	)

	var (
		created     *domain.CustomerPaymentProfile
		newCustomer bool
	)
	err := s.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		customer, err := s.repo.GetCustomerProfileByUserID(ctx, tx, req.UserID)
		switch {
		case err == nil:
			created, err = s.addToExisting(ctx, tx, customer, req)
			return err
		case domain.IsDomainError(err, domain.ErrorCodeCustomerProfileNotFound):
			newCustomer = true
			created, err = s.createWithCustomer(ctx, tx, req)
			return err
		default:
			return fmt.Errorf("failed to look up customer profile: %w", err)
		}
	})
	if err != nil {
		s.logger.Error("Failed to create payment profile",
			zap.String("user_id", req.UserID),
			zap.Error(err),
		)
		return nil, err
	}

	observability.RecordPaymentProfileCreated(newCustomer)
	s.logger.Info("Payment profile created",
		zap.String("user_id", req.UserID),
		zap.String("payment_profile_id", created.PaymentProfileID),
		zap.Bool("new_customer_profile", newCustomer),
	)
	return created, nil
}

func (s *profileService) addToExisting(ctx context.Context, tx pgx.Tx, customer *domain.CustomerProfile, req *ports.CreatePaymentProfileRequest) (*domain.CustomerPaymentProfile, error) {
	gatewayID, err := s.gateway.CreateCustomerPaymentProfile(ctx, customer.ProfileID, req.Payment, req.Billing)
	if err != nil {
		return nil, domain.WrapError(domain.ErrorCodeGatewayError, "failed to create payment profile at gateway", err)
	}

	profile := domain.NewCustomerPaymentProfile(customer.ID, gatewayID, req.Payment, req.Billing)
	if err := s.repo.CreatePaymentProfile(ctx, tx, profile); err != nil {
		return nil, fmt.Errorf("failed to store payment profile: %w", err)
	}
	return profile, nil
}

func (s *profileService) createWithCustomer(ctx context.Context, tx pgx.Tx, req *ports.CreatePaymentProfileRequest) (*domain.CustomerPaymentProfile, error) {
	result, err := s.gateway.CreateCustomerProfile(ctx, adapterports.CreateCustomerProfileRequest{
		MerchantCustomerID: req.UserID,
		Email:              req.Email,
		Payment:            req.Payment,
		Billing:            req.Billing,
	})
	if err != nil {
		return nil, domain.WrapError(domain.ErrorCodeGatewayError, "failed to create customer profile at gateway", err)
	}
	if len(result.PaymentProfileIDs) != 1 {
		return nil, domain.NewDomainError(domain.ErrorCodeGatewayError,
			fmt.Sprintf("gateway returned %d payment profiles for a new customer profile", len(result.PaymentProfileIDs)))
	}

	customer := &domain.CustomerProfile{
		ID:        uuid.New(),
		UserID:    req.UserID,
		ProfileID: result.CustomerProfileID,
		CreatedAt: timeutil.Now(),
	}
	if err := s.repo.CreateCustomerProfile(ctx, tx, customer); err != nil {
		s.logger.Warn("Gateway customer profile left without a local record",
			zap.String("user_id", req.UserID),
			zap.String("customer_profile_id", result.CustomerProfileID),
		)
		return nil, fmt.Errorf("failed to store customer profile: %w", err)
	}

	profile := domain.NewCustomerPaymentProfile(customer.ID, result.PaymentProfileIDs[0], req.Payment, req.Billing)
	if err := s.repo.CreatePaymentProfile(ctx, tx, profile); err != nil {
		return nil, fmt.Errorf("failed to store payment profile: %w", err)
	}
	return profile, nil
}

// GetPaymentProfile returns domain.ErrPaymentProfileNotFound for profiles of other users.
func (s *profileService) GetPaymentProfile(ctx context.Context, userID string, id uuid.UUID) (*domain.CustomerPaymentProfile, error) {
	if userID == "" {
		return nil, domain.ErrIdentityMissing
	}
	return s.repo.GetPaymentProfileForUser(ctx, s.db.GetDB(), id, userID)
}

func (s *profileService) ListPaymentProfiles(ctx context.Context, userID string) ([]*domain.CustomerPaymentProfile, error) {
	if userID == "" {
		return nil, domain.ErrIdentityMissing
	}
	return s.repo.ListPaymentProfilesForUser(ctx, s.db.GetDB(), userID)
}
