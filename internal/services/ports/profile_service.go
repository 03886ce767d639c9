package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/kevin07696/authnet-service/internal/domain"
)

// CreatePaymentProfileRequest contains parameters for storing a card as a payment profile
type CreatePaymentProfileRequest struct {
	UserID  string
	Email   string // used only when the customer profile is created
	Payment domain.PaymentData
	Billing domain.BillingData
}

// NewCreatePaymentProfileRequest maps the cleaned customer payment form onto a request.
func NewCreatePaymentProfileRequest(userID string, cleaned map[string]string) *CreatePaymentProfileRequest {
	return &CreatePaymentProfileRequest{
		UserID: userID,
		Email:  cleaned["email"],
		Payment: domain.PaymentData{
			CardNumber:     cleaned["card_number"],
			ExpirationDate: cleaned["expiration_date"],
			CardCode:       cleaned["card_code"],
		},
		Billing: domain.BillingData{
			FirstName: cleaned["first_name"],
			LastName:  cleaned["last_name"],
			Company:   cleaned["company"],
			Address:   cleaned["address"],
			City:      cleaned["city"],
			State:     cleaned["state"],
			Zip:       cleaned["zip"],
			Country:   cleaned["country"],
			Phone:     cleaned["phone"],
			Fax:       cleaned["fax"],
		},
	}
}

// ProfileService defines the port for stored payment profile operations
type ProfileService interface {
	// CreatePaymentProfile stores one payment profile for the user, creating
	// the user's customer profile first if it does not exist yet.
	CreatePaymentProfile(ctx context.Context, req *CreatePaymentProfileRequest) (*domain.CustomerPaymentProfile, error)

	// GetPaymentProfile returns a payment profile owned by the user
	GetPaymentProfile(ctx context.Context, userID string, id uuid.UUID) (*domain.CustomerPaymentProfile, error)

	// ListPaymentProfiles returns the user's payment profiles, newest first
	ListPaymentProfiles(ctx context.Context, userID string) ([]*domain.CustomerPaymentProfile, error)
}
