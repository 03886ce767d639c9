package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/kevin07696/authnet-service/pkg/timeutil"
)

// CustomerProfile mirrors a gateway customer profile. There is at most one per user.
type CustomerProfile struct {
	ID        uuid.UUID `json:"id"`
	UserID    string    `json:"user_id"`
	ProfileID string    `json:"profile_id"` // gateway customerProfileId
	CreatedAt time.Time `json:"created_at"`
}

// CustomerPaymentProfile mirrors a gateway payment profile owned by a CustomerProfile.
// Only the last four digits of the card are kept.
type CustomerPaymentProfile struct {
	ID                uuid.UUID `json:"id"`
	CustomerProfileID uuid.UUID `json:"customer_profile_id"`
	PaymentProfileID  string    `json:"payment_profile_id"` // gateway customerPaymentProfileId
	CardLastFour      string    `json:"card_last_four"`
	ExpirationDate    string    `json:"expiration_date"` // YYYY-MM

	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Company   string `json:"company,omitempty"`
	Address   string `json:"address"`
	City      string `json:"city"`
	State     string `json:"state"`
	Zip       string `json:"zip"`
	Country   string `json:"country"`
	Phone     string `json:"phone,omitempty"`
	Fax       string `json:"fax,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// PaymentData is the card portion of a profile-creation submission.
type PaymentData struct {
	CardNumber     string
	ExpirationDate string // YYYY-MM
	CardCode       string
}

// BillingData is the bill-to portion of a profile-creation submission.
type BillingData struct {
	FirstName string
	LastName  string
	Company   string
	Address   string
	City      string
	State     string
	Zip       string
	Country   string
	Phone     string
	Fax       string
}

// LastFour returns the last four digits of the card number.
func (p PaymentData) LastFour() string {
	if len(p.CardNumber) <= 4 {
		return p.CardNumber
	}
	return p.CardNumber[len(p.CardNumber)-4:]
}

// NewCustomerPaymentProfile builds the local mirror of a gateway payment profile.
func NewCustomerPaymentProfile(customerProfileID uuid.UUID, gatewayID string, payment PaymentData, billing BillingData) *CustomerPaymentProfile {
	return &CustomerPaymentProfile{
		ID:                uuid.New(),
		CustomerProfileID: customerProfileID,
		PaymentProfileID:  gatewayID,
		CardLastFour:      payment.LastFour(),
		ExpirationDate:    payment.ExpirationDate,
		FirstName:         billing.FirstName,
		LastName:          billing.LastName,
		Company:           billing.Company,
		Address:           billing.Address,
		City:              billing.City,
		State:             billing.State,
		Zip:               billing.Zip,
		Country:           billing.Country,
		Phone:             billing.Phone,
		Fax:               billing.Fax,
		CreatedAt:         timeutil.Now(),
	}
}
