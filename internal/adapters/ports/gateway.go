package ports

import (
	"context"

	"github.com/kevin07696/authnet-service/internal/domain"
)

// PaymentGateway submits a single AIM transaction.
//
// data holds the combined cleaned form values and extra holds merchant-supplied
// fields such as amount or invoice_num; keys are unprefixed. A returned error
// means no usable reply was obtained. A reply that declines is not an error.
type PaymentGateway interface {
	ProcessPayment(ctx context.Context, data, extra map[string]string) (domain.TransactionResponse, error)
}

// ProfileGateway manages stored customer and payment profiles on the gateway.
type ProfileGateway interface {
	// CreateCustomerProfile creates a customer profile with exactly one payment
	// profile and returns both gateway identifiers.
	CreateCustomerProfile(ctx context.Context, req CreateCustomerProfileRequest) (*CreateCustomerProfileResult, error)

	// CreateCustomerPaymentProfile adds a payment profile to an existing customer profile.
	CreateCustomerPaymentProfile(ctx context.Context, customerProfileID string, payment domain.PaymentData, billing domain.BillingData) (string, error)
}

// CreateCustomerProfileRequest carries the local user reference and the first payment profile.
type CreateCustomerProfileRequest struct {
	MerchantCustomerID string
	Email              string
	Payment            domain.PaymentData
	Billing            domain.BillingData
}

// CreateCustomerProfileResult holds the identifiers assigned by the gateway.
type CreateCustomerProfileResult struct {
	CustomerProfileID string
	PaymentProfileIDs []string
}
