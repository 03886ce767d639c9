package authnet

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/kevin07696/authnet-service/internal/adapters/ports"
	"github.com/kevin07696/authnet-service/internal/domain"
	errs "github.com/kevin07696/authnet-service/pkg/errors"
	"github.com/kevin07696/authnet-service/pkg/observability"
	"go.uber.org/zap"
)

const (
	cimNamespace = "AnetApi/xml/v1/schema/AnetApiSchema.xsd"
	resultCodeOk = "Ok"
	utf8BOM      = "\xef\xbb\xbf"
)

type merchantAuthentication struct {
	Name           string `xml:"name"`
	TransactionKey string `xml:"transactionKey"`
}

type billTo struct {
	FirstName   string `xml:"firstName,omitempty"`
	LastName    string `xml:"lastName,omitempty"`
	Company     string `xml:"company,omitempty"`
	Address     string `xml:"address,omitempty"`
	City        string `xml:"city,omitempty"`
	State       string `xml:"state,omitempty"`
	Zip         string `xml:"zip,omitempty"`
	Country     string `xml:"country,omitempty"`
	PhoneNumber string `xml:"phoneNumber,omitempty"`
	FaxNumber   string `xml:"faxNumber,omitempty"`
}

type creditCard struct {
	CardNumber     string `xml:"cardNumber"`
	ExpirationDate string `xml:"expirationDate"`
	CardCode       string `xml:"cardCode,omitempty"`
}

type paymentType struct {
	CreditCard creditCard `xml:"creditCard"`
}

type paymentProfile struct {
	BillTo  billTo      `xml:"billTo"`
	Payment paymentType `xml:"payment"`
}

type customerProfile struct {
	MerchantCustomerID string           `xml:"merchantCustomerId,omitempty"`
	Email              string           `xml:"email,omitempty"`
	PaymentProfiles    []paymentProfile `xml:"paymentProfiles"`
}

type createCustomerProfileRequest struct {
	XMLName                xml.Name               `xml:"createCustomerProfileRequest"`
	Xmlns                  string                 `xml:"xmlns,attr"`
	MerchantAuthentication merchantAuthentication `xml:"merchantAuthentication"`
	Profile                customerProfile        `xml:"profile"`
	ValidationMode         string                 `xml:"validationMode"`
}

type createCustomerPaymentProfileRequest struct {
	XMLName                xml.Name               `xml:"createCustomerPaymentProfileRequest"`
	Xmlns                  string                 `xml:"xmlns,attr"`
	MerchantAuthentication merchantAuthentication `xml:"merchantAuthentication"`
	CustomerProfileID      string                 `xml:"customerProfileId"`
	PaymentProfile         paymentProfile         `xml:"paymentProfile"`
	ValidationMode         string                 `xml:"validationMode"`
}

type cimMessage struct {
	Code string `xml:"code"`
	Text string `xml:"text"`
}

type cimMessages struct {
	ResultCode string       `xml:"resultCode"`
	Message    []cimMessage `xml:"message"`
}

type createCustomerProfileResponse struct {
	Messages                     cimMessages `xml:"messages"`
	CustomerProfileID            string      `xml:"customerProfileId"`
	CustomerPaymentProfileIDList []string    `xml:"customerPaymentProfileIdList>numericString"`
	ValidationDirectResponseList []string    `xml:"validationDirectResponseList>string"`
}

type createCustomerPaymentProfileResponse struct {
	Messages                 cimMessages `xml:"messages"`
	CustomerProfileID        string      `xml:"customerProfileId"`
	CustomerPaymentProfileID string      `xml:"customerPaymentProfileId"`
	ValidationDirectResponse string      `xml:"validationDirectResponse"`
}

// cimAdapter implements ports.ProfileGateway over the CIM XML API.
type cimAdapter struct {
	config     *Config
	httpClient ports.HTTPClient
	logger     *zap.Logger
}

// NewCIMAdapter creates a CIM adapter. A nil client gets a pooled default.
func NewCIMAdapter(config *Config, httpClient ports.HTTPClient, logger *zap.Logger) ports.ProfileGateway {
	if httpClient == nil {
		httpClient = newHTTPClient(config.Timeout)
	}
	return &cimAdapter{
		config:     config,
		httpClient: httpClient,
		logger:     logger,
	}
}

func (a *cimAdapter) auth() merchantAuthentication {
	return merchantAuthentication{Name: a.config.LoginID, TransactionKey: a.config.TranKey}
}

// CreateCustomerProfile creates a customer profile holding one payment profile.
func (a *cimAdapter) CreateCustomerProfile(ctx context.Context, req ports.CreateCustomerProfileRequest) (*ports.CreateCustomerProfileResult, error) {
	body := createCustomerProfileRequest{
		Xmlns:                  cimNamespace,
		MerchantAuthentication: a.auth(),
		Profile: customerProfile{
			MerchantCustomerID: req.MerchantCustomerID,
			Email:              req.Email,
			PaymentProfiles:    []paymentProfile{newPaymentProfile(req.Payment, req.Billing)},
		},
		ValidationMode: a.config.validationMode(),
	}

	a.logger.Info("Creating CIM customer profile",
		zap.String("merchant_customer_id", req.MerchantCustomerID),
		zap.String("card_last_four", req.Payment.LastFour()),
	)

	var resp createCustomerProfileResponse
	if err := a.call(ctx, "createCustomerProfile", body, &resp); err != nil {
		return nil, err
	}
	if err := checkMessages(resp.Messages); err != nil {
		a.logger.Warn("CIM rejected customer profile", zap.Error(err))
		return nil, err
	}
	if resp.CustomerProfileID == "" || len(resp.CustomerPaymentProfileIDList) == 0 {
		return nil, errs.NewGatewayError("MALFORMED", "response is missing profile identifiers", errs.CategorySystemError)
	}

	a.logger.Info("CIM customer profile created",
		zap.String("customer_profile_id", resp.CustomerProfileID),
		zap.Int("payment_profiles", len(resp.CustomerPaymentProfileIDList)),
	)

	return &ports.CreateCustomerProfileResult{
		CustomerProfileID: resp.CustomerProfileID,
		PaymentProfileIDs: resp.CustomerPaymentProfileIDList,
	}, nil
}

// CreateCustomerPaymentProfile adds a payment profile to an existing customer profile.
func (a *cimAdapter) CreateCustomerPaymentProfile(ctx context.Context, customerProfileID string, payment domain.PaymentData, billing domain.BillingData) (string, error) {
	body := createCustomerPaymentProfileRequest{
		Xmlns:                  cimNamespace,
		MerchantAuthentication: a.auth(),
		CustomerProfileID:      customerProfileID,
		PaymentProfile:         newPaymentProfile(payment, billing),
		ValidationMode:         a.config.validationMode(),
	}

	a.logger.Info("Creating CIM payment profile",
		zap.String("customer_profile_id", customerProfileID),
		zap.String("card_last_four", payment.LastFour()),
	)

	var resp createCustomerPaymentProfileResponse
	if err := a.call(ctx, "createCustomerPaymentProfile", body, &resp); err != nil {
		return "", err
	}
	if err := checkMessages(resp.Messages); err != nil {
		a.logger.Warn("CIM rejected payment profile", zap.Error(err))
		return "", err
	}
	if resp.CustomerPaymentProfileID == "" {
		return "", errs.NewGatewayError("MALFORMED", "response is missing payment profile id", errs.CategorySystemError)
	}
	return resp.CustomerPaymentProfileID, nil
}

func (a *cimAdapter) call(ctx context.Context, op string, reqBody, respBody interface{}) error {
	payload, err := xml.Marshal(reqBody)
	if err != nil {
		return errs.NewGatewayError("REQUEST", "failed to encode request", errs.CategorySystemError).WithCause(err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, a.config.cimURL(), bytes.NewReader(append([]byte(xml.Header), payload...)))
	if err != nil {
		return errs.NewGatewayError("REQUEST", "failed to create request", errs.CategorySystemError).WithCause(err)
	}
	httpReq.Header.Set("Content-Type", "text/xml; charset=utf-8")

	startTime := time.Now()
	httpResp, err := a.httpClient.Do(httpReq)
	observability.ObserveGatewayRequest("cim", time.Since(startTime).Seconds())
	if err != nil {
		a.logger.Error("Failed to send CIM request",
			zap.String("operation", op),
			zap.Error(err),
		)
		return errs.NewGatewayError("NETWORK", "failed to send request", errs.CategoryNetworkError).WithCause(err)
	}
	defer httpResp.Body.Close()

	raw, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return errs.NewGatewayError("NETWORK", "failed to read response", errs.CategoryNetworkError).WithCause(err)
	}
	if httpResp.StatusCode != http.StatusOK {
		return errs.NewGatewayError("HTTP_STATUS", fmt.Sprintf("unexpected status %d", httpResp.StatusCode), errs.CategoryNetworkError)
	}

	raw = bytes.TrimPrefix(raw, []byte(utf8BOM))
	if err := xml.Unmarshal(raw, respBody); err != nil {
		a.logger.Error("Failed to decode CIM response",
			zap.String("operation", op),
			zap.Error(err),
		)
		return errs.NewGatewayError("MALFORMED", "failed to decode response", errs.CategorySystemError).WithCause(err)
	}
	return nil
}

func checkMessages(m cimMessages) error {
	if m.ResultCode == resultCodeOk {
		return nil
	}
	code, text := "UNKNOWN", "request failed"
	if len(m.Message) > 0 {
		code, text = m.Message[0].Code, m.Message[0].Text
	}
	return errs.NewGatewayError(code, "profile request rejected", errs.CategoryDeclined).WithGatewayMessage(text)
}

func newPaymentProfile(payment domain.PaymentData, billing domain.BillingData) paymentProfile {
	return paymentProfile{
		BillTo: billTo{
			FirstName:   billing.FirstName,
			LastName:    billing.LastName,
			Company:     billing.Company,
			Address:     billing.Address,
			City:        billing.City,
			State:       billing.State,
			Zip:         billing.Zip,
			Country:     billing.Country,
			PhoneNumber: billing.Phone,
			FaxNumber:   billing.Fax,
		},
		Payment: paymentType{CreditCard: creditCard{
			CardNumber:     payment.CardNumber,
			ExpirationDate: payment.ExpirationDate,
			CardCode:       payment.CardCode,
		}},
	}
}
