package domain

import (
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kevin07696/authnet-service/pkg/timeutil"
)

// Response codes returned by the gateway in position 1 of an AIM reply
// and in x_response_code of a relay notification.
const (
	ResponseCodeApproved = "1"
	ResponseCodeDeclined = "2"
	ResponseCodeError    = "3"
	ResponseCodeHeld     = "4"
)

// TransactionResponse is a gateway reply normalized into named fields.
// It is built once from the raw key/value or delimited data and is only read afterwards.
type TransactionResponse struct {
	ID        uuid.UUID `json:"id"`
	CreatedAt time.Time `json:"created_at"`

	ResponseCode       string `json:"response_code"`
	ResponseSubcode    string `json:"response_subcode"`
	ResponseReasonCode string `json:"response_reason_code"`
	ResponseReasonText string `json:"response_reason_text"`
	AuthCode           string `json:"auth_code"`
	AVSCode            string `json:"avs_code"`
	TransID            string `json:"trans_id"`
	InvoiceNum         string `json:"invoice_num"`
	Description        string `json:"description"`
	Amount             string `json:"amount"`
	Method             string `json:"method"`
	Type               string `json:"type"`
	CustID             string `json:"cust_id"`

	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Company   string `json:"company"`
	Address   string `json:"address"`
	City      string `json:"city"`
	State     string `json:"state"`
	Zip       string `json:"zip"`
	Country   string `json:"country"`
	Phone     string `json:"phone"`
	Fax       string `json:"fax"`
	Email     string `json:"email"`

	ShipToFirstName string `json:"ship_to_first_name"`
	ShipToLastName  string `json:"ship_to_last_name"`
	ShipToCompany   string `json:"ship_to_company"`
	ShipToAddress   string `json:"ship_to_address"`
	ShipToCity      string `json:"ship_to_city"`
	ShipToState     string `json:"ship_to_state"`
	ShipToZip       string `json:"ship_to_zip"`
	ShipToCountry   string `json:"ship_to_country"`

	Tax       string `json:"tax"`
	Duty      string `json:"duty"`
	Freight   string `json:"freight"`
	TaxExempt string `json:"tax_exempt"`
	PONum     string `json:"po_num"`

	MD5Hash          string `json:"MD5_Hash"`
	CardCodeResponse string `json:"card_code_response"`
	CAVVResponse     string `json:"cavv_response"`
	AccountNumber    string `json:"account_number"`
	CardType         string `json:"card_type"`
}

// delimitedFieldOrder is the positional layout of a delimited AIM reply (1-based positions 1..40).
var delimitedFieldOrder = []string{
	"response_code", "response_subcode", "response_reason_code", "response_reason_text",
	"auth_code", "avs_code", "trans_id", "invoice_num", "description", "amount",
	"method", "type", "cust_id", "first_name", "last_name", "company", "address",
	"city", "state", "zip", "country", "phone", "fax", "email",
	"ship_to_first_name", "ship_to_last_name", "ship_to_company", "ship_to_address",
	"ship_to_city", "ship_to_state", "ship_to_zip", "ship_to_country",
	"tax", "duty", "freight", "tax_exempt", "po_num", "MD5_Hash",
	"card_code_response", "cavv_response",
}

// Positions past the merchant-defined block (41..50) that carry card details.
const (
	accountNumberPosition = 51
	cardTypePosition      = 52
)

// NewTransactionResponseFromValues builds a response from relay notification data.
// The x_ prefix the gateway puts on every key is stripped and wins over the
// same key sent without it; unknown keys are ignored.
func NewTransactionResponseFromValues(values url.Values) TransactionResponse {
	fields := make(map[string]string, len(values))
	for key, vals := range values {
		if len(vals) == 0 || strings.HasPrefix(key, "x_") {
			continue
		}
		fields[key] = vals[0]
	}
	for key, vals := range values {
		if len(vals) == 0 || !strings.HasPrefix(key, "x_") {
			continue
		}
		fields[strings.TrimPrefix(key, "x_")] = vals[0]
	}
	return newTransactionResponse(fields)
}

// NewTransactionResponseFromFields builds a response from a split delimited AIM reply.
func NewTransactionResponseFromFields(parts []string) TransactionResponse {
	fields := make(map[string]string, len(delimitedFieldOrder)+2)
	for i, name := range delimitedFieldOrder {
		if i < len(parts) {
			fields[name] = parts[i]
		}
	}
	if len(parts) >= accountNumberPosition {
		fields["account_number"] = parts[accountNumberPosition-1]
	}
	if len(parts) >= cardTypePosition {
		fields["card_type"] = parts[cardTypePosition-1]
	}
	return newTransactionResponse(fields)
}

func newTransactionResponse(f map[string]string) TransactionResponse {
	return TransactionResponse{
		ID:                 uuid.New(),
		CreatedAt:          timeutil.Now(),
		ResponseCode:       f["response_code"],
		ResponseSubcode:    f["response_subcode"],
		ResponseReasonCode: f["response_reason_code"],
		ResponseReasonText: f["response_reason_text"],
		AuthCode:           f["auth_code"],
		AVSCode:            f["avs_code"],
		TransID:            f["trans_id"],
		InvoiceNum:         f["invoice_num"],
		Description:        f["description"],
		Amount:             f["amount"],
		Method:             f["method"],
		Type:               f["type"],
		CustID:             f["cust_id"],
		FirstName:          f["first_name"],
		LastName:           f["last_name"],
		Company:            f["company"],
		Address:            f["address"],
		City:               f["city"],
		State:              f["state"],
		Zip:                f["zip"],
		Country:            f["country"],
		Phone:              f["phone"],
		Fax:                f["fax"],
		Email:              f["email"],
		ShipToFirstName:    f["ship_to_first_name"],
		ShipToLastName:     f["ship_to_last_name"],
		ShipToCompany:      f["ship_to_company"],
		ShipToAddress:      f["ship_to_address"],
		ShipToCity:         f["ship_to_city"],
		ShipToState:        f["ship_to_state"],
		ShipToZip:          f["ship_to_zip"],
		ShipToCountry:      f["ship_to_country"],
		Tax:                f["tax"],
		Duty:               f["duty"],
		Freight:            f["freight"],
		TaxExempt:          f["tax_exempt"],
		PONum:              f["po_num"],
		MD5Hash:            f["MD5_Hash"],
		CardCodeResponse:   f["card_code_response"],
		CAVVResponse:       f["cavv_response"],
		AccountNumber:      f["account_number"],
		CardType:           f["card_type"],
	}
}

// IsApproved reports whether the gateway approved the transaction.
func (r TransactionResponse) IsApproved() bool {
	return r.ResponseCode == ResponseCodeApproved
}

// IsHeldForReview reports whether the gateway held the transaction for manual review.
func (r TransactionResponse) IsHeldForReview() bool {
	return r.ResponseCode == ResponseCodeHeld
}

// AmountDecimal parses Amount. An unparsable or empty amount yields zero and false.
func (r TransactionResponse) AmountDecimal() (decimal.Decimal, bool) {
	d, err := decimal.NewFromString(r.Amount)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// AmountCents is the amount in minor units, used for revenue metrics.
func (r TransactionResponse) AmountCents() int64 {
	d, ok := r.AmountDecimal()
	if !ok {
		return 0
	}
	return d.Shift(2).Round(0).IntPart()
}
