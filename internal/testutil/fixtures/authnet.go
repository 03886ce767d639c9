// Package fixtures builds test data for the gateway flows.
package fixtures

import (
	"net/url"

	"github.com/kevin07696/authnet-service/internal/adapters/authnet"
	"github.com/kevin07696/authnet-service/internal/domain"
)

const (
	LoginID   = "L1"
	MD5Secret = "K"
	TransID   = "T1"
	Amount    = "10.00"
)

// ApprovedResponse returns an approved AIM reply.
func ApprovedResponse() domain.TransactionResponse {
	return domain.NewTransactionResponseFromFields([]string{
		"1", "1", "1", "This transaction has been approved.", "AUTH01", "Y", TransID, "", "", Amount,
	})
}

// DeclinedResponse returns a declined AIM reply.
func DeclinedResponse() domain.TransactionResponse {
	return domain.NewTransactionResponseFromFields([]string{
		"2", "1", "2", "This transaction has been declined.", "", "P", "0", "", "", Amount,
	})
}

// RelayNotification returns relay POST data signed with MD5Secret.
func RelayNotification(responseCode string) url.Values {
	return url.Values{
		"x_response_code":        {responseCode},
		"x_response_reason_code": {"1"},
		"x_response_reason_text": {"This transaction has been approved."},
		"x_trans_id":             {TransID},
		"x_amount":               {Amount},
		"x_invoice_num":          {"INV-1"},
		"x_MD5_Hash":             {authnet.ComputeHash(MD5Secret, LoginID, TransID, Amount)},
	}
}

// PaymentFormValues returns a valid AIM card submission.
func PaymentFormValues() url.Values {
	return url.Values{
		"card_num":  {"4111111111111111"},
		"exp_date":  {"12/2099"},
		"card_code": {"123"},
	}
}

// BillingFormValues returns a valid bill-to submission.
func BillingFormValues() url.Values {
	return url.Values{
		"first_name": {"Jane"},
		"last_name":  {"Doe"},
		"address":    {"1 Main St"},
		"city":       {"Bellevue"},
		"state":      {"WA"},
		"zip":        {"98004"},
		"country":    {"US"},
	}
}

// CustomerPaymentFormValues returns a valid profile-creation submission.
func CustomerPaymentFormValues() url.Values {
	v := BillingFormValues()
	v.Set("card_number", "4111111111111111")
	v.Set("expiration_date", "12/2099")
	v.Set("card_code", "123")
	return v
}

// Merge combines value sets; later sets win.
func Merge(sets ...url.Values) url.Values {
	out := url.Values{}
	for _, s := range sets {
		for k, v := range s {
			out[k] = append([]string(nil), v...)
		}
	}
	return out
}
