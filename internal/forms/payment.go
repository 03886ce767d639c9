package forms

import "net/url"

const (
	PaymentFormName         = "payment_form"
	BillingFormName         = "billing_form"
	ShippingFormName        = "shipping_form"
	CustomerPaymentFormName = "form"
)

// NewPaymentForm is the card form of an AIM submission.
func NewPaymentForm(initial url.Values) Form {
	return NewBaseForm(PaymentFormName, []Field{
		{Name: "card_num", Label: "Card Number", Required: true, Clean: CleanCardNumber},
		{Name: "exp_date", Label: "Expiration Date", Required: true, Clean: CleanExpiryMMYY},
		{Name: "card_code", Label: "Card Security Code", Required: true, Clean: CleanCardCode},
	}, initial)
}

// NewPaymentFormWithAmount also asks the customer for the amount.
func NewPaymentFormWithAmount(initial url.Values) Form {
	form := NewPaymentForm(initial).(*BaseForm)
	form.fields = append(form.fields, Field{Name: "amount", Label: "Amount", Required: true, Clean: CleanAmount})
	return form
}

// NewCustomerPaymentForm is the card plus bill-to form used when storing a payment profile.
// The optional email is sent only when the customer profile is created.
func NewCustomerPaymentForm(initial url.Values) Form {
	fields := []Field{
		{Name: "card_number", Label: "Card Number", Required: true, Clean: CleanCardNumber},
		{Name: "expiration_date", Label: "Expiration Date", Required: true, Clean: CleanExpiryYearMonth},
		{Name: "card_code", Label: "Card Security Code", Required: true, Clean: CleanCardCode},
	}
	fields = append(fields, NewBillingAddressForm(nil).Fields()...)
	return NewBaseForm(CustomerPaymentFormName, fields, initial)
}
