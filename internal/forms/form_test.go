package forms

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixClock(t *testing.T, at time.Time) {
	t.Helper()
	orig := now
	now = func() time.Time { return at }
	t.Cleanup(func() { now = orig })
}

func validPaymentValues() url.Values {
	return url.Values{
		"card_num":  {"4111 1111 1111 1111"},
		"exp_date":  {"12/2030"},
		"card_code": {"123"},
	}
}

func validBillingValues() url.Values {
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

func TestPaymentForm_Valid(t *testing.T) {
	fixClock(t, time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC))

	form := NewPaymentForm(nil)
	form.Bind(validPaymentValues())

	require.True(t, form.IsValid(), form.Errors())
	assert.Equal(t, map[string]string{
		"card_num":  "4111111111111111",
		"exp_date":  "1230",
		"card_code": "123",
	}, form.CleanedData())
	assert.Empty(t, form.Errors())
}

func TestPaymentForm_FieldErrors(t *testing.T) {
	fixClock(t, time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC))

	tests := []struct {
		name      string
		field     string
		value     string
		wantError string
	}{
		{name: "bad checksum", field: "card_num", value: "4111111111111112", wantError: errCardNumber.Error()},
		{name: "too short", field: "card_num", value: "411111111111", wantError: errCardNumber.Error()},
		{name: "letters", field: "card_num", value: "4111abcd11111111", wantError: errCardNumber.Error()},
		{name: "missing card", field: "card_num", value: "", wantError: requiredMessage},
		{name: "expired month", field: "exp_date", value: "09/26", wantError: errExpired.Error()},
		{name: "bad month", field: "exp_date", value: "13/30", wantError: errExpiry.Error()},
		{name: "bad format", field: "exp_date", value: "2030-12", wantError: errExpiry.Error()},
		{name: "short code", field: "card_code", value: "12", wantError: errCardCode.Error()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values := validPaymentValues()
			values.Set(tt.field, tt.value)

			form := NewPaymentForm(nil)
			form.Bind(values)

			assert.False(t, form.IsValid())
			assert.Equal(t, []string{tt.wantError}, form.Errors()[tt.field])
			assert.NotContains(t, form.CleanedData(), tt.field)
		})
	}
}

func TestPaymentForm_CurrentMonthIsNotExpired(t *testing.T) {
	fixClock(t, time.Date(2026, 10, 31, 23, 0, 0, 0, time.UTC))

	cleaned, err := CleanExpiryMMYY("10/26")
	require.NoError(t, err)
	assert.Equal(t, "1026", cleaned)

	ym, err := CleanExpiryYearMonth("10/2026")
	require.NoError(t, err)
	assert.Equal(t, "2026-10", ym)
}

func TestUnboundForm(t *testing.T) {
	initial := url.Values{"first_name": {"Jane"}}
	form := NewBillingAddressForm(initial)

	assert.False(t, form.IsBound())
	assert.False(t, form.IsValid())
	assert.Empty(t, form.Errors())
	assert.Equal(t, "Jane", form.Values().Get("first_name"))

	// Mutating the caller's map does not leak into the form.
	initial.Set("first_name", "Other")
	assert.Equal(t, "Jane", form.Values().Get("first_name"))
}

func TestBillingAddressForm_OptionalFields(t *testing.T) {
	form := NewBillingAddressForm(nil)
	values := validBillingValues()
	values.Set("email", "not-an-email")
	form.Bind(values)

	assert.False(t, form.IsValid())
	assert.Equal(t, []string{errEmail.Error()}, form.Errors()["email"])

	values.Set("email", "jane@example.com")
	form.Bind(values)
	require.True(t, form.IsValid())
	data := form.CleanedData()
	assert.Equal(t, "jane@example.com", data["email"])
	assert.NotContains(t, data, "company")
}

func TestBind_IgnoresForeignFields(t *testing.T) {
	values := validBillingValues()
	values.Set("card_num", "4111111111111111")

	form := NewBillingAddressForm(nil)
	form.Bind(values)

	require.True(t, form.IsValid())
	assert.NotContains(t, form.CleanedData(), "card_num")
	assert.NotContains(t, form.Values(), "card_num")
}

func TestShippingAddressForm_Required(t *testing.T) {
	form := NewShippingAddressForm(nil)
	form.Bind(url.Values{"ship_to_first_name": {"Jane"}})

	assert.False(t, form.IsValid())
	errs := form.Errors()
	assert.Contains(t, errs, "ship_to_last_name")
	assert.Contains(t, errs, "ship_to_country")
	assert.NotContains(t, errs, "ship_to_company")
	assert.NotContains(t, errs, "ship_to_first_name")
}

func TestCustomerPaymentForm(t *testing.T) {
	fixClock(t, time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC))

	values := validBillingValues()
	values.Set("card_number", "4007000000027")
	values.Set("expiration_date", "3/31")
	values.Set("card_code", "9999")
	values.Set("email", "jane@example.com")

	form := NewCustomerPaymentForm(nil)
	form.Bind(values)

	require.True(t, form.IsValid(), form.Errors())
	data := form.CleanedData()
	assert.Equal(t, "4007000000027", data["card_number"])
	assert.Equal(t, "2031-03", data["expiration_date"])
	assert.Equal(t, "Doe", data["last_name"])
	assert.Equal(t, "jane@example.com", data["email"])

	values.Set("email", "not-an-email")
	form.Bind(values)
	assert.False(t, form.IsValid())

	values.Del("email")
	form.Bind(values)
	assert.True(t, form.IsValid(), "email is optional")
}

func TestPaymentFormWithAmount(t *testing.T) {
	fixClock(t, time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC))

	values := validPaymentValues()
	values.Set("amount", "10")
	form := NewPaymentFormWithAmount(nil)
	form.Bind(values)
	require.True(t, form.IsValid())
	assert.Equal(t, "10.00", form.CleanedData()["amount"])

	values.Set("amount", "-1")
	form.Bind(values)
	assert.False(t, form.IsValid())
	assert.Equal(t, []string{errAmount.Error()}, form.Errors()["amount"])
}

func TestCombineFormData(t *testing.T) {
	fixClock(t, time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC))

	payment := NewPaymentForm(nil)
	payment.Bind(validPaymentValues())
	billing := NewBillingAddressForm(nil)
	billing.Bind(validBillingValues())

	combined := CombineFormData(payment, billing, nil)

	assert.Equal(t, "4111111111111111", combined["card_num"])
	assert.Equal(t, "Bellevue", combined["city"])
	assert.Len(t, combined, 10)
}

func TestLuhn(t *testing.T) {
	for _, number := range []string{"4111111111111111", "4007000000027", "5424000000000015", "370000000000002"} {
		assert.True(t, luhnValid(number), number)
	}
	assert.False(t, luhnValid("4111111111111121"))
}
