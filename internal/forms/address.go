package forms

import "net/url"

// NewBillingAddressForm is the bill-to form. Field names match the gateway keys.
func NewBillingAddressForm(initial url.Values) Form {
	return NewBaseForm(BillingFormName, []Field{
		{Name: "first_name", Label: "First Name", Required: true, Clean: MaxLength(50)},
		{Name: "last_name", Label: "Last Name", Required: true, Clean: MaxLength(50)},
		{Name: "company", Label: "Company", Clean: MaxLength(50)},
		{Name: "address", Label: "Address", Required: true, Clean: MaxLength(60)},
		{Name: "city", Label: "City", Required: true, Clean: MaxLength(40)},
		{Name: "state", Label: "State", Required: true, Clean: MaxLength(40)},
		{Name: "zip", Label: "Zip", Required: true, Clean: MaxLength(20)},
		{Name: "country", Label: "Country", Required: true, Clean: MaxLength(60)},
		{Name: "phone", Label: "Phone", Clean: MaxLength(25)},
		{Name: "fax", Label: "Fax", Clean: MaxLength(25)},
		{Name: "email", Label: "Email", Clean: CleanEmail},
	}, initial)
}

// NewShippingAddressForm is the ship-to form.
func NewShippingAddressForm(initial url.Values) Form {
	return NewBaseForm(ShippingFormName, []Field{
		{Name: "ship_to_first_name", Label: "First Name", Required: true, Clean: MaxLength(50)},
		{Name: "ship_to_last_name", Label: "Last Name", Required: true, Clean: MaxLength(50)},
		{Name: "ship_to_company", Label: "Company", Clean: MaxLength(50)},
		{Name: "ship_to_address", Label: "Address", Required: true, Clean: MaxLength(60)},
		{Name: "ship_to_city", Label: "City", Required: true, Clean: MaxLength(40)},
		{Name: "ship_to_state", Label: "State", Required: true, Clean: MaxLength(40)},
		{Name: "ship_to_zip", Label: "Zip", Required: true, Clean: MaxLength(20)},
		{Name: "ship_to_country", Label: "Country", Required: true, Clean: MaxLength(60)},
	}, initial)
}

// CombineFormData merges the cleaned data of every form. Later forms win on key clashes.
func CombineFormData(forms ...Form) map[string]string {
	out := make(map[string]string)
	for _, f := range forms {
		if f == nil {
			continue
		}
		for k, v := range f.CleanedData() {
			out[k] = v
		}
	}
	return out
}
