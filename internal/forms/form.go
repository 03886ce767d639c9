// Package forms binds and validates the user-facing payment forms.
//
// A form is created from optional initial values, bound once to submitted
// values, and then asked for its validity, cleaned data and field errors.
package forms

import (
	"net/url"
	"strings"

	errs "github.com/kevin07696/authnet-service/pkg/errors"
)

const requiredMessage = "This field is required."

// Form is the field-level validation collaborator used by the submission
// and profile flows.
type Form interface {
	Name() string
	Fields() []Field
	Bind(values url.Values)
	IsBound() bool
	IsValid() bool
	CleanedData() map[string]string
	Errors() errs.ValidationErrors
	Values() url.Values
}

// Factory creates a fresh form, optionally seeded with initial values.
type Factory func(initial url.Values) Form

// Cleaner normalizes a raw value or reports why it is invalid.
type Cleaner func(value string) (string, error)

// Field describes one input of a form.
type Field struct {
	Name     string
	Label    string
	Required bool
	Clean    Cleaner
}

// BaseForm implements Form over a list of fields.
type BaseForm struct {
	name    string
	fields  []Field
	initial url.Values
	data    url.Values
	bound   bool

	validated bool
	cleaned   map[string]string
	errors    errs.ValidationErrors
}

// NewBaseForm builds a form with the given fields. Initial values are copied.
func NewBaseForm(name string, fields []Field, initial url.Values) *BaseForm {
	return &BaseForm{
		name:    name,
		fields:  fields,
		initial: cloneValues(initial),
	}
}

func (f *BaseForm) Name() string { return f.name }

func (f *BaseForm) Fields() []Field { return f.fields }

// Bind attaches submitted values. Only this form's fields are read.
func (f *BaseForm) Bind(values url.Values) {
	f.data = make(url.Values, len(f.fields))
	for _, field := range f.fields {
		if v, ok := values[field.Name]; ok {
			f.data[field.Name] = append([]string(nil), v...)
		}
	}
	f.bound = true
	f.validated = false
}

func (f *BaseForm) IsBound() bool { return f.bound }

// IsValid runs every cleaner once. An unbound form is never valid.
func (f *BaseForm) IsValid() bool {
	if !f.bound {
		return false
	}
	f.validate()
	return len(f.errors) == 0
}

// CleanedData returns the normalized values of a valid form, keyed by field name.
// Optional fields left blank are omitted.
func (f *BaseForm) CleanedData() map[string]string {
	if !f.bound {
		return map[string]string{}
	}
	f.validate()
	out := make(map[string]string, len(f.cleaned))
	for k, v := range f.cleaned {
		out[k] = v
	}
	return out
}

func (f *BaseForm) Errors() errs.ValidationErrors {
	if !f.bound {
		return errs.ValidationErrors{}
	}
	f.validate()
	return f.errors
}

// Values returns what should be redisplayed: the submitted data once bound,
// otherwise the initial values.
func (f *BaseForm) Values() url.Values {
	if f.bound {
		return cloneValues(f.data)
	}
	return cloneValues(f.initial)
}

func (f *BaseForm) validate() {
	if f.validated {
		return
	}
	f.cleaned = make(map[string]string, len(f.fields))
	f.errors = errs.ValidationErrors{}

	for _, field := range f.fields {
		raw := strings.TrimSpace(f.data.Get(field.Name))
		if raw == "" {
			if field.Required {
				f.errors.Add(field.Name, requiredMessage)
			}
			continue
		}
		value := raw
		if field.Clean != nil {
			cleaned, err := field.Clean(raw)
			if err != nil {
				f.errors.Add(field.Name, err.Error())
				continue
			}
			value = cleaned
		}
		f.cleaned[field.Name] = value
	}
	f.validated = true
}

func cloneValues(v url.Values) url.Values {
	out := make(url.Values, len(v))
	for k, vals := range v {
		out[k] = append([]string(nil), vals...)
	}
	return out
}
