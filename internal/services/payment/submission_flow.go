package payment

import (
	"context"
	"net/http"
	"net/url"

	"github.com/kevin07696/authnet-service/internal/adapters/ports"
	"github.com/kevin07696/authnet-service/internal/forms"
	"github.com/kevin07696/authnet-service/pkg/observability"
	"go.uber.org/zap"
)

const (
	DefaultPaymentTemplate = "aim_payment.html"
	DefaultSuccessTemplate = "aim_success.html"

	ProcessingErrorMessage = "There was an error processing your payment. Check your information and try again."
	FormErrorMessage       = "Please correct the errors below and try again."
)

// Keys of View.Data.
const (
	DataPaymentForm  = "payment_form"
	DataBillingForm  = "billing_form"
	DataShippingForm = "shipping_form"
	DataErrors       = "errors"
	DataResponse     = "response"
)

// View is what a request resolves to: a template name and the data to render it with.
type View struct {
	Template string
	Data     map[string]interface{}
}

// Option configures a SubmissionFlow.
type Option func(*SubmissionFlow)

// WithExtraData sets static fields sent with every submission, such as amount or invoice_num.
func WithExtraData(extra map[string]string) Option {
	return func(f *SubmissionFlow) { f.extraData = cloneStrings(extra) }
}

// WithInitialData seeds the forms rendered on GET.
func WithInitialData(initial url.Values) Option {
	return func(f *SubmissionFlow) { f.initialData = cloneValues(initial) }
}

// WithContext adds values copied into every View.
func WithContext(ctx map[string]interface{}) Option {
	return func(f *SubmissionFlow) {
		f.context = make(map[string]interface{}, len(ctx))
		for k, v := range ctx {
			f.context[k] = v
		}
	}
}

func WithPaymentForm(factory forms.Factory) Option {
	return func(f *SubmissionFlow) { f.paymentForm = factory }
}

func WithBillingForm(factory forms.Factory) Option {
	return func(f *SubmissionFlow) { f.billingForm = factory }
}

// WithShippingForm enables the shipping form. Without it no shipping form is built.
func WithShippingForm(factory forms.Factory) Option {
	return func(f *SubmissionFlow) { f.shippingForm = factory }
}

func WithPaymentTemplate(name string) Option {
	return func(f *SubmissionFlow) { f.paymentTemplate = name }
}

func WithSuccessTemplate(name string) Option {
	return func(f *SubmissionFlow) { f.successTemplate = name }
}

// SubmissionFlow renders the AIM payment forms and submits them to the gateway.
// It holds only configuration; every Handle call works on fresh forms and data.
type SubmissionFlow struct {
	gateway ports.PaymentGateway
	logger  *zap.Logger

	extraData   map[string]string
	initialData url.Values
	context     map[string]interface{}

	paymentForm  forms.Factory
	billingForm  forms.Factory
	shippingForm forms.Factory

	paymentTemplate string
	successTemplate string
}

// NewSubmissionFlow creates a flow with the card payment and billing address forms.
func NewSubmissionFlow(gateway ports.PaymentGateway, logger *zap.Logger, opts ...Option) *SubmissionFlow {
	f := &SubmissionFlow{
		gateway:         gateway,
		logger:          logger,
		extraData:       map[string]string{},
		initialData:     url.Values{},
		context:         map[string]interface{}{},
		paymentForm:     forms.NewPaymentForm,
		billingForm:     forms.NewBillingAddressForm,
		paymentTemplate: DefaultPaymentTemplate,
		successTemplate: DefaultSuccessTemplate,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Handle renders empty forms on GET and validates and submits on POST.
// Any other method is treated as GET.
func (f *SubmissionFlow) Handle(ctx context.Context, method string, values url.Values) View {
	if method != http.MethodPost {
		return f.render(f.newForms(f.initialData), "")
	}

	set := f.newForms(f.initialData)
	valid := true
	for _, form := range set.all() {
		form.Bind(values)
		if !form.IsValid() {
			valid = false
		}
	}

	if !valid {
		observability.RecordFormSubmission("invalid")
		return f.render(set, FormErrorMessage)
	}

	data := forms.CombineFormData(set.all()...)
	resp, err := f.gateway.ProcessPayment(ctx, data, cloneStrings(f.extraData))
	if err != nil {
		observability.RecordFormSubmission("error")
		f.logger.Error("Payment submission failed",
			zap.Error(err),
		)
		return f.render(set, ProcessingErrorMessage)
	}

	if !resp.IsApproved() {
		observability.RecordFormSubmission("declined")
		f.logger.Info("Payment not approved",
			zap.String("trans_id", resp.TransID),
			zap.String("response_code", resp.ResponseCode),
			zap.String("response_reason_code", resp.ResponseReasonCode),
		)
		view := f.render(set, ProcessingErrorMessage)
		view.Data[DataResponse] = resp
		return view
	}

	observability.RecordFormSubmission("approved")
	f.logger.Info("Payment approved",
		zap.String("trans_id", resp.TransID),
		zap.String("amount", resp.Amount),
	)

	viewData := f.baseData()
	viewData[DataResponse] = resp
	return View{Template: f.successTemplate, Data: viewData}
}

type formSet struct {
	payment  forms.Form
	billing  forms.Form
	shipping forms.Form
}

func (s formSet) all() []forms.Form {
	out := []forms.Form{s.payment, s.billing}
	if s.shipping != nil {
		out = append(out, s.shipping)
	}
	return out
}

func (f *SubmissionFlow) newForms(initial url.Values) formSet {
	set := formSet{
		payment: f.paymentForm(initial),
		billing: f.billingForm(initial),
	}
	if f.shippingForm != nil {
		set.shipping = f.shippingForm(initial)
	}
	return set
}

func (f *SubmissionFlow) render(set formSet, message string) View {
	data := f.baseData()
	data[DataPaymentForm] = set.payment
	data[DataBillingForm] = set.billing
	if set.shipping != nil {
		data[DataShippingForm] = set.shipping
	}
	if message != "" {
		data[DataErrors] = message
	}
	return View{Template: f.paymentTemplate, Data: data}
}

func (f *SubmissionFlow) baseData() map[string]interface{} {
	data := make(map[string]interface{}, len(f.context)+4)
	for k, v := range f.context {
		data[k] = v
	}
	return data
}

func cloneStrings(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func cloneValues(v url.Values) url.Values {
	out := make(url.Values, len(v))
	for k, vals := range v {
		out[k] = append([]string(nil), vals...)
	}
	return out
}
