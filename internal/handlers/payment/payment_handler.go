// Package payment serves the gateway-facing and customer-facing HTTP endpoints.
package payment

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/kevin07696/authnet-service/internal/domain"
	"github.com/kevin07696/authnet-service/internal/forms"
	"github.com/kevin07696/authnet-service/internal/middleware"
	"github.com/kevin07696/authnet-service/internal/services/notification"
	paymentsvc "github.com/kevin07696/authnet-service/internal/services/payment"
	"github.com/kevin07696/authnet-service/internal/services/ports"
	"go.uber.org/zap"
)

const (
	RelayAckTemplate    = "sim_payment.html"
	ProfileFormTemplate = "payment_profile_form.html"

	maxFormBytes = 64 << 10
)

// NotificationService classifies relay notifications.
type NotificationService interface {
	HandleNotification(ctx context.Context, values url.Values) notification.Result
}

// SubmissionFlow resolves a payment page request to a view.
type SubmissionFlow interface {
	Handle(ctx context.Context, method string, values url.Values) paymentsvc.View
}

// ResponseService reads stored gateway replies.
type ResponseService interface {
	Get(ctx context.Context, id uuid.UUID) (*domain.TransactionResponse, error)
}

// Handler serves the /authnet routes
type Handler struct {
	notifications NotificationService
	flow          SubmissionFlow
	profiles      ports.ProfileService
	responses     ResponseService
	renderer      *Renderer
	logger        *zap.Logger
}

// NewHandler creates a new payment handler
func NewHandler(
	notifications NotificationService,
	flow SubmissionFlow,
	profiles ports.ProfileService,
	responses ResponseService,
	renderer *Renderer,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		notifications: notifications,
		flow:          flow,
		profiles:      profiles,
		responses:     responses,
		renderer:      renderer,
		logger:        logger,
	}
}

// RegisterRoutes mounts every endpoint under /authnet. The limit middlewares
// wrap every route except the relay notification, which the gateway sends
// from a handful of addresses and which must always be acknowledged.
func (h *Handler) RegisterRoutes(r chi.Router, identity *middleware.Identity, limit ...func(http.Handler) http.Handler) {
	r.Route("/authnet", func(r chi.Router) {
		r.Use(identity.Middleware)

		r.Post("/sim/payment", h.RelayNotification)

		r.Group(func(r chi.Router) {
			r.Use(limit...)

			r.Get("/payment", h.Payment)
			r.Post("/payment", h.Payment)

			r.Group(func(r chi.Router) {
				r.Use(identity.Require)

				r.Get("/profiles/payment", h.ListPaymentProfiles)
				r.Get("/profiles/payment/new", h.NewPaymentProfile)
				r.Post("/profiles/payment/new", h.NewPaymentProfile)
				r.Get("/profiles/payment/{id}", h.GetPaymentProfile)
			})

			r.With(identity.RequireOperator).Get("/responses/{id}", h.GetResponse)
		})
	})
}

// RelayNotification receives the gateway's server-to-server POST.
// It always acknowledges with 200 so the gateway considers the notification delivered.
func (h *Handler) RelayNotification(w http.ResponseWriter, r *http.Request) {
	values, err := h.parseForm(w, r)
	if err != nil {
		h.logger.Warn("Failed to parse relay notification", zap.Error(err))
		values = url.Values{}
	}

	h.notifications.HandleNotification(r.Context(), values)
	h.renderer.Render(w, http.StatusOK, RelayAckTemplate, nil)
}

// Payment renders the card form on GET and submits it on POST.
func (h *Handler) Payment(w http.ResponseWriter, r *http.Request) {
	var values url.Values
	if r.Method == http.MethodPost {
		var err error
		if values, err = h.parseForm(w, r); err != nil {
			http.Error(w, "Bad request", http.StatusBadRequest)
			return
		}
	}

	view := h.flow.Handle(r.Context(), r.Method, values)
	h.renderer.Render(w, http.StatusOK, view.Template, view.Data)
}

// NewPaymentProfile renders and processes the store-a-card form.
func (h *Handler) NewPaymentProfile(w http.ResponseWriter, r *http.Request) {
	form := forms.NewCustomerPaymentForm(nil)
	if r.Method != http.MethodPost {
		h.renderProfileForm(w, form, "")
		return
	}

	values, err := h.parseForm(w, r)
	if err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}
	form.Bind(values)
	if !form.IsValid() {
		h.renderProfileForm(w, form, paymentsvc.FormErrorMessage)
		return
	}

	userID := middleware.UserIDFromContext(r.Context())
	created, err := h.profiles.CreatePaymentProfile(r.Context(), ports.NewCreatePaymentProfileRequest(userID, form.CleanedData()))
	if err != nil {
		if domain.IsGatewayError(err) {
			h.renderProfileForm(w, form, paymentsvc.ProcessingErrorMessage)
			return
		}
		h.writeError(w, err)
		return
	}

	http.Redirect(w, r, "/authnet/profiles/payment/"+created.ID.String(), http.StatusSeeOther)
}

func (h *Handler) renderProfileForm(w http.ResponseWriter, form forms.Form, message string) {
	data := map[string]interface{}{
		forms.CustomerPaymentFormName: form,
		"title":                       "Add a card",
	}
	if message != "" {
		data[paymentsvc.DataErrors] = message
	}
	h.renderer.Render(w, http.StatusOK, ProfileFormTemplate, data)
}

// GetPaymentProfile returns one of the caller's payment profiles.
func (h *Handler) GetPaymentProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	profile, err := h.profiles.GetPaymentProfile(r.Context(), middleware.UserIDFromContext(r.Context()), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

// ListPaymentProfiles returns the caller's payment profiles.
func (h *Handler) ListPaymentProfiles(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.profiles.ListPaymentProfiles(r.Context(), middleware.UserIDFromContext(r.Context()))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"payment_profiles": profiles})
}

// GetResponse returns a stored gateway reply. Replies carry customer billing
// data, so only operators may read them.
func (h *Handler) GetResponse(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	resp, err := h.responses.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) parseForm(w http.ResponseWriter, r *http.Request) (url.Values, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		return nil, err
	}
	return r.PostForm, nil
}

func (h *Handler) pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "not found"})
		return uuid.Nil, false
	}
	return id, true
}

type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// writeError maps domain errors to HTTP statuses
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	code := domain.GetErrorCode(err)
	switch {
	case domain.IsNotFoundError(err):
		writeJSON(w, http.StatusNotFound, errorBody{Error: "not found", Code: string(code)})
	case errors.Is(err, domain.ErrIdentityMissing):
		writeJSON(w, http.StatusUnauthorized, errorBody{Error: "unauthorized", Code: string(code)})
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		writeJSON(w, http.StatusServiceUnavailable, errorBody{Error: "request canceled"})
	default:
		h.logger.Error("Request failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal server error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
