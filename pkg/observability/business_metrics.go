package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Relay notification outcomes
	notificationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "authnet_notifications_total",
		Help: "Total gateway relay notifications by outcome",
	}, []string{
		"outcome", // succeeded, flagged
	})

	notificationAmountCents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "authnet_notification_amount_cents_total",
		Help: "Total notified amount in cents (for revenue tracking)",
	}, []string{
		"outcome",
	})

	// AIM submissions
	gatewaySubmissionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "authnet_gateway_submissions_total",
		Help: "Total AIM submissions by result",
	}, []string{
		"result", // approved, declined, error, held, transport_error
	})

	gatewayRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name: "authnet_gateway_request_duration_seconds",
		Help: "Round trip time of gateway API calls",
		// Buckets: 100ms to 30s (typical payment processing times)
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	}, []string{
		"api", // aim, cim
	})

	// Submission flow results
	formSubmissionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "authnet_form_submissions_total",
		Help: "Total payment form submissions by result",
	}, []string{
		"result", // success, invalid, processing_error
	})

	// Stored payment profiles
	paymentProfilesCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "authnet_payment_profiles_created_total",
		Help: "Total payment profiles created",
	}, []string{
		"customer_profile", // new, existing
	})

	// Outcome webhook delivery
	webhookDeliveriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "webhook_deliveries_total",
		Help: "Total webhook delivery attempts",
	}, []string{
		"event_type",
		"status", // success, failed
	})

	webhookDeliveryDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "webhook_delivery_duration_seconds",
		Help:    "Time to deliver webhook",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30},
	}, []string{
		"event_type",
	})
)

// RecordNotification records a relay notification outcome and its amount.
func RecordNotification(outcome string, amountCents int64) {
	notificationsTotal.WithLabelValues(outcome).Inc()
	if amountCents > 0 {
		notificationAmountCents.WithLabelValues(outcome).Add(float64(amountCents))
	}
}

// RecordGatewaySubmission records the result of an AIM submission.
func RecordGatewaySubmission(result string) {
	gatewaySubmissionsTotal.WithLabelValues(result).Inc()
}

// ObserveGatewayRequest records the duration of one gateway API call.
func ObserveGatewayRequest(api string, seconds float64) {
	gatewayRequestDuration.WithLabelValues(api).Observe(seconds)
}

// RecordFormSubmission records how a submission flow POST ended.
func RecordFormSubmission(result string) {
	formSubmissionsTotal.WithLabelValues(result).Inc()
}

// RecordPaymentProfileCreated records a stored payment profile.
func RecordPaymentProfileCreated(newCustomerProfile bool) {
	label := "existing"
	if newCustomerProfile {
		label = "new"
	}
	paymentProfilesCreated.WithLabelValues(label).Inc()
}

// RecordWebhookDelivery records webhook delivery
func RecordWebhookDelivery(eventType, status string, duration float64) {
	webhookDeliveriesTotal.WithLabelValues(eventType, status).Inc()
	webhookDeliveryDuration.WithLabelValues(eventType).Observe(duration)
}
