package events

import (
	"context"
	"errors"

	"github.com/kevin07696/authnet-service/internal/domain"
	"github.com/kevin07696/authnet-service/internal/services/webhook"
	"github.com/kevin07696/authnet-service/pkg/observability"
)

var errListenerPanic = errors.New("listener panicked")

// ResponseStore is satisfied by audit.ResponseService.
type ResponseStore interface {
	Record(ctx context.Context, resp domain.TransactionResponse) error
}

// ResponseRecorder persists the response carried by every event.
func ResponseRecorder(store ResponseStore) Listener {
	return ListenerFunc(func(ctx context.Context, evt Event) error {
		return store.Record(ctx, evt.Response)
	})
}

// MetricsListener counts outcomes and notified amounts.
func MetricsListener() Listener {
	return ListenerFunc(func(ctx context.Context, evt Event) error {
		outcome := "flagged"
		if evt.Type == PaymentSucceeded {
			outcome = "succeeded"
		}
		observability.RecordNotification(outcome, evt.Response.AmountCents())
		return nil
	})
}

// WebhookListener forwards events to the configured merchant endpoints.
func WebhookListener(svc *webhook.WebhookDeliveryService) Listener {
	return ListenerFunc(func(ctx context.Context, evt Event) error {
		r := evt.Response
		data := map[string]interface{}{
			"response_id":          r.ID.String(),
			"trans_id":             r.TransID,
			"invoice_num":          r.InvoiceNum,
			"amount":               r.Amount,
			"response_code":        r.ResponseCode,
			"response_reason_code": r.ResponseReasonCode,
			"response_reason_text": r.ResponseReasonText,
			"hash_valid":           evt.HashValid,
		}
		return svc.DeliverEvent(ctx, webhook.NewWebhookEvent(string(evt.Type), data))
	})
}
