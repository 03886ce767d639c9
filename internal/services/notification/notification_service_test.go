package notification

import (
	"context"
	"testing"

	"github.com/kevin07696/authnet-service/internal/services/events"
	"github.com/kevin07696/authnet-service/internal/testutil/fixtures"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type capturePublisher struct {
	events []events.Event
}

func (c *capturePublisher) Publish(ctx context.Context, evt events.Event) int {
	c.events = append(c.events, evt)
	return 0
}

func TestHandleNotification(t *testing.T) {
	tests := []struct {
		name      string
		secret    string
		mutate    func(v map[string][]string)
		wantHash  bool
		wantEvent events.EventType
	}{
		{
			name:      "approved with valid hash",
			secret:    fixtures.MD5Secret,
			wantHash:  true,
			wantEvent: events.PaymentSucceeded,
		},
		{
			name:   "lowercase hash accepted",
			secret: fixtures.MD5Secret,
			mutate: func(v map[string][]string) {
				v["x_MD5_Hash"] = []string{"754e626cf1d6f62cea32200e493cdb0f"}
			},
			wantHash:  true,
			wantEvent: events.PaymentSucceeded,
		},
		{
			name:   "tampered hash is flagged",
			secret: fixtures.MD5Secret,
			mutate: func(v map[string][]string) {
				v["x_MD5_Hash"] = []string{"054E626CF1D6F62CEA32200E493CDB0F"}
			},
			wantHash:  false,
			wantEvent: events.PaymentFlagged,
		},
		{
			name:   "tampered amount is flagged",
			secret: fixtures.MD5Secret,
			mutate: func(v map[string][]string) {
				v["x_amount"] = []string{"1000.00"}
			},
			wantHash:  false,
			wantEvent: events.PaymentFlagged,
		},
		{
			name:   "declined with valid hash is flagged",
			secret: fixtures.MD5Secret,
			mutate: func(v map[string][]string) {
				v["x_response_code"] = []string{"2"}
			},
			wantHash:  true,
			wantEvent: events.PaymentFlagged,
		},
		{
			name:   "no secret skips verification",
			secret: "",
			mutate: func(v map[string][]string) {
				v["x_MD5_Hash"] = []string{"garbage"}
			},
			wantHash:  true,
			wantEvent: events.PaymentSucceeded,
		},
		{
			name:   "missing trans_id with secret is flagged",
			secret: fixtures.MD5Secret,
			mutate: func(v map[string][]string) {
				delete(v, "x_trans_id")
			},
			wantHash:  false,
			wantEvent: events.PaymentFlagged,
		},
		{
			name:   "missing amount without secret still succeeds",
			secret: "",
			mutate: func(v map[string][]string) {
				delete(v, "x_amount")
			},
			wantHash:  true,
			wantEvent: events.PaymentSucceeded,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pub := &capturePublisher{}
			svc := NewService(fixtures.LoginID, tt.secret, pub, zaptest.NewLogger(t))

			values := fixtures.RelayNotification("1")
			if tt.mutate != nil {
				tt.mutate(values)
			}

			result := svc.HandleNotification(context.Background(), values)

			assert.Equal(t, tt.wantHash, result.HashValid)
			assert.Equal(t, tt.wantEvent, result.Outcome)
			require.Len(t, pub.events, 1, "exactly one outcome per notification")
			assert.Equal(t, tt.wantEvent, pub.events[0].Type)
			assert.Equal(t, result.Response.ID, pub.events[0].Response.ID)
		})
	}
}

func TestHandleNotification_ResponseFields(t *testing.T) {
	pub := &capturePublisher{}
	svc := NewService(fixtures.LoginID, fixtures.MD5Secret, pub, zaptest.NewLogger(t))

	result := svc.HandleNotification(context.Background(), fixtures.RelayNotification("1"))

	assert.True(t, result.Approved)
	assert.Equal(t, fixtures.TransID, result.Response.TransID)
	assert.Equal(t, fixtures.Amount, result.Response.Amount)
	assert.Equal(t, "INV-1", result.Response.InvoiceNum)
	assert.Equal(t, "754E626CF1D6F62CEA32200E493CDB0F", result.Response.MD5Hash)
}
