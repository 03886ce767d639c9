package authnet

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"

	errs "github.com/kevin07696/authnet-service/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func approvedReply(delim string) string {
	parts := make([]string, 52)
	parts[0] = "1"
	parts[1] = "1"
	parts[2] = "1"
	parts[3] = "This transaction has been approved."
	parts[4] = "AUTH01"
	parts[6] = "2149186775"
	parts[9] = "10.00"
	parts[37] = "6A4D9F4C3B2E1F0A9B8C7D6E5F4A3B2C"
	parts[50] = "XXXX1111"
	parts[51] = "Visa"
	return strings.Join(parts, delim)
}

func newTestAIM(t *testing.T, handler http.HandlerFunc) (*aimAdapter, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := DefaultConfig("L1", "TK", true)
	cfg.AIMURL = server.URL
	adapter := NewAIMAdapter(cfg, server.Client(), zaptest.NewLogger(t)).(*aimAdapter)
	return adapter, server
}

func TestAIMAdapter_ProcessPayment_Approved(t *testing.T) {
	var received url.Values
	adapter, _ := newTestAIM(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		require.NoError(t, r.ParseForm())
		received = r.PostForm
		io.WriteString(w, approvedReply("|"))
	})

	data := map[string]string{
		"card_num":  "4111111111111111",
		"exp_date":  "1230",
		"card_code": "123",
		"amount":    "1.00",
		"login":     "spoofed",
	}
	extra := map[string]string{"amount": "10.00", "invoice_num": "INV-1"}

	resp, err := adapter.ProcessPayment(context.Background(), data, extra)
	require.NoError(t, err)

	assert.True(t, resp.IsApproved())
	assert.Equal(t, "2149186775", resp.TransID)
	assert.Equal(t, "AUTH01", resp.AuthCode)
	assert.Equal(t, "XXXX1111", resp.AccountNumber)
	assert.Equal(t, "Visa", resp.CardType)

	assert.Equal(t, "L1", received.Get("x_login"), "credentials override form data")
	assert.Equal(t, "TK", received.Get("x_tran_key"))
	assert.Equal(t, "10.00", received.Get("x_amount"), "extra data overrides form data")
	assert.Equal(t, "INV-1", received.Get("x_invoice_num"))
	assert.Equal(t, "4111111111111111", received.Get("x_card_num"))
	assert.Equal(t, "3.1", received.Get("x_version"))
	assert.Equal(t, "TRUE", received.Get("x_delim_data"))
	assert.Equal(t, "|", received.Get("x_delim_char"))
	assert.Equal(t, "FALSE", received.Get("x_relay_response"))
	assert.Equal(t, "AUTH_CAPTURE", received.Get("x_type"))
	assert.Equal(t, "CC", received.Get("x_method"))
}

func TestAIMAdapter_ProcessPayment_DeclineIsNotAnError(t *testing.T) {
	adapter, _ := newTestAIM(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "2|1|2|This transaction has been declined.||P|0|||10.00")
	})

	resp, err := adapter.ProcessPayment(context.Background(), map[string]string{}, nil)
	require.NoError(t, err)
	assert.False(t, resp.IsApproved())
	assert.Equal(t, "This transaction has been declined.", resp.ResponseReasonText)
}

func TestAIMAdapter_ProcessPayment_CustomDelimiter(t *testing.T) {
	adapter, _ := newTestAIM(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, ",", r.PostForm.Get("x_delim_char"))
		io.WriteString(w, approvedReply(","))
	})
	adapter.config.DelimChar = ","

	resp, err := adapter.ProcessPayment(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.True(t, resp.IsApproved())
}

func TestAIMAdapter_ProcessPayment_Failures(t *testing.T) {
	tests := []struct {
		name     string
		handler  http.HandlerFunc
		wantCode string
	}{
		{
			name: "non-200 status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
			},
			wantCode: "HTTP_STATUS",
		},
		{
			name: "empty body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				io.WriteString(w, "  \n")
			},
			wantCode: "EMPTY",
		},
		{
			name: "not delimited",
			handler: func(w http.ResponseWriter, r *http.Request) {
				io.WriteString(w, "<html>maintenance</html>")
			},
			wantCode: "MALFORMED",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			adapter, _ := newTestAIM(t, tt.handler)

			_, err := adapter.ProcessPayment(context.Background(), nil, nil)
			require.Error(t, err)

			var gwErr *errs.GatewayError
			require.True(t, errors.As(err, &gwErr))
			assert.Equal(t, tt.wantCode, gwErr.Code)
		})
	}
}

func TestAIMAdapter_ProcessPayment_SingleAttempt(t *testing.T) {
	var calls int32
	adapter, server := newTestAIM(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := adapter.ProcessPayment(context.Background(), nil, nil)
	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))

	server.Close()
	_, err = adapter.ProcessPayment(context.Background(), nil, nil)
	var gwErr *errs.GatewayError
	require.True(t, errors.As(err, &gwErr))
	assert.Equal(t, errs.CategoryNetworkError, gwErr.Category)
}

func TestConfig_URLs(t *testing.T) {
	assert.Equal(t, ProductionAIMURL, DefaultConfig("l", "k", false).aimURL())
	assert.Equal(t, TestAIMURL, DefaultConfig("l", "k", true).aimURL())
	assert.Equal(t, ProductionCIMURL, DefaultConfig("l", "k", false).cimURL())
	assert.Equal(t, TestCIMURL, DefaultConfig("l", "k", true).cimURL())
}
