package authnet

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/kevin07696/authnet-service/internal/adapters/ports"
	"github.com/kevin07696/authnet-service/internal/domain"
	errs "github.com/kevin07696/authnet-service/pkg/errors"
	"github.com/kevin07696/authnet-service/pkg/observability"
	"go.uber.org/zap"
)

// aimAdapter implements ports.PaymentGateway over the AIM name/value API.
type aimAdapter struct {
	config     *Config
	httpClient ports.HTTPClient
	logger     *zap.Logger
}

// NewAIMAdapter creates an AIM adapter. A nil client gets a pooled default.
func NewAIMAdapter(config *Config, httpClient ports.HTTPClient, logger *zap.Logger) ports.PaymentGateway {
	if httpClient == nil {
		httpClient = newHTTPClient(config.Timeout)
	}
	return &aimAdapter{
		config:     config,
		httpClient: httpClient,
		logger:     logger,
	}
}

// ProcessPayment sends one AUTH_CAPTURE request. It makes a single attempt.
func (a *aimAdapter) ProcessPayment(ctx context.Context, data, extra map[string]string) (domain.TransactionResponse, error) {
	form := a.buildFormData(data, extra)

	a.logger.Info("Submitting AIM transaction",
		zap.String("type", form.Get("x_type")),
		zap.String("amount", form.Get("x_amount")),
		zap.String("invoice_num", form.Get("x_invoice_num")),
	)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, a.config.aimURL(), strings.NewReader(form.Encode()))
	if err != nil {
		return domain.TransactionResponse{}, errs.NewGatewayError("REQUEST", "failed to create request", errs.CategorySystemError).WithCause(err)
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	startTime := time.Now()
	httpResp, err := a.httpClient.Do(httpReq)
	observability.ObserveGatewayRequest("aim", time.Since(startTime).Seconds())
	if err != nil {
		a.logger.Error("Failed to send AIM request",
			zap.Error(err),
			zap.Duration("elapsed", time.Since(startTime)),
		)
		observability.RecordGatewaySubmission("transport_error")
		return domain.TransactionResponse{}, errs.NewGatewayError("NETWORK", "failed to send request", errs.CategoryNetworkError).WithCause(err)
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		observability.RecordGatewaySubmission("transport_error")
		return domain.TransactionResponse{}, errs.NewGatewayError("NETWORK", "failed to read response", errs.CategoryNetworkError).WithCause(err)
	}

	if httpResp.StatusCode != http.StatusOK {
		a.logger.Error("AIM returned non-200 status",
			zap.Int("status_code", httpResp.StatusCode),
			zap.Int("body_length", len(body)),
		)
		observability.RecordGatewaySubmission("transport_error")
		return domain.TransactionResponse{}, errs.NewGatewayError("HTTP_STATUS", fmt.Sprintf("unexpected status %d", httpResp.StatusCode), errs.CategoryNetworkError)
	}

	resp, err := a.parseResponse(body)
	if err != nil {
		observability.RecordGatewaySubmission("transport_error")
		return domain.TransactionResponse{}, err
	}

	a.logger.Info("Received AIM response",
		zap.String("response_code", resp.ResponseCode),
		zap.String("reason_code", resp.ResponseReasonCode),
		zap.String("trans_id", resp.TransID),
		zap.Duration("elapsed", time.Since(startTime)),
	)
	observability.RecordGatewaySubmission(submissionResult(resp))

	return resp, nil
}

// buildFormData merges form data, then extra data, then the fixed protocol
// and credential fields. Later sources win. Every key is x_ prefixed.
func (a *aimAdapter) buildFormData(data, extra map[string]string) url.Values {
	form := url.Values{}
	for k, v := range data {
		form.Set(prefixed(k), v)
	}
	for k, v := range extra {
		form.Set(prefixed(k), v)
	}
	if form.Get("x_type") == "" {
		form.Set("x_type", "AUTH_CAPTURE")
	}
	if form.Get("x_method") == "" {
		form.Set("x_method", "CC")
	}

	form.Set("x_login", a.config.LoginID)
	form.Set("x_tran_key", a.config.TranKey)
	form.Set("x_version", aimVersion)
	form.Set("x_delim_data", "TRUE")
	form.Set("x_delim_char", a.config.delimChar())
	form.Set("x_relay_response", "FALSE")
	return form
}

func (a *aimAdapter) parseResponse(body []byte) (domain.TransactionResponse, error) {
	text := strings.TrimSpace(string(body))
	if text == "" {
		return domain.TransactionResponse{}, errs.NewGatewayError("EMPTY", "empty response body", errs.CategorySystemError)
	}
	parts := strings.Split(text, a.config.delimChar())
	if len(parts) < 4 {
		return domain.TransactionResponse{}, errs.NewGatewayError("MALFORMED", "response has too few fields", errs.CategorySystemError).
			WithGatewayMessage(text)
	}
	return domain.NewTransactionResponseFromFields(parts), nil
}

func prefixed(key string) string {
	if strings.HasPrefix(key, "x_") {
		return key
	}
	return "x_" + key
}

func submissionResult(resp domain.TransactionResponse) string {
	switch resp.ResponseCode {
	case domain.ResponseCodeApproved:
		return "approved"
	case domain.ResponseCodeDeclined:
		return "declined"
	case domain.ResponseCodeHeld:
		return "held"
	default:
		return "error"
	}
}
