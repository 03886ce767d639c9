package webhook

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/kevin07696/authnet-service/pkg/observability"
	"github.com/kevin07696/authnet-service/pkg/resilience"
	"github.com/kevin07696/authnet-service/pkg/timeutil"
	"go.uber.org/zap"
)

const maxErrorBody = 512

const (
	// DefaultAttemptTimeout bounds a single POST to one endpoint.
	DefaultAttemptTimeout = 2 * time.Second
	// DefaultDeliveryTimeout bounds one DeliverEvent call across all endpoints and retries.
	DefaultDeliveryTimeout = 5 * time.Second
)

// WebhookDeliveryService posts signed outcome events to merchant endpoints
type WebhookDeliveryService struct {
	urls       []string
	secret     string
	httpClient *http.Client
	logger     *zap.Logger

	attempts int
	backoff  resilience.BackoffStrategy
	timeout  time.Duration
}

// rejectedError is a non-2xx reply that another attempt will not fix.
type rejectedError struct {
	status int
	body   string
}

func (e *rejectedError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.status, e.body)
}

func retryable(err error) bool {
	var rejected *rejectedError
	return !errors.As(err, &rejected)
}

// WebhookEvent represents an event to be sent via webhook
type WebhookEvent struct {
	ID        string                 `json:"id"`
	EventType string                 `json:"event_type"`
	Data      map[string]interface{} `json:"data"`
	Timestamp time.Time              `json:"timestamp"`
}

// NewWebhookEvent stamps a new event with an ID and the current time.
func NewWebhookEvent(eventType string, data map[string]interface{}) *WebhookEvent {
	return &WebhookEvent{
		ID:        uuid.NewString(),
		EventType: eventType,
		Data:      data,
		Timestamp: timeutil.Now(),
	}
}

// NewWebhookDeliveryService creates a new webhook delivery service
func NewWebhookDeliveryService(urls []string, secret string, httpClient *http.Client, logger *zap.Logger) *WebhookDeliveryService {
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: DefaultAttemptTimeout,
		}
	}

	return &WebhookDeliveryService{
		urls:       append([]string(nil), urls...),
		secret:     secret,
		httpClient: httpClient,
		logger:     logger,
		attempts:   1,
		backoff:    resilience.WebhookBackoff(),
		timeout:    DefaultDeliveryTimeout,
	}
}

// WithRetry makes each endpoint get up to attempts tries. Transport errors,
// 429 and 5xx replies are retried; other non-2xx replies are not.
func (s *WebhookDeliveryService) WithRetry(attempts int, backoff resilience.BackoffStrategy) *WebhookDeliveryService {
	if attempts > 0 {
		s.attempts = attempts
	}
	if backoff != nil {
		s.backoff = backoff
	}
	return s
}

// WithTimeout caps the time one DeliverEvent call may take.
func (s *WebhookDeliveryService) WithTimeout(timeout time.Duration) *WebhookDeliveryService {
	if timeout > 0 {
		s.timeout = timeout
	}
	return s
}

// Enabled reports whether any endpoint is configured.
func (s *WebhookDeliveryService) Enabled() bool {
	return len(s.urls) > 0
}

// DeliverEvent delivers a webhook event to every configured endpoint.
// It returns the first failure after trying all endpoints. The whole call is
// bounded by the delivery timeout since it runs before the relay is acknowledged.
func (s *WebhookDeliveryService) DeliverEvent(ctx context.Context, event *WebhookEvent) error {
	if !s.Enabled() {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	s.logger.Info("Delivering webhook event",
		zap.String("event_type", event.EventType),
		zap.String("event_id", event.ID),
		zap.Int("endpoints", len(s.urls)),
	)

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event payload: %w", err)
	}

	var firstErr error
	for _, url := range s.urls {
		start := time.Now()
		err := resilience.Retry(ctx, s.attempts, s.backoff, retryable, func(attempt int) error {
			if attempt > 0 {
				s.logger.Debug("Retrying webhook delivery",
					zap.String("webhook_url", url),
					zap.Int("attempt", attempt+1),
				)
			}
			return s.deliver(ctx, url, event, payload)
		})
		status := "success"
		if err != nil {
			status = "failed"
			s.logger.Error("Failed to deliver webhook",
				zap.Error(err),
				zap.String("webhook_url", url),
				zap.String("event_id", event.ID),
			)
			if firstErr == nil {
				firstErr = err
			}
		}
		observability.RecordWebhookDelivery(event.EventType, status, time.Since(start).Seconds())
	}

	return firstErr
}

func (s *WebhookDeliveryService) deliver(ctx context.Context, url string, event *WebhookEvent, payload []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Webhook-Signature", GenerateSignature(payload, s.secret))
	req.Header.Set("X-Webhook-Event-Type", event.EventType)
	req.Header.Set("X-Webhook-Timestamp", event.Timestamp.Format(time.RFC3339))

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body))
	}
	return &rejectedError{status: resp.StatusCode, body: string(body)}
}

// GenerateSignature creates HMAC-SHA256 signature of the payload
func GenerateSignature(payload []byte, secret string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write(payload)
	return hex.EncodeToString(h.Sum(nil))
}
