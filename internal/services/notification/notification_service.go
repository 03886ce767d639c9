// Package notification verifies relay notifications posted by the gateway.
package notification

import (
	"context"
	"net/url"

	"github.com/kevin07696/authnet-service/internal/adapters/authnet"
	"github.com/kevin07696/authnet-service/internal/domain"
	"github.com/kevin07696/authnet-service/internal/services/events"
	"go.uber.org/zap"
)

// Publisher is satisfied by events.Dispatcher.
type Publisher interface {
	Publish(ctx context.Context, evt events.Event) int
}

// Result is what a notification was classified as.
type Result struct {
	Response  domain.TransactionResponse
	HashValid bool
	Approved  bool
	Outcome   events.EventType
}

// Service classifies relay notifications and publishes exactly one outcome per call.
type Service struct {
	loginID   string
	md5Secret string
	publisher Publisher
	logger    *zap.Logger
}

// NewService creates a notification service. An empty md5Secret disables hash verification.
func NewService(loginID, md5Secret string, publisher Publisher, logger *zap.Logger) *Service {
	return &Service{
		loginID:   loginID,
		md5Secret: md5Secret,
		publisher: publisher,
		logger:    logger,
	}
}

// HandleNotification builds the response, checks its hash and publishes the outcome.
// It never fails: a bad hash or missing field only downgrades the outcome to flagged.
func (s *Service) HandleNotification(ctx context.Context, values url.Values) Result {
	resp := domain.NewTransactionResponseFromValues(values)
	hashValid := s.verify(resp)

	result := Result{
		Response:  resp,
		HashValid: hashValid,
		Approved:  resp.IsApproved() && hashValid,
		Outcome:   events.PaymentFlagged,
	}
	if result.Approved {
		result.Outcome = events.PaymentSucceeded
	}

	s.logger.Info("Relay notification received",
		zap.String("trans_id", resp.TransID),
		zap.String("amount", resp.Amount),
		zap.String("response_code", resp.ResponseCode),
		zap.Bool("hash_valid", hashValid),
		zap.String("outcome", string(result.Outcome)),
	)

	s.publisher.Publish(ctx, events.NewEvent(result.Outcome, resp, hashValid))
	return result
}

func (s *Service) verify(resp domain.TransactionResponse) bool {
	if s.md5Secret == "" {
		return true
	}
	if resp.TransID == "" || resp.Amount == "" {
		s.logger.Warn("Relay notification missing fields required for hash verification",
			zap.Bool("has_trans_id", resp.TransID != ""),
			zap.Bool("has_amount", resp.Amount != ""),
		)
		return false
	}
	valid := authnet.VerifyHash(s.md5Secret, s.loginID, resp.TransID, resp.Amount, resp.MD5Hash)
	if !valid {
		s.logger.Warn("Relay notification hash mismatch",
			zap.String("trans_id", resp.TransID),
		)
	}
	return valid
}
