// Package audit stores and retrieves gateway replies.
package audit

import (
	"context"

	"github.com/google/uuid"
	adapterports "github.com/kevin07696/authnet-service/internal/adapters/ports"
	"github.com/kevin07696/authnet-service/internal/domain"
	"github.com/kevin07696/authnet-service/internal/domain/ports"
	"go.uber.org/zap"
)

// ResponseService records every TransactionResponse the service sees.
type ResponseService struct {
	db     ports.DBPort
	repo   ports.ResponseRepository
	logger *zap.Logger
}

// NewResponseService creates a new response service
func NewResponseService(db ports.DBPort, repo ports.ResponseRepository, logger *zap.Logger) *ResponseService {
	return &ResponseService{db: db, repo: repo, logger: logger}
}

// Record stores a response.
func (s *ResponseService) Record(ctx context.Context, resp domain.TransactionResponse) error {
	if err := s.repo.Create(ctx, s.db.GetDB(), &resp); err != nil {
		s.logger.Error("Failed to record transaction response",
			zap.String("response_id", resp.ID.String()),
			zap.String("trans_id", resp.TransID),
			zap.Error(err),
		)
		return err
	}
	return nil
}

// Get returns a stored response or domain.ErrResponseNotFound.
func (s *ResponseService) Get(ctx context.Context, id uuid.UUID) (*domain.TransactionResponse, error) {
	return s.repo.GetByID(ctx, s.db.GetDB(), id)
}

// recordingGateway persists each reply it gets back from the wrapped gateway.
type recordingGateway struct {
	next     adapterports.PaymentGateway
	recorder *ResponseService
	logger   *zap.Logger
}

// RecordingGateway wraps a payment gateway so AIM replies are kept for audit.
// A failure to record is logged and does not change the reply.
func RecordingGateway(next adapterports.PaymentGateway, recorder *ResponseService, logger *zap.Logger) adapterports.PaymentGateway {
	return &recordingGateway{next: next, recorder: recorder, logger: logger}
}

func (g *recordingGateway) ProcessPayment(ctx context.Context, data, extra map[string]string) (domain.TransactionResponse, error) {
	resp, err := g.next.ProcessPayment(ctx, data, extra)
	if err != nil {
		return resp, err
	}
	if recErr := g.recorder.Record(ctx, resp); recErr != nil {
		g.logger.Warn("AIM response not recorded", zap.String("trans_id", resp.TransID), zap.Error(recErr))
	}
	return resp, nil
}
