package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/kevin07696/authnet-service/internal/domain"
)

// ResponseRepository persists gateway replies for audit.
type ResponseRepository interface {
	// Create stores a response. Responses are never updated.
	Create(ctx context.Context, db DBTX, resp *domain.TransactionResponse) error

	// GetByID returns domain.ErrResponseNotFound when no row matches.
	GetByID(ctx context.Context, db DBTX, id uuid.UUID) (*domain.TransactionResponse, error)
}
