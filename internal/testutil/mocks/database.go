// Package mocks provides shared mock implementations for testing.
package mocks

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/kevin07696/authnet-service/internal/domain/ports"
)

// MockDB implements ports.DBPort. Transactions run the callback with a nil
// pgx.Tx, so it is only useful with repository mocks or fakes.
type MockDB struct {
	Transactions int
}

var _ ports.DBPort = (*MockDB)(nil)

func (m *MockDB) GetDB() ports.DBTX {
	return nil
}

func (m *MockDB) WithTransaction(ctx context.Context, fn func(ctx context.Context, tx pgx.Tx) error) error {
	m.Transactions++
	return fn(ctx, nil)
}
