package shutdown

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestShutdown_ReverseOrder(t *testing.T) {
	m := NewManager(time.Second, zap.NewNop())
	var order []string
	for _, name := range []string{"database", "metrics", "http"} {
		name := name
		m.RegisterNoErr(name, func() { order = append(order, name) })
	}

	require.NoError(t, m.Shutdown(context.Background()))
	assert.Equal(t, []string{"http", "metrics", "database"}, order)
}

func TestShutdown_ContinuesAfterFailure(t *testing.T) {
	m := NewManager(time.Second, zap.NewNop())
	errHTTP := errors.New("listener busy")
	dbClosed := false

	m.RegisterNoErr("database", func() { dbClosed = true })
	m.Register("http", func(context.Context) error { return errHTTP })

	err := m.Shutdown(context.Background())
	require.ErrorIs(t, err, errHTTP)
	assert.Contains(t, err.Error(), "http")
	assert.True(t, dbClosed)
}

func TestShutdown_DeadlineApplied(t *testing.T) {
	m := NewManager(10*time.Millisecond, zap.NewNop())
	m.Register("slow", func(ctx context.Context) error {
		_, ok := ctx.Deadline()
		assert.True(t, ok)
		<-ctx.Done()
		return ctx.Err()
	})

	assert.ErrorIs(t, m.Shutdown(context.Background()), context.DeadlineExceeded)
}
