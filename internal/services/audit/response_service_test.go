package audit

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/kevin07696/authnet-service/internal/domain"
	"github.com/kevin07696/authnet-service/internal/testutil/fixtures"
	"github.com/kevin07696/authnet-service/internal/testutil/mocks"
)

func newTestService(t *testing.T) (*ResponseService, *mocks.MockResponseRepository) {
	repo := new(mocks.MockResponseRepository)
	return NewResponseService(&mocks.MockDB{}, repo, zaptest.NewLogger(t)), repo
}

func TestRecord(t *testing.T) {
	svc, repo := newTestService(t)
	resp := fixtures.ApprovedResponse()

	repo.On("Create", mock.Anything, mock.Anything, mock.MatchedBy(func(r *domain.TransactionResponse) bool {
		return r.ID == resp.ID && r.TransID == fixtures.TransID
	})).Return(nil).Once()

	require.NoError(t, svc.Record(context.Background(), resp))
	repo.AssertExpectations(t)
}

func TestRecord_StoreFailure(t *testing.T) {
	svc, repo := newTestService(t)
	storeErr := errors.New("connection refused")
	repo.On("Create", mock.Anything, mock.Anything, mock.Anything).Return(storeErr).Once()

	err := svc.Record(context.Background(), fixtures.ApprovedResponse())
	assert.ErrorIs(t, err, storeErr)
}

func TestGet(t *testing.T) {
	svc, repo := newTestService(t)
	resp := fixtures.ApprovedResponse()

	repo.On("GetByID", mock.Anything, mock.Anything, resp.ID).Return(&resp, nil).Once()
	repo.On("GetByID", mock.Anything, mock.Anything, mock.Anything).Return(nil, domain.ErrResponseNotFound)

	got, err := svc.Get(context.Background(), resp.ID)
	require.NoError(t, err)
	assert.Equal(t, fixtures.TransID, got.TransID)

	_, err = svc.Get(context.Background(), fixtures.DeclinedResponse().ID)
	assert.ErrorIs(t, err, domain.ErrResponseNotFound)
}

func TestRecordingGateway(t *testing.T) {
	ctx := context.Background()
	data := map[string]string{"card_num": "4111111111111111"}
	extra := map[string]string{"amount": fixtures.Amount}

	t.Run("records the reply", func(t *testing.T) {
		svc, repo := newTestService(t)
		next := new(mocks.MockPaymentGateway)
		reply := fixtures.ApprovedResponse()
		next.On("ProcessPayment", ctx, data, extra).Return(reply, nil).Once()
		repo.On("Create", mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()

		got, err := RecordingGateway(next, svc, zaptest.NewLogger(t)).ProcessPayment(ctx, data, extra)
		require.NoError(t, err)
		assert.Equal(t, reply.ID, got.ID)
		repo.AssertExpectations(t)
	})

	t.Run("record failure keeps the reply", func(t *testing.T) {
		svc, repo := newTestService(t)
		next := new(mocks.MockPaymentGateway)
		reply := fixtures.DeclinedResponse()
		next.On("ProcessPayment", ctx, data, extra).Return(reply, nil).Once()
		repo.On("Create", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("disk full")).Once()

		got, err := RecordingGateway(next, svc, zaptest.NewLogger(t)).ProcessPayment(ctx, data, extra)
		require.NoError(t, err)
		assert.False(t, got.IsApproved())
	})

	t.Run("transport error is not recorded", func(t *testing.T) {
		svc, repo := newTestService(t)
		next := new(mocks.MockPaymentGateway)
		next.On("ProcessPayment", ctx, data, extra).Return(domain.TransactionResponse{}, errors.New("timeout")).Once()

		_, err := RecordingGateway(next, svc, zaptest.NewLogger(t)).ProcessPayment(ctx, data, extra)
		require.Error(t, err)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	})
}
