package profile

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	adapterports "github.com/kevin07696/authnet-service/internal/adapters/ports"
	"github.com/kevin07696/authnet-service/internal/domain"
	"github.com/kevin07696/authnet-service/internal/forms"
	"github.com/kevin07696/authnet-service/internal/services/ports"
	"github.com/kevin07696/authnet-service/internal/testutil/fixtures"
	"github.com/kevin07696/authnet-service/internal/testutil/mocks"
	errs "github.com/kevin07696/authnet-service/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func validRequest(t *testing.T, userID string) *ports.CreatePaymentProfileRequest {
	t.Helper()
	form := forms.NewCustomerPaymentForm(nil)
	form.Bind(fixtures.CustomerPaymentFormValues())
	require.True(t, form.IsValid(), "fixture form should be valid: %v", form.Errors())
	return ports.NewCreatePaymentProfileRequest(userID, form.CleanedData())
}

func setup(t *testing.T) (ports.ProfileService, *mocks.MockDB, *mocks.InMemoryProfileRepository, *mocks.MockProfileGateway) {
	db := &mocks.MockDB{}
	repo := mocks.NewInMemoryProfileRepository()
	gateway := new(mocks.MockProfileGateway)
	return NewProfileService(db, repo, gateway, zaptest.NewLogger(t)), db, repo, gateway
}

func TestCreatePaymentProfile_LazyCustomerProfile(t *testing.T) {
	svc, db, repo, gateway := setup(t)
	ctx := context.Background()

	gateway.On("CreateCustomerProfile", mock.Anything, mock.MatchedBy(func(req adapterports.CreateCustomerProfileRequest) bool {
		return req.MerchantCustomerID == "user-1" && req.Payment.ExpirationDate == "2099-12"
	})).Return(&adapterports.CreateCustomerProfileResult{
		CustomerProfileID: "CP-1",
		PaymentProfileIDs: []string{"PP-1"},
	}, nil).Once()
	gateway.On("CreateCustomerPaymentProfile", mock.Anything, "CP-1", mock.Anything, mock.Anything).
		Return("PP-2", nil).Once()

	first, err := svc.CreatePaymentProfile(ctx, validRequest(t, "user-1"))
	require.NoError(t, err)
	assert.Equal(t, "PP-1", first.PaymentProfileID)
	assert.Equal(t, "1111", first.CardLastFour)
	assert.Equal(t, "2099-12", first.ExpirationDate)

	second, err := svc.CreatePaymentProfile(ctx, validRequest(t, "user-1"))
	require.NoError(t, err)
	assert.Equal(t, "PP-2", second.PaymentProfileID)
	assert.Equal(t, first.CustomerProfileID, second.CustomerProfileID)

	assert.Equal(t, 1, repo.CustomerProfileCount())
	assert.Equal(t, 2, repo.PaymentProfileCount())
	assert.Equal(t, 2, db.Transactions)
	gateway.AssertExpectations(t)
}

func TestCreatePaymentProfile_SeparateUsers(t *testing.T) {
	svc, _, repo, gateway := setup(t)

	gateway.On("CreateCustomerProfile", mock.Anything, mock.Anything).
		Return(&adapterports.CreateCustomerProfileResult{CustomerProfileID: "CP-A", PaymentProfileIDs: []string{"PP-A"}}, nil).Once()
	gateway.On("CreateCustomerProfile", mock.Anything, mock.Anything).
		Return(&adapterports.CreateCustomerProfileResult{CustomerProfileID: "CP-B", PaymentProfileIDs: []string{"PP-B"}}, nil).Once()

	_, err := svc.CreatePaymentProfile(context.Background(), validRequest(t, "a"))
	require.NoError(t, err)
	_, err = svc.CreatePaymentProfile(context.Background(), validRequest(t, "b"))
	require.NoError(t, err)

	assert.Equal(t, 2, repo.CustomerProfileCount())
	gateway.AssertNotCalled(t, "CreateCustomerPaymentProfile", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCreatePaymentProfile_GatewayFailure(t *testing.T) {
	svc, _, repo, gateway := setup(t)

	gwErr := errs.NewGatewayError("E00027", "The transaction was unsuccessful.", errs.CategoryDeclined)
	gateway.On("CreateCustomerProfile", mock.Anything, mock.Anything).Return(nil, gwErr).Once()

	_, err := svc.CreatePaymentProfile(context.Background(), validRequest(t, "user-1"))

	require.Error(t, err)
	assert.True(t, domain.IsGatewayError(err))
	var target *errs.GatewayError
	require.True(t, errors.As(err, &target))
	assert.Equal(t, "E00027", target.Code)
	assert.Equal(t, 0, repo.CustomerProfileCount())
	assert.Equal(t, 0, repo.PaymentProfileCount())
}

func TestCreatePaymentProfile_UnexpectedProfileCount(t *testing.T) {
	svc, _, repo, gateway := setup(t)

	gateway.On("CreateCustomerProfile", mock.Anything, mock.Anything).
		Return(&adapterports.CreateCustomerProfileResult{CustomerProfileID: "CP-1"}, nil).Once()

	_, err := svc.CreatePaymentProfile(context.Background(), validRequest(t, "user-1"))

	assert.True(t, domain.IsGatewayError(err))
	assert.Equal(t, 0, repo.CustomerProfileCount())
}

func TestCreatePaymentProfile_StoreFailure(t *testing.T) {
	svc, _, repo, gateway := setup(t)
	repo.FailCreatePayment = errors.New("disk full")

	gateway.On("CreateCustomerProfile", mock.Anything, mock.Anything).
		Return(&adapterports.CreateCustomerProfileResult{CustomerProfileID: "CP-1", PaymentProfileIDs: []string{"PP-1"}}, nil).Once()

	_, err := svc.CreatePaymentProfile(context.Background(), validRequest(t, "user-1"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}

func TestCreatePaymentProfile_MissingIdentity(t *testing.T) {
	svc, db, _, gateway := setup(t)

	_, err := svc.CreatePaymentProfile(context.Background(), validRequest(t, ""))

	assert.True(t, errors.Is(err, domain.ErrIdentityMissing))
	assert.Equal(t, 0, db.Transactions)
	gateway.AssertNotCalled(t, "CreateCustomerProfile", mock.Anything, mock.Anything)
}

func TestGetAndListPaymentProfiles(t *testing.T) {
	svc, _, _, gateway := setup(t)
	ctx := context.Background()

	gateway.On("CreateCustomerProfile", mock.Anything, mock.Anything).
		Return(&adapterports.CreateCustomerProfileResult{CustomerProfileID: "CP-1", PaymentProfileIDs: []string{"PP-1"}}, nil).Once()
	created, err := svc.CreatePaymentProfile(ctx, validRequest(t, "owner"))
	require.NoError(t, err)

	got, err := svc.GetPaymentProfile(ctx, "owner", created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.PaymentProfileID, got.PaymentProfileID)

	_, err = svc.GetPaymentProfile(ctx, "intruder", created.ID)
	assert.True(t, domain.IsNotFoundError(err))

	_, err = svc.GetPaymentProfile(ctx, "owner", uuid.New())
	assert.True(t, domain.IsNotFoundError(err))

	list, err := svc.ListPaymentProfiles(ctx, "owner")
	require.NoError(t, err)
	assert.Len(t, list, 1)

	list, err = svc.ListPaymentProfiles(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, list)
}
