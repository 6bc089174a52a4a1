package transfer

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/ledger-server/internal/ledgererr"
	"github.com/carson-networks/ledger-server/internal/service"
	"github.com/carson-networks/ledger-server/internal/storage/transaction"
	"github.com/carson-networks/ledger-server/internal/storage/transfer"
)

var (
	userID  = uuid.Must(uuid.NewV4())
	userHdr = "X-User-ID: " + userID.String()
	today   = time.Date(2025, 4, 15, 16, 0, 0, 0, time.UTC)
)

type mockTransferService struct {
	mock.Mock
}

func (m *mockTransferService) CreateTransfer(ctx context.Context, req service.TransferRequest) (*service.TransferResult, error) {
	args := m.Called(ctx, req)
	result, _ := args.Get(0).(*service.TransferResult)
	return result, args.Error(1)
}

func (m *mockTransferService) GetTransfer(ctx context.Context, userID, id uuid.UUID) (*service.TransferResult, error) {
	args := m.Called(ctx, userID, id)
	result, _ := args.Get(0).(*service.TransferResult)
	return result, args.Error(1)
}

func newTestAPI(t *testing.T, svc *mockTransferService) humatest.TestAPI {
	t.Helper()
	_, api := humatest.New(t)
	create := NewCreateTransferHandler(svc)
	create.now = func() time.Time { return today }
	create.Register(api)
	NewGetTransferHandler(svc).Register(api)
	return api
}

func sampleResult(req service.TransferRequest) *service.TransferResult {
	src := &transaction.Transaction{
		ID: uuid.Must(uuid.NewV4()), AccountID: req.SourceAccountID, Type: transaction.TypeExpense,
		Amount: req.Amount, TransactionDate: req.Date,
	}
	dst := &transaction.Transaction{
		ID: uuid.Must(uuid.NewV4()), AccountID: req.DestinationAccountID, Type: transaction.TypeIncome,
		Amount: req.Amount, TransactionDate: req.Date,
	}
	return &service.TransferResult{
		Transfer: &transfer.Transfer{
			ID:     uuid.Must(uuid.NewV4()),
			UserID: req.UserID,
			Legs: []transfer.Leg{
				{TransactionID: src.ID, Role: transfer.RoleSource},
				{TransactionID: dst.ID, Role: transfer.RoleDestination},
			},
			CreatedAt: today,
		},
		Source:      src,
		Destination: dst,
	}
}

func TestHTTP_CreateTransfer_Success(t *testing.T) {
	srcID, dstID := uuid.Must(uuid.NewV4()), uuid.Must(uuid.NewV4())
	want := service.TransferRequest{
		UserID:               userID,
		SourceAccountID:      srcID,
		DestinationAccountID: dstID,
		Amount:               decimal.RequireFromString("250"),
		Date:                 today,
	}

	svc := new(mockTransferService)
	svc.On("CreateTransfer", mock.Anything, mock.MatchedBy(func(req service.TransferRequest) bool {
		return req.UserID == want.UserID &&
			req.SourceAccountID == srcID &&
			req.DestinationAccountID == dstID &&
			req.Amount.Equal(want.Amount) &&
			req.Date.Equal(today)
	})).Return(sampleResult(want), nil)

	resp := newTestAPI(t, svc).Post("/v1/transfer", userHdr, CreateTransferBody{
		SourceAccountID:      srcID.String(),
		DestinationAccountID: dstID.String(),
		Amount:               "250",
	})

	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	var body Transfer
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "EXPENSE", body.Source.Type)
	assert.Equal(t, "INCOME", body.Destination.Type)
	assert.Equal(t, body.Source.Amount, body.Destination.Amount)
	assert.Equal(t, srcID.String(), body.Source.AccountID)
	svc.AssertExpectations(t)
}

func TestHTTP_CreateTransfer_LedgerRejections(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{ledgererr.ErrSameAccountTransfer, http.StatusBadRequest},
		{ledgererr.ErrInvalidAmount, http.StatusBadRequest},
		{ledgererr.ErrAccountNotFound, http.StatusNotFound},
		{ledgererr.ErrCrossUserTransfer, http.StatusConflict},
		{ledgererr.ErrAccountInactive, http.StatusConflict},
	}
	for _, tt := range tests {
		t.Run(string(ledgererr.CodeOf(tt.err)), func(t *testing.T) {
			svc := new(mockTransferService)
			svc.On("CreateTransfer", mock.Anything, mock.Anything).Return(nil, tt.err)

			resp := newTestAPI(t, svc).Post("/v1/transfer", userHdr, CreateTransferBody{
				SourceAccountID:      uuid.Must(uuid.NewV4()).String(),
				DestinationAccountID: uuid.Must(uuid.NewV4()).String(),
				Amount:               "10",
			})

			assert.Equal(t, tt.status, resp.Code)
		})
	}
}

func TestHTTP_CreateTransfer_InvalidAmount(t *testing.T) {
	svc := new(mockTransferService)

	resp := newTestAPI(t, svc).Post("/v1/transfer", userHdr, CreateTransferBody{
		SourceAccountID:      uuid.Must(uuid.NewV4()).String(),
		DestinationAccountID: uuid.Must(uuid.NewV4()).String(),
		Amount:               "ten",
	})

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	svc.AssertNotCalled(t, "CreateTransfer")
}

func TestHTTP_GetTransfer(t *testing.T) {
	result := sampleResult(service.TransferRequest{
		UserID:               userID,
		SourceAccountID:      uuid.Must(uuid.NewV4()),
		DestinationAccountID: uuid.Must(uuid.NewV4()),
		Amount:               decimal.NewFromInt(5),
		Date:                 today,
	})

	svc := new(mockTransferService)
	svc.On("GetTransfer", mock.Anything, userID, result.Transfer.ID).Return(result, nil)
	svc.On("GetTransfer", mock.Anything, userID, mock.Anything).Return(nil, ledgererr.ErrTransferNotFound)
	api := newTestAPI(t, svc)

	resp := api.Get("/v1/transfer/"+result.Transfer.ID.String(), userHdr)
	require.Equal(t, http.StatusOK, resp.Code)
	var body Transfer
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, result.Source.ID.String(), body.Source.ID)

	resp = api.Get("/v1/transfer/"+uuid.Must(uuid.NewV4()).String(), userHdr)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}
