package transaction

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/ledger-server/internal/service"
	"github.com/carson-networks/ledger-server/internal/storage/transaction"
)

type mockTransactionLister struct {
	mock.Mock
}

func (m *mockTransactionLister) ListTransactions(ctx context.Context, filter service.ListFilter, cursor *transaction.TransactionCursor) ([]*transaction.Transaction, *transaction.TransactionCursor, error) {
	args := m.Called(ctx, filter, cursor)
	txs, _ := args.Get(0).([]*transaction.Transaction)
	next, _ := args.Get(1).(*transaction.TransactionCursor)
	return txs, next, args.Error(2)
}

func newListTestAPI(t *testing.T, svc transactionLister) humatest.TestAPI {
	t.Helper()
	_, api := humatest.New(t)
	NewListTransactionsHandler(svc).Register(api)
	return api
}

func listInput(body ListTransactionsBody) *ListTransactionsInput {
	input := &ListTransactionsInput{Body: body}
	input.UserID = userID.String()
	return input
}

// -- parseListTransactionsInput unit tests --

func TestParseListTransactionsInput_NoCursor(t *testing.T) {
	filter, cursor, err := parseListTransactionsInput(listInput(ListTransactionsBody{}))
	assert.NoError(t, err)
	assert.Nil(t, cursor)
	assert.Equal(t, service.ListFilter{UserID: userID}, filter)
}

func TestParseListTransactionsInput_WithCursorAndFilter(t *testing.T) {
	cursorMaxTime := "2025-06-15T08:00:00.123456Z"
	accountID := uuid.Must(uuid.NewV4())

	filter, cursor, err := parseListTransactionsInput(listInput(ListTransactionsBody{
		AccountID: accountID.String(),
		Cursor: &ListTransactionsCursor{
			Position:        40,
			Limit:           10,
			MaxCreationTime: cursorMaxTime,
		},
	}))
	require.NoError(t, err)

	require.NotNil(t, filter.AccountID)
	assert.Equal(t, accountID, *filter.AccountID)
	assert.Nil(t, filter.CategoryID)

	expectedMax, _ := time.Parse(time.RFC3339, cursorMaxTime)
	require.NotNil(t, cursor)
	assert.Equal(t, 40, cursor.Position)
	assert.Equal(t, 10, cursor.Limit)
	assert.Equal(t, expectedMax, cursor.MaxCreationTime)
	assert.Equal(t, 123456000, cursor.MaxCreationTime.Nanosecond())
}

func TestParseListTransactionsInput_InvalidCursorMaxCreationTime(t *testing.T) {
	_, _, err := parseListTransactionsInput(listInput(ListTransactionsBody{
		Cursor: &ListTransactionsCursor{Position: 0, Limit: 10, MaxCreationTime: "not-a-date"},
	}))
	assert.Error(t, err)
}

// -- HTTP integration tests --

func TestHTTP_ListTransactions_SinglePage(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	txID := uuid.Must(uuid.NewV4())

	mockSvc := new(mockTransactionLister)
	mockSvc.On("ListTransactions", mock.Anything, service.ListFilter{UserID: userID}, (*transaction.TransactionCursor)(nil)).
		Return([]*transaction.Transaction{
			{
				ID:              txID,
				AccountID:       uuid.Must(uuid.NewV4()),
				Type:            transaction.TypeExpense,
				Amount:          decimal.RequireFromString("10.00"),
				Description:     "Coffee",
				TransactionDate: now,
				CreatedAt:       now,
			},
		}, (*transaction.TransactionCursor)(nil), nil)

	resp := newListTestAPI(t, mockSvc).Post("/v1/transaction/list", userHdr, ListTransactionsBody{})

	assert.Equal(t, http.StatusOK, resp.Code)
	var body ListTransactionsResponseBody
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Transactions, 1)
	assert.Equal(t, txID.String(), body.Transactions[0].ID)
	assert.Equal(t, "", body.Transactions[0].CategoryID)
	assert.Nil(t, body.NextCursor)
	mockSvc.AssertExpectations(t)
}

func TestHTTP_ListTransactions_MultiplePages(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 250_000_000, time.UTC)
	svcDefaultLimit := 20

	txs := make([]*transaction.Transaction, 2)
	for i := range txs {
		txs[i] = &transaction.Transaction{
			ID:              uuid.Must(uuid.NewV4()),
			AccountID:       uuid.Must(uuid.NewV4()),
			Amount:          decimal.RequireFromString("5.00"),
			TransactionDate: now,
			CreatedAt:       now,
		}
	}

	mockSvc := new(mockTransactionLister)
	mockSvc.On("ListTransactions", mock.Anything, mock.Anything, (*transaction.TransactionCursor)(nil)).
		Return(txs, &transaction.TransactionCursor{
			Position:        svcDefaultLimit,
			Limit:           svcDefaultLimit,
			MaxCreationTime: now,
		}, nil)

	resp := newListTestAPI(t, mockSvc).Post("/v1/transaction/list", userHdr, ListTransactionsBody{})

	assert.Equal(t, http.StatusOK, resp.Code)
	var body ListTransactionsResponseBody
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Len(t, body.Transactions, 2)
	require.NotNil(t, body.NextCursor)
	assert.Equal(t, svcDefaultLimit, body.NextCursor.Position)
	assert.Equal(t, svcDefaultLimit, body.NextCursor.Limit)
	assert.Equal(t, "2025-06-01T12:00:00.25Z", body.NextCursor.MaxCreationTime)
	mockSvc.AssertExpectations(t)
}

func TestHTTP_ListTransactions_WithCursor(t *testing.T) {
	maxTime := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)

	mockSvc := new(mockTransactionLister)
	mockSvc.On("ListTransactions", mock.Anything, mock.Anything, mock.MatchedBy(func(c *transaction.TransactionCursor) bool {
		return c != nil &&
			c.Position == 40 &&
			c.Limit == 10 &&
			c.MaxCreationTime.Equal(maxTime)
	})).Return(([]*transaction.Transaction)(nil), (*transaction.TransactionCursor)(nil), nil)

	resp := newListTestAPI(t, mockSvc).Post("/v1/transaction/list", userHdr, ListTransactionsBody{
		Cursor: &ListTransactionsCursor{
			Position:        40,
			Limit:           10,
			MaxCreationTime: maxTime.Format(time.RFC3339),
		},
	})

	assert.Equal(t, http.StatusOK, resp.Code)
	var body ListTransactionsResponseBody
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Empty(t, body.Transactions)
	assert.Nil(t, body.NextCursor)
	mockSvc.AssertExpectations(t)
}

func TestHTTP_ListTransactions_ServiceError(t *testing.T) {
	mockSvc := new(mockTransactionLister)
	mockSvc.On("ListTransactions", mock.Anything, mock.Anything, mock.Anything).
		Return(([]*transaction.Transaction)(nil), (*transaction.TransactionCursor)(nil), errors.New("database unavailable"))

	resp := newListTestAPI(t, mockSvc).Post("/v1/transaction/list", userHdr, ListTransactionsBody{})

	assert.Equal(t, http.StatusInternalServerError, resp.Code)
	mockSvc.AssertExpectations(t)
}

func TestHTTP_ListTransactions_InvalidCursorMaxCreationTime(t *testing.T) {
	mockSvc := new(mockTransactionLister)

	resp := newListTestAPI(t, mockSvc).Post("/v1/transaction/list", userHdr, ListTransactionsBody{
		Cursor: &ListTransactionsCursor{
			Position:        0,
			Limit:           10,
			MaxCreationTime: "not-a-date",
		},
	})

	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	mockSvc.AssertNotCalled(t, "ListTransactions")
}
