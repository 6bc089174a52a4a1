package recurring

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
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
	"github.com/carson-networks/ledger-server/internal/recurrence"
	"github.com/carson-networks/ledger-server/internal/service"
	"github.com/carson-networks/ledger-server/internal/storage/recurring"
	"github.com/carson-networks/ledger-server/internal/storage/transaction"
)

var (
	userID  = uuid.Must(uuid.NewV4())
	userHdr = "X-User-ID: " + userID.String()
	today   = time.Date(2025, 4, 15, 16, 0, 0, 0, time.UTC)
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

type mockRecurringService struct {
	mock.Mock
}

func (m *mockRecurringService) CreateRecurring(ctx context.Context, create recurring.TemplateCreate) (*recurring.Template, error) {
	args := m.Called(ctx, create)
	tpl, _ := args.Get(0).(*recurring.Template)
	return tpl, args.Error(1)
}

func (m *mockRecurringService) UpdateRecurring(ctx context.Context, userID, id uuid.UUID, update recurring.TemplateUpdate) (*recurring.Template, error) {
	args := m.Called(ctx, userID, id, update)
	tpl, _ := args.Get(0).(*recurring.Template)
	return tpl, args.Error(1)
}

func (m *mockRecurringService) DeactivateRecurring(ctx context.Context, userID, id uuid.UUID) error {
	return m.Called(ctx, userID, id).Error(0)
}

func (m *mockRecurringService) GetRecurring(ctx context.Context, userID, id uuid.UUID) (*recurring.Template, error) {
	args := m.Called(ctx, userID, id)
	tpl, _ := args.Get(0).(*recurring.Template)
	return tpl, args.Error(1)
}

func (m *mockRecurringService) ListRecurring(ctx context.Context, userID uuid.UUID, includeInactive bool) ([]*recurring.Template, error) {
	args := m.Called(ctx, userID, includeInactive)
	tpls, _ := args.Get(0).([]*recurring.Template)
	return tpls, args.Error(1)
}

func (m *mockRecurringService) DueOccurrences(ctx context.Context, userID, id uuid.UUID, asOf time.Time) ([]time.Time, error) {
	args := m.Called(ctx, userID, id, asOf)
	dates, _ := args.Get(0).([]time.Time)
	return dates, args.Error(1)
}

func (m *mockRecurringService) Materialize(ctx context.Context, userID, id uuid.UUID, occurrenceDate time.Time) (*transaction.Transaction, error) {
	args := m.Called(ctx, userID, id, occurrenceDate)
	tx, _ := args.Get(0).(*transaction.Transaction)
	return tx, args.Error(1)
}

func (m *mockRecurringService) MaterializeDue(ctx context.Context, asOf time.Time) (*service.SweepResult, error) {
	args := m.Called(ctx, asOf)
	result, _ := args.Get(0).(*service.SweepResult)
	return result, args.Error(1)
}

func newTestAPI(t *testing.T, svc *mockRecurringService) humatest.TestAPI {
	t.Helper()
	_, api := humatest.New(t)
	clock := func() time.Time { return today }

	NewCreateRecurringHandler(svc).Register(api)
	NewGetRecurringHandler(svc).Register(api)
	NewListRecurringHandler(svc).Register(api)
	NewUpdateRecurringHandler(svc).Register(api)
	NewDeactivateRecurringHandler(svc).Register(api)
	due := NewDueOccurrencesHandler(svc)
	due.now = clock
	due.Register(api)
	NewMaterializeHandler(svc).Register(api)
	sweep := NewMaterializeDueHandler(svc)
	sweep.now = clock
	sweep.Register(api)
	return api
}

func salary(id uuid.UUID) *recurring.Template {
	last := day(2025, 3, 31)
	return &recurring.Template{
		ID:                id,
		UserID:            userID,
		AccountID:         uuid.Must(uuid.NewV4()),
		Type:              transaction.TypeIncome,
		Amount:            decimal.RequireFromString("1500.00"),
		Description:       "Salary",
		Frequency:         recurrence.Monthly,
		StartDate:         day(2025, 1, 31),
		LastGeneratedDate: &last,
		Status:            recurring.StatusActive,
		CreatedAt:         today,
	}
}

func TestHTTP_CreateRecurring(t *testing.T) {
	svc := new(mockRecurringService)
	api := newTestAPI(t, svc)
	accountID := uuid.Must(uuid.NewV4())
	id := uuid.Must(uuid.NewV4())

	end := day(2025, 12, 31)
	want := recurring.TemplateCreate{
		UserID:      userID,
		AccountID:   accountID,
		Type:        transaction.TypeIncome,
		Amount:      decimal.RequireFromString("1500.00"),
		Description: "Salary",
		Frequency:   recurrence.Monthly,
		StartDate:   day(2025, 1, 31),
		EndDate:     &end,
	}
	svc.On("CreateRecurring", mock.Anything, mock.MatchedBy(func(c recurring.TemplateCreate) bool {
		return c.UserID == want.UserID && c.AccountID == want.AccountID && c.Type == want.Type &&
			c.Amount.Equal(want.Amount) && c.Frequency == want.Frequency &&
			c.StartDate.Equal(want.StartDate) && c.EndDate != nil && c.EndDate.Equal(end) &&
			!c.CategoryID.Valid
	})).Return(salary(id), nil).Once()

	resp := api.Post("/v1/recurring", userHdr, map[string]any{
		"accountID":   accountID.String(),
		"type":        "INCOME",
		"amount":      "1500.00",
		"frequency":   "MONTHLY",
		"startDate":   "2025-01-31",
		"endDate":     "2025-12-31",
		"description": "Salary",
	})

	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	var body Recurring
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, id.String(), body.ID)
	assert.Equal(t, "MONTHLY", body.Frequency)
	assert.Equal(t, "2025-01-31", body.StartDate)
	assert.Equal(t, "2025-03-31", body.LastGeneratedDate)
	assert.True(t, body.Active)
	svc.AssertExpectations(t)
}

func TestHTTP_CreateRecurring_Rejections(t *testing.T) {
	base := map[string]any{
		"accountID": uuid.Must(uuid.NewV4()).String(),
		"type":      "EXPENSE",
		"amount":    "20",
		"frequency": "WEEKLY",
		"startDate": "2025-03-03",
	}
	with := func(k string, v any) map[string]any {
		out := map[string]any{}
		for key, val := range base {
			out[key] = val
		}
		out[k] = v
		return out
	}

	t.Run("unknown frequency", func(t *testing.T) {
		api := newTestAPI(t, new(mockRecurringService))
		resp := api.Post("/v1/recurring", userHdr, with("frequency", "FORTNIGHTLY"))
		assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	})

	t.Run("transfer type", func(t *testing.T) {
		api := newTestAPI(t, new(mockRecurringService))
		resp := api.Post("/v1/recurring", userHdr, with("type", "TRANSFER"))
		assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	})

	t.Run("bad amount", func(t *testing.T) {
		api := newTestAPI(t, new(mockRecurringService))
		resp := api.Post("/v1/recurring", userHdr, with("amount", "twenty"))
		assert.Equal(t, http.StatusBadRequest, resp.Code)
	})

	t.Run("service rejects schedule", func(t *testing.T) {
		svc := new(mockRecurringService)
		svc.On("CreateRecurring", mock.Anything, mock.Anything).Return(nil, ledgererr.ErrInvalidSchedule)
		api := newTestAPI(t, svc)
		resp := api.Post("/v1/recurring", userHdr, with("endDate", "2025-01-01"))
		assert.Equal(t, http.StatusBadRequest, resp.Code)
	})
}

func TestHTTP_GetAndListRecurring(t *testing.T) {
	svc := new(mockRecurringService)
	api := newTestAPI(t, svc)
	id := uuid.Must(uuid.NewV4())
	missing := uuid.Must(uuid.NewV4())

	svc.On("GetRecurring", mock.Anything, userID, id).Return(salary(id), nil)
	svc.On("GetRecurring", mock.Anything, userID, missing).Return(nil, ledgererr.ErrRecurringNotFound)
	svc.On("ListRecurring", mock.Anything, userID, true).Return([]*recurring.Template{salary(id)}, nil)

	resp := api.Get("/v1/recurring/"+id.String(), userHdr)
	require.Equal(t, http.StatusOK, resp.Code)

	resp = api.Get("/v1/recurring/"+missing.String(), userHdr)
	assert.Equal(t, http.StatusNotFound, resp.Code)

	resp = api.Get("/v1/recurring?includeInactive=true", userHdr)
	require.Equal(t, http.StatusOK, resp.Code)
	var body ListRecurringBody
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Recurring, 1)
	assert.Equal(t, "1500", body.Recurring[0].Amount)
}

func TestHTTP_UpdateRecurring(t *testing.T) {
	svc := new(mockRecurringService)
	api := newTestAPI(t, svc)
	id := uuid.Must(uuid.NewV4())

	svc.On("UpdateRecurring", mock.Anything, userID, id, mock.MatchedBy(func(u recurring.TemplateUpdate) bool {
		amount, ok := u.Amount.Get()
		return ok && amount.Equal(decimal.NewFromInt(1600)) && u.Description.IsUnset() && u.EndDate.IsUnset()
	})).Return(salary(id), nil).Once()

	resp := api.Patch("/v1/recurring/"+id.String(), userHdr, map[string]any{"amount": "1600"})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	svc.On("UpdateRecurring", mock.Anything, userID, id, mock.Anything).Return(nil, ledgererr.ErrRecurringInactive).Once()
	resp = api.Patch("/v1/recurring/"+id.String(), userHdr, map[string]any{"description": "Bonus"})
	assert.Equal(t, http.StatusConflict, resp.Code)
	svc.AssertExpectations(t)
}

func TestHTTP_DeactivateRecurring(t *testing.T) {
	svc := new(mockRecurringService)
	api := newTestAPI(t, svc)
	id := uuid.Must(uuid.NewV4())
	svc.On("DeactivateRecurring", mock.Anything, userID, id).Return(nil)

	resp := api.Delete("/v1/recurring/"+id.String(), userHdr)
	assert.Equal(t, http.StatusNoContent, resp.Code)
}

func TestHTTP_DueOccurrences(t *testing.T) {
	svc := new(mockRecurringService)
	api := newTestAPI(t, svc)
	id := uuid.Must(uuid.NewV4())

	svc.On("DueOccurrences", mock.Anything, userID, id, day(2025, 4, 15)).
		Return([]time.Time{day(2025, 3, 31)}, nil).Once()
	svc.On("DueOccurrences", mock.Anything, userID, id, day(2025, 6, 1)).
		Return([]time.Time{day(2025, 3, 31), day(2025, 4, 30), day(2025, 5, 31)}, nil).Once()

	resp := api.Get(fmt.Sprintf("/v1/recurring/%s/due", id), userHdr)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	var body DueOccurrencesBody
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, []string{"2025-03-31"}, body.Dates)

	resp = api.Get(fmt.Sprintf("/v1/recurring/%s/due?asOf=2025-06-01", id), userHdr)
	require.Equal(t, http.StatusOK, resp.Code)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, []string{"2025-03-31", "2025-04-30", "2025-05-31"}, body.Dates)
	svc.AssertExpectations(t)
}

func TestHTTP_Materialize(t *testing.T) {
	svc := new(mockRecurringService)
	api := newTestAPI(t, svc)
	id := uuid.Must(uuid.NewV4())
	tpl := salary(id)
	tx := &transaction.Transaction{
		ID:              uuid.Must(uuid.NewV4()),
		AccountID:       tpl.AccountID,
		Type:            transaction.TypeIncome,
		Amount:          tpl.Amount,
		TransactionDate: day(2025, 4, 30),
		IsRecurring:     true,
		RecurringID:     uuid.NullUUID{UUID: id, Valid: true},
		CreatedAt:       today,
	}

	svc.On("Materialize", mock.Anything, userID, id, day(2025, 4, 30)).Return(tx, nil).Once()
	svc.On("Materialize", mock.Anything, userID, id, day(2025, 4, 30)).Return(nil, ledgererr.ErrAlreadyGenerated).Once()

	path := fmt.Sprintf("/v1/recurring/%s/materialize", id)
	resp := api.Post(path, userHdr, map[string]any{"date": "2025-04-30"})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	resp = api.Post(path, userHdr, map[string]any{"date": "2025-04-30"})
	assert.Equal(t, http.StatusConflict, resp.Code)
	assert.Contains(t, resp.Body.String(), string(ledgererr.CodeAlreadyGenerated))
	svc.AssertExpectations(t)
}

func TestHTTP_MaterializeDue(t *testing.T) {
	svc := new(mockRecurringService)
	api := newTestAPI(t, svc)

	svc.On("MaterializeDue", mock.Anything, day(2025, 4, 15)).Return(&service.SweepResult{
		Templates: 2,
		Created:   3,
		Failed:    1,
		Errors:    []error{errors.New("recurring x on 2025-04-01: boom")},
	}, nil).Once()

	resp := api.Post("/v1/recurring/materialize-due")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	var body MaterializeDueBody
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, 3, body.Created)
	assert.Equal(t, 1, body.Failed)
	assert.Equal(t, []string{"recurring x on 2025-04-01: boom"}, body.Errors)
	svc.AssertExpectations(t)
}
