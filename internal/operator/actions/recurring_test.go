package actions_test

import (
	"context"
	"testing"
	"time"

	"github.com/aarondl/opt/omit"
	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/ledger-server/internal/ledgererr"
	"github.com/carson-networks/ledger-server/internal/operator/actions"
	"github.com/carson-networks/ledger-server/internal/recurrence"
	"github.com/carson-networks/ledger-server/internal/storage/recurring"
	"github.com/carson-networks/ledger-server/internal/storage/transaction"
)

func (l *ledger) createTemplate(t *testing.T, userID, accountID uuid.UUID, f recurrence.Frequency, start time.Time) *recurring.Template {
	t.Helper()
	create := &actions.CreateRecurring{
		Create: recurring.TemplateCreate{
			UserID:      userID,
			AccountID:   accountID,
			Type:        transaction.TypeExpense,
			Amount:      decimal.NewFromInt(100),
			Description: "Rent",
			Frequency:   f,
			StartDate:   start,
		},
		Now: now,
	}
	l.mustRun(t, create)
	return create.Template
}

// -- CreateRecurring / UpdateRecurring tests --

func TestCreateRecurring_Validation(t *testing.T) {
	l := newLedger(t)
	userID := newUserID()
	acc := l.openAccount(t, userID, "0")
	end := day(2024, 12, 31)

	base := recurring.TemplateCreate{
		UserID:    userID,
		AccountID: acc.ID,
		Type:      transaction.TypeIncome,
		Amount:    decimal.NewFromInt(10),
		Frequency: recurrence.Weekly,
		StartDate: day(2025, 1, 1),
	}

	tests := []struct {
		name   string
		mutate func(c *recurring.TemplateCreate)
		want   error
	}{
		{"transfer type", func(c *recurring.TemplateCreate) { c.Type = transaction.TypeTransfer }, ledgererr.ErrInvalidType},
		{"zero amount", func(c *recurring.TemplateCreate) { c.Amount = decimal.Zero }, ledgererr.ErrInvalidAmount},
		{"end before start", func(c *recurring.TemplateCreate) { c.EndDate = &end }, ledgererr.ErrInvalidSchedule},
		{"bad frequency", func(c *recurring.TemplateCreate) { c.Frequency = recurrence.Frequency(7) }, ledgererr.ErrInvalidSchedule},
		{"foreign account", func(c *recurring.TemplateCreate) { c.UserID = newUserID() }, ledgererr.ErrAccountNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			create := base
			tt.mutate(&create)
			assert.ErrorIs(t, l.run(&actions.CreateRecurring{Create: create, Now: now}), tt.want)
		})
	}
}

func TestUpdateRecurring_EndDateBeforeLastGenerated(t *testing.T) {
	l := newLedger(t)
	userID := newUserID()
	acc := l.openAccount(t, userID, "1000")
	tpl := l.createTemplate(t, userID, acc.ID, recurrence.Monthly, day(2025, 1, 15))

	l.mustRun(t, &actions.MaterializeOccurrence{RecurringID: tpl.ID, OccurrenceDate: day(2025, 1, 15), Now: now})
	l.mustRun(t, &actions.MaterializeOccurrence{RecurringID: tpl.ID, OccurrenceDate: day(2025, 2, 15), Now: now})

	err := l.run(&actions.UpdateRecurring{
		UserID:      userID,
		RecurringID: tpl.ID,
		Update:      recurring.TemplateUpdate{EndDate: omit.From(day(2025, 2, 1))},
		Now:         now,
	})
	assert.ErrorIs(t, err, ledgererr.ErrInvalidSchedule)

	update := &actions.UpdateRecurring{
		UserID:      userID,
		RecurringID: tpl.ID,
		Update: recurring.TemplateUpdate{
			Amount:  omit.From(decimal.RequireFromString("120.555")),
			EndDate: omit.From(day(2025, 6, 30)),
		},
		Now: now,
	}
	l.mustRun(t, update)
	assert.Equal(t, "120.56", update.Template.Amount.StringFixed(2))

	stored, err := l.store.Reader().Recurring.FindByID(context.Background(), tpl.ID)
	require.NoError(t, err)
	assert.Equal(t, day(2025, 6, 30), *stored.EndDate)
	assert.Equal(t, day(2025, 2, 15), *stored.LastGeneratedDate)
}

// -- MaterializeOccurrence tests --

func TestMaterializeOccurrence_AppliesOnce(t *testing.T) {
	l := newLedger(t)
	userID := newUserID()
	acc := l.openAccount(t, userID, "1000")
	tpl := l.createTemplate(t, userID, acc.ID, recurrence.Monthly, day(2025, 1, 31))

	first := &actions.MaterializeOccurrence{RecurringID: tpl.ID, OccurrenceDate: day(2025, 1, 31), Now: now}
	l.mustRun(t, first)

	assert.True(t, first.Transaction.IsRecurring)
	assert.Equal(t, nullID(tpl.ID), first.Transaction.RecurringID)
	assert.Equal(t, day(2025, 1, 31), first.Transaction.TransactionDate)

	err := l.run(&actions.MaterializeOccurrence{RecurringID: tpl.ID, OccurrenceDate: day(2025, 1, 31), Now: now})
	assert.ErrorIs(t, err, ledgererr.ErrAlreadyGenerated)
	assert.Equal(t, ledgererr.KindStateConflict, ledgererr.KindOf(err))

	l.assertBalance(t, acc.ID, "900")
	assert.Len(t, l.history(t, acc.ID), 2)
}

func TestMaterializeOccurrence_FollowsClampedMonthlySchedule(t *testing.T) {
	l := newLedger(t)
	userID := newUserID()
	acc := l.openAccount(t, userID, "1000")
	tpl := l.createTemplate(t, userID, acc.ID, recurrence.Monthly, day(2025, 1, 31))

	err := l.run(&actions.MaterializeOccurrence{RecurringID: tpl.ID, OccurrenceDate: day(2025, 2, 27), Now: now})
	assert.ErrorIs(t, err, ledgererr.ErrInvalidOccurrence)

	stored, err := l.store.Reader().Recurring.FindByID(context.Background(), tpl.ID)
	require.NoError(t, err)
	due := recurrence.DueOccurrences(stored.Schedule(), day(2025, 4, 30))
	require.Equal(t, []time.Time{day(2025, 1, 31), day(2025, 2, 28), day(2025, 3, 31), day(2025, 4, 30)}, due)

	for _, d := range due {
		l.mustRun(t, &actions.MaterializeOccurrence{RecurringID: tpl.ID, OccurrenceDate: d, Now: now})
	}

	l.assertBalance(t, acc.ID, "600")
	stored, err = l.store.Reader().Recurring.FindByID(context.Background(), tpl.ID)
	require.NoError(t, err)
	assert.Equal(t, day(2025, 4, 30), *stored.LastGeneratedDate)
	assert.Empty(t, recurrence.DueOccurrences(stored.Schedule(), day(2025, 5, 30)))
}

func TestMaterializeOccurrence_Rejections(t *testing.T) {
	l := newLedger(t)
	userID := newUserID()
	acc := l.openAccount(t, userID, "1000")
	tpl := l.createTemplate(t, userID, acc.ID, recurrence.Daily, day(2025, 3, 1))

	t.Run("before start", func(t *testing.T) {
		err := l.run(&actions.MaterializeOccurrence{RecurringID: tpl.ID, OccurrenceDate: day(2025, 2, 28), Now: now})
		assert.ErrorIs(t, err, ledgererr.ErrInvalidOccurrence)
	})

	t.Run("other owner", func(t *testing.T) {
		err := l.run(&actions.MaterializeOccurrence{
			UserID:         nullID(newUserID()),
			RecurringID:    tpl.ID,
			OccurrenceDate: day(2025, 3, 1),
			Now:            now,
		})
		assert.ErrorIs(t, err, ledgererr.ErrRecurringNotFound)
	})

	t.Run("inactive template", func(t *testing.T) {
		l.mustRun(t, &actions.DeactivateRecurring{UserID: userID, RecurringID: tpl.ID, Now: now})
		err := l.run(&actions.MaterializeOccurrence{RecurringID: tpl.ID, OccurrenceDate: day(2025, 3, 1), Now: now})
		assert.ErrorIs(t, err, ledgererr.ErrRecurringInactive)
	})

	l.assertBalance(t, acc.ID, "1000")
}

func TestMaterializeOccurrence_InactiveAccount(t *testing.T) {
	l := newLedger(t)
	userID := newUserID()
	acc := l.openAccount(t, userID, "1000")
	tpl := l.createTemplate(t, userID, acc.ID, recurrence.Weekly, day(2025, 3, 3))
	l.mustRun(t, &actions.DeactivateAccount{UserID: userID, AccountID: acc.ID, Now: now})

	err := l.run(&actions.MaterializeOccurrence{RecurringID: tpl.ID, OccurrenceDate: day(2025, 3, 3), Now: now})
	assert.ErrorIs(t, err, ledgererr.ErrAccountInactive)

	stored, err := l.store.Reader().Recurring.FindByID(context.Background(), tpl.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.LastGeneratedDate)
}
