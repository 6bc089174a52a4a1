package actions_test

import (
	"testing"

	"github.com/aarondl/opt/omit"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/ledger-server/internal/ledgererr"
	"github.com/carson-networks/ledger-server/internal/operator/actions"
	"github.com/carson-networks/ledger-server/internal/storage/account"
)

func intp(v int) *int {
	return &v
}

// -- CreateAccount tests --

func TestCreateAccount_InitialBalanceWritesHistory(t *testing.T) {
	l := newLedger(t)
	acc := l.openAccount(t, newUserID(), "1000")

	l.assertBalance(t, acc.ID, "1000")
	entries := l.history(t, acc.ID)
	require.Len(t, entries, 1)
	assert.Equal(t, now, entries[0].RecordedAt)
}

func TestCreateAccount_ZeroBalanceWritesNoHistory(t *testing.T) {
	l := newLedger(t)
	acc := l.openAccount(t, newUserID(), "0")

	l.assertBalance(t, acc.ID, "0")
	assert.Empty(t, l.history(t, acc.ID))
}

func TestCreateAccount_CreditTerms(t *testing.T) {
	limit := decimal.NewNullDecimal(decimal.NewFromInt(5000))

	tests := []struct {
		name    string
		create  account.AccountCreate
		wantErr bool
	}{
		{
			name:   "complete terms",
			create: account.AccountCreate{Type: account.AccountTypeCredit, CreditLimit: limit, PaymentDay: intp(5), CutoffDay: intp(20)},
		},
		{
			name:    "missing limit",
			create:  account.AccountCreate{Type: account.AccountTypeCredit, PaymentDay: intp(5), CutoffDay: intp(20)},
			wantErr: true,
		},
		{
			name:    "missing cutoff day",
			create:  account.AccountCreate{Type: account.AccountTypeCredit, CreditLimit: limit, PaymentDay: intp(5)},
			wantErr: true,
		},
		{
			name:    "same days",
			create:  account.AccountCreate{Type: account.AccountTypeCredit, CreditLimit: limit, PaymentDay: intp(12), CutoffDay: intp(12)},
			wantErr: true,
		},
		{
			name:    "day out of range",
			create:  account.AccountCreate{Type: account.AccountTypeCredit, CreditLimit: limit, PaymentDay: intp(32), CutoffDay: intp(1)},
			wantErr: true,
		},
		{
			name:   "debit ignores terms",
			create: account.AccountCreate{Type: account.AccountTypeDebit},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := newLedger(t)
			tt.create.UserID = newUserID()
			tt.create.Name = "Card"

			err := l.run(&actions.CreateAccount{Create: tt.create, Now: now})
			if tt.wantErr {
				assert.ErrorIs(t, err, ledgererr.ErrInvalidCreditTerms)
				assert.Equal(t, ledgererr.KindInvalidInput, ledgererr.KindOf(err))
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestCreateAccount_InvalidType(t *testing.T) {
	l := newLedger(t)
	err := l.run(&actions.CreateAccount{
		Create: account.AccountCreate{UserID: newUserID(), Type: account.AccountType(9)},
		Now:    now,
	})
	assert.ErrorIs(t, err, ledgererr.ErrInvalidType)
}

// -- UpdateAccount / DeactivateAccount tests --

func TestUpdateAccount_RevalidatesCreditTerms(t *testing.T) {
	l := newLedger(t)
	userID := newUserID()
	create := &actions.CreateAccount{
		Create: account.AccountCreate{
			UserID:      userID,
			Name:        "Card",
			Type:        account.AccountTypeCredit,
			CreditLimit: decimal.NewNullDecimal(decimal.NewFromInt(1000)),
			PaymentDay:  intp(5),
			CutoffDay:   intp(20),
		},
		Now: now,
	}
	l.mustRun(t, create)

	err := l.run(&actions.UpdateAccount{
		UserID:    userID,
		AccountID: create.Account.ID,
		Update:    account.AccountUpdate{CutoffDay: omit.From(5)},
		Now:       now,
	})
	assert.ErrorIs(t, err, ledgererr.ErrInvalidCreditTerms)

	update := &actions.UpdateAccount{
		UserID:    userID,
		AccountID: create.Account.ID,
		Update:    account.AccountUpdate{Name: omit.From("Travel card"), CutoffDay: omit.From(25)},
		Now:       now,
	}
	l.mustRun(t, update)
	assert.Equal(t, "Travel card", update.Account.Name)

	stored := l.account(t, create.Account.ID)
	assert.Equal(t, "Travel card", stored.Name)
	assert.Equal(t, 25, *stored.CutoffDay)
}

func TestUpdateAccount_OtherUser(t *testing.T) {
	l := newLedger(t)
	acc := l.openAccount(t, newUserID(), "0")

	err := l.run(&actions.UpdateAccount{
		UserID:    newUserID(),
		AccountID: acc.ID,
		Update:    account.AccountUpdate{Name: omit.From("mine now")},
		Now:       now,
	})
	assert.ErrorIs(t, err, ledgererr.ErrAccountNotFound)
}

func TestDeactivateAccount_BlocksMutationKeepsHistory(t *testing.T) {
	l := newLedger(t)
	userID := newUserID()
	acc := l.openAccount(t, userID, "300")

	l.mustRun(t, &actions.DeactivateAccount{UserID: userID, AccountID: acc.ID, Now: now})

	err := l.run(&actions.ApplyDelta{AccountID: acc.ID, Delta: decimal.NewFromInt(10), Now: now})
	assert.ErrorIs(t, err, ledgererr.ErrAccountInactive)
	assert.Equal(t, ledgererr.KindStateConflict, ledgererr.KindOf(err))

	err = l.run(&actions.ReconcileBalance{UserID: userID, AccountID: acc.ID, NewBalance: decimal.Zero, Now: now})
	assert.ErrorIs(t, err, ledgererr.ErrAccountInactive)

	err = l.run(&actions.DeactivateAccount{UserID: userID, AccountID: acc.ID, Now: now})
	assert.ErrorIs(t, err, ledgererr.ErrAccountNotFound)

	l.assertBalance(t, acc.ID, "300")
	assert.Len(t, l.history(t, acc.ID), 1)
}

// -- ApplyDelta / ReconcileBalance tests --

func TestApplyDelta_BackdatedEventKeepsHistoryOrdered(t *testing.T) {
	l := newLedger(t)
	acc := l.openAccount(t, newUserID(), "100")

	delta := &actions.ApplyDelta{
		AccountID:  acc.ID,
		Delta:      decimal.RequireFromString("-25.50"),
		OccurredAt: day(2025, 1, 1),
		Now:        now,
	}
	l.mustRun(t, delta)

	assert.Equal(t, "74.5", delta.NewBalance.String())
	assert.Equal(t, now, delta.Entry.RecordedAt)

	entries := l.history(t, acc.ID)
	require.Len(t, entries, 2)
	assert.False(t, entries[1].RecordedAt.Before(entries[0].RecordedAt))
	l.assertBalance(t, acc.ID, "74.50")
}

func TestApplyDelta_MissingAccount(t *testing.T) {
	l := newLedger(t)
	err := l.run(&actions.ApplyDelta{AccountID: newUserID(), Delta: decimal.NewFromInt(1), Now: now})
	assert.ErrorIs(t, err, ledgererr.ErrAccountNotFound)
}

func TestReconcileBalance_AppliesDifference(t *testing.T) {
	l := newLedger(t)
	userID := newUserID()
	acc := l.openAccount(t, userID, "1000")

	reconcile := &actions.ReconcileBalance{
		UserID:     userID,
		AccountID:  acc.ID,
		NewBalance: decimal.RequireFromString("875.25"),
		Now:        now,
	}
	l.mustRun(t, reconcile)

	l.assertBalance(t, acc.ID, "875.25")
	assert.Len(t, l.history(t, acc.ID), 2)
}
