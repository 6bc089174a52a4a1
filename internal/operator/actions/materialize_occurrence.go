package actions

import (
	"context"
	"errors"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/ledger-server/internal/ledgererr"
	"github.com/carson-networks/ledger-server/internal/recurrence"
	"github.com/carson-networks/ledger-server/internal/storage"
	"github.com/carson-networks/ledger-server/internal/storage/transaction"
)

// MaterializeOccurrence turns one occurrence of a recurring template into a
// transaction, applies it to the balance and advances the template cursor.
//
// The template row lock, the cursor check and the unique occurrence key
// together make a second call for the same date fail with AlreadyGenerated.
type MaterializeOccurrence struct {
	// UserID restricts the call to the template owner. The sweeper leaves it unset.
	UserID         uuid.NullUUID
	RecurringID    uuid.UUID
	OccurrenceDate time.Time
	Now            time.Time

	Transaction *transaction.Transaction
}

var _ IAction = (*MaterializeOccurrence)(nil)

func (m *MaterializeOccurrence) Perform(ctx context.Context, writer *storage.Writer) error {
	tpl, err := lockTemplate(ctx, writer, m.UserID, m.RecurringID)
	if err != nil {
		return err
	}
	if !tpl.IsActive() {
		return ledgererr.ErrRecurringInactive
	}

	date := recurrence.Day(m.OccurrenceDate)
	if tpl.LastGeneratedDate != nil && !date.After(*tpl.LastGeneratedDate) {
		return ledgererr.Newf(ledgererr.KindStateConflict, ledgererr.CodeAlreadyGenerated,
			"occurrence %s is not after last generated %s",
			date.Format(time.DateOnly), tpl.LastGeneratedDate.Format(time.DateOnly))
	}
	if !recurrence.IsOccurrence(tpl.Schedule(), date) {
		return ledgererr.Newf(ledgererr.KindInvalidInput, ledgererr.CodeInvalidOccurrence,
			"%s is not an occurrence of template %s", date.Format(time.DateOnly), tpl.ID)
	}

	if _, err = lockOwnedAccount(ctx, writer, tpl.UserID, tpl.AccountID); err != nil {
		return err
	}

	txn, err := writer.Transactions.Insert(ctx, &transaction.TransactionCreate{
		UserID:          tpl.UserID,
		AccountID:       tpl.AccountID,
		Type:            tpl.Type,
		Amount:          tpl.Amount,
		Description:     tpl.Description,
		TransactionDate: date,
		CategoryID:      tpl.CategoryID,
		SubcategoryID:   tpl.SubcategoryID,
		RecurringID:     uuid.NullUUID{UUID: tpl.ID, Valid: true},
	}, m.Now)
	if errors.Is(err, transaction.ErrDuplicateOccurrence) {
		return ledgererr.ErrAlreadyGenerated
	}
	if err != nil {
		return err
	}

	delta := &ApplyDelta{
		AccountID:  tpl.AccountID,
		Delta:      signedAmount(tpl.Type, tpl.Amount),
		OccurredAt: date,
		Now:        m.Now,
	}
	if err = delta.Perform(ctx, writer); err != nil {
		return err
	}
	if err = writer.Recurring.SetLastGenerated(ctx, tpl.ID, date, m.Now); err != nil {
		return err
	}

	m.Transaction = txn
	return nil
}
