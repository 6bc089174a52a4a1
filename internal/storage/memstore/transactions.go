package memstore

import (
	"bytes"
	"context"
	"slices"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/ledger-server/internal/recurrence"
	"github.com/carson-networks/ledger-server/internal/storage/transaction"
)

type transactions struct {
	table
}

var _ transaction.IWriter = (*transactions)(nil)

func (t *transactions) FindByID(_ context.Context, id uuid.UUID) (*transaction.Transaction, error) {
	txn, ok := t.view().transactions[id]
	if !ok {
		return nil, nil
	}
	return &txn, nil
}

func (t *transactions) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*transaction.Transaction, error) {
	return t.FindByID(ctx, id)
}

func (t *transactions) List(_ context.Context, filter *transaction.TransactionFilter) ([]*transaction.Transaction, error) {
	var rows []*transaction.Transaction
	for _, txn := range t.view().transactions {
		if txn.UserID != filter.UserID {
			continue
		}
		if filter.AccountID != nil && txn.AccountID != *filter.AccountID {
			continue
		}
		if filter.CategoryID != nil && (!txn.CategoryID.Valid || txn.CategoryID.UUID != *filter.CategoryID) {
			continue
		}
		if filter.MaxCreationTime != nil && txn.CreatedAt.After(*filter.MaxCreationTime) {
			continue
		}
		rows = append(rows, &txn)
	}
	slices.SortFunc(rows, func(x, y *transaction.Transaction) int {
		if c := y.CreatedAt.Compare(x.CreatedAt); c != 0 {
			return c
		}
		return bytes.Compare(y.ID.Bytes(), x.ID.Bytes())
	})

	limit := 0
	if filter.Limit > 0 {
		limit = filter.Limit + 1
	}
	return page(rows, filter.Offset, limit), nil
}

func (t *transactions) Insert(_ context.Context, create *transaction.TransactionCreate, now time.Time) (*transaction.Transaction, error) {
	if err := t.check("transaction.insert"); err != nil {
		return nil, err
	}

	d := t.view()
	var key occurrenceKey
	if create.RecurringID.Valid {
		key = occurrenceKey{recurringID: create.RecurringID.UUID, date: recurrence.Day(create.TransactionDate)}
		if _, taken := d.occurrences[key]; taken {
			return nil, transaction.ErrDuplicateOccurrence
		}
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, err
	}
	txn := transaction.Transaction{
		ID:              id,
		UserID:          create.UserID,
		AccountID:       create.AccountID,
		Type:            create.Type,
		Amount:          create.Amount,
		Description:     create.Description,
		TransactionDate: create.TransactionDate,
		CategoryID:      create.CategoryID,
		SubcategoryID:   create.SubcategoryID,
		IsRecurring:     create.RecurringID.Valid,
		RecurringID:     create.RecurringID,
		OriginalText:    create.OriginalText,
		CreatedAt:       now,
	}
	d.transactions[id] = txn
	if create.RecurringID.Valid {
		d.occurrences[key] = id
	}
	return &txn, nil
}

func (t *transactions) UpdateCategorization(_ context.Context, id uuid.UUID, c transaction.Categorization) error {
	if err := t.check("transaction.update_categorization"); err != nil {
		return err
	}
	d := t.view()
	txn, ok := d.transactions[id]
	if !ok {
		return nil
	}
	txn.CategoryID = c.CategoryID
	txn.SubcategoryID = c.SubcategoryID
	txn.AutoCategorized = c.AutoCategorized
	d.transactions[id] = txn
	return nil
}
