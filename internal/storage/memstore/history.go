package memstore

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/ledger-server/internal/storage/balancehistory"
)

type history struct {
	table
}

var _ balancehistory.IWriter = (*history)(nil)

// Entries are appended in sequence order and recordedAt never decreases per
// account, so the slice is already sorted for every account.
func (h *history) ListRange(_ context.Context, filter *balancehistory.RangeFilter) ([]*balancehistory.Entry, error) {
	var entries []*balancehistory.Entry
	for _, e := range h.view().history {
		if e.AccountID != filter.AccountID {
			continue
		}
		if e.RecordedAt.Before(filter.Start) || e.RecordedAt.After(filter.End) {
			continue
		}
		entries = append(entries, &e)
	}
	return entries, nil
}

func (h *history) Latest(_ context.Context, accountID uuid.UUID) (*balancehistory.Entry, error) {
	all := h.view().history
	for i := len(all) - 1; i >= 0; i-- {
		if all[i].AccountID == accountID {
			e := all[i]
			return &e, nil
		}
	}
	return nil, nil
}

func (h *history) Insert(_ context.Context, create *balancehistory.EntryCreate) (*balancehistory.Entry, error) {
	if err := h.check("balance_history.insert"); err != nil {
		return nil, err
	}
	id, err := uuid.NewV7()
	if err != nil {
		return nil, err
	}

	d := h.view()
	d.historySeq++
	e := balancehistory.Entry{
		ID:         id,
		AccountID:  create.AccountID,
		Balance:    create.Balance,
		RecordedAt: create.RecordedAt,
		Sequence:   d.historySeq,
	}
	d.history = append(d.history, e)
	return &e, nil
}
