package memstore

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/ledger-server/internal/storage/transfer"
)

type transfers struct {
	table
}

var _ transfer.IWriter = (*transfers)(nil)

func (t *transfers) FindByID(_ context.Context, id uuid.UUID) (*transfer.Transfer, error) {
	tr, ok := t.view().transfers[id]
	if !ok {
		return nil, nil
	}
	return &tr, nil
}

func (t *transfers) FindByTransaction(ctx context.Context, transactionID uuid.UUID) (*transfer.Transfer, error) {
	id, ok := t.view().legs[transactionID]
	if !ok {
		return nil, nil
	}
	return t.FindByID(ctx, id)
}

func (t *transfers) Insert(_ context.Context, create *transfer.TransferCreate, now time.Time) (*transfer.Transfer, error) {
	if err := t.check("transfer.insert"); err != nil {
		return nil, err
	}

	d := t.view()
	for _, txID := range []uuid.UUID{create.SourceTransactionID, create.DestinationTransactionID} {
		if _, taken := d.legs[txID]; taken {
			return nil, transfer.ErrLegTaken
		}
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, err
	}
	tr := transfer.Transfer{
		ID:     id,
		UserID: create.UserID,
		Legs: []transfer.Leg{
			{TransactionID: create.SourceTransactionID, Role: transfer.RoleSource},
			{TransactionID: create.DestinationTransactionID, Role: transfer.RoleDestination},
		},
		CreatedAt: now,
	}
	d.transfers[id] = tr
	d.legs[create.SourceTransactionID] = id
	d.legs[create.DestinationTransactionID] = id
	return &tr, nil
}
