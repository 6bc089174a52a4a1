package service

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/ledger-server/internal/ledgererr"
	"github.com/carson-networks/ledger-server/internal/operator/actions"
	"github.com/carson-networks/ledger-server/internal/storage"
	"github.com/carson-networks/ledger-server/internal/storage/transaction"
	"github.com/carson-networks/ledger-server/internal/storage/transfer"
)

// TransferRequest moves Amount from the source to the destination account.
type TransferRequest struct {
	UserID               uuid.UUID
	SourceAccountID      uuid.UUID
	DestinationAccountID uuid.UUID
	Amount               decimal.Decimal
	Date                 time.Time
	Description          string
}

// TransferResult is a transfer with both of its legs.
type TransferResult struct {
	Transfer    *transfer.Transfer
	Source      *transaction.Transaction
	Destination *transaction.Transaction
}

type TransferService struct {
	storage storage.IStorage
	ops     Processor
	clock   Clock
}

func NewTransferService(store storage.IStorage, ops Processor, clock Clock) *TransferService {
	return &TransferService{storage: store, ops: ops, clock: clock}
}

func (s *TransferService) CreateTransfer(ctx context.Context, req TransferRequest) (*TransferResult, error) {
	action := &actions.CreateTransfer{
		UserID:               req.UserID,
		SourceAccountID:      req.SourceAccountID,
		DestinationAccountID: req.DestinationAccountID,
		Amount:               req.Amount,
		Date:                 req.Date,
		Description:          req.Description,
		Now:                  s.clock(),
	}
	if err := s.ops.Process(ctx, action); err != nil {
		return nil, err
	}
	return &TransferResult{Transfer: action.Transfer, Source: action.Source, Destination: action.Destination}, nil
}

// GetTransfer loads a transfer and both legs.
func (s *TransferService) GetTransfer(ctx context.Context, userID, id uuid.UUID) (*TransferResult, error) {
	reader := s.storage.Reader()
	tr, err := reader.Transfers.FindByID(ctx, id)
	if err != nil {
		return nil, ledgererr.Storage("find transfer", err)
	}
	if tr == nil || tr.UserID != userID {
		return nil, ledgererr.ErrTransferNotFound
	}

	result := &TransferResult{Transfer: tr}
	result.Source, err = reader.Transactions.FindByID(ctx, tr.SourceTransactionID())
	if err != nil {
		return nil, ledgererr.Storage("find transfer source", err)
	}
	result.Destination, err = reader.Transactions.FindByID(ctx, tr.DestinationTransactionID())
	if err != nil {
		return nil, ledgererr.Storage("find transfer destination", err)
	}
	return result, nil
}
