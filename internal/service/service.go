package service

import (
	"context"
	"time"

	"github.com/carson-networks/ledger-server/internal/operator/actions"
	"github.com/carson-networks/ledger-server/internal/storage"
)

// Processor runs a ledger action in one unit of work.
type Processor interface {
	Process(ctx context.Context, action actions.IAction) error
}

// Clock is the source of "now" stamped onto every write.
type Clock func() time.Time

func utcNow() time.Time {
	return time.Now().UTC()
}

// Service holds all business logic services.
type Service struct {
	Account     *AccountService
	Transaction *TransactionService
	Transfer    *TransferService
	Recurring   *RecurringService
	Category    *CategoryService
}

// NewService wires the services over one store and operator. A nil clock uses UTC wall time.
func NewService(store storage.IStorage, ops Processor, clock Clock) *Service {
	if clock == nil {
		clock = utcNow
	}
	return &Service{
		Account:     NewAccountService(store, ops, clock),
		Transaction: NewTransactionService(store, ops, clock),
		Transfer:    NewTransferService(store, ops, clock),
		Recurring:   NewRecurringService(store, ops, clock),
		Category:    NewCategoryService(store, ops, clock),
	}
}
