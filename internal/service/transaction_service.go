package service

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/ledger-server/internal/ledgererr"
	"github.com/carson-networks/ledger-server/internal/operator/actions"
	"github.com/carson-networks/ledger-server/internal/storage"
	"github.com/carson-networks/ledger-server/internal/storage/categorization"
	"github.com/carson-networks/ledger-server/internal/storage/transaction"
)

const defaultLimit = 20

// TransactionService handles transaction business logic and categorization.
type TransactionService struct {
	storage storage.IStorage
	ops     Processor
	clock   Clock
}

func NewTransactionService(store storage.IStorage, ops Processor, clock Clock) *TransactionService {
	return &TransactionService{storage: store, ops: ops, clock: clock}
}

// CreateTransaction records an INCOME or EXPENSE and applies it to the account.
// A confidence marks a category given at creation as automatic.
func (s *TransactionService) CreateTransaction(
	ctx context.Context,
	create transaction.TransactionCreate,
	confidence decimal.NullDecimal,
) (*transaction.Transaction, error) {
	action := &actions.CreateTransaction{Create: create, Confidence: confidence, Now: s.clock()}
	if err := s.ops.Process(ctx, action); err != nil {
		return nil, err
	}
	return action.Transaction, nil
}

func (s *TransactionService) GetTransaction(ctx context.Context, userID, id uuid.UUID) (*transaction.Transaction, error) {
	txn, err := s.storage.Reader().Transactions.FindByID(ctx, id)
	if err != nil {
		return nil, ledgererr.Storage("find transaction", err)
	}
	if txn == nil || txn.UserID != userID {
		return nil, ledgererr.ErrTransactionNotFound
	}
	return txn, nil
}

// ListFilter narrows a transaction listing.
type ListFilter struct {
	UserID     uuid.UUID
	AccountID  *uuid.UUID
	CategoryID *uuid.UUID
}

// ListTransactions returns a page of transactions using cursor-based pagination.
func (s *TransactionService) ListTransactions(
	ctx context.Context,
	list ListFilter,
	cursor *transaction.TransactionCursor,
) ([]*transaction.Transaction, *transaction.TransactionCursor, error) {
	limit := defaultLimit
	offset := 0
	var maxCreationTime *time.Time
	if cursor != nil {
		limit = cursor.Limit
		offset = cursor.Position
		maxCreationTime = &cursor.MaxCreationTime
	}

	filter := &transaction.TransactionFilter{
		UserID:          list.UserID,
		AccountID:       list.AccountID,
		CategoryID:      list.CategoryID,
		Limit:           limit,
		Offset:          offset,
		MaxCreationTime: maxCreationTime,
	}

	rows, err := s.storage.Reader().Transactions.List(ctx, filter)
	if err != nil {
		return nil, nil, ledgererr.Storage("list transactions", err)
	}

	if len(rows) == 0 {
		return nil, nil, nil
	}

	var nextCursor *transaction.TransactionCursor
	if len(rows) > limit {
		rows = rows[:limit]

		cursorMaxCreationTime := rows[0].CreatedAt
		if maxCreationTime != nil {
			cursorMaxCreationTime = *maxCreationTime
		}

		nextCursor = &transaction.TransactionCursor{
			Position:        offset + limit,
			Limit:           limit,
			MaxCreationTime: cursorMaxCreationTime,
		}
	}

	return rows, nextCursor, nil
}

// Categorize moves a transaction to a new category and appends an audit row.
func (s *TransactionService) Categorize(
	ctx context.Context,
	userID, transactionID uuid.UUID,
	categoryID, subcategoryID uuid.NullUUID,
	confidence decimal.NullDecimal,
) (*categorization.Entry, error) {
	action := &actions.RecordCategorization{
		UserID:        userID,
		TransactionID: transactionID,
		CategoryID:    categoryID,
		SubcategoryID: subcategoryID,
		Confidence:    confidence,
		Now:           s.clock(),
	}
	if err := s.ops.Process(ctx, action); err != nil {
		return nil, err
	}
	return action.Entry, nil
}

// CategorizationHistory returns the audit trail of a transaction, oldest first.
func (s *TransactionService) CategorizationHistory(ctx context.Context, userID, transactionID uuid.UUID) ([]*categorization.Entry, error) {
	if _, err := s.GetTransaction(ctx, userID, transactionID); err != nil {
		return nil, err
	}
	entries, err := s.storage.Reader().Categorizations.ListByTransaction(ctx, transactionID)
	if err != nil {
		return nil, ledgererr.Storage("list categorization history", err)
	}
	return entries, nil
}
