package categorization

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
)

// Entry is an immutable audit row of one categorization event.
type Entry struct {
	ID                    uuid.UUID
	TransactionID         uuid.UUID
	OriginalCategoryID    uuid.NullUUID
	OriginalSubcategoryID uuid.NullUUID
	FinalCategoryID       uuid.NullUUID
	FinalSubcategoryID    uuid.NullUUID
	// ConfidenceScore is set only for automatic assignments.
	ConfidenceScore decimal.NullDecimal
	CreatedAt       time.Time
}

type EntryCreate struct {
	TransactionID         uuid.UUID
	OriginalCategoryID    uuid.NullUUID
	OriginalSubcategoryID uuid.NullUUID
	FinalCategoryID       uuid.NullUUID
	FinalSubcategoryID    uuid.NullUUID
	ConfidenceScore       decimal.NullDecimal
}

type IReader interface {
	// ListByTransaction returns the audit trail of a transaction, oldest first.
	ListByTransaction(ctx context.Context, transactionID uuid.UUID) ([]*Entry, error)
}

type IWriter interface {
	IReader
	Insert(ctx context.Context, create *EntryCreate, now time.Time) (*Entry, error)
}
