package transaction

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
)

// ErrDuplicateOccurrence is returned by Insert when the recurring template
// already has a transaction on the same occurrence date.
var ErrDuplicateOccurrence = errors.New("transaction: occurrence already materialized")

// Type is the direction tag of a transaction. Amount is always a positive
// magnitude; Type decides the sign of its balance effect.
type Type int8

const (
	TypeIncome Type = iota
	TypeExpense
	TypeTransfer
)

func (t Type) String() string {
	switch t {
	case TypeIncome:
		return "INCOME"
	case TypeExpense:
		return "EXPENSE"
	case TypeTransfer:
		return "TRANSFER"
	default:
		return fmt.Sprintf("Type(%d)", int8(t))
	}
}

func ParseType(s string) (Type, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "INCOME":
		return TypeIncome, nil
	case "EXPENSE":
		return TypeExpense, nil
	case "TRANSFER":
		return TypeTransfer, nil
	default:
		return TypeIncome, fmt.Errorf("unknown transaction type %q", s)
	}
}

// Transaction represents a transaction record.
type Transaction struct {
	ID              uuid.UUID
	UserID          uuid.UUID
	AccountID       uuid.UUID
	Type            Type
	Amount          decimal.Decimal
	Description     string
	TransactionDate time.Time
	CategoryID      uuid.NullUUID
	SubcategoryID   uuid.NullUUID
	IsRecurring     bool
	RecurringID     uuid.NullUUID
	OriginalText    string
	AutoCategorized bool
	CreatedAt       time.Time
}

// TransactionCreate is the input for creating a new transaction.
type TransactionCreate struct {
	UserID          uuid.UUID
	AccountID       uuid.UUID
	Type            Type
	Amount          decimal.Decimal
	Description     string
	TransactionDate time.Time
	CategoryID      uuid.NullUUID
	SubcategoryID   uuid.NullUUID
	RecurringID     uuid.NullUUID
	OriginalText    string
}

// Categorization is the classification state written by the categorization auditor.
type Categorization struct {
	CategoryID      uuid.NullUUID
	SubcategoryID   uuid.NullUUID
	AutoCategorized bool
}

// TransactionFilter specifies filters for listing transactions.
type TransactionFilter struct {
	UserID          uuid.UUID
	AccountID       *uuid.UUID
	CategoryID      *uuid.UUID
	Limit           int
	Offset          int
	MaxCreationTime *time.Time
}

// TransactionCursor identifies a position in a paginated result set
// and carries the limit and maxCreationTime so subsequent pages are consistent.
type TransactionCursor struct {
	Position        int
	Limit           int
	MaxCreationTime time.Time
}

// IReader is the read side of transaction storage.
//
// FindByID returns (nil, nil) when no row matches.
type IReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Transaction, error)
	// List returns up to Limit+1 rows, newest first, so callers can detect a next page.
	List(ctx context.Context, filter *TransactionFilter) ([]*Transaction, error)
}

// IWriter is the write side of transaction storage, bound to one unit of work.
type IWriter interface {
	IReader
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Transaction, error)
	// Insert fails with ErrDuplicateOccurrence when RecurringID and TransactionDate are already taken.
	Insert(ctx context.Context, create *TransactionCreate, now time.Time) (*Transaction, error)
	UpdateCategorization(ctx context.Context, id uuid.UUID, c Categorization) error
}
