package balancehistory

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
)

// Entry is one append-only balance snapshot of an account.
type Entry struct {
	ID         uuid.UUID
	AccountID  uuid.UUID
	Balance    decimal.Decimal
	RecordedAt time.Time
	// Sequence orders entries that share a RecordedAt.
	Sequence int64
}

// EntryCreate is the input for appending a snapshot.
type EntryCreate struct {
	AccountID  uuid.UUID
	Balance    decimal.Decimal
	RecordedAt time.Time
}

// RangeFilter selects entries of one account with Start <= RecordedAt <= End.
type RangeFilter struct {
	AccountID uuid.UUID
	Start     time.Time
	End       time.Time
}

// IReader is the read side of balance history storage.
type IReader interface {
	// ListRange returns entries ordered by RecordedAt, then Sequence, ascending.
	ListRange(ctx context.Context, filter *RangeFilter) ([]*Entry, error)
	// Latest returns the newest entry of the account, or (nil, nil) if none exists.
	Latest(ctx context.Context, accountID uuid.UUID) (*Entry, error)
}

// IWriter appends entries. There is no update or delete.
type IWriter interface {
	IReader
	Insert(ctx context.Context, create *EntryCreate) (*Entry, error)
}
