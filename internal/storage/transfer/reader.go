package transfer

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/sm"
	"github.com/stephenafamo/scan"

	"github.com/carson-networks/ledger-server/internal/storage/sqlconfig"
)

const (
	transfersTable = "transfers"
	legsTable      = "transfer_legs"

	// legTransactionConstraint allows a transaction to be a leg of at most one transfer.
	legTransactionConstraint = "transfer_legs_transaction_id_key"
)

var (
	transferColumns = sqlconfig.Columns("id", "user_id", "created_at")
	legColumns      = sqlconfig.Columns("transfer_id", "transaction_id", "role")
)

type transferRow struct {
	ID        uuid.UUID `db:"id"`
	UserID    uuid.UUID `db:"user_id"`
	CreatedAt time.Time `db:"created_at"`
}

type legRow struct {
	TransferID    uuid.UUID `db:"transfer_id"`
	TransactionID uuid.UUID `db:"transaction_id"`
	Role          int16     `db:"role"`
}

type Reader struct {
	exec bob.Executor
}

var _ IReader = (*Reader)(nil)

func NewReader(exec bob.Executor) *Reader {
	return &Reader{exec: exec}
}

func (r *Reader) FindByID(ctx context.Context, id uuid.UUID) (*Transfer, error) {
	q := psql.Select(
		sm.Columns(transferColumns...),
		sm.From(transfersTable),
		sm.Where(psql.Quote("id").EQ(psql.Arg(id))),
	)
	row, err := bob.One(ctx, r.exec, q, scan.StructMapper[transferRow]())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	legs, err := r.legs(ctx, row.ID)
	if err != nil {
		return nil, err
	}
	return &Transfer{ID: row.ID, UserID: row.UserID, Legs: legs, CreatedAt: row.CreatedAt}, nil
}

func (r *Reader) FindByTransaction(ctx context.Context, transactionID uuid.UUID) (*Transfer, error) {
	q := psql.Select(
		sm.Columns(legColumns...),
		sm.From(legsTable),
		sm.Where(psql.Quote("transaction_id").EQ(psql.Arg(transactionID))),
	)
	leg, err := bob.One(ctx, r.exec, q, scan.StructMapper[legRow]())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return r.FindByID(ctx, leg.TransferID)
}

func (r *Reader) legs(ctx context.Context, transferID uuid.UUID) ([]Leg, error) {
	q := psql.Select(
		sm.Columns(legColumns...),
		sm.From(legsTable),
		sm.Where(psql.Quote("transfer_id").EQ(psql.Arg(transferID))),
		sm.OrderBy(psql.Quote("role")).Asc(),
	)
	rows, err := bob.All(ctx, r.exec, q, scan.StructMapper[legRow]())
	if err != nil {
		return nil, err
	}

	legs := make([]Leg, len(rows))
	for i, row := range rows {
		legs[i] = Leg{TransactionID: row.TransactionID, Role: Role(row.Role)}
	}
	return legs, nil
}
