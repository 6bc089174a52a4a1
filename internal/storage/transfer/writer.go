package transfer

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/dialect"
	"github.com/stephenafamo/bob/dialect/psql/im"

	"github.com/carson-networks/ledger-server/internal/storage/sqlconfig"
)

type Writer struct {
	tx bob.Executor
	Reader
}

var _ IWriter = (*Writer)(nil)

func NewWriter(tx bob.Executor) *Writer {
	return &Writer{
		tx:     tx,
		Reader: Reader{exec: tx},
	}
}

// Insert stores the transfer row and both of its legs.
func (w *Writer) Insert(ctx context.Context, create *TransferCreate, now time.Time) (*Transfer, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, err
	}

	_, err = bob.Exec(ctx, w.tx, psql.Insert(
		im.Into(transfersTable, "id", "user_id", "created_at"),
		im.Values(psql.Arg(id, create.UserID, now)),
	))
	if err != nil {
		return nil, err
	}

	legs := []Leg{
		{TransactionID: create.SourceTransactionID, Role: RoleSource},
		{TransactionID: create.DestinationTransactionID, Role: RoleDestination},
	}
	mods := []bob.Mod[*dialect.InsertQuery]{
		im.Into(legsTable, "transfer_id", "transaction_id", "role"),
	}
	for _, l := range legs {
		mods = append(mods, im.Values(psql.Arg(id, l.TransactionID, int16(l.Role))))
	}
	_, err = bob.Exec(ctx, w.tx, psql.Insert(mods...))
	if sqlconfig.IsUniqueViolation(err, legTransactionConstraint) {
		return nil, ErrLegTaken
	}
	if err != nil {
		return nil, err
	}

	return &Transfer{ID: id, UserID: create.UserID, Legs: legs, CreatedAt: now}, nil
}
