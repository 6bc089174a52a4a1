package transfer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/uuid/v5"
)

// ErrLegTaken is returned by Insert when a transaction is already a leg of another transfer.
var ErrLegTaken = errors.New("transfer: transaction already bound to a transfer")

// Role tags which side of a transfer a leg is on.
type Role int8

const (
	RoleSource Role = iota
	RoleDestination
)

func (r Role) String() string {
	switch r {
	case RoleSource:
		return "SOURCE"
	case RoleDestination:
		return "DESTINATION"
	default:
		return fmt.Sprintf("Role(%d)", int8(r))
	}
}

// Leg is a directed edge from a transfer to one of its transactions.
type Leg struct {
	TransactionID uuid.UUID
	Role          Role
}

// Transfer binds a debit leg and a credit leg of equal amount.
type Transfer struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Legs      []Leg
	CreatedAt time.Time
}

// Leg returns the transaction id of the leg with the given role.
func (t *Transfer) Leg(role Role) (uuid.UUID, bool) {
	for _, l := range t.Legs {
		if l.Role == role {
			return l.TransactionID, true
		}
	}
	return uuid.Nil, false
}

func (t *Transfer) SourceTransactionID() uuid.UUID {
	id, _ := t.Leg(RoleSource)
	return id
}

func (t *Transfer) DestinationTransactionID() uuid.UUID {
	id, _ := t.Leg(RoleDestination)
	return id
}

type TransferCreate struct {
	UserID                   uuid.UUID
	SourceTransactionID      uuid.UUID
	DestinationTransactionID uuid.UUID
}

// IReader is the read side of transfer storage. Lookups return (nil, nil) on a miss.
type IReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Transfer, error)
	FindByTransaction(ctx context.Context, transactionID uuid.UUID) (*Transfer, error)
}

type IWriter interface {
	IReader
	Insert(ctx context.Context, create *TransferCreate, now time.Time) (*Transfer, error)
}
