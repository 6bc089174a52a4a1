package actions

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/ledger-server/internal/storage"
	"github.com/carson-networks/ledger-server/internal/storage/recurring"
)

// DeactivateRecurring stops a template. Already materialized transactions stay.
type DeactivateRecurring struct {
	UserID      uuid.UUID
	RecurringID uuid.UUID
	Now         time.Time
}

var _ IAction = (*DeactivateRecurring)(nil)

func (d *DeactivateRecurring) Perform(ctx context.Context, writer *storage.Writer) error {
	tpl, err := lockTemplate(ctx, writer, uuid.NullUUID{UUID: d.UserID, Valid: true}, d.RecurringID)
	if err != nil {
		return err
	}
	if !tpl.IsActive() {
		return nil
	}
	return writer.Recurring.SetStatus(ctx, d.RecurringID, recurring.StatusInactive, d.Now)
}
