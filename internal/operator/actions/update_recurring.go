package actions

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/ledger-server/internal/ledgererr"
	"github.com/carson-networks/ledger-server/internal/recurrence"
	"github.com/carson-networks/ledger-server/internal/storage"
	"github.com/carson-networks/ledger-server/internal/storage/recurring"
)

// UpdateRecurring changes amount, description, classification or end date.
// The frequency and start date anchor already generated occurrences and are fixed.
type UpdateRecurring struct {
	UserID      uuid.UUID
	RecurringID uuid.UUID
	Update      recurring.TemplateUpdate
	Now         time.Time

	Template *recurring.Template
}

var _ IAction = (*UpdateRecurring)(nil)

func (u *UpdateRecurring) Perform(ctx context.Context, writer *storage.Writer) error {
	tpl, err := lockTemplate(ctx, writer, uuid.NullUUID{UUID: u.UserID, Valid: true}, u.RecurringID)
	if err != nil {
		return err
	}
	if !tpl.IsActive() {
		return ledgererr.ErrRecurringInactive
	}

	if v, ok := u.Update.Amount.Get(); ok {
		amount, err := normalizeAmount(v)
		if err != nil {
			return err
		}
		u.Update.Amount.Set(amount)
	}
	if v, ok := u.Update.EndDate.Get(); ok {
		u.Update.EndDate.Set(recurrence.Day(v))
	}

	u.Update.Apply(tpl)
	if !tpl.Schedule().Validate() {
		return ledgererr.ErrInvalidSchedule
	}
	if tpl.EndDate != nil && tpl.LastGeneratedDate != nil && tpl.EndDate.Before(*tpl.LastGeneratedDate) {
		return ledgererr.Newf(ledgererr.KindInvalidInput, ledgererr.CodeInvalidSchedule,
			"end date is before the last generated occurrence %s", tpl.LastGeneratedDate.Format(time.DateOnly))
	}
	if err = validateClassification(ctx, writer, u.UserID, tpl.CategoryID, tpl.SubcategoryID); err != nil {
		return err
	}

	if err = writer.Recurring.Update(ctx, u.RecurringID, &u.Update, u.Now); err != nil {
		return err
	}
	tpl.UpdatedAt = u.Now
	u.Template = tpl
	return nil
}

// lockTemplate locks a template row. When userID is set the template must belong to it.
func lockTemplate(ctx context.Context, writer *storage.Writer, userID uuid.NullUUID, id uuid.UUID) (*recurring.Template, error) {
	tpl, err := writer.Recurring.FindByIDForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if tpl == nil || (userID.Valid && tpl.UserID != userID.UUID) {
		return nil, ledgererr.ErrRecurringNotFound
	}
	return tpl, nil
}
