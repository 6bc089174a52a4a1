package actions

import (
	"context"
	"time"

	"github.com/carson-networks/ledger-server/internal/ledgererr"
	"github.com/carson-networks/ledger-server/internal/recurrence"
	"github.com/carson-networks/ledger-server/internal/storage"
	"github.com/carson-networks/ledger-server/internal/storage/recurring"
	"github.com/carson-networks/ledger-server/internal/storage/transaction"
)

type CreateRecurring struct {
	Create recurring.TemplateCreate
	Now    time.Time

	Template *recurring.Template
}

var _ IAction = (*CreateRecurring)(nil)

func (c *CreateRecurring) Perform(ctx context.Context, writer *storage.Writer) error {
	create := c.Create
	if create.Type != transaction.TypeIncome && create.Type != transaction.TypeExpense {
		return ledgererr.Newf(ledgererr.KindInvalidInput, ledgererr.CodeInvalidType,
			"recurring type must be INCOME or EXPENSE, got %s", create.Type)
	}
	amount, err := normalizeAmount(create.Amount)
	if err != nil {
		return err
	}
	create.Amount = amount
	create.StartDate = recurrence.Day(create.StartDate)
	if create.EndDate != nil {
		end := recurrence.Day(*create.EndDate)
		create.EndDate = &end
	}

	schedule := recurrence.Schedule{Frequency: create.Frequency, StartDate: create.StartDate, EndDate: create.EndDate}
	if !schedule.Validate() {
		return ledgererr.ErrInvalidSchedule
	}

	acc, err := writer.Accounts.FindByID(ctx, create.AccountID)
	if err != nil {
		return err
	}
	if acc == nil || !acc.OwnedBy(create.UserID) {
		return ledgererr.ErrAccountNotFound
	}
	if !acc.IsActive() {
		return ledgererr.ErrAccountInactive
	}
	if err = validateClassification(ctx, writer, create.UserID, create.CategoryID, create.SubcategoryID); err != nil {
		return err
	}

	c.Template, err = writer.Recurring.Insert(ctx, &create, c.Now)
	return err
}
