package memstore

import (
	"bytes"
	"context"
	"slices"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/ledger-server/internal/recurrence"
	"github.com/carson-networks/ledger-server/internal/storage/recurring"
)

type templates struct {
	table
}

var _ recurring.IWriter = (*templates)(nil)

func (t *templates) FindByID(_ context.Context, id uuid.UUID) (*recurring.Template, error) {
	tpl, ok := t.view().templates[id]
	if !ok {
		return nil, nil
	}
	return &tpl, nil
}

func (t *templates) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*recurring.Template, error) {
	return t.FindByID(ctx, id)
}

func (t *templates) List(_ context.Context, filter *recurring.TemplateFilter) ([]*recurring.Template, error) {
	var rows []*recurring.Template
	for _, tpl := range t.view().templates {
		if tpl.UserID != filter.UserID {
			continue
		}
		if !filter.IncludeInactive && !tpl.IsActive() {
			continue
		}
		rows = append(rows, &tpl)
	}
	slices.SortFunc(rows, func(x, y *recurring.Template) int {
		if c := y.CreatedAt.Compare(x.CreatedAt); c != 0 {
			return c
		}
		return bytes.Compare(y.ID.Bytes(), x.ID.Bytes())
	})
	return rows, nil
}

func (t *templates) ListDue(_ context.Context, asOf time.Time) ([]*recurring.Template, error) {
	asOf = recurrence.Day(asOf)
	var rows []*recurring.Template
	d := t.view()
	for _, tpl := range d.templates {
		if !tpl.IsActive() || tpl.StartDate.After(asOf) {
			continue
		}
		if acc, ok := d.accounts[tpl.AccountID]; !ok || !acc.IsActive() {
			continue
		}
		if tpl.LastGeneratedDate != nil && !tpl.LastGeneratedDate.Before(asOf) {
			continue
		}
		rows = append(rows, &tpl)
	}
	slices.SortFunc(rows, func(x, y *recurring.Template) int {
		return bytes.Compare(x.ID.Bytes(), y.ID.Bytes())
	})
	return rows, nil
}

func (t *templates) Insert(_ context.Context, create *recurring.TemplateCreate, now time.Time) (*recurring.Template, error) {
	if err := t.check("recurring.insert"); err != nil {
		return nil, err
	}
	id, err := uuid.NewV7()
	if err != nil {
		return nil, err
	}

	var end *time.Time
	if create.EndDate != nil {
		d := recurrence.Day(*create.EndDate)
		end = &d
	}
	tpl := recurring.Template{
		ID:            id,
		UserID:        create.UserID,
		AccountID:     create.AccountID,
		CategoryID:    create.CategoryID,
		SubcategoryID: create.SubcategoryID,
		Type:          create.Type,
		Amount:        create.Amount,
		Description:   create.Description,
		Frequency:     create.Frequency,
		StartDate:     recurrence.Day(create.StartDate),
		EndDate:       end,
		Status:        recurring.StatusActive,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	t.view().templates[id] = tpl
	return &tpl, nil
}

func (t *templates) Update(_ context.Context, id uuid.UUID, update *recurring.TemplateUpdate, now time.Time) error {
	return t.modify("recurring.update", id, func(tpl *recurring.Template) {
		update.Apply(tpl)
		if tpl.EndDate != nil {
			d := recurrence.Day(*tpl.EndDate)
			tpl.EndDate = &d
		}
		tpl.UpdatedAt = now
	})
}

func (t *templates) SetLastGenerated(_ context.Context, id uuid.UUID, date time.Time, now time.Time) error {
	return t.modify("recurring.set_last_generated", id, func(tpl *recurring.Template) {
		d := recurrence.Day(date)
		tpl.LastGeneratedDate = &d
		tpl.UpdatedAt = now
	})
}

func (t *templates) SetStatus(_ context.Context, id uuid.UUID, status recurring.Status, now time.Time) error {
	return t.modify("recurring.set_status", id, func(tpl *recurring.Template) {
		tpl.Status = status
		tpl.UpdatedAt = now
	})
}

func (t *templates) modify(op string, id uuid.UUID, fn func(*recurring.Template)) error {
	if err := t.check(op); err != nil {
		return err
	}
	tpl, ok := t.view().templates[id]
	if !ok {
		return nil
	}
	fn(&tpl)
	t.view().templates[id] = tpl
	return nil
}
