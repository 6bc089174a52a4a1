package memstore

import (
	"bytes"
	"context"
	"slices"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/ledger-server/internal/storage/account"
)

const defaultPageSize = 20

type accounts struct {
	table
}

var _ account.IWriter = (*accounts)(nil)

func (a *accounts) FindByID(_ context.Context, id uuid.UUID) (*account.Account, error) {
	acc, ok := a.view().accounts[id]
	if !ok {
		return nil, nil
	}
	return &acc, nil
}

func (a *accounts) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*account.Account, error) {
	return a.FindByID(ctx, id)
}

func (a *accounts) List(_ context.Context, filter *account.AccountFilter) (*account.AccountListResult, error) {
	limit := defaultPageSize
	if filter.Limit > 0 {
		limit = filter.Limit
	}

	var rows []*account.Account
	for _, acc := range a.view().accounts {
		if acc.UserID != filter.UserID {
			continue
		}
		if !filter.IncludeInactive && !acc.IsActive() {
			continue
		}
		rows = append(rows, &acc)
	}
	slices.SortFunc(rows, func(x, y *account.Account) int {
		if c := y.CreatedAt.Compare(x.CreatedAt); c != 0 {
			return c
		}
		return bytes.Compare(y.ID.Bytes(), x.ID.Bytes())
	})

	rows = page(rows, filter.Offset, limit+1)
	if len(rows) == 0 {
		return &account.AccountListResult{}, nil
	}

	var next *account.AccountCursor
	if len(rows) > limit {
		rows = rows[:limit]
		next = &account.AccountCursor{Position: filter.Offset + limit, Limit: limit}
	}
	return &account.AccountListResult{Accounts: rows, NextCursor: next}, nil
}

func (a *accounts) Insert(_ context.Context, create *account.AccountCreate, now time.Time) (*account.Account, error) {
	if err := a.check("account.insert"); err != nil {
		return nil, err
	}
	id, err := uuid.NewV7()
	if err != nil {
		return nil, err
	}

	acc := account.Account{
		ID:             id,
		UserID:         create.UserID,
		Name:           create.Name,
		Type:           create.Type,
		Balance:        create.InitialBalance,
		CreditLimit:    create.CreditLimit,
		PaymentDay:     create.PaymentDay,
		CutoffDay:      create.CutoffDay,
		Bank:           create.Bank,
		CardNumber:     create.CardNumber,
		InvestmentType: create.InvestmentType,
		AnnualReturn:   create.AnnualReturn,
		Notes:          create.Notes,
		Status:         account.StatusActive,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	a.view().accounts[id] = acc
	return &acc, nil
}

func (a *accounts) Update(_ context.Context, id uuid.UUID, update *account.AccountUpdate, now time.Time) error {
	return a.modify("account.update", id, func(acc *account.Account) {
		update.Apply(acc)
		acc.UpdatedAt = now
	})
}

func (a *accounts) UpdateBalance(_ context.Context, id uuid.UUID, balance decimal.Decimal, now time.Time) error {
	return a.modify("account.update_balance", id, func(acc *account.Account) {
		acc.Balance = balance
		acc.UpdatedAt = now
	})
}

func (a *accounts) SetStatus(_ context.Context, id uuid.UUID, status account.Status, now time.Time) error {
	return a.modify("account.set_status", id, func(acc *account.Account) {
		acc.Status = status
		acc.UpdatedAt = now
	})
}

// modify mirrors an UPDATE ... WHERE id: a missing row is not an error.
func (a *accounts) modify(op string, id uuid.UUID, fn func(*account.Account)) error {
	if err := a.check(op); err != nil {
		return err
	}
	acc, ok := a.view().accounts[id]
	if !ok {
		return nil
	}
	fn(&acc)
	a.view().accounts[id] = acc
	return nil
}

func page[T any](rows []T, offset, limit int) []T {
	if offset >= len(rows) {
		return nil
	}
	rows = rows[offset:]
	if limit > 0 && limit < len(rows) {
		rows = rows[:limit]
	}
	return rows
}
