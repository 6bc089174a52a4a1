package account

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aarondl/opt/omit"
	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
)

// Account represents an account record.
type Account struct {
	ID             uuid.UUID
	UserID         uuid.UUID
	Name           string
	Type           AccountType
	Balance        decimal.Decimal
	CreditLimit    decimal.NullDecimal
	PaymentDay     *int
	CutoffDay      *int
	Bank           string
	CardNumber     string
	InvestmentType InvestmentType
	AnnualReturn   decimal.NullDecimal
	Notes          string
	Status         Status
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (a *Account) IsActive() bool {
	return a.Status == StatusActive
}

// OwnedBy reports whether the account belongs to userID.
func (a *Account) OwnedBy(userID uuid.UUID) bool {
	return a.UserID == userID
}

// AccountFilter specifies filters for listing accounts.
type AccountFilter struct {
	UserID          uuid.UUID
	IncludeInactive bool
	Limit           int
	Offset          int
}

// AccountCursor identifies a position in a paginated result set.
type AccountCursor struct {
	Position int
	Limit    int
}

// AccountListResult contains a page of accounts and an optional next cursor.
type AccountListResult struct {
	Accounts   []*Account
	NextCursor *AccountCursor
}

// AccountCreate is the input for creating a new account.
type AccountCreate struct {
	UserID         uuid.UUID
	Name           string
	Type           AccountType
	InitialBalance decimal.Decimal
	CreditLimit    decimal.NullDecimal
	PaymentDay     *int
	CutoffDay      *int
	Bank           string
	CardNumber     string
	InvestmentType InvestmentType
	AnnualReturn   decimal.NullDecimal
	Notes          string
}

// AccountUpdate carries the descriptive fields a caller may change. Unset
// fields are left untouched. Balance and status have dedicated writes.
type AccountUpdate struct {
	Name           omit.Val[string]
	CreditLimit    omit.Val[decimal.Decimal]
	PaymentDay     omit.Val[int]
	CutoffDay      omit.Val[int]
	Bank           omit.Val[string]
	CardNumber     omit.Val[string]
	InvestmentType omit.Val[InvestmentType]
	AnnualReturn   omit.Val[decimal.Decimal]
	Notes          omit.Val[string]
}

// Apply merges the set fields of u into a.
func (u *AccountUpdate) Apply(a *Account) {
	if v, ok := u.Name.Get(); ok {
		a.Name = v
	}
	if v, ok := u.CreditLimit.Get(); ok {
		a.CreditLimit = decimal.NewNullDecimal(v)
	}
	if v, ok := u.PaymentDay.Get(); ok {
		a.PaymentDay = &v
	}
	if v, ok := u.CutoffDay.Get(); ok {
		a.CutoffDay = &v
	}
	if v, ok := u.Bank.Get(); ok {
		a.Bank = v
	}
	if v, ok := u.CardNumber.Get(); ok {
		a.CardNumber = v
	}
	if v, ok := u.InvestmentType.Get(); ok {
		a.InvestmentType = v
	}
	if v, ok := u.AnnualReturn.Get(); ok {
		a.AnnualReturn = decimal.NewNullDecimal(v)
	}
	if v, ok := u.Notes.Get(); ok {
		a.Notes = v
	}
}

// IReader is the read side of account storage.
//
// FindByID returns (nil, nil) when no row matches.
type IReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Account, error)
	List(ctx context.Context, filter *AccountFilter) (*AccountListResult, error)
}

// IWriter is the write side of account storage, bound to one unit of work.
type IWriter interface {
	IReader
	// FindByIDForUpdate reads the account and holds its row lock until the unit of work ends.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Account, error)
	Insert(ctx context.Context, create *AccountCreate, now time.Time) (*Account, error)
	Update(ctx context.Context, id uuid.UUID, update *AccountUpdate, now time.Time) error
	UpdateBalance(ctx context.Context, id uuid.UUID, balance decimal.Decimal, now time.Time) error
	SetStatus(ctx context.Context, id uuid.UUID, status Status, now time.Time) error
}

type AccountType int8

const (
	AccountTypeCash AccountType = iota
	AccountTypeDebit
	AccountTypeCredit
	AccountTypeInvestment
)

func (t AccountType) String() string {
	switch t {
	case AccountTypeCash:
		return "CASH"
	case AccountTypeDebit:
		return "DEBIT"
	case AccountTypeCredit:
		return "CREDIT"
	case AccountTypeInvestment:
		return "INVESTMENT"
	default:
		return fmt.Sprintf("AccountType(%d)", int8(t))
	}
}

func (t AccountType) Valid() bool {
	return t >= AccountTypeCash && t <= AccountTypeInvestment
}

func ParseAccountType(s string) (AccountType, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "CASH":
		return AccountTypeCash, nil
	case "DEBIT":
		return AccountTypeDebit, nil
	case "CREDIT":
		return AccountTypeCredit, nil
	case "INVESTMENT":
		return AccountTypeInvestment, nil
	default:
		return AccountTypeCash, fmt.Errorf("unknown account type %q", s)
	}
}

// Status is the lifecycle state of an account. Accounts are never hard-deleted.
type Status int8

const (
	StatusActive Status = iota
	StatusInactive
)

// InvestmentType classifies INVESTMENT accounts. The zero value means unset.
type InvestmentType string

const (
	InvestmentTypeNone    InvestmentType = ""
	InvestmentTypeCetes   InvestmentType = "CETES"
	InvestmentTypeCrypto  InvestmentType = "CRYPTO"
	InvestmentTypeStocks  InvestmentType = "STOCKS"
	InvestmentTypeSavings InvestmentType = "SAVINGS"
	InvestmentTypeOther   InvestmentType = "OTHER"
)

func ParseInvestmentType(s string) (InvestmentType, error) {
	switch t := InvestmentType(strings.ToUpper(strings.TrimSpace(s))); t {
	case InvestmentTypeNone, InvestmentTypeCetes, InvestmentTypeCrypto, InvestmentTypeStocks,
		InvestmentTypeSavings, InvestmentTypeOther:
		return t, nil
	default:
		return InvestmentTypeNone, fmt.Errorf("unknown investment type %q", s)
	}
}
