package recurring

import (
	"context"
	"time"

	"github.com/aarondl/opt/omit"
	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/ledger-server/internal/recurrence"
	"github.com/carson-networks/ledger-server/internal/storage/transaction"
)

type Status int8

const (
	StatusActive Status = iota
	StatusInactive
)

// Template is a recurring transaction definition. LastGeneratedDate is the
// cursor of the newest materialized occurrence.
type Template struct {
	ID                uuid.UUID
	UserID            uuid.UUID
	AccountID         uuid.UUID
	CategoryID        uuid.NullUUID
	SubcategoryID     uuid.NullUUID
	Type              transaction.Type
	Amount            decimal.Decimal
	Description       string
	Frequency         recurrence.Frequency
	StartDate         time.Time
	EndDate           *time.Time
	LastGeneratedDate *time.Time
	Status            Status
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (t *Template) IsActive() bool {
	return t.Status == StatusActive
}

func (t *Template) Schedule() recurrence.Schedule {
	return recurrence.Schedule{
		Frequency:         t.Frequency,
		StartDate:         t.StartDate,
		EndDate:           t.EndDate,
		LastGeneratedDate: t.LastGeneratedDate,
		Active:            t.IsActive(),
	}
}

type TemplateCreate struct {
	UserID        uuid.UUID
	AccountID     uuid.UUID
	CategoryID    uuid.NullUUID
	SubcategoryID uuid.NullUUID
	Type          transaction.Type
	Amount        decimal.Decimal
	Description   string
	Frequency     recurrence.Frequency
	StartDate     time.Time
	EndDate       *time.Time
}

// TemplateUpdate changes the parts of a template that do not move its schedule anchor.
type TemplateUpdate struct {
	Amount        omit.Val[decimal.Decimal]
	Description   omit.Val[string]
	CategoryID    omit.Val[uuid.UUID]
	SubcategoryID omit.Val[uuid.UUID]
	EndDate       omit.Val[time.Time]
}

func (u *TemplateUpdate) Apply(t *Template) {
	if v, ok := u.Amount.Get(); ok {
		t.Amount = v
	}
	if v, ok := u.Description.Get(); ok {
		t.Description = v
	}
	if v, ok := u.CategoryID.Get(); ok {
		t.CategoryID = uuid.NullUUID{UUID: v, Valid: true}
	}
	if v, ok := u.SubcategoryID.Get(); ok {
		t.SubcategoryID = uuid.NullUUID{UUID: v, Valid: true}
	}
	if v, ok := u.EndDate.Get(); ok {
		t.EndDate = &v
	}
}

type TemplateFilter struct {
	UserID          uuid.UUID
	IncludeInactive bool
}

// IReader is the read side of recurring template storage.
//
// FindByID returns (nil, nil) when no row matches.
type IReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Template, error)
	List(ctx context.Context, filter *TemplateFilter) ([]*Template, error)
	// ListDue returns active templates on active accounts that started on or
	// before asOf and have not been generated up to asOf yet.
	ListDue(ctx context.Context, asOf time.Time) ([]*Template, error)
}

type IWriter interface {
	IReader
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Template, error)
	Insert(ctx context.Context, create *TemplateCreate, now time.Time) (*Template, error)
	Update(ctx context.Context, id uuid.UUID, update *TemplateUpdate, now time.Time) error
	SetLastGenerated(ctx context.Context, id uuid.UUID, date time.Time, now time.Time) error
	SetStatus(ctx context.Context, id uuid.UUID, status Status, now time.Time) error
}
