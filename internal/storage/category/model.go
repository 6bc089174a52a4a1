package category

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/ledger-server/internal/storage/transaction"
)

// Category groups transactions of one direction. Type is INCOME or EXPENSE.
type Category struct {
	ID            uuid.UUID
	UserID        uuid.UUID
	Name          string
	Type          transaction.Type
	IsDefault     bool
	CreatedAt     time.Time
	Subcategories []*Subcategory
}

type Subcategory struct {
	ID         uuid.UUID
	CategoryID uuid.UUID
	Name       string
	IsDefault  bool
	CreatedAt  time.Time
}

type CategoryCreate struct {
	UserID    uuid.UUID
	Name      string
	Type      transaction.Type
	IsDefault bool
}

type SubcategoryCreate struct {
	CategoryID uuid.UUID
	Name       string
	IsDefault  bool
}

// Seed is one default category with its subcategory names.
type Seed struct {
	Name          string
	Type          transaction.Type
	Subcategories []string
}

// DefaultSeeds are created for every user during onboarding.
var DefaultSeeds = []Seed{
	{Name: "Alimentación", Type: transaction.TypeExpense, Subcategories: []string{"Supermercado", "Restaurantes", "Comida rápida"}},
	{Name: "Transporte", Type: transaction.TypeExpense, Subcategories: []string{"Gasolina", "Transporte público", "Mantenimiento"}},
	{Name: "Servicios", Type: transaction.TypeExpense, Subcategories: []string{"Luz", "Agua", "Gas", "Internet", "Teléfono"}},
	{Name: "Vivienda", Type: transaction.TypeExpense, Subcategories: []string{"Renta", "Mantenimiento", "Muebles"}},
	{Name: "Salud", Type: transaction.TypeExpense, Subcategories: []string{"Medicamentos", "Consultas", "Seguros"}},
	{Name: "Salario", Type: transaction.TypeIncome, Subcategories: []string{"Nómina", "Bonos"}},
	{Name: "Inversiones", Type: transaction.TypeIncome, Subcategories: []string{"Intereses", "Dividendos", "Rendimientos"}},
	{Name: "Otros Ingresos", Type: transaction.TypeIncome, Subcategories: []string{"Ventas", "Regalos", "Reembolsos"}},
}

// IReader is the read side of category storage. Lookups return (nil, nil) on a miss.
type IReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Category, error)
	FindSubcategory(ctx context.Context, id uuid.UUID) (*Subcategory, error)
	// ListByUser returns the user's categories with their subcategories, ordered by type then name.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*Category, error)
}

type IWriter interface {
	IReader
	Insert(ctx context.Context, create *CategoryCreate, now time.Time) (*Category, error)
	InsertSubcategory(ctx context.Context, create *SubcategoryCreate, now time.Time) (*Subcategory, error)
}
