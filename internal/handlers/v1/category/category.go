package category

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/ledger-server/internal/handlers/v1/common"
	"github.com/carson-networks/ledger-server/internal/storage/category"
)

type Subcategory struct {
	ID        string `json:"id" doc:"Subcategory UUID"`
	Name      string `json:"name" doc:"Subcategory name"`
	IsDefault bool   `json:"isDefault" doc:"Created by onboarding"`
}

type Category struct {
	ID            string        `json:"id" doc:"Category UUID"`
	Name          string        `json:"name" doc:"Category name"`
	Type          string        `json:"type" doc:"INCOME or EXPENSE"`
	IsDefault     bool          `json:"isDefault" doc:"Created by onboarding"`
	Subcategories []Subcategory `json:"subcategories" doc:"Subcategories, by name"`
}

func toCategories(cats []*category.Category) []Category {
	out := make([]Category, len(cats))
	for i, c := range cats {
		out[i] = Category{
			ID:            c.ID.String(),
			Name:          c.Name,
			Type:          c.Type.String(),
			IsDefault:     c.IsDefault,
			Subcategories: make([]Subcategory, len(c.Subcategories)),
		}
		for j, s := range c.Subcategories {
			out[i].Subcategories[j] = Subcategory{ID: s.ID.String(), Name: s.Name, IsDefault: s.IsDefault}
		}
	}
	return out
}

type CategoriesInput struct {
	common.UserHeader
}

type CategoriesBody struct {
	Categories []Category `json:"categories" doc:"The caller's categories"`
}

type SeedCategoriesOutput struct {
	Status int
	Body   CategoriesBody
}

type categorySeeder interface {
	SeedDefaults(ctx context.Context, userID uuid.UUID) ([]*category.Category, bool, error)
}

// SeedCategoriesHandler handles POST /v1/onboarding/categories.
type SeedCategoriesHandler struct {
	CategoryService categorySeeder
}

func NewSeedCategoriesHandler(svc categorySeeder) *SeedCategoriesHandler {
	return &SeedCategoriesHandler{CategoryService: svc}
}

func (h *SeedCategoriesHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "seed-default-categories",
		Method:      http.MethodPost,
		Path:        "/v1/onboarding/categories",
		Summary:     "Seed default categories",
		Description: "Creates the default categories for a new user. Returns 200 with the existing categories when the user already has some.",
		Tags:        []string{"Categories"},
	}, h.handle)
}

func (h *SeedCategoriesHandler) handle(ctx context.Context, input *CategoriesInput) (*SeedCategoriesOutput, error) {
	userID, err := input.User()
	if err != nil {
		return nil, err
	}

	cats, created, err := h.CategoryService.SeedDefaults(ctx, userID)
	if err != nil {
		return nil, common.Error(err)
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	return &SeedCategoriesOutput{Status: status, Body: CategoriesBody{Categories: toCategories(cats)}}, nil
}

type ListCategoriesOutput struct {
	Body CategoriesBody
}

type categoryLister interface {
	ListCategories(ctx context.Context, userID uuid.UUID) ([]*category.Category, error)
}

// ListCategoriesHandler handles GET /v1/categories.
type ListCategoriesHandler struct {
	CategoryService categoryLister
}

func NewListCategoriesHandler(svc categoryLister) *ListCategoriesHandler {
	return &ListCategoriesHandler{CategoryService: svc}
}

func (h *ListCategoriesHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "list-categories",
		Method:      http.MethodGet,
		Path:        "/v1/categories",
		Summary:     "List categories",
		Tags:        []string{"Categories"},
	}, h.handle)
}

func (h *ListCategoriesHandler) handle(ctx context.Context, input *CategoriesInput) (*ListCategoriesOutput, error) {
	userID, err := input.User()
	if err != nil {
		return nil, err
	}
	cats, err := h.CategoryService.ListCategories(ctx, userID)
	if err != nil {
		return nil, common.Error(err)
	}
	return &ListCategoriesOutput{Body: CategoriesBody{Categories: toCategories(cats)}}, nil
}
