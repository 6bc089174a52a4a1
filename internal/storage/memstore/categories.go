package memstore

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/ledger-server/internal/storage/category"
)

type categories struct {
	table
}

var _ category.IWriter = (*categories)(nil)

func (c *categories) FindByID(_ context.Context, id uuid.UUID) (*category.Category, error) {
	cat, ok := c.view().categories[id]
	if !ok {
		return nil, nil
	}
	return &cat, nil
}

func (c *categories) FindSubcategory(_ context.Context, id uuid.UUID) (*category.Subcategory, error) {
	sub, ok := c.view().subcategories[id]
	if !ok {
		return nil, nil
	}
	return &sub, nil
}

func (c *categories) ListByUser(_ context.Context, userID uuid.UUID) ([]*category.Category, error) {
	d := c.view()
	byID := map[uuid.UUID]*category.Category{}
	var result []*category.Category
	for _, cat := range d.categories {
		if cat.UserID != userID {
			continue
		}
		cat.Subcategories = nil
		byID[cat.ID] = &cat
		result = append(result, &cat)
	}
	for _, sub := range d.subcategories {
		if parent, ok := byID[sub.CategoryID]; ok {
			parent.Subcategories = append(parent.Subcategories, &sub)
		}
	}

	slices.SortFunc(result, func(x, y *category.Category) int {
		return cmp.Or(cmp.Compare(x.Type, y.Type), strings.Compare(x.Name, y.Name))
	})
	for _, cat := range result {
		slices.SortFunc(cat.Subcategories, func(x, y *category.Subcategory) int {
			return strings.Compare(x.Name, y.Name)
		})
	}
	return result, nil
}

func (c *categories) Insert(_ context.Context, create *category.CategoryCreate, now time.Time) (*category.Category, error) {
	if err := c.check("category.insert"); err != nil {
		return nil, err
	}
	id, err := uuid.NewV7()
	if err != nil {
		return nil, err
	}

	cat := category.Category{
		ID:        id,
		UserID:    create.UserID,
		Name:      create.Name,
		Type:      create.Type,
		IsDefault: create.IsDefault,
		CreatedAt: now,
	}
	c.view().categories[id] = cat
	return &cat, nil
}

func (c *categories) InsertSubcategory(_ context.Context, create *category.SubcategoryCreate, now time.Time) (*category.Subcategory, error) {
	if err := c.check("category.insert_subcategory"); err != nil {
		return nil, err
	}
	id, err := uuid.NewV7()
	if err != nil {
		return nil, err
	}

	sub := category.Subcategory{
		ID:         id,
		CategoryID: create.CategoryID,
		Name:       create.Name,
		IsDefault:  create.IsDefault,
		CreatedAt:  now,
	}
	c.view().subcategories[id] = sub
	return &sub, nil
}
