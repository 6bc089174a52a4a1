package actions

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/ledger-server/internal/storage"
	"github.com/carson-networks/ledger-server/internal/storage/category"
)

// SeedDefaultCategories creates the onboarding categories for a user who has none.
type SeedDefaultCategories struct {
	UserID uuid.UUID
	Now    time.Time

	Categories []*category.Category
	Created    bool
}

var _ IAction = (*SeedDefaultCategories)(nil)

func (s *SeedDefaultCategories) Perform(ctx context.Context, writer *storage.Writer) error {
	existing, err := writer.Categories.ListByUser(ctx, s.UserID)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		s.Categories = existing
		return nil
	}

	for _, seed := range category.DefaultSeeds {
		cat, err := writer.Categories.Insert(ctx, &category.CategoryCreate{
			UserID:    s.UserID,
			Name:      seed.Name,
			Type:      seed.Type,
			IsDefault: true,
		}, s.Now)
		if err != nil {
			return err
		}
		for _, name := range seed.Subcategories {
			sub, err := writer.Categories.InsertSubcategory(ctx, &category.SubcategoryCreate{
				CategoryID: cat.ID,
				Name:       name,
				IsDefault:  true,
			}, s.Now)
			if err != nil {
				return err
			}
			cat.Subcategories = append(cat.Subcategories, sub)
		}
		s.Categories = append(s.Categories, cat)
	}
	s.Created = true
	return nil
}
