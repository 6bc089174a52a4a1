package service

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/ledger-server/internal/ledgererr"
	"github.com/carson-networks/ledger-server/internal/operator/actions"
	"github.com/carson-networks/ledger-server/internal/storage"
	"github.com/carson-networks/ledger-server/internal/storage/category"
)

type CategoryService struct {
	storage storage.IStorage
	ops     Processor
	clock   Clock
}

func NewCategoryService(store storage.IStorage, ops Processor, clock Clock) *CategoryService {
	return &CategoryService{storage: store, ops: ops, clock: clock}
}

// SeedDefaults creates the onboarding categories. created is false when the
// user already had categories.
func (s *CategoryService) SeedDefaults(ctx context.Context, userID uuid.UUID) (cats []*category.Category, created bool, err error) {
	action := &actions.SeedDefaultCategories{UserID: userID, Now: s.clock()}
	if err = s.ops.Process(ctx, action); err != nil {
		return nil, false, err
	}
	return action.Categories, action.Created, nil
}

func (s *CategoryService) ListCategories(ctx context.Context, userID uuid.UUID) ([]*category.Category, error) {
	cats, err := s.storage.Reader().Categories.ListByUser(ctx, userID)
	if err != nil {
		return nil, ledgererr.Storage("list categories", err)
	}
	return cats, nil
}
