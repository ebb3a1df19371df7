package services

import (
	"context"
	"fmt"

	"lexia/internal/core"
	"lexia/internal/sheets"
)

// CatalogService maintains the item catalog. The dashboard embeds the
// catalog, so every change purges the invalidators.
type CatalogService struct {
	store   sheets.ItemStore
	onWrite []Invalidator
}

func NewCatalogService(store sheets.ItemStore, invalidate ...Invalidator) *CatalogService {
	return &CatalogService{store: store, onWrite: invalidate}
}

func (s *CatalogService) List(ctx context.Context) ([]core.Item, error) {
	return s.store.ListItems(ctx)
}

// Create returns the existing item when the name is already in the catalog.
func (s *CatalogService) Create(ctx context.Context, name string) (core.Item, error) {
	it, err := s.store.CreateItem(ctx, name)
	if err != nil {
		return core.Item{}, fmt.Errorf("create item: %w", err)
	}
	s.written()
	return it, nil
}

func (s *CatalogService) Delete(ctx context.Context, id int64) error {
	if err := s.store.DeleteItem(ctx, id); err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	s.written()
	return nil
}

func (s *CatalogService) written() {
	for _, inv := range s.onWrite {
		inv.Purge()
	}
}
