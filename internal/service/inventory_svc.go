package service

import (
	"context"
	"fmt"

	"github.com/saarock/sopy-ecommerce/internal/domain"
)

// InventorySvc owns all stock mutations. Serialization per product is
// delegated to the store's conditional UPDATE, which either applies the
// decrement atomically or reports the guard failure.
type InventorySvc struct {
	products ProductStore
}

func NewInventorySvc(p ProductStore) *InventorySvc {
	return &InventorySvc{products: p}
}

// Reserve decrements stock for one booking transition. The returned bool
// signals a low-stock condition evaluated on the post-update stock.
func (s *InventorySvc) Reserve(ctx context.Context, productID string, qty int) (*domain.Product, bool, error) {
	if qty <= 0 {
		return nil, false, fmt.Errorf("quantity must be positive: %w", domain.ErrValidation)
	}
	p, err := s.products.DecrementStock(ctx, productID, qty)
	if err != nil {
		return nil, false, err
	}
	return p, p.LowOnStock(), nil
}

// Restore returns stock previously reserved. Unconditional, no upper bound.
func (s *InventorySvc) Restore(ctx context.Context, productID string, qty int) (*domain.Product, error) {
	if qty <= 0 {
		return nil, fmt.Errorf("quantity must be positive: %w", domain.ErrValidation)
	}
	return s.products.IncrementStock(ctx, productID, qty)
}

// Product catalogue surface. Products are mutated through this service only.

func (s *InventorySvc) CreateProduct(ctx context.Context, in domain.Product) (*domain.Product, error) {
	if in.Name == "" || in.UnitPrice < 0 || in.Stock < 0 || in.LowStockThreshold < 0 {
		return nil, fmt.Errorf("bad product fields: %w", domain.ErrValidation)
	}
	if err := s.products.Create(ctx, &in); err != nil {
		return nil, err
	}
	return &in, nil
}

func (s *InventorySvc) Product(ctx context.Context, id string) (*domain.Product, error) {
	return s.products.ByID(ctx, id)
}

func (s *InventorySvc) Products(ctx context.Context, page, size int) ([]domain.Product, error) {
	return s.products.List(ctx, page, size)
}
