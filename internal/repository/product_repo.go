package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/saarock/sopy-ecommerce/internal/domain"
)

type ProductRepo struct{ db *gorm.DB }

func NewProductRepo(db *gorm.DB) *ProductRepo {
	return &ProductRepo{db: db}
}

func (r *ProductRepo) Migrate() error {
	return r.db.AutoMigrate(&domain.Product{})
}

func (r *ProductRepo) Create(ctx context.Context, p *domain.Product) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *ProductRepo) ByID(ctx context.Context, id string) (*domain.Product, error) {
	var p domain.Product
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product %s: %w", id, domain.ErrNotFound)
		}
		return nil, err
	}
	return &p, nil
}

func (r *ProductRepo) List(ctx context.Context, page, size int) ([]domain.Product, error) {
	if size <= 0 {
		size = 20
	}
	if page < 0 {
		page = 0
	}
	var out []domain.Product
	err := r.db.WithContext(ctx).Model(&domain.Product{}).
		Order("created_at DESC").
		Limit(size).Offset(page * size).
		Find(&out).Error
	return out, err
}

// DecrementStock applies "stock -= qty where stock >= qty and is_available"
// as a single conditional UPDATE, so concurrent reservations against the same
// product cannot oversell. Zero rows affected means the guard failed and the
// reason is classified with a follow-up read.
func (r *ProductRepo) DecrementStock(ctx context.Context, id string, qty int) (*domain.Product, error) {
	res := r.db.WithContext(ctx).Model(&domain.Product{}).
		Where("id = ? AND is_available AND stock >= ?", id, qty).
		UpdateColumn("stock", gorm.Expr("stock - ?", qty))
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		p, err := r.ByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("product %s (stock=%d, available=%t): %w",
			id, p.Stock, p.IsAvailable, domain.ErrInsufficientStock)
	}
	return r.ByID(ctx, id)
}

func (r *ProductRepo) IncrementStock(ctx context.Context, id string, qty int) (*domain.Product, error) {
	res := r.db.WithContext(ctx).Model(&domain.Product{}).
		Where("id = ?", id).
		UpdateColumn("stock", gorm.Expr("stock + ?", qty))
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("product %s: %w", id, domain.ErrNotFound)
	}
	return r.ByID(ctx, id)
}

func (r *ProductRepo) ListBelowThreshold(ctx context.Context) ([]domain.Product, error) {
	var out []domain.Product
	err := r.db.WithContext(ctx).Model(&domain.Product{}).
		Where("is_available AND stock <= low_stock_threshold").
		Find(&out).Error
	return out, err
}
