package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/saarock/sopy-ecommerce/internal/domain"
)

type BookingRepo struct{ db *gorm.DB }

func NewBookingRepo(db *gorm.DB) *BookingRepo {
	return &BookingRepo{db: db}
}

func (r *BookingRepo) Migrate() error {
	return r.db.AutoMigrate(&domain.Booking{}, &domain.EventConsumed{})
}

func (r *BookingRepo) Create(ctx context.Context, b *domain.Booking) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *BookingRepo) ByID(ctx context.Context, id string) (*domain.Booking, error) {
	var b domain.Booking
	if err := r.db.WithContext(ctx).First(&b, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("booking %s: %w", id, domain.ErrNotFound)
		}
		return nil, err
	}
	return &b, nil
}

// UpdateStatus locks the row for the duration of the transition so two
// writers cannot interleave on one booking.
func (r *BookingRepo) UpdateStatus(ctx context.Context, id string, to domain.BookingStatus) (*domain.Booking, error) {
	var b domain.Booking
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&b, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("booking %s: %w", id, domain.ErrNotFound)
			}
			return err
		}
		b.Status = to
		return tx.Save(&b).Error
	})
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BookingRepo) ListForBuyer(ctx context.Context, buyerID string, page, size int) ([]domain.Booking, int64, error) {
	if size <= 0 {
		size = 20
	}
	if page < 0 {
		page = 0
	}
	qb := r.db.WithContext(ctx).Model(&domain.Booking{}).Where("buyer_id = ?", buyerID)
	var total int64
	if err := qb.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var out []domain.Booking
	if err := qb.Order("created_at DESC").Limit(size).Offset(page * size).Find(&out).Error; err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// MarkEventConsumed records an external event id, returning false when it was
// already seen. Used to dedupe payment confirmations across redeliveries.
func (r *BookingRepo) MarkEventConsumed(ctx context.Context, eventID, eventKey string) (bool, error) {
	rec := domain.EventConsumed{ID: eventID, EventKey: eventKey, ProcessedAt: time.Now().UTC()}
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&rec)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
