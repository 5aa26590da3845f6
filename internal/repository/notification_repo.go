package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/saarock/sopy-ecommerce/internal/domain"
)

type NotificationRepo struct{ db *gorm.DB }

func NewNotificationRepo(db *gorm.DB) *NotificationRepo {
	return &NotificationRepo{db: db}
}

func (r *NotificationRepo) Migrate() error {
	return r.db.AutoMigrate(&domain.Notification{})
}

func (r *NotificationRepo) Create(ctx context.Context, n *domain.Notification) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *NotificationRepo) ListForRecipient(ctx context.Context, recipientID string, isRead *bool, offset, limit int) ([]domain.Notification, int64, error) {
	qb := r.db.WithContext(ctx).Model(&domain.Notification{}).Where("recipient_id = ?", recipientID)
	if isRead != nil {
		qb = qb.Where("is_read = ?", *isRead)
	}
	var total int64
	if err := qb.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var out []domain.Notification
	if err := qb.Order("created_at DESC").Limit(limit).Offset(offset).Find(&out).Error; err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// SetRead flips the read flag, but only for the notification's own recipient.
func (r *NotificationRepo) SetRead(ctx context.Context, id, recipientID string, read bool) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n domain.Notification
		if err := tx.First(&n, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("notification %s: %w", id, domain.ErrNotFound)
			}
			return err
		}
		if n.RecipientID != recipientID {
			return fmt.Errorf("notification %s belongs to another recipient: %w", id, domain.ErrForbidden)
		}
		if n.IsRead == read {
			return nil
		}
		return tx.Model(&n).UpdateColumn("is_read", read).Error
	})
}

func (r *NotificationRepo) CountUnread(ctx context.Context, recipientID string) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&domain.Notification{}).
		Where("recipient_id = ? AND NOT is_read", recipientID).
		Count(&total).Error
	return total, err
}
