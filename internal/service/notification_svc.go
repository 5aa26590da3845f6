package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/saarock/sopy-ecommerce/internal/domain"
)

// PageResult is the paginated listing envelope.
type PageResult struct {
	Items      []domain.Notification `json:"items"`
	Page       int                   `json:"page"`
	TotalPages int                   `json:"total_pages"`
	Total      int64                 `json:"total"`
}

// NotificationSvc is the durable notification directory. Writes are
// append-only; IsRead is the single mutable field.
type NotificationSvc struct {
	store NotificationStore
	now   func() time.Time
}

func NewNotificationSvc(store NotificationStore) *NotificationSvc {
	return &NotificationSvc{store: store, now: time.Now}
}

func (s *NotificationSvc) Record(ctx context.Context, recipientID, message string, action domain.ActionType, role domain.Role, md domain.Metadata) (*domain.Notification, error) {
	n := &domain.Notification{
		ID:            uuid.NewString(),
		RecipientID:   recipientID,
		Message:       message,
		ActionType:    action,
		RecipientRole: role,
		Metadata:      md,
		CreatedAt:     s.now().UTC(),
	}
	if err := s.store.Create(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

// ListForUser pages through a recipient's notifications, optionally filtered
// by read state. An empty page is a valid result, not an error.
func (s *NotificationSvc) ListForUser(ctx context.Context, recipientID string, isRead *bool, page, pageSize int) (*PageResult, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize
	items, total, err := s.store.ListForRecipient(ctx, recipientID, isRead, offset, pageSize)
	if err != nil {
		return nil, err
	}
	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	return &PageResult{Items: items, Page: page, TotalPages: totalPages, Total: total}, nil
}

// MarkRead is idempotent. It fails when the notification is missing or when
// the caller is not its recipient.
func (s *NotificationSvc) MarkRead(ctx context.Context, id, recipientID string, read bool) error {
	return s.store.SetRead(ctx, id, recipientID, read)
}

func (s *NotificationSvc) CountUnread(ctx context.Context, recipientID string) (int64, error) {
	return s.store.CountUnread(ctx, recipientID)
}
