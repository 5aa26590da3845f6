package service

import (
	"context"

	"github.com/saarock/sopy-ecommerce/internal/domain"
)

// Storage ports satisfied by the gorm repositories. Services depend on these
// so tests can swap in in-memory fakes.

type ProductStore interface {
	Create(ctx context.Context, p *domain.Product) error
	ByID(ctx context.Context, id string) (*domain.Product, error)
	List(ctx context.Context, page, size int) ([]domain.Product, error)
	DecrementStock(ctx context.Context, id string, qty int) (*domain.Product, error)
	IncrementStock(ctx context.Context, id string, qty int) (*domain.Product, error)
	ListBelowThreshold(ctx context.Context) ([]domain.Product, error)
}

type BookingStore interface {
	Create(ctx context.Context, b *domain.Booking) error
	ByID(ctx context.Context, id string) (*domain.Booking, error)
	UpdateStatus(ctx context.Context, id string, to domain.BookingStatus) (*domain.Booking, error)
	ListForBuyer(ctx context.Context, buyerID string, page, size int) ([]domain.Booking, int64, error)
}

type NotificationStore interface {
	Create(ctx context.Context, n *domain.Notification) error
	ListForRecipient(ctx context.Context, recipientID string, isRead *bool, offset, limit int) ([]domain.Notification, int64, error)
	SetRead(ctx context.Context, id, recipientID string, read bool) error
	CountUnread(ctx context.Context, recipientID string) (int64, error)
}

// UserDirectory resolves role sets for notification fan-out.
type UserDirectory interface {
	ListIDsByRole(ctx context.Context, role domain.Role) ([]string, error)
}

// SessionRegistry maps a principal to its current live transport session.
type SessionRegistry interface {
	Register(principalID, sessionID string)
	Unregister(sessionID string)
	Lookup(principalID string) (string, bool)
	Close()
}

// Pusher delivers a real-time event to a live session. Best effort only.
type Pusher interface {
	Push(ctx context.Context, sessionID string, ev PushEvent) error
}

// EventPublisher emits domain events to the broker. Satisfied by *mq.Publisher.
type EventPublisher interface {
	PublishJSON(ctx context.Context, key string, v any) error
}

// PaymentGateway authorizes a charge before any stock is touched.
type PaymentGateway interface {
	Authorize(ctx context.Context, in ChargeInput) (providerRef string, err error)
}

type ChargeInput struct {
	OrderID   string
	Amount    int64
	Currency  string
	CardToken string
}
