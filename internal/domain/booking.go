package domain

import "time"

type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusCompleted BookingStatus = "completed"
	StatusCancelled BookingStatus = "cancelled"
	StatusFailed    BookingStatus = "failed"
)

func (s BookingStatus) Valid() bool {
	switch s {
	case StatusPending, StatusCompleted, StatusCancelled, StatusFailed:
		return true
	}
	return false
}

type PaymentMethod string

const (
	PayOnDelivery PaymentMethod = "cod"
	PayByCard     PaymentMethod = "card"
)

func (m PaymentMethod) Valid() bool {
	return m == PayOnDelivery || m == PayByCard
}

// Booking is never deleted; status is its only mutable field.
type Booking struct {
	ID            string        `gorm:"primaryKey"`
	BuyerID       string        `gorm:"index"`
	ProductID     string        `gorm:"index"`
	Quantity      int           `gorm:"not null"`
	UnitPrice     int64         `gorm:"not null"`
	Status        BookingStatus `gorm:"index"`
	PaymentMethod PaymentMethod
	ProviderRef   string // charge id from the payment gateway, empty for cod
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// EventConsumed dedupes externally sourced events (e.g. payment webhooks).
type EventConsumed struct {
	ID          string `gorm:"primaryKey"`
	EventKey    string `gorm:"index"`
	ProcessedAt time.Time
}
