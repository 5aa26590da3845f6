package domain

import "time"

type ActionType string

const (
	ActionPurchase        ActionType = "purchase"
	ActionOrderPlaced     ActionType = "order_placed"
	ActionStatusChanged   ActionType = "status_changed"
	ActionCancelledByUser ActionType = "cancelled_by_user"
	ActionLowStock        ActionType = "low_stock"
)

type Metadata map[string]any

// Notification is immutable once recorded except for IsRead.
type Notification struct {
	ID            string     `gorm:"primaryKey" json:"id"`
	RecipientID   string     `gorm:"index" json:"recipient_id"`
	Message       string     `json:"message"`
	ActionType    ActionType `json:"action_type"`
	RecipientRole Role       `json:"recipient_role"`
	IsRead        bool       `gorm:"not null;default:false;index" json:"is_read"`
	Metadata      Metadata   `gorm:"serializer:json" json:"metadata,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}
