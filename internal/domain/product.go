package domain

import "time"

type Product struct {
	ID                string `gorm:"primaryKey"`
	Name              string
	UnitPrice         int64 // smallest currency unit
	Stock             int   `gorm:"not null;default:0;check:stock >= 0"`
	LowStockThreshold int   `gorm:"not null;default:0"`
	IsAvailable       bool  `gorm:"not null;default:true"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// LowOnStock reports whether the product is at or below its alert threshold.
func (p *Product) LowOnStock() bool {
	return p.Stock <= p.LowStockThreshold
}
