package product

import "time"

type Product struct {
	ID                string    `gorm:"primaryKey;type:uuid"`
	Name              string    `gorm:"column:name;not null"`
	Description       string    `gorm:"column:description"`
	Category          string    `gorm:"column:category;index"`
	PriceCents        int64     `gorm:"column:price_cents;not null;default:0"`
	AvailableQuantity int       `gorm:"column:available_quantity;not null;default:0"`
	MinimumOrder      int       `gorm:"column:minimum_order;not null;default:1"`
	ShowOnHome        bool      `gorm:"column:show_on_home;not null;default:false"`
	CreatedBy         string    `gorm:"column:created_by;type:uuid"`
	CreatedAt         time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Product) TableName() string {
	return "products"
}
