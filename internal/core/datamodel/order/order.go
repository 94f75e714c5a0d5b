package order

import "time"

type Order struct {
	ID              string          `gorm:"primaryKey;type:uuid"`
	OwnerID         string          `gorm:"column:owner_id;type:uuid;not null;index"`
	OwnerEmail      string          `gorm:"column:owner_email;not null"`
	ProductID       string          `gorm:"column:product_id;not null"`
	Quantity        int             `gorm:"column:quantity;not null"`
	Payload         string          `gorm:"column:payload;type:text"`
	Status          string          `gorm:"column:status;not null;index"`
	CurrentStatus   string          `gorm:"column:current_status;not null;default:''"`
	CreatedAt       time.Time       `gorm:"column:created_at;not null"`
	ApprovedAt      *time.Time      `gorm:"column:approved_at"`
	RejectedAt      *time.Time      `gorm:"column:rejected_at"`
	UpdatedAt       time.Time       `gorm:"column:updated_at;autoUpdateTime"`
	TrackingHistory []TrackingEntry `gorm:"foreignKey:OrderID"`
}

func (Order) TableName() string {
	return "orders"
}

type TrackingEntry struct {
	ID         int64     `gorm:"primaryKey;autoIncrement"`
	OrderID    string    `gorm:"column:order_id;type:uuid;not null;index"`
	Stage      string    `gorm:"column:stage;not null"`
	Location   string    `gorm:"column:location"`
	Note       string    `gorm:"column:note"`
	RecordedBy string    `gorm:"column:recorded_by;type:uuid"`
	RecordedAt time.Time `gorm:"column:recorded_at;not null"`
}

func (TrackingEntry) TableName() string {
	return "order_tracking_entries"
}
