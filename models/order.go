package models

import "time"

// Order is one ordered dish line for a guest session. The dish data lives in
// an immutable snapshot taken at creation time, so later catalog edits never
// change what the guest actually ordered.
type Order struct {
	ID             uint         `gorm:"primaryKey" json:"id"`
	GuestID        *uint        `gorm:"index" json:"guest_id"`
	Guest          *Guest       `gorm:"foreignKey:GuestID" json:"guest,omitempty"`
	TableNumber    uint         `gorm:"not null;index" json:"table_number"`
	DishSnapshotID uint         `gorm:"not null" json:"dish_snapshot_id"`
	DishSnapshot   DishSnapshot `gorm:"foreignKey:DishSnapshotID" json:"dish_snapshot"`
	Quantity       int          `gorm:"not null" json:"quantity"`
	Status         OrderStatus  `gorm:"type:varchar(20);not null;default:'Pending'" json:"status"`
	OrderHandlerID *uint        `gorm:"index" json:"order_handler_id"`
	CreatedAt      time.Time    `gorm:"not null" json:"created_at"`
	UpdatedAt      time.Time    `gorm:"not null" json:"updated_at"`
}

// DishSnapshot freezes the dish name/price/image at order-creation time.
// Rows are written once and never updated. DishID keeps a pointer back to
// the live catalog entry for reference only.
type DishSnapshot struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	DishID    *uint     `gorm:"index" json:"dish_id"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	Price     int       `gorm:"not null" json:"price"`
	Image     string    `gorm:"type:varchar(500)" json:"image"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}
