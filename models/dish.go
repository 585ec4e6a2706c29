package models

import "time"

const (
	DishStatusAvailable   = "Available"
	DishStatusUnavailable = "Unavailable"
	DishStatusHidden      = "Hidden"
)

type Dish struct {
	ID          uint          `gorm:"primaryKey" json:"id"`
	Name        string        `gorm:"type:varchar(255);not null" json:"name"`
	Price       int           `gorm:"not null" json:"price"`
	Description string        `gorm:"type:text" json:"description"`
	Image       string        `gorm:"type:varchar(500)" json:"image"`
	CategoryID  *uint         `gorm:"index" json:"category_id"`
	Category    *MenuCategory `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Status      string        `gorm:"type:varchar(20);not null;default:'Available'" json:"status"`
	CreatedAt   time.Time     `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time     `gorm:"not null" json:"updated_at"`
}
