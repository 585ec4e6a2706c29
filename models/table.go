package models

import "time"

const (
	TableStatusAvailable = "Available"
	TableStatusReserved  = "Reserved"
	TableStatusHidden    = "Hidden"
)

// Table is keyed by its physical number. Token is the opaque session secret
// guests must present at login; rotating it revokes every bound guest
// credential.
type Table struct {
	Number    uint      `gorm:"primaryKey" json:"number"`
	Capacity  int       `gorm:"not null" json:"capacity"`
	Status    string    `gorm:"type:varchar(20);not null;default:'Available'" json:"status"`
	Transport string    `gorm:"type:varchar(50)" json:"transport"`
	Token     string    `gorm:"type:varchar(64);not null" json:"token"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}
