package models

import "time"

// Guest is a table-bound ordering session. RefreshToken/RefreshTokenExpiresAt
// hold the live credential; both are nulled when the table's session token is
// rotated, which forcibly ends the session at the next refresh.
type Guest struct {
	ID                    uint       `gorm:"primaryKey" json:"id"`
	Name                  string     `gorm:"type:varchar(255);not null" json:"name"`
	TableNumber           uint       `gorm:"not null;index" json:"table_number"`
	RefreshToken          *string    `gorm:"type:varchar(500)" json:"-"`
	RefreshTokenExpiresAt *time.Time `json:"-"`
	CreatedAt             time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt             time.Time  `gorm:"not null" json:"updated_at"`
}
