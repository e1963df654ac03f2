package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Member is a library patron. The list of currently borrowed books is derived
// from open loans and never stored on the member row.
type Member struct {
	ID        string    `gorm:"primaryKey;type:uuid" json:"id"`
	Name      string    `gorm:"not null;index" json:"name"`
	Phone     string    `json:"phone"`
	Apartment string    `json:"apartment"`
	Fines     float64   `gorm:"default:0;not null" json:"fines"` // outstanding balance, never negative
	JoinedAt  time.Time `gorm:"autoCreateTime" json:"joined_at"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate hook to set UUID before creating a Member
func (member *Member) BeforeCreate(tx *gorm.DB) (err error) {
	if member.ID == "" {
		member.ID = uuid.New().String()
	}
	return
}

func (Member) TableName() string {
	return "members"
}
