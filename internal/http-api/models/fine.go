package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Fine is a monetary penalty record. IsPaid and Waived are mutually exclusive
// terminal states; an unresolved fine has both false.
type Fine struct {
	ID           string    `gorm:"primaryKey;type:uuid" json:"id"`
	MemberID     string    `gorm:"type:uuid;not null;index" json:"member_id"`
	BookID       *string   `gorm:"type:uuid;index" json:"book_id,omitempty"`
	DaysOverdue  int       `gorm:"default:0;not null" json:"days_overdue"`
	FineAmount   float64   `gorm:"not null" json:"fine_amount"`
	IsPaid       bool      `gorm:"default:false;not null" json:"is_paid"`
	Waived       bool      `gorm:"default:false;not null" json:"waived"`
	WaivedReason *string   `json:"waived_reason,omitempty"`
	RecordedOn   time.Time `gorm:"autoCreateTime" json:"recorded_on"`

	// Associations
	Member *Member `gorm:"foreignKey:MemberID" json:"member,omitempty"`
	Book   *Book   `gorm:"foreignKey:BookID" json:"book,omitempty"`
}

// BeforeCreate hook to set UUID before creating a Fine
func (fine *Fine) BeforeCreate(tx *gorm.DB) (err error) {
	if fine.ID == "" {
		fine.ID = uuid.New().String()
	}
	return
}

func (Fine) TableName() string {
	return "fines"
}

// Resolved reports whether the fine has reached a terminal state.
func (fine *Fine) Resolved() bool {
	return fine.IsPaid || fine.Waived
}
