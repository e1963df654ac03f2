package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Loan links one book and one member for a single borrow-to-return cycle.
// At most one open loan (ReturnDate == nil) exists per book at any time.
type Loan struct {
	ID         string     `gorm:"primaryKey;type:uuid" json:"id"`
	BookID     string     `gorm:"type:uuid;not null;index" json:"book_id"`
	MemberID   string     `gorm:"type:uuid;not null;index" json:"member_id"`
	BorrowDate time.Time  `gorm:"not null" json:"borrow_date"`
	DueDate    time.Time  `gorm:"not null" json:"due_date"`
	ReturnDate *time.Time `gorm:"index" json:"return_date,omitempty"`
	Renewed    bool       `gorm:"default:false;not null" json:"renewed"` // renew is allowed exactly once
	Fine       float64    `gorm:"default:0;not null" json:"fine"`
	IssuedBy   string     `json:"issued_by"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`

	// Associations
	Book   *Book   `gorm:"foreignKey:BookID" json:"book,omitempty"`
	Member *Member `gorm:"foreignKey:MemberID" json:"member,omitempty"`
}

// BeforeCreate hook to set UUID before creating a Loan
func (loan *Loan) BeforeCreate(tx *gorm.DB) (err error) {
	if loan.ID == "" {
		loan.ID = uuid.New().String()
	}
	return
}

func (Loan) TableName() string {
	return "loans"
}

// Open reports whether the loan has not been returned yet.
func (loan *Loan) Open() bool {
	return loan.ReturnDate == nil
}
