package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Book status values. A book carries a borrower and due date iff it is borrowed.
const (
	BookStatusAvailable = "available"
	BookStatusBorrowed  = "borrowed"
)

// Book categories.
const (
	CategoryFiction    = "Fiction"
	CategoryNonFiction = "Non-Fiction"
	CategoryChildren   = "Children"
)

type Book struct {
	ID          string         `gorm:"primaryKey;type:uuid" json:"id"`
	Title       string         `gorm:"not null;index" json:"title"`
	Author      string         `gorm:"not null" json:"author"`
	ISBN        *string        `gorm:"size:20;index" json:"isbn,omitempty"`
	Category    string         `gorm:"not null" json:"category"`
	Status      string         `gorm:"default:'available';not null;index" json:"status"`
	BorrowerID  *string        `gorm:"type:uuid;index" json:"borrower_id,omitempty"`
	DueDate     *time.Time     `json:"due_date,omitempty"`
	BorrowCount int            `gorm:"default:0;not null" json:"borrow_count"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Association
	Borrower *Member `gorm:"foreignKey:BorrowerID" json:"borrower,omitempty"`
}

// BeforeCreate hook to set UUID before creating a Book
func (book *Book) BeforeCreate(tx *gorm.DB) (err error) {
	if book.ID == "" {
		book.ID = uuid.New().String()
	}
	return
}

func (Book) TableName() string {
	return "books"
}

// ValidCategory reports whether category is one of the catalog categories.
func ValidCategory(category string) bool {
	return category == CategoryFiction || category == CategoryNonFiction || category == CategoryChildren
}
