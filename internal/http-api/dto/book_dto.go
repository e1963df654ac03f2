package dto

import (
	"time"

	"libraryhub/internal/http-api/models"
)

// CreateBookDTO used for POST /api/books
type CreateBookDTO struct {
	Title    string  `json:"title" binding:"required"`
	Author   string  `json:"author" binding:"required"`
	ISBN     *string `json:"isbn,omitempty"`
	Category string  `json:"category" binding:"required"`
}

// UpdateBookDTO used for PUT /api/books/:book_id (partial updates allowed)
type UpdateBookDTO struct {
	Title    *string `json:"title,omitempty"`
	Author   *string `json:"author,omitempty"`
	ISBN     *string `json:"isbn,omitempty"`
	Category *string `json:"category,omitempty"`
}

// BookResponse DTO for responses
type BookResponse struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Author      string     `json:"author"`
	ISBN        *string    `json:"isbn,omitempty"`
	Category    string     `json:"category"`
	Status      string     `json:"status"`
	BorrowerID  *string    `json:"borrower_id,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	BorrowCount int        `json:"borrow_count"`
	CreatedAt   time.Time  `json:"created_at"`
}

// BookListResponse wraps a paginated book listing
type BookListResponse struct {
	Items    []BookResponse `json:"items"`
	Total    int64          `json:"total"`
	Page     int            `json:"page"`
	PageSize int            `json:"page_size"`
}

// Converters
func (d CreateBookDTO) ToModel() models.Book {
	return models.Book{
		Title:    d.Title,
		Author:   d.Author,
		ISBN:     d.ISBN,
		Category: d.Category,
		Status:   models.BookStatusAvailable,
	}
}

func (d UpdateBookDTO) ApplyTo(b *models.Book) {
	if d.Title != nil {
		b.Title = *d.Title
	}
	if d.Author != nil {
		b.Author = *d.Author
	}
	if d.ISBN != nil {
		b.ISBN = d.ISBN
	}
	if d.Category != nil {
		b.Category = *d.Category
	}
}

func FromBookToResponse(b models.Book) BookResponse {
	return BookResponse{
		ID:          b.ID,
		Title:       b.Title,
		Author:      b.Author,
		ISBN:        b.ISBN,
		Category:    b.Category,
		Status:      b.Status,
		BorrowerID:  b.BorrowerID,
		DueDate:     b.DueDate,
		BorrowCount: b.BorrowCount,
		CreatedAt:   b.CreatedAt,
	}
}
