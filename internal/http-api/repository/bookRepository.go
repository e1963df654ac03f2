package repository

import (
	"context"
	"fmt"
	"time"

	"libraryhub/internal/http-api/models"

	"gorm.io/gorm"
)

type BookRepository interface {
	Create(ctx context.Context, book *models.Book) error
	GetByID(ctx context.Context, id string) (*models.Book, error)
	List(ctx context.Context, category, search string, page, pageSize int) ([]models.Book, int64, error)
	Update(ctx context.Context, book *models.Book) error
	SoftDelete(ctx context.Context, id string) (int64, error)

	// Conditional state transitions. Each returns the number of rows affected;
	// zero means the precondition no longer held and the race was lost.
	MarkBorrowed(ctx context.Context, id, memberID string, dueDate time.Time) (int64, error)
	MarkReturned(ctx context.Context, id string) (int64, error)
	UpdateDueDate(ctx context.Context, id string, dueDate time.Time) error

	Count(ctx context.Context) (int64, error)
	MostBorrowed(ctx context.Context, limit int) ([]models.Book, error)
}

type bookRepository struct {
	db *gorm.DB
}

func NewBookRepository(db *gorm.DB) BookRepository {
	return &bookRepository{db: db}
}

func (r *bookRepository) Create(ctx context.Context, book *models.Book) error {
	if err := r.db.WithContext(ctx).Create(book).Error; err != nil {
		return fmt.Errorf("create book: %w", err)
	}
	return nil
}

func (r *bookRepository) GetByID(ctx context.Context, id string) (*models.Book, error) {
	var book models.Book
	if err := r.db.WithContext(ctx).First(&book, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &book, nil
}

func (r *bookRepository) List(ctx context.Context, category, search string, page, pageSize int) ([]models.Book, int64, error) {
	var books []models.Book
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Book{})
	if category != "" {
		query = query.Where("category = ?", category)
	}
	if search != "" {
		pattern := "%" + search + "%"
		query = query.Where("title ILIKE ? OR author ILIKE ? OR isbn ILIKE ?", pattern, pattern, pattern)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count books: %w", err)
	}

	offset := (page - 1) * pageSize
	if err := query.Order("title ASC").Offset(offset).Limit(pageSize).Find(&books).Error; err != nil {
		return nil, 0, fmt.Errorf("list books: %w", err)
	}

	return books, total, nil
}

func (r *bookRepository) Update(ctx context.Context, book *models.Book) error {
	if err := r.db.WithContext(ctx).Save(book).Error; err != nil {
		return fmt.Errorf("update book: %w", err)
	}
	return nil
}

// SoftDelete logically removes the book. The delete is conditional on the
// book not being borrowed so historical loan records stay consistent.
func (r *bookRepository) SoftDelete(ctx context.Context, id string) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("id = ? AND status = ?", id, models.BookStatusAvailable).
		Delete(&models.Book{})
	if result.Error != nil {
		return 0, fmt.Errorf("delete book: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// MarkBorrowed flips the book to borrowed only while it is still available,
// so concurrent borrow attempts cannot both succeed.
func (r *bookRepository) MarkBorrowed(ctx context.Context, id, memberID string, dueDate time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Model(&models.Book{}).
		Where("id = ? AND status = ?", id, models.BookStatusAvailable).
		Updates(map[string]any{
			"status":       models.BookStatusBorrowed,
			"borrower_id":  memberID,
			"due_date":     dueDate,
			"borrow_count": gorm.Expr("borrow_count + 1"),
		})
	if result.Error != nil {
		return 0, fmt.Errorf("mark borrowed: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// MarkReturned flips the book back to available and clears the borrow fields.
func (r *bookRepository) MarkReturned(ctx context.Context, id string) (int64, error) {
	result := r.db.WithContext(ctx).Model(&models.Book{}).
		Where("id = ? AND status = ?", id, models.BookStatusBorrowed).
		Updates(map[string]any{
			"status":      models.BookStatusAvailable,
			"borrower_id": nil,
			"due_date":    nil,
		})
	if result.Error != nil {
		return 0, fmt.Errorf("mark returned: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func (r *bookRepository) UpdateDueDate(ctx context.Context, id string, dueDate time.Time) error {
	if err := r.db.WithContext(ctx).Model(&models.Book{}).
		Where("id = ?", id).
		Update("due_date", dueDate).Error; err != nil {
		return fmt.Errorf("update due date: %w", err)
	}
	return nil
}

func (r *bookRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Book{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *bookRepository) MostBorrowed(ctx context.Context, limit int) ([]models.Book, error) {
	var books []models.Book
	if err := r.db.WithContext(ctx).
		Where("borrow_count > 0").
		Order("borrow_count DESC").
		Limit(limit).
		Find(&books).Error; err != nil {
		return nil, fmt.Errorf("most borrowed: %w", err)
	}
	return books, nil
}
