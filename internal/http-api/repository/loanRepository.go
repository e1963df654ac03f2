package repository

import (
	"context"
	"fmt"
	"time"

	"libraryhub/internal/http-api/models"

	"gorm.io/gorm"
)

type LoanRepository interface {
	Create(ctx context.Context, loan *models.Loan) error
	// Delete is the compensating action when the book update fails after
	// loan creation, so no orphaned open loan is left behind.
	Delete(ctx context.Context, id string) error

	GetOpenLoan(ctx context.Context, bookID, memberID string) (*models.Loan, error)
	CountOpenByMember(ctx context.Context, memberID string) (int64, error)
	ListOpenByMember(ctx context.Context, memberID string) ([]models.Loan, error)
	ListByMember(ctx context.Context, memberID string) ([]models.Loan, error)
	HasOpenLoanForBook(ctx context.Context, bookID string) (bool, error)

	// Close and Renew are conditional terminal operations on an open loan;
	// each returns rows affected, zero meaning the other operation won.
	Close(ctx context.Context, id string, returnedAt time.Time, fine float64) (int64, error)
	Renew(ctx context.Context, id string, newDueDate time.Time) (int64, error)

	ListOpen(ctx context.Context) ([]models.Loan, error)
	ListOverdue(ctx context.Context, asOf time.Time) ([]models.Loan, error)
	CountOpen(ctx context.Context) (int64, error)
}

type loanRepository struct {
	db *gorm.DB
}

func NewLoanRepository(db *gorm.DB) LoanRepository {
	return &loanRepository{db: db}
}

func (r *loanRepository) Create(ctx context.Context, loan *models.Loan) error {
	if err := r.db.WithContext(ctx).Create(loan).Error; err != nil {
		return fmt.Errorf("create loan: %w", err)
	}
	return nil
}

func (r *loanRepository) Delete(ctx context.Context, id string) error {
	if err := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Loan{}).Error; err != nil {
		return fmt.Errorf("delete loan: %w", err)
	}
	return nil
}

func (r *loanRepository) GetOpenLoan(ctx context.Context, bookID, memberID string) (*models.Loan, error) {
	var loan models.Loan
	if err := r.db.WithContext(ctx).
		Where("book_id = ? AND member_id = ? AND return_date IS NULL", bookID, memberID).
		First(&loan).Error; err != nil {
		return nil, err
	}
	return &loan, nil
}

func (r *loanRepository) CountOpenByMember(ctx context.Context, memberID string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Loan{}).
		Where("member_id = ? AND return_date IS NULL", memberID).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count open loans: %w", err)
	}
	return count, nil
}

func (r *loanRepository) ListOpenByMember(ctx context.Context, memberID string) ([]models.Loan, error) {
	var loans []models.Loan
	if err := r.db.WithContext(ctx).
		Preload("Book").
		Where("member_id = ? AND return_date IS NULL", memberID).
		Order("borrow_date DESC").
		Find(&loans).Error; err != nil {
		return nil, fmt.Errorf("list open loans: %w", err)
	}
	return loans, nil
}

func (r *loanRepository) ListByMember(ctx context.Context, memberID string) ([]models.Loan, error) {
	var loans []models.Loan
	if err := r.db.WithContext(ctx).
		Preload("Book").
		Where("member_id = ?", memberID).
		Order("borrow_date DESC").
		Find(&loans).Error; err != nil {
		return nil, fmt.Errorf("list loans: %w", err)
	}
	return loans, nil
}

func (r *loanRepository) HasOpenLoanForBook(ctx context.Context, bookID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Loan{}).
		Where("book_id = ? AND return_date IS NULL", bookID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Close records the return. Conditional on the loan still being open so that
// return and renew stay mutually exclusive terminal operations.
func (r *loanRepository) Close(ctx context.Context, id string, returnedAt time.Time, fine float64) (int64, error) {
	result := r.db.WithContext(ctx).Model(&models.Loan{}).
		Where("id = ? AND return_date IS NULL", id).
		Updates(map[string]any{
			"return_date": returnedAt,
			"fine":        fine,
		})
	if result.Error != nil {
		return 0, fmt.Errorf("close loan: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// Renew extends the due date once. Conditional on the loan being open and
// not yet renewed.
func (r *loanRepository) Renew(ctx context.Context, id string, newDueDate time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Model(&models.Loan{}).
		Where("id = ? AND return_date IS NULL AND renewed = ?", id, false).
		Updates(map[string]any{
			"due_date": newDueDate,
			"renewed":  true,
		})
	if result.Error != nil {
		return 0, fmt.Errorf("renew loan: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func (r *loanRepository) ListOpen(ctx context.Context) ([]models.Loan, error) {
	var loans []models.Loan
	if err := r.db.WithContext(ctx).
		Preload("Book").
		Preload("Member").
		Where("return_date IS NULL").
		Order("due_date ASC").
		Find(&loans).Error; err != nil {
		return nil, fmt.Errorf("list open loans: %w", err)
	}
	return loans, nil
}

func (r *loanRepository) ListOverdue(ctx context.Context, asOf time.Time) ([]models.Loan, error) {
	var loans []models.Loan
	if err := r.db.WithContext(ctx).
		Preload("Book").
		Preload("Member").
		Where("return_date IS NULL AND due_date < ?", asOf).
		Order("due_date ASC").
		Find(&loans).Error; err != nil {
		return nil, fmt.Errorf("list overdue loans: %w", err)
	}
	return loans, nil
}

func (r *loanRepository) CountOpen(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Loan{}).
		Where("return_date IS NULL").
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
