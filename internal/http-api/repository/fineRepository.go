package repository

import (
	"context"
	"fmt"

	"libraryhub/internal/http-api/models"

	"gorm.io/gorm"
)

type FineRepository interface {
	Create(ctx context.Context, fine *models.Fine) error
	GetByID(ctx context.Context, id string) (*models.Fine, error)
	ListByMember(ctx context.Context, memberID string) ([]models.Fine, error)
	List(ctx context.Context, unresolvedOnly bool) ([]models.Fine, error)

	// MarkPaid and MarkWaived are terminal and mutually exclusive; each is
	// conditional on the fine being unresolved and returns rows affected.
	MarkPaid(ctx context.Context, id string) (int64, error)
	MarkWaived(ctx context.Context, id, reason string) (int64, error)
}

type fineRepository struct {
	db *gorm.DB
}

func NewFineRepository(db *gorm.DB) FineRepository {
	return &fineRepository{db: db}
}

func (r *fineRepository) Create(ctx context.Context, fine *models.Fine) error {
	if err := r.db.WithContext(ctx).Create(fine).Error; err != nil {
		return fmt.Errorf("create fine: %w", err)
	}
	return nil
}

func (r *fineRepository) GetByID(ctx context.Context, id string) (*models.Fine, error) {
	var fine models.Fine
	if err := r.db.WithContext(ctx).First(&fine, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &fine, nil
}

func (r *fineRepository) ListByMember(ctx context.Context, memberID string) ([]models.Fine, error) {
	var fines []models.Fine
	if err := r.db.WithContext(ctx).
		Preload("Book").
		Where("member_id = ?", memberID).
		Order("recorded_on DESC").
		Find(&fines).Error; err != nil {
		return nil, fmt.Errorf("list fines: %w", err)
	}
	return fines, nil
}

func (r *fineRepository) List(ctx context.Context, unresolvedOnly bool) ([]models.Fine, error) {
	var fines []models.Fine
	query := r.db.WithContext(ctx).Preload("Member").Preload("Book")
	if unresolvedOnly {
		query = query.Where("is_paid = ? AND waived = ?", false, false)
	}
	if err := query.Order("recorded_on DESC").Find(&fines).Error; err != nil {
		return nil, fmt.Errorf("list fines: %w", err)
	}
	return fines, nil
}

func (r *fineRepository) MarkPaid(ctx context.Context, id string) (int64, error) {
	result := r.db.WithContext(ctx).Model(&models.Fine{}).
		Where("id = ? AND is_paid = ? AND waived = ?", id, false, false).
		Update("is_paid", true)
	if result.Error != nil {
		return 0, fmt.Errorf("mark paid: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func (r *fineRepository) MarkWaived(ctx context.Context, id, reason string) (int64, error) {
	result := r.db.WithContext(ctx).Model(&models.Fine{}).
		Where("id = ? AND is_paid = ? AND waived = ?", id, false, false).
		Updates(map[string]any{
			"waived":        true,
			"waived_reason": reason,
		})
	if result.Error != nil {
		return 0, fmt.Errorf("mark waived: %w", result.Error)
	}
	return result.RowsAffected, nil
}
