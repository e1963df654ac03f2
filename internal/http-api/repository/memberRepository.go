package repository

import (
	"context"
	"fmt"

	"libraryhub/internal/http-api/models"

	"gorm.io/gorm"
)

type MemberRepository interface {
	Create(ctx context.Context, member *models.Member) error
	GetByID(ctx context.Context, id string) (*models.Member, error)
	List(ctx context.Context, search string, page, pageSize int) ([]models.Member, int64, error)
	Update(ctx context.Context, member *models.Member) error
	Delete(ctx context.Context, id string) error

	// AddFine adds amount to the member's outstanding balance in place,
	// never overwriting concurrent adjustments.
	AddFine(ctx context.Context, id string, amount float64) error
	// SubtractFine reduces the outstanding balance, clamped at zero.
	SubtractFine(ctx context.Context, id string, amount float64) error

	Count(ctx context.Context) (int64, error)
	TotalOutstandingFines(ctx context.Context) (float64, error)
}

type memberRepository struct {
	db *gorm.DB
}

func NewMemberRepository(db *gorm.DB) MemberRepository {
	return &memberRepository{db: db}
}

func (r *memberRepository) Create(ctx context.Context, member *models.Member) error {
	if err := r.db.WithContext(ctx).Create(member).Error; err != nil {
		return fmt.Errorf("create member: %w", err)
	}
	return nil
}

func (r *memberRepository) GetByID(ctx context.Context, id string) (*models.Member, error) {
	var member models.Member
	if err := r.db.WithContext(ctx).First(&member, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

func (r *memberRepository) List(ctx context.Context, search string, page, pageSize int) ([]models.Member, int64, error) {
	var members []models.Member
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Member{})
	if search != "" {
		pattern := "%" + search + "%"
		query = query.Where("name ILIKE ? OR phone ILIKE ? OR apartment ILIKE ?", pattern, pattern, pattern)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count members: %w", err)
	}

	offset := (page - 1) * pageSize
	if err := query.Order("name ASC").Offset(offset).Limit(pageSize).Find(&members).Error; err != nil {
		return nil, 0, fmt.Errorf("list members: %w", err)
	}

	return members, total, nil
}

func (r *memberRepository) Update(ctx context.Context, member *models.Member) error {
	if err := r.db.WithContext(ctx).Save(member).Error; err != nil {
		return fmt.Errorf("update member: %w", err)
	}
	return nil
}

func (r *memberRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Member{})
	if result.Error != nil {
		return fmt.Errorf("delete member: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *memberRepository) AddFine(ctx context.Context, id string, amount float64) error {
	result := r.db.WithContext(ctx).Model(&models.Member{}).
		Where("id = ?", id).
		Update("fines", gorm.Expr("fines + ?", amount))
	if result.Error != nil {
		return fmt.Errorf("add fine: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *memberRepository) SubtractFine(ctx context.Context, id string, amount float64) error {
	result := r.db.WithContext(ctx).Model(&models.Member{}).
		Where("id = ?", id).
		Update("fines", gorm.Expr("GREATEST(fines - ?, 0)", amount))
	if result.Error != nil {
		return fmt.Errorf("subtract fine: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *memberRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Member{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *memberRepository) TotalOutstandingFines(ctx context.Context) (float64, error) {
	var total float64
	if err := r.db.WithContext(ctx).Model(&models.Member{}).
		Select("COALESCE(SUM(fines), 0)").
		Scan(&total).Error; err != nil {
		return 0, fmt.Errorf("total outstanding fines: %w", err)
	}
	return total, nil
}
