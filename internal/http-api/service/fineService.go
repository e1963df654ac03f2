package service

import (
	"context"
	"errors"

	"libraryhub/internal/http-api/models"
	"libraryhub/internal/http-api/repository"
)

var (
	ErrFineNotFound = errors.New("fine not found")
	ErrFineResolved = errors.New("fine already paid or waived")
)

type FineService interface {
	// Create records a manual fine and adds it to the member's balance.
	Create(ctx context.Context, fine *models.Fine) error
	ListByMember(ctx context.Context, memberID string) ([]models.Fine, error)
	List(ctx context.Context, unresolvedOnly bool) ([]models.Fine, error)
	// Pay and Waive are terminal; both reduce the member's outstanding
	// balance. A second resolution attempt fails.
	Pay(ctx context.Context, fineID string) error
	Waive(ctx context.Context, fineID, reason string) error
}

type fineService struct {
	repo       repository.FineRepository
	memberRepo repository.MemberRepository
}

func NewFineService(repo repository.FineRepository, memberRepo repository.MemberRepository) FineService {
	return &fineService{repo: repo, memberRepo: memberRepo}
}

func (s *fineService) Create(ctx context.Context, fine *models.Fine) error {
	if _, err := s.memberRepo.GetByID(ctx, fine.MemberID); err != nil {
		return ErrMemberNotFound
	}

	if err := s.repo.Create(ctx, fine); err != nil {
		return err
	}

	return s.memberRepo.AddFine(ctx, fine.MemberID, fine.FineAmount)
}

func (s *fineService) ListByMember(ctx context.Context, memberID string) ([]models.Fine, error) {
	if _, err := s.memberRepo.GetByID(ctx, memberID); err != nil {
		return nil, ErrMemberNotFound
	}
	return s.repo.ListByMember(ctx, memberID)
}

func (s *fineService) List(ctx context.Context, unresolvedOnly bool) ([]models.Fine, error) {
	return s.repo.List(ctx, unresolvedOnly)
}

func (s *fineService) Pay(ctx context.Context, fineID string) error {
	fine, err := s.repo.GetByID(ctx, fineID)
	if err != nil {
		return ErrFineNotFound
	}
	if fine.Resolved() {
		return ErrFineResolved
	}

	rows, err := s.repo.MarkPaid(ctx, fineID)
	if err != nil {
		return err
	}
	if rows == 0 {
		// Resolved concurrently between the read and the update.
		return ErrFineResolved
	}

	return s.memberRepo.SubtractFine(ctx, fine.MemberID, fine.FineAmount)
}

func (s *fineService) Waive(ctx context.Context, fineID, reason string) error {
	fine, err := s.repo.GetByID(ctx, fineID)
	if err != nil {
		return ErrFineNotFound
	}
	if fine.Resolved() {
		return ErrFineResolved
	}

	rows, err := s.repo.MarkWaived(ctx, fineID, reason)
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrFineResolved
	}

	return s.memberRepo.SubtractFine(ctx, fine.MemberID, fine.FineAmount)
}
