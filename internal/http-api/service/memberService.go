package service

import (
	"context"
	"errors"

	"libraryhub/internal/http-api/models"
	"libraryhub/internal/http-api/repository"
)

var (
	ErrMemberNotFound = errors.New("member not found")
	ErrMemberHasLoans = errors.New("member has open loans")
)

type MemberService interface {
	Create(ctx context.Context, member *models.Member) error
	GetByID(ctx context.Context, id string) (*models.Member, error)
	// BorrowedBooks derives the member's current loans from the loan table,
	// the single source of truth.
	BorrowedBooks(ctx context.Context, id string) ([]models.Loan, error)
	LoanHistory(ctx context.Context, id string) ([]models.Loan, error)
	List(ctx context.Context, search string, page, pageSize int) ([]models.Member, int64, error)
	Update(ctx context.Context, id string, apply func(*models.Member)) (*models.Member, error)
	Delete(ctx context.Context, id string) error
}

type memberService struct {
	repo     repository.MemberRepository
	loanRepo repository.LoanRepository
}

func NewMemberService(repo repository.MemberRepository, loanRepo repository.LoanRepository) MemberService {
	return &memberService{repo: repo, loanRepo: loanRepo}
}

func (s *memberService) Create(ctx context.Context, member *models.Member) error {
	return s.repo.Create(ctx, member)
}

func (s *memberService) GetByID(ctx context.Context, id string) (*models.Member, error) {
	member, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, ErrMemberNotFound
	}
	return member, nil
}

func (s *memberService) BorrowedBooks(ctx context.Context, id string) ([]models.Loan, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, ErrMemberNotFound
	}
	return s.loanRepo.ListOpenByMember(ctx, id)
}

func (s *memberService) LoanHistory(ctx context.Context, id string) ([]models.Loan, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, ErrMemberNotFound
	}
	return s.loanRepo.ListByMember(ctx, id)
}

func (s *memberService) List(ctx context.Context, search string, page, pageSize int) ([]models.Member, int64, error) {
	return s.repo.List(ctx, search, page, pageSize)
}

func (s *memberService) Update(ctx context.Context, id string, apply func(*models.Member)) (*models.Member, error) {
	member, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, ErrMemberNotFound
	}

	apply(member)

	if err := s.repo.Update(ctx, member); err != nil {
		return nil, err
	}
	return member, nil
}

// Delete removes the member. Rejected while the member holds open loans.
func (s *memberService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return ErrMemberNotFound
	}

	openCount, err := s.loanRepo.CountOpenByMember(ctx, id)
	if err != nil {
		return err
	}
	if openCount > 0 {
		return ErrMemberHasLoans
	}

	return s.repo.Delete(ctx, id)
}
