package service

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"libraryhub/internal/config"
	"libraryhub/internal/http-api/dto"
	"libraryhub/internal/http-api/models"
	"libraryhub/internal/http-api/repository"
)

// CirculationService executes borrow, return and renew as validated state
// transitions over books, members and loans, and computes overdue fines.
// Every operation re-reads current state before deciding; nothing is cached
// across calls. Failures are converted to results at this boundary so the
// caller always gets a message to render instead of an error to crash on.
type CirculationService interface {
	Borrow(ctx context.Context, bookID, memberID, issuedBy string) *dto.CirculationResult
	Return(ctx context.Context, bookID, memberID string) *dto.CirculationResult
	Renew(ctx context.Context, bookID, memberID string) *dto.CirculationResult
	ListOpenLoans(ctx context.Context) ([]models.Loan, error)
	ListOverdueLoans(ctx context.Context) ([]models.Loan, error)
}

type circulationService struct {
	bookRepo   repository.BookRepository
	memberRepo repository.MemberRepository
	loanRepo   repository.LoanRepository
	fineRepo   repository.FineRepository
	logger     *slog.Logger

	loanPeriod time.Duration
	finePerDay float64
	maxBooks   int
}

func NewCirculationService(
	bookRepo repository.BookRepository,
	memberRepo repository.MemberRepository,
	loanRepo repository.LoanRepository,
	fineRepo repository.FineRepository,
	cfg *config.Config,
	logger *slog.Logger,
) CirculationService {
	return &circulationService{
		bookRepo:   bookRepo,
		memberRepo: memberRepo,
		loanRepo:   loanRepo,
		fineRepo:   fineRepo,
		logger:     logger,
		loanPeriod: cfg.LoanPeriod,
		finePerDay: cfg.FinePerDay,
		maxBooks:   cfg.MaxBooksPerMember,
	}
}

// Borrow checks the preconditions in order, short-circuiting on the first
// failure, then creates the loan and flips the book to borrowed. The book
// update is conditional on the book still being available; if it fails after
// the loan was created, the loan is deleted again so no orphaned open loan
// exists without a matching borrowed book.
func (s *circulationService) Borrow(ctx context.Context, bookID, memberID, issuedBy string) *dto.CirculationResult {
	book, err := s.bookRepo.GetByID(ctx, bookID)
	if err != nil {
		return dto.NotFoundResult("Book not found")
	}

	member, err := s.memberRepo.GetByID(ctx, memberID)
	if err != nil {
		return dto.NotFoundResult("Member not found")
	}

	if book.Status != models.BookStatusAvailable {
		return dto.InvalidStateResult("Book is not available for borrowing")
	}

	if member.Fines > 0 {
		return dto.PolicyViolationResult(fmt.Sprintf(
			"Member has unpaid fines of ₹%.0f. Please clear fines before borrowing.", member.Fines))
	}

	openCount, err := s.loanRepo.CountOpenByMember(ctx, memberID)
	if err != nil {
		return s.storeFailure("count open loans", err)
	}
	if openCount >= int64(s.maxBooks) {
		return dto.PolicyViolationResult(fmt.Sprintf(
			"Member has reached the maximum borrowing limit (%d books)", s.maxBooks))
	}

	now := time.Now()
	dueDate := now.Add(s.loanPeriod)

	loan := &models.Loan{
		BookID:     bookID,
		MemberID:   memberID,
		BorrowDate: now,
		DueDate:    dueDate,
		Renewed:    false,
		IssuedBy:   issuedBy,
	}
	if err := s.loanRepo.Create(ctx, loan); err != nil {
		return s.storeFailure("create loan", err)
	}

	rows, err := s.bookRepo.MarkBorrowed(ctx, bookID, memberID, dueDate)
	if err != nil || rows == 0 {
		// Compensating delete so the loan does not outlive the failed
		// book transition.
		if delErr := s.loanRepo.Delete(ctx, loan.ID); delErr != nil {
			s.logger.Error("rollback of loan failed, manual reconciliation required",
				"loan_id", loan.ID, "book_id", bookID, "error", delErr)
			return dto.StoreFailureResult("Borrow could not be completed and cleanup failed. Please contact an administrator.")
		}
		if err != nil {
			return s.storeFailure("mark book borrowed", err)
		}
		// Lost the race: another borrow flipped the book first.
		return dto.InvalidStateResult("Book is not available for borrowing")
	}

	s.logger.Info("book borrowed",
		"book_id", bookID, "member_id", memberID, "loan_id", loan.ID, "due_date", dueDate)

	return &dto.CirculationResult{
		Success:    true,
		Message:    fmt.Sprintf("Book borrowed successfully. Due date: %s", dueDate.Format("2006-01-02")),
		LoanID:     loan.ID,
		NewDueDate: &dueDate,
	}
}

// Return closes the open loan for (book, member), computes the overdue fine
// and makes the book available again. The loan is closed before any fine
// bookkeeping so a partial failure never double-charges on retry.
func (s *circulationService) Return(ctx context.Context, bookID, memberID string) *dto.CirculationResult {
	book, err := s.bookRepo.GetByID(ctx, bookID)
	if err != nil {
		return dto.NotFoundResult("Book not found")
	}

	if _, err := s.memberRepo.GetByID(ctx, memberID); err != nil {
		return dto.NotFoundResult("Member not found")
	}

	if book.Status != models.BookStatusBorrowed || book.BorrowerID == nil || *book.BorrowerID != memberID {
		return dto.InvalidStateResult("This book is not borrowed by this member")
	}

	loan, err := s.loanRepo.GetOpenLoan(ctx, bookID, memberID)
	if err != nil {
		// Defensive: should not occur while book status is consistent.
		return dto.NotFoundResult("Loan record not found")
	}

	now := time.Now()
	overdueDays := overdueDays(loan.DueDate, now)
	var fine float64
	if overdueDays > 0 {
		fine = float64(overdueDays) * s.finePerDay
	}

	rows, err := s.loanRepo.Close(ctx, loan.ID, now, fine)
	if err != nil {
		return s.storeFailure("close loan", err)
	}
	if rows == 0 {
		// Renew or another return won the race on this loan.
		return dto.InvalidStateResult("This book is not borrowed by this member")
	}

	if _, err := s.bookRepo.MarkReturned(ctx, bookID); err != nil {
		s.logger.Error("book not flipped back to available after return",
			"book_id", bookID, "loan_id", loan.ID, "error", err)
		return dto.StoreFailureResult("Return could not be completed. Please contact an administrator.")
	}

	if fine > 0 {
		// Additive so pre-existing unpaid fines are preserved.
		if err := s.memberRepo.AddFine(ctx, memberID, fine); err != nil {
			return s.storeFailure("add fine to member", err)
		}
		record := &models.Fine{
			MemberID:    memberID,
			BookID:      &bookID,
			DaysOverdue: overdueDays,
			FineAmount:  fine,
		}
		if err := s.fineRepo.Create(ctx, record); err != nil {
			return s.storeFailure("record fine", err)
		}

		s.logger.Info("book returned late",
			"book_id", bookID, "member_id", memberID, "days_overdue", overdueDays, "fine", fine)

		return &dto.CirculationResult{
			Success: true,
			Message: fmt.Sprintf("Book returned successfully. Fine of ₹%.0f added.", fine),
			Fine:    fine,
		}
	}

	s.logger.Info("book returned", "book_id", bookID, "member_id", memberID)

	return &dto.CirculationResult{
		Success: true,
		Message: "Book returned successfully",
	}
}

// Renew extends the due date by one loan period, exactly once per loan.
// Renewing an already-overdue loan is allowed and extends forward without a
// retroactive fine.
func (s *circulationService) Renew(ctx context.Context, bookID, memberID string) *dto.CirculationResult {
	book, err := s.bookRepo.GetByID(ctx, bookID)
	if err != nil {
		return dto.NotFoundResult("Book not found")
	}

	if _, err := s.memberRepo.GetByID(ctx, memberID); err != nil {
		return dto.NotFoundResult("Member not found")
	}

	if book.Status != models.BookStatusBorrowed || book.BorrowerID == nil || *book.BorrowerID != memberID {
		return dto.InvalidStateResult("This book is not borrowed by this member")
	}

	loan, err := s.loanRepo.GetOpenLoan(ctx, bookID, memberID)
	if err != nil {
		return dto.NotFoundResult("Loan record not found")
	}

	if loan.Renewed {
		return dto.PolicyViolationResult("This book has already been renewed once")
	}

	newDueDate := time.Now().Add(s.loanPeriod)

	rows, err := s.loanRepo.Renew(ctx, loan.ID, newDueDate)
	if err != nil {
		return s.storeFailure("renew loan", err)
	}
	if rows == 0 {
		// Return or a concurrent renew won the race on this loan.
		return dto.PolicyViolationResult("This book has already been renewed once")
	}

	if err := s.bookRepo.UpdateDueDate(ctx, bookID, newDueDate); err != nil {
		return s.storeFailure("update book due date", err)
	}

	s.logger.Info("loan renewed",
		"book_id", bookID, "member_id", memberID, "loan_id", loan.ID, "new_due_date", newDueDate)

	return &dto.CirculationResult{
		Success:    true,
		Message:    fmt.Sprintf("Book renewed successfully. New due date: %s", newDueDate.Format("2006-01-02")),
		LoanID:     loan.ID,
		NewDueDate: &newDueDate,
	}
}

func (s *circulationService) ListOpenLoans(ctx context.Context) ([]models.Loan, error) {
	return s.loanRepo.ListOpen(ctx)
}

func (s *circulationService) ListOverdueLoans(ctx context.Context) ([]models.Loan, error) {
	return s.loanRepo.ListOverdue(ctx, time.Now())
}

func (s *circulationService) storeFailure(step string, err error) *dto.CirculationResult {
	s.logger.Error("circulation store failure", "step", step, "error", err)
	return dto.StoreFailureResult("Operation could not be completed. Please try again.")
}

// overdueDays counts calendar-day ceiling of elapsed wall-clock time, so any
// fraction of a day overdue counts as a full day.
func overdueDays(dueDate, now time.Time) int {
	if !now.After(dueDate) {
		return 0
	}
	return int(math.Ceil(now.Sub(dueDate).Hours() / 24))
}
