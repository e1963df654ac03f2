package service

import (
	"context"
	"log/slog"
	"time"

	"libraryhub/internal/http-api/cache"
	"libraryhub/internal/http-api/dto"
	"libraryhub/internal/http-api/repository"
)

// Cache keys for report payloads.
const (
	cacheKeyOverdue = "report:overdue"
	cacheKeyPopular = "report:popular"
	cacheKeySummary = "report:summary"
)

// ReportService aggregates circulation data into the overdue, popularity and
// summary reports. Results are cached in Redis with a short TTL when a cache
// is configured; misses fall through to Postgres.
type ReportService interface {
	OverdueReport(ctx context.Context) (*dto.OverdueReportResponse, error)
	PopularBooks(ctx context.Context, limit int) (*dto.PopularBooksResponse, error)
	Summary(ctx context.Context) (*dto.SummaryResponse, error)
}

type reportService struct {
	bookRepo   repository.BookRepository
	memberRepo repository.MemberRepository
	loanRepo   repository.LoanRepository
	cache      *cache.ReportCache
	logger     *slog.Logger
}

func NewReportService(
	bookRepo repository.BookRepository,
	memberRepo repository.MemberRepository,
	loanRepo repository.LoanRepository,
	reportCache *cache.ReportCache,
	logger *slog.Logger,
) ReportService {
	return &reportService{
		bookRepo:   bookRepo,
		memberRepo: memberRepo,
		loanRepo:   loanRepo,
		cache:      reportCache,
		logger:     logger,
	}
}

func (s *reportService) OverdueReport(ctx context.Context) (*dto.OverdueReportResponse, error) {
	var cached dto.OverdueReportResponse
	if hit, err := s.cache.Get(ctx, cacheKeyOverdue, &cached); err != nil {
		s.logger.Warn("report cache read failed", "key", cacheKeyOverdue, "error", err)
	} else if hit {
		return &cached, nil
	}

	loans, err := s.loanRepo.ListOverdue(ctx, time.Now())
	if err != nil {
		return nil, err
	}

	items := make([]dto.LoanResponse, 0, len(loans))
	for _, loan := range loans {
		items = append(items, dto.FromLoanToResponse(loan))
	}

	report := &dto.OverdueReportResponse{Items: items, Total: len(items)}

	if err := s.cache.Set(ctx, cacheKeyOverdue, report); err != nil {
		s.logger.Warn("report cache write failed", "key", cacheKeyOverdue, "error", err)
	}
	return report, nil
}

func (s *reportService) PopularBooks(ctx context.Context, limit int) (*dto.PopularBooksResponse, error) {
	var cached dto.PopularBooksResponse
	if hit, err := s.cache.Get(ctx, cacheKeyPopular, &cached); err != nil {
		s.logger.Warn("report cache read failed", "key", cacheKeyPopular, "error", err)
	} else if hit && len(cached.Items) >= limit {
		cached.Items = cached.Items[:limit]
		return &cached, nil
	}

	books, err := s.bookRepo.MostBorrowed(ctx, limit)
	if err != nil {
		return nil, err
	}

	items := make([]dto.PopularBookEntry, 0, len(books))
	for _, book := range books {
		items = append(items, dto.PopularBookEntry{
			Book:        dto.FromBookToResponse(book),
			BorrowCount: book.BorrowCount,
		})
	}

	report := &dto.PopularBooksResponse{Items: items}

	if err := s.cache.Set(ctx, cacheKeyPopular, report); err != nil {
		s.logger.Warn("report cache write failed", "key", cacheKeyPopular, "error", err)
	}
	return report, nil
}

func (s *reportService) Summary(ctx context.Context) (*dto.SummaryResponse, error) {
	var cached dto.SummaryResponse
	if hit, err := s.cache.Get(ctx, cacheKeySummary, &cached); err != nil {
		s.logger.Warn("report cache read failed", "key", cacheKeySummary, "error", err)
	} else if hit {
		return &cached, nil
	}

	totalBooks, err := s.bookRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	totalMembers, err := s.memberRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	openLoans, err := s.loanRepo.CountOpen(ctx)
	if err != nil {
		return nil, err
	}
	overdue, err := s.loanRepo.ListOverdue(ctx, time.Now())
	if err != nil {
		return nil, err
	}
	outstanding, err := s.memberRepo.TotalOutstandingFines(ctx)
	if err != nil {
		return nil, err
	}

	report := &dto.SummaryResponse{
		TotalBooks:       totalBooks,
		TotalMembers:     totalMembers,
		OpenLoans:        openLoans,
		OverdueLoans:     int64(len(overdue)),
		OutstandingFines: outstanding,
	}

	if err := s.cache.Set(ctx, cacheKeySummary, report); err != nil {
		s.logger.Warn("report cache write failed", "key", cacheKeySummary, "error", err)
	}
	return report, nil
}
