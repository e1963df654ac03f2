package service

import (
	"context"
	"errors"

	"libraryhub/internal/http-api/models"
	"libraryhub/internal/http-api/repository"
)

var (
	ErrBookNotFound    = errors.New("book not found")
	ErrBookBorrowed    = errors.New("book is currently borrowed")
	ErrInvalidCategory = errors.New("invalid category")
)

type BookService interface {
	Create(ctx context.Context, book *models.Book) error
	GetByID(ctx context.Context, id string) (*models.Book, error)
	List(ctx context.Context, category, search string, page, pageSize int) ([]models.Book, int64, error)
	Update(ctx context.Context, id string, apply func(*models.Book)) (*models.Book, error)
	Delete(ctx context.Context, id string) error
}

type bookService struct {
	repo     repository.BookRepository
	loanRepo repository.LoanRepository
}

func NewBookService(repo repository.BookRepository, loanRepo repository.LoanRepository) BookService {
	return &bookService{repo: repo, loanRepo: loanRepo}
}

func (s *bookService) Create(ctx context.Context, book *models.Book) error {
	if !models.ValidCategory(book.Category) {
		return ErrInvalidCategory
	}
	book.Status = models.BookStatusAvailable
	return s.repo.Create(ctx, book)
}

func (s *bookService) GetByID(ctx context.Context, id string) (*models.Book, error) {
	book, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, ErrBookNotFound
	}
	return book, nil
}

func (s *bookService) List(ctx context.Context, category, search string, page, pageSize int) ([]models.Book, int64, error) {
	return s.repo.List(ctx, category, search, page, pageSize)
}

func (s *bookService) Update(ctx context.Context, id string, apply func(*models.Book)) (*models.Book, error) {
	book, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, ErrBookNotFound
	}

	apply(book)

	if !models.ValidCategory(book.Category) {
		return nil, ErrInvalidCategory
	}

	if err := s.repo.Update(ctx, book); err != nil {
		return nil, err
	}
	return book, nil
}

// Delete soft-deletes the book. Rejected while the book is borrowed so
// historical loan records never dangle.
func (s *bookService) Delete(ctx context.Context, id string) error {
	book, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return ErrBookNotFound
	}
	if book.Status == models.BookStatusBorrowed {
		return ErrBookBorrowed
	}

	rows, err := s.repo.SoftDelete(ctx, id)
	if err != nil {
		return err
	}
	if rows == 0 {
		// The book was borrowed between the read and the delete.
		return ErrBookBorrowed
	}
	return nil
}
