package service

import (
	"context"
	"testing"

	"libraryhub/internal/http-api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestBookCreate_RejectsInvalidCategory(t *testing.T) {
	repo := new(MockBookRepository)
	svc := NewBookService(repo, new(MockLoanRepository))

	err := svc.Create(context.Background(), &models.Book{
		Title:    "Some Title",
		Author:   "Someone",
		Category: "thriller",
	})

	assert.ErrorIs(t, err, ErrInvalidCategory)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestBookCreate_StartsAvailable(t *testing.T) {
	repo := new(MockBookRepository)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(b *models.Book) bool {
		return b.Status == models.BookStatusAvailable
	})).Return(nil)
	svc := NewBookService(repo, new(MockLoanRepository))

	err := svc.Create(context.Background(), &models.Book{
		Title:    "Some Title",
		Author:   "Someone",
		Category: models.CategoryFiction,
	})

	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestBookUpdate_RejectsInvalidCategory(t *testing.T) {
	repo := new(MockBookRepository)
	repo.On("GetByID", mock.Anything, "book-1").Return(availableBook("book-1"), nil)
	svc := NewBookService(repo, new(MockLoanRepository))

	_, err := svc.Update(context.Background(), "book-1", func(b *models.Book) {
		b.Category = "thriller"
	})

	assert.ErrorIs(t, err, ErrInvalidCategory)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestBookDelete_RejectedWhileBorrowed(t *testing.T) {
	repo := new(MockBookRepository)
	book := availableBook("book-1")
	book.Status = models.BookStatusBorrowed
	repo.On("GetByID", mock.Anything, "book-1").Return(book, nil)
	svc := NewBookService(repo, new(MockLoanRepository))

	err := svc.Delete(context.Background(), "book-1")

	assert.ErrorIs(t, err, ErrBookBorrowed)
	repo.AssertNotCalled(t, "SoftDelete", mock.Anything, mock.Anything)
}

func TestBookDelete_LostRaceRejected(t *testing.T) {
	repo := new(MockBookRepository)
	repo.On("GetByID", mock.Anything, "book-1").Return(availableBook("book-1"), nil)
	// Borrowed between the read and the conditional delete
	repo.On("SoftDelete", mock.Anything, "book-1").Return(int64(0), nil)
	svc := NewBookService(repo, new(MockLoanRepository))

	err := svc.Delete(context.Background(), "book-1")

	assert.ErrorIs(t, err, ErrBookBorrowed)
}

func TestBookDelete_Success(t *testing.T) {
	repo := new(MockBookRepository)
	repo.On("GetByID", mock.Anything, "book-1").Return(availableBook("book-1"), nil)
	repo.On("SoftDelete", mock.Anything, "book-1").Return(int64(1), nil)
	svc := NewBookService(repo, new(MockLoanRepository))

	assert.NoError(t, svc.Delete(context.Background(), "book-1"))
}

func TestBookGetByID_NotFound(t *testing.T) {
	repo := new(MockBookRepository)
	repo.On("GetByID", mock.Anything, "missing").Return(nil, gorm.ErrRecordNotFound)
	svc := NewBookService(repo, new(MockLoanRepository))

	_, err := svc.GetByID(context.Background(), "missing")

	assert.ErrorIs(t, err, ErrBookNotFound)
}
