package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"libraryhub/internal/http-api/dto"
	"libraryhub/internal/http-api/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// stubPermissions answers every check the same way, so handler tests can
// exercise both sides of the gate without a user store.
type stubPermissions struct {
	allow bool
}

func (s stubPermissions) Can(ctx context.Context, userID, resource, action string) bool {
	return s.allow
}

func (s stubPermissions) CanRole(role, resource, action string) bool {
	return s.allow
}

func (s stubPermissions) RoleOf(ctx context.Context, userID string) (string, error) {
	return models.RoleAdmin, nil
}

func (s stubPermissions) CapabilitiesFor(role string) map[string][]string {
	return map[string][]string{}
}

type MockCirculationService struct {
	mock.Mock
}

func (m *MockCirculationService) Borrow(ctx context.Context, bookID, memberID, issuedBy string) *dto.CirculationResult {
	args := m.Called(ctx, bookID, memberID, issuedBy)
	return args.Get(0).(*dto.CirculationResult)
}

func (m *MockCirculationService) Return(ctx context.Context, bookID, memberID string) *dto.CirculationResult {
	args := m.Called(ctx, bookID, memberID)
	return args.Get(0).(*dto.CirculationResult)
}

func (m *MockCirculationService) Renew(ctx context.Context, bookID, memberID string) *dto.CirculationResult {
	args := m.Called(ctx, bookID, memberID)
	return args.Get(0).(*dto.CirculationResult)
}

func (m *MockCirculationService) ListOpenLoans(ctx context.Context) ([]models.Loan, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Loan), args.Error(1)
}

func (m *MockCirculationService) ListOverdueLoans(ctx context.Context) ([]models.Loan, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Loan), args.Error(1)
}

func newCirculationRouter(svc *MockCirculationService, allow bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	// Stand-in for the auth middleware
	r.Use(func(c *gin.Context) {
		c.Set("userID", "user-1")
		c.Set("username", "frontdesk")
		c.Next()
	})
	h := NewCirculationHandler(svc, stubPermissions{allow: allow})
	h.RegisterRoutes(r.Group("/circulation"))
	return r
}

func postJSON(t *testing.T, r *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestBorrowEndpoint_Success(t *testing.T) {
	svc := new(MockCirculationService)
	due := time.Now().Add(30 * 24 * time.Hour)
	svc.On("Borrow", mock.Anything, "book-1", "member-1", "frontdesk").Return(&dto.CirculationResult{
		Success:    true,
		Message:    "Book borrowed successfully. Due date: " + due.Format("2006-01-02"),
		LoanID:     "loan-1",
		NewDueDate: &due,
	})

	r := newCirculationRouter(svc, true)
	w := postJSON(t, r, "/circulation/borrow", dto.BorrowRequest{BookID: "book-1", MemberID: "member-1"})

	assert.Equal(t, http.StatusOK, w.Code)

	var result dto.CirculationResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.True(t, result.Success)
	assert.Equal(t, "loan-1", result.LoanID)
	svc.AssertExpectations(t)
}

func TestBorrowEndpoint_MissingField(t *testing.T) {
	svc := new(MockCirculationService)
	r := newCirculationRouter(svc, true)

	w := postJSON(t, r, "/circulation/borrow", gin.H{"book_id": "book-1"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "Borrow", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestBorrowEndpoint_StatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		result *dto.CirculationResult
		want   int
	}{
		{"not found", dto.NotFoundResult("Book not found"), http.StatusNotFound},
		{"invalid state", dto.InvalidStateResult("Book is not available for borrowing"), http.StatusConflict},
		{"policy violation", dto.PolicyViolationResult("Member has reached the maximum borrowing limit (2 books)"), http.StatusUnprocessableEntity},
		{"store failure", dto.StoreFailureResult("Operation could not be completed. Please try again."), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockCirculationService)
			svc.On("Borrow", mock.Anything, "book-1", "member-1", "frontdesk").Return(tt.result)

			r := newCirculationRouter(svc, true)
			w := postJSON(t, r, "/circulation/borrow", dto.BorrowRequest{BookID: "book-1", MemberID: "member-1"})

			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestBorrowEndpoint_PermissionDenied(t *testing.T) {
	svc := new(MockCirculationService)
	r := newCirculationRouter(svc, false)

	w := postJSON(t, r, "/circulation/borrow", dto.BorrowRequest{BookID: "book-1", MemberID: "member-1"})

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "Insufficient permissions")
	svc.AssertNotCalled(t, "Borrow", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestReturnEndpoint_InvalidState(t *testing.T) {
	svc := new(MockCirculationService)
	svc.On("Return", mock.Anything, "book-1", "member-2").
		Return(dto.InvalidStateResult("This book is not borrowed by this member"))

	r := newCirculationRouter(svc, true)
	w := postJSON(t, r, "/circulation/return", dto.ReturnRequest{BookID: "book-1", MemberID: "member-2"})

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "This book is not borrowed by this member")
}

func TestOpenLoansEndpoint(t *testing.T) {
	svc := new(MockCirculationService)
	svc.On("ListOpenLoans", mock.Anything).Return([]models.Loan{
		{ID: "loan-1", BookID: "book-1", MemberID: "member-1", DueDate: time.Now().Add(24 * time.Hour)},
	}, nil)

	r := newCirculationRouter(svc, true)
	req := httptest.NewRequest(http.MethodGet, "/circulation/loans", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp dto.LoanListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Total)
	svc.AssertNotCalled(t, "ListOverdueLoans", mock.Anything)
}

func TestOpenLoansEndpoint_OverdueFilter(t *testing.T) {
	svc := new(MockCirculationService)
	svc.On("ListOverdueLoans", mock.Anything).Return([]models.Loan{}, nil)

	r := newCirculationRouter(svc, true)
	req := httptest.NewRequest(http.MethodGet, "/circulation/loans?overdue=true", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertCalled(t, "ListOverdueLoans", mock.Anything)
	svc.AssertNotCalled(t, "ListOpenLoans", mock.Anything)
}
