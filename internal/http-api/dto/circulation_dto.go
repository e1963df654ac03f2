package dto

import (
	"time"

	"libraryhub/internal/http-api/models"
)

// Result codes carried alongside the human-readable message so handlers can
// map a failed operation to an HTTP status.
const (
	CodeOK              = "ok"
	CodeNotFound        = "not_found"
	CodeInvalidState    = "invalid_state"
	CodePolicyViolation = "policy_violation"
	CodeStoreFailure    = "store_failure"
)

// BorrowRequest: payload for borrowing a book
type BorrowRequest struct {
	BookID   string `json:"book_id" binding:"required"`
	MemberID string `json:"member_id" binding:"required"`
}

// ReturnRequest: payload for returning a book
type ReturnRequest struct {
	BookID   string `json:"book_id" binding:"required"`
	MemberID string `json:"member_id" binding:"required"`
}

// RenewRequest: payload for renewing a loan
type RenewRequest struct {
	BookID   string `json:"book_id" binding:"required"`
	MemberID string `json:"member_id" binding:"required"`
}

// CirculationResult is the outcome of a borrow, return or renew operation.
// Failures carry a short message for the UI instead of an error.
type CirculationResult struct {
	Success    bool       `json:"success"`
	Code       string     `json:"code,omitempty"`
	Message    string     `json:"message"`
	Fine       float64    `json:"fine,omitempty"`
	NewDueDate *time.Time `json:"new_due_date,omitempty"`
	LoanID     string     `json:"loan_id,omitempty"`
}

func NotFoundResult(message string) *CirculationResult {
	return &CirculationResult{Code: CodeNotFound, Message: message}
}

func InvalidStateResult(message string) *CirculationResult {
	return &CirculationResult{Code: CodeInvalidState, Message: message}
}

func PolicyViolationResult(message string) *CirculationResult {
	return &CirculationResult{Code: CodePolicyViolation, Message: message}
}

func StoreFailureResult(message string) *CirculationResult {
	return &CirculationResult{Code: CodeStoreFailure, Message: message}
}

// LoanResponse DTO for loan listings
type LoanResponse struct {
	ID         string          `json:"id"`
	BookID     string          `json:"book_id"`
	MemberID   string          `json:"member_id"`
	BorrowDate time.Time       `json:"borrow_date"`
	DueDate    time.Time       `json:"due_date"`
	ReturnDate *time.Time      `json:"return_date,omitempty"`
	Renewed    bool            `json:"renewed"`
	Fine       float64         `json:"fine,omitempty"`
	Book       *BookResponse   `json:"book,omitempty"`
	Member     *MemberResponse `json:"member,omitempty"`
}

// LoanListResponse wraps a list of loans
type LoanListResponse struct {
	Items []LoanResponse `json:"items"`
	Total int            `json:"total"`
}

func FromLoanToResponse(l models.Loan) LoanResponse {
	resp := LoanResponse{
		ID:         l.ID,
		BookID:     l.BookID,
		MemberID:   l.MemberID,
		BorrowDate: l.BorrowDate,
		DueDate:    l.DueDate,
		ReturnDate: l.ReturnDate,
		Renewed:    l.Renewed,
		Fine:       l.Fine,
	}
	if l.Book != nil {
		book := FromBookToResponse(*l.Book)
		resp.Book = &book
	}
	if l.Member != nil {
		member := FromMemberToResponse(*l.Member)
		resp.Member = &member
	}
	return resp
}
