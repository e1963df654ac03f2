package dto

import (
	"time"

	"libraryhub/internal/http-api/models"
)

// CreateFineDTO used for POST /api/fines (manual fine by an administrator)
type CreateFineDTO struct {
	MemberID    string  `json:"member_id" binding:"required"`
	BookID      *string `json:"book_id,omitempty"`
	DaysOverdue int     `json:"days_overdue,omitempty"`
	FineAmount  float64 `json:"fine_amount" binding:"required,gt=0"`
}

// WaiveFineDTO used for POST /api/fines/:fine_id/waive
type WaiveFineDTO struct {
	Reason string `json:"reason" binding:"required"`
}

// FineResponse DTO for responses
type FineResponse struct {
	ID           string          `json:"id"`
	MemberID     string          `json:"member_id"`
	BookID       *string         `json:"book_id,omitempty"`
	DaysOverdue  int             `json:"days_overdue"`
	FineAmount   float64         `json:"fine_amount"`
	IsPaid       bool            `json:"is_paid"`
	Waived       bool            `json:"waived"`
	WaivedReason *string         `json:"waived_reason,omitempty"`
	RecordedOn   time.Time       `json:"recorded_on"`
	Member       *MemberResponse `json:"member,omitempty"`
	Book         *BookResponse   `json:"book,omitempty"`
}

// FineListResponse wraps a list of fines
type FineListResponse struct {
	Items []FineResponse `json:"items"`
	Total int            `json:"total"`
}

func FromFineToResponse(f models.Fine) FineResponse {
	resp := FineResponse{
		ID:           f.ID,
		MemberID:     f.MemberID,
		BookID:       f.BookID,
		DaysOverdue:  f.DaysOverdue,
		FineAmount:   f.FineAmount,
		IsPaid:       f.IsPaid,
		Waived:       f.Waived,
		WaivedReason: f.WaivedReason,
		RecordedOn:   f.RecordedOn,
	}
	if f.Member != nil {
		member := FromMemberToResponse(*f.Member)
		resp.Member = &member
	}
	if f.Book != nil {
		book := FromBookToResponse(*f.Book)
		resp.Book = &book
	}
	return resp
}
