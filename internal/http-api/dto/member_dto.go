package dto

import (
	"time"

	"libraryhub/internal/http-api/models"
)

// CreateMemberDTO used for POST /api/members
type CreateMemberDTO struct {
	Name      string `json:"name" binding:"required"`
	Phone     string `json:"phone,omitempty"`
	Apartment string `json:"apartment,omitempty"`
}

// UpdateMemberDTO used for PUT /api/members/:member_id (partial updates allowed)
type UpdateMemberDTO struct {
	Name      *string `json:"name,omitempty"`
	Phone     *string `json:"phone,omitempty"`
	Apartment *string `json:"apartment,omitempty"`
}

// MemberResponse DTO for responses
type MemberResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone,omitempty"`
	Apartment string    `json:"apartment,omitempty"`
	Fines     float64   `json:"fines"`
	JoinedAt  time.Time `json:"joined_at"`
}

// MemberDetailResponse adds the borrowed books derived from open loans
type MemberDetailResponse struct {
	MemberResponse
	BorrowedBooks []LoanResponse `json:"borrowed_books"`
}

// MemberListResponse wraps a paginated member listing
type MemberListResponse struct {
	Items    []MemberResponse `json:"items"`
	Total    int64            `json:"total"`
	Page     int              `json:"page"`
	PageSize int              `json:"page_size"`
}

// Converters
func (d CreateMemberDTO) ToModel() models.Member {
	return models.Member{
		Name:      d.Name,
		Phone:     d.Phone,
		Apartment: d.Apartment,
	}
}

func (d UpdateMemberDTO) ApplyTo(m *models.Member) {
	if d.Name != nil {
		m.Name = *d.Name
	}
	if d.Phone != nil {
		m.Phone = *d.Phone
	}
	if d.Apartment != nil {
		m.Apartment = *d.Apartment
	}
}

func FromMemberToResponse(m models.Member) MemberResponse {
	return MemberResponse{
		ID:        m.ID,
		Name:      m.Name,
		Phone:     m.Phone,
		Apartment: m.Apartment,
		Fines:     m.Fines,
		JoinedAt:  m.JoinedAt,
	}
}
