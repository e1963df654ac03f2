package dto

// OverdueReportResponse lists open loans past their due date
type OverdueReportResponse struct {
	Items []LoanResponse `json:"items"`
	Total int            `json:"total"`
}

// PopularBookEntry pairs a book with its cumulative borrow count
type PopularBookEntry struct {
	Book        BookResponse `json:"book"`
	BorrowCount int          `json:"borrow_count"`
}

// PopularBooksResponse lists the most-borrowed books
type PopularBooksResponse struct {
	Items []PopularBookEntry `json:"items"`
}

// SummaryResponse is the circulation dashboard summary
type SummaryResponse struct {
	TotalBooks       int64   `json:"total_books"`
	TotalMembers     int64   `json:"total_members"`
	OpenLoans        int64   `json:"open_loans"`
	OverdueLoans     int64   `json:"overdue_loans"`
	OutstandingFines float64 `json:"outstanding_fines"`
}
