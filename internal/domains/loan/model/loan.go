package model

import (
	"time"

	"github.com/google/uuid"
)

// Status of a loan row. A (user, book) pair has at most one row, so
// "returned" rows double as history until the pair borrows again.
type Status string

const (
	StatusBorrowed Status = "borrowed"
	StatusReturned Status = "returned"
)

func (s Status) IsValid() bool {
	return s == StatusBorrowed || s == StatusReturned
}

// Loan maps 1:1 to the book_loans table.
type Loan struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	UserID       uuid.UUID  `db:"user_id" json:"user_id"`
	BookID       uuid.UUID  `db:"book_id" json:"book_id"`
	BorrowedDate time.Time  `db:"borrowed_date" json:"borrowed_date"`
	DueDate      time.Time  `db:"due_date" json:"due_date"`
	ReturnedDate *time.Time `db:"returned_date" json:"returned_date"`
	Status       Status     `db:"status" json:"status"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// IsOverdue reports whether the loan is still out past its due date.
// Returned loans are never overdue, no matter how late they came back.
func (l *Loan) IsOverdue(now time.Time) bool {
	return l.Status == StatusBorrowed && now.After(l.DueDate)
}

// DaysUntilDue is the signed number of whole days until the due date,
// truncated toward zero. Negative means overdue. Always 0 once the
// loan has been returned.
func (l *Loan) DaysUntilDue(now time.Time) int {
	if l.Status == StatusReturned {
		return 0
	}
	return int(l.DueDate.Sub(now).Hours() / 24)
}

// LoanDetail is a loan joined with the book and borrower columns the
// API responses need.
type LoanDetail struct {
	Loan

	BookTitle  string `db:"book_title"`
	BookAuthor string `db:"book_author"`
	BookISBN   string `db:"book_isbn"`
	UserName   string `db:"user_name"`
	UserEmail  string `db:"user_email"`
}
