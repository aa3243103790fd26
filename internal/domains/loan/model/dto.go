package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

// ========================================
// LOAN DTOs
// ========================================

// BorrowRequest - user checks a book out.
// LoanDays outside [1, max] is clamped by the service, not rejected.
type BorrowRequest struct {
	BookID   uuid.UUID `json:"book_id" binding:"required"`
	LoanDays int       `json:"loan_days"`
}

func (r BorrowRequest) Validate() error {
	return validation.ValidateStruct(&r,
		// uuid.UUID is a [16]byte, ozzo's Required never sees it as
		// empty, so check the nil UUID explicitly
		validation.Field(&r.BookID, validation.By(func(interface{}) error {
			if r.BookID == uuid.Nil {
				return validation.NewError("validation_required", "book_id is required")
			}
			return nil
		})),
		validation.Field(&r.LoanDays, validation.Min(0).Error("loan_days cannot be negative")),
	)
}

// ListMyLoansRequest - the borrower's own loans.
// Status defaults to "borrowed": the common case is "what do I still
// have out".
type ListMyLoansRequest struct {
	UserID uuid.UUID
	Status string // borrowed | returned | all
	Page   int
	Limit  int
}

func (r *ListMyLoansRequest) Normalize() {
	if r.Status == "" {
		r.Status = string(StatusBorrowed)
	}
	normalizePage(&r.Page, &r.Limit)
}

func (r ListMyLoansRequest) Validate() error {
	return validateStatusFilter(r.Status)
}

// ListLoansRequest - admin view over every loan
type ListLoansRequest struct {
	Status  string    // borrowed | returned | all, default all
	UserID  uuid.UUID // optional borrower filter
	BookID  uuid.UUID // optional book filter
	Overdue bool      // only loans past due and still out
	Page    int
	Limit   int
}

func (r *ListLoansRequest) Normalize() {
	if r.Status == "" {
		r.Status = "all"
	}
	// "overdue" is shorthand for loans still out past their due date
	if r.Status == "overdue" {
		r.Status = string(StatusBorrowed)
		r.Overdue = true
	}
	normalizePage(&r.Page, &r.Limit)
}

func (r ListLoansRequest) Validate() error {
	return validateStatusFilter(r.Status)
}

func normalizePage(page, limit *int) {
	if *page < 1 {
		*page = 1
	}
	if *limit < 1 {
		*limit = 15
	}
	if *limit > 100 {
		*limit = 100
	}
}

func validateStatusFilter(status string) error {
	switch status {
	case string(StatusBorrowed), string(StatusReturned), "all":
		return nil
	}
	return ErrInvalidStatus
}

// BookSummary is the slice of the book embedded in loan responses
type BookSummary struct {
	ID     uuid.UUID `json:"id"`
	Title  string    `json:"title"`
	Author string    `json:"author"`
	ISBN   string    `json:"isbn"`
}

// UserSummary is the borrower slice embedded in admin loan responses
type UserSummary struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

// LoanDTO is the API shape of a loan. IsOverdue and DaysUntilDue are
// computed at serialization time so they are always current.
type LoanDTO struct {
	ID           uuid.UUID   `json:"id"`
	Book         BookSummary `json:"book"`
	User         UserSummary `json:"user"`
	BorrowedDate time.Time   `json:"borrowed_date"`
	DueDate      time.Time   `json:"due_date"`
	ReturnedDate *time.Time  `json:"returned_date"`
	Status       Status      `json:"status"`
	IsOverdue    bool        `json:"is_overdue"`
	DaysUntilDue int         `json:"days_until_due"`
}

// ToDTO evaluates the overdue fields against now.
func (d *LoanDetail) ToDTO(now time.Time) LoanDTO {
	return LoanDTO{
		ID: d.ID,
		Book: BookSummary{
			ID:     d.BookID,
			Title:  d.BookTitle,
			Author: d.BookAuthor,
			ISBN:   d.BookISBN,
		},
		User: UserSummary{
			ID:    d.UserID,
			Name:  d.UserName,
			Email: d.UserEmail,
		},
		BorrowedDate: d.BorrowedDate,
		DueDate:      d.DueDate,
		ReturnedDate: d.ReturnedDate,
		Status:       d.Status,
		IsOverdue:    d.IsOverdue(now),
		DaysUntilDue: d.DaysUntilDue(now),
	}
}
