package service

import (
	"context"

	"github.com/google/uuid"

	"library-api/internal/domains/loan/model"
)

// Service is the loan lifecycle contract.
type Service interface {
	// Borrow checks a copy out for the user. One copy per (user, book)
	// pair; fails with ErrAlreadyBorrowed or ErrBookNotAvailable.
	Borrow(ctx context.Context, userID uuid.UUID, req model.BorrowRequest) (*model.LoanDTO, error)

	// Return closes the user's own loan. A repeat return yields
	// ErrAlreadyReturned, someone else's loan ErrLoanNotFound.
	Return(ctx context.Context, userID, loanID uuid.UUID) (*model.LoanDTO, error)

	// MyLoans pages the caller's loans, defaulting to the ones still out
	MyLoans(ctx context.Context, req model.ListMyLoansRequest) ([]model.LoanDTO, int, error)

	// ListLoans is the admin view with status/user/book/overdue filters
	ListLoans(ctx context.Context, req model.ListLoansRequest) ([]model.LoanDTO, int, error)
}
