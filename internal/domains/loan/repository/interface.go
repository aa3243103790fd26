package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"library-api/internal/domains/loan/model"
)

// Repository is the loan data access contract.
//
// The Tx-suffixed methods run on a caller-owned transaction; the
// borrow flow needs the book-row lock, the pair lookup, the borrowed
// count and the insert to be one atomic unit.
type Repository interface {
	// GetBookStockForUpdate locks the book row (SELECT ... FOR UPDATE)
	// and returns its total stock. Returns book.ErrBookNotFound when
	// the book does not exist. The lock serializes concurrent borrows
	// of the same book for the rest of the transaction.
	GetBookStockForUpdate(ctx context.Context, tx pgx.Tx, bookID uuid.UUID) (int, error)

	// FindByUserAndBookTx returns the single loan row for the pair,
	// or ErrLoanNotFound.
	FindByUserAndBookTx(ctx context.Context, tx pgx.Tx, userID, bookID uuid.UUID) (*model.Loan, error)

	// DeleteTx removes a loan row (used to reclaim a returned row so
	// the pair can borrow again under the unique constraint)
	DeleteTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) error

	// CountBorrowedByBookTx counts status='borrowed' rows for the book
	// inside the transaction
	CountBorrowedByBookTx(ctx context.Context, tx pgx.Tx, bookID uuid.UUID) (int, error)

	// InsertTx inserts a new loan. A unique violation on
	// (user_id, book_id) is returned as ErrAlreadyBorrowed; the
	// constraint is the final arbiter under concurrency.
	InsertTx(ctx context.Context, tx pgx.Tx, loan *model.Loan) error

	// MarkReturned flips the caller's own borrowed loan to returned.
	// Returns ErrLoanNotFound when the loan does not exist or belongs
	// to someone else, ErrAlreadyReturned when it was already closed.
	MarkReturned(ctx context.Context, id, userID uuid.UUID) (*model.Loan, error)

	// GetDetail loads one loan joined with book and borrower
	GetDetail(ctx context.Context, id uuid.UUID) (*model.LoanDetail, error)

	// ListByUser pages the borrower's own loans, newest first
	ListByUser(ctx context.Context, req model.ListMyLoansRequest) ([]model.LoanDetail, int, error)

	// List pages all loans with the admin filters, newest first
	List(ctx context.Context, req model.ListLoansRequest) ([]model.LoanDetail, int, error)

	// ListOverdue returns every loan still out past asOf, for the
	// periodic reminder scan
	ListOverdue(ctx context.Context, asOf time.Time) ([]model.LoanDetail, error)
}
