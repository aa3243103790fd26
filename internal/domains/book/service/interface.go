package service

import (
	"context"

	"github.com/google/uuid"

	"library-api/internal/domains/book/model"
)

// Service is the catalog business logic contract.
type Service interface {
	// CreateBook adds a title (admin only at the route level)
	CreateBook(ctx context.Context, req model.CreateBookRequest) (*model.BookDTO, error)

	// GetBook returns one book with its derived available stock
	GetBook(ctx context.Context, id uuid.UUID) (*model.BookDTO, error)

	// UpdateBook applies the non-nil fields of the request
	UpdateBook(ctx context.Context, id uuid.UUID, req model.UpdateBookRequest) (*model.BookDTO, error)

	// DeleteBook removes a book unless it still has borrowed loans,
	// in which case it returns ErrBookHasActiveLoans
	DeleteBook(ctx context.Context, id uuid.UUID) error

	// ListBooks searches the catalog and returns the page plus total
	ListBooks(ctx context.Context, req model.ListBooksRequest) ([]model.BookDTO, int, error)
}
