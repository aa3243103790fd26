package repository

import (
	"context"

	"github.com/google/uuid"

	"library-api/internal/domains/book/model"
)

// Repository is the catalog data access contract.
type Repository interface {
	// Create inserts a book. Returns ErrISBNAlreadyExists on duplicate ISBN.
	Create(ctx context.Context, book *model.Book) error

	// GetByID returns ErrBookNotFound when absent
	GetByID(ctx context.Context, id uuid.UUID) (*model.Book, error)

	// Update persists the full entity.
	// Returns ErrBookNotFound or ErrISBNAlreadyExists.
	Update(ctx context.Context, book *model.Book) error

	// Delete removes the book row. Returns ErrBookNotFound.
	// The active-loan guard lives in the service, not here.
	Delete(ctx context.Context, id uuid.UUID) error

	// List applies the catalog filters and returns the page plus the
	// total match count. Ordering is always title ascending.
	List(ctx context.Context, req model.ListBooksRequest) ([]model.Book, int, error)

	// CountBorrowed counts loans in status 'borrowed' for one book
	CountBorrowed(ctx context.Context, bookID uuid.UUID) (int, error)

	// CountBorrowedForBooks batches borrowed counts for a result page.
	// Books with no active loans are absent from the map.
	CountBorrowedForBooks(ctx context.Context, bookIDs []uuid.UUID) (map[uuid.UUID]int, error)
}
