package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"library-api/internal/domains/book/model"
)

type repoMock struct {
	createFn            func(ctx context.Context, b *model.Book) error
	getByIDFn           func(ctx context.Context, id uuid.UUID) (*model.Book, error)
	updateFn            func(ctx context.Context, b *model.Book) error
	deleteFn            func(ctx context.Context, id uuid.UUID) error
	listFn              func(ctx context.Context, req model.ListBooksRequest) ([]model.Book, int, error)
	countBorrowedFn     func(ctx context.Context, bookID uuid.UUID) (int, error)
	countBorrowedBulkFn func(ctx context.Context, bookIDs []uuid.UUID) (map[uuid.UUID]int, error)

	deleted []uuid.UUID
}

func (m *repoMock) Create(ctx context.Context, b *model.Book) error { return m.createFn(ctx, b) }
func (m *repoMock) GetByID(ctx context.Context, id uuid.UUID) (*model.Book, error) {
	return m.getByIDFn(ctx, id)
}
func (m *repoMock) Update(ctx context.Context, b *model.Book) error { return m.updateFn(ctx, b) }
func (m *repoMock) Delete(ctx context.Context, id uuid.UUID) error {
	m.deleted = append(m.deleted, id)
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}
func (m *repoMock) List(ctx context.Context, req model.ListBooksRequest) ([]model.Book, int, error) {
	return m.listFn(ctx, req)
}
func (m *repoMock) CountBorrowed(ctx context.Context, bookID uuid.UUID) (int, error) {
	return m.countBorrowedFn(ctx, bookID)
}
func (m *repoMock) CountBorrowedForBooks(ctx context.Context, bookIDs []uuid.UUID) (map[uuid.UUID]int, error) {
	return m.countBorrowedBulkFn(ctx, bookIDs)
}

func sampleBook(id uuid.UUID, stock int) *model.Book {
	return &model.Book{
		ID:            id,
		Title:         "The Go Programming Language",
		Author:        "Donovan & Kernighan",
		PublishedYear: 2015,
		ISBN:          "9780134190440",
		Stock:         stock,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
}

func TestGetBook_DerivesAvailableStock(t *testing.T) {
	id := uuid.New()
	m := &repoMock{
		getByIDFn: func(ctx context.Context, bookID uuid.UUID) (*model.Book, error) {
			return sampleBook(bookID, 5), nil
		},
		countBorrowedFn: func(ctx context.Context, bookID uuid.UUID) (int, error) {
			return 3, nil
		},
	}
	s := NewBookService(m)

	dto, err := s.GetBook(context.Background(), id)
	require.NoError(t, err)
	require.Equal(t, 5, dto.Stock)
	require.Equal(t, 2, dto.AvailableStock)
}

func TestDeleteBook_BlockedByActiveLoans(t *testing.T) {
	id := uuid.New()
	m := &repoMock{
		getByIDFn: func(ctx context.Context, bookID uuid.UUID) (*model.Book, error) {
			return sampleBook(bookID, 5), nil
		},
		countBorrowedFn: func(ctx context.Context, bookID uuid.UUID) (int, error) {
			return 1, nil
		},
	}
	s := NewBookService(m)

	err := s.DeleteBook(context.Background(), id)
	require.ErrorIs(t, err, model.ErrBookHasActiveLoans)
	require.Empty(t, m.deleted, "delete must not run while copies are out")
}

func TestDeleteBook_AllowedWhenOnlyHistoryRemains(t *testing.T) {
	id := uuid.New()
	m := &repoMock{
		getByIDFn: func(ctx context.Context, bookID uuid.UUID) (*model.Book, error) {
			return sampleBook(bookID, 5), nil
		},
		countBorrowedFn: func(ctx context.Context, bookID uuid.UUID) (int, error) {
			return 0, nil // returned loans do not block deletion
		},
	}
	s := NewBookService(m)

	require.NoError(t, s.DeleteBook(context.Background(), id))
	require.Equal(t, []uuid.UUID{id}, m.deleted)
}

func TestDeleteBook_NotFound(t *testing.T) {
	m := &repoMock{
		getByIDFn: func(ctx context.Context, bookID uuid.UUID) (*model.Book, error) {
			return nil, model.ErrBookNotFound
		},
	}
	s := NewBookService(m)

	err := s.DeleteBook(context.Background(), uuid.New())
	require.ErrorIs(t, err, model.ErrBookNotFound)
}

func TestUpdateBook_AppliesOnlyProvidedFields(t *testing.T) {
	id := uuid.New()
	var updated *model.Book

	m := &repoMock{
		getByIDFn: func(ctx context.Context, bookID uuid.UUID) (*model.Book, error) {
			return sampleBook(bookID, 5), nil
		},
		updateFn: func(ctx context.Context, b *model.Book) error {
			updated = b
			return nil
		},
		countBorrowedFn: func(ctx context.Context, bookID uuid.UUID) (int, error) {
			return 0, nil
		},
	}
	s := NewBookService(m)

	newStock := 2
	_, err := s.UpdateBook(context.Background(), id, model.UpdateBookRequest{Stock: &newStock})
	require.NoError(t, err)
	require.Equal(t, 2, updated.Stock)
	require.Equal(t, "The Go Programming Language", updated.Title, "untouched fields survive")
}

func TestListBooks_AttachesBorrowedCounts(t *testing.T) {
	idA, idB := uuid.New(), uuid.New()

	m := &repoMock{
		listFn: func(ctx context.Context, req model.ListBooksRequest) ([]model.Book, int, error) {
			return []model.Book{*sampleBook(idA, 3), *sampleBook(idB, 1)}, 2, nil
		},
		countBorrowedBulkFn: func(ctx context.Context, bookIDs []uuid.UUID) (map[uuid.UUID]int, error) {
			require.ElementsMatch(t, []uuid.UUID{idA, idB}, bookIDs)
			return map[uuid.UUID]int{idA: 3}, nil
		},
	}
	s := NewBookService(m)

	dtos, total, err := s.ListBooks(context.Background(), model.ListBooksRequest{})
	require.NoError(t, err)
	require.Equal(t, 2, total)
	require.Equal(t, 0, dtos[0].AvailableStock, "fully borrowed")
	require.Equal(t, 1, dtos[1].AvailableStock, "absent from count map means zero borrowed")
}

func TestListBooks_NormalizesPaging(t *testing.T) {
	var seen model.ListBooksRequest
	m := &repoMock{
		listFn: func(ctx context.Context, req model.ListBooksRequest) ([]model.Book, int, error) {
			seen = req
			return nil, 0, nil
		},
		countBorrowedBulkFn: func(ctx context.Context, bookIDs []uuid.UUID) (map[uuid.UUID]int, error) {
			return map[uuid.UUID]int{}, nil
		},
	}
	s := NewBookService(m)

	_, _, err := s.ListBooks(context.Background(), model.ListBooksRequest{Page: -1, Limit: 9999})
	require.NoError(t, err)
	require.Equal(t, 1, seen.Page)
	require.Equal(t, 100, seen.Limit)
}
