package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"library-api/internal/domains/book/model"
	"library-api/internal/domains/book/repository"
)

type bookService struct {
	repo repository.Repository
}

// NewBookService - Constructor
func NewBookService(repo repository.Repository) Service {
	return &bookService{repo: repo}
}

func (s *bookService) CreateBook(ctx context.Context, req model.CreateBookRequest) (*model.BookDTO, error) {
	now := time.Now()
	b := &model.Book{
		ID:            uuid.New(),
		Title:         req.Title,
		Author:        req.Author,
		PublishedYear: req.PublishedYear,
		ISBN:          req.ISBN,
		Stock:         req.Stock,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}

	log.Info().
		Str("book_id", b.ID.String()).
		Str("isbn", b.ISBN).
		Msg("book created")

	// a brand new book has no loans yet
	dto := b.ToDTO(0)
	return &dto, nil
}

func (s *bookService) GetBook(ctx context.Context, id uuid.UUID) (*model.BookDTO, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	borrowed, err := s.repo.CountBorrowed(ctx, id)
	if err != nil {
		return nil, err
	}

	dto := b.ToDTO(borrowed)
	return &dto, nil
}

func (s *bookService) UpdateBook(ctx context.Context, id uuid.UUID, req model.UpdateBookRequest) (*model.BookDTO, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		b.Title = *req.Title
	}
	if req.Author != nil {
		b.Author = *req.Author
	}
	if req.PublishedYear != nil {
		b.PublishedYear = *req.PublishedYear
	}
	if req.ISBN != nil {
		b.ISBN = *req.ISBN
	}
	if req.Stock != nil {
		// lowering stock below the borrowed count is allowed; the
		// derived availability just floors at zero until copies return
		b.Stock = *req.Stock
	}

	if err := s.repo.Update(ctx, b); err != nil {
		return nil, err
	}

	borrowed, err := s.repo.CountBorrowed(ctx, id)
	if err != nil {
		return nil, err
	}

	dto := b.ToDTO(borrowed)
	return &dto, nil
}

func (s *bookService) DeleteBook(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}

	borrowed, err := s.repo.CountBorrowed(ctx, id)
	if err != nil {
		return err
	}
	if borrowed > 0 {
		return model.ErrBookHasActiveLoans
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	log.Info().Str("book_id", id.String()).Msg("book deleted")
	return nil
}

func (s *bookService) ListBooks(ctx context.Context, req model.ListBooksRequest) ([]model.BookDTO, int, error) {
	req.Normalize()

	books, total, err := s.repo.List(ctx, req)
	if err != nil {
		return nil, 0, err
	}

	ids := make([]uuid.UUID, len(books))
	for i := range books {
		ids[i] = books[i].ID
	}

	counts, err := s.repo.CountBorrowedForBooks(ctx, ids)
	if err != nil {
		return nil, 0, err
	}

	dtos := make([]model.BookDTO, len(books))
	for i := range books {
		dtos[i] = books[i].ToDTO(counts[books[i].ID])
	}

	return dtos, total, nil
}
