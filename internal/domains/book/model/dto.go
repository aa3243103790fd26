package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

// ========================================
// CATALOG DTOs
// ========================================

// CreateBookRequest - admin adds a title to the catalog
type CreateBookRequest struct {
	Title         string `json:"title" binding:"required"`
	Author        string `json:"author" binding:"required"`
	PublishedYear int    `json:"published_year" binding:"required"`
	ISBN          string `json:"isbn" binding:"required"`
	Stock         int    `json:"stock"`
}

func (r CreateBookRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, 255)),
		validation.Field(&r.Author, validation.Required, validation.Length(1, 255)),
		validation.Field(&r.PublishedYear,
			validation.Required,
			validation.Min(1000).Error("published_year must be a 4-digit year"),
			validation.Max(time.Now().Year()).Error("published_year cannot be in the future"),
		),
		validation.Field(&r.ISBN, validation.Required, validation.Length(1, 20)),
		validation.Field(&r.Stock, validation.Min(0).Error("stock cannot be negative")),
	)
}

// UpdateBookRequest - admin partial update; nil fields are left untouched
type UpdateBookRequest struct {
	Title         *string `json:"title,omitempty"`
	Author        *string `json:"author,omitempty"`
	PublishedYear *int    `json:"published_year,omitempty"`
	ISBN          *string `json:"isbn,omitempty"`
	Stock         *int    `json:"stock,omitempty"`
}

func (r UpdateBookRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.NilOrNotEmpty, validation.Length(1, 255)),
		validation.Field(&r.Author, validation.NilOrNotEmpty, validation.Length(1, 255)),
		validation.Field(&r.PublishedYear,
			validation.When(r.PublishedYear != nil,
				validation.Min(1000).Error("published_year must be a 4-digit year"),
				validation.Max(time.Now().Year()).Error("published_year cannot be in the future"),
			),
		),
		validation.Field(&r.ISBN, validation.NilOrNotEmpty, validation.Length(1, 20)),
		validation.Field(&r.Stock,
			validation.When(r.Stock != nil, validation.Min(0).Error("stock cannot be negative")),
		),
	)
}

// ListBooksRequest - search/filter/paginate over the catalog.
// Results are always ordered title ascending so pagination stays stable.
type ListBooksRequest struct {
	Search string // substring match against title, author or isbn
	Author string // substring match against author only
	Year   int    // exact published_year match, 0 = no filter
	Page   int
	Limit  int
}

// Normalize clamps pagination to [1, 100] with the original's default of 15
func (r *ListBooksRequest) Normalize() {
	if r.Page < 1 {
		r.Page = 1
	}
	if r.Limit < 1 {
		r.Limit = 15
	}
	if r.Limit > 100 {
		r.Limit = 100
	}
}

// BookDTO is the API shape of a book; AvailableStock is recomputed on
// every read, it never comes from a stored column.
type BookDTO struct {
	ID             uuid.UUID `json:"id"`
	Title          string    `json:"title"`
	Author         string    `json:"author"`
	PublishedYear  int       `json:"published_year"`
	ISBN           string    `json:"isbn"`
	Stock          int       `json:"stock"`
	AvailableStock int       `json:"available_stock"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// ToDTO builds the response shape from the entity plus the current
// borrowed count.
func (b *Book) ToDTO(borrowed int) BookDTO {
	return BookDTO{
		ID:             b.ID,
		Title:          b.Title,
		Author:         b.Author,
		PublishedYear:  b.PublishedYear,
		ISBN:           b.ISBN,
		Stock:          b.Stock,
		AvailableStock: AvailableStock(b.Stock, borrowed),
		CreatedAt:      b.CreatedAt,
		UpdatedAt:      b.UpdatedAt,
	}
}
