package model

import (
	"time"

	"github.com/google/uuid"
)

// Book is the catalog entity, mapped 1:1 to the books table.
// Stock is the total number of owned copies; how many are actually
// on the shelf is derived, never stored (see AvailableStock).
type Book struct {
	ID            uuid.UUID `db:"id" json:"id"`
	Title         string    `db:"title" json:"title"`
	Author        string    `db:"author" json:"author"`
	PublishedYear int       `db:"published_year" json:"published_year"`
	ISBN          string    `db:"isbn" json:"isbn"`
	Stock         int       `db:"stock" json:"stock"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// AvailableStock derives how many copies can be borrowed right now.
// It is a pure function over the current counts so it can never go
// stale: callers must re-query borrowed on every read.
func AvailableStock(stock, borrowed int) int {
	available := stock - borrowed
	if available < 0 {
		return 0
	}
	return available
}
