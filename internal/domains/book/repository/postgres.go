package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"library-api/internal/domains/book/model"
)

// postgresRepository - raw SQL with pgxpool
type postgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository - Constructor
func NewPostgresRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{pool: pool}
}

const bookColumns = `id, title, author, published_year, isbn, stock, created_at, updated_at`

func scanBook(row pgx.Row) (*model.Book, error) {
	var b model.Book
	err := row.Scan(
		&b.ID, &b.Title, &b.Author, &b.PublishedYear, &b.ISBN, &b.Stock,
		&b.CreatedAt, &b.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrBookNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan book: %w", err)
	}
	return &b, nil
}

func (r *postgresRepository) Create(ctx context.Context, b *model.Book) error {
	query := `
		INSERT INTO books (id, title, author, published_year, isbn, stock, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.pool.Exec(ctx, query,
		b.ID, b.Title, b.Author, b.PublishedYear, b.ISBN, b.Stock,
		b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation on isbn
			return model.ErrISBNAlreadyExists
		}
		return fmt.Errorf("failed to insert book: %w", err)
	}
	return nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Book, error) {
	query := fmt.Sprintf(`SELECT %s FROM books WHERE id = $1`, bookColumns)
	return scanBook(r.pool.QueryRow(ctx, query, id))
}

func (r *postgresRepository) Update(ctx context.Context, b *model.Book) error {
	query := `
		UPDATE books
		SET title = $2, author = $3, published_year = $4, isbn = $5, stock = $6, updated_at = NOW()
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query,
		b.ID, b.Title, b.Author, b.PublishedYear, b.ISBN, b.Stock,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return model.ErrISBNAlreadyExists
		}
		return fmt.Errorf("failed to update book: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrBookNotFound
	}
	return nil
}

func (r *postgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete book: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrBookNotFound
	}
	return nil
}

func (r *postgresRepository) List(ctx context.Context, req model.ListBooksRequest) ([]model.Book, int, error) {
	conditions := []string{}
	args := []interface{}{}

	// search matches title, author and isbn; author narrows further
	if s := strings.TrimSpace(req.Search); s != "" {
		args = append(args, "%"+s+"%")
		conditions = append(conditions,
			fmt.Sprintf(`(title ILIKE $%d OR author ILIKE $%d OR isbn ILIKE $%d)`,
				len(args), len(args), len(args)))
	}
	if a := strings.TrimSpace(req.Author); a != "" {
		args = append(args, "%"+a+"%")
		conditions = append(conditions, fmt.Sprintf(`author ILIKE $%d`, len(args)))
	}
	if req.Year != 0 {
		args = append(args, req.Year)
		conditions = append(conditions, fmt.Sprintf(`published_year = $%d`, len(args)))
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM books %s`, where)
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count books: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s FROM books %s
		ORDER BY title ASC
		LIMIT $%d OFFSET $%d
	`, bookColumns, where, len(args)+1, len(args)+2)
	args = append(args, req.Limit, (req.Page-1)*req.Limit)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list books: %w", err)
	}
	defer rows.Close()

	books := make([]model.Book, 0, req.Limit)
	for rows.Next() {
		var b model.Book
		if err := rows.Scan(
			&b.ID, &b.Title, &b.Author, &b.PublishedYear, &b.ISBN, &b.Stock,
			&b.CreatedAt, &b.UpdatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("scan book row: %w", err)
		}
		books = append(books, b)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("rows error: %w", err)
	}

	return books, total, nil
}

func (r *postgresRepository) CountBorrowed(ctx context.Context, bookID uuid.UUID) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM book_loans WHERE book_id = $1 AND status = 'borrowed'`,
		bookID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count borrowed loans: %w", err)
	}
	return count, nil
}

func (r *postgresRepository) CountBorrowedForBooks(ctx context.Context, bookIDs []uuid.UUID) (map[uuid.UUID]int, error) {
	counts := make(map[uuid.UUID]int, len(bookIDs))
	if len(bookIDs) == 0 {
		return counts, nil
	}

	rows, err := r.pool.Query(ctx, `
		SELECT book_id, COUNT(*)
		FROM book_loans
		WHERE book_id = ANY($1) AND status = 'borrowed'
		GROUP BY book_id
	`, bookIDs)
	if err != nil {
		return nil, fmt.Errorf("count borrowed for books: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id uuid.UUID
		var count int
		if err := rows.Scan(&id, &count); err != nil {
			return nil, fmt.Errorf("scan borrowed count: %w", err)
		}
		counts[id] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return counts, nil
}
