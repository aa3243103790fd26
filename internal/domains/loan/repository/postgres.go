package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	bookmodel "library-api/internal/domains/book/model"
	"library-api/internal/domains/loan/model"
)

// postgresRepository - raw SQL with pgxpool
type postgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository - Constructor
func NewPostgresRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{pool: pool}
}

const loanColumns = `l.id, l.user_id, l.book_id, l.borrowed_date, l.due_date, l.returned_date, l.status, l.created_at, l.updated_at`

const loanDetailColumns = loanColumns + `,
	b.title AS book_title, b.author AS book_author, b.isbn AS book_isbn,
	u.name AS user_name, u.email AS user_email`

const loanDetailJoins = `
	FROM book_loans l
	JOIN books b ON b.id = l.book_id
	JOIN users u ON u.id = l.user_id`

func scanLoan(row pgx.Row) (*model.Loan, error) {
	var l model.Loan
	err := row.Scan(
		&l.ID, &l.UserID, &l.BookID, &l.BorrowedDate, &l.DueDate,
		&l.ReturnedDate, &l.Status, &l.CreatedAt, &l.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrLoanNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan loan: %w", err)
	}
	return &l, nil
}

func scanLoanDetail(row pgx.Row) (*model.LoanDetail, error) {
	var d model.LoanDetail
	err := row.Scan(
		&d.ID, &d.UserID, &d.BookID, &d.BorrowedDate, &d.DueDate,
		&d.ReturnedDate, &d.Status, &d.CreatedAt, &d.UpdatedAt,
		&d.BookTitle, &d.BookAuthor, &d.BookISBN,
		&d.UserName, &d.UserEmail,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrLoanNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan loan detail: %w", err)
	}
	return &d, nil
}

// ========================================
// BORROW TRANSACTION
// ========================================

func (r *postgresRepository) GetBookStockForUpdate(ctx context.Context, tx pgx.Tx, bookID uuid.UUID) (int, error) {
	var stock int
	err := tx.QueryRow(ctx,
		`SELECT stock FROM books WHERE id = $1 FOR UPDATE`, bookID,
	).Scan(&stock)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, bookmodel.ErrBookNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("lock book row: %w", err)
	}
	return stock, nil
}

func (r *postgresRepository) FindByUserAndBookTx(ctx context.Context, tx pgx.Tx, userID, bookID uuid.UUID) (*model.Loan, error) {
	query := fmt.Sprintf(`SELECT %s FROM book_loans l WHERE l.user_id = $1 AND l.book_id = $2`, loanColumns)
	return scanLoan(tx.QueryRow(ctx, query, userID, bookID))
}

func (r *postgresRepository) DeleteTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) error {
	tag, err := tx.Exec(ctx, `DELETE FROM book_loans WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete loan: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrLoanNotFound
	}
	return nil
}

func (r *postgresRepository) CountBorrowedByBookTx(ctx context.Context, tx pgx.Tx, bookID uuid.UUID) (int, error) {
	var count int
	err := tx.QueryRow(ctx,
		`SELECT COUNT(*) FROM book_loans WHERE book_id = $1 AND status = $2`,
		bookID, model.StatusBorrowed,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count borrowed loans: %w", err)
	}
	return count, nil
}

func (r *postgresRepository) InsertTx(ctx context.Context, tx pgx.Tx, l *model.Loan) error {
	query := `
		INSERT INTO book_loans (id, user_id, book_id, borrowed_date, due_date, returned_date, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := tx.Exec(ctx, query,
		l.ID, l.UserID, l.BookID, l.BorrowedDate, l.DueDate,
		l.ReturnedDate, l.Status, l.CreatedAt, l.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique (user_id, book_id)
			return model.ErrAlreadyBorrowed
		}
		return fmt.Errorf("failed to insert loan: %w", err)
	}
	return nil
}

// ========================================
// RETURN
// ========================================

func (r *postgresRepository) MarkReturned(ctx context.Context, id, userID uuid.UUID) (*model.Loan, error) {
	// Conditional update: a second return of the same loan matches
	// zero rows instead of overwriting returned_date.
	query := fmt.Sprintf(`
		UPDATE book_loans l
		SET status = $3, returned_date = NOW(), updated_at = NOW()
		WHERE l.id = $1 AND l.user_id = $2 AND l.status = $4
		RETURNING %s
	`, loanColumns)

	l, err := scanLoan(r.pool.QueryRow(ctx, query, id, userID, model.StatusReturned, model.StatusBorrowed))
	if err == nil {
		return l, nil
	}
	if !errors.Is(err, model.ErrLoanNotFound) {
		return nil, err
	}

	// Zero rows: distinguish "already returned" from "not yours / not there"
	var status model.Status
	lookupErr := r.pool.QueryRow(ctx,
		`SELECT status FROM book_loans WHERE id = $1 AND user_id = $2`, id, userID,
	).Scan(&status)
	if errors.Is(lookupErr, pgx.ErrNoRows) {
		return nil, model.ErrLoanNotFound
	}
	if lookupErr != nil {
		return nil, fmt.Errorf("classify return conflict: %w", lookupErr)
	}
	if status == model.StatusReturned {
		return nil, model.ErrAlreadyReturned
	}
	return nil, model.ErrLoanNotFound
}

// ========================================
// READS
// ========================================

func (r *postgresRepository) GetDetail(ctx context.Context, id uuid.UUID) (*model.LoanDetail, error) {
	query := fmt.Sprintf(`SELECT %s %s WHERE l.id = $1`, loanDetailColumns, loanDetailJoins)
	return scanLoanDetail(r.pool.QueryRow(ctx, query, id))
}

func (r *postgresRepository) ListByUser(ctx context.Context, req model.ListMyLoansRequest) ([]model.LoanDetail, int, error) {
	where := `WHERE l.user_id = $1`
	args := []interface{}{req.UserID}
	if req.Status != "all" {
		args = append(args, req.Status)
		where += fmt.Sprintf(` AND l.status = $%d`, len(args))
	}
	return r.listDetails(ctx, where, args, req.Page, req.Limit)
}

func (r *postgresRepository) List(ctx context.Context, req model.ListLoansRequest) ([]model.LoanDetail, int, error) {
	where := `WHERE 1=1`
	args := []interface{}{}
	if req.Status != "all" {
		args = append(args, req.Status)
		where += fmt.Sprintf(` AND l.status = $%d`, len(args))
	}
	if req.UserID != uuid.Nil {
		args = append(args, req.UserID)
		where += fmt.Sprintf(` AND l.user_id = $%d`, len(args))
	}
	if req.BookID != uuid.Nil {
		args = append(args, req.BookID)
		where += fmt.Sprintf(` AND l.book_id = $%d`, len(args))
	}
	if req.Overdue {
		args = append(args, model.StatusBorrowed)
		where += fmt.Sprintf(` AND l.status = $%d AND l.due_date < NOW()`, len(args))
	}
	return r.listDetails(ctx, where, args, req.Page, req.Limit)
}

func (r *postgresRepository) listDetails(ctx context.Context, where string, args []interface{}, page, limit int) ([]model.LoanDetail, int, error) {
	var total int
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM book_loans l %s`, where)
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count loans: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s %s
		%s
		ORDER BY l.borrowed_date DESC, l.id
		LIMIT $%d OFFSET $%d
	`, loanDetailColumns, loanDetailJoins, where, len(args)+1, len(args)+2)
	args = append(args, limit, (page-1)*limit)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list loans: %w", err)
	}
	defer rows.Close()

	details, err := collectDetails(rows, limit)
	if err != nil {
		return nil, 0, err
	}
	return details, total, nil
}

func (r *postgresRepository) ListOverdue(ctx context.Context, asOf time.Time) ([]model.LoanDetail, error) {
	query := fmt.Sprintf(`
		SELECT %s %s
		WHERE l.status = $1 AND l.due_date < $2
		ORDER BY l.due_date ASC
	`, loanDetailColumns, loanDetailJoins)

	rows, err := r.pool.Query(ctx, query, model.StatusBorrowed, asOf)
	if err != nil {
		return nil, fmt.Errorf("list overdue loans: %w", err)
	}
	defer rows.Close()

	return collectDetails(rows, 0)
}

func collectDetails(rows pgx.Rows, capacity int) ([]model.LoanDetail, error) {
	details := make([]model.LoanDetail, 0, capacity)
	for rows.Next() {
		var d model.LoanDetail
		if err := rows.Scan(
			&d.ID, &d.UserID, &d.BookID, &d.BorrowedDate, &d.DueDate,
			&d.ReturnedDate, &d.Status, &d.CreatedAt, &d.UpdatedAt,
			&d.BookTitle, &d.BookAuthor, &d.BookISBN,
			&d.UserName, &d.UserEmail,
		); err != nil {
			return nil, fmt.Errorf("scan loan row: %w", err)
		}
		details = append(details, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return details, nil
}
