package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	bookmodel "library-api/internal/domains/book/model"
	"library-api/internal/domains/loan/model"
	"library-api/internal/shared"
)

// ========================================
// MOCKS
// ========================================

type repoMock struct {
	getBookStockFn  func(ctx context.Context, tx pgx.Tx, bookID uuid.UUID) (int, error)
	findPairFn      func(ctx context.Context, tx pgx.Tx, userID, bookID uuid.UUID) (*model.Loan, error)
	deleteFn        func(ctx context.Context, tx pgx.Tx, id uuid.UUID) error
	countBorrowedFn func(ctx context.Context, tx pgx.Tx, bookID uuid.UUID) (int, error)
	insertFn        func(ctx context.Context, tx pgx.Tx, l *model.Loan) error
	markReturnedFn  func(ctx context.Context, id, userID uuid.UUID) (*model.Loan, error)
	getDetailFn     func(ctx context.Context, id uuid.UUID) (*model.LoanDetail, error)
	listByUserFn    func(ctx context.Context, req model.ListMyLoansRequest) ([]model.LoanDetail, int, error)
	listFn          func(ctx context.Context, req model.ListLoansRequest) ([]model.LoanDetail, int, error)
	listOverdueFn   func(ctx context.Context, asOf time.Time) ([]model.LoanDetail, error)

	deleted  []uuid.UUID
	inserted []*model.Loan
}

func (m *repoMock) GetBookStockForUpdate(ctx context.Context, tx pgx.Tx, bookID uuid.UUID) (int, error) {
	return m.getBookStockFn(ctx, tx, bookID)
}
func (m *repoMock) FindByUserAndBookTx(ctx context.Context, tx pgx.Tx, userID, bookID uuid.UUID) (*model.Loan, error) {
	if m.findPairFn == nil {
		return nil, model.ErrLoanNotFound
	}
	return m.findPairFn(ctx, tx, userID, bookID)
}
func (m *repoMock) DeleteTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) error {
	m.deleted = append(m.deleted, id)
	if m.deleteFn != nil {
		return m.deleteFn(ctx, tx, id)
	}
	return nil
}
func (m *repoMock) CountBorrowedByBookTx(ctx context.Context, tx pgx.Tx, bookID uuid.UUID) (int, error) {
	return m.countBorrowedFn(ctx, tx, bookID)
}
func (m *repoMock) InsertTx(ctx context.Context, tx pgx.Tx, l *model.Loan) error {
	m.inserted = append(m.inserted, l)
	if m.insertFn != nil {
		return m.insertFn(ctx, tx, l)
	}
	return nil
}
func (m *repoMock) MarkReturned(ctx context.Context, id, userID uuid.UUID) (*model.Loan, error) {
	return m.markReturnedFn(ctx, id, userID)
}
func (m *repoMock) GetDetail(ctx context.Context, id uuid.UUID) (*model.LoanDetail, error) {
	return m.getDetailFn(ctx, id)
}
func (m *repoMock) ListByUser(ctx context.Context, req model.ListMyLoansRequest) ([]model.LoanDetail, int, error) {
	return m.listByUserFn(ctx, req)
}
func (m *repoMock) List(ctx context.Context, req model.ListLoansRequest) ([]model.LoanDetail, int, error) {
	return m.listFn(ctx, req)
}
func (m *repoMock) ListOverdue(ctx context.Context, asOf time.Time) ([]model.LoanDetail, error) {
	return m.listOverdueFn(ctx, asOf)
}

type queueMock struct {
	tasks []*asynq.Task
	err   error
}

func (q *queueMock) Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	if q.err != nil {
		return nil, q.err
	}
	q.tasks = append(q.tasks, task)
	return &asynq.TaskInfo{}, nil
}

// ========================================
// HELPERS
// ========================================

var testNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

func newTestService(repo *repoMock, queue Enqueuer) *loanService {
	return &loanService{
		repo:  repo,
		queue: queue,
		cfg:   Config{DefaultDays: 14, MaxDays: 30},
		inTx: func(ctx context.Context, fn func(pgx.Tx) error) error {
			return fn(nil)
		},
		nowFunc: func() time.Time { return testNow },
	}
}

func detailFor(l *model.Loan) *model.LoanDetail {
	return &model.LoanDetail{
		Loan:       *l,
		BookTitle:  "The Go Programming Language",
		BookAuthor: "Donovan & Kernighan",
		BookISBN:   "9780134190440",
		UserName:   "Alice",
		UserEmail:  "alice@example.com",
	}
}

// detailFromInsert wires getDetailFn to echo whatever InsertTx stored
func detailFromInsert(m *repoMock) {
	m.getDetailFn = func(ctx context.Context, id uuid.UUID) (*model.LoanDetail, error) {
		for _, l := range m.inserted {
			if l.ID == id {
				return detailFor(l), nil
			}
		}
		return nil, model.ErrLoanNotFound
	}
}

// ========================================
// BORROW
// ========================================

func TestBorrow_Success(t *testing.T) {
	userID, bookID := uuid.New(), uuid.New()

	m := &repoMock{
		getBookStockFn: func(ctx context.Context, tx pgx.Tx, id uuid.UUID) (int, error) {
			require.Equal(t, bookID, id)
			return 3, nil
		},
		countBorrowedFn: func(ctx context.Context, tx pgx.Tx, id uuid.UUID) (int, error) {
			return 2, nil // one copy left
		},
	}
	detailFromInsert(m)
	q := &queueMock{}
	s := newTestService(m, q)

	dto, err := s.Borrow(context.Background(), userID, model.BorrowRequest{BookID: bookID})
	require.NoError(t, err)

	require.Len(t, m.inserted, 1)
	l := m.inserted[0]
	require.Equal(t, model.StatusBorrowed, l.Status)
	require.Equal(t, testNow, l.BorrowedDate)
	require.Equal(t, testNow.AddDate(0, 0, 14), l.DueDate, "default loan period is 14 days")

	require.Equal(t, model.StatusBorrowed, dto.Status)
	require.False(t, dto.IsOverdue)
	require.Equal(t, 14, dto.DaysUntilDue)

	require.Len(t, q.tasks, 1)
	require.Equal(t, shared.TypeSendLoanNotification, q.tasks[0].Type())
}

func TestBorrow_ClampsLoanDays(t *testing.T) {
	tests := []struct {
		name     string
		loanDays int
		wantDays int
	}{
		{"zero falls back to default", 0, 14},
		{"negative falls back to default", -5, 14},
		{"above max clamps to max", 90, 30},
		{"in range passes through", 7, 7},
		{"max is allowed", 30, 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &repoMock{
				getBookStockFn: func(ctx context.Context, tx pgx.Tx, id uuid.UUID) (int, error) {
					return 10, nil
				},
				countBorrowedFn: func(ctx context.Context, tx pgx.Tx, id uuid.UUID) (int, error) {
					return 0, nil
				},
			}
			detailFromInsert(m)
			s := newTestService(m, &queueMock{})

			_, err := s.Borrow(context.Background(), uuid.New(), model.BorrowRequest{
				BookID:   uuid.New(),
				LoanDays: tt.loanDays,
			})
			require.NoError(t, err)
			require.Equal(t, testNow.AddDate(0, 0, tt.wantDays), m.inserted[0].DueDate)
		})
	}
}

func TestBorrow_AlreadyBorrowed(t *testing.T) {
	userID, bookID := uuid.New(), uuid.New()

	m := &repoMock{
		getBookStockFn: func(ctx context.Context, tx pgx.Tx, id uuid.UUID) (int, error) {
			return 5, nil
		},
		findPairFn: func(ctx context.Context, tx pgx.Tx, uID, bID uuid.UUID) (*model.Loan, error) {
			return &model.Loan{ID: uuid.New(), UserID: uID, BookID: bID, Status: model.StatusBorrowed}, nil
		},
	}
	q := &queueMock{}
	s := newTestService(m, q)

	_, err := s.Borrow(context.Background(), userID, model.BorrowRequest{BookID: bookID})
	require.ErrorIs(t, err, model.ErrAlreadyBorrowed)
	require.Empty(t, m.inserted, "no insert after conflict")
	require.Empty(t, q.tasks, "no notification for a failed borrow")
}

func TestBorrow_ReclaimsReturnedRow(t *testing.T) {
	userID, bookID := uuid.New(), uuid.New()
	staleID := uuid.New()

	m := &repoMock{
		getBookStockFn: func(ctx context.Context, tx pgx.Tx, id uuid.UUID) (int, error) {
			return 1, nil
		},
		findPairFn: func(ctx context.Context, tx pgx.Tx, uID, bID uuid.UUID) (*model.Loan, error) {
			return &model.Loan{ID: staleID, UserID: uID, BookID: bID, Status: model.StatusReturned}, nil
		},
		countBorrowedFn: func(ctx context.Context, tx pgx.Tx, id uuid.UUID) (int, error) {
			return 0, nil
		},
	}
	detailFromInsert(m)
	s := newTestService(m, &queueMock{})

	_, err := s.Borrow(context.Background(), userID, model.BorrowRequest{BookID: bookID})
	require.NoError(t, err)
	require.Equal(t, []uuid.UUID{staleID}, m.deleted, "returned history row is reclaimed")
	require.Len(t, m.inserted, 1)
}

func TestBorrow_NoAvailableCopies(t *testing.T) {
	m := &repoMock{
		getBookStockFn: func(ctx context.Context, tx pgx.Tx, id uuid.UUID) (int, error) {
			return 2, nil
		},
		countBorrowedFn: func(ctx context.Context, tx pgx.Tx, id uuid.UUID) (int, error) {
			return 2, nil // exactly at the stock boundary
		},
	}
	s := newTestService(m, &queueMock{})

	_, err := s.Borrow(context.Background(), uuid.New(), model.BorrowRequest{BookID: uuid.New()})
	require.ErrorIs(t, err, model.ErrBookNotAvailable)
	require.Empty(t, m.inserted)
}

func TestBorrow_BookNotFound(t *testing.T) {
	m := &repoMock{
		getBookStockFn: func(ctx context.Context, tx pgx.Tx, id uuid.UUID) (int, error) {
			return 0, bookmodel.ErrBookNotFound
		},
	}
	s := newTestService(m, &queueMock{})

	_, err := s.Borrow(context.Background(), uuid.New(), model.BorrowRequest{BookID: uuid.New()})
	require.ErrorIs(t, err, bookmodel.ErrBookNotFound)
}

func TestBorrow_UniqueConstraintIsFinalArbiter(t *testing.T) {
	// A concurrent transaction inserted the same pair between our
	// check and our insert; the 23505 surfaces as ErrAlreadyBorrowed.
	m := &repoMock{
		getBookStockFn: func(ctx context.Context, tx pgx.Tx, id uuid.UUID) (int, error) {
			return 5, nil
		},
		countBorrowedFn: func(ctx context.Context, tx pgx.Tx, id uuid.UUID) (int, error) {
			return 0, nil
		},
		insertFn: func(ctx context.Context, tx pgx.Tx, l *model.Loan) error {
			return model.ErrAlreadyBorrowed
		},
	}
	s := newTestService(m, &queueMock{})

	_, err := s.Borrow(context.Background(), uuid.New(), model.BorrowRequest{BookID: uuid.New()})
	require.ErrorIs(t, err, model.ErrAlreadyBorrowed)
}

func TestBorrow_EnqueueFailureDoesNotFailBorrow(t *testing.T) {
	m := &repoMock{
		getBookStockFn: func(ctx context.Context, tx pgx.Tx, id uuid.UUID) (int, error) {
			return 5, nil
		},
		countBorrowedFn: func(ctx context.Context, tx pgx.Tx, id uuid.UUID) (int, error) {
			return 0, nil
		},
	}
	detailFromInsert(m)
	s := newTestService(m, &queueMock{err: context.DeadlineExceeded})

	dto, err := s.Borrow(context.Background(), uuid.New(), model.BorrowRequest{BookID: uuid.New()})
	require.NoError(t, err, "a dead queue must not undo a committed loan")
	require.NotNil(t, dto)
}

// ========================================
// RETURN
// ========================================

func TestReturn_Success(t *testing.T) {
	userID, loanID := uuid.New(), uuid.New()
	returnedAt := testNow

	m := &repoMock{
		markReturnedFn: func(ctx context.Context, id, uID uuid.UUID) (*model.Loan, error) {
			require.Equal(t, loanID, id)
			require.Equal(t, userID, uID)
			return &model.Loan{
				ID: id, UserID: uID, BookID: uuid.New(),
				Status:       model.StatusReturned,
				DueDate:      testNow.AddDate(0, 0, -2),
				ReturnedDate: &returnedAt,
			}, nil
		},
	}
	m.getDetailFn = func(ctx context.Context, id uuid.UUID) (*model.LoanDetail, error) {
		return detailFor(&model.Loan{
			ID: id, UserID: userID, Status: model.StatusReturned,
			DueDate: testNow.AddDate(0, 0, -2), ReturnedDate: &returnedAt,
		}), nil
	}
	q := &queueMock{}
	s := newTestService(m, q)

	dto, err := s.Return(context.Background(), userID, loanID)
	require.NoError(t, err)
	require.Equal(t, model.StatusReturned, dto.Status)
	require.False(t, dto.IsOverdue, "a closed loan is never overdue, even returned late")
	require.Equal(t, 0, dto.DaysUntilDue)
	require.Len(t, q.tasks, 1)
}

func TestReturn_AlreadyReturned(t *testing.T) {
	m := &repoMock{
		markReturnedFn: func(ctx context.Context, id, userID uuid.UUID) (*model.Loan, error) {
			return nil, model.ErrAlreadyReturned
		},
	}
	q := &queueMock{}
	s := newTestService(m, q)

	_, err := s.Return(context.Background(), uuid.New(), uuid.New())
	require.ErrorIs(t, err, model.ErrAlreadyReturned)
	require.Empty(t, q.tasks)
}

func TestReturn_SomeoneElsesLoan(t *testing.T) {
	m := &repoMock{
		markReturnedFn: func(ctx context.Context, id, userID uuid.UUID) (*model.Loan, error) {
			return nil, model.ErrLoanNotFound
		},
	}
	s := newTestService(m, &queueMock{})

	_, err := s.Return(context.Background(), uuid.New(), uuid.New())
	require.ErrorIs(t, err, model.ErrLoanNotFound)
}

// ========================================
// LISTS
// ========================================

func TestMyLoans_DefaultsToBorrowed(t *testing.T) {
	userID := uuid.New()
	var seen model.ListMyLoansRequest

	m := &repoMock{
		listByUserFn: func(ctx context.Context, req model.ListMyLoansRequest) ([]model.LoanDetail, int, error) {
			seen = req
			return nil, 0, nil
		},
	}
	s := newTestService(m, &queueMock{})

	_, total, err := s.MyLoans(context.Background(), model.ListMyLoansRequest{UserID: userID})
	require.NoError(t, err)
	require.Equal(t, 0, total)
	require.Equal(t, string(model.StatusBorrowed), seen.Status)
	require.Equal(t, 1, seen.Page)
	require.Equal(t, 15, seen.Limit)
}

func TestMyLoans_InvalidStatusRejected(t *testing.T) {
	s := newTestService(&repoMock{}, &queueMock{})

	_, _, err := s.MyLoans(context.Background(), model.ListMyLoansRequest{
		UserID: uuid.New(),
		Status: "late",
	})
	require.ErrorIs(t, err, model.ErrInvalidStatus)
}

func TestListLoans_ComputesOverdueFields(t *testing.T) {
	overdueLoan := &model.Loan{
		ID: uuid.New(), UserID: uuid.New(), BookID: uuid.New(),
		Status:  model.StatusBorrowed,
		DueDate: testNow.AddDate(0, 0, -4),
	}

	m := &repoMock{
		listFn: func(ctx context.Context, req model.ListLoansRequest) ([]model.LoanDetail, int, error) {
			return []model.LoanDetail{*detailFor(overdueLoan)}, 1, nil
		},
	}
	s := newTestService(m, &queueMock{})

	dtos, total, err := s.ListLoans(context.Background(), model.ListLoansRequest{})
	require.NoError(t, err)
	require.Equal(t, 1, total)
	require.Len(t, dtos, 1)
	require.True(t, dtos[0].IsOverdue)
	require.Equal(t, -4, dtos[0].DaysUntilDue)
}
