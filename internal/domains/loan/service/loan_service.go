package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	bookmodel "library-api/internal/domains/book/model"
	"library-api/internal/domains/loan/model"
	"library-api/internal/domains/loan/repository"
	"library-api/internal/shared"
	"library-api/pkg/database"
)

// Enqueuer is the slice of asynq.Client the service needs.
type Enqueuer interface {
	Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Config - loan period bounds
type Config struct {
	DefaultDays int
	MaxDays     int
}

// txRunner lets tests run the borrow flow without a live pool
type txRunner func(ctx context.Context, fn func(pgx.Tx) error) error

type loanService struct {
	repo    repository.Repository
	queue   Enqueuer
	cfg     Config
	inTx    txRunner
	nowFunc func() time.Time
}

// NewLoanService - Constructor
func NewLoanService(pool *pgxpool.Pool, repo repository.Repository, queue Enqueuer, cfg Config) Service {
	return &loanService{
		repo:  repo,
		queue: queue,
		cfg:   cfg,
		inTx: func(ctx context.Context, fn func(pgx.Tx) error) error {
			return database.WithTransaction(ctx, pool, fn)
		},
		nowFunc: time.Now,
	}
}

// clampLoanDays applies the default and the hard bounds; out-of-range
// values are clamped, not rejected.
func (s *loanService) clampLoanDays(days int) int {
	if days <= 0 {
		days = s.cfg.DefaultDays
	}
	if days > s.cfg.MaxDays {
		days = s.cfg.MaxDays
	}
	if days < 1 {
		days = 1
	}
	return days
}

func (s *loanService) Borrow(ctx context.Context, userID uuid.UUID, req model.BorrowRequest) (*model.LoanDTO, error) {
	days := s.clampLoanDays(req.LoanDays)
	now := s.nowFunc()

	l := &model.Loan{
		ID:           uuid.New(),
		UserID:       userID,
		BookID:       req.BookID,
		BorrowedDate: now,
		DueDate:      now.AddDate(0, 0, days),
		Status:       model.StatusBorrowed,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err := s.inTx(ctx, func(tx pgx.Tx) error {
		// Lock the book row first: concurrent borrows of the same
		// book serialize here, so the count below cannot race.
		stock, err := s.repo.GetBookStockForUpdate(ctx, tx, req.BookID)
		if err != nil {
			return err
		}

		// The (user, book) pair holds at most one row. A borrowed row
		// blocks; a returned row is history we reclaim so the unique
		// constraint admits the new loan.
		existing, err := s.repo.FindByUserAndBookTx(ctx, tx, userID, req.BookID)
		if err != nil && !errors.Is(err, model.ErrLoanNotFound) {
			return err
		}
		if existing != nil {
			if existing.Status == model.StatusBorrowed {
				return model.ErrAlreadyBorrowed
			}
			if err := s.repo.DeleteTx(ctx, tx, existing.ID); err != nil {
				return err
			}
		}

		borrowed, err := s.repo.CountBorrowedByBookTx(ctx, tx, req.BookID)
		if err != nil {
			return err
		}
		if bookmodel.AvailableStock(stock, borrowed) < 1 {
			return model.ErrBookNotAvailable
		}

		// The unique constraint stays the final arbiter: if another
		// transaction slipped the same pair in, this maps 23505 to
		// ErrAlreadyBorrowed.
		return s.repo.InsertTx(ctx, tx, l)
	})
	if err != nil {
		return nil, err
	}

	detail, err := s.repo.GetDetail(ctx, l.ID)
	if err != nil {
		return nil, err
	}

	// Post-commit, fire-and-forget: a dead queue must never undo a
	// committed loan.
	s.enqueueNotification(model.NotificationEventBorrowed, detail)

	dto := detail.ToDTO(s.nowFunc())
	return &dto, nil
}

func (s *loanService) Return(ctx context.Context, userID, loanID uuid.UUID) (*model.LoanDTO, error) {
	l, err := s.repo.MarkReturned(ctx, loanID, userID)
	if err != nil {
		return nil, err
	}

	detail, err := s.repo.GetDetail(ctx, l.ID)
	if err != nil {
		return nil, err
	}

	s.enqueueNotification(model.NotificationEventReturned, detail)

	dto := detail.ToDTO(s.nowFunc())
	return &dto, nil
}

func (s *loanService) MyLoans(ctx context.Context, req model.ListMyLoansRequest) ([]model.LoanDTO, int, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, 0, err
	}

	details, total, err := s.repo.ListByUser(ctx, req)
	if err != nil {
		return nil, 0, err
	}
	return s.toDTOs(details), total, nil
}

func (s *loanService) ListLoans(ctx context.Context, req model.ListLoansRequest) ([]model.LoanDTO, int, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, 0, err
	}

	details, total, err := s.repo.List(ctx, req)
	if err != nil {
		return nil, 0, err
	}
	return s.toDTOs(details), total, nil
}

func (s *loanService) toDTOs(details []model.LoanDetail) []model.LoanDTO {
	now := s.nowFunc()
	dtos := make([]model.LoanDTO, len(details))
	for i := range details {
		dtos[i] = details[i].ToDTO(now)
	}
	return dtos
}

// enqueueNotification hands the notification to the worker. Failures
// are logged and swallowed: the loan state change already committed.
func (s *loanService) enqueueNotification(event string, d *model.LoanDetail) {
	if s.queue == nil {
		return
	}

	payload, err := json.Marshal(model.LoanNotificationPayload{
		Event:     event,
		LoanID:    d.ID,
		UserID:    d.UserID,
		UserName:  d.UserName,
		UserEmail: d.UserEmail,
		BookTitle: d.BookTitle,
		DueDate:   d.DueDate,
	})
	if err != nil {
		log.Error().Err(err).Str("loan_id", d.ID.String()).Msg("failed to marshal loan notification")
		return
	}

	task := asynq.NewTask(shared.TypeSendLoanNotification, payload)
	_, err = s.queue.Enqueue(task,
		asynq.Queue("default"),
		asynq.MaxRetry(3),
		asynq.Timeout(30*time.Second),
	)
	if err != nil {
		log.Error().Err(err).
			Str("loan_id", d.ID.String()).
			Str("event", event).
			Msg("failed to enqueue loan notification")
		return
	}

	log.Info().
		Str("loan_id", d.ID.String()).
		Str("event", event).
		Str("email", d.UserEmail).
		Msg("enqueued loan notification")
}
