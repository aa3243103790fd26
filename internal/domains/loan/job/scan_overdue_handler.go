package job

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"library-api/internal/domains/loan/model"
	"library-api/internal/domains/loan/repository"
	"library-api/internal/shared"
)

// ScanOverdueLoansHandler runs on the scheduler: sweep every loan that
// is still out past its due date and fan out one reminder per loan.
type ScanOverdueLoansHandler struct {
	repo  repository.Repository
	queue Enqueuer
}

// Enqueuer is the slice of asynq.Client the scan needs
type Enqueuer interface {
	Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

func NewScanOverdueLoansHandler(repo repository.Repository, queue Enqueuer) *ScanOverdueLoansHandler {
	return &ScanOverdueLoansHandler{repo: repo, queue: queue}
}

func (h *ScanOverdueLoansHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	now := time.Now()

	overdue, err := h.repo.ListOverdue(ctx, now)
	if err != nil {
		return fmt.Errorf("list overdue loans: %w", err)
	}

	log.Info().Int("count", len(overdue)).Msg("overdue scan started")

	var failed int
	for i := range overdue {
		if err := h.enqueueReminder(&overdue[i]); err != nil {
			failed++
			log.Error().Err(err).
				Str("loan_id", overdue[i].ID.String()).
				Msg("failed to enqueue overdue reminder")
		}
	}

	log.Info().
		Int("count", len(overdue)).
		Int("failed", failed).
		Msg("overdue scan completed")

	// Partial failures are retried on the next scheduled scan rather
	// than failing the whole sweep.
	return nil
}

func (h *ScanOverdueLoansHandler) enqueueReminder(d *model.LoanDetail) error {
	payload, err := json.Marshal(model.LoanNotificationPayload{
		Event:     model.NotificationEventOverdue,
		LoanID:    d.ID,
		UserID:    d.UserID,
		UserName:  d.UserName,
		UserEmail: d.UserEmail,
		BookTitle: d.BookTitle,
		DueDate:   d.DueDate,
	})
	if err != nil {
		return fmt.Errorf("marshal reminder: %w", err)
	}

	task := asynq.NewTask(shared.TypeSendLoanNotification, payload)
	_, err = h.queue.Enqueue(task,
		asynq.Queue("default"),
		asynq.MaxRetry(2),
		asynq.Timeout(30*time.Second),
	)
	return err
}
