package job

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/require"

	"library-api/internal/domains/loan/model"
	"library-api/internal/shared"
)

func TestSendLoanNotification_ProcessTask(t *testing.T) {
	payload, err := json.Marshal(model.LoanNotificationPayload{
		Event:     model.NotificationEventBorrowed,
		UserName:  "Alice",
		UserEmail: "alice@example.com",
		BookTitle: "The Go Programming Language",
		DueDate:   time.Date(2026, 3, 29, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	h := NewSendLoanNotificationHandler()
	task := asynq.NewTask(shared.TypeSendLoanNotification, payload)
	require.NoError(t, h.ProcessTask(context.Background(), task))
}

func TestSendLoanNotification_BadPayload(t *testing.T) {
	h := NewSendLoanNotificationHandler()
	task := asynq.NewTask(shared.TypeSendLoanNotification, []byte("{not json"))
	require.Error(t, h.ProcessTask(context.Background(), task))
}

func TestBuildMessage(t *testing.T) {
	base := model.LoanNotificationPayload{
		UserName:  "Alice",
		BookTitle: "Dune",
		DueDate:   time.Date(2026, 3, 29, 0, 0, 0, 0, time.UTC),
	}

	base.Event = model.NotificationEventBorrowed
	subject, body := buildMessage(base)
	require.Contains(t, subject, "borrowed")
	require.Contains(t, body, "2026-03-29")

	base.Event = model.NotificationEventReturned
	subject, _ = buildMessage(base)
	require.Contains(t, subject, "returned")

	base.Event = model.NotificationEventOverdue
	subject, body = buildMessage(base)
	require.Contains(t, subject, "overdue")
	require.Contains(t, body, "as soon as possible")
}
