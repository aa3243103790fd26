package job

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"library-api/internal/domains/loan/model"
)

// SendLoanNotificationHandler delivers borrow/return notifications.
// There is no SMTP gateway wired up; the notification is emitted as a
// structured EMAIL_NOTIFICATION log line that downstream shippers pick
// up, matching how the rest of the platform fans out email.
type SendLoanNotificationHandler struct{}

func NewSendLoanNotificationHandler() *SendLoanNotificationHandler {
	return &SendLoanNotificationHandler{}
}

func (h *SendLoanNotificationHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload model.LoanNotificationPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	subject, body := buildMessage(payload)

	log.Info().
		Str("type", "EMAIL_NOTIFICATION").
		Str("event", payload.Event).
		Str("loan_id", payload.LoanID.String()).
		Str("to", payload.UserEmail).
		Str("subject", subject).
		Str("body", body).
		Msg("loan notification sent")

	return nil
}

func buildMessage(p model.LoanNotificationPayload) (subject, body string) {
	due := p.DueDate.Format("2006-01-02")

	switch p.Event {
	case model.NotificationEventReturned:
		subject = fmt.Sprintf("You returned %q", p.BookTitle)
		body = fmt.Sprintf("Hi %s, thanks for returning %q. See you next time!",
			p.UserName, p.BookTitle)
	case model.NotificationEventOverdue:
		days := int(time.Since(p.DueDate).Hours() / 24)
		subject = fmt.Sprintf("%q is overdue", p.BookTitle)
		body = fmt.Sprintf("Hi %s, %q was due on %s (%d day(s) ago). Please return it as soon as possible.",
			p.UserName, p.BookTitle, due, days)
	default:
		subject = fmt.Sprintf("You borrowed %q", p.BookTitle)
		body = fmt.Sprintf("Hi %s, you borrowed %q. It is due back on %s.",
			p.UserName, p.BookTitle, due)
	}
	return subject, body
}
