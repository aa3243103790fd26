package model

import (
	"time"

	"github.com/google/uuid"
)

// Loan notification events carried on the queue
const (
	NotificationEventBorrowed = "borrowed"
	NotificationEventReturned = "returned"
	NotificationEventOverdue  = "overdue"
)

// LoanNotificationPayload - task payload for loan:send_notification.
// Carries everything the worker needs so it never has to hit the
// database to render the message.
type LoanNotificationPayload struct {
	Event     string    `json:"event"`
	LoanID    uuid.UUID `json:"loan_id"`
	UserID    uuid.UUID `json:"user_id"`
	UserName  string    `json:"user_name"`
	UserEmail string    `json:"user_email"`
	BookTitle string    `json:"book_title"`
	DueDate   time.Time `json:"due_date"`
}
