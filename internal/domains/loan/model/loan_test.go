package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoanIsOverdue(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	borrowed := Loan{Status: StatusBorrowed, DueDate: now.Add(24 * time.Hour)}
	require.False(t, borrowed.IsOverdue(now), "loan due tomorrow is not overdue")

	pastDue := Loan{Status: StatusBorrowed, DueDate: now.Add(-time.Hour)}
	require.True(t, pastDue.IsOverdue(now))

	dueExactlyNow := Loan{Status: StatusBorrowed, DueDate: now}
	require.False(t, dueExactlyNow.IsOverdue(now), "due date itself is not yet overdue")

	// A late return closes the loan; it must not show as overdue
	returnedAt := now.Add(-time.Hour)
	returnedLate := Loan{
		Status:       StatusReturned,
		DueDate:      now.Add(-48 * time.Hour),
		ReturnedDate: &returnedAt,
	}
	require.False(t, returnedLate.IsOverdue(now))
}

func TestLoanDaysUntilDue(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	inFiveDays := Loan{Status: StatusBorrowed, DueDate: now.AddDate(0, 0, 5)}
	require.Equal(t, 5, inFiveDays.DaysUntilDue(now))

	threeDaysLate := Loan{Status: StatusBorrowed, DueDate: now.AddDate(0, 0, -3)}
	require.Equal(t, -3, threeDaysLate.DaysUntilDue(now))

	dueToday := Loan{Status: StatusBorrowed, DueDate: now.Add(6 * time.Hour)}
	require.Equal(t, 0, dueToday.DaysUntilDue(now))

	returned := Loan{Status: StatusReturned, DueDate: now.AddDate(0, 0, -10)}
	require.Equal(t, 0, returned.DaysUntilDue(now), "returned loans always report zero")
}

func TestListMyLoansRequestNormalize(t *testing.T) {
	req := ListMyLoansRequest{}
	req.Normalize()
	require.Equal(t, string(StatusBorrowed), req.Status, "default filter is the loans still out")
	require.Equal(t, 1, req.Page)
	require.Equal(t, 15, req.Limit)
	require.NoError(t, req.Validate())

	req = ListMyLoansRequest{Status: "all", Page: 2, Limit: 500}
	req.Normalize()
	require.Equal(t, "all", req.Status)
	require.Equal(t, 100, req.Limit)
	require.NoError(t, req.Validate())

	bad := ListMyLoansRequest{Status: "overdue"}
	require.ErrorIs(t, bad.Validate(), ErrInvalidStatus)
}

func TestListLoansRequestNormalize(t *testing.T) {
	req := ListLoansRequest{}
	req.Normalize()
	require.Equal(t, "all", req.Status, "admin view defaults to every loan")
	require.Equal(t, 15, req.Limit)
	require.NoError(t, req.Validate())

	req = ListLoansRequest{Status: "overdue"}
	req.Normalize()
	require.Equal(t, string(StatusBorrowed), req.Status, "overdue narrows to loans still out")
	require.True(t, req.Overdue)
	require.NoError(t, req.Validate())
}
