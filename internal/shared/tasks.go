package shared

// Asynq task type names.
// Kept here (not in the loan domain) so cmd/worker can register handlers
// without importing domain model packages it does not need.
const (
	TypeSendLoanNotification = "loan:send_notification"
	TypeScanOverdueLoans     = "loan:scan_overdue"
)
