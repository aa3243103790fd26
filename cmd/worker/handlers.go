package main

import (
	"github.com/hibiken/asynq"

	loanJob "library-api/internal/domains/loan/job"
	"library-api/internal/shared"
	"library-api/pkg/container"
)

// HandlerRegistry holds all job handlers
type HandlerRegistry struct {
	sendLoanNotification *loanJob.SendLoanNotificationHandler
	scanOverdueLoans     *loanJob.ScanOverdueLoansHandler
}

// initializeHandlers creates all job handlers with their dependencies
func initializeHandlers(c *container.Container) *HandlerRegistry {
	return &HandlerRegistry{
		sendLoanNotification: loanJob.NewSendLoanNotificationHandler(),
		scanOverdueLoans:     loanJob.NewScanOverdueLoansHandler(c.LoanRepo, c.AsynqClient),
	}
}

// RegisterHandlers registers all handlers with the mux
func (h *HandlerRegistry) RegisterHandlers(mux *asynq.ServeMux) {
	mux.HandleFunc(shared.TypeSendLoanNotification, h.sendLoanNotification.ProcessTask)
	mux.HandleFunc(shared.TypeScanOverdueLoans, h.scanOverdueLoans.ProcessTask)
}
