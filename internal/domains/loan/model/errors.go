package model

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"library-api/internal/shared/response"
)

var (
	ErrLoanNotFound     = errors.New("loan not found")
	ErrAlreadyBorrowed  = errors.New("user already borrowed this book")
	ErrAlreadyReturned  = errors.New("loan already returned")
	ErrBookNotAvailable = errors.New("no copies available to borrow")
	ErrInvalidStatus    = errors.New("invalid loan status filter")
)

var loanErrorMap = map[error]struct {
	Status  int
	Code    string
	Message string
}{
	ErrLoanNotFound: {
		Status:  http.StatusNotFound,
		Code:    "LOAN_NOT_FOUND",
		Message: "The specified loan does not exist",
	},
	ErrAlreadyBorrowed: {
		Status:  http.StatusConflict,
		Code:    "ALREADY_BORROWED",
		Message: "You already have this book on loan",
	},
	ErrAlreadyReturned: {
		Status:  http.StatusConflict,
		Code:    "ALREADY_RETURNED",
		Message: "This loan has already been returned",
	},
	ErrBookNotAvailable: {
		Status:  http.StatusConflict,
		Code:    "BOOK_NOT_AVAILABLE",
		Message: "All copies of this book are currently on loan",
	},
	ErrInvalidStatus: {
		Status:  http.StatusBadRequest,
		Code:    "INVALID_STATUS",
		Message: "status must be one of: borrowed, returned, all",
	},
}

// HandleLoanError writes the mapped HTTP response for a known domain
// error. Returns true when a response has been written.
func HandleLoanError(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}

	for domainErr, cfg := range loanErrorMap {
		if errors.Is(err, domainErr) {
			response.ErrorResponse(c, cfg.Status, cfg.Code, cfg.Message)
			return true
		}
	}

	log.Error().Err(err).Str("request_id", c.GetString("request_id")).Msg("loan handler error")
	response.InternalServerError(c, "Internal server error")
	return true
}
