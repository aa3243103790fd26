package model

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"library-api/internal/shared/response"
)

var (
	ErrBookNotFound         = errors.New("book not found")
	ErrISBNAlreadyExists    = errors.New("ISBN already exists")
	ErrBookHasActiveLoans   = errors.New("book has active loans and cannot be deleted")
	ErrInvalidPublishedYear = errors.New("invalid published year")
	ErrInvalidPageLimit     = errors.New("page and limit must be positive")
)

var bookErrorMap = map[error]struct {
	Status  int
	Code    string
	Message string
}{
	ErrBookNotFound: {
		Status:  http.StatusNotFound,
		Code:    "BOOK_NOT_FOUND",
		Message: "The specified book does not exist",
	},
	ErrISBNAlreadyExists: {
		Status:  http.StatusConflict,
		Code:    "ISBN_ALREADY_EXISTS",
		Message: "This ISBN is already registered in the system",
	},
	ErrBookHasActiveLoans: {
		Status:  http.StatusConflict,
		Code:    "BOOK_HAS_ACTIVE_LOANS",
		Message: "Cannot delete book with active loans",
	},
	ErrInvalidPublishedYear: {
		Status:  http.StatusBadRequest,
		Code:    "INVALID_PUBLISHED_YEAR",
		Message: "published_year must be a 4-digit year not in the future",
	},
}

// HandleBookError writes the mapped HTTP response for a known domain
// error. Returns true when a response has been written.
func HandleBookError(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}

	for domainErr, cfg := range bookErrorMap {
		if errors.Is(err, domainErr) {
			response.ErrorResponse(c, cfg.Status, cfg.Code, cfg.Message)
			return true
		}
	}

	log.Error().Err(err).Str("request_id", c.GetString("request_id")).Msg("book handler error")
	response.InternalServerError(c, "Internal server error")
	return true
}
