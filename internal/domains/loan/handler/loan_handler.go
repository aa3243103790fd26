package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	bookmodel "library-api/internal/domains/book/model"
	"library-api/internal/domains/loan/model"
	"library-api/internal/domains/loan/service"
	"library-api/internal/shared/response"
)

type LoanHandler struct {
	service service.Service
}

// NewLoanHandler - Constructor
func NewLoanHandler(service service.Service) *LoanHandler {
	return &LoanHandler{service: service}
}

// currentUserID reads the authenticated user set by AuthMiddleware
func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get("userID")
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}

// BorrowBook - POST /api/v1/loans
func (h *LoanHandler) BorrowBook(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.Unauthorized(c, "Authentication required")
		return
	}

	var req model.BorrowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.UnprocessableEntity(c, "Validation failed", err)
		return
	}

	loan, err := h.service.Borrow(c.Request.Context(), userID, req)
	if err != nil {
		if errors.Is(err, bookmodel.ErrBookNotFound) {
			bookmodel.HandleBookError(c, err)
			return
		}
		model.HandleLoanError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, "Book borrowed successfully", loan)
}

// ReturnBook - POST /api/v1/loans/:id/return
// Only the borrower can return their own loan; anyone else sees 404.
func (h *LoanHandler) ReturnBook(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.Unauthorized(c, "Authentication required")
		return
	}

	loanID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid loan ID")
		return
	}

	loan, err := h.service.Return(c.Request.Context(), userID, loanID)
	if err != nil {
		model.HandleLoanError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Book returned successfully", loan)
}

// MyLoans - GET /api/v1/loans/my
// Query params: status (borrowed|returned|all, default borrowed), page, per_page
func (h *LoanHandler) MyLoans(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.Unauthorized(c, "Authentication required")
		return
	}

	req := model.ListMyLoansRequest{
		UserID: userID,
		Status: c.Query("status"),
	}
	req.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	req.Limit, _ = strconv.Atoi(c.DefaultQuery("per_page", "15"))
	req.Normalize()

	loans, total, err := h.service.MyLoans(c.Request.Context(), req)
	if err != nil {
		model.HandleLoanError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, "Loans retrieved successfully", loans, &response.Meta{
		Page:  req.Page,
		Limit: req.Limit,
		Total: total,
	})
}

// ListLoans - GET /api/v1/admin/loans (admin)
// Query params: status, user_id, book_id, overdue, page, per_page
func (h *LoanHandler) ListLoans(c *gin.Context) {
	req := model.ListLoansRequest{
		Status: c.Query("status"),
	}
	if v := c.Query("user_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			response.BadRequest(c, "Invalid user_id filter")
			return
		}
		req.UserID = id
	}
	if v := c.Query("book_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			response.BadRequest(c, "Invalid book_id filter")
			return
		}
		req.BookID = id
	}
	req.Overdue = c.Query("overdue") == "true"
	req.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	req.Limit, _ = strconv.Atoi(c.DefaultQuery("per_page", "15"))
	req.Normalize()

	loans, total, err := h.service.ListLoans(c.Request.Context(), req)
	if err != nil {
		model.HandleLoanError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, "Loans retrieved successfully", loans, &response.Meta{
		Page:  req.Page,
		Limit: req.Limit,
		Total: total,
	})
}
