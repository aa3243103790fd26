package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"library-api/internal/domains/book/model"
	"library-api/internal/domains/book/service"
	"library-api/internal/shared/response"
)

type BookHandler struct {
	service service.Service
}

// NewBookHandler - Constructor
func NewBookHandler(service service.Service) *BookHandler {
	return &BookHandler{service: service}
}

// ListBooks - GET /api/v1/books
// Query params: search, author, year, page, per_page
func (h *BookHandler) ListBooks(c *gin.Context) {
	req := model.ListBooksRequest{
		Search: c.Query("search"),
		Author: c.Query("author"),
	}
	req.Year, _ = strconv.Atoi(c.Query("year"))
	req.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	req.Limit, _ = strconv.Atoi(c.DefaultQuery("per_page", "15"))
	req.Normalize()

	books, total, err := h.service.ListBooks(c.Request.Context(), req)
	if err != nil {
		model.HandleBookError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, "Books retrieved successfully", books, &response.Meta{
		Page:  req.Page,
		Limit: req.Limit,
		Total: total,
	})
}

// GetBook - GET /api/v1/books/:id
func (h *BookHandler) GetBook(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid book ID")
		return
	}

	book, err := h.service.GetBook(c.Request.Context(), id)
	if err != nil {
		model.HandleBookError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Book retrieved successfully", book)
}

// CreateBook - POST /api/v1/books (admin)
func (h *BookHandler) CreateBook(c *gin.Context) {
	var req model.CreateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.UnprocessableEntity(c, "Validation failed", err)
		return
	}

	book, err := h.service.CreateBook(c.Request.Context(), req)
	if err != nil {
		model.HandleBookError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, "Book created successfully", book)
}

// UpdateBook - PUT /api/v1/books/:id (admin)
func (h *BookHandler) UpdateBook(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid book ID")
		return
	}

	var req model.UpdateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.UnprocessableEntity(c, "Validation failed", err)
		return
	}

	book, err := h.service.UpdateBook(c.Request.Context(), id, req)
	if err != nil {
		model.HandleBookError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Book updated successfully", book)
}

// DeleteBook - DELETE /api/v1/books/:id (admin)
// Refused with 409 while any copy is still out on loan.
func (h *BookHandler) DeleteBook(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid book ID")
		return
	}

	if err := h.service.DeleteBook(c.Request.Context(), id); err != nil {
		model.HandleBookError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Book deleted successfully", nil)
}
