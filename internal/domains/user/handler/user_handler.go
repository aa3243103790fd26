package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"library-api/internal/domains/user"
	"library-api/internal/shared/response"
)

// UserHandler - thin HTTP layer, delegates to the service
type UserHandler struct {
	service user.Service
}

func NewUserHandler(service user.Service) *UserHandler {
	return &UserHandler{service: service}
}

// handleUserError maps domain errors to HTTP responses.
// Returns true when the error has been written.
func handleUserError(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}

	switch {
	case errors.Is(err, user.ErrUserNotFound):
		response.NotFound(c, "User not found")
	case errors.Is(err, user.ErrEmailAlreadyExists):
		response.Conflict(c, "Email already registered")
	case errors.Is(err, user.ErrInvalidCredentials):
		response.Unauthorized(c, "Invalid credentials")
	case errors.Is(err, user.ErrInvalidToken):
		response.Unauthorized(c, "Invalid or expired token")
	case errors.Is(err, user.ErrInvalidRole):
		response.BadRequest(c, "Invalid role")
	default:
		log.Error().Err(err).Str("request_id", c.GetString("request_id")).Msg("user handler error")
		response.InternalServerError(c, "Internal server error")
	}
	return true
}

// Register - POST /api/v1/auth/register
func (h *UserHandler) Register(c *gin.Context) {
	var req user.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request data")
		return
	}

	if err := req.Validate(); err != nil {
		response.UnprocessableEntity(c, "Validation failed", err)
		return
	}

	res, err := h.service.Register(c.Request.Context(), req)
	if handleUserError(c, err) {
		return
	}

	response.Success(c, http.StatusCreated, "Registration successful", res)
}

// Login - POST /api/v1/auth/login
func (h *UserHandler) Login(c *gin.Context) {
	var req user.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request data")
		return
	}

	if err := req.Validate(); err != nil {
		response.UnprocessableEntity(c, "Validation failed", err)
		return
	}

	res, err := h.service.Login(c.Request.Context(), req)
	if handleUserError(c, err) {
		return
	}

	response.Success(c, http.StatusOK, "Login successful", res)
}

// Logout - POST /api/v1/auth/logout
func (h *UserHandler) Logout(c *gin.Context) {
	tokenID := c.GetString("tokenID")
	expiresAt, _ := c.Get("tokenExpiresAt")

	exp, ok := expiresAt.(time.Time)
	if !ok {
		exp = time.Now()
	}

	if err := h.service.Logout(c.Request.Context(), tokenID, exp); err != nil {
		handleUserError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Logout successful", nil)
}

// RefreshToken - POST /api/v1/auth/refresh
func (h *UserHandler) RefreshToken(c *gin.Context) {
	var req user.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request data")
		return
	}

	res, err := h.service.RefreshToken(c.Request.Context(), req.RefreshToken)
	if handleUserError(c, err) {
		return
	}

	response.Success(c, http.StatusOK, "Token refreshed successfully", res)
}

// Me - GET /api/v1/auth/me
func (h *UserHandler) Me(c *gin.Context) {
	userID := c.MustGet("userID").(uuid.UUID)

	dto, err := h.service.GetProfile(c.Request.Context(), userID)
	if handleUserError(c, err) {
		return
	}

	response.Success(c, http.StatusOK, "User data retrieved successfully", dto)
}

// ========================================
// ADMIN ENDPOINTS
// ========================================

// ListUsers - GET /api/v1/admin/users
func (h *UserHandler) ListUsers(c *gin.Context) {
	req := user.ListUsersRequest{
		Search: c.Query("search"),
		Page:   1,
		Limit:  15,
	}
	if p, err := strconv.Atoi(c.Query("page")); err == nil && p > 0 {
		req.Page = p
	}
	if l, err := strconv.Atoi(c.Query("per_page")); err == nil && l > 0 {
		req.Limit = l
	}

	res, err := h.service.ListUsers(c.Request.Context(), req)
	if handleUserError(c, err) {
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, "Users retrieved successfully", res.Users, &response.Meta{
		Page:  res.Page,
		Limit: res.Limit,
		Total: res.Total,
	})
}

// GetUser - GET /api/v1/admin/users/:id
func (h *UserHandler) GetUser(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid user id")
		return
	}

	dto, err := h.service.GetUser(c.Request.Context(), id)
	if handleUserError(c, err) {
		return
	}

	response.Success(c, http.StatusOK, "User retrieved successfully", dto)
}

// CreateUser - POST /api/v1/admin/users
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req user.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request data")
		return
	}

	if err := req.Validate(); err != nil {
		response.UnprocessableEntity(c, "Validation failed", err)
		return
	}

	dto, err := h.service.CreateUser(c.Request.Context(), req)
	if handleUserError(c, err) {
		return
	}

	response.Success(c, http.StatusCreated, "User created successfully", dto)
}

// UpdateUser - PUT /api/v1/admin/users/:id
func (h *UserHandler) UpdateUser(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid user id")
		return
	}

	var req user.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request data")
		return
	}

	if err := req.Validate(); err != nil {
		response.UnprocessableEntity(c, "Validation failed", err)
		return
	}

	dto, err := h.service.UpdateUser(c.Request.Context(), id, req)
	if handleUserError(c, err) {
		return
	}

	response.Success(c, http.StatusOK, "User updated successfully", dto)
}

// DeleteUser - DELETE /api/v1/admin/users/:id
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid user id")
		return
	}

	if err := h.service.DeleteUser(c.Request.Context(), id); handleUserError(c, err) {
		return
	}

	response.Success(c, http.StatusOK, "User deleted successfully", nil)
}
