package main

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"library-api/internal/shared/middleware"
	"library-api/internal/shared/response"
	"library-api/pkg/container"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	// Global middlewares
	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.CORS(),
	)

	authRequired := middleware.AuthMiddleware(c.Config.JWT.Secret, c.Cache)
	adminOnly := middleware.AdminMiddleware()

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheckHandler(c))

		setupAuthRoutes(v1, c, authRequired)
		setupBookRoutes(v1, c, authRequired, adminOnly)
		setupLoanRoutes(v1, c, authRequired)
		setupAdminRoutes(v1, c, authRequired, adminOnly)
	}

	return router
}

// ========================================
// AUTH ROUTES
// ========================================
func setupAuthRoutes(v1 *gin.RouterGroup, c *container.Container, authRequired gin.HandlerFunc) {
	auth := v1.Group("/auth")
	{
		auth.POST("/register", c.UserHandler.Register)
		auth.POST("/login", c.UserHandler.Login)
		auth.POST("/refresh", c.UserHandler.RefreshToken)
		auth.POST("/logout", authRequired, c.UserHandler.Logout)
		auth.GET("/me", authRequired, c.UserHandler.Me)
	}
}

// ========================================
// BOOK ROUTES
// ========================================
// Browsing the catalog is public; mutations are admin-only.
func setupBookRoutes(v1 *gin.RouterGroup, c *container.Container, authRequired, adminOnly gin.HandlerFunc) {
	books := v1.Group("/books")
	{
		books.GET("", c.BookHandler.ListBooks)
		books.GET("/:id", c.BookHandler.GetBook)

		books.POST("", authRequired, adminOnly, c.BookHandler.CreateBook)
		books.PUT("/:id", authRequired, adminOnly, c.BookHandler.UpdateBook)
		books.DELETE("/:id", authRequired, adminOnly, c.BookHandler.DeleteBook)
	}
}

// ========================================
// LOAN ROUTES
// ========================================
func setupLoanRoutes(v1 *gin.RouterGroup, c *container.Container, authRequired gin.HandlerFunc) {
	loans := v1.Group("/loans")
	loans.Use(authRequired)
	{
		loans.POST("", c.LoanHandler.BorrowBook)
		loans.POST("/:id/return", c.LoanHandler.ReturnBook)
		loans.GET("/my", c.LoanHandler.MyLoans)
	}
}

// ========================================
// ADMIN ROUTES
// ========================================
func setupAdminRoutes(v1 *gin.RouterGroup, c *container.Container, authRequired, adminOnly gin.HandlerFunc) {
	admin := v1.Group("/admin")
	admin.Use(authRequired, adminOnly)
	{
		admin.GET("/loans", c.LoanHandler.ListLoans)

		admin.GET("/users", c.UserHandler.ListUsers)
		admin.POST("/users", c.UserHandler.CreateUser)
		admin.GET("/users/:id", c.UserHandler.GetUser)
		admin.PUT("/users/:id", c.UserHandler.UpdateUser)
		admin.DELETE("/users/:id", c.UserHandler.DeleteUser)
	}
}

// ========================================
// HEALTH CHECK
// ========================================
func healthCheckHandler(c *container.Container) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		status := "healthy"
		checks := gin.H{}

		if err := c.DB.HealthCheck(ctx.Request.Context()); err != nil {
			status = "degraded"
			checks["database"] = err.Error()
		} else {
			checks["database"] = "ok"
		}

		if err := c.Cache.Ping(ctx.Request.Context()); err != nil {
			// Redis is non-critical, the API keeps serving
			checks["redis"] = err.Error()
		} else {
			checks["redis"] = "ok"
		}

		code := http.StatusOK
		if status != "healthy" {
			code = http.StatusServiceUnavailable
		}

		response.Success(ctx, code, "Health check", gin.H{
			"status":      status,
			"version":     c.Config.App.Version,
			"environment": c.Config.App.Environment,
			"time":        time.Now().UTC().Format(time.RFC3339),
			"checks":      checks,
		})
	}
}
