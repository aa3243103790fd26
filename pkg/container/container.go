package container

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/hibiken/asynq"

	"library-api/internal/config"
	infraCache "library-api/internal/infrastructure/cache"
	"library-api/internal/infrastructure/database"
	"library-api/pkg/cache"
	"library-api/pkg/jwt"

	bookHandler "library-api/internal/domains/book/handler"
	bookRepo "library-api/internal/domains/book/repository"
	bookService "library-api/internal/domains/book/service"
	loanHandler "library-api/internal/domains/loan/handler"
	loanRepo "library-api/internal/domains/loan/repository"
	loanService "library-api/internal/domains/loan/service"
	"library-api/internal/domains/user"
	userHandler "library-api/internal/domains/user/handler"
	userRepo "library-api/internal/domains/user/repository"
	userService "library-api/internal/domains/user/service"
)

// ========================================
// CONTAINER STRUCT
// ========================================

// Container is the root of the dependency graph. Everything in here
// is a singleton living for the process lifetime.
type Container struct {
	// Infrastructure
	Config      *config.Config
	DB          *database.PostgresDB
	Cache       cache.Cache
	AsynqClient *asynq.Client
	JWTManager  *jwt.Manager

	// Repositories
	UserRepo user.Repository
	BookRepo bookRepo.Repository
	LoanRepo loanRepo.Repository

	// Services
	UserService user.Service
	BookService bookService.Service
	LoanService loanService.Service

	// Handlers
	UserHandler *userHandler.UserHandler
	BookHandler *bookHandler.BookHandler
	LoanHandler *loanHandler.LoanHandler
}

// NewContainer builds the whole dependency graph.
//
// Initialization order matters:
//  1. Config (depends on nothing)
//  2. Infrastructure (DB, Redis, queue client)
//  3. Repositories
//  4. Services
//  5. Handlers
func NewContainer() (*Container, error) {
	log.Println("🔧 Initializing DI Container...")

	c := &Container{}

	// ========================================
	// STEP 1: LOAD CONFIGURATION
	// ========================================
	log.Println("📋 Loading configuration...")

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	c.Config = cfg
	log.Printf("✅ Config loaded (Environment: %s)", cfg.App.Environment)

	// ========================================
	// STEP 2: INITIALIZE DATABASE
	// ========================================
	log.Println("🗄️  Connecting to PostgreSQL...")

	dbConfig, err := config.LoadDatabaseConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load database config: %w", err)
	}

	db := database.NewPostgresDB(dbConfig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.HealthCheck(context.Background()); err != nil {
		return nil, fmt.Errorf("database health check failed: %w", err)
	}

	c.DB = db
	log.Println("✅ Database connected")

	// ========================================
	// STEP 3: INITIALIZE REDIS + QUEUE
	// ========================================
	log.Println("🔴 Connecting to Redis...")

	redisCache := infraCache.NewRedisCache(
		cfg.Redis.Host,
		cfg.Redis.Password,
		cfg.Redis.DB,
	)
	if rc, ok := redisCache.(*infraCache.RedisCache); ok {
		if err := rc.Connect(context.Background()); err != nil {
			// Redis failure is not fatal for the API: the token
			// denylist degrades open and the queue retries.
			log.Printf("⚠️  Redis connection failed (non-critical): %v", err)
		} else {
			log.Println("✅ Redis connected")
		}
	}
	c.Cache = redisCache

	c.AsynqClient = asynq.NewClient(asynq.RedisClientOpt{
		Addr:     cfg.Redis.Host,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	log.Println("✅ Task queue client ready")

	c.JWTManager = jwt.NewManager(
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)

	// ========================================
	// STEP 4: INITIALIZE REPOSITORIES
	// ========================================
	log.Println("📦 Initializing repositories...")
	c.initRepositories()
	log.Println("✅ Repositories initialized")

	// ========================================
	// STEP 5: INITIALIZE SERVICES
	// ========================================
	log.Println("⚙️  Initializing services...")
	c.initServices()
	log.Println("✅ Services initialized")

	// ========================================
	// STEP 6: INITIALIZE HANDLERS
	// ========================================
	log.Println("🎯 Initializing handlers...")
	c.initHandlers()
	log.Println("✅ Handlers initialized")

	log.Println("🎉 DI Container initialized successfully")
	return c, nil
}

func (c *Container) initRepositories() {
	pool := c.DB.Pool

	c.UserRepo = userRepo.NewPostgresRepository(pool)
	c.BookRepo = bookRepo.NewPostgresRepository(pool)
	c.LoanRepo = loanRepo.NewPostgresRepository(pool)
}

func (c *Container) initServices() {
	c.UserService = userService.NewUserService(c.UserRepo, c.JWTManager, c.Cache)
	c.BookService = bookService.NewBookService(c.BookRepo)
	c.LoanService = loanService.NewLoanService(
		c.DB.Pool,
		c.LoanRepo,
		c.AsynqClient,
		loanService.Config{
			DefaultDays: c.Config.Loan.DefaultDays,
			MaxDays:     c.Config.Loan.MaxDays,
		},
	)
}

func (c *Container) initHandlers() {
	c.UserHandler = userHandler.NewUserHandler(c.UserService)
	c.BookHandler = bookHandler.NewBookHandler(c.BookService)
	c.LoanHandler = loanHandler.NewLoanHandler(c.LoanService)
}

// Cleanup releases infrastructure resources in reverse init order
func (c *Container) Cleanup() {
	log.Println("🧹 Cleaning up container resources...")

	if c.AsynqClient != nil {
		if err := c.AsynqClient.Close(); err != nil {
			log.Printf("⚠️  Failed to close task queue client: %v", err)
		}
	}
	if rc, ok := c.Cache.(*infraCache.RedisCache); ok {
		if err := rc.Close(); err != nil {
			log.Printf("⚠️  Failed to close Redis connection: %v", err)
		}
	}
	if c.DB != nil {
		c.DB.Close()
	}

	log.Println("✅ Container cleanup complete")
}
