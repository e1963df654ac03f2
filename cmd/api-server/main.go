package main

import (
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"

	"libraryhub/database"
	"libraryhub/internal/config"
	"libraryhub/internal/http-api/cache"
	"libraryhub/internal/http-api/handler"
	"libraryhub/internal/http-api/middleware"
	"libraryhub/internal/http-api/repository"
	"libraryhub/internal/http-api/service"
)

func main() {
	// Load config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	logger := newLogger(cfg)

	// Connect to the database and run migrations
	db, err := database.ConnectDB(cfg, logger)
	if err != nil {
		log.Fatalf("could not connect to database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("could not get database instance: %v", err)
	}
	defer sqlDB.Close()

	// Report cache is optional; without Redis reports hit Postgres directly
	var reportCache *cache.ReportCache
	if cfg.RedisURL != "" {
		reportCache, err = cache.NewReportCache(cfg.RedisURL, cfg.RedisPassword, time.Duration(cfg.CacheTTL)*time.Second)
		if err != nil {
			logger.Warn("report cache disabled", "error", err)
			reportCache = nil
		} else {
			defer reportCache.Close()
		}
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	refreshTokenRepo := repository.NewRefreshTokenRepository(db)
	bookRepo := repository.NewBookRepository(db)
	memberRepo := repository.NewMemberRepository(db)
	loanRepo := repository.NewLoanRepository(db)
	fineRepo := repository.NewFineRepository(db)

	// Services
	authService := service.NewAuthService(userRepo, refreshTokenRepo, cfg)
	permissions := service.NewPermissionService(userRepo, logger)
	bookService := service.NewBookService(bookRepo, loanRepo)
	memberService := service.NewMemberService(memberRepo, loanRepo)
	circulationService := service.NewCirculationService(bookRepo, memberRepo, loanRepo, fineRepo, cfg, logger)
	fineService := service.NewFineService(fineRepo, memberRepo)
	reportService := service.NewReportService(bookRepo, memberRepo, loanRepo, reportCache, logger)
	organizationService := service.NewOrganizationService(userRepo)

	// Handlers
	authHandler := handler.NewAuthHandler(authService, permissions)
	bookHandler := handler.NewBookHandler(bookService, permissions)
	memberHandler := handler.NewMemberHandler(memberService, fineService, permissions)
	circulationHandler := handler.NewCirculationHandler(circulationService, permissions)
	fineHandler := handler.NewFineHandler(fineService, permissions)
	reportHandler := handler.NewReportHandler(reportService, permissions)
	organizationHandler := handler.NewOrganizationHandler(organizationService, permissions)

	// Setup Gin
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(middleware.RateLimit(cfg.RateLimitPerSecond, cfg.RateLimitBurst))

	r.GET("/check-conn", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"message": "API is alive and database connected"})
	})

	// Public auth routes
	authHandler.RegisterRoutes(r.Group("/api/auth"))

	// Protected routes
	api := r.Group("/api")
	api.Use(middleware.AuthMiddleware(authService))
	{
		api.GET("/me/permissions", authHandler.MyPermissions)
		bookHandler.RegisterRoutes(api.Group("/books"))
		memberHandler.RegisterRoutes(api.Group("/members"))
		circulationHandler.RegisterRoutes(api.Group("/circulation"))
		fineHandler.RegisterRoutes(api.Group("/fines"))
		reportHandler.RegisterRoutes(api.Group("/reports"))
		organizationHandler.RegisterRoutes(api.Group("/users"))
	}

	addr := fmt.Sprintf(":%d", cfg.HTTPPort)
	logger.Info("server starting", "addr", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}

func newLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var h slog.Handler
	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}
	return slog.New(h)
}
