package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	"github.com/ctecg/score-api/config"
	"github.com/ctecg/score-api/internal/cache"
	"github.com/ctecg/score-api/internal/handlers"
	"github.com/ctecg/score-api/internal/middleware"
	"github.com/ctecg/score-api/internal/repository"
	"github.com/ctecg/score-api/internal/services"
	"github.com/ctecg/score-api/pkg/db"
	"github.com/ctecg/score-api/pkg/httpclient"
	"github.com/ctecg/score-api/pkg/jwt"
	"github.com/ctecg/score-api/pkg/logger"
	"github.com/ctecg/score-api/pkg/mailer"
	"github.com/ctecg/score-api/pkg/metrics"
	"github.com/ctecg/score-api/pkg/profiling"
	"github.com/ctecg/score-api/pkg/tracing"
)

func registerPublicRoutes(
	api *gin.RouterGroup,
	publicRateLimiter, submitRateLimiter *middleware.RateLimiter,
	publicHandler *handlers.PublicHandler,
) {
	public := api.Group("/public")
	public.GET("/info", publicRateLimiter.Middleware(), publicHandler.Info)
	public.GET("/leaderboard", publicRateLimiter.Middleware(), publicHandler.Leaderboard)
	public.GET("/rating/:token", publicRateLimiter.Middleware(), publicHandler.GetRatingForm)
	public.GET("/rating/:token/status", publicRateLimiter.Middleware(), publicHandler.RatingStatus)
	public.POST("/rating/:token", submitRateLimiter.Middleware(), middleware.BodySizeLimitMiddleware(100*1024), publicHandler.SubmitRating)
}

func registerAuthRoutes(
	api *gin.RouterGroup,
	authRateLimiter *middleware.RateLimiter,
	tokenManager *jwt.TokenManager,
	authHandler *handlers.AuthHandler,
) {
	auth := api.Group("/auth")
	auth.POST("/login", authRateLimiter.Middleware(), authHandler.Login)
	auth.POST("/create-password", authRateLimiter.Middleware(), authHandler.CreatePassword)
	auth.POST("/forgot-password", authRateLimiter.Middleware(), authHandler.ForgotPassword)
	auth.POST("/reset-password", authRateLimiter.Middleware(), authHandler.ResetPassword)
	auth.POST("/logout", authHandler.Logout)

	session := auth.Group("")
	session.Use(middleware.SessionMiddleware(tokenManager))
	session.GET("/verify", authHandler.Verify)
	session.GET("/profile", authHandler.Profile)
}

func registerAdminRoutes(
	api *gin.RouterGroup,
	tokenManager *jwt.TokenManager,
	dashboardHandler *handlers.DashboardHandler,
	technicianHandler *handlers.TechnicianHandler,
	questionHandler *handlers.QuestionHandler,
	linkHandler *handlers.LinkHandler,
	ratingHandler *handlers.RatingHandler,
) {
	admin := api.Group("/admin")
	admin.Use(middleware.SessionMiddleware(tokenManager), middleware.RequireAdmin())

	admin.GET("/dashboard", dashboardHandler.Dashboard)
	admin.GET("/leaderboard", dashboardHandler.Leaderboard)
	admin.GET("/settings", dashboardHandler.GetSettings)
	admin.PUT("/settings", dashboardHandler.UpdateSettings)

	admin.GET("/technicians", technicianHandler.List)
	admin.POST("/technicians", technicianHandler.Create)
	admin.GET("/technicians/:id", technicianHandler.Get)
	admin.PUT("/technicians/:id", technicianHandler.Update)
	admin.DELETE("/technicians/:id", technicianHandler.Delete)
	admin.POST("/technicians/:id/adjust-points", technicianHandler.AdjustPoints)
	admin.GET("/technicians/:id/point-history", technicianHandler.PointHistory)

	admin.GET("/questions", questionHandler.List)
	admin.GET("/questions/inactive", questionHandler.ListInactive)
	admin.POST("/questions", questionHandler.Create)
	admin.PUT("/questions/:id", questionHandler.Update)
	admin.DELETE("/questions/:id", questionHandler.Delete)

	admin.GET("/rating-links", linkHandler.List)
	admin.POST("/rating-links", linkHandler.Create)

	admin.GET("/ratings", ratingHandler.List)
	admin.GET("/ratings/:id", ratingHandler.Get)
	admin.POST("/ratings/:id/override", ratingHandler.Override)
}

func registerTechnicianRoutes(
	api *gin.RouterGroup,
	tokenManager *jwt.TokenManager,
	technicianAppHandler *handlers.TechnicianAppHandler,
) {
	technician := api.Group("/technician")
	technician.Use(middleware.SessionMiddleware(tokenManager), middleware.RequireTechnician())

	technician.GET("/dashboard", technicianAppHandler.Dashboard)
	technician.GET("/ratings", technicianAppHandler.Ratings)
	technician.GET("/points", technicianAppHandler.Points)
	technician.GET("/leaderboard", technicianAppHandler.Leaderboard)
	technician.GET("/profile", technicianAppHandler.Profile)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	err = logger.Initialize(logger.Config{
		Level:       cfg.Logging.Level,
		LogDir:      cfg.Logging.Dir,
		Environment: cfg.Server.AppEnv,
		ServiceName: cfg.Observability.ServiceName,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting Ctecg Score API",
		zap.String("version", cfg.Observability.ServiceVersion),
		zap.String("environment", cfg.Server.AppEnv),
	)

	if cfg.Auth.JWTSecret == "" {
		logger.Fatal("JWT_SECRET is required")
	}

	tracerShutdown, err := tracing.InitTracer(
		cfg.Observability.ServiceName,
		cfg.Observability.ServiceVersion,
		cfg.Server.AppEnv,
		cfg.Observability.CollectorEndpoint,
	)
	if err != nil {
		logger.Fatal("Failed to initialize tracer", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tracerShutdown(ctx); shutdownErr != nil {
			logger.Error("Failed to shutdown tracer", zap.Error(shutdownErr))
		}
	}()

	if cfg.Profiling.Enabled {
		stopProfiler, err := profiling.InitProfiler(profiling.Config{
			Enabled:               cfg.Profiling.Enabled,
			Endpoint:              cfg.Profiling.Endpoint,
			AppName:               cfg.Profiling.AppName,
			SampleTypes:           cfg.Profiling.SampleTypes,
			UploadIntervalSeconds: cfg.Profiling.UploadIntervalSeconds,
		}, cfg.Observability.ServiceName, cfg.Observability.ServiceVersion, cfg.Server.AppEnv)
		if err != nil {
			logger.Error("Failed to initialize profiler", zap.Error(err))
		} else {
			defer stopProfiler()
		}
	}

	metrics.Init(cfg.Observability.ServiceName)
	metrics.RecordInfrastructureMetrics()

	pool, err := db.NewPool(context.Background(), db.PoolConfig{
		URL:      cfg.Database.URL,
		MaxConns: cfg.Database.MaxConns,
		MinConns: cfg.Database.MinConns,
	})
	if err != nil {
		logger.Fatal("Failed to initialize database connection pool", zap.Error(err))
	}
	defer pool.Close()

	// Migrations run separately via the migrate command

	tokenManager := jwt.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.SessionTTLHours)
	httpClient := httpclient.NewStandardClient()
	mail := mailer.New(mailer.Config{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
	})
	if !mail.Enabled() {
		logger.Warn("SMTP not configured - rating link and reset emails are disabled")
	}

	leaderboardCache := cache.NewLeaderboardCache(cfg.Cache.LeaderboardTTLSeconds)

	// Repositories
	adminRepo := repository.NewAdminRepository(pool)
	techRepo := repository.NewTechnicianRepository(pool)
	questionRepo := repository.NewQuestionRepository(pool)
	linkRepo := repository.NewRatingLinkRepository(pool)
	ratingRepo := repository.NewRatingRepository(pool)
	pointsRepo := repository.NewPointsRepository(pool)
	settingsRepo := repository.NewSettingsRepository(pool)
	leaderboardRepo := repository.NewLeaderboardRepository(pool)

	// Services
	authService := services.NewAuthService(adminRepo, techRepo, tokenManager, mail, cfg)
	ratingService := services.NewRatingService(ratingRepo, linkRepo, questionRepo, settingsRepo, leaderboardCache, httpClient, cfg)
	linkService := services.NewLinkService(linkRepo, techRepo, mail, httpClient, cfg)
	questionService := services.NewQuestionService(questionRepo)
	technicianService := services.NewTechnicianService(techRepo, pointsRepo, leaderboardCache)
	leaderboardService := services.NewLeaderboardService(leaderboardRepo, settingsRepo, leaderboardCache, cfg.Cache.DisableLeaderboardCache)
	dashboardService := services.NewDashboardService(leaderboardRepo, ratingRepo, techRepo, pointsRepo, settingsRepo)
	settingsService := services.NewSettingsService(settingsRepo, leaderboardCache)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	publicHandler := handlers.NewPublicHandler(ratingService, settingsService, leaderboardService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService, leaderboardService, settingsService)
	technicianHandler := handlers.NewTechnicianHandler(technicianService)
	questionHandler := handlers.NewQuestionHandler(questionService)
	linkHandler := handlers.NewLinkHandler(linkService)
	ratingHandler := handlers.NewRatingHandler(ratingService)
	technicianAppHandler := handlers.NewTechnicianAppHandler(dashboardService, ratingService, leaderboardService)
	healthHandler := handlers.NewHealthHandler(func(c *gin.Context) error {
		return pool.Ping(c.Request.Context())
	})

	gin.SetMode(cfg.Server.GinMode)
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(cfg.Observability.ServiceName))
	router.Use(middleware.ObservabilityMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware())

	allowedOrigins := cfg.Server.AllowedOrigins
	if cfg.IsDevelopment() {
		allowedOrigins = append(allowedOrigins, "http://localhost:3000", "http://127.0.0.1:3000")
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-Token", "traceparent", "tracestate"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	generalRateLimiter := middleware.NewRateLimiter(100, 200)    // internal surfaces behind auth
	publicRateLimiter := middleware.NewRateLimiter(20, 40)       // public form loads and leaderboard
	submitRateLimiter := middleware.NewRateLimiter(1, 5)         // one submission per second per IP
	authRateLimiter := middleware.NewRateLimiter(0.5, 5)         // login and password flows

	api := router.Group("/api")
	api.GET("/health", generalRateLimiter.Middleware(), healthHandler.Healthcheck)
	api.GET("/ready", generalRateLimiter.Middleware(), healthHandler.Readiness)
	api.GET("/metrics", generalRateLimiter.Middleware(), gin.WrapH(promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})))

	registerPublicRoutes(api, publicRateLimiter, submitRateLimiter, publicHandler)
	registerAuthRoutes(api, authRateLimiter, tokenManager, authHandler)
	registerAdminRoutes(api, tokenManager, dashboardHandler, technicianHandler, questionHandler, linkHandler, ratingHandler)
	registerTechnicianRoutes(api, tokenManager, technicianAppHandler)

	srv := &http.Server{
		Addr:              "0.0.0.0:" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 15 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		logger.Info("Server started", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
