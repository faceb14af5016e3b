package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"taskmanager/internal/config"
	"taskmanager/internal/database"
	"taskmanager/internal/middleware"
	"taskmanager/internal/modules/activity"
	"taskmanager/internal/modules/admin"
	"taskmanager/internal/modules/auth"
	"taskmanager/internal/modules/comment"
	"taskmanager/internal/modules/tag"
	"taskmanager/internal/modules/task"
	jwtsvc "taskmanager/internal/pkg/jwt"
	"taskmanager/internal/pkg/logging"
	"taskmanager/internal/pkg/mail"
	"taskmanager/internal/pkg/rate"
	"taskmanager/internal/repository"
)

func main() {
	_ = godotenv.Load()

	log := logging.New(os.Getenv("LOG_LEVEL"))

	cfg, err := config.Load()
	if err != nil {
		log.Error("config load failed", "error", err)
		os.Exit(1)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	if err := database.Migrate(db); err != nil {
		log.Error("migration failed", "error", err)
		os.Exit(1)
	}

	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	tagRepo := repository.NewTagRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	revokedRepo := repository.NewRevokedTokenRepository(db)
	resetRepo := repository.NewPasswordResetRepository(db)
	activityRepo := repository.NewActivityRepository(db)

	j := jwtsvc.New(cfg.JWTSecret, cfg.AccessTTL, cfg.RefreshTTL)

	var mailer mail.Mailer
	if cfg.MailHost != "" {
		mailer = mail.NewSMTPMailer(cfg.MailHost, cfg.MailPort, cfg.MailUser, cfg.MailPass, cfg.MailSender, cfg.FrontendURL)
	} else {
		mailer = mail.NewConsoleMailer(log)
	}

	activitySvc := activity.NewService(activityRepo, log)
	activityHandler := activity.NewHandler(activitySvc)

	authSvc := auth.NewService(userRepo, revokedRepo, resetRepo, j, mailer, cfg.ResetTokenTTL, log)
	authHandler := auth.NewHandler(authSvc, activitySvc)

	taskSvc := task.NewService(taskRepo, tagRepo)
	taskHandler := task.NewHandler(taskSvc, activitySvc)

	tagSvc := tag.NewService(tagRepo)
	tagHandler := tag.NewHandler(tagSvc, activitySvc)

	commentSvc := comment.NewService(commentRepo, taskRepo)
	commentHandler := comment.NewHandler(commentSvc, activitySvc)

	adminSvc := admin.NewService(userRepo, taskRepo)
	adminHandler := admin.NewHandler(adminSvc, activitySvc)

	if cfg.AppEnv == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.CORS())

	var sensitive []gin.HandlerFunc
	v1 := r.Group("/api/v1")
	{
		public := v1.Group("/")
		if cfg.RateLimitEnabled {
			authLimiter := rate.NewLimiter(10, time.Minute)
			public.Use(middleware.RateLimit(authLimiter, "auth"))
			sensitive = append(sensitive, middleware.RateLimit(authLimiter, "logout_all"))
		}
		authHandler.RegisterPublicRoutes(public)

		refresh := v1.Group("/")
		refresh.Use(middleware.RequireRefresh(j, revokedRepo))
		authHandler.RegisterRefreshRoutes(refresh)

		protected := v1.Group("/")
		protected.Use(middleware.RequireAuth(j, revokedRepo))
		{
			authHandler.RegisterProtectedRoutes(protected, sensitive...)
			taskHandler.RegisterRoutes(protected)
			tagHandler.RegisterRoutes(protected)
			commentHandler.RegisterRoutes(protected)
			activityHandler.RegisterRoutes(protected)

			adminGroup := protected.Group("/")
			adminGroup.Use(middleware.AdminOnly(userRepo))
			adminHandler.RegisterRoutes(adminGroup)
		}
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("http server starting", "addr", cfg.HTTPAddr, "env", cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("shutdown failed", "error", err)
	}
}
