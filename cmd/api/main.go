package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/stripe/stripe-go/v84"

	"github.com/fatitalo/quickfeedback/internal/api/handlers"
	"github.com/fatitalo/quickfeedback/internal/api/router"
	"github.com/fatitalo/quickfeedback/internal/config"
	"github.com/fatitalo/quickfeedback/internal/mailer"
	"github.com/fatitalo/quickfeedback/internal/pkg/logger"
	"github.com/fatitalo/quickfeedback/internal/pkg/validator"
	"github.com/fatitalo/quickfeedback/internal/repository/postgres"
	"github.com/fatitalo/quickfeedback/internal/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(logger.Config{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		OutputPath: cfg.Logging.OutputPath,
	})
	log := logger.New(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})

	db, err := postgres.New(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	val := validator.New()

	// Repositories
	userRepo := postgres.NewUserRepository(db)
	feedbackRepo := postgres.NewFeedbackRepository(db)

	// External clients
	var sc *stripe.Client
	if cfg.Stripe.SecretKey != "" {
		sc = stripe.NewClient(cfg.Stripe.SecretKey)
	} else {
		log.Warn("STRIPE_SECRET_KEY not set, billing endpoints will return config errors")
	}
	mail := mailer.NewMailjet(cfg.Mail.APIKey, cfg.Mail.SecretKey, cfg.Mail.FromEmail, cfg.Mail.FromName)

	// Services
	userService := services.NewUserService(userRepo, log)
	feedbackService := services.NewFeedbackService(feedbackRepo, userRepo, mail, cfg.Mail.FallbackNotifyEmail, log)
	billingService := services.NewBillingService(sc, userService, cfg.Stripe, cfg.Server.PublicURL, log)

	// Handlers
	h := &router.Handlers{
		Health:   handlers.NewHealthHandler(db.DB, log),
		Auth:     handlers.NewAuthHandler(userService, log),
		Feedback: handlers.NewFeedbackHandler(feedbackService, log, val),
		Billing:  handlers.NewBillingHandler(billingService, log),
		Webhook:  handlers.NewWebhookHandler(billingService, log),
		Widget:   handlers.NewWidgetHandler(),
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.New(cfg, log, h),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Infof("Server listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorf("Server shutdown failed: %v", err)
	}

	log.Info("Server stopped")
}
