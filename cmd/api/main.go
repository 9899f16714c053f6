package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/SahanaD8/Trackify/internal/domain"
	"github.com/SahanaD8/Trackify/internal/http/handlers"
	imw "github.com/SahanaD8/Trackify/internal/http/middleware"
	"github.com/SahanaD8/Trackify/internal/notify"
	"github.com/SahanaD8/Trackify/internal/platform/mailer"
	"github.com/SahanaD8/Trackify/internal/platform/sms"
	"github.com/SahanaD8/Trackify/internal/repo/postgres"
	"github.com/SahanaD8/Trackify/internal/service"
	"github.com/SahanaD8/Trackify/pkg/config"
	"github.com/SahanaD8/Trackify/pkg/database"
	"github.com/SahanaD8/Trackify/pkg/events"
	"github.com/SahanaD8/Trackify/pkg/logger"
	mw "github.com/SahanaD8/Trackify/pkg/middleware"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	// Connect to database
	ctx := context.Background()
	pool, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	// Apply pending migrations
	migrationsPath := os.Getenv("MIGRATIONS_PATH")
	if migrationsPath == "" {
		migrationsPath = "migrations"
	}
	if err := database.RunMigrations(cfg.Database.URL, migrationsPath); err != nil {
		logger.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Connect to Redis (rate limiting)
	redisOpts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		logger.Error("Invalid Redis URL", "error", err)
		os.Exit(1)
	}
	if cfg.Redis.Password != "" {
		redisOpts.Password = cfg.Redis.Password
	}
	redisOpts.DB = cfg.Redis.DB
	redisClient := redis.NewClient(redisOpts)
	defer redisClient.Close()

	// Connect to event bus
	eventBus, err := events.NewNATSEventBus(cfg.NATS.URL)
	if err != nil {
		logger.Error("Failed to connect to NATS", "error", err)
		os.Exit(1)
	}
	defer eventBus.Close()

	// Outbound channels
	emailSvc := buildMailer(cfg)
	smsSender := buildSMS(cfg)
	dispatcher := notify.NewDispatcher(emailSvc, smsSender, eventBus)

	// Repositories
	visitorRepo := postgres.NewVisitorRepo(pool)
	staffRepo := postgres.NewStaffRepo(pool)
	otpRepo := postgres.NewOTPRepo(pool)
	accountRepo := postgres.NewAccountRepo(pool)

	// Services
	otpSvc := service.NewOTPService(otpRepo, dispatcher, cfg)
	visitSvc := service.NewVisitService(visitorRepo, staffRepo, otpSvc, dispatcher)
	presenceSvc := service.NewPresenceService(staffRepo, dispatcher)
	authSvc := service.NewAuthService(accountRepo, cfg)
	reportSvc := service.NewReportService(visitorRepo, staffRepo)

	// Periodically reap consumed and expired OTP rows
	cleanupCtx, cancelCleanup := context.WithCancel(ctx)
	defer cancelCleanup()
	go runOTPCleanup(cleanupCtx, otpSvc, cfg.OTP.CleanupInterval)

	// Handlers
	otpLimiter := imw.NewRateLimiter(redisClient, imw.RateLimitConfig{
		Requests: cfg.OTP.RateLimit,
		Window:   cfg.OTP.RateWindow,
		KeyFunc:  imw.OTPRateLimitKeyFunc,
	})
	authHandler := handlers.NewAuthHandler(otpSvc, authSvc, cfg.Email.DevMode)
	visitorHandler := handlers.NewVisitorHandler(visitSvc)
	staffHandler := handlers.NewStaffHandler(presenceSvc)
	receptionistHandler := handlers.NewReceptionistHandler(visitSvc)
	securityHandler := handlers.NewSecurityHandler(visitSvc, presenceSvc)
	principalHandler := handlers.NewPrincipalHandler(reportSvc)

	// Setup router
	r := chi.NewRouter()

	r.Use(mw.RequestID)
	r.Use(mw.Logging)
	r.Use(mw.Health)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	secret := cfg.Auth.JWTSecret
	r.Route("/api", func(r chi.Router) {
		r.Mount("/auth", authHandler.Routes(otpLimiter.Middleware()))
		r.Mount("/visitors", visitorHandler.Routes())
		r.Mount("/staff", staffHandler.Routes())

		r.With(imw.RequireRole(secret, domain.RoleReceptionist)).
			Mount("/receptionist", receptionistHandler.Routes())
		r.With(imw.RequireRole(secret, domain.RoleSecurity)).
			Mount("/security", securityHandler.Routes())
		r.With(imw.RequireRole(secret, domain.RolePrincipal)).
			Mount("/principal", principalHandler.Routes())
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info("Shutting down...")
		cancelCleanup()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
	}()

	logger.Info("Starting server", "port", cfg.Server.Port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err)
		os.Exit(1)
	}
}

// buildMailer picks the outbound email channel: dev logging, MailerSend
// when an API key is configured, SMTP otherwise.
func buildMailer(cfg *config.Config) mailer.Service {
	if cfg.Email.DevMode {
		return mailer.NewDevMailer()
	}
	if cfg.Email.MailerSendKey != "" {
		m, err := mailer.NewMailerSend(cfg.Email.MailerSendKey, cfg.Email.FromName, cfg.Email.FromEmail)
		if err == nil {
			return m
		}
		logger.Error("MailerSend setup failed, falling back to SMTP", "error", err)
	}
	return mailer.NewSMTPMailer(
		cfg.Email.SMTPHost, cfg.Email.SMTPPort,
		cfg.Email.FromEmail, cfg.Email.SMTPUser, cfg.Email.SMTPPass,
		cfg.Email.SMTPUseTLS,
	)
}

func buildSMS(cfg *config.Config) sms.Sender {
	if cfg.SMS.DevMode || cfg.SMS.TwilioAccountSID == "" {
		return sms.NewDevSender()
	}
	s, err := sms.NewTwilioSender(cfg.SMS.TwilioAccountSID, cfg.SMS.TwilioAuthToken, cfg.SMS.TwilioFromNumber)
	if err != nil {
		logger.Error("Twilio setup failed, using dev SMS sender", "error", err)
		return sms.NewDevSender()
	}
	return s
}

func runOTPCleanup(ctx context.Context, otp service.OTPService, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := otp.CleanupExpired(ctx)
			if err != nil {
				logger.Error("OTP cleanup failed", "error", err)
				continue
			}
			if n > 0 {
				logger.Info("OTP cleanup", "removed", n)
			}
		}
	}
}
