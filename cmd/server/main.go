package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"demobooking/internal/api"
	"demobooking/internal/auth"
	"demobooking/internal/calendar"
	"demobooking/internal/config"
	"demobooking/internal/service"
	"demobooking/internal/utils"

	"github.com/gorilla/handlers"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := utils.NewLogger(cfg.IsProduction())
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()

	ctx := context.Background()
	provider := calendar.New(ctx, cfg, logger)
	if err := provider.Ready(); err != nil {
		logger.Warn("calendar provider not ready, bookings will fail", zap.String("provider", provider.Name()), zap.Error(err))
	}

	mailer := service.NewSendGridMailer(cfg.SendGridAPIKey, cfg.SendGridFromEmail, cfg.SendGridFromName, logger)
	if !cfg.EmailConfigured() {
		logger.Warn("SendGrid not configured, emails will not be sent")
	}
	var sms service.SMSSender
	if cfg.SMSConfigured() {
		sms = service.NewTwilioSMS(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioFromNumber, logger)
	}
	sender := service.NewSenderService(mailer, sms, cfg.BrandName, cfg.AdminEmail, cfg.AdminPhone, logger)

	bookingSvc := service.NewBookingService(provider, sender, cfg.BrandName, cfg.AdminEmail, logger)
	adminSvc := service.NewAdminService(provider, logger)
	adminAuthSvc := service.NewAdminAuthService(cfg.AdminLoginEmail, cfg.AdminPasswordHash, cfg.JWTSecret)

	jobs := service.NewJobService(provider, logger)
	scheduler, err := jobs.Schedule(cfg.TokenWarmSchedule)
	if err != nil {
		logger.Fatal("failed to schedule token warm job", zap.Error(err))
	}
	if scheduler != nil {
		scheduler.Start()
		logger.Info("token warm job scheduled", zap.String("schedule", cfg.TokenWarmSchedule))
	}

	router := api.NewRouter(api.Handlers{
		Booking:   api.NewBookingHandler(bookingSvc, logger),
		Admin:     api.NewAdminHandler(adminSvc, logger),
		AdminAuth: api.NewAdminAuthHandler(adminAuthSvc, logger),
		Health:    api.NewHealthHandler(provider),
	}, api.NewRateLimiter(cfg.RateLimitPerMin, logger), auth.AdminAuthMiddleware(cfg.JWTSecret))

	cors := handlers.CORS(
		handlers.AllowedOrigins(cfg.AllowedOrigins()),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
	)
	var handler http.Handler = cors(router)
	if cfg.TrustProxyHeaders {
		// Only behind a proxy that overwrites X-Forwarded-For.
		handler = handlers.ProxyHeaders(handler)
	}
	handler = handlers.RecoveryHandler(handlers.PrintRecoveryStack(!cfg.IsProduction()))(handler)
	handler = handlers.CombinedLoggingHandler(os.Stdout, handler)

	srv := &http.Server{
		Addr:         ":" + cfg.AppPort,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	logger.Info("server running", zap.String("port", cfg.AppPort), zap.String("provider", provider.Name()))
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed to start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("server is shutting down")

	if scheduler != nil {
		<-scheduler.Stop().Done()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
}
