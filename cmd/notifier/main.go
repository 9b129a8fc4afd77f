// cmd/notifier/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"storefront-notifications/internal/common/config"
	"storefront-notifications/internal/common/database"
	"storefront-notifications/internal/common/logger"
	"storefront-notifications/internal/notification/api"
	"storefront-notifications/internal/notification/channel"
	"storefront-notifications/internal/notification/dispatch"
	"storefront-notifications/internal/notification/events"
	"storefront-notifications/internal/notification/inbox"
	"storefront-notifications/internal/notification/recipients"
	"storefront-notifications/internal/notification/store"
	"storefront-notifications/pkg/registry"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting notification service...",
		zap.String("environment", cfg.App.Environment),
		zap.String("siteName", cfg.App.SiteName),
	)

	ctx := context.Background()

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	// --- Init Redis with retry ---
	var rdb *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		rdb, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return rdb.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")
	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer rdb.Close()
	zapLog.Info("Redis connected successfully")

	// --- Migrate schema and seed notification types ---
	notificationStore := store.NewPostgres(pg.DB)
	if err := notificationStore.Migrate(ctx); err != nil {
		zapLog.Fatal("schema migration failed", zap.Error(err))
	}

	reg := registry.Defaults()
	if cfg.Notifications.RegistryPath != "" {
		reg, err = registry.Load(cfg.Notifications.RegistryPath)
		if err != nil {
			zapLog.Fatal("type registry load failed",
				zap.Error(err),
				zap.String("path", cfg.Notifications.RegistryPath),
			)
		}
	}
	if err := notificationStore.SeedTypes(ctx, reg); err != nil {
		zapLog.Fatal("type seeding failed", zap.Error(err))
	}
	zapLog.Info("Notification types seeded", zap.Int("types", len(reg.Types)))

	// --- Build delivery channels ---
	var emailSender channel.EmailSender
	if cfg.Notifications.Email.Enabled {
		switch cfg.Notifications.Email.Provider {
		case "ses":
			emailSender, err = channel.NewSESEmail(ctx,
				cfg.Notifications.Email.AWSRegion,
				cfg.Notifications.Email.FromEmail, log)
			if err != nil {
				zapLog.Fatal("SES client init failed", zap.Error(err))
			}
		case "smtp":
			smtpSender := channel.NewSMTPEmail(cfg.Notifications.Email, log)
			if err := smtpSender.TestConnection(ctx); err != nil {
				zapLog.Warn("SMTP relay unreachable at startup", zap.Error(err))
			}
			emailSender = smtpSender
		}
		zapLog.Info("Email channel enabled", zap.String("provider", cfg.Notifications.Email.Provider))
	}

	var smsSender channel.SMSSender
	if cfg.Notifications.SMS.Enabled {
		smsSender, err = channel.NewSNSSMS(ctx,
			cfg.Notifications.SMS.AWSRegion,
			cfg.Notifications.SMS.SenderID, log)
		if err != nil {
			zapLog.Fatal("SNS client init failed", zap.Error(err))
		}
		zapLog.Info("SMS channel enabled")
	}

	// --- Assemble the notification core ---
	dispatcher := dispatch.New(notificationStore, emailSender, smsSender, dispatch.Config{
		SiteName:    cfg.App.SiteName,
		FrontendURL: cfg.App.FrontendURL,
		SendTimeout: cfg.Notifications.SendTimeout(),
	}, log)

	resolver := recipients.NewPostgresResolver(pg.DB)
	notifier := events.NewNotifier(dispatcher, resolver, log)
	userInbox := inbox.New(notificationStore, rdb.Client, log)

	// --- HTTP API ---
	apiServer := &http.Server{
		Addr:    cfg.App.ListenAddr,
		Handler: api.NewServer(userInbox, notifier, log).Handler(),
	}
	go func() {
		zapLog.Info("API listening", zap.String("addr", cfg.App.ListenAddr))
		if err := apiServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Fatal("API server failed", zap.Error(err))
		}
	}()

	// --- Metrics endpoint ---
	metricsServer := &http.Server{
		Addr:    cfg.App.MetricsAddr,
		Handler: promhttp.Handler(),
	}
	go func() {
		zapLog.Info("Metrics endpoint listening", zap.String("addr", cfg.App.MetricsAddr))
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Error("metrics server failed", zap.Error(err))
		}
	}()

	zapLog.Info("Notification service ready")

	// --- Wait for shutdown signal ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	zapLog.Info("Shutdown signal received", zap.String("signal", sig.String()))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("API server shutdown failed", zap.Error(err))
	}
	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("metrics server shutdown failed", zap.Error(err))
	}

	// Drain in-flight email/SMS sends before closing connections.
	dispatcher.Wait()
	zapLog.Info("Notification service stopped")
}
