package main

import (
	"context"
	"log"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/strideapp/stride/internal/analytics"
	"github.com/strideapp/stride/internal/backend"
	"github.com/strideapp/stride/internal/config"
	"github.com/strideapp/stride/internal/db"
	"github.com/strideapp/stride/internal/security"
	"github.com/strideapp/stride/internal/session"
	"github.com/strideapp/stride/internal/web"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	location := mustLoadLocation(cfg.Timezone)
	time.Local = location

	secretKey := cfg.SecretKey
	if secretKey == "" {
		generated, err := security.EphemeralSecret(48)
		if err != nil {
			log.Fatalf("secret generation failed: %v", err)
		}
		secretKey = generated
		log.Printf("SECRET_KEY not set, using an ephemeral secret")
	}

	database, err := db.OpenSQLite(cfg.DBPath)
	if err != nil {
		log.Fatalf("database init failed: %v", err)
	}

	sealer, err := security.NewSealer([]byte(secretKey))
	if err != nil {
		log.Fatalf("sealer init failed: %v", err)
	}

	repositories := db.NewRepositories(database)
	sessions := session.NewStore(repositories.Sessions, sealer, time.Duration(cfg.SessionTTLHours)*time.Hour)
	apiClient := backend.New(cfg.APIBaseURL)
	tracker := analytics.NewTracker(cfg.AnalyticsURL, cfg.AnalyticsToken)

	handler, err := web.NewHandler(sessions, apiClient, tracker, secretKey, web.Options{
		Location:       location,
		CookieSecure:   cfg.CookieSecure,
		CodeTTLSeconds: cfg.CodeTTLSeconds,
	})
	if err != nil {
		log.Fatalf("handler init failed: %v", err)
	}

	app := fiber.New(fiber.Config{
		AppName:               "Stride",
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(compress.New())
	app.Use(csrf.New(csrf.Config{
		KeyLookup:      "form:_csrf",
		CookieName:     "stride_csrf",
		CookieSameSite: "Lax",
		CookieHTTPOnly: false,
		CookieSecure:   cfg.CookieSecure,
		ContextKey:     "csrf",
	}))

	app.Static("/static", filepath.Join("web", "static"))
	web.RegisterRoutes(app, handler)

	lifecycleCtx, cancelLifecycle := context.WithCancel(context.Background())
	defer cancelLifecycle()
	go purgeExpiredSessions(lifecycleCtx, sessions)

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	go func() {
		<-sigCtx.Done()
		cancelLifecycle()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			log.Printf("server shutdown failed: %v", err)
		}
	}()

	log.Printf("Stride listening on http://0.0.0.0:%s (db: %s, api: %s, tz: %s)", cfg.Port, cfg.DBPath, cfg.APIBaseURL, location.String())
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}

func purgeExpiredSessions(ctx context.Context, sessions *session.Store) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := sessions.PurgeExpired(); err != nil {
				log.Printf("session purge failed: %v", err)
			}
		}
	}
}

func mustLoadLocation(name string) *time.Location {
	location, err := time.LoadLocation(name)
	if err != nil {
		log.Printf("invalid TZ %q, falling back to UTC", name)
		return time.UTC
	}
	return location
}
