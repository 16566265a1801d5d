// Command server runs the portfolio backend: static landing page, contact
// form API, and owner notifications.
//
// Startup is deliberately forgiving: a missing database or missing mail
// credentials do not abort the process. The submission pipeline degrades
// (accepting submissions without persistence, or skipping notifications)
// and the condition is logged, matching how the site has always behaved.
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
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/bpatel/go-portfolio-backend/internal/config"
	httpapi "github.com/bpatel/go-portfolio-backend/internal/http"
	"github.com/bpatel/go-portfolio-backend/internal/mail"
	"github.com/bpatel/go-portfolio-backend/internal/observability"
	"github.com/bpatel/go-portfolio-backend/internal/repo"
	"github.com/bpatel/go-portfolio-backend/internal/sysutil"
)

// version is stamped via -ldflags at release time.
var version = "dev"

func main() {
	_ = godotenv.Load()

	cfg := config.MustLoad()

	// Logging
	sysutil.SetLogLevel(cfg.LogLevel)
	if cfg.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
	log.Info().Str("version", version).Msg("starting go-portfolio-backend")

	// Tracing (no-op unless OTEL_ENABLED)
	ctx := context.Background()
	shutdownOTel, err := observability.SetupOTel(ctx, cfg.OTEL, version)
	if err != nil {
		log.Fatal().Err(err).Msg("otel setup failed")
	}
	defer func() {
		if err := shutdownOTel(context.Background()); err != nil {
			log.Warn().Err(err).Msg("otel shutdown")
		}
	}()

	// Contact store. Unreachable storage is not fatal: the write path
	// degrades and the admin read path serves 503 until it recovers.
	var db *gorm.DB
	if db, err = repo.OpenSQLite(cfg.DBPath); err != nil {
		log.Error().Err(err).Str("path", cfg.DBPath).Msg("contact store unavailable, continuing without database")
		db = nil
	} else if err = repo.AutoMigrate(db); err != nil {
		log.Error().Err(err).Msg("contact store migration failed, continuing without database")
		db = nil
	} else {
		log.Info().Str("path", cfg.DBPath).Msg("contact store ready")
	}

	// Mail transport. Without credentials the notifier is disabled.
	var sender mail.Sender
	if cfg.Mail.Enabled() {
		sender = mail.NewSMTPSender(cfg.Mail.Host, cfg.Mail.Port, cfg.Mail.Username, cfg.Mail.Password)
		log.Info().Str("host", cfg.Mail.Host).Msg("mail transport ready")
	} else {
		log.Warn().Msg("EMAIL_USER/EMAIL_PASS not set, owner notifications disabled")
	}

	// HTTP
	gin.SetMode(cfg.GinMode)
	r := gin.New()
	httpapi.RegisterRoutes(r, db, sender, cfg)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Graceful shutdown on SIGINT/SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}
}
