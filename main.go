// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/spf13/afero"

	"github.com/danielhkuo/petition-desk/auth"
	"github.com/danielhkuo/petition-desk/cliparse"
	"github.com/danielhkuo/petition-desk/db"
	"github.com/danielhkuo/petition-desk/images"
	"github.com/danielhkuo/petition-desk/logging"
	"github.com/danielhkuo/petition-desk/metrics"
	"github.com/danielhkuo/petition-desk/middleware"
	"github.com/danielhkuo/petition-desk/router"
	"github.com/danielhkuo/petition-desk/store"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// .env files are optional
	if _, err := cliparse.LoadEnvFiles(); err != nil {
		return err
	}

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		return err
	}

	if _, err := logging.New(logging.Options{
		Level:      cfg.LogLevel,
		JSON:       cfg.LogJSON,
		SetDefault: true,
	}); err != nil {
		return err
	}

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	ctx := context.Background()

	// Connect and verify
	conn, err := db.Open(ctx, cfg.Dialect(), cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer conn.Close()

	// Create schema (tables)
	st := store.New(conn, cfg.Dialect(), loc)
	if err := st.Setup(ctx); err != nil {
		return err
	}
	slog.Info("Database schema ready", "dialect", cfg.Dialect())

	created, err := st.EnsureUser(ctx, cfg.SuperUsername, cfg.SuperName, func() (string, error) {
		return auth.HashPassword(cfg.SuperPassword)
	})
	if err != nil {
		return err
	}
	if created {
		slog.Info("super admin seeded", "username", cfg.SuperUsername)
	}

	sink, err := images.NewSink(cfg.ImageStorage, afero.NewOsFs(), cfg.UploadDir, cfg.UploadBaseURL)
	if err != nil {
		return err
	}
	if sink == nil {
		slog.Warn("IMAGE_STORAGE=disk without UPLOAD_DIR; submissions with images will fail")
	}

	loginLimit, err := middleware.NewRateLimit(cfg.LoginRate, cfg.TrustProxy)
	if err != nil {
		return err
	}

	var m *metrics.Metrics
	if cfg.MetricsEnabled {
		m = metrics.New()
	}

	handler := router.NewRouter(router.Deps{
		Store:      st,
		Sessions:   auth.NewSessions(cfg.AppSecret, cfg.SessionTTL, cfg.SecureCookies),
		Images:     sink,
		Metrics:    m,
		LoginLimit: loginLimit,
	}, cfg)

	// Create server
	server := &http.Server{
		Handler:           handler,
		Addr:              ":" + strconv.Itoa(cfg.Port),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	drained := make(chan struct{})
	go func() {
		defer close(drained)
		// Wait for Ctrl-C signal
		<-ctrlc
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown failed", "error", err)
			_ = server.Close()
		}
	}()

	// Start server
	slog.Info("Listening", "port", cfg.Port, "images", cfg.ImageStorage, "metrics", cfg.MetricsEnabled)
	err = server.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	<-drained
	slog.Info("Server closed")
	return nil
}
