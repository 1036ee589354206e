package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joshsymonds/hitautotrack/internal/config"
	"github.com/joshsymonds/hitautotrack/internal/inbox"
	"github.com/joshsymonds/hitautotrack/internal/rate"
	"github.com/joshsymonds/hitautotrack/internal/runtime"
	"github.com/joshsymonds/hitautotrack/internal/session"
	"github.com/joshsymonds/hitautotrack/internal/web"
)

const shutdownTimeout = 10 * time.Second

type flags struct {
	envFile string
}

func main() {
	f := parseFlags()
	if err := run(f); err != nil {
		runtime.DefaultLogger().Error("hitautotrack failed", "error", err)
		os.Exit(1)
	}
}

func parseFlags() flags {
	envFile := flag.String("env-file", ".env", "dotenv file loaded before reading the environment")
	flag.Parse()
	return flags{envFile: *envFile}
}

func run(f flags) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load(f.envFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}
	logger := runtime.NewLogger(cfg.LogLevel)

	if err := runtime.Bootstrap(cfg.StateDir, cfg.CredentialsBase64, cfg.TokenBase64); err != nil {
		return fmt.Errorf("bootstrap credentials: %w", err)
	}
	client, err := runtime.NewGmailClient(ctx, cfg.StateDir)
	if err != nil {
		return fmt.Errorf("create gmail client: %w", err)
	}

	var limiter rate.Limiter
	if cfg.RPS > 0 {
		bucket := rate.NewTokenBucket(cfg.RPS)
		limiter = bucket
		defer bucket.Stop()
	}

	mail := inbox.NewService(client, limiter, logger)
	mail.Concurrency = cfg.FetchConcurrency

	auth, err := session.NewAuthenticator(cfg.Username, cfg.Password, session.DefaultCost)
	if err != nil {
		return fmt.Errorf("create authenticator: %w", err)
	}
	gate := session.NewGate(session.Options{TTL: cfg.SessionTTL, CookieSecure: cfg.CookieSecure})

	srv, err := web.NewServer(gate, auth, mail, web.Options{
		Query:      cfg.Query,
		MaxResults: cfg.MaxResults,
		Logger:     logger,
	})
	if err != nil {
		return fmt.Errorf("create server: %w", err)
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Listen(cfg.Addr()) }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, stop := context.WithTimeout(context.Background(), shutdownTimeout)
	defer stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
