// Command server runs the secret wall web application.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/secretwall/secretwall/internal/auth"
	"github.com/secretwall/secretwall/internal/config"
	"github.com/secretwall/secretwall/internal/cookie"
	"github.com/secretwall/secretwall/internal/logger"
	"github.com/secretwall/secretwall/internal/server"
	"github.com/secretwall/secretwall/internal/session"
	"github.com/secretwall/secretwall/internal/sessiontransport"
	"github.com/secretwall/secretwall/internal/storage/mongodb"
	"github.com/secretwall/secretwall/internal/web"
)

type appConfig struct {
	AppEnv string `env:"APP_ENV" envDefault:"production"`

	SessionTTL             time.Duration `env:"SESSION_TTL" envDefault:"24h"`
	SessionCookieName      string        `env:"SESSION_COOKIE_NAME" envDefault:"session_token"`
	SessionCleanupInterval time.Duration `env:"SESSION_CLEANUP_INTERVAL" envDefault:"1h"`

	Server server.Config
	Mongo  mongodb.Config
	Cookie cookie.Config
	Google auth.GoogleConfig
}

func main() {
	var cfg appConfig
	config.MustLoad(&cfg)

	logOpts := []logger.Option{logger.WithProduction("secretwall")}
	if cfg.AppEnv == "development" {
		logOpts = []logger.Option{logger.WithDevelopment("secretwall")}
	}
	log := logger.New(logOpts...)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("application failed", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg appConfig, log *slog.Logger) error {
	client, db, err := mongodb.Connect(ctx, cfg.Mongo)
	if err != nil {
		return fmt.Errorf("connect storage: %w", err)
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Disconnect(disconnectCtx); err != nil {
			log.Error("failed to disconnect storage", logger.Error(err))
		}
	}()

	users := mongodb.NewUserStore(db)
	sessions := mongodb.NewSessionStore(db)
	if err := users.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("prepare user indexes: %w", err)
	}
	if err := sessions.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("prepare session indexes: %w", err)
	}

	cookies, err := cookie.NewFromConfig(cfg.Cookie)
	if err != nil {
		return fmt.Errorf("create cookie manager: %w", err)
	}

	manager := session.NewManager(sessions, cfg.SessionTTL)
	transport := sessiontransport.NewCookie(manager, cookies, cfg.SessionCookieName)

	handler := web.NewRouter(web.Deps{
		Logger:    log,
		Users:     users,
		Password:  auth.NewPassword(users),
		Google:    auth.NewGoogle(cfg.Google, users),
		Transport: transport,
		Cookies:   cookies,
		Ready:     mongodb.Healthcheck(client),
	})

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return server.NewFromConfig(cfg.Server, server.WithLogger(log)).Run(ctx, handler)
	})

	// The TTL index reaps expired sessions eventually; this loop keeps the
	// collection tidy on a predictable schedule.
	g.Go(func() error {
		ticker := time.NewTicker(cfg.SessionCleanupInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				removed, err := manager.CleanupExpired(ctx)
				if err != nil {
					log.Warn("session cleanup failed", logger.Error(err))
					continue
				}
				if removed > 0 {
					log.Info("expired sessions removed", slog.Int64("count", removed))
				}
			}
		}
	})

	log.Info("application started", slog.String("env", cfg.AppEnv))
	return g.Wait()
}
