package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/expertlink/matching-service/internal/config"
	"github.com/expertlink/matching-service/internal/notifier"
	"github.com/expertlink/matching-service/internal/repository/postgres"
	"github.com/expertlink/matching-service/internal/scheduler"
	"github.com/expertlink/matching-service/internal/service"
	myhttp "github.com/expertlink/matching-service/internal/transport/http"
	"github.com/expertlink/matching-service/pkg/logger/sl"
	"github.com/expertlink/matching-service/pkg/logger/slogpretty"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg := config.MustLoad()
	log := slogpretty.SetupLogger(cfg.Env)

	log.Info("starting matching-service", slog.String("env", cfg.Env))

	errChan := make(chan error, 1)

	db, err := postgres.NewDB(cfg.Postgres, log)
	if err != nil {
		return fmt.Errorf("failed to init db: %v", err)
	}
	defer func() {
		if err := db.DB().Close(); err != nil {
			log.Error("db close failed", sl.Err(err))
		}
	}()

	requestRepo := postgres.NewRequestRepository(db.DB(), log)
	expertRepo := postgres.NewExpertRepository(db.DB(), log)
	matchRepo := postgres.NewMatchRepository(db.DB(), log)

	var notifyQueue service.NotifyQueue

	if cfg.Redis.URL != "" {
		rdb, err := notifier.NewRedisClient(ctx, cfg.Redis.URL)
		if err != nil {
			return fmt.Errorf("failed to init redis: %v", err)
		}
		defer func() {
			if err := rdb.Close(); err != nil {
				log.Error("redis close failed", sl.Err(err))
			}
		}()

		notifyQueue = notifier.NewQueue(rdb, cfg.Redis.Queue, log)
	} else {
		log.Warn("redis url not set, match notifications will not be enqueued")
	}

	matching := service.NewMatchingService(log, cfg.Matching, requestRepo, expertRepo, matchRepo, matchRepo, notifyQueue)
	notifications := service.NewNotificationService(log, matchRepo, matchRepo)

	if cfg.Matching.SweepEnabled {
		sched := scheduler.New(log, matching, cfg.Matching.SweepInterval)
		if err := sched.Start(ctx); err != nil {
			return fmt.Errorf("failed to start scheduler: %v", err)
		}
		defer sched.Stop()
	}

	srv := myhttp.NewServer(log, matching, notifications)
	httpServer := &http.Server{
		Addr:    net.JoinHostPort(cfg.Server.Host, cfg.Server.Port),
		Handler: srv.Routes(),
	}

	go startServer(log, httpServer, errChan)

	select {
	case err := <-errChan:
		return fmt.Errorf("http server error: %v", err)

	case <-ctx.Done():
		log.Info("stopping server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("error shutting down http server: %v", err)
	}

	return nil
}

func startServer(log *slog.Logger, httpServer *http.Server, errChan chan error) {
	defer close(errChan)

	log.Info("service started", slog.String("addr", httpServer.Addr))

	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		errChan <- fmt.Errorf("error listening and serving: %v", err)
	}
}
