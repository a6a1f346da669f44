// Command reconcile rebuilds session question indexes from the questions
// table, for one session or all of them.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	appsvc "interview-prep/internal/app"
	"interview-prep/internal/bootstrap"
	"interview-prep/internal/cache"
	"interview-prep/internal/config"
	"interview-prep/internal/pkg/logger"
	mysqlClient "interview-prep/internal/platform/mysql"
	redisClient "interview-prep/internal/platform/redis"
)

func main() {
	sessionID := pflag.UintP("session-id", "s", 0, "reconcile a single session (default: all sessions)")
	noCache := pflag.Bool("no-cache", false, "skip question cache invalidation")
	pflag.Parse()

	if err := run(*sessionID, *noCache); err != nil {
		fmt.Fprintf(os.Stderr, "reconcile: %v\n", err)
		os.Exit(1)
	}
}

func run(sessionID uint, noCache bool) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	db, err := mysqlClient.New(ctx, cfg.MySQLDSN())
	if err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	var questionCache appsvc.QuestionCache
	if !noCache {
		client, err := redisClient.New(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Warn("redis unavailable, cached question lists may be stale until they expire", zap.Error(err))
		} else {
			defer client.Close()
			questionCache = cache.NewQuestionCache(client, cfg.QuestionCacheTTL())
		}
	}

	reconciler := bootstrap.NewServices(cfg, db, questionCache, nil, log).Reconcile

	if sessionID != 0 {
		changed, err := reconciler.ReconcileSession(ctx, sessionID)
		if err != nil {
			return fmt.Errorf("session %d: %w", sessionID, err)
		}
		log.Info("session reconciled", zap.Uint("session_id", sessionID), zap.Bool("repaired", changed))
		return nil
	}

	report, err := reconciler.ReconcileAll(ctx)
	log.Info("reconcile finished",
		zap.Int("checked", report.Checked),
		zap.Int("repaired", report.Repaired),
		zap.Int("missing", report.Missing),
	)
	return err
}
