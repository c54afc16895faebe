package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"triage-assistant/internal/config"
	transport "triage-assistant/internal/http"
	"triage-assistant/internal/llm"
	"triage-assistant/internal/recall"
	"triage-assistant/internal/store"
	"triage-assistant/internal/summary"
	"triage-assistant/internal/triage"
)

func main() {
	cfg := config.New()

	logger := newLogger(cfg.App.LogLevel)
	defer logger.Sync()

	if err := cfg.Validate(); err != nil {
		logger.Fatal("invalid configuration", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := sql.Open("postgres", cfg.Postgres.URL)
	if err != nil {
		logger.Fatal("open postgres", zap.Error(err))
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		logger.Fatal("ping postgres", zap.Error(err))
	}
	if err := store.Migrate(ctx, db); err != nil {
		logger.Fatal("migrate schema", zap.Error(err))
	}

	var rdb *redis.Client
	if cfg.Redis.Addr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Warn("redis unreachable, assessment recall disabled", zap.Error(err))
			rdb = nil
		}
	}
	memory := recall.New(rdb, logger, cfg.Recall.Depth, time.Duration(cfg.Recall.TTLHours)*time.Hour)

	client := llm.NewOpenAIClient(cfg.OpenAI.APIKey, cfg.OpenAI.Model, float32(cfg.OpenAI.Temperature), cfg.OpenAI.MaxTokens)

	repo := store.NewRepository(db)

	summaryCfg := summary.DefaultConfig()
	summaryCfg.MedicationCutoffYear = cfg.Summary.MedicationCutoffYear
	summarizer := summary.New(summaryCfg)

	triageSvc := triage.NewService(client, repo, memory, logger)

	srv := transport.NewServer(transport.Options{
		Addr:              cfg.App.Port,
		MaxRequests:       cfg.App.MaxRequests,
		RateWindowSeconds: cfg.App.RateWindowSeconds,
	}, summarizer, repo, triageSvc, logger)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			logger.Fatal("server failed", zap.Error(err))
		}
	case sig := <-stop:
		logger.Info("shutting down", zap.String("signal", sig.String()))
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(),
			time.Duration(cfg.App.ShutdownTimeout)*time.Second)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown incomplete", zap.Error(err))
		}
	}
}

func newLogger(level string) *zap.Logger {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(lvl)
	logger, err := zc.Build()
	if err != nil {
		panic(err)
	}
	return logger
}
