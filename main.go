package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gamma-omg/medbot-mcp/readers"
	"github.com/gamma-omg/medbot-mcp/session"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	"golang.org/x/sync/errgroup"
)

func initSessionStore(cfg *Config) (session.Store, error) {
	switch cfg.Session.Backend {
	case "memory":
		return session.NewMemoryStore(cfg.Session.MaxTurns, cfg.Session.TTL), nil

	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Session.RedisAddr,
			Password: cfg.Session.RedisPassword,
			DB:       cfg.Session.RedisDB,
		})

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := client.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Session.RedisAddr, err)
		}

		return session.NewRedisStore(client, cfg.Session.MaxTurns, cfg.Session.TTL), nil
	}

	return nil, fmt.Errorf("unknown session backend: %s", cfg.Session.Backend)
}

func defaultConfigPath() string {
	if p := os.Getenv(envConfigPath); p != "" {
		return p
	}
	return "cfg/config.yaml"
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using system environment variables")
	}

	cfgPath := flag.String("config", defaultConfigPath(), "Configuration file for the MCP server")
	flag.Parse()

	cfg, err := readConfig(*cfgPath)
	if err != nil {
		log.Fatal(err)
	}

	logFile, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0o644)
	if err != nil {
		log.Fatalf("failed to open log file: %s", err)
	}
	defer logFile.Close()

	logger := slog.New(slog.NewJSONHandler(logFile, nil))
	metrics := NewMetrics()

	reg := NewCorpusRegistry(
		logger,
		cfg.Corpus,
		readers.NewUniversalReader(cfg.QuestionColumn, cfg.AnswerColumn),
		cfg.matcherOptions(),
		time.Duration(cfg.MergeEventsMs)*time.Millisecond,
		metrics,
	)
	if err := reg.Load(); err != nil {
		log.Fatal(err)
	}

	sessions, err := initSessionStore(cfg)
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := reg.Watch(ctx); err != nil {
		log.Fatal(err)
	}

	srv := NewBotServer(reg, sessions, metrics, logger)
	sse := server.NewSSEServer(srv, server.WithBaseURL(fmt.Sprintf("http://%s", cfg.ServerAddr)))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("mcp server listening", "addr", cfg.ServerAddr)
		return sse.Start(cfg.ServerAddr)
	})

	var metricsSrv *http.Server
	if cfg.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.Handler())
		metricsSrv = &http.Server{Addr: cfg.MetricsAddr, Handler: mux}
		g.Go(func() error {
			logger.Info("metrics server listening", "addr", cfg.MetricsAddr)
			return metricsSrv.ListenAndServe()
		})
	}

	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if metricsSrv != nil {
			_ = metricsSrv.Shutdown(shutdownCtx)
		}
		return sse.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}
