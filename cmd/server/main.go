package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"github.com/quantumreach/outreach-server/internal/api"
	"github.com/quantumreach/outreach-server/internal/auth"
	"github.com/quantumreach/outreach-server/internal/cache"
	"github.com/quantumreach/outreach-server/internal/config"
	"github.com/quantumreach/outreach-server/internal/engines"
	"github.com/quantumreach/outreach-server/internal/pkg/logger"
	"github.com/quantumreach/outreach-server/internal/repository/postgres"
	"github.com/quantumreach/outreach-server/internal/roi"
	"github.com/quantumreach/outreach-server/internal/wizard"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.LoadFromEnv(*configPath)
	if err != nil {
		logger.Error("failed to load config", "path", *configPath, "error", err.Error())
		os.Exit(1)
	}

	db, err := openDatabase(cfg.Database)
	if err != nil {
		logger.Error("failed to connect to database", "error", err.Error())
		os.Exit(1)
	}
	defer db.Close()

	rdb := openRedis(cfg.Redis)
	if rdb != nil {
		defer rdb.Close()
	}

	metricsRepo := postgres.NewMetricsRepo(db)
	campaignRepo := postgres.NewCampaignRepo(db)
	orgRepo := postgres.NewOrgRepo(db)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var authManager *auth.Manager
	if cfg.Auth.Enabled && cfg.Auth.GoogleClientID != "" {
		baseURL := fmt.Sprintf("http://%s:%d", cfg.Server.GetHost(), cfg.Server.Port)
		if envURL := os.Getenv("AUTH_BASE_URL"); envURL != "" {
			baseURL = envURL
		}
		authManager = auth.NewManager(cfg.Auth, baseURL, orgRepo)
		authManager.StartSessionCleanup(ctx)
		logger.Info("auth enabled", "callback_base", baseURL)
	} else {
		logger.Warn("auth disabled, API routes are unprotected")
	}

	var monitor *engines.Monitor
	if cfg.Engines.Enabled && len(cfg.Engines.Endpoints) > 0 {
		monitor = engines.NewMonitor(cfg.Engines, nil)
		monitor.Start()
		defer monitor.Stop()
		logger.Info("engine monitor started",
			"engines", len(cfg.Engines.Endpoints),
			"poll_interval", cfg.Engines.PollInterval().String())
	}

	handlers := api.NewHandlers(
		metricsRepo,
		campaignRepo,
		orgRepo,
		cache.New(rdb, cfg.Redis.CacheTTL()),
		roi.NewProjector(cfg.ROI),
		wizard.NewService(campaignRepo),
		monitor,
		authManager,
		db,
		rdb,
	)
	server := api.NewServer(cfg.Server, handlers, authManager)

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		addr := fmt.Sprintf("%s:%d", cfg.Server.GetHost(), cfg.Server.Port)
		logger.Info("server starting", "addr", addr)
		if err := server.ListenAndServe(addr); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err.Error())
			os.Exit(1)
		}
	}()

	<-done
	logger.Info("shutting down")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err.Error())
	}
	logger.Info("server stopped")
}

func openDatabase(cfg config.DatabaseConfig) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.URL)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifeMins) * time.Minute)

	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// openRedis returns nil when Redis is not configured or unreachable; the
// dashboard runs without its cache in that case.
func openRedis(cfg config.RedisConfig) *redis.Client {
	if cfg.Addr == "" {
		logger.Info("redis not configured, cache disabled")
		return nil
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		logger.Warn("redis unreachable, cache disabled", "addr", cfg.Addr, "error", err.Error())
		rdb.Close()
		return nil
	}
	logger.Info("redis connected", "addr", cfg.Addr)
	return rdb
}
