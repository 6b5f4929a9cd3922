package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/aptiprep/backend/internal/api"
	"github.com/aptiprep/backend/internal/auth"
	"github.com/aptiprep/backend/internal/grader"
	"github.com/aptiprep/backend/internal/infrastructure/config"
	"github.com/aptiprep/backend/internal/infrastructure/db"
	"github.com/aptiprep/backend/internal/scoreindex"
	"github.com/aptiprep/backend/internal/service"
	"github.com/aptiprep/backend/internal/store"

	_ "github.com/aptiprep/backend/docs" // generated swagger docs
)

// @title           Aptiprep API
// @version         1.0
// @description     Aptitude practice: question bank, attempt scoring and percentiles, personal lists, shared question lists and discussions.

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization

func main() {
	cfg := config.Load()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// ── Dependencies ────────────────────────────────────────────────
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	conn, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		logger.Error("failed to open database", "driver", cfg.DBDriver, "error", err)
		os.Exit(1)
	}
	st := store.New(conn)
	defer st.Close()

	index := newScoreIndex(ctx, cfg, st, logger)
	tokens := auth.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	notifications := service.NewNotificationService(st, cfg.NotifyWorkers, logger)
	defer notifications.Close()

	svc := api.Services{
		Questions:     service.NewQuestionService(st, grader.New(), logger),
		Progress:      service.NewProgressService(st, st, index, logger),
		Lists:         service.NewListService(st, st, logger),
		QuestionLists: service.NewQuestionListService(st, st, notifications, logger),
		Discussions:   service.NewDiscussionService(st, st, notifications, logger),
		Catalog:       service.NewCatalogService(st),
		Users:         service.NewUserService(st, st, tokens, logger),
		Notifications: notifications,
	}
	if err := svc.Users.EnsureAdmin(ctx, cfg.AdminUsername, cfg.AdminPassword); err != nil {
		logger.Error("failed to create admin account", "error", err)
		os.Exit(1)
	}

	// ── Routes ──────────────────────────────────────────────────────
	router := api.NewRouter(api.NewHandler(svc, logger), tokens, cfg.CORSOrigins, logger)

	// ── Server ──────────────────────────────────────────────────────
	server := &http.Server{
		Addr:              cfg.ServerAddress,
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		logger.Info("shutting down server")
		if err := server.Shutdown(ctx); err != nil {
			logger.Error("server forced to shutdown", "error", err)
		}
	}()

	logger.Info("starting server", "address", cfg.ServerAddress, "db_driver", cfg.DBDriver)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server failed to start", "error", err)
		os.Exit(1)
	}
}

// newScoreIndex uses Redis when REDIS_ADDR is set and reachable, and falls
// back to counting rows in SQL otherwise.
func newScoreIndex(ctx context.Context, cfg *config.Config, st *store.SQLStore, logger *slog.Logger) scoreindex.Index {
	if cfg.RedisAddr == "" {
		return scoreindex.NewSQL(st)
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis unavailable, ranking in SQL", "address", cfg.RedisAddr, "error", err)
		client.Close()
		return scoreindex.NewSQL(st)
	}
	logger.Info("percentile index backed by redis", "address", cfg.RedisAddr)
	return scoreindex.NewRedis(client, st)
}
