package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"clientback/internal/config"
	"clientback/internal/database"
	"clientback/internal/handlers"
	"clientback/internal/metrics"
	"clientback/internal/ratelimit"
	"clientback/internal/repositories"
	"clientback/internal/router"
	"clientback/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

func runServe(ctx context.Context, cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	deps := router.Dependencies{
		Tokens: utils.NewTokenManager(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.TTL),
		Hasher: utils.BcryptHasher{},
	}

	var db *sqlx.DB
	switch cfg.Database.Driver {
	case config.DriverMemory:
		store := repositories.NewMemoryStore()
		deps.Users, deps.Clients = store.Users(), store.Clients()
		log.Warn().Msg("Using in-memory storage; data is lost on restart")
	default:
		var err error
		db, err = openPostgres(ctx, cfg.Database)
		if err != nil {
			return err
		}
		defer db.Close()
		if cfg.Database.MigrateOnStart {
			if err := database.Migrate(ctx, db.DB, database.MigrateUp); err != nil {
				return err
			}
		}
		deps.Users = repositories.NewUserRepository(db)
		deps.Clients = repositories.NewClientRepository(db)
		deps.DB = db
	}

	if cfg.Metrics.Enabled {
		m, err := metrics.New(prometheus.NewRegistry())
		if err != nil {
			return fmt.Errorf("registering metrics: %w", err)
		}
		if db != nil {
			if err := m.RegisterDB(db.DB, cfg.Database.Name); err != nil {
				return fmt.Errorf("registering db metrics: %w", err)
			}
		}
		deps.Metrics = m
	}

	limiter, closeLimiter := newLoginLimiter(ctx, cfg)
	defer closeLimiter()
	deps.LoginLimiter = limiter

	engine := gin.New()
	engine.Use(corsMiddleware(cfg.Server.CORSAllowedOrigins))
	router.Setup(engine, deps)

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		utils.LogInfo("Server starting", map[string]interface{}{
			"port":      cfg.Server.Port,
			"driver":    cfg.Database.Driver,
			"token_ttl": deps.Tokens.TTL().String(),
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		utils.LogInfo("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http server shutdown failed: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	utils.LogInfo("Server stopped")
	return nil
}

func openPostgres(ctx context.Context, dbCfg config.DatabaseConfig) (*sqlx.DB, error) {
	return database.Connect(ctx, dbCfg.DSN(), database.PoolOptions{
		MaxOpenConns:    dbCfg.MaxOpenConns,
		MaxIdleConns:    dbCfg.MaxIdleConns,
		ConnMaxLifetime: dbCfg.ConnMaxLifetime,
	})
}

// newLoginLimiter picks Redis when configured and reachable, else a local limiter.
// It returns nil when login throttling is disabled.
func newLoginLimiter(ctx context.Context, cfg *config.Config) (ratelimit.Limiter, func()) {
	noop := func() {}
	if cfg.RateLimit.LoginLimit <= 0 {
		return nil, noop
	}
	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		err := client.Ping(pingCtx).Err()
		cancel()
		if err == nil {
			utils.LogInfo("Login rate limit backed by Redis", map[string]interface{}{"addr": cfg.Redis.Addr})
			return ratelimit.NewRedisLimiter(client, "clientback:login:", cfg.RateLimit.LoginLimit, cfg.RateLimit.LoginWindow),
				func() { _ = client.Close() }
		}
		_ = client.Close()
		utils.LogWarn("Redis unreachable, using in-process login rate limit", map[string]interface{}{"addr": cfg.Redis.Addr, "error": err.Error()})
	}
	return ratelimit.NewMemoryLimiter(cfg.RateLimit.LoginLimit, cfg.RateLimit.LoginWindow), noop
}

var _ handlers.Pinger = (*sqlx.DB)(nil)
