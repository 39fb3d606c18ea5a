package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Varun5711/attendly/internal/auth"
	"github.com/Varun5711/attendly/internal/cache"
	"github.com/Varun5711/attendly/internal/config"
	"github.com/Varun5711/attendly/internal/database"
	"github.com/Varun5711/attendly/internal/handlers"
	"github.com/Varun5711/attendly/internal/lock"
	"github.com/Varun5711/attendly/internal/logger"
	"github.com/Varun5711/attendly/internal/middleware"
	"github.com/Varun5711/attendly/internal/redis"
	"github.com/Varun5711/attendly/internal/server"
	"github.com/Varun5711/attendly/internal/service"
	"github.com/Varun5711/attendly/internal/storage"
	goredis "github.com/redis/go-redis/v9"
)

const migrationLockKey = "attendly:lock:migrate"

func main() {
	bootLog := logger.New("attendly")
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		bootLog.Fatal("Failed to load config: %v", err)
	}

	log := logger.NewWithConfig("attendly", logger.Config{
		Level:  logger.ParseLevel(cfg.Log.Level),
		Colors: cfg.Log.Colors,
	})
	log.SetStdLog()

	if !cfg.Auth.SecretFromEnv {
		log.Warn("JWT_SECRET not set, using development default (insecure for production)")
	}

	loc, err := cfg.Location()
	if err != nil {
		log.Fatal("Invalid timezone: %v", err)
	}

	var l2 *goredis.Client
	if cfg.Redis.Addr != "" {
		redisClient, err := redis.NewRedisClient(ctx, redis.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Warn("Redis unavailable, profile cache is in-process only: %v", err)
		} else {
			defer redisClient.Close()
			l2 = redisClient.GetClient()
			log.Info("Connected to Redis at %s", cfg.Redis.Addr)
		}
	}

	var (
		userStore       storage.UserStore
		attendanceStore storage.AttendanceStore
		pinger          handlers.Pinger
	)

	switch cfg.Database.Driver {
	case config.StorageMemory:
		mem := storage.NewMemoryStorage()
		userStore, attendanceStore = mem, mem
		log.Warn("Using in-memory storage; data is lost on restart")

	case config.StoragePostgres:
		dbManager, err := database.NewDBManager(ctx, database.Config{
			PrimaryDSN:      cfg.Database.PrimaryDSN,
			ReplicaDSNs:     cfg.Database.ReplicaDSNs,
			MaxConns:        cfg.Database.MaxConns,
			MinConns:        cfg.Database.MinConns,
			MaxConnLifetime: cfg.Database.MaxConnLifetime,
			MaxConnIdleTime: cfg.Database.MaxConnIdleTime,
		})
		if err != nil {
			log.Fatal("Failed to connect to database: %v", err)
		}
		defer dbManager.Close()

		if err := migrate(ctx, dbManager, l2, log.Named("migrate")); err != nil {
			log.Fatal("Failed to run migrations: %v", err)
		}

		userStore = storage.NewUserStorage(dbManager)
		attendanceStore = storage.NewAttendanceStorage(dbManager)
		pinger = dbManager
		log.Info("Connected to PostgreSQL with %d replica(s)", len(cfg.Database.ReplicaDSNs))
	}

	profiles := cache.NewProfileCache(cfg.Cache.L1Capacity, l2, cfg.Cache.L2TTL, log.Named("cache"))

	sessions := auth.NewSessionManager(
		auth.NewJWTManager(cfg.Auth.JWTSecret, auth.SessionDuration),
		cfg.IsProduction(),
		log.Named("session"),
	)

	userService := service.NewUserService(userStore, profiles, auth.DefaultPasswords, log.Named("users"))
	attendanceService := service.NewAttendanceService(attendanceStore, loc, log.Named("attendance"))

	router := server.NewRouter(server.Deps{
		Auth:        handlers.NewAuthHandler(userService, sessions, log),
		Attendance:  handlers.NewAttendanceHandler(attendanceService, log),
		System:      handlers.NewSystemHandler(pinger, log),
		Swagger:     handlers.NewSwaggerHandler(),
		Sessions:    middleware.NewAuthMiddleware(sessions, log.Named("auth")),
		CORSOrigins: cfg.App.CORSOrigins,
		Log:         log.Named("http"),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.App.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		ErrorLog:          log.StdLogger(logger.ERROR),
	}

	go func() {
		log.Info("Listening on :%s (timezone %s)", cfg.App.HTTPPort, loc)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped")
}

// migrate applies pending migrations. With Redis configured, replicas
// starting together take turns so only one runs goose at a time.
func migrate(ctx context.Context, db *database.DBManager, rdb *goredis.Client, log *logger.Logger) error {
	if rdb == nil {
		return db.Migrate(ctx, log)
	}

	waitCtx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	migrationLock := lock.NewDistributedLock(rdb, migrationLockKey, 5*time.Minute)
	if err := migrationLock.AcquireWait(waitCtx, time.Second); err != nil {
		return err
	}
	defer func() {
		if err := migrationLock.Release(ctx); err != nil {
			log.Warn("Failed to release migration lock: %v", err)
		}
	}()

	return db.Migrate(ctx, log)
}
