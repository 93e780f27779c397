package main // Entry point package

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"    // .env loading for local runs
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/isuci/isuci-backend/internal/config"
	"github.com/isuci/isuci-backend/internal/database"
	"github.com/isuci/isuci-backend/internal/handler"
	"github.com/isuci/isuci-backend/internal/logger"
	"github.com/isuci/isuci-backend/internal/mail"
	"github.com/isuci/isuci-backend/internal/metrics"
	"github.com/isuci/isuci-backend/internal/middleware"
	"github.com/isuci/isuci-backend/internal/queue"
	"github.com/isuci/isuci-backend/internal/repository"
	"github.com/isuci/isuci-backend/internal/router"
	"github.com/isuci/isuci-backend/internal/service"
	"github.com/isuci/isuci-backend/internal/utils"
)

func main() {
	_ = godotenv.Load() // a missing .env is fine; the environment wins
	cfg := config.Load()
	logger.Init(logger.Config{Level: cfg.LogLevel, Output: os.Stderr, JSON: cfg.LogJSON})

	db, err := database.Open(cfg)
	if err != nil {
		logger.Error("database unavailable", "driver", cfg.DBDriver, "err", err)
		os.Exit(1)
	}
	defer db.Close()

	rdb := config.NewRedisClient(config.LoadRedisConfig())
	if rdb == nil {
		logger.Warn("redis unreachable; rate limiting and catalog cache disabled")
	} else {
		defer rdb.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	users := repository.NewUserRepo(db, cfg.DBDriver)
	catalog := repository.NewCatalogRepo(db, cfg.DBDriver)
	tokens := repository.NewTokenRepo(db, cfg.DBDriver)
	hasher := utils.BcryptHasher{Cost: cfg.BcryptCost}
	m := metrics.New()

	// With a broker configured the server publishes and a consumer in the
	// same process delivers the mail; otherwise mail goes out directly.
	mailer := mail.New(cfg.SMTP)
	var notifier service.Notifier = mailer
	if cfg.AMQPURL != "" {
		notifier = queue.NewPublisher(cfg.AMQPURL)
		go func() {
			if err := queue.StartRegistrationConsumer(ctx, cfg.AMQPURL, mailer); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("registration consumer stopped", "err", err)
			}
		}()
	}
	registrar := service.NewRegistrar(users, hasher, notifier)
	authenticator, err := service.NewAuthenticator(users, hasher)
	if err != nil {
		logger.Error("invalid password hashing setup", "bcrypt_cost", cfg.BcryptCost, "err", err)
		os.Exit(1)
	}

	rl := config.LoadRateLimitConfig()

	e := echo.New()
	router.Setup(e, cfg.CORSOrigin, m)
	router.RegisterRoutes(e, handler.Ping(users, cfg.QueryTimeout), m)
	router.RegisterAuth(e,
		handler.NewAuthHandler(cfg, authenticator, users, tokens, m),
		handler.NewRegisterHandler(registrar, cfg.QueryTimeout, m),
		middleware.NewTokenBucket(rl, rdb, middleware.ClientRoute),
		middleware.NewTokenBucket(rl.Account(), rdb, middleware.LoginAccount))
	router.RegisterProfile(e, handler.NewProfileHandler(service.NewProfiles(users, catalog), cfg.QueryTimeout), cfg.JWTSecret)
	router.RegisterCatalog(e, handler.NewCatalogHandler(catalog, cfg.QueryTimeout), middleware.NewRedisCache(config.LoadCacheConfig(), rdb))

	addr := ":" + cfg.Port
	go func() {
		logger.Info("listening", "addr", addr, "env", cfg.Env, "driver", cfg.DBDriver, "broker", cfg.AMQPURL != "")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", "err", err)
	}
	registrar.Wait()
	logger.Info("stopped")
}
