// @title        Kodbank API
// @version      1.0
// @description  Registration, cookie sessions and balance lookup for the Kodbank demo client.
// @BasePath     /
//
// @securityDefinitions.apikey  CookieAuth
// @in                          cookie
// @name                        auth_token
package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/kodbank/kodbank-api/internal/api"
	"github.com/kodbank/kodbank-api/internal/api/middleware"
	"github.com/kodbank/kodbank-api/internal/core/service"
	"github.com/kodbank/kodbank-api/internal/infrastructure/config"
	mongostore "github.com/kodbank/kodbank-api/internal/infrastructure/db/mongo"
	"github.com/kodbank/kodbank-api/internal/infrastructure/db/mysql"
	redisstore "github.com/kodbank/kodbank-api/internal/infrastructure/db/redis"
	"github.com/kodbank/kodbank-api/internal/infrastructure/queue"
	"github.com/kodbank/kodbank-api/internal/infrastructure/token"
	"github.com/kodbank/kodbank-api/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

func main() {
	envErr := godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		// Logger options come from config, so fall back to defaults here.
		log := logger.Init(logger.Options{Service: "kodbank-api"})
		log.Fatal().Err(err).Msg("load config")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.LogPretty,
		Service: "kodbank-api",
		Env:     cfg.Env,
	})
	if envErr != nil {
		log.Debug().Msg("no .env file found; relying on existing environment")
	}
	if cfg.InsecureSecret {
		log.Warn().Msg("JWT_SECRET is not set; using the public development secret")
	}

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped with error")
	}
	log.Info().Msg("server stopped")
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	db, err := mysql.Open(ctx, mysql.Config{
		URL:             cfg.MySQL.URL,
		MaxOpenConns:    cfg.MySQL.MaxOpenConns,
		MaxIdleConns:    cfg.MySQL.MaxIdleConns,
		ConnMaxLifetime: cfg.MySQL.ConnMaxLifetime,
	})
	if err != nil {
		return err
	}
	defer db.Close()

	if cfg.MySQL.AutoMigrate {
		migrator, err := mysql.NewMigrator(db, log)
		if err != nil {
			return err
		}
		if err := migrator.Up(ctx); err != nil {
			return err
		}
	}

	signer, err := token.NewSigner(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		return err
	}

	users := mysql.NewUserRepository(db)
	sessions := mysql.NewSessionRepository(db)
	opts := []service.AuthOption{service.WithBcryptCost(cfg.BcryptCost)}

	// Background workers share this context and stop before pools close.
	workCtx, cancelWork := context.WithCancel(context.Background())
	defer cancelWork()

	var rdb *redis.Client
	if cfg.Redis.Addr != "" {
		rdb, err = redisstore.Connect(ctx, redisstore.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return err
		}
		defer rdb.Close()
		opts = append(opts, service.WithLoginLimiter(
			redisstore.NewLoginLimiter(rdb, cfg.Login.MaxAttempts, cfg.Login.LockoutWindow),
		))
		log.Info().Str("addr", cfg.Redis.Addr).Msg("login throttling enabled")
	}

	var (
		mdb        *mongo.Database
		dispatcher *queue.Dispatcher
	)
	if cfg.Audit.MongoURI != "" {
		client, database, err := mongostore.Connect(ctx, mongostore.Config{
			URI:      cfg.Audit.MongoURI,
			Database: cfg.Audit.Database,
		})
		if err != nil {
			return err
		}
		defer func() {
			dctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = client.Disconnect(dctx)
		}()
		mdb = database

		auditRepo := mongostore.NewAuditRepository(database)
		if err := auditRepo.EnsureIndexes(ctx); err != nil {
			log.Warn().Err(err).Msg("audit index creation failed")
		}
		dispatcher = queue.NewDispatcher(cfg.Audit.Workers, auditRepo, log)
		dispatcher.Start(workCtx)
		opts = append(opts, service.WithAuditSink(dispatcher))
		log.Info().Str("database", cfg.Audit.Database).Msg("audit trail enabled")
	}

	authService, err := service.NewAuthService(users, sessions, signer, log, opts...)
	if err != nil {
		return err
	}

	if cfg.SessionReapInterval > 0 {
		reaper := service.NewSessionReaper(sessions, cfg.SessionReapInterval, log)
		go reaper.Run(workCtx)
	}

	e := api.NewRouter(api.Deps{
		Log:                  log,
		AuthService:          authService,
		AccountService:       service.NewAccountService(users),
		DB:                   db,
		Redis:                rdb,
		Mongo:                mdb,
		Production:           cfg.IsProduction(),
		ExposeInternalErrors: cfg.IsDevelopment(),
		AllowedOrigins:       cfg.AllowedOrigins,
		CookieName:           middleware.DefaultCookieName,
		StaticDir:            cfg.StaticDir,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.HTTPAddress()).Msg("kodbank api listening")
		if err := e.Start(cfg.HTTPAddress()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown error")
	}

	cancelWork()
	if dispatcher != nil {
		dispatcher.Wait()
	}
	return nil
}
