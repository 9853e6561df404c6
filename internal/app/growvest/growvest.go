package growvest

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/growvest/growvest/internal/cache"
	"github.com/growvest/growvest/internal/challenge"
	"github.com/growvest/growvest/internal/config"
	"github.com/growvest/growvest/internal/gateway"
	"github.com/growvest/growvest/internal/lib/jwt"
	"github.com/growvest/growvest/internal/migrations"
	catalogservice "github.com/growvest/growvest/internal/services/catalog"
	contributionservice "github.com/growvest/growvest/internal/services/contribution"
	cooperativeservice "github.com/growvest/growvest/internal/services/cooperative"
	investmentservice "github.com/growvest/growvest/internal/services/investment"
	transactionservice "github.com/growvest/growvest/internal/services/transaction"
	userservice "github.com/growvest/growvest/internal/services/user"
	walletservice "github.com/growvest/growvest/internal/services/wallet"
	"github.com/growvest/growvest/internal/storage/repository"
)

const shutdownTimeout = 15 * time.Second

// App объединяет зависимости HTTP-приложения.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	cache  *cache.Cache
}

// New собирает приложение: хранилище, миграции, кэш, сервисы и маршруты.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	const op = "app.growvest.New"

	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	logger.Info("connect to database")

	if err := migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	logger.Info("migrations applied")

	redisCache, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	logger.Info("connect to redis")

	maker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)
	gatewayClient := gateway.NewClient(cfg.Gateway)
	challengeStore := challenge.NewStore()

	catalog := catalogservice.New(db, redisCache, logger)

	services := Services{
		User:         userservice.New(db, maker, logger),
		Catalog:      catalog,
		CatalogRead:  catalog,
		CatalogAdmin: catalog,
		Contribution: contributionservice.New(db, logger),
		Cooperative:  cooperativeservice.New(db, logger),
		Investment:   investmentservice.New(db, logger),
		Wallet:       walletservice.New(db, gatewayClient, challengeStore, logger),
		Transaction:  transactionservice.New(db, logger),
		Challenge:    challengeStore,
	}

	router := chi.NewRouter()
	RegisterRoutes(router, logger, maker, services)

	server := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: server,
		logger: logger,
		db:     db,
		cache:  redisCache,
	}, nil
}

// Run запускает HTTP-сервер и корректно останавливает его по отмене контекста.
func (a *App) Run(ctx context.Context) error {
	const op = "app.growvest.Run"

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("starting http server", slog.String("address", a.server.Addr))
		errCh <- a.server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("%s: %w", op, err)
	case <-ctx.Done():
		a.logger.Info("shutting down http server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := a.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		if err := a.db.DB.Close(); err != nil {
			a.logger.Error("failed to close database", slog.String("error", err.Error()))
		}
		return nil
	}
}
