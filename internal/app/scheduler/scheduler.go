// Package scheduler собирает фоновое приложение напоминаний о платежах.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/streadway/amqp"

	"github.com/growvest/growvest/internal/config"
	"github.com/growvest/growvest/internal/lib/rabbitmq"
	"github.com/growvest/growvest/internal/lib/sl"
	schedulerservice "github.com/growvest/growvest/internal/services/scheduler"
	"github.com/growvest/growvest/internal/storage/repository"
)

const (
	connectRetries = 10
	connectDelay   = 3 * time.Second
	tickInterval   = 1 * time.Hour
)

// App объединяет зависимости планировщика.
type App struct {
	logger  *slog.Logger
	db      *repository.Storage
	conn    *amqp.Connection
	channel *amqp.Channel
	service *schedulerservice.Service
}

// New подключается к базе и брокеру и собирает сервис планировщика.
func New(cfg *config.Config, logger *slog.Logger) (*App, error) {
	const op = "app.scheduler.New"

	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := waitForDB(db, logger); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	logger.Info("connect to database")

	conn, err := rabbitmq.Connect(cfg.RabbitConnection, connectRetries, connectDelay)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	channel, err := rabbitmq.SetupChannel(conn, rabbitmq.GetPaymentQueues())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	logger.Info("connect to rabbitmq")

	return &App{
		logger:  logger,
		db:      db,
		conn:    conn,
		channel: channel,
		service: schedulerservice.New(db, logger),
	}, nil
}

// Run запускает цикл публикации напоминаний до отмены контекста.
func (a *App) Run(ctx context.Context) {
	go a.service.Run(ctx, a.channel, tickInterval)

	<-ctx.Done()
	a.logger.Info("shutting down scheduler")
	closeResources(a.channel, a.conn, a.db, a.logger)
}

// waitForDB ждёт, пока база данных и миграции будут готовы.
func waitForDB(db *repository.Storage, logger *slog.Logger) error {
	var err error
	for i := 0; i < connectRetries; i++ {
		if err = repository.CheckDatabaseReady(db); err == nil {
			return nil
		}
		logger.Info("database is not ready, retrying", slog.Int("attempt", i+1))
		time.Sleep(connectDelay)
	}
	return err
}

func closeResources(ch *amqp.Channel, conn *amqp.Connection, db *repository.Storage, logger *slog.Logger) {
	if err := ch.Close(); err != nil {
		logger.Error("failed to close channel", sl.Err(err))
	}
	if err := conn.Close(); err != nil {
		logger.Error("failed to close connection", sl.Err(err))
	}
	if err := db.DB.Close(); err != nil {
		logger.Error("failed to close database", sl.Err(err))
	}
}
