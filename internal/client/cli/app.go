package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/iudanet/homekeeper/internal/client/api"
	"github.com/iudanet/homekeeper/internal/client/auth"
	"github.com/iudanet/homekeeper/internal/client/cache"
	"github.com/iudanet/homekeeper/internal/client/data"
	"github.com/iudanet/homekeeper/internal/client/iocli"
	"github.com/iudanet/homekeeper/internal/client/queue"
	"github.com/iudanet/homekeeper/internal/client/storage/boltdb"
	"github.com/iudanet/homekeeper/internal/client/sync"
	"github.com/iudanet/homekeeper/internal/config"
	"github.com/iudanet/homekeeper/internal/crdt"
	"github.com/iudanet/homekeeper/internal/logging"
)

// healthTimeout ограничивает проверку доступности сервера перед чтением
const healthTimeout = 3 * time.Second

// app собранные зависимости одного запуска клиента
type app struct {
	cli     *Cli
	cache   *cache.Store
	storage *boltdb.Storage
	logFile io.Closer
}

// newApp открывает локальную базу и связывает сервисы клиента
func newApp(ctx context.Context, cfg *config.ClientConfig, out iocli.IO, logOut io.Writer) (*app, error) {
	logger, logFile, err := logging.New(cfg.Log, logOut)
	if err != nil {
		return nil, fmt.Errorf("failed to set up logging: %w", err)
	}

	store, err := boltdb.New(ctx, cfg.DBPath)
	if err != nil {
		_ = logFile.Close()
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	apiClient := api.NewClient(cfg.ServerURL, cfg.RequestTimeout)
	sessions := auth.NewSessionStore(store)
	clock := crdt.NewClock()

	writes := queue.New(store, clock, logger)
	records := cache.New(
		store,
		cache.NewRemoteFetcher(apiClient, sessions),
		cache.NewHealthChecker(apiClient, healthTimeout),
		cache.Thresholds{Fresh: cfg.Cache.Fresh, Expire: cfg.Cache.Expire},
		logger,
	)

	processor := sync.NewProcessor(writes, records, apiClient, sessions, clock, sync.Config{
		BatchSize:   cfg.Sync.BatchSize,
		MaxAttempts: cfg.Sync.MaxAttempts,
		BackoffBase: cfg.Sync.BackoffBase,
		BackoffMax:  cfg.Sync.BackoffMax,
		Interval:    cfg.Sync.Interval,
	}, logger)

	dataService := data.NewService(writes, records, processor, clock, logger)

	logger.Debug("Client initialized",
		"server", cfg.ServerURL,
		"db", cfg.DBPath,
		"node_id", clock.GetNodeID())

	return &app{
		cli:     New(out, sessions, processor, writes, dataService),
		cache:   records,
		storage: store,
		logFile: logFile,
	}, nil
}

// Close дожидается фоновых обновлений кэша и закрывает базу
func (a *app) Close() error {
	a.cache.Wait()

	var errs []error
	if err := a.storage.Close(); err != nil {
		errs = append(errs, fmt.Errorf("failed to close database: %w", err))
	}
	if err := a.logFile.Close(); err != nil {
		errs = append(errs, fmt.Errorf("failed to close log file: %w", err))
	}
	return errors.Join(errs...)
}
