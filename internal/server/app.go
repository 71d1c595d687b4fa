// Package server initializes and runs the scheduling vault server.
// It selects a storage backend, wires the sealed oracle and event sinks,
// handles graceful shutdown, and starts the HTTP API.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/schedvault/schedvault/internal/logging"
	"github.com/schedvault/schedvault/internal/oracle/sealed"
	"github.com/schedvault/schedvault/internal/server/config"
	"github.com/schedvault/schedvault/internal/server/events"
	"github.com/schedvault/schedvault/internal/server/httpapi"
	"github.com/schedvault/schedvault/internal/server/repositories/records"
	"github.com/schedvault/schedvault/internal/server/repositories/repomanager"
	"github.com/schedvault/schedvault/internal/server/services"
)

// archiveFlushInterval is how often buffered events are shipped to S3.
const archiveFlushInterval = 1 * time.Minute

type App struct {
	config        *config.Config
	logger        logging.Logger
	db            *sql.DB
	recordService *services.RecordService
	archiver      *services.EventArchiver
	journal       *events.Journal
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {

	sl := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(sl)

	backend, err := sealed.NewFromPassphrase([]byte(cfg.OraclePassphrase), []byte(cfg.OracleSalt))
	if err != nil {
		return nil, fmt.Errorf("oracle init error: %w", err)
	}

	var db *sql.DB
	var repo records.Repository

	if cfg.DatabaseDSN == "" {
		repo = records.NewMemoryRepository()
	} else {
		db, err = sql.Open("pgx", cfg.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("db init error: %w", err)
		}
		rm := repomanager.NewPostgresRepositoryManager()
		if err := rm.RunMigrations(ctx, db); err != nil {
			return nil, fmt.Errorf("db migration error: %w", err)
		}
		repo = rm.Records(db)
	}

	journal := events.NewJournal()
	bus := events.MultiBus{events.NewLogBus(logger), journal}

	rs := services.NewRecordService(repo, backend, backend, bus, logger)
	archiver := services.NewEventArchiver(journal, cfg, logger)

	return &App{
		config:        cfg,
		logger:        logger,
		db:            db,
		recordService: rs,
		archiver:      archiver,
		journal:       journal,
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {

	h := httpapi.NewRecordsHandler(app.recordService, app.logger, []byte(app.config.SecretKey))
	s := httpapi.NewServer(app.config.EndpointAddr, app.logger, h)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startArchiver(ctx context.Context) {

	ticker := time.NewTicker(archiveFlushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			// last chance to ship the remaining buffered events
			flushCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			if _, err := app.archiver.Flush(flushCtx); err != nil {
				app.logger.Warn(flushCtx, "final event flush failed", "error", err)
			}
			cancel()
			return
		case <-ticker.C:
			if key, err := app.archiver.Flush(ctx); err != nil {
				app.logger.Warn(ctx, "event flush failed", "error", err)
			} else if key != "" {
				app.logger.Debug(ctx, "events archived", "key", key)
			}
		}
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startArchiver(ctx)
	}()

	wg.Wait()

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error(ctx, err.Error())
		}
	}
}
