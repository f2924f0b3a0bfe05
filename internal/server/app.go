// Package server initializes and runs the cloud storage application server.
// It opens the database, runs migrations, selects the blob storage backend,
// wires the services, and starts the HTTP server with graceful shutdown.
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

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/vyacheslafka/cloudstorage-server/internal/logging"
	"github.com/vyacheslafka/cloudstorage-server/internal/server/auth"
	"github.com/vyacheslafka/cloudstorage-server/internal/server/blobstore"
	"github.com/vyacheslafka/cloudstorage-server/internal/server/config"
	"github.com/vyacheslafka/cloudstorage-server/internal/server/httpapi"
	"github.com/vyacheslafka/cloudstorage-server/internal/server/repositories/repomanager"
	"github.com/vyacheslafka/cloudstorage-server/internal/server/services"
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	server *httpapi.Server
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {

	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	blobs, err := newBlobStore(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("blob store init error: %w", err)
	}

	sessions := auth.NewSessionStore()
	fileService := services.NewFileService(db, rm, blobs, logger)
	accountService := services.NewAccountService(db, rm, fileService, sessions, logger, cfg)

	srv := httpapi.NewServer(cfg.EndpointAddrHTTP, logger, accountService, fileService, sessions, cfg.SecretKey)

	return &App{config: cfg, logger: logger, db: db, server: srv}, nil
}

func newBlobStore(ctx context.Context, cfg *config.Config) (blobstore.Store, error) {
	switch cfg.StorageBackend {
	case config.BackendDisk:
		return blobstore.NewDiskStore(cfg.StorageRoot), nil
	case config.BackendS3:
		return blobstore.NewS3Store(ctx, blobstore.S3Options{
			RootUser:     cfg.S3RootUser,
			RootPassword: cfg.S3RootPassword,
			Bucket:       cfg.S3Bucket,
			Region:       cfg.S3Region,
			BaseEndpoint: cfg.S3BaseEndpoint,
		})
	default:
		return nil, fmt.Errorf("unknown storage backend: %q", cfg.StorageBackend)
	}
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

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := app.server.Run(ctx); err != nil {
			app.logger.Error(ctx, err.Error())
			cancelFunc()
		}
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err)
	}
}
