// Package server wires and runs the docstore: the gRPC document store
// consumed by myday clients and an HTTP listener for health and metrics.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/dmitrijs2005/myday/internal/logging"
	"github.com/dmitrijs2005/myday/internal/metrics"
	"github.com/dmitrijs2005/myday/internal/server/config"
	"github.com/dmitrijs2005/myday/internal/server/httpapi"
	"github.com/dmitrijs2005/myday/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/myday/internal/server/services"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	gs "github.com/dmitrijs2005/myday/internal/server/grpc"
)

// MemoryDSN selects the in-process repositories instead of PostgreSQL.
const MemoryDSN = "memory"

type App struct {
	config    *config.Config
	logger    logging.Logger
	logCloser io.Closer
	db        *sql.DB
	grpc      *gs.Server
	http      *http.Server
}

// NewApp opens the database, applies migrations and builds both servers.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	logger, logCloser := logging.New(logging.Options{Level: cfg.LogLevel, JSON: true, Output: os.Stdout})

	var (
		db *sql.DB
		rm repomanager.RepositoryManager
	)
	if cfg.DatabaseDSN == MemoryDSN {
		rm = repomanager.NewInMemoryRepositoryManager()
	} else {
		var err error
		db, err = sql.Open("pgx", cfg.DatabaseDSN)
		if err != nil {
			_ = logCloser.Close()
			return nil, fmt.Errorf("db init error: %w", err)
		}
		rm = repomanager.NewPostgresRepositoryManager()
		if err := rm.RunMigrations(ctx, db); err != nil {
			_ = db.Close()
			_ = logCloser.Close()
			return nil, fmt.Errorf("migrations: %w", err)
		}
	}

	reg := prometheus.NewRegistry()
	collector := metrics.NewCollector(reg)
	svc := services.NewDocumentService(db, rm, nil)

	return &App{
		config:    cfg,
		logger:    logger,
		logCloser: logCloser,
		db:        db,
		grpc:      gs.NewServer(cfg.GRPCAddr, logger, svc, cfg.SecretKey, collector),
		http: &http.Server{
			Addr:              cfg.HTTPAddr,
			Handler:           httpapi.NewRouter(httpapi.RouterDeps{Store: svc, Gatherer: reg, Logger: logger}),
			ReadHeaderTimeout: 5 * time.Second,
		},
	}, nil
}

// Run serves until ctx is cancelled or either server fails, then shuts
// both down within the configured timeout.
func (app *App) Run(ctx context.Context) error {
	app.logger.Info(ctx, "starting docstore", "grpc", app.config.GRPCAddr, "http", app.config.HTTPAddr)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return app.grpc.Run(ctx)
	})

	g.Go(func() error {
		if err := app.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), app.config.ShutdownTimeout)
		defer cancel()
		return app.http.Shutdown(shutdownCtx)
	})

	err := g.Wait()
	if err != nil {
		app.logger.Error(context.Background(), "docstore stopped", "error", err)
	} else {
		app.logger.Info(context.Background(), "docstore stopped")
	}
	return errors.Join(err, app.close())
}

func (app *App) close() error {
	var err error
	if app.db != nil {
		err = app.db.Close()
	}
	return errors.Join(err, app.logCloser.Close())
}
