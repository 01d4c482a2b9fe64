package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/myday/internal/client/config"
	"github.com/dmitrijs2005/myday/internal/client/enrich"
	"github.com/dmitrijs2005/myday/internal/client/remote"
	"github.com/dmitrijs2005/myday/internal/client/repositories/entries"
	"github.com/dmitrijs2005/myday/internal/client/repositories/links"
	trashrepo "github.com/dmitrijs2005/myday/internal/client/repositories/trash"
	"github.com/dmitrijs2005/myday/internal/client/services"
	"github.com/dmitrijs2005/myday/internal/client/store"
	"github.com/dmitrijs2005/myday/internal/client/syncer"
	"github.com/dmitrijs2005/myday/internal/client/trash"
	"github.com/dmitrijs2005/myday/internal/logging"
	"github.com/dmitrijs2005/myday/internal/metrics"
	"github.com/dmitrijs2005/myday/internal/timex"
	"github.com/prometheus/client_golang/prometheus"
)

// Options are the process inputs. Zero fields fall back to the real
// process environment; tests fill them in.
type Options struct {
	Args   []string
	Getenv func(string) string
	In     io.Reader
	Out    io.Writer
	Err    io.Writer

	// Remote replaces the backend chosen by configuration.
	Remote remote.Store
	// Extractor replaces the HTTP metadata fetcher.
	Extractor enrich.Extractor
	Clock     timex.Clock
	// LogOutput sends logs to a writer instead of the configured log file.
	LogOutput io.Writer
}

func (o *Options) defaults() {
	if o.Args == nil {
		o.Args = os.Args[1:]
	}
	if o.Getenv == nil {
		o.Getenv = os.Getenv
	}
	if o.In == nil {
		o.In = os.Stdin
	}
	if o.Out == nil {
		o.Out = os.Stdout
	}
	if o.Err == nil {
		o.Err = os.Stderr
	}
	if o.Clock == nil {
		o.Clock = timex.SystemClock{}
	}
}

// App holds the services a command runs against.
type App struct {
	cfg    *config.Config
	clock  timex.Clock
	store  *store.Store
	remote remote.Store
	tasks  *syncer.Dispatcher
	logger logging.Logger

	// registry holds the replication counters of this run; Close logs them.
	registry *prometheus.Registry

	diary   services.DiaryService
	links   services.LinkService
	trash   *services.TrashService
	sync    *services.SyncService
	profile *services.ProfileService

	remoteCloser io.Closer
	logCloser    io.Closer
}

func openApp(ctx context.Context, cfg *config.Config, opts *Options) (*App, error) {
	a := &App{cfg: cfg, clock: opts.Clock}

	logOpts := logging.Options{Level: cfg.LogLevel, Output: opts.LogOutput, MaxSizeMB: 10, MaxBackups: 3}
	if opts.LogOutput == nil {
		logOpts.File = cfg.LogFile
	}
	logger, logCloser := logging.New(logOpts)
	a.logger = logger.With("owner", cfg.OwnerID)

	st, err := store.Open(ctx, cfg.DatabasePath)
	if err != nil {
		_ = logCloser.Close()
		return nil, fmt.Errorf("open local store: %w", err)
	}
	a.store = st

	rs := opts.Remote
	if rs == nil {
		rs, err = a.dialRemote(ctx)
		if err != nil {
			_ = st.Close()
			_ = logCloser.Close()
			return nil, err
		}
	}
	a.remote = rs

	a.registry = prometheus.NewRegistry()
	rec := metrics.NewCollector(a.registry)
	a.tasks = syncer.NewDispatcher(cfg.SyncWorkers, cfg.RequestTimeout, a.logger)

	extractor := opts.Extractor
	if extractor == nil {
		extractor = enrich.NewFetcher(enrich.Options{Timeout: cfg.EnrichTimeout, Logger: a.logger})
	}

	owner := cfg.OwnerID
	db := st.DB
	a.diary = services.NewDiaryService(owner, entries.NewSQLiteRepository(db),
		syncer.NewEngine(syncer.EntryCodec(), db, rs, a.tasks, st.Notifier, rec, a.logger), st.Notifier, a.clock)
	a.links = services.NewLinkService(owner, links.NewSQLiteRepository(db),
		syncer.NewEngine(syncer.LinkCodec(), db, rs, a.tasks, st.Notifier, rec, a.logger), extractor, st.Notifier, a.clock)
	mgr := trash.NewManager(a.diary, trashrepo.NewSQLiteRepository(db), a.clock, st.Notifier, rec, a.logger)
	a.trash = services.NewTrashService(mgr, st.Notifier, a.logger)
	a.sync = services.NewSyncService(owner, a.diary, a.links)
	a.profile = services.NewProfileService(owner, rs, a.clock)

	a.logCloser = logCloser
	return a, nil
}

func (a *App) dialRemote(ctx context.Context) (remote.Store, error) {
	switch a.cfg.Backend {
	case config.BackendMemory:
		return remote.NewMemory(), nil
	case config.BackendGRPC:
		gs, err := remote.NewGRPCStore(a.cfg.ServerAddr, a.cfg.AccessToken, a.cfg.RequestTimeout)
		if err != nil {
			return nil, fmt.Errorf("connect to document store: %w", err)
		}
		a.remoteCloser = gs
		return gs, nil
	case config.BackendS3:
		s3cfg := a.cfg.S3
		ss, err := remote.NewS3Store(ctx, remote.S3Config{
			Bucket:    s3cfg.Bucket,
			Region:    s3cfg.Region,
			Endpoint:  s3cfg.Endpoint,
			AccessKey: s3cfg.AccessKey,
			SecretKey: s3cfg.SecretKey,
		})
		if err != nil {
			return nil, fmt.Errorf("configure s3 store: %w", err)
		}
		return ss, nil
	default:
		return remote.Disabled{}, nil
	}
}

// Close waits for pending pushes, then releases the remote connection,
// the database and the log file.
func (a *App) Close() error {
	a.tasks.Wait()
	a.tasks.Close()
	a.logMetrics(context.Background())

	var errs []error
	if a.remoteCloser != nil {
		errs = append(errs, a.remoteCloser.Close())
	}
	errs = append(errs, a.store.Close(), a.logCloser.Close())
	return errors.Join(errs...)
}

// logMetrics writes the non-zero replication counters of this run to the log.
func (a *App) logMetrics(ctx context.Context) {
	samples, err := metrics.Snapshot(a.registry)
	if err != nil {
		a.logger.Warn(ctx, "gather metrics failed", "error", err)
		return
	}
	for _, smp := range samples {
		a.logger.Info(ctx, "session metric", "series", smp.Series, "value", smp.Value)
	}
}
