// Package syncer replicates local records to and from the remote store.
//
// Pushes are fire-and-forget: they run on a Dispatcher, and a remote
// failure leaves the local record untouched with an empty remote id. Pull
// is insert-only and skips any document whose id is already known locally.
package syncer

import (
	"context"

	"github.com/dmitrijs2005/myday/internal/client/live"
	"github.com/dmitrijs2005/myday/internal/client/remote"
	"github.com/dmitrijs2005/myday/internal/common"
	"github.com/dmitrijs2005/myday/internal/dbx"
	"github.com/dmitrijs2005/myday/internal/logging"
	"github.com/dmitrijs2005/myday/internal/metrics"
)

// Record is a local row replicated to one remote collection.
type Record interface {
	GetLocalID() int64
	GetOwnerID() string
	GetRemoteID() string
	Fields() map[string]any
}

// Local is the part of a repository the engine writes through.
type Local[T Record] interface {
	Insert(ctx context.Context, rec T) (int64, error)
	AssignRemoteID(ctx context.Context, id int64, remoteID string) (bool, error)
	KnownRemoteIDs(ctx context.Context, owner string) (map[string]struct{}, error)
}

// DB is a handle that can run queries and open transactions; *sql.DB.
type DB interface {
	dbx.DBTX
	dbx.TxBeginner
}

// Codec binds a record type to its table and remote collection.
type Codec[T Record] struct {
	Collection   string
	Topic        live.Topic
	Repo         func(db dbx.DBTX) Local[T]
	FromDocument func(owner, id string, fields map[string]any) T
}

// PullResult counts what one pull did.
type PullResult struct {
	Inserted int
	Skipped  int
}

// Engine replicates one collection.
type Engine[T Record] struct {
	codec    Codec[T]
	db       DB
	remote   remote.Store
	tasks    *Dispatcher
	notifier *live.Notifier
	metrics  metrics.Recorder
	logger   logging.Logger
}

func NewEngine[T Record](codec Codec[T], db DB, rs remote.Store, tasks *Dispatcher, n *live.Notifier, m metrics.Recorder, logger logging.Logger) *Engine[T] {
	if m == nil {
		m = metrics.Nop{}
	}
	if logger == nil {
		logger = logging.Nop{}
	}
	return &Engine[T]{
		codec:    codec,
		db:       db,
		remote:   rs,
		tasks:    tasks,
		notifier: n,
		metrics:  m,
		logger:   logger.With("collection", codec.Collection),
	}
}

// PushCreate uploads a freshly inserted record and stores the id the
// remote assigns. Records without an owner or with a remote id already set
// are not pushed.
func (e *Engine[T]) PushCreate(rec T) {
	if rec.GetOwnerID() == "" || rec.GetRemoteID() != "" {
		return
	}
	localID, owner, fields := rec.GetLocalID(), rec.GetOwnerID(), rec.Fields()

	e.tasks.Go("push create "+e.codec.Collection, func(ctx context.Context) error {
		remoteID, err := e.remote.Add(ctx, owner, e.codec.Collection, fields)
		e.metrics.RecordPush(e.codec.Collection, "add", err == nil)
		if err != nil {
			return err
		}

		changed, err := e.codec.Repo(e.db).AssignRemoteID(ctx, localID, remoteID)
		if err != nil {
			return common.NewStorageError("assign remote id", err)
		}
		if changed {
			e.notifier.Notify(e.codec.Topic)
		}
		e.logger.Debug(ctx, "record pushed", "local_id", localID, "remote_id", remoteID)
		return nil
	})
}

// PushUpdate mirrors an update of a record that has a remote id.
func (e *Engine[T]) PushUpdate(rec T) {
	if rec.GetOwnerID() == "" || rec.GetRemoteID() == "" {
		return
	}
	owner, remoteID, fields := rec.GetOwnerID(), rec.GetRemoteID(), rec.Fields()

	e.tasks.Go("push update "+e.codec.Collection, func(ctx context.Context) error {
		err := e.remote.Set(ctx, owner, e.codec.Collection, remoteID, fields)
		e.metrics.RecordPush(e.codec.Collection, "set", err == nil)
		return err
	})
}

// PushDelete mirrors a delete of a record that has a remote id.
func (e *Engine[T]) PushDelete(rec T) {
	if rec.GetOwnerID() == "" || rec.GetRemoteID() == "" {
		return
	}
	owner, remoteID := rec.GetOwnerID(), rec.GetRemoteID()

	e.tasks.Go("push delete "+e.codec.Collection, func(ctx context.Context) error {
		err := e.remote.Delete(ctx, owner, e.codec.Collection, remoteID)
		e.metrics.RecordPush(e.codec.Collection, "delete", err == nil)
		return err
	})
}

// Pull fetches every remote document of owner and inserts those whose id is
// not yet stored locally. Existing local records are never modified.
func (e *Engine[T]) Pull(ctx context.Context, owner string) (PullResult, error) {
	var res PullResult
	if owner == "" {
		return res, common.NewRemoteError("pull", e.codec.Collection, common.ErrNoOwner)
	}

	docs, err := e.remote.FetchAll(ctx, owner, e.codec.Collection)
	if err != nil {
		return res, err
	}

	err = dbx.WithTx(ctx, e.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := e.codec.Repo(tx)
		known, err := repo.KnownRemoteIDs(ctx, owner)
		if err != nil {
			return err
		}
		for _, d := range docs {
			if _, ok := known[d.ID]; ok || d.ID == "" {
				res.Skipped++
				continue
			}
			if _, err := repo.Insert(ctx, e.codec.FromDocument(owner, d.ID, d.Fields)); err != nil {
				return err
			}
			known[d.ID] = struct{}{}
			res.Inserted++
		}
		return nil
	})
	if err != nil {
		return PullResult{}, common.NewStorageError("pull "+e.codec.Collection, err)
	}

	e.metrics.RecordPull(e.codec.Collection, res.Inserted, res.Skipped)
	if res.Inserted > 0 {
		e.notifier.Notify(e.codec.Topic)
	}
	e.logger.Info(ctx, "pull finished", "inserted", res.Inserted, "skipped", res.Skipped)
	return res, nil
}
