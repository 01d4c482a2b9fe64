// Package trash implements the soft-delete lifecycle of diary entries:
// move to trash, restore as a new entry, and permanent eviction after the
// retention window.
//
// Trash is local only. Nothing here talks to the remote store directly;
// the delete of the active entry and the insert of a restored one go
// through the diary write path, which replicates them as usual.
package trash

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrijs2005/myday/internal/client/live"
	"github.com/dmitrijs2005/myday/internal/client/models"
	trashrepo "github.com/dmitrijs2005/myday/internal/client/repositories/trash"
	"github.com/dmitrijs2005/myday/internal/common"
	"github.com/dmitrijs2005/myday/internal/logging"
	"github.com/dmitrijs2005/myday/internal/metrics"
	"github.com/dmitrijs2005/myday/internal/timex"
)

const (
	// RetentionDays is how long a trashed entry is kept.
	RetentionDays = 30

	Day       = 24 * time.Hour
	Retention = RetentionDays * Day
)

// EntryWriter is the diary write path used to move entries in and out of
// the trash.
type EntryWriter interface {
	GetByID(ctx context.Context, id int64) (*models.Entry, error)
	Insert(ctx context.Context, e *models.Entry) (int64, error)
	Delete(ctx context.Context, id int64) error
}

type Manager struct {
	entries  EntryWriter
	repo     trashrepo.Repository
	clock    timex.Clock
	notifier *live.Notifier
	metrics  metrics.Recorder
	logger   logging.Logger
}

func NewManager(entries EntryWriter, repo trashrepo.Repository, clock timex.Clock, n *live.Notifier, m metrics.Recorder, logger logging.Logger) *Manager {
	if clock == nil {
		clock = timex.SystemClock{}
	}
	if m == nil {
		m = metrics.Nop{}
	}
	if logger == nil {
		logger = logging.Nop{}
	}
	return &Manager{entries: entries, repo: repo, clock: clock, notifier: n, metrics: m, logger: logger}
}

// SoftDelete copies the entry into the trash and then deletes it. The two
// steps are not atomic: if the delete fails the copy stays in the trash.
func (m *Manager) SoftDelete(ctx context.Context, entryID int64) (*models.TrashedEntry, error) {
	e, err := m.entries.GetByID(ctx, entryID)
	if err != nil {
		return nil, common.NewStorageError("soft delete", err)
	}

	t := models.Trash(e, m.clock.Now())
	id, err := m.repo.Insert(ctx, t)
	if err != nil {
		return nil, common.NewStorageError("soft delete", err)
	}
	t.LocalID = id
	m.notifier.Notify(live.TopicTrash)

	if err := m.entries.Delete(ctx, entryID); err != nil {
		return t, common.NewStorageError("soft delete", err)
	}
	return t, nil
}

// Restore re-creates the trashed entry as a new active entry with a new
// local id and no remote id, then drops it from the trash.
func (m *Manager) Restore(ctx context.Context, trashID int64) (*models.Entry, error) {
	t, err := m.repo.GetByID(ctx, trashID)
	if err != nil {
		return nil, common.NewStorageError("restore", err)
	}

	e := t.Restored()
	id, err := m.entries.Insert(ctx, e)
	if err != nil {
		return nil, common.NewStorageError("restore", err)
	}
	e.LocalID = id

	if err := m.repo.DeleteByID(ctx, trashID); err != nil {
		return e, common.NewStorageError("restore", err)
	}
	m.notifier.Notify(live.TopicTrash)
	return e, nil
}

// RestoreMany restores each id in order and stops at the first failure.
func (m *Manager) RestoreMany(ctx context.Context, ids []int64) ([]*models.Entry, error) {
	restored := make([]*models.Entry, 0, len(ids))
	for _, id := range ids {
		e, err := m.Restore(ctx, id)
		if err != nil {
			return restored, err
		}
		restored = append(restored, e)
	}
	return restored, nil
}

// List returns the trash, most recently deleted first.
func (m *Manager) List(ctx context.Context) ([]*models.TrashedEntry, error) {
	items, err := m.repo.GetAll(ctx)
	if err != nil {
		return nil, common.NewStorageError("list trash", err)
	}
	return items, nil
}

// Evict permanently deletes one trashed entry.
func (m *Manager) Evict(ctx context.Context, trashID int64) error {
	if err := m.repo.DeleteByID(ctx, trashID); err != nil {
		return common.NewStorageError("evict", err)
	}
	m.evicted(ctx, 1)
	return nil
}

// EvictMany permanently deletes the selected entries and reports how many
// existed.
func (m *Manager) EvictMany(ctx context.Context, ids []int64) (int64, error) {
	n, err := m.repo.DeleteByIDs(ctx, ids)
	if err != nil {
		return 0, common.NewStorageError("evict", err)
	}
	m.evicted(ctx, n)
	return n, nil
}

// EvictAll empties the trash.
func (m *Manager) EvictAll(ctx context.Context) (int64, error) {
	n, err := m.repo.DeleteAll(ctx)
	if err != nil {
		return 0, common.NewStorageError("empty trash", err)
	}
	m.evicted(ctx, n)
	return n, nil
}

// EvictExpired deletes every entry trashed more than Retention ago.
func (m *Manager) EvictExpired(ctx context.Context) (int64, error) {
	n, err := m.repo.DeleteOlderThan(ctx, m.clock.Now().Add(-Retention))
	if err != nil {
		return 0, common.NewStorageError("evict expired", err)
	}
	m.evicted(ctx, n)
	return n, nil
}

func (m *Manager) evicted(ctx context.Context, n int64) {
	if n == 0 {
		return
	}
	m.metrics.RecordEvicted(int(n))
	m.notifier.Notify(live.TopicTrash)
	m.logger.Info(ctx, "trash evicted", "count", n)
}

// RemainingDays returns how many days are left before the oldest trashed
// entry expires. ok is false when the trash is empty.
func (m *Manager) RemainingDays(ctx context.Context) (days int, ok bool, err error) {
	oldest, err := m.repo.Oldest(ctx)
	if errors.Is(err, common.ErrNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, common.NewStorageError("remaining days", err)
	}
	return RemainingDaysAt(oldest.DeletedAt, m.clock.Now()), true, nil
}

// RemainingDaysAt is RetentionDays minus the whole days elapsed between
// deletedAt and now, rounded down. A deletedAt in the future counts as a
// negative number of days.
func RemainingDaysAt(deletedAt, now time.Time) int {
	elapsed := now.Sub(deletedAt)
	days := elapsed / Day
	if elapsed%Day < 0 {
		days--
	}
	return RetentionDays - int(days)
}
