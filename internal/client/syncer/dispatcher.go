package syncer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/myday/internal/common"
	"github.com/dmitrijs2005/myday/internal/logging"
	"golang.org/x/sync/semaphore"
)

// Dispatcher runs detached background tasks. Callers never wait on a task
// and never see its error; failures are logged here.
type Dispatcher struct {
	ctx     context.Context
	cancel  context.CancelFunc
	sem     *semaphore.Weighted
	wg      sync.WaitGroup
	timeout time.Duration
	logger  logging.Logger
}

// NewDispatcher allows at most workers concurrent tasks, each bounded by
// timeout when it is positive.
func NewDispatcher(workers int, timeout time.Duration, logger logging.Logger) *Dispatcher {
	if workers < 1 {
		workers = 1
	}
	if logger == nil {
		logger = logging.Nop{}
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Dispatcher{
		ctx:     ctx,
		cancel:  cancel,
		sem:     semaphore.NewWeighted(int64(workers)),
		timeout: timeout,
		logger:  logger,
	}
}

// Go schedules fn and returns immediately.
func (d *Dispatcher) Go(name string, fn func(ctx context.Context) error) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()

		if err := d.sem.Acquire(d.ctx, 1); err != nil {
			d.logger.Debug(d.ctx, "task dropped", "task", name, "error", err)
			return
		}
		defer d.sem.Release(1)

		ctx := d.ctx
		if d.timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, d.timeout)
			defer cancel()
		}

		d.log(ctx, name, d.run(ctx, fn))
	}()
}

func (d *Dispatcher) run(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic: %v", p)
		}
	}()
	return fn(ctx)
}

func (d *Dispatcher) log(ctx context.Context, name string, err error) {
	switch {
	case err == nil:
	case common.IsRemote(err), errors.Is(err, context.Canceled):
		d.logger.Warn(ctx, "background task failed", "task", name, "error", err)
	default:
		d.logger.Error(ctx, "background task failed", "task", name, "error", err)
	}
}

// Wait blocks until every scheduled task has finished.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Close cancels pending tasks and waits for running ones.
func (d *Dispatcher) Close() {
	d.cancel()
	d.wg.Wait()
}
