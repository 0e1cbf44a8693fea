package netsearch

import (
	"context"
	"sync"
	"sync/atomic"
)

// Progress is a cooperative cancellation token and work counter shared by all
// per-request tasks of one search run.
type Progress interface {
	SetTotalWork(n int)
	Worked()
	IsCanceled() bool
	Done()
}

// Tracker is a Progress bound to a context. It is canceled when the context is
// done or Cancel is called.
type Tracker struct {
	ctx      context.Context
	total    atomic.Int64
	worked   atomic.Int64
	canceled atomic.Bool
	doneOnce sync.Once
	finished chan struct{}
}

// NewTracker creates a Tracker whose cancellation follows ctx.
func NewTracker(ctx context.Context) *Tracker {
	return &Tracker{
		ctx:      ctx,
		finished: make(chan struct{}),
	}
}

// SetTotalWork sets the number of work units in the run.
func (t *Tracker) SetTotalWork(n int) {
	t.total.Store(int64(n))
}

// Worked records one completed work unit.
func (t *Tracker) Worked() {
	t.worked.Add(1)
}

// IsCanceled reports whether the run should stop.
func (t *Tracker) IsCanceled() bool {
	return t.canceled.Load() || t.ctx.Err() != nil
}

// Cancel requests cancellation of the run.
func (t *Tracker) Cancel() {
	t.canceled.Store(true)
}

// Done marks the run as finished. Calling Done more than once is a no-op.
func (t *Tracker) Done() {
	t.doneOnce.Do(func() {
		close(t.finished)
	})
}

// Finished is closed once Done has been called.
func (t *Tracker) Finished() <-chan struct{} {
	return t.finished
}

// Total returns the total work set by SetTotalWork.
func (t *Tracker) Total() int {
	return int(t.total.Load())
}

// WorkedCount returns the number of completed work units.
func (t *Tracker) WorkedCount() int {
	return int(t.worked.Load())
}
