package order

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"tably-system/internal/session"
)

const ORDER_POLL_INTERVAL = 20 * time.Second

// Tracker polls an order's status while a guest is actively watching
// it. One fetch at a time per watch: the fetch runs inside the poll
// loop, so a slow upstream response simply delays the next tick instead
// of overlapping it.
//
// Polling does not stop on a terminal status by default — the watcher
// decides when to stop, matching the behavior the ordering UI always
// had. StopOnTerminal opts into the stricter policy.
type Tracker struct {
	api            orderAPI
	history        Recorder
	interval       time.Duration
	StopOnTerminal bool
	logger         *zap.SugaredLogger
}

func NewTracker(api orderAPI, history Recorder, interval time.Duration, logger *zap.SugaredLogger) *Tracker {
	if interval <= 0 {
		interval = ORDER_POLL_INTERVAL
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Tracker{api: api, history: history, interval: interval, logger: logger}
}

// Watch is a handle on one polling loop.
type Watch struct {
	OrderID string

	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}

	mu      sync.Mutex
	lastErr error
}

// Stop halts the loop; results of any request still in flight are
// discarded. Safe to call more than once.
func (w *Watch) Stop() {
	w.stopOnce.Do(func() { close(w.stop) })
}

// Done is closed when the loop has fully exited.
func (w *Watch) Done() <-chan struct{} { return w.done }

// Err returns the most recent poll failure, if any. Poll failures are
// transient: they never stop the loop.
func (w *Watch) Err() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastErr
}

func (w *Watch) setErr(err error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.lastErr = err
}

// Track fetches the order immediately, then on every interval until the
// watch is stopped or ctx is cancelled. Each result is applied to the
// store only after re-checking for cancellation, so teardown never
// races a late mutation.
func (t *Tracker) Track(ctx context.Context, orderID string, store *session.Store) *Watch {
	watch := &Watch{
		OrderID: orderID,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}

	go func() {
		defer close(watch.done)

		if terminal := t.poll(ctx, watch, store); terminal && t.StopOnTerminal {
			return
		}

		ticker := time.NewTicker(t.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-watch.stop:
				return
			case <-ticker.C:
				if terminal := t.poll(ctx, watch, store); terminal && t.StopOnTerminal {
					return
				}
			}
		}
	}()

	return watch
}

// poll runs one fetch and applies the result. Returns whether the order
// reached a terminal status.
func (t *Tracker) poll(ctx context.Context, watch *Watch, store *session.Store) bool {
	resp, err := t.api.GetOrder(ctx, watch.OrderID)
	if err != nil {
		watch.setErr(err)
		t.logger.Warnw("order poll failed", "order_id", watch.OrderID, "error", err)
		return false
	}
	watch.setErr(nil)

	// stopped while the request was in flight: discard the result
	select {
	case <-watch.stop:
		return false
	case <-ctx.Done():
		return false
	default:
	}

	projected := Projection(resp.Order)
	store.SetCurrentOrder(&projected)
	store.SetCurrentOrderID(projected.ID)

	if t.history != nil {
		if err := t.history.UpdateStatus(ctx, projected.ID, projected.Status, projected.TotalAmount, projected.UpdatedAt); err != nil {
			t.logger.Warnw("update order history", "order_id", projected.ID, "error", err)
		}
	}

	return projected.Status.Terminal()
}
