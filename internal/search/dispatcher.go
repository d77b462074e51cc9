package search

import (
	"context"
	"sync"
	"time"

	"marketfront/internal/model"

	"go.uber.org/zap"
)

// DefaultQuietPeriod is how long after the last keystroke a query waits before
// hitting the network.
const DefaultQuietPeriod = 300 * time.Millisecond

// Result is a delivered search outcome. Seq is the fencing counter; consumers
// only ever see results from the newest issued query.
type Result struct {
	Seq      uint64          `json:"seq"`
	Query    string          `json:"query"`
	Projects []model.Project `json:"projects"`
	Total    int64           `json:"total"`
}

// Func runs the actual catalog search.
type Func func(ctx context.Context, query string) ([]model.Project, int64, error)

// Dispatcher debounces search-as-you-type input and fences responses: each
// issued request carries a monotonically increasing sequence, and a response
// older than the newest issued request is discarded instead of clobbering
// fresher results. This replaces the last-resolved-wins behavior with explicit
// ordering.
type Dispatcher struct {
	mu     sync.Mutex
	timer  *time.Timer
	seq    uint64
	closed bool

	quiet   time.Duration
	run     Func
	deliver func(Result)
	log     *zap.Logger
}

// New builds a dispatcher delivering fenced results to deliver.
func New(quiet time.Duration, run Func, deliver func(Result), log *zap.Logger) *Dispatcher {
	if quiet <= 0 {
		quiet = DefaultQuietPeriod
	}
	return &Dispatcher{quiet: quiet, run: run, deliver: deliver, log: log}
}

// Submit registers a keystroke: it restarts the quiet-period timer, so only
// the final query of a burst is issued.
func (d *Dispatcher) Submit(ctx context.Context, query string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	// The originating request finishes long before the quiet period elapses,
	// so the issued call must not inherit its cancellation.
	fetchCtx := context.WithoutCancel(ctx)
	d.timer = time.AfterFunc(d.quiet, func() {
		d.issue(fetchCtx, query)
	})
}

// Close stops the pending timer; later Submits are ignored. In-flight requests
// finish but their results are dropped by the fence.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.seq++ // fence out anything still in flight
}

func (d *Dispatcher) issue(ctx context.Context, query string) {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.seq++
	seq := d.seq
	d.mu.Unlock()

	go func() {
		projects, total, err := d.run(ctx, query)
		if err != nil {
			d.log.Warn("search failed", zap.String("query", query), zap.Error(err))
			return
		}

		d.mu.Lock()
		stale := seq != d.seq
		d.mu.Unlock()
		if stale {
			d.log.Debug("dropping superseded search result", zap.String("query", query), zap.Uint64("seq", seq))
			return
		}
		d.deliver(Result{Seq: seq, Query: query, Projects: projects, Total: total})
	}()
}
