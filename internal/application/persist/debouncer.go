// Package persist coalesces bursts of document mutations into single
// persistence calls. It is deliberately decoupled from the HTTP layer
// so it can be exercised without a server.
package persist

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/soloplan/core/internal/infrastructure/logger"
	"github.com/soloplan/core/internal/ports"
)

// SaveFunc persists a document patch. It is typically
// DocumentRepository.Save.
type SaveFunc func(ctx context.Context, patch ports.DocumentPatch) error

// Metrics counts persister activity.
type Metrics struct {
	Persists  prometheus.Counter
	Failures  prometheus.Counter
	Coalesced prometheus.Counter
}

// NewMetrics creates and registers the persister metrics.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Persists: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "document_persist_total",
			Help: "Total number of document persistence calls",
		}),
		Failures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "document_persist_failures_total",
			Help: "Total number of failed document persistence calls",
		}),
		Coalesced: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "document_mutations_coalesced_total",
			Help: "Number of mutations absorbed into an already pending persist",
		}),
	}
	reg.MustRegister(m.Persists, m.Failures, m.Coalesced)
	return m
}

// Debouncer batches rapid mutations and issues at most one
// persistence call per quiescent window. Guarantees: the final
// persisted state reflects the latest scheduled patch; at most one
// write is in flight at a time; a failed write never blocks further
// mutations, the next mutation simply retries with the latest state.
type Debouncer struct {
	window  time.Duration
	timeout time.Duration
	save    SaveFunc
	onError func(error)
	logger  *logger.Logger
	metrics *Metrics

	mu       sync.Mutex
	cond     *sync.Cond
	timer    *time.Timer
	pending  *ports.DocumentPatch
	inflight bool
	rearm    bool
	closed   bool
}

// New creates a debouncer. onError may be nil; metrics may be nil.
func New(window, timeout time.Duration, save SaveFunc, onError func(error), appLogger *logger.Logger, metrics *Metrics) *Debouncer {
	d := &Debouncer{
		window:  window,
		timeout: timeout,
		save:    save,
		onError: onError,
		logger:  appLogger,
		metrics: metrics,
	}
	d.cond = sync.NewCond(&d.mu)
	return d
}

// Schedule records the latest document state and (re)arms the
// quiescence timer. A patch scheduled while another is pending
// replaces it; the earlier one is never written.
func (d *Debouncer) Schedule(patch ports.DocumentPatch) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return
	}
	if d.pending != nil && d.metrics != nil {
		d.metrics.Coalesced.Inc()
	}
	d.pending = &patch

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.window, d.fire)
}

func (d *Debouncer) fire() {
	d.mu.Lock()
	if d.inflight {
		// A write is running; finish it first, then go again.
		d.rearm = true
		d.mu.Unlock()
		return
	}
	patch := d.pending
	d.pending = nil
	if patch == nil {
		d.mu.Unlock()
		return
	}
	d.inflight = true
	d.mu.Unlock()

	d.write(*patch)

	d.mu.Lock()
	d.inflight = false
	again := d.rearm || d.pending != nil
	d.rearm = false
	d.cond.Broadcast()
	d.mu.Unlock()

	if again {
		// The window already elapsed for the superseding mutation.
		d.fire()
	}
}

func (d *Debouncer) write(patch ports.DocumentPatch) {
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	err := d.save(ctx, patch)
	if d.metrics != nil {
		d.metrics.Persists.Inc()
		if err != nil {
			d.metrics.Failures.Inc()
		}
	}
	if err != nil {
		// In-memory state is never rolled back; the next mutation
		// retries with the latest state.
		d.logger.Errorw("Document persist failed", "error", err)
		if d.onError != nil {
			d.onError(err)
		}
	}
}

// Flush synchronously persists any pending patch, waiting for an
// in-flight write to finish first. Used on shutdown so the accepted
// data-loss window does not apply to a clean exit.
func (d *Debouncer) Flush(ctx context.Context) error {
	d.mu.Lock()
	if d.timer != nil {
		d.timer.Stop()
	}
	for d.inflight {
		d.cond.Wait()
	}
	patch := d.pending
	d.pending = nil
	if patch == nil {
		d.mu.Unlock()
		return nil
	}
	d.inflight = true
	d.mu.Unlock()

	err := d.save(ctx, *patch)
	if d.metrics != nil {
		d.metrics.Persists.Inc()
		if err != nil {
			d.metrics.Failures.Inc()
		}
	}

	d.mu.Lock()
	d.inflight = false
	d.cond.Broadcast()
	d.mu.Unlock()
	return err
}

// Close flushes and stops accepting further schedules.
func (d *Debouncer) Close(ctx context.Context) error {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()
	return d.Flush(ctx)
}
