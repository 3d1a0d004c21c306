// Package ingest drives a single ingestion pass: it pulls decoded
// messages from the codec collaborator, appends them to the record
// store, collects clock offset samples along the way and applies the
// time domain reconciliation once the feed is exhausted.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"

	"github.com/aistovaai/uavlogviewer/internal/store"
	"github.com/aistovaai/uavlogviewer/internal/telemetry"
	"github.com/aistovaai/uavlogviewer/internal/timesync"
)

// ErrAlreadyRunning is returned when a pass is started on a Runner whose
// previous pass has not finished.
var ErrAlreadyRunning = errors.New("ingestion pass is already running")

// WithLogger sets the logger for the runner.
func WithLogger(logger *slog.Logger) func(*Runner) {
	return func(r *Runner) {
		r.logger = logger
	}
}

// Runner executes ingestion passes against a record store. The store has
// no internal locking, so the runner is the store's only writer and
// readers must wait for the pass to complete; Begin returns the channel
// that signals completion.
type Runner struct {
	store  *store.Store
	logger *slog.Logger

	running  atomic.Bool
	rec      timesync.Reconciliation
	appended int
}

// New creates a Runner appending to st, with a discard logger by
// default.
func New(st *store.Store, options ...func(*Runner)) *Runner {
	r := Runner{
		store:  st,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)), // nil logger
	}

	for _, option := range options {
		option(&r)
	}

	return &r
}

// Run executes one ingestion pass synchronously: messages are appended
// until the decoder reports io.EOF, then the reconciliation is computed
// and the absolute domain backfilled.
//
// Cancellation is cooperative and only happens between appends; each
// append is atomic, so a cancelled pass leaves the store exactly as of
// the last completed append. A decoder failure aborts the pass the same
// way. In both cases no reconciliation is applied.
func (r *Runner) Run(ctx context.Context, dec telemetry.Decoder) error {
	if !r.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer r.running.Store(false)

	r.logger.Info("starting ingestion pass")

	r.rec = timesync.Reconciliation{}
	r.appended = 0

	var sampler timesync.Sampler
	for {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("ingestion cancelled: %w", err)
		}

		msg, err := dec.Next(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("decoding message: %w", err)
		}

		sampler.Observe(msg.Raw)
		r.store.Append(msg.Type, timesync.Timestamps(msg.Raw), msg.Fields)
		r.appended++
	}

	r.rec = sampler.Reconcile()
	r.rec.Backfill(r.store)

	if r.rec.Applied() {
		r.logger.Info("ingestion pass complete",
			slog.Int("records", r.appended),
			slog.Int("offsetSamples", r.rec.Samples),
			slog.Float64("offset", r.rec.Offset))
	} else {
		// Not an error: the absolute domain is simply unavailable.
		r.logger.Info("ingestion pass complete, no co-occurring timestamps observed",
			slog.Int("records", r.appended))
	}

	return nil
}

// Begin runs the pass in its own goroutine and returns a channel that
// receives the terminal error, if any, and is closed on completion.
// Queries and catalog builds must not start until the channel yields.
func (r *Runner) Begin(ctx context.Context, dec telemetry.Decoder) <-chan error {
	done := make(chan error, 1)
	go func() {
		defer close(done)
		if err := r.Run(ctx, dec); err != nil {
			done <- err
		}
	}()
	return done
}

// Reconciliation returns the outcome of the last completed pass. The
// zero value is returned before any pass completes or when the pass
// observed no offset samples; Applied distinguishes the latter.
func (r *Runner) Reconciliation() timesync.Reconciliation {
	return r.rec
}

// Appended returns the number of records appended by the last pass.
func (r *Runner) Appended() int {
	return r.appended
}
