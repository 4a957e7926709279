// Package resilient wraps the durable repositories with an in-memory
// mirror so the server keeps answering when the database is down.
//
// In primary mode every operation runs against the durable backend and
// successful writes are replayed into the mirror. When an operation
// fails with an infrastructure error the breaker trips, the operation
// is retried once against the mirror, and all traffic stays on the
// mirror until a health probe reaches the database again.
//
// Writes accepted while degraded live only in the mirror. Recovery
// does not replay them into the durable store: primary mode resumes
// with whatever state the database held when it went down, and
// mirror-only records are no longer served.
package resilient

import (
	"context"
	"log/slog"
	"time"

	"github.com/planforge/rackplan/internal/metrics"
	"github.com/planforge/rackplan/internal/repository"
)

// Options configures a Backend.
type Options struct {
	// PrimaryTimeout bounds each call to the durable backend so a hung
	// connection degrades instead of blocking requests. Zero disables
	// the per-call deadline.
	PrimaryTimeout time.Duration
	// ProbeInterval is how often the health probe pings the durable
	// backend while degraded. Zero disables the probe, leaving the
	// backend degraded until restart.
	ProbeInterval time.Duration
}

// Backend tracks the health of the durable store and decides, per
// operation, whether to run it against the primary or the mirror.
type Backend struct {
	pinger  repository.Pinger
	breaker *breaker
	opts    Options
	logger  *slog.Logger
}

// NewBackend wires the breaker around the durable backend identified by
// pinger. The pinger may be nil when no durable backend was configured,
// in which case the backend starts degraded.
func NewBackend(pinger repository.Pinger, opts Options, logger *slog.Logger) *Backend {
	if logger == nil {
		logger = slog.Default()
	}
	b := &Backend{
		pinger: pinger,
		opts:   opts,
		logger: logger,
	}
	b.breaker = newBreaker(func(from, to Mode) {
		if to == ModeDegraded {
			metrics.StoreDegraded.Set(1)
			logger.Warn("durable store unavailable, serving from in-memory mirror")
		} else {
			metrics.StoreDegraded.Set(0)
			logger.Info("durable store recovered, resuming primary mode")
		}
	})
	if pinger == nil {
		b.breaker.Trip()
	}
	return b
}

// Mode reports the current serving mode.
func (b *Backend) Mode() Mode {
	return b.breaker.Mode()
}

// StartProbe launches the recovery probe. It returns immediately; the
// probe stops when ctx is cancelled. A zero probe interval or a nil
// pinger disables recovery.
func (b *Backend) StartProbe(ctx context.Context) {
	if b.opts.ProbeInterval <= 0 || b.pinger == nil {
		return
	}
	go func() {
		ticker := time.NewTicker(b.opts.ProbeInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if b.breaker.Mode() != ModeDegraded {
					continue
				}
				probeCtx, cancel := context.WithTimeout(ctx, b.probeTimeout())
				err := b.pinger.Ping(probeCtx)
				cancel()
				if err != nil {
					b.logger.Debug("durable store still unreachable", "error", err)
					continue
				}
				// Mirror writes accepted while degraded are not
				// replayed; the durable state wins on recovery.
				b.breaker.Reset()
			}
		}
	}()
}

func (b *Backend) probeTimeout() time.Duration {
	if b.opts.PrimaryTimeout > 0 {
		return b.opts.PrimaryTimeout
	}
	return 5 * time.Second
}

// read runs op against the primary, falling back to the mirror on an
// infrastructure failure. In degraded mode it goes straight to the
// mirror.
func (b *Backend) read(ctx context.Context, op string, primary, mirror func(context.Context) error) error {
	if b.breaker.Mode() == ModeDegraded {
		return b.runMirror(ctx, op, mirror)
	}
	start := time.Now()
	err := b.runPrimary(ctx, primary)
	metrics.ObserveStoreOperation(op, "primary", time.Since(start))
	if !isInfrastructure(err) {
		return err
	}
	b.degrade(op, err)
	return b.runMirror(ctx, op, mirror)
}

// write is read plus mirror replay: when the primary write succeeds the
// same mutation is applied to the mirror so a later fallback serves
// current data.
func (b *Backend) write(ctx context.Context, op string, primary, mirror func(context.Context) error) error {
	if b.breaker.Mode() == ModeDegraded {
		return b.runMirror(ctx, op, mirror)
	}
	start := time.Now()
	err := b.runPrimary(ctx, primary)
	metrics.ObserveStoreOperation(op, "primary", time.Since(start))
	if err == nil {
		if mirrorErr := mirror(ctx); mirrorErr != nil {
			b.logger.Warn("mirror replay failed", "operation", op, "error", mirrorErr)
		}
		return nil
	}
	if !isInfrastructure(err) {
		return err
	}
	b.degrade(op, err)
	return b.runMirror(ctx, op, mirror)
}

func (b *Backend) runPrimary(ctx context.Context, fn func(context.Context) error) error {
	if b.opts.PrimaryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.opts.PrimaryTimeout)
		defer cancel()
	}
	return fn(ctx)
}

func (b *Backend) runMirror(ctx context.Context, op string, fn func(context.Context) error) error {
	start := time.Now()
	err := fn(ctx)
	metrics.ObserveStoreOperation(op, "mirror", time.Since(start))
	return err
}

func (b *Backend) degrade(op string, err error) {
	b.logger.Error("primary store operation failed", "operation", op, "error", err)
	metrics.StoreFallbackTotal.WithLabelValues(op).Inc()
	b.breaker.Trip()
}
