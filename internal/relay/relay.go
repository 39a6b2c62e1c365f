package relay

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/feral-file/ff-observations/internal/adapter"
	"github.com/feral-file/ff-observations/internal/domain"
	"github.com/feral-file/ff-observations/internal/ledger"
	"github.com/feral-file/ff-observations/internal/logger"
	"github.com/feral-file/ff-observations/internal/messaging"
)

const (
	DEFAULT_POLL_INTERVAL = 2 * time.Second
	DEFAULT_BATCH_SIZE    = 100
)

// Config holds the configuration for the relay
type Config struct {
	PollInterval time.Duration
	BatchSize    int
	// RetryInitialInterval and RetryMaxElapsedTime shape the publish backoff
	RetryInitialInterval time.Duration
	RetryMaxElapsedTime  time.Duration
}

// Relay forwards the records committed by an in-process ledger to the message broker
type Relay interface {
	// Run forwards records until the context is cancelled or a publish permanently fails
	Run(ctx context.Context) error
	// Notify wakes the relay up without waiting for the next poll
	Notify()
	// Published returns the sequence of the last forwarded record
	Published() uint64
	// Close closes the publisher
	Close()
}

type relay struct {
	ledger    ledger.Ledger
	publisher messaging.Publisher
	clock     adapter.Clock
	config    Config
	wake      chan struct{}
	next      uint64
	published atomic.Uint64
}

// NewRelay creates a relay that starts with the first committed record
func NewRelay(l ledger.Ledger, pub messaging.Publisher, cfg Config, clock adapter.Clock) Relay {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DEFAULT_POLL_INTERVAL
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DEFAULT_BATCH_SIZE
	}
	if cfg.RetryInitialInterval <= 0 {
		cfg.RetryInitialInterval = 500 * time.Millisecond
	}
	if cfg.RetryMaxElapsedTime <= 0 {
		cfg.RetryMaxElapsedTime = 5 * time.Minute
	}

	return &relay{
		ledger:    l,
		publisher: pub,
		clock:     clock,
		config:    cfg,
		wake:      make(chan struct{}, 1),
		next:      1,
	}
}

// Run forwards records
func (r *relay) Run(ctx context.Context) error {
	logger.InfoCtx(ctx, "Starting relay", zap.Duration("pollInterval", r.config.PollInterval))

	for {
		if err := r.drain(ctx); err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			logger.InfoCtx(ctx, "Shutting down relay")
			return ctx.Err()
		case <-r.wake:
		case <-r.clock.After(r.config.PollInterval):
		}
	}
}

// drain publishes every committed record not yet forwarded
func (r *relay) drain(ctx context.Context) error {
	for {
		events := r.ledger.Events(r.next, r.config.BatchSize)
		if len(events) == 0 {
			return nil
		}

		for i := range events {
			if err := r.publishWithRetry(ctx, &events[i]); err != nil {
				return fmt.Errorf("failed to relay record %d: %w", r.next, err)
			}
			r.published.Store(r.next)
			r.next++
		}
	}
}

func (r *relay) publishWithRetry(ctx context.Context, event *domain.LedgerEvent) error {
	ctx = logger.WithHub(ctx, map[string]string{"dedupID": event.DedupID()})

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = r.config.RetryInitialInterval
	b.MaxInterval = 30 * time.Second
	b.MaxElapsedTime = r.config.RetryMaxElapsedTime
	b.Multiplier = 2.0
	b.RandomizationFactor = 0.5

	// Wrap with context to respect cancellation
	backoffWithContext := backoff.WithContext(b, ctx)

	operation := func() error {
		return r.publisher.PublishEvent(ctx, event)
	}

	var attemptCount int
	notifyOnError := func(err error, duration time.Duration) {
		attemptCount++
		logger.WarnCtx(ctx, "Relay publish failed, retrying",
			zap.Error(err),
			zap.String("dedupID", event.DedupID()),
			zap.Int("attempt", attemptCount),
			zap.Duration("next_retry_in", duration),
		)
	}

	if err := backoff.RetryNotify(operation, backoffWithContext, notifyOnError); err != nil {
		return fmt.Errorf("failed after %d attempts: %w", attemptCount+1, err)
	}

	return nil
}

func (r *relay) Notify() {
	select {
	case r.wake <- struct{}{}:
	default:
	}
}

func (r *relay) Published() uint64 {
	return r.published.Load()
}

func (r *relay) Close() {
	r.publisher.Close()
}
