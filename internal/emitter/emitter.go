package emitter

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/feral-file/ff-observations/internal/adapter"
	"github.com/feral-file/ff-observations/internal/domain"
	"github.com/feral-file/ff-observations/internal/logger"
	"github.com/feral-file/ff-observations/internal/messaging"
	"github.com/feral-file/ff-observations/internal/store"
)

// Config holds the configuration for the event emitter
type Config struct {
	ChainID         domain.Chain
	StartBlock      uint64
	CursorSaveFreq  uint64        // Save cursor every N blocks
	CursorSaveDelay time.Duration // Or save cursor every N seconds
	// Backfill replays the blocks missed since the saved cursor before following new ones
	Backfill bool
}

// Emitter defines the interface for the event emitter
type Emitter interface {
	// Run starts the event emitter
	Run(ctx context.Context) error
	// Close closes the emitter and cleans up resources
	Close()
}

// emitter follows the ledger contract's log and publishes every record to NATS
type emitter struct {
	subscriber messaging.Subscriber
	publisher  messaging.Publisher
	store      store.Store
	config     Config
	clock      adapter.Clock
}

// NewEmitter creates a new event emitter
func NewEmitter(
	sub messaging.Subscriber,
	pub messaging.Publisher,
	st store.Store,
	cfg Config,
	clock adapter.Clock,
) Emitter {
	return &emitter{
		subscriber: sub,
		publisher:  pub,
		store:      st,
		config:     cfg,
		clock:      clock,
	}
}

// resumeBlock returns the first block not yet published, or 0 when there is no cursor
func (e *emitter) resumeBlock(ctx context.Context) (uint64, error) {
	if e.config.StartBlock > 0 {
		logger.InfoCtx(ctx, "Starting from configured block", zap.String("chain", string(e.config.ChainID)), zap.Uint64("block", e.config.StartBlock))
		return e.config.StartBlock, nil
	}

	lastBlock, err := e.store.GetBlockCursor(ctx, string(e.config.ChainID))
	if err != nil {
		return 0, fmt.Errorf("failed to get block cursor: %w", err)
	}
	if lastBlock == 0 {
		return 0, nil
	}

	logger.InfoCtx(ctx, "Resuming from last processed block", zap.String("chain", string(e.config.ChainID)), zap.Uint64("block", lastBlock+1))
	return lastBlock + 1, nil
}

// Run starts the event emitter
func (e *emitter) Run(ctx context.Context) error {
	startBlock, err := e.resumeBlock(ctx)
	if err != nil {
		return err
	}

	var latestBlock uint64
	if startBlock == 0 || e.config.Backfill {
		latestBlock, err = e.subscriber.GetLatestBlock(ctx)
		if err != nil {
			return fmt.Errorf("failed to get latest block number: %w", err)
		}
	}
	if startBlock == 0 {
		startBlock = latestBlock
		logger.InfoCtx(ctx, "Starting from latest block", zap.String("chain", string(e.config.ChainID)), zap.Uint64("block", startBlock))
	}

	errCh := make(chan error, 1)

	go func() {
		lastSavedBlock := uint64(0)
		lastSaveTime := e.clock.Now()

		handler := func(event *domain.LedgerEvent) error {
			if err := e.publisher.PublishEvent(ctx, event); err != nil {
				return fmt.Errorf("failed to publish event %s: %w", event.TxHash, err)
			}

			// Later records of this block may still be unpublished, so the
			// cursor only covers the blocks before it
			if event.BlockNumber == 0 {
				return nil
			}
			completed := event.BlockNumber - 1
			shouldSave := completed > lastSavedBlock &&
				(completed-lastSavedBlock >= e.config.CursorSaveFreq ||
					e.clock.Since(lastSaveTime) >= e.config.CursorSaveDelay)

			if shouldSave {
				if err := e.store.SetBlockCursor(ctx, string(e.config.ChainID), completed); err != nil {
					logger.ErrorCtx(ctx, err, zap.String("message", "Failed to save block cursor"))
				} else {
					lastSavedBlock = completed
					lastSaveTime = e.clock.Now()
				}
			}

			return nil
		}

		if e.config.Backfill && startBlock < latestBlock {
			logger.InfoCtx(ctx, "Backfilling missed blocks",
				zap.String("chain", string(e.config.ChainID)),
				zap.Uint64("fromBlock", startBlock),
				zap.Uint64("toBlock", latestBlock))

			if err := e.subscriber.Backfill(ctx, startBlock, latestBlock, handler); err != nil {
				errCh <- fmt.Errorf("failed to backfill: %w", err)
				return
			}
			if err := e.store.SetBlockCursor(ctx, string(e.config.ChainID), latestBlock); err != nil {
				logger.ErrorCtx(ctx, err, zap.String("message", "Failed to save block cursor"))
			}
			startBlock = latestBlock + 1
		}

		logger.InfoCtx(ctx, "Starting event subscription", zap.String("chain", string(e.config.ChainID)), zap.Uint64("fromBlock", startBlock))
		if err := e.subscriber.SubscribeEvents(ctx, startBlock, handler); err != nil {
			errCh <- err
		}
	}()

	// Wait for error or context cancellation
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close closes the emitter and cleans up resources
func (e *emitter) Close() {
	e.subscriber.Close()
	e.publisher.Close()
}
