// Package block caches the timestamps of blocks that carried ledger records.
package block

import (
	"context"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"github.com/feral-file/ff-observations/internal/logger"
)

// DEFAULT_CACHE_SIZE is the number of block timestamps kept when Config leaves it unset
const DEFAULT_CACHE_SIZE = 4096

// BlockProvider resolves block timestamps for decoded log records.
// Records of the same block share one lookup.
//
//go:generate mockgen -source=block.go -destination=../mocks/block_provider.go -package=mocks -mock_names=BlockProvider=MockBlockProvider,BlockFetcher=MockBlockFetcher
type BlockProvider interface {
	// GetBlockTimestamp returns the timestamp of a block, from cache when seen before
	GetBlockTimestamp(ctx context.Context, blockNumber uint64) (time.Time, error)
}

// BlockFetcher reads block headers from the chain
type BlockFetcher interface {
	// FetchBlockTimestamp fetches the timestamp of a block
	FetchBlockTimestamp(ctx context.Context, blockNumber uint64) (time.Time, error)
}

// Config holds configuration for the BlockProvider
type Config struct {
	// CacheSize bounds the cached timestamps; the least recently used are evicted first
	CacheSize int
}

type blockProvider struct {
	fetcher    BlockFetcher
	timestamps *lru.Cache[uint64, time.Time]
}

// NewBlockProvider creates a BlockProvider backed by a bounded LRU cache.
// A confirmed block's timestamp never changes, so entries carry no TTL.
func NewBlockProvider(fetcher BlockFetcher, cfg Config) (BlockProvider, error) {
	size := cfg.CacheSize
	if size <= 0 {
		size = DEFAULT_CACHE_SIZE
	}

	timestamps, err := lru.New[uint64, time.Time](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create block timestamp cache: %w", err)
	}

	return &blockProvider{
		fetcher:    fetcher,
		timestamps: timestamps,
	}, nil
}

func (p *blockProvider) GetBlockTimestamp(ctx context.Context, blockNumber uint64) (time.Time, error) {
	if ts, ok := p.timestamps.Get(blockNumber); ok {
		return ts, nil
	}

	logger.DebugCtx(ctx, "Fetching block timestamp", zap.Uint64("block_number", blockNumber))
	ts, err := p.fetcher.FetchBlockTimestamp(ctx, blockNumber)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to fetch timestamp of block %d: %w", blockNumber, err)
	}

	p.timestamps.Add(blockNumber, ts)
	return ts, nil
}
