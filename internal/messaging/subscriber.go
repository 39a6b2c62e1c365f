package messaging

import (
	"context"

	"github.com/feral-file/ff-observations/internal/domain"
)

// EventHandler is called for every ledger record, in log order
type EventHandler func(event *domain.LedgerEvent) error

// Subscriber defines the interface for following the ledger's log
//
//go:generate mockgen -source=subscriber.go -destination=../mocks/subscriber.go -package=mocks -mock_names=Subscriber=MockSubscriber
type Subscriber interface {
	// SubscribeEvents follows new records starting at fromBlock (0 for latest)
	SubscribeEvents(ctx context.Context, fromBlock uint64, handler EventHandler) error

	// Backfill replays the records of [fromBlock, toBlock]
	Backfill(ctx context.Context, fromBlock, toBlock uint64, handler EventHandler) error

	// GetLatestBlock returns the latest block number
	GetLatestBlock(ctx context.Context) (uint64, error)

	// Close closes the connection and cleans up resources
	Close()
}
