package store

import (
	"context"
	"encoding/json"

	"github.com/feral-file/ff-observations/internal/domain"
	"github.com/feral-file/ff-observations/internal/store/schema"
)

const (
	// MaxArtifactObservations caps the live entries returned for one artifact
	MaxArtifactObservations = 1000
	// MaxRecentObservations caps the recent and per-collection feeds
	MaxRecentObservations = 100
	// DefaultPageSize is used for cursor pages when the caller passes no limit
	DefaultPageSize = 50
	// MaxPageSize caps cursor pages
	MaxPageSize = 255
)

// ApplyEventInput carries one ledger log record to project
type ApplyEventInput struct {
	Event domain.LedgerEvent
	// Raw is the record as received from the stream, stored as jsonb
	Raw json.RawMessage
}

// ObserverObservationsFilter selects one page of an observer's live entries
type ObserverObservationsFilter struct {
	Observer string
	Limit    int
	// After is the end cursor of the previous page, empty for the first page
	After string
}

// ObservationPage is one cursor page of live entries
type ObservationPage struct {
	Observations []schema.ObservationView
	EndCursor    string
	HasNextPage  bool
	TotalCount   uint64
}

// Store defines the interface for database operations
//
//go:generate mockgen -source=store.go -destination=../mocks/store.go -package=mocks -mock_names=Store=MockStore
type Store interface {
	// ApplyObservation projects an observation record. It returns false when the record was already applied.
	ApplyObservation(ctx context.Context, input ApplyEventInput) (bool, error)
	// ApplyTipsClaimed projects a claim record. It returns false when the record was already applied.
	ApplyTipsClaimed(ctx context.Context, input ApplyEventInput) (bool, error)

	// GetArtifact retrieves the aggregate of an artifact, nil when it has no observations
	GetArtifact(ctx context.Context, collection, tokenID string) (*schema.Artifact, error)
	// GetArtifactObservations retrieves the visible live entries of an artifact by block ascending
	GetArtifactObservations(ctx context.Context, collection, tokenID string) ([]schema.ObservationView, error)
	// GetRawObservations retrieves the verbatim log of an artifact in id order
	GetRawObservations(ctx context.Context, collection, tokenID string) ([]schema.Observation, error)
	// GetRecentObservations retrieves the latest visible live entries across all artifacts
	GetRecentObservations(ctx context.Context, limit int) ([]schema.ObservationView, error)
	// GetCollectionArtifacts retrieves the artifacts of a collection by count descending
	GetCollectionArtifacts(ctx context.Context, collection string, limit int, offset uint64) ([]schema.Artifact, uint64, error)
	// GetCollectionObservations retrieves the latest visible live entries of a collection
	GetCollectionObservations(ctx context.Context, collection string, limit int) ([]schema.ObservationView, error)
	// GetObserverObservations retrieves one cursor page of an observer's visible live entries, newest first
	GetObserverObservations(ctx context.Context, filter ObserverObservationsFilter) (*ObservationPage, error)

	// GetTip retrieves the escrow projection of a recipient, nil when never tipped
	GetTip(ctx context.Context, recipient string) (*schema.Tip, error)
	// GetCollectionTip retrieves the tips addressed to a collection contract, nil when none
	GetCollectionTip(ctx context.Context, collection string) (*schema.CollectionTip, error)

	// GetBlockCursor retrieves the last processed block number for a chain
	GetBlockCursor(ctx context.Context, chain string) (uint64, error)
	// SetBlockCursor stores the last processed block number for a chain
	SetBlockCursor(ctx context.Context, chain string, blockNumber uint64) error
	// GetKeyValue retrieves a value by key, empty when absent
	GetKeyValue(ctx context.Context, key string) (string, error)
	// SetKeyValue stores a value by key
	SetKeyValue(ctx context.Context, key string, value string) error
}
