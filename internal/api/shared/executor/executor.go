package executor

import (
	"context"
	"errors"
	"fmt"

	"github.com/feral-file/ff-observations/internal/adapter"
	"github.com/feral-file/ff-observations/internal/api/shared/constants"
	"github.com/feral-file/ff-observations/internal/api/shared/dto"
	apierrors "github.com/feral-file/ff-observations/internal/api/shared/errors"
	"github.com/feral-file/ff-observations/internal/domain"
	"github.com/feral-file/ff-observations/internal/store"
	"github.com/feral-file/ff-observations/internal/store/schema"
)

// Executor is the interface for the query API executor
//
//go:generate mockgen -source=executor.go -destination=../../../mocks/mock_api_executor.go -package=mocks -mock_names=Executor=MockAPIExecutor
type Executor interface {
	// GetArtifact retrieves the aggregate of an artifact; unknown artifacts have a zero aggregate
	GetArtifact(ctx context.Context, collection, tokenID string) (*dto.ArtifactResponse, error)

	// GetArtifactObservations retrieves the visible live entries of an artifact by block ascending
	GetArtifactObservations(ctx context.Context, collection, tokenID string) (*dto.ObservationListResponse, error)

	// GetRecentObservations retrieves the latest visible live entries across all artifacts
	GetRecentObservations(ctx context.Context, limit int) (*dto.ObservationListResponse, error)

	// GetCollectionArtifacts retrieves a page of a collection's artifacts by count descending
	GetCollectionArtifacts(ctx context.Context, collection string, limit int, offset uint64) (*dto.ArtifactListResponse, error)

	// GetCollectionObservations retrieves the latest visible live entries of a collection
	GetCollectionObservations(ctx context.Context, collection string, limit int) (*dto.ObservationListResponse, error)

	// GetObserverObservations retrieves one cursor page of an observer's visible live entries
	GetObserverObservations(ctx context.Context, observer string, limit int, after string) (*dto.ObservationPageResponse, error)

	// GetTip retrieves the escrow state of a recipient
	GetTip(ctx context.Context, recipient string) (*dto.TipResponse, error)

	// GetCollectionTip retrieves the tips addressed to a collection contract
	GetCollectionTip(ctx context.Context, collection string) (*dto.CollectionTipResponse, error)
}

type executor struct {
	store store.Store
	clock adapter.Clock
}

func NewExecutor(store store.Store, clock adapter.Clock) Executor {
	return &executor{store: store, clock: clock}
}

func (e *executor) GetArtifact(ctx context.Context, collection, tokenID string) (*dto.ArtifactResponse, error) {
	artifact, err := e.store.GetArtifact(ctx, collection, tokenID)
	if err != nil {
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to get artifact: %v", err))
	}

	if artifact == nil {
		return &dto.ArtifactResponse{Collection: collection, TokenID: tokenID}, nil
	}

	resp := dto.MapArtifactToDTO(artifact)
	return &resp, nil
}

func (e *executor) GetArtifactObservations(ctx context.Context, collection, tokenID string) (*dto.ObservationListResponse, error) {
	views, err := e.store.GetArtifactObservations(ctx, collection, tokenID)
	if err != nil {
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to get artifact observations: %v", err))
	}

	return &dto.ObservationListResponse{Observations: dto.MapObservationViewsToDTO(views)}, nil
}

func (e *executor) GetRecentObservations(ctx context.Context, limit int) (*dto.ObservationListResponse, error) {
	views, err := e.store.GetRecentObservations(ctx, clampLimit(limit, constants.MAX_RECENT_OBSERVATIONS))
	if err != nil {
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to get recent observations: %v", err))
	}

	return &dto.ObservationListResponse{Observations: dto.MapObservationViewsToDTO(views)}, nil
}

func (e *executor) GetCollectionArtifacts(ctx context.Context, collection string, limit int, offset uint64) (*dto.ArtifactListResponse, error) {
	if limit <= 0 {
		limit = constants.DEFAULT_ARTIFACTS_LIMIT
	}
	limit = clampLimit(limit, constants.MAX_PAGE_SIZE)

	artifacts, total, err := e.store.GetCollectionArtifacts(ctx, collection, limit, offset)
	if err != nil {
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to get collection artifacts: %v", err))
	}

	resp := &dto.ArtifactListResponse{
		Artifacts: make([]dto.ArtifactResponse, 0, len(artifacts)),
		Total:     total,
	}
	for i := range artifacts {
		resp.Artifacts = append(resp.Artifacts, dto.MapArtifactToDTO(&artifacts[i]))
	}

	next := offset + uint64(len(artifacts))
	if next < total {
		resp.NextOffset = &next
	}

	return resp, nil
}

func (e *executor) GetCollectionObservations(ctx context.Context, collection string, limit int) (*dto.ObservationListResponse, error) {
	views, err := e.store.GetCollectionObservations(ctx, collection, clampLimit(limit, constants.MAX_RECENT_OBSERVATIONS))
	if err != nil {
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to get collection observations: %v", err))
	}

	return &dto.ObservationListResponse{Observations: dto.MapObservationViewsToDTO(views)}, nil
}

func (e *executor) GetObserverObservations(ctx context.Context, observer string, limit int, after string) (*dto.ObservationPageResponse, error) {
	if limit <= 0 {
		limit = constants.DEFAULT_OBSERVER_PAGE_SIZE
	}

	page, err := e.store.GetObserverObservations(ctx, store.ObserverObservationsFilter{
		Observer: observer,
		Limit:    clampLimit(limit, constants.MAX_PAGE_SIZE),
		After:    after,
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return nil, apierrors.NewValidationError(fmt.Sprintf("invalid cursor: %s", after))
		}
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to get observer observations: %v", err))
	}

	resp := &dto.ObservationPageResponse{
		Observations: dto.MapObservationViewsToDTO(page.Observations),
		HasNextPage:  page.HasNextPage,
		TotalCount:   page.TotalCount,
	}
	if page.EndCursor != "" {
		endCursor := page.EndCursor
		resp.EndCursor = &endCursor
	}

	return resp, nil
}

func (e *executor) GetTip(ctx context.Context, recipient string) (*dto.TipResponse, error) {
	tip, err := e.store.GetTip(ctx, recipient)
	if err != nil {
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to get tip: %v", err))
	}

	if tip == nil {
		tip = &schema.Tip{Recipient: recipient, Balance: "0", TotalTipped: "0", TotalClaimed: "0"}
	}

	resp := dto.MapTipToDTO(tip, e.clock.Now())
	return &resp, nil
}

func (e *executor) GetCollectionTip(ctx context.Context, collection string) (*dto.CollectionTipResponse, error) {
	tip, err := e.store.GetCollectionTip(ctx, collection)
	if err != nil {
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to get collection tip: %v", err))
	}

	if tip == nil {
		tip = &schema.CollectionTip{Collection: collection, Balance: "0", TotalTipped: "0", TotalClaimed: "0"}
	}

	resp := dto.MapCollectionTipToDTO(tip)
	return &resp, nil
}

// clampLimit caps a limit; non-positive limits mean the cap
func clampLimit(limit, ceiling int) int {
	if limit <= 0 || limit > ceiling {
		return ceiling
	}
	return limit
}
