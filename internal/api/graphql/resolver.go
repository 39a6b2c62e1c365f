package graphql

import (
	"context"
	"fmt"
	"slices"

	"github.com/ethereum/go-ethereum/common"

	"github.com/feral-file/ff-observations/internal/api/shared/dto"
	apierrors "github.com/feral-file/ff-observations/internal/api/shared/errors"
	"github.com/feral-file/ff-observations/internal/api/shared/executor"
	"github.com/feral-file/ff-observations/internal/domain"
)

// ResolverRoot is the set of root resolvers of the schema
type ResolverRoot interface {
	Query() QueryResolver
}

// QueryResolver resolves the fields of the Query type
type QueryResolver interface {
	Artifact(ctx context.Context, collection string, tokenID BigInt) (*Artifact, error)
	Artifacts(ctx context.Context, where ArtifactFilter, orderBy string, orderDirection string, limit *int, offset *int) (*ArtifactPage, error)
	Observations(ctx context.Context, where *ObservationFilter, orderBy string, orderDirection string, limit *int, after *string) (*ObservationPage, error)
	Tips(ctx context.Context, recipient string) (*Tips, error)
	CollectionTips(ctx context.Context, collection string) (*CollectionTips, error)
}

// Resolver is the root resolver that holds executor
type Resolver struct {
	executor executor.Executor
}

// NewResolver creates a new root resolver with executor
func NewResolver(exec executor.Executor) *Resolver {
	return &Resolver{
		executor: exec,
	}
}

// Query returns the Query resolver
func (r *Resolver) Query() QueryResolver {
	return &queryResolver{r}
}

type queryResolver struct{ *Resolver }

func (r *queryResolver) Artifact(ctx context.Context, collection string, tokenID BigInt) (*Artifact, error) {
	address, err := parseAddress("collection", collection)
	if err != nil {
		return nil, err
	}
	if !domain.ValidTokenNumber(string(tokenID)) {
		return nil, apierrors.NewValidationError(fmt.Sprintf("invalid tokenId: %s", tokenID))
	}

	resp, err := r.executor.GetArtifact(ctx, address.Hex(), string(tokenID))
	if err != nil {
		return nil, err
	}

	// Unknown artifacts are null rather than a zero aggregate
	if resp.Count == 0 {
		return nil, nil
	}
	return mapArtifact(resp), nil
}

func (r *queryResolver) Artifacts(ctx context.Context, where ArtifactFilter, orderBy string, orderDirection string, limit *int, offset *int) (*ArtifactPage, error) {
	address, err := parseAddress("collection", where.Collection)
	if err != nil {
		return nil, err
	}
	if orderBy != "count" || orderDirection != "desc" {
		return nil, apierrors.NewValidationError("artifacts are only ordered by count desc")
	}

	pageLimit, err := nonNegative("limit", limit)
	if err != nil {
		return nil, err
	}
	pageOffset, err := nonNegative("offset", offset)
	if err != nil {
		return nil, err
	}

	resp, err := r.executor.GetCollectionArtifacts(ctx, address.Hex(), pageLimit, uint64(pageOffset))
	if err != nil {
		return nil, err
	}

	page := &ArtifactPage{
		Items:      make([]*Artifact, 0, len(resp.Artifacts)),
		TotalCount: int(resp.Total),
	}
	for i := range resp.Artifacts {
		page.Items = append(page.Items, mapArtifact(&resp.Artifacts[i]))
	}
	if resp.NextOffset != nil {
		next := int(*resp.NextOffset)
		page.NextOffset = &next
	}
	return page, nil
}

func (r *queryResolver) Observations(ctx context.Context, where *ObservationFilter, orderBy string, orderDirection string, limit *int, after *string) (*ObservationPage, error) {
	if where == nil {
		where = &ObservationFilter{}
	}

	// Only live roots and replies are projected for reads
	if isSet(where.Update) || isSet(where.Deleted) {
		return nil, apierrors.NewValidationError("only live entries are served: update and deleted must be false")
	}
	if orderBy != "block" {
		return nil, apierrors.NewValidationError(fmt.Sprintf("unsupported orderBy: %s", orderBy))
	}
	if orderDirection != "asc" && orderDirection != "desc" {
		return nil, apierrors.NewValidationError(fmt.Sprintf("unsupported orderDirection: %s", orderDirection))
	}
	desc := orderDirection == "desc"

	n, err := nonNegative("limit", limit)
	if err != nil {
		return nil, err
	}
	if after != nil && where.Observer == nil {
		return nil, apierrors.NewValidationError("after is only supported when filtering by observer")
	}

	switch {
	case where.TokenID != nil:
		if where.Collection == nil || where.Observer != nil {
			return nil, apierrors.NewValidationError("tokenId requires collection and excludes observer")
		}
		return r.artifactObservations(ctx, *where.Collection, *where.TokenID, desc, n)

	case where.Observer != nil:
		if where.Collection != nil {
			return nil, apierrors.NewValidationError("observer cannot be combined with collection")
		}
		if !desc {
			return nil, apierrors.NewValidationError("observer feeds are newest first")
		}
		return r.observerObservations(ctx, *where.Observer, n, after)

	case where.Collection != nil:
		if !desc {
			return nil, apierrors.NewValidationError("collection feeds are newest first")
		}
		address, err := parseAddress("collection", *where.Collection)
		if err != nil {
			return nil, err
		}
		resp, err := r.executor.GetCollectionObservations(ctx, address.Hex(), n)
		if err != nil {
			return nil, err
		}
		return listPage(resp.Observations), nil

	default:
		if !desc {
			return nil, apierrors.NewValidationError("the recent feed is newest first")
		}
		resp, err := r.executor.GetRecentObservations(ctx, n)
		if err != nil {
			return nil, err
		}
		return listPage(resp.Observations), nil
	}
}

// artifactObservations serves one artifact's entries, which come oldest first and uncapped by limit
func (r *queryResolver) artifactObservations(ctx context.Context, collection string, tokenID BigInt, desc bool, limit int) (*ObservationPage, error) {
	address, err := parseAddress("collection", collection)
	if err != nil {
		return nil, err
	}
	if !domain.ValidTokenNumber(string(tokenID)) {
		return nil, apierrors.NewValidationError(fmt.Sprintf("invalid tokenId: %s", tokenID))
	}

	resp, err := r.executor.GetArtifactObservations(ctx, address.Hex(), string(tokenID))
	if err != nil {
		return nil, err
	}

	items := resp.Observations
	if desc {
		items = slices.Clone(items)
		slices.Reverse(items)
	}
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return listPage(items), nil
}

func (r *queryResolver) observerObservations(ctx context.Context, observer string, limit int, after *string) (*ObservationPage, error) {
	address, err := parseAddress("observer", observer)
	if err != nil {
		return nil, err
	}

	cursor := ""
	if after != nil {
		cursor = *after
	}

	resp, err := r.executor.GetObserverObservations(ctx, address.Hex(), limit, cursor)
	if err != nil {
		return nil, err
	}

	return &ObservationPage{
		Items: mapObservations(resp.Observations),
		PageInfo: &PageInfo{
			EndCursor:   resp.EndCursor,
			HasNextPage: resp.HasNextPage,
		},
		TotalCount: int(resp.TotalCount),
	}, nil
}

func (r *queryResolver) Tips(ctx context.Context, recipient string) (*Tips, error) {
	address, err := parseAddress("recipient", recipient)
	if err != nil {
		return nil, err
	}

	resp, err := r.executor.GetTip(ctx, address.Hex())
	if err != nil {
		return nil, err
	}
	return mapTips(resp), nil
}

func (r *queryResolver) CollectionTips(ctx context.Context, collection string) (*CollectionTips, error) {
	address, err := parseAddress("collection", collection)
	if err != nil {
		return nil, err
	}

	resp, err := r.executor.GetCollectionTip(ctx, address.Hex())
	if err != nil {
		return nil, err
	}
	return mapCollectionTips(resp), nil
}

// listPage wraps a capped feed, which is always a single page
func listPage(items []dto.ObservationResponse) *ObservationPage {
	return &ObservationPage{
		Items:      mapObservations(items),
		PageInfo:   &PageInfo{},
		TotalCount: len(items),
	}
}

func parseAddress(name, value string) (common.Address, error) {
	if !common.IsHexAddress(value) {
		return common.Address{}, apierrors.NewValidationError(fmt.Sprintf("invalid %s address: %s", name, value))
	}
	return common.HexToAddress(value), nil
}

// nonNegative returns 0 for an absent argument
func nonNegative(name string, v *int) (int, error) {
	if v == nil {
		return 0, nil
	}
	if *v < 0 {
		return 0, apierrors.NewValidationError(fmt.Sprintf("%s must not be negative", name))
	}
	return *v, nil
}

// isSet reports whether a filter flag asks for true; false and null are the live default
func isSet(b *bool) bool {
	return b != nil && *b
}
