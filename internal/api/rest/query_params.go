package rest

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"

	"github.com/feral-file/ff-observations/internal/api/shared/constants"
	"github.com/feral-file/ff-observations/internal/domain"
)

// ArtifactPath holds the path parameters naming an artifact
type ArtifactPath struct {
	Collection common.Address
	TokenID    string
}

// ParseArtifactPath parses /:collection/:token_id
func ParseArtifactPath(c *gin.Context) (*ArtifactPath, error) {
	collection, err := ParseAddressParam(c, "collection")
	if err != nil {
		return nil, err
	}

	tokenID := c.Param("token_id")
	if !domain.ValidTokenNumber(tokenID) {
		return nil, fmt.Errorf("invalid token_id: %s", tokenID)
	}

	return &ArtifactPath{Collection: collection, TokenID: tokenID}, nil
}

// Key returns the artifact key of the path
func (p *ArtifactPath) Key() domain.ArtifactKey {
	key, _ := domain.ParseArtifactKey(fmt.Sprintf("%s:%s", p.Collection.Hex(), p.TokenID))
	return key
}

// ParseAddressParam parses an address path parameter
func ParseAddressParam(c *gin.Context, name string) (common.Address, error) {
	value := c.Param(name)
	if !common.IsHexAddress(value) {
		return common.Address{}, fmt.Errorf("invalid %s address: %s", name, value)
	}
	return common.HexToAddress(value), nil
}

// ListQueryParams holds query parameters for the capped feeds
type ListQueryParams struct {
	Limit int `form:"limit,default=100"`
}

// ParseListQuery parses query parameters for GET /observations/recent and GET /collections/:collection/observations
func ParseListQuery(c *gin.Context) (*ListQueryParams, error) {
	var params ListQueryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		return nil, err
	}

	if params.Limit < 0 {
		return nil, fmt.Errorf("limit must not be negative")
	}
	if params.Limit > constants.MAX_RECENT_OBSERVATIONS {
		params.Limit = constants.MAX_RECENT_OBSERVATIONS
	}

	return &params, nil
}

// CollectionArtifactsQueryParams holds query parameters for GET /collections/:collection/artifacts
type CollectionArtifactsQueryParams struct {
	Limit  int    `form:"limit,default=20"`
	Offset uint64 `form:"offset,default=0"`
}

// ParseCollectionArtifactsQuery parses query parameters for GET /collections/:collection/artifacts
func ParseCollectionArtifactsQuery(c *gin.Context) (*CollectionArtifactsQueryParams, error) {
	var params CollectionArtifactsQueryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		return nil, err
	}

	if params.Limit < 0 {
		return nil, fmt.Errorf("limit must not be negative")
	}
	if params.Limit > constants.MAX_PAGE_SIZE {
		params.Limit = constants.MAX_PAGE_SIZE
	}

	return &params, nil
}

// ObserverObservationsQueryParams holds query parameters for GET /observers/:observer/observations
type ObserverObservationsQueryParams struct {
	Limit int    `form:"limit,default=50"`
	After string `form:"after"`
}

// ParseObserverObservationsQuery parses query parameters for GET /observers/:observer/observations
func ParseObserverObservationsQuery(c *gin.Context) (*ObserverObservationsQueryParams, error) {
	var params ObserverObservationsQueryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		return nil, err
	}

	if params.Limit < 0 {
		return nil, fmt.Errorf("limit must not be negative")
	}
	if params.Limit > constants.MAX_PAGE_SIZE {
		params.Limit = constants.MAX_PAGE_SIZE
	}

	return &params, nil
}
