package dto

import (
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/feral-file/ff-observations/internal/domain"
	"github.com/feral-file/ff-observations/internal/fold"
	"github.com/feral-file/ff-observations/internal/store/schema"
)

// ArtifactResponse represents the aggregate of an artifact
type ArtifactResponse struct {
	Collection string  `json:"collection"`
	TokenID    string  `json:"token_id"`
	Count      uint64  `json:"count"`
	FirstBlock uint64  `json:"first_block"`
	LastBlock  *uint64 `json:"last_block,omitempty"`
}

// ArtifactListResponse represents a page of a collection's artifacts
type ArtifactListResponse struct {
	Artifacts  []ArtifactResponse `json:"artifacts"`
	Total      uint64             `json:"total"`
	NextOffset *uint64            `json:"next_offset,omitempty"`
}

// ObservationResponse represents the live state of one observation
type ObservationResponse struct {
	Collection   string     `json:"collection"`
	TokenID      string     `json:"token_id"`
	ID           uint64     `json:"id"`
	Observer     string     `json:"observer"`
	Parent       uint64     `json:"parent"`
	Note         string     `json:"note"`
	Located      bool       `json:"located"`
	X            *int32     `json:"x,omitempty"`
	Y            *int32     `json:"y,omitempty"`
	ViewType     string     `json:"view_type"`
	Time         uint32     `json:"time"`
	Tip          string     `json:"tip"`
	TipRecipient *string    `json:"tip_recipient,omitempty"`
	UpdatedBy    uint64     `json:"updated_by,omitempty"`
	UpdatedBlock *uint64    `json:"updated_block,omitempty"`
	BlockNumber  uint64     `json:"block_number,omitempty"`
	TxHash       string     `json:"tx_hash,omitempty"`
	Timestamp    *time.Time `json:"timestamp,omitempty"`
}

// ObservationListResponse represents a list of live observations
type ObservationListResponse struct {
	Observations []ObservationResponse `json:"observations"`
}

// ObservationPageResponse represents one cursor page of live observations
type ObservationPageResponse struct {
	Observations []ObservationResponse `json:"observations"`
	EndCursor    *string               `json:"end_cursor,omitempty"`
	HasNextPage  bool                  `json:"has_next_page"`
	TotalCount   uint64                `json:"total_count"`
}

// MapArtifactToDTO maps a projected artifact to its DTO
func MapArtifactToDTO(a *schema.Artifact) ArtifactResponse {
	lastBlock := a.LastBlock
	return ArtifactResponse{
		Collection: a.Collection,
		TokenID:    a.TokenID,
		Count:      a.Count,
		FirstBlock: a.FirstBlock,
		LastBlock:  &lastBlock,
	}
}

// MapLedgerArtifactToDTO maps a ledger aggregate to its DTO
func MapLedgerArtifactToDTO(key domain.ArtifactKey, a domain.Artifact) ArtifactResponse {
	return ArtifactResponse{
		Collection: key.Collection.Hex(),
		TokenID:    key.TokenID.String(),
		Count:      a.Count,
		FirstBlock: a.FirstBlock,
	}
}

// MapObservationViewToDTO maps a projected live entry to its DTO
func MapObservationViewToDTO(v *schema.ObservationView) ObservationResponse {
	resp := ObservationResponse{
		Collection:  v.Collection,
		TokenID:     v.TokenID,
		ID:          v.ObservationID,
		Observer:    v.Observer,
		Parent:      v.Parent,
		Note:        v.Note,
		Located:     v.Located,
		ViewType:    domain.ViewType(v.ViewType).String(),
		Time:        v.MediaTime,
		Tip:         v.Tip,
		UpdatedBy:   v.UpdatedBy,
		BlockNumber: v.BlockNumber,
		TxHash:      v.TxHash,
	}
	if v.UpdatedBlock != nil {
		updatedBlock := *v.UpdatedBlock
		resp.UpdatedBlock = &updatedBlock
	}
	if v.Located {
		x, y := v.X, v.Y
		resp.X, resp.Y = &x, &y
	}
	if v.TipRecipient != "" && v.TipRecipient != domain.ETHEREUM_ZERO_ADDRESS {
		recipient := v.TipRecipient
		resp.TipRecipient = &recipient
	}
	if !v.Timestamp.IsZero() {
		ts := v.Timestamp
		resp.Timestamp = &ts
	}
	return resp
}

// MapObservationViewsToDTO maps a list of projected live entries
func MapObservationViewsToDTO(views []schema.ObservationView) []ObservationResponse {
	result := make([]ObservationResponse, 0, len(views))
	for i := range views {
		result = append(result, MapObservationViewToDTO(&views[i]))
	}
	return result
}

// MapLiveToDTO maps an entry folded from the ledger's own log to its DTO
func MapLiveToDTO(l *fold.Live) ObservationResponse {
	resp := ObservationResponse{
		Collection: l.Collection.Hex(),
		TokenID:    l.TokenID.String(),
		ID:         l.ID,
		Observer:   l.Observer.Hex(),
		Parent:     l.Parent,
		Note:       l.Note,
		Located:    l.Located,
		ViewType:   l.ViewType.String(),
		Time:       l.Time,
		Tip:        "0",
		UpdatedBy:  l.UpdatedBy,
	}
	if l.Tip != nil {
		resp.Tip = l.Tip.String()
	}
	if l.Located {
		x, y := l.X, l.Y
		resp.X, resp.Y = &x, &y
	}
	if l.TipRecipient != (common.Address{}) {
		recipient := l.TipRecipient.Hex()
		resp.TipRecipient = &recipient
	}
	return resp
}
