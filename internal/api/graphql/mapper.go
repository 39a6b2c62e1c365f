package graphql

import (
	"github.com/99designs/gqlgen/graphql"
	"github.com/vektah/gqlparser/v2/ast"

	"github.com/feral-file/ff-observations/internal/api/shared/dto"
	"github.com/feral-file/ff-observations/internal/domain"
)

var viewCodes = map[string]int{
	domain.ViewImage.String():     int(domain.ViewImage),
	domain.ViewAnimation.String(): int(domain.ViewAnimation),
}

func mapArtifact(a *dto.ArtifactResponse) *Artifact {
	return &Artifact{
		Collection: a.Collection,
		TokenID:    BigInt(a.TokenID),
		Count:      Uint64(a.Count),
		FirstBlock: Uint64(a.FirstBlock),
		LastBlock:  FromNativeUint64(a.LastBlock),
	}
}

func mapObservation(o *dto.ObservationResponse) *Observation {
	obs := &Observation{
		ID:           Uint64(o.ID),
		Collection:   o.Collection,
		TokenID:      BigInt(o.TokenID),
		Observer:     o.Observer,
		Parent:       Uint64(o.Parent),
		Note:         o.Note,
		Located:      o.Located,
		X:            o.X,
		Y:            o.Y,
		View:         viewCodes[o.ViewType],
		Time:         int(o.Time),
		Tip:          BigInt(o.Tip),
		TipRecipient: o.TipRecipient,
		UpdatedBlock: FromNativeUint64(o.UpdatedBlock),
		Block:        Uint64(o.BlockNumber),
		TxHash:       o.TxHash,
	}
	if o.UpdatedBy != 0 {
		obs.UpdatedBy = FromNativeUint64(&o.UpdatedBy)
	}
	if o.Timestamp != nil {
		ts := Uint64(o.Timestamp.Unix())
		obs.Timestamp = &ts
	}
	return obs
}

func mapObservations(list []dto.ObservationResponse) []*Observation {
	result := make([]*Observation, 0, len(list))
	for i := range list {
		result = append(result, mapObservation(&list[i]))
	}
	return result
}

func mapTips(t *dto.TipResponse) *Tips {
	return &Tips{
		Recipient:      t.Recipient,
		Balance:        BigInt(t.Balance),
		UnclaimedSince: Uint64(t.UnclaimedSince),
		State:          t.State,
		TotalTipped:    optionalBigInt(t.TotalTipped),
		TotalClaimed:   optionalBigInt(t.TotalClaimed),
		LastClaimant:   t.LastClaimant,
	}
}

func mapCollectionTips(t *dto.CollectionTipResponse) *CollectionTips {
	return &CollectionTips{
		Collection:   t.Collection,
		Balance:      BigInt(t.Balance),
		TotalTipped:  BigInt(t.TotalTipped),
		TotalClaimed: BigInt(t.TotalClaimed),
	}
}

func optionalBigInt(s *string) *BigInt {
	if s == nil {
		return nil
	}
	b := BigInt(*s)
	return &b
}

// object is a resolved value of a GraphQL object type
type object interface {
	typeName() string
	marshalField(opCtx *graphql.OperationContext, field graphql.CollectedField) graphql.Marshaler
}

// marshalObject writes the selected fields of obj in selection order
func marshalObject(opCtx *graphql.OperationContext, sel ast.SelectionSet, obj object) graphql.Marshaler {
	fields := graphql.CollectFields(opCtx, sel, []string{obj.typeName()})
	out := graphql.NewFieldSet(fields)
	for i, field := range fields {
		if field.Name == "__typename" {
			out.Values[i] = graphql.MarshalString(obj.typeName())
			continue
		}
		out.Values[i] = obj.marshalField(opCtx, field)
	}
	return out
}

func marshalList[T object](opCtx *graphql.OperationContext, sel ast.SelectionSet, items []T) graphql.Marshaler {
	out := make(graphql.Array, 0, len(items))
	for _, item := range items {
		out = append(out, marshalObject(opCtx, sel, item))
	}
	return out
}

func nullable[T graphql.Marshaler](v *T) graphql.Marshaler {
	if v == nil {
		return graphql.Null
	}
	return *v
}

func nullableString(s *string) graphql.Marshaler {
	if s == nil {
		return graphql.Null
	}
	return graphql.MarshalString(*s)
}

func nullableInt32(i *int32) graphql.Marshaler {
	if i == nil {
		return graphql.Null
	}
	return graphql.MarshalInt32(*i)
}

func (*Artifact) typeName() string { return "Artifact" }

func (a *Artifact) marshalField(_ *graphql.OperationContext, field graphql.CollectedField) graphql.Marshaler {
	switch field.Name {
	case "collection":
		return graphql.MarshalString(a.Collection)
	case "tokenId":
		return a.TokenID
	case "count":
		return a.Count
	case "firstBlock":
		return a.FirstBlock
	case "lastBlock":
		return nullable(a.LastBlock)
	}
	return graphql.Null
}

func (*ArtifactPage) typeName() string { return "ArtifactPage" }

func (p *ArtifactPage) marshalField(opCtx *graphql.OperationContext, field graphql.CollectedField) graphql.Marshaler {
	switch field.Name {
	case "items":
		return marshalList(opCtx, field.Selections, p.Items)
	case "totalCount":
		return graphql.MarshalInt(p.TotalCount)
	case "nextOffset":
		if p.NextOffset == nil {
			return graphql.Null
		}
		return graphql.MarshalInt(*p.NextOffset)
	}
	return graphql.Null
}

func (*Observation) typeName() string { return "Observation" }

func (o *Observation) marshalField(_ *graphql.OperationContext, field graphql.CollectedField) graphql.Marshaler {
	switch field.Name {
	case "id":
		return o.ID
	case "collection":
		return graphql.MarshalString(o.Collection)
	case "tokenId":
		return o.TokenID
	case "observer":
		return graphql.MarshalString(o.Observer)
	case "parent":
		return o.Parent
	case "update":
		return graphql.MarshalBoolean(o.Update)
	case "note":
		return graphql.MarshalString(o.Note)
	case "located":
		return graphql.MarshalBoolean(o.Located)
	case "x":
		return nullableInt32(o.X)
	case "y":
		return nullableInt32(o.Y)
	case "view":
		return graphql.MarshalInt(o.View)
	case "time":
		return graphql.MarshalInt(o.Time)
	case "tip":
		return o.Tip
	case "tipRecipient":
		return nullableString(o.TipRecipient)
	case "updatedBy":
		return nullable(o.UpdatedBy)
	case "updatedBlock":
		return nullable(o.UpdatedBlock)
	case "block":
		return o.Block
	case "timestamp":
		return nullable(o.Timestamp)
	case "txHash":
		return graphql.MarshalString(o.TxHash)
	}
	return graphql.Null
}

func (*PageInfo) typeName() string { return "PageInfo" }

func (p *PageInfo) marshalField(_ *graphql.OperationContext, field graphql.CollectedField) graphql.Marshaler {
	switch field.Name {
	case "endCursor":
		return nullableString(p.EndCursor)
	case "hasNextPage":
		return graphql.MarshalBoolean(p.HasNextPage)
	}
	return graphql.Null
}

func (*ObservationPage) typeName() string { return "ObservationPage" }

func (p *ObservationPage) marshalField(opCtx *graphql.OperationContext, field graphql.CollectedField) graphql.Marshaler {
	switch field.Name {
	case "items":
		return marshalList(opCtx, field.Selections, p.Items)
	case "pageInfo":
		return marshalObject(opCtx, field.Selections, p.PageInfo)
	case "totalCount":
		return graphql.MarshalInt(p.TotalCount)
	}
	return graphql.Null
}

func (*Tips) typeName() string { return "Tips" }

func (t *Tips) marshalField(_ *graphql.OperationContext, field graphql.CollectedField) graphql.Marshaler {
	switch field.Name {
	case "recipient":
		return graphql.MarshalString(t.Recipient)
	case "balance":
		return t.Balance
	case "unclaimedSince":
		return t.UnclaimedSince
	case "state":
		return graphql.MarshalString(t.State)
	case "totalTipped":
		return nullable(t.TotalTipped)
	case "totalClaimed":
		return nullable(t.TotalClaimed)
	case "lastClaimant":
		return nullableString(t.LastClaimant)
	}
	return graphql.Null
}

func (*CollectionTips) typeName() string { return "CollectionTips" }

func (t *CollectionTips) marshalField(_ *graphql.OperationContext, field graphql.CollectedField) graphql.Marshaler {
	switch field.Name {
	case "collection":
		return graphql.MarshalString(t.Collection)
	case "balance":
		return t.Balance
	case "totalTipped":
		return t.TotalTipped
	case "totalClaimed":
		return t.TotalClaimed
	}
	return graphql.Null
}
