package graphql

type Artifact struct {
	Collection string
	TokenID    BigInt
	Count      Uint64
	FirstBlock Uint64
	LastBlock  *Uint64
}

type ArtifactPage struct {
	Items      []*Artifact
	TotalCount int
	NextOffset *int
}

type Observation struct {
	ID           Uint64
	Collection   string
	TokenID      BigInt
	Observer     string
	Parent       Uint64
	Update       bool
	Note         string
	Located      bool
	X            *int32
	Y            *int32
	View         int
	Time         int
	Tip          BigInt
	TipRecipient *string
	UpdatedBy    *Uint64
	UpdatedBlock *Uint64
	Block        Uint64
	Timestamp    *Uint64
	TxHash       string
}

type PageInfo struct {
	EndCursor   *string
	HasNextPage bool
}

type ObservationPage struct {
	Items      []*Observation
	PageInfo   *PageInfo
	TotalCount int
}

type Tips struct {
	Recipient      string
	Balance        BigInt
	UnclaimedSince Uint64
	State          string
	TotalTipped    *BigInt
	TotalClaimed   *BigInt
	LastClaimant   *string
}

type CollectionTips struct {
	Collection   string
	Balance      BigInt
	TotalTipped  BigInt
	TotalClaimed BigInt
}

type ArtifactFilter struct {
	Collection string
}

type ObservationFilter struct {
	Collection *string
	TokenID    *BigInt
	Observer   *string
	Update     *bool
	Deleted    *bool
}
