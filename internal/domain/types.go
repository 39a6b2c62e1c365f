package domain

import (
	"fmt"
	"math/big"
	"regexp"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Chain represents the blockchain network identifier using CAIP-2 format
type Chain string

const (
	ChainEthereumMainnet Chain = "eip155:1"
	ChainEthereumSepolia Chain = "eip155:11155111"
	ChainLedgerDevnet    Chain = "eip155:31337"
)

// IsValidChain checks if a chain is valid
func IsValidChain(chain Chain) bool {
	return chain == ChainEthereumMainnet ||
		chain == ChainEthereumSepolia ||
		chain == ChainLedgerDevnet
}

// EventType represents the type of ledger log record
type EventType string

const (
	EventTypeObservation EventType = "observation"
	EventTypeTipsClaimed EventType = "tips_claimed"
)

// ViewType tells how the artifact was being viewed when an observation was made
type ViewType uint8

const (
	ViewImage     ViewType = 0
	ViewAnimation ViewType = 1
)

// Valid reports whether the view type is a known value
func (v ViewType) Valid() bool {
	return v == ViewImage || v == ViewAnimation
}

func (v ViewType) String() string {
	switch v {
	case ViewImage:
		return "image"
	case ViewAnimation:
		return "animation"
	default:
		return fmt.Sprintf("view_type(%d)", uint8(v))
	}
}

// ArtifactKey identifies an artifact: an NFT collection address and a token id
type ArtifactKey struct {
	Collection common.Address `json:"collection"`
	TokenID    *big.Int       `json:"token_id"`
}

// NewArtifactKey creates an ArtifactKey, normalizing a nil token id to zero
func NewArtifactKey(collection common.Address, tokenID *big.Int) ArtifactKey {
	if tokenID == nil {
		tokenID = new(big.Int)
	}
	return ArtifactKey{Collection: collection, TokenID: new(big.Int).Set(tokenID)}
}

// String returns "<checksummed collection>:<decimal token id>"
func (k ArtifactKey) String() string {
	tokenID := "0"
	if k.TokenID != nil {
		tokenID = k.TokenID.String()
	}
	return fmt.Sprintf("%s:%s", k.Collection.Hex(), tokenID)
}

// ParseArtifactKey parses the String form of an ArtifactKey
func ParseArtifactKey(s string) (ArtifactKey, error) {
	collection, tokenNumber, ok := strings.Cut(s, ":")
	if !ok || !common.IsHexAddress(collection) || !ValidTokenNumber(tokenNumber) {
		return ArtifactKey{}, fmt.Errorf("%w: artifact key %q", ErrInvalidInput, s)
	}
	tokenID, _ := new(big.Int).SetString(tokenNumber, 10)
	return ArtifactKey{Collection: common.HexToAddress(collection), TokenID: tokenID}, nil
}

// Artifact is the per-artifact aggregate kept by the ledger
type Artifact struct {
	Count      uint64 `json:"count"`
	FirstBlock uint64 `json:"first_block"`
}

// ObservationRecorded is the canonical log record of one observation
type ObservationRecorded struct {
	Collection   common.Address `json:"collection"`
	TokenID      *big.Int       `json:"token_id"`
	Observer     common.Address `json:"observer"`
	ID           uint64         `json:"id"`
	Parent       uint64         `json:"parent"`
	Update       bool           `json:"update"`
	Note         string         `json:"note"`
	X            int32          `json:"x"`
	Y            int32          `json:"y"`
	Located      bool           `json:"located"`
	ViewType     ViewType       `json:"view_type"`
	Time         uint32         `json:"time"`
	Tip          *big.Int       `json:"tip"`
	TipRecipient common.Address `json:"tip_recipient"`
}

// Key returns the artifact the observation belongs to
func (o *ObservationRecorded) Key() ArtifactKey {
	return NewArtifactKey(o.Collection, o.TokenID)
}

// Deletes reports whether the record is an update that soft-deletes its parent
func (o *ObservationRecorded) Deletes() bool {
	return o.Update && o.Note == ""
}

// Valid checks the structural rules every recorded observation satisfies
func (o *ObservationRecorded) Valid() bool {
	if o.TokenID == nil || o.TokenID.Sign() < 0 {
		return false
	}
	if o.ID == 0 || o.Parent >= o.ID {
		return false
	}
	if o.Update && o.Parent == 0 {
		return false
	}
	if o.Tip == nil || o.Tip.Sign() < 0 {
		return false
	}
	if o.Tip.Sign() > 0 && o.TipRecipient == (common.Address{}) {
		return false
	}
	if !o.Located && (o.X != 0 || o.Y != 0) {
		return false
	}
	return true
}

// TipBalance is the escrow state of one tip recipient
type TipBalance struct {
	Balance        *big.Int `json:"balance"`
	UnclaimedSince uint64   `json:"unclaimed_since"`
}

// IsZero reports whether nothing is escrowed
func (b TipBalance) IsZero() bool {
	return b.Balance == nil || b.Balance.Sign() == 0
}

// TipsClaimed is the log record of a successful claim
type TipsClaimed struct {
	Recipient common.Address `json:"recipient"`
	Claimant  common.Address `json:"claimant"`
	Amount    *big.Int       `json:"amount"`
}

// Valid checks the claim record
func (c *TipsClaimed) Valid() bool {
	return c.Amount != nil && c.Amount.Sign() > 0 &&
		c.Recipient != (common.Address{}) &&
		c.Claimant != (common.Address{})
}

// LedgerEvent represents a normalized ledger log record
// This is the standard format published to NATS
type LedgerEvent struct {
	Chain       Chain                `json:"chain"`                  // e.g., "eip155:1", "eip155:31337"
	Type        EventType            `json:"type"`                   // observation, tips_claimed
	Contract    string               `json:"contract"`               // ledger contract address
	TxHash      string               `json:"tx_hash"`                // transaction hash
	BlockNumber uint64               `json:"block_number"`           // block number
	BlockHash   *string              `json:"block_hash,omitempty"`   // block hash (optional, nil if not available)
	LogIndex    uint                 `json:"log_index"`              // log index in the block (for ordering)
	Timestamp   time.Time            `json:"timestamp"`              // block timestamp
	Observation *ObservationRecorded `json:"observation,omitempty"`  // set for observation records
	TipsClaimed *TipsClaimed         `json:"tips_claimed,omitempty"` // set for tips_claimed records
}

// Valid checks the envelope and its payload
func (e *LedgerEvent) Valid() bool {
	if !IsValidChain(e.Chain) || e.TxHash == "" {
		return false
	}

	switch e.Type {
	case EventTypeObservation:
		if e.Observation == nil || e.TipsClaimed != nil {
			return false
		}
		return e.Observation.Valid()
	case EventTypeTipsClaimed:
		if e.TipsClaimed == nil || e.Observation != nil {
			return false
		}
		return e.TipsClaimed.Valid()
	default:
		return false
	}
}

// DedupID returns the identifier used to deduplicate redelivered records
func (e *LedgerEvent) DedupID() string {
	return fmt.Sprintf("%s:%s:%d", e.Chain, e.TxHash, e.LogIndex)
}

// NormalizeAddress normalizes an address to its checksummed form
func NormalizeAddress(address string) string {
	if strings.HasPrefix(address, "0x") {
		return common.HexToAddress(address).String()
	}
	return address
}

var tokenNumberPattern = regexp.MustCompile(`^[0-9]+$`)

// ValidTokenNumber checks if a token number is a non-negative decimal integer
func ValidTokenNumber(tokenNumber string) bool {
	return tokenNumberPattern.MatchString(tokenNumber)
}
