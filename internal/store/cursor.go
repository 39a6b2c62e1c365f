package store

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"github.com/feral-file/ff-observations/internal/domain"
	"github.com/feral-file/ff-observations/internal/store/schema"
)

// Cursor is the position of a live entry in the newest-first observer feed
type Cursor struct {
	BlockNumber   uint64
	Collection    string
	TokenID       string
	ObservationID uint64
}

// CursorOf returns the cursor positioned at view
func CursorOf(view *schema.ObservationView) Cursor {
	return Cursor{
		BlockNumber:   view.BlockNumber,
		Collection:    view.Collection,
		TokenID:       view.TokenID,
		ObservationID: view.ObservationID,
	}
}

// Encode returns the opaque form handed to clients
func (c Cursor) Encode() string {
	raw := fmt.Sprintf("%d:%s:%s:%d", c.BlockNumber, c.Collection, c.TokenID, c.ObservationID)
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

// DecodeCursor parses a cursor produced by Encode
func DecodeCursor(s string) (Cursor, error) {
	raw, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return Cursor{}, fmt.Errorf("%w: malformed cursor", domain.ErrInvalidInput)
	}

	parts := strings.Split(string(raw), ":")
	if len(parts) != 4 {
		return Cursor{}, fmt.Errorf("%w: malformed cursor", domain.ErrInvalidInput)
	}

	block, err := strconv.ParseUint(parts[0], 10, 64)
	if err != nil {
		return Cursor{}, fmt.Errorf("%w: malformed cursor block", domain.ErrInvalidInput)
	}
	if !common.IsHexAddress(parts[1]) {
		return Cursor{}, fmt.Errorf("%w: malformed cursor collection", domain.ErrInvalidInput)
	}
	if !domain.ValidTokenNumber(parts[2]) {
		return Cursor{}, fmt.Errorf("%w: malformed cursor token", domain.ErrInvalidInput)
	}
	id, err := strconv.ParseUint(parts[3], 10, 64)
	if err != nil {
		return Cursor{}, fmt.Errorf("%w: malformed cursor id", domain.ErrInvalidInput)
	}

	return Cursor{
		BlockNumber:   block,
		Collection:    parts[1],
		TokenID:       parts[2],
		ObservationID: id,
	}, nil
}
