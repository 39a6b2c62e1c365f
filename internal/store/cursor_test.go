package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/ff-observations/internal/domain"
	"github.com/feral-file/ff-observations/internal/store/schema"
)

func TestCursor_RoundTrip(t *testing.T) {
	view := schema.ObservationView{
		BlockNumber:   42,
		Collection:    "0xA00000000000000000000000000000000000000A",
		TokenID:       "115792089237316195423570985008687907853269984665640564039457584007913129639935",
		ObservationID: 7,
	}

	decoded, err := DecodeCursor(CursorOf(&view).Encode())
	require.NoError(t, err)
	assert.Equal(t, CursorOf(&view), decoded)
}

func TestDecodeCursor_Malformed(t *testing.T) {
	tests := []struct {
		name   string
		cursor string
	}{
		{"not base64", "!!!"},
		{"wrong arity", Cursor{}.Encode()[:4]},
		{"bad collection", Cursor{BlockNumber: 1, Collection: "nope", TokenID: "1", ObservationID: 1}.Encode()},
		{"bad token", Cursor{BlockNumber: 1, Collection: "0xA00000000000000000000000000000000000000A", TokenID: "-1", ObservationID: 1}.Encode()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeCursor(tt.cursor)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestNormalizeConnectionPoolSettings(t *testing.T) {
	maxOpen, maxIdle, lifetime, idleTime := NormalizeConnectionPoolSettings(4, 10, 0, 0)
	assert.Equal(t, 4, maxOpen)
	assert.Equal(t, 4, maxIdle)
	assert.NotZero(t, lifetime)
	assert.NotZero(t, idleTime)
}
