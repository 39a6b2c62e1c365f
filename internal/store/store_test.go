package store

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/ff-observations/internal/domain"
)

// StoreTestSuite provides the interface for running store tests against different implementations
type StoreTestSuite struct {
	Store Store
	// InitDB should be called before each test to initialize the database
	InitDB func(t *testing.T) Store
	// CleanupDB should be called after each test to clean up the database
	CleanupDB func(t *testing.T)
}

var (
	testCollection = common.HexToAddress("0xA00000000000000000000000000000000000000A")
	testOther      = common.HexToAddress("0xB00000000000000000000000000000000000000B")
	testAlice      = common.HexToAddress("0x1000000000000000000000000000000000000001")
	testBob        = common.HexToAddress("0x2000000000000000000000000000000000000002")
	testArtist     = common.HexToAddress("0x3000000000000000000000000000000000000003")
	testBaseTime   = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
)

// =============================================================================
// Test Data Builders
// =============================================================================

// buildTestObservation creates a test observation record
func buildTestObservation(collection common.Address, tokenID int64, id, parent uint64, update bool, observer common.Address, note string) *domain.ObservationRecorded {
	return &domain.ObservationRecorded{
		Collection: collection,
		TokenID:    big.NewInt(tokenID),
		Observer:   observer,
		ID:         id,
		Parent:     parent,
		Update:     update,
		Note:       note,
		Tip:        big.NewInt(0),
	}
}

// buildTestEvent wraps an observation into a ledger event emitted at block
func buildTestEvent(rec *domain.ObservationRecorded, block uint64) ApplyEventInput {
	event := domain.LedgerEvent{
		Chain:       domain.ChainLedgerDevnet,
		Type:        domain.EventTypeObservation,
		Contract:    "0xC00000000000000000000000000000000000000C",
		TxHash:      crypto.Keccak256Hash([]byte(fmt.Sprintf("%s:%s:%d:%d", rec.Collection.Hex(), rec.TokenID.String(), rec.ID, block))).Hex(),
		BlockNumber: block,
		LogIndex:    0,
		Timestamp:   testBaseTime.Add(time.Duration(block) * time.Second),
		Observation: rec,
	}
	raw, _ := json.Marshal(event)
	return ApplyEventInput{Event: event, Raw: raw}
}

// buildTestClaim creates a tips_claimed event emitted at block
func buildTestClaim(recipient, claimant common.Address, amount int64, block uint64) ApplyEventInput {
	event := domain.LedgerEvent{
		Chain:       domain.ChainLedgerDevnet,
		Type:        domain.EventTypeTipsClaimed,
		Contract:    "0xC00000000000000000000000000000000000000C",
		TxHash:      crypto.Keccak256Hash([]byte(fmt.Sprintf("claim:%s:%s:%d", recipient.Hex(), claimant.Hex(), block))).Hex(),
		BlockNumber: block,
		Timestamp:   testBaseTime.Add(time.Duration(block) * time.Second),
		TipsClaimed: &domain.TipsClaimed{
			Recipient: recipient,
			Claimant:  claimant,
			Amount:    big.NewInt(amount),
		},
	}
	return ApplyEventInput{Event: event}
}

func mustApply(t *testing.T, store Store, input ApplyEventInput) {
	applied, err := store.ApplyObservation(context.Background(), input)
	require.NoError(t, err)
	require.True(t, applied)
}

// =============================================================================
// Test: ApplyObservation
// =============================================================================

func testApplyObservation(t *testing.T, store Store) {
	ctx := context.Background()
	collection := testCollection.Hex()

	t.Run("root observation creates artifact and live view", func(t *testing.T) {
		rec := buildTestObservation(testCollection, 1, 1, 0, false, testAlice, "first")
		rec.Located, rec.X, rec.Y = true, 12, -4
		rec.ViewType = domain.ViewAnimation
		rec.Time = 30
		mustApply(t, store, buildTestEvent(rec, 10))

		artifact, err := store.GetArtifact(ctx, collection, "1")
		require.NoError(t, err)
		require.NotNil(t, artifact)
		assert.Equal(t, uint64(1), artifact.Count)
		assert.Equal(t, uint64(10), artifact.FirstBlock)
		assert.Equal(t, uint64(10), artifact.LastBlock)

		views, err := store.GetArtifactObservations(ctx, collection, "1")
		require.NoError(t, err)
		require.Len(t, views, 1)
		assert.Equal(t, "first", views[0].Note)
		assert.True(t, views[0].Located)
		assert.Equal(t, int32(12), views[0].X)
		assert.Equal(t, int32(-4), views[0].Y)
		assert.Equal(t, uint8(domain.ViewAnimation), views[0].ViewType)
		assert.Equal(t, uint32(30), views[0].MediaTime)
		assert.Equal(t, testAlice.Hex(), views[0].Observer)
	})

	t.Run("redelivery is a no-op", func(t *testing.T) {
		input := buildTestEvent(buildTestObservation(testCollection, 2, 1, 0, false, testAlice, "once"), 11)
		mustApply(t, store, input)

		applied, err := store.ApplyObservation(ctx, input)
		require.NoError(t, err)
		assert.False(t, applied)

		raw, err := store.GetRawObservations(ctx, collection, "2")
		require.NoError(t, err)
		assert.Len(t, raw, 1)
	})

	t.Run("aggregate keeps max count and earliest block", func(t *testing.T) {
		mustApply(t, store, buildTestEvent(buildTestObservation(testCollection, 3, 2, 0, false, testBob, "second"), 21))
		mustApply(t, store, buildTestEvent(buildTestObservation(testCollection, 3, 1, 0, false, testAlice, "first"), 20))

		artifact, err := store.GetArtifact(ctx, collection, "3")
		require.NoError(t, err)
		require.NotNil(t, artifact)
		assert.Equal(t, uint64(2), artifact.Count)
		assert.Equal(t, uint64(20), artifact.FirstBlock)
		assert.Equal(t, uint64(21), artifact.LastBlock)
	})

	t.Run("unknown artifact returns nil", func(t *testing.T) {
		artifact, err := store.GetArtifact(ctx, collection, "999")
		require.NoError(t, err)
		assert.Nil(t, artifact)
	})

	t.Run("rejects non-observation events", func(t *testing.T) {
		_, err := store.ApplyObservation(ctx, buildTestClaim(testAlice, testAlice, 1, 1))
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("large token ids round trip", func(t *testing.T) {
		rec := buildTestObservation(testCollection, 0, 1, 0, false, testAlice, "max")
		rec.TokenID, _ = new(big.Int).SetString("115792089237316195423570985008687907853269984665640564039457584007913129639935", 10)
		mustApply(t, store, buildTestEvent(rec, 30))

		raw, err := store.GetRawObservations(ctx, collection, rec.TokenID.String())
		require.NoError(t, err)
		require.Len(t, raw, 1)
		assert.Equal(t, rec.TokenID.String(), raw[0].TokenID)
		assert.NotEmpty(t, raw[0].Raw)
	})
}

// =============================================================================
// Test: updates folded into the live view
// =============================================================================

func testApplyUpdates(t *testing.T, store Store) {
	ctx := context.Background()
	collection := testCollection.Hex()

	liveNote := func(t *testing.T, tokenID string) []string {
		views, err := store.GetArtifactObservations(ctx, collection, tokenID)
		require.NoError(t, err)
		notes := make([]string, 0, len(views))
		for _, v := range views {
			notes = append(notes, v.Note)
		}
		return notes
	}

	t.Run("author edit replaces content", func(t *testing.T) {
		mustApply(t, store, buildTestEvent(buildTestObservation(testCollection, 10, 1, 0, false, testAlice, "draft"), 1))
		edit := buildTestObservation(testCollection, 10, 2, 1, true, testAlice, "final")
		edit.Located, edit.X, edit.Y = true, 3, 4
		mustApply(t, store, buildTestEvent(edit, 2))

		views, err := store.GetArtifactObservations(ctx, collection, "10")
		require.NoError(t, err)
		require.Len(t, views, 1)
		assert.Equal(t, "final", views[0].Note)
		assert.True(t, views[0].Located)
		assert.Equal(t, int32(3), views[0].X)
		assert.Equal(t, uint64(2), views[0].UpdatedBy)
		require.NotNil(t, views[0].UpdatedBlock)
		assert.Equal(t, uint64(2), *views[0].UpdatedBlock)

		artifact, err := store.GetArtifact(ctx, collection, "10")
		require.NoError(t, err)
		assert.Equal(t, uint64(2), artifact.Count)
	})

	t.Run("update by another observer is ignored", func(t *testing.T) {
		mustApply(t, store, buildTestEvent(buildTestObservation(testCollection, 11, 1, 0, false, testAlice, "mine"), 1))
		mustApply(t, store, buildTestEvent(buildTestObservation(testCollection, 11, 2, 1, true, testBob, "hijack"), 2))
		mustApply(t, store, buildTestEvent(buildTestObservation(testCollection, 11, 3, 1, true, testBob, ""), 3))

		assert.Equal(t, []string{"mine"}, liveNote(t, "11"))

		raw, err := store.GetRawObservations(ctx, collection, "11")
		require.NoError(t, err)
		assert.Len(t, raw, 3)
	})

	t.Run("soft delete hides the entry but keeps the log", func(t *testing.T) {
		mustApply(t, store, buildTestEvent(buildTestObservation(testCollection, 12, 1, 0, false, testAlice, "oops"), 1))
		mustApply(t, store, buildTestEvent(buildTestObservation(testCollection, 12, 2, 1, false, testBob, "reply"), 2))
		mustApply(t, store, buildTestEvent(buildTestObservation(testCollection, 12, 3, 1, true, testAlice, ""), 3))

		assert.Equal(t, []string{"reply"}, liveNote(t, "12"))

		raw, err := store.GetRawObservations(ctx, collection, "12")
		require.NoError(t, err)
		require.Len(t, raw, 3)
		assert.Equal(t, "oops", raw[0].Note)
		assert.Equal(t, uint64(1), raw[2].TargetID)
	})

	t.Run("update of an update targets the root", func(t *testing.T) {
		mustApply(t, store, buildTestEvent(buildTestObservation(testCollection, 13, 1, 0, false, testAlice, "v1"), 1))
		mustApply(t, store, buildTestEvent(buildTestObservation(testCollection, 13, 2, 1, true, testAlice, "v2"), 2))
		mustApply(t, store, buildTestEvent(buildTestObservation(testCollection, 13, 3, 2, true, testAlice, "v3"), 3))

		assert.Equal(t, []string{"v3"}, liveNote(t, "13"))
	})

	t.Run("delete is final", func(t *testing.T) {
		mustApply(t, store, buildTestEvent(buildTestObservation(testCollection, 14, 1, 0, false, testAlice, "v1"), 1))
		mustApply(t, store, buildTestEvent(buildTestObservation(testCollection, 14, 2, 1, true, testAlice, ""), 2))
		assert.Empty(t, liveNote(t, "14"))

		mustApply(t, store, buildTestEvent(buildTestObservation(testCollection, 14, 3, 1, true, testAlice, "back"), 3))
		assert.Empty(t, liveNote(t, "14"))
	})

	t.Run("update projected before its parent applies once the parent lands", func(t *testing.T) {
		edit := buildTestObservation(testCollection, 16, 2, 1, true, testAlice, "final")
		edit.Located, edit.X, edit.Y = true, 8, 9
		mustApply(t, store, buildTestEvent(edit, 2))
		assert.Empty(t, liveNote(t, "16"))

		mustApply(t, store, buildTestEvent(buildTestObservation(testCollection, 16, 1, 0, false, testAlice, "draft"), 1))

		views, err := store.GetArtifactObservations(ctx, collection, "16")
		require.NoError(t, err)
		require.Len(t, views, 1)
		assert.Equal(t, "final", views[0].Note)
		assert.True(t, views[0].Located)
		assert.Equal(t, int32(8), views[0].X)
		assert.Equal(t, uint64(2), views[0].UpdatedBy)
		require.NotNil(t, views[0].UpdatedBlock)
		assert.Equal(t, uint64(2), *views[0].UpdatedBlock)

		raw, err := store.GetRawObservations(ctx, collection, "16")
		require.NoError(t, err)
		require.Len(t, raw, 2)
		assert.Equal(t, uint64(1), raw[1].TargetID)

		artifact, err := store.GetArtifact(ctx, collection, "16")
		require.NoError(t, err)
		assert.Equal(t, uint64(2), artifact.Count)
		assert.Equal(t, uint64(1), artifact.FirstBlock)
	})

	t.Run("delete projected before an earlier edit stays final", func(t *testing.T) {
		mustApply(t, store, buildTestEvent(buildTestObservation(testCollection, 17, 1, 0, false, testAlice, "v1"), 1))
		mustApply(t, store, buildTestEvent(buildTestObservation(testCollection, 17, 3, 1, true, testAlice, ""), 3))
		mustApply(t, store, buildTestEvent(buildTestObservation(testCollection, 17, 2, 1, true, testAlice, "v2"), 2))

		assert.Empty(t, liveNote(t, "17"))
	})

	t.Run("stale update does not overwrite a later one", func(t *testing.T) {
		mustApply(t, store, buildTestEvent(buildTestObservation(testCollection, 15, 1, 0, false, testAlice, "v1"), 1))
		mustApply(t, store, buildTestEvent(buildTestObservation(testCollection, 15, 3, 1, true, testAlice, "newest"), 3))
		mustApply(t, store, buildTestEvent(buildTestObservation(testCollection, 15, 2, 1, true, testAlice, "older"), 2))

		assert.Equal(t, []string{"newest"}, liveNote(t, "15"))
	})
}

// =============================================================================
// Test: tips
// =============================================================================

func testTips(t *testing.T, store Store) {
	ctx := context.Background()

	tipped := func(tokenID int64, id uint64, recipient common.Address, amount int64, block uint64) ApplyEventInput {
		rec := buildTestObservation(testCollection, tokenID, id, 0, false, testAlice, "tip")
		rec.Tip = big.NewInt(amount)
		rec.TipRecipient = recipient
		return buildTestEvent(rec, block)
	}

	t.Run("never tipped returns nil", func(t *testing.T) {
		tip, err := store.GetTip(ctx, testOther.Hex())
		require.NoError(t, err)
		assert.Nil(t, tip)
	})

	t.Run("credits accumulate and keep the first timestamp", func(t *testing.T) {
		mustApply(t, store, tipped(20, 1, testArtist, 100, 5))
		mustApply(t, store, tipped(20, 2, testArtist, 50, 9))

		tip, err := store.GetTip(ctx, testArtist.Hex())
		require.NoError(t, err)
		require.NotNil(t, tip)
		assert.Equal(t, "150", tip.Balance)
		assert.Equal(t, "150", tip.TotalTipped)
		assert.Equal(t, "0", tip.TotalClaimed)
		assert.Equal(t, uint64(testBaseTime.Add(5*time.Second).Unix()), tip.UnclaimedSince)
	})

	t.Run("claim zeroes balance and restarts the clock", func(t *testing.T) {
		applied, err := store.ApplyTipsClaimed(ctx, buildTestClaim(testArtist, testBob, 150, 10))
		require.NoError(t, err)
		assert.True(t, applied)

		tip, err := store.GetTip(ctx, testArtist.Hex())
		require.NoError(t, err)
		assert.Equal(t, "0", tip.Balance)
		assert.Equal(t, "150", tip.TotalClaimed)
		assert.Zero(t, tip.UnclaimedSince)
		require.NotNil(t, tip.LastClaimant)
		assert.Equal(t, testBob.Hex(), *tip.LastClaimant)

		mustApply(t, store, tipped(20, 3, testArtist, 7, 12))
		tip, err = store.GetTip(ctx, testArtist.Hex())
		require.NoError(t, err)
		assert.Equal(t, "7", tip.Balance)
		assert.Equal(t, uint64(testBaseTime.Add(12*time.Second).Unix()), tip.UnclaimedSince)
	})

	t.Run("claim redelivery is a no-op", func(t *testing.T) {
		input := buildTestClaim(testArtist, testArtist, 7, 13)
		applied, err := store.ApplyTipsClaimed(ctx, input)
		require.NoError(t, err)
		assert.True(t, applied)

		applied, err = store.ApplyTipsClaimed(ctx, input)
		require.NoError(t, err)
		assert.False(t, applied)

		tip, err := store.GetTip(ctx, testArtist.Hex())
		require.NoError(t, err)
		assert.Equal(t, "157", tip.TotalClaimed)
	})

	t.Run("tips to the collection are tracked per collection", func(t *testing.T) {
		mustApply(t, store, tipped(21, 1, testCollection, 40, 20))
		mustApply(t, store, tipped(22, 1, testCollection, 2, 21))

		ct, err := store.GetCollectionTip(ctx, testCollection.Hex())
		require.NoError(t, err)
		require.NotNil(t, ct)
		assert.Equal(t, "42", ct.TotalTipped)
		assert.Equal(t, "42", ct.Balance)

		_, err = store.ApplyTipsClaimed(ctx, buildTestClaim(testCollection, testArtist, 42, 22))
		require.NoError(t, err)

		ct, err = store.GetCollectionTip(ctx, testCollection.Hex())
		require.NoError(t, err)
		assert.Equal(t, "0", ct.Balance)
		assert.Equal(t, "42", ct.TotalClaimed)

		none, err := store.GetCollectionTip(ctx, testOther.Hex())
		require.NoError(t, err)
		assert.Nil(t, none)
	})

	t.Run("claim projected before an earlier credit", func(t *testing.T) {
		late := common.HexToAddress("0x4000000000000000000000000000000000000004")

		// log order: credit 100 @40, credit 50 @41, claim 150 @42, credit 7 @43
		mustApply(t, store, tipped(23, 1, late, 100, 40))
		_, err := store.ApplyTipsClaimed(ctx, buildTestClaim(late, late, 150, 42))
		require.NoError(t, err)
		mustApply(t, store, tipped(23, 3, late, 7, 43))
		mustApply(t, store, tipped(23, 2, late, 50, 41))

		tip, err := store.GetTip(ctx, late.Hex())
		require.NoError(t, err)
		require.NotNil(t, tip)
		assert.Equal(t, "7", tip.Balance)
		assert.Equal(t, uint64(testBaseTime.Add(43*time.Second).Unix()), tip.UnclaimedSince)
		assert.Equal(t, "157", tip.TotalTipped)
		assert.Equal(t, "150", tip.TotalClaimed)
	})

	t.Run("earlier claim projected after a later one", func(t *testing.T) {
		payee := common.HexToAddress("0x6000000000000000000000000000000000000006")

		mustApply(t, store, tipped(24, 1, payee, 10, 50))
		mustApply(t, store, tipped(24, 2, payee, 20, 52))
		_, err := store.ApplyTipsClaimed(ctx, buildTestClaim(payee, testBob, 20, 53))
		require.NoError(t, err)
		_, err = store.ApplyTipsClaimed(ctx, buildTestClaim(payee, testAlice, 10, 51))
		require.NoError(t, err)

		tip, err := store.GetTip(ctx, payee.Hex())
		require.NoError(t, err)
		assert.Equal(t, "0", tip.Balance)
		assert.Zero(t, tip.UnclaimedSince)
		assert.Equal(t, "30", tip.TotalClaimed)
		require.NotNil(t, tip.LastClaimant)
		assert.Equal(t, testBob.Hex(), *tip.LastClaimant)
	})

	t.Run("claim seen before any credit", func(t *testing.T) {
		_, err := store.ApplyTipsClaimed(ctx, buildTestClaim(testOther, testOther, 5, 30))
		require.NoError(t, err)

		tip, err := store.GetTip(ctx, testOther.Hex())
		require.NoError(t, err)
		require.NotNil(t, tip)
		assert.Equal(t, "0", tip.Balance)
		assert.Equal(t, "5", tip.TotalClaimed)
	})
}

// =============================================================================
// Test: feeds
// =============================================================================

func testFeeds(t *testing.T, store Store) {
	ctx := context.Background()

	// token 30 gets 3 entries, token 31 gets 1, the other collection gets 1
	mustApply(t, store, buildTestEvent(buildTestObservation(testCollection, 30, 1, 0, false, testAlice, "a1"), 100))
	mustApply(t, store, buildTestEvent(buildTestObservation(testCollection, 31, 1, 0, false, testBob, "b1"), 101))
	mustApply(t, store, buildTestEvent(buildTestObservation(testCollection, 30, 2, 1, false, testAlice, "a2"), 102))
	mustApply(t, store, buildTestEvent(buildTestObservation(testOther, 1, 1, 0, false, testAlice, "o1"), 103))
	mustApply(t, store, buildTestEvent(buildTestObservation(testCollection, 30, 3, 0, false, testAlice, "a3"), 104))
	mustApply(t, store, buildTestEvent(buildTestObservation(testCollection, 30, 4, 3, true, testAlice, ""), 105))

	t.Run("recent observations newest first without deleted", func(t *testing.T) {
		views, err := store.GetRecentObservations(ctx, 0)
		require.NoError(t, err)
		require.Len(t, views, 4)
		assert.Equal(t, "o1", views[0].Note)
		assert.Equal(t, "a2", views[1].Note)

		limited, err := store.GetRecentObservations(ctx, 2)
		require.NoError(t, err)
		assert.Len(t, limited, 2)
	})

	t.Run("collection observations", func(t *testing.T) {
		views, err := store.GetCollectionObservations(ctx, testCollection.Hex(), 0)
		require.NoError(t, err)
		require.Len(t, views, 3)
		for _, v := range views {
			assert.Equal(t, testCollection.Hex(), v.Collection)
		}
	})

	t.Run("collection artifacts by count", func(t *testing.T) {
		artifacts, total, err := store.GetCollectionArtifacts(ctx, testCollection.Hex(), 10, 0)
		require.NoError(t, err)
		assert.Equal(t, uint64(2), total)
		require.Len(t, artifacts, 2)
		assert.Equal(t, "30", artifacts[0].TokenID)
		assert.Equal(t, uint64(4), artifacts[0].Count)
		assert.Equal(t, "31", artifacts[1].TokenID)

		page, _, err := store.GetCollectionArtifacts(ctx, testCollection.Hex(), 10, 1)
		require.NoError(t, err)
		require.Len(t, page, 1)
		assert.Equal(t, "31", page[0].TokenID)
	})

	t.Run("observer pagination", func(t *testing.T) {
		first, err := store.GetObserverObservations(ctx, ObserverObservationsFilter{
			Observer: testAlice.Hex(),
			Limit:    2,
		})
		require.NoError(t, err)
		assert.Equal(t, uint64(3), first.TotalCount)
		assert.True(t, first.HasNextPage)
		require.Len(t, first.Observations, 2)
		assert.Equal(t, "o1", first.Observations[0].Note)
		assert.Equal(t, "a2", first.Observations[1].Note)
		require.NotEmpty(t, first.EndCursor)

		second, err := store.GetObserverObservations(ctx, ObserverObservationsFilter{
			Observer: testAlice.Hex(),
			Limit:    2,
			After:    first.EndCursor,
		})
		require.NoError(t, err)
		assert.False(t, second.HasNextPage)
		require.Len(t, second.Observations, 1)
		assert.Equal(t, "a1", second.Observations[0].Note)
	})

	t.Run("malformed cursor", func(t *testing.T) {
		_, err := store.GetObserverObservations(ctx, ObserverObservationsFilter{
			Observer: testAlice.Hex(),
			After:    "%%%",
		})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

// =============================================================================
// Test: service state
// =============================================================================

func testBlockCursor(t *testing.T, store Store) {
	ctx := context.Background()

	t.Run("get non-existent cursor returns 0", func(t *testing.T) {
		cursor, err := store.GetBlockCursor(ctx, "test_chain_nonexistent")
		require.NoError(t, err)
		assert.Equal(t, uint64(0), cursor)
	})

	t.Run("set and get cursor", func(t *testing.T) {
		chain := "test_chain_cursor"
		blockNum := uint64(12345)

		err := store.SetBlockCursor(ctx, chain, blockNum)
		require.NoError(t, err)

		cursor, err := store.GetBlockCursor(ctx, chain)
		require.NoError(t, err)
		assert.Equal(t, blockNum, cursor)
	})

	t.Run("update existing cursor", func(t *testing.T) {
		chain := "test_chain_update"

		err := store.SetBlockCursor(ctx, chain, 100)
		require.NoError(t, err)

		err = store.SetBlockCursor(ctx, chain, 200)
		require.NoError(t, err)

		cursor, err := store.GetBlockCursor(ctx, chain)
		require.NoError(t, err)
		assert.Equal(t, uint64(200), cursor)
	})
}

func testKeyValueStore(t *testing.T, store Store) {
	ctx := context.Background()

	t.Run("set and get key-value", func(t *testing.T) {
		err := store.SetKeyValue(ctx, "test:key1", "value1")
		require.NoError(t, err)

		value, err := store.GetKeyValue(ctx, "test:key1")
		require.NoError(t, err)
		assert.Equal(t, "value1", value)
	})

	t.Run("get non-existent key returns empty string", func(t *testing.T) {
		value, err := store.GetKeyValue(ctx, "nonexistent:key")
		require.NoError(t, err)
		assert.Equal(t, "", value)
	})

	t.Run("update existing key", func(t *testing.T) {
		require.NoError(t, store.SetKeyValue(ctx, "test:key2", "value1"))
		require.NoError(t, store.SetKeyValue(ctx, "test:key2", "value2"))

		value, err := store.GetKeyValue(ctx, "test:key2")
		require.NoError(t, err)
		assert.Equal(t, "value2", value)
	})
}

// RunStoreTests runs every projection test against stores built by newStore
func RunStoreTests(t *testing.T, newStore func(t *testing.T) Store) {
	tests := []struct {
		name string
		fn   func(*testing.T, Store)
	}{
		{"ApplyObservation", testApplyObservation},
		{"ApplyUpdates", testApplyUpdates},
		{"Tips", testTips},
		{"Feeds", testFeeds},
		{"BlockCursor", testBlockCursor},
		{"KeyValueStore", testKeyValueStore},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.fn(t, newStore(t))
		})
	}
}
