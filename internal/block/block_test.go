package block_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/ff-observations/internal/block"
	"github.com/feral-file/ff-observations/internal/logger"
	"github.com/feral-file/ff-observations/internal/mocks"
)

func TestMain(m *testing.M) {
	// Initialize logger for tests
	err := logger.Initialize(logger.Config{
		Debug: false,
	})
	if err != nil {
		panic(err)
	}

	code := m.Run()
	os.Exit(code)
}

type testBlockProviderMocks struct {
	ctrl     *gomock.Controller
	fetcher  *mocks.MockBlockFetcher
	provider block.BlockProvider
}

func setupTest(t *testing.T, cacheSize int) *testBlockProviderMocks {
	ctrl := gomock.NewController(t)
	fetcher := mocks.NewMockBlockFetcher(ctrl)

	provider, err := block.NewBlockProvider(fetcher, block.Config{CacheSize: cacheSize})
	require.NoError(t, err)

	return &testBlockProviderMocks{
		ctrl:     ctrl,
		fetcher:  fetcher,
		provider: provider,
	}
}

func tearDownTest(tm *testBlockProviderMocks) {
	tm.ctrl.Finish()
}

func TestBlockProvider_CachesTimestamp(t *testing.T) {
	tm := setupTest(t, 0)
	defer tearDownTest(tm)

	ctx := context.Background()
	ts := time.Date(2024, 1, 1, 0, 0, 12, 0, time.UTC)

	// fetched once, served from cache afterwards
	tm.fetcher.EXPECT().FetchBlockTimestamp(ctx, uint64(100)).Return(ts, nil).Times(1)

	for range 3 {
		got, err := tm.provider.GetBlockTimestamp(ctx, 100)
		assert.NoError(t, err)
		assert.Equal(t, ts, got)
	}
}

func TestBlockProvider_FetchErrorIsNotCached(t *testing.T) {
	tm := setupTest(t, 0)
	defer tearDownTest(tm)

	ctx := context.Background()
	ts := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	gomock.InOrder(
		tm.fetcher.EXPECT().FetchBlockTimestamp(ctx, uint64(7)).Return(time.Time{}, errors.New("network error")),
		tm.fetcher.EXPECT().FetchBlockTimestamp(ctx, uint64(7)).Return(ts, nil),
	)

	_, err := tm.provider.GetBlockTimestamp(ctx, 7)
	assert.ErrorContains(t, err, "failed to fetch timestamp of block 7")
	assert.ErrorContains(t, err, "network error")

	got, err := tm.provider.GetBlockTimestamp(ctx, 7)
	assert.NoError(t, err)
	assert.Equal(t, ts, got)
}

func TestBlockProvider_EvictsLeastRecentlyUsed(t *testing.T) {
	tm := setupTest(t, 2)
	defer tearDownTest(tm)

	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	tm.fetcher.EXPECT().FetchBlockTimestamp(ctx, uint64(1)).Return(base, nil).Times(2)
	tm.fetcher.EXPECT().FetchBlockTimestamp(ctx, uint64(2)).Return(base.Add(12*time.Second), nil).Times(1)
	tm.fetcher.EXPECT().FetchBlockTimestamp(ctx, uint64(3)).Return(base.Add(24*time.Second), nil).Times(1)

	for _, n := range []uint64{1, 2, 2, 3, 1} {
		_, err := tm.provider.GetBlockTimestamp(ctx, n)
		require.NoError(t, err)
	}
}
