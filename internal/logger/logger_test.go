package logger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestInitialize(t *testing.T) {
	t.Run("without sentry", func(t *testing.T) {
		require.NoError(t, Initialize(Config{Debug: true}))
		assert.True(t, log.Core().Enabled(zap.DebugLevel))

		require.NoError(t, Initialize(Config{}))
		assert.False(t, log.Core().Enabled(zap.DebugLevel))
		assert.True(t, log.Core().Enabled(zap.InfoLevel))
	})

	t.Run("with provided sentry client", func(t *testing.T) {
		client, err := sentry.NewClient(sentry.ClientOptions{})
		require.NoError(t, err)

		err = Initialize(Config{
			SentryDSN:    "https://public@sentry.example.com/1",
			SentryClient: client,
			Tags:         map[string]string{"service": "test"},
		})
		require.NoError(t, err)
		assert.Same(t, client, sentryClient)

		ErrorCtx(context.Background(), errors.New("projection failed"), zap.String("dedupID", "eip155:1:0xabc:0"))
		Error(nil)
		Flush(10 * time.Millisecond)
	})

	t.Run("invalid dsn", func(t *testing.T) {
		err := Initialize(Config{SentryDSN: "not a dsn"})
		assert.Error(t, err)
	})
}

func TestWithHub(t *testing.T) {
	require.NoError(t, Initialize(Config{}))

	ctx := WithHub(context.Background(), map[string]string{"subject": "observations.eip155-1.observation"})
	hub := sentry.GetHubFromContext(ctx)
	require.NotNil(t, hub)
	assert.NotSame(t, sentry.CurrentHub(), hub)

	// Nested scopes clone from the hub already on the context
	nested := WithHub(ctx, nil)
	nestedHub := sentry.GetHubFromContext(nested)
	require.NotNil(t, nestedHub)
	assert.NotSame(t, hub, nestedHub)

	InfoCtx(nested, "scoped")
}
