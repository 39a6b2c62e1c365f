package jetstream

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"go.uber.org/zap"

	"github.com/feral-file/ff-observations/internal/adapter"
	"github.com/feral-file/ff-observations/internal/domain"
	"github.com/feral-file/ff-observations/internal/logger"
	"github.com/feral-file/ff-observations/internal/messaging"
)

const (
	// SubjectPrefix is the first token of every ledger record subject
	SubjectPrefix = "observations"
	// DEFAULT_DUPLICATE_WINDOW is how long the stream remembers message ids
	DEFAULT_DUPLICATE_WINDOW = 2 * time.Hour
)

// Config holds the configuration for NATS JetStream connection
type Config struct {
	URL            string
	StreamName     string
	MaxReconnects  int
	ReconnectWait  time.Duration
	ConnectionName string
	// DuplicateWindow bounds message id deduplication; republishes older than it reach the projector's own dedup
	DuplicateWindow time.Duration
}

type publisher struct {
	nc         adapter.NatsConn
	js         adapter.JetStream
	streamName string
	json       adapter.JSON
}

// connectOptions returns the connection options shared by publishers and consumers
func connectOptions(cfg Config) []nats.Option {
	return []nats.Option{
		nats.Name(cfg.ConnectionName),
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			if err != nil {
				logger.Error(err, zap.String("message", "Disconnected from NATS"))
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("Reconnected to NATS", zap.String("url", nc.ConnectedUrl()))
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			logger.Info("NATS connection closed")
		}),
	}
}

// StreamConfig returns the stream that carries every ledger record subject
func StreamConfig(cfg Config) jetstream.StreamConfig {
	window := cfg.DuplicateWindow
	if window <= 0 {
		window = DEFAULT_DUPLICATE_WINDOW
	}
	return jetstream.StreamConfig{
		Name:       cfg.StreamName,
		Subjects:   []string{SubjectPrefix + ".>"},
		Storage:    jetstream.FileStorage,
		Retention:  jetstream.LimitsPolicy,
		Duplicates: window,
	}
}

// NewPublisher connects to NATS and makes sure the records stream exists
func NewPublisher(ctx context.Context, cfg Config, natsJS adapter.NatsJetStream, jsonAdapter adapter.JSON) (messaging.Publisher, error) {
	nc, js, err := natsJS.Connect(cfg.URL, connectOptions(cfg)...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS and create JetStream: %w", err)
	}

	info, err := js.CreateOrUpdateStream(ctx, StreamConfig(cfg))
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("failed to create or update stream %s: %w", cfg.StreamName, err)
	}
	if info != nil {
		logger.InfoCtx(ctx, "JetStream stream ready",
			zap.String("stream", info.Config.Name),
			zap.Uint64("messages", info.State.Msgs))
	}

	return &publisher{
		nc:         nc,
		js:         js,
		streamName: cfg.StreamName,
		json:       jsonAdapter,
	}, nil
}

// PublishEvent publishes a ledger record to NATS JetStream.
// The dedup id is sent as the message id so the stream drops republished records.
func (p *publisher) PublishEvent(ctx context.Context, event *domain.LedgerEvent) error {
	logger.DebugCtx(ctx, "Publishing Nats event", zap.String("dedupID", event.DedupID()), zap.String("type", string(event.Type)))

	data, err := p.json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	_, err = p.js.Publish(ctx, Subject(event), data, jetstream.WithMsgID(event.DedupID()))
	if err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	return nil
}

// Subject constructs the NATS subject of a record.
// Format: observations.{chain}.{event_type}
// e.g., observations.ethereum.observation, observations.devnet.tips_claimed
func Subject(event *domain.LedgerEvent) string {
	return fmt.Sprintf("%s.%s.%s", SubjectPrefix, chainSlug(event.Chain), event.Type)
}

func chainSlug(chain domain.Chain) string {
	switch chain {
	case domain.ChainEthereumMainnet:
		return "ethereum"
	case domain.ChainEthereumSepolia:
		return "sepolia"
	case domain.ChainLedgerDevnet:
		return "devnet"
	default:
		// subject tokens cannot contain dots
		return strings.NewReplacer(".", "_", ":", "_").Replace(string(chain))
	}
}

// Close drains pending publishes before closing the NATS connection
func (p *publisher) Close() {
	if p.nc == nil {
		return
	}

	if err := p.nc.Drain(); err != nil {
		logger.Error(err, zap.String("message", "Failed to drain NATS connection"))
		p.nc.Close()
	}
}
