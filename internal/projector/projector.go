package projector

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"go.uber.org/zap"

	"github.com/feral-file/ff-observations/internal/adapter"
	"github.com/feral-file/ff-observations/internal/domain"
	"github.com/feral-file/ff-observations/internal/logger"
	"github.com/feral-file/ff-observations/internal/store"
)

// LastSequenceKey is the key_value_store entry holding the last applied stream sequence
const LastSequenceKey = "projector:last_stream_sequence"

// Config holds the configuration for the projector
type Config struct {
	URL            string
	StreamName     string
	ConsumerName   string
	FilterSubject  string
	MaxReconnects  int
	ReconnectWait  time.Duration
	ConnectionName string
	AckWaitTimeout time.Duration
	// MaxDeliver caps redeliveries; -1 never gives up on a record
	MaxDeliver int
	// RetryInitialInterval and RetryMaxElapsedTime shape the in-place retry
	// of a record the store failed to apply
	RetryInitialInterval time.Duration
	RetryMaxElapsedTime  time.Duration
}

// Projector defines the interface for the projector
type Projector interface {
	// Run consumes ledger records until the context is cancelled or a record
	// cannot be applied within the retry budget
	Run(ctx context.Context) error
	// Close closes the projector and cleans up resources
	Close()
}

// projector materializes the ledger's log into the store, one record at a time
type projector struct {
	nc     adapter.NatsConn
	js     adapter.JetStream
	store  store.Store
	json   adapter.JSON
	config Config
}

// NewProjector creates a new projector
func NewProjector(
	cfg Config,
	natsJS adapter.NatsJetStream,
	st store.Store,
	jsonAdapter adapter.JSON,
) (Projector, error) {
	opts := []nats.Option{
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

	nc, js, err := natsJS.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS and create JetStream: %w", err)
	}

	if cfg.FilterSubject == "" {
		cfg.FilterSubject = "observations.>"
	}
	if cfg.RetryInitialInterval <= 0 {
		cfg.RetryInitialInterval = time.Second
	}
	if cfg.RetryMaxElapsedTime <= 0 {
		cfg.RetryMaxElapsedTime = 5 * time.Minute
	}

	return &projector{
		nc:     nc,
		js:     js,
		store:  st,
		json:   jsonAdapter,
		config: cfg,
	}, nil
}

// Run starts the projector
func (p *projector) Run(ctx context.Context) error {
	logger.InfoCtx(ctx, "Starting projector", zap.String("stream", p.config.StreamName), zap.String("consumer", p.config.ConsumerName))

	// One unacked message at a time: a record is redelivered before anything
	// after it, so the tips and update folds always see the log in order.
	consumerConfig := jetstream.ConsumerConfig{
		Durable:       p.config.ConsumerName,
		AckPolicy:     jetstream.AckExplicitPolicy,
		AckWait:       p.config.AckWaitTimeout,
		MaxDeliver:    p.config.MaxDeliver,
		MaxAckPending: 1,
		FilterSubject: p.config.FilterSubject,
	}

	consumer, err := p.js.CreateOrUpdateConsumer(ctx, p.config.StreamName, consumerConfig)
	if err != nil {
		return fmt.Errorf("failed to create/update consumer: %w", err)
	}

	consumerInfo, err := consumer.Info(ctx)
	if err != nil {
		return fmt.Errorf("failed to get consumer info: %w", err)
	}
	logger.InfoCtx(ctx, "Consumer created/retrieved", zap.String("consumer", consumerInfo.Name))

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Unbuffered so records are applied strictly one after another in stream order
	msgChan := make(chan adapter.Message)
	sub, err := consumer.Consume(func(msg adapter.Message) {
		select {
		case msgChan <- msg:
		case <-runCtx.Done():
		}
	})
	if err != nil {
		return fmt.Errorf("failed to create subscription: %w", err)
	}
	defer sub.Stop()

	logger.InfoCtx(ctx, "Started consuming messages")

	for {
		select {
		case <-ctx.Done():
			logger.InfoCtx(ctx, "Shutting down projector")
			return ctx.Err()
		case msg := <-msgChan:
			if err := p.handleMessage(ctx, msg); err != nil {
				return err
			}
		}
	}
}

// handleMessage applies a single NATS message and settles it. A record the
// store fails to apply is retried in place; when the retries run out the
// message is left for redelivery and the error stops the projector, since
// skipping it would apply later records out of order.
func (p *projector) handleMessage(ctx context.Context, msg adapter.Message) error {
	var deliveryCount, streamSequence uint64
	if metadata, err := msg.Metadata(); err == nil && metadata != nil {
		deliveryCount = metadata.NumDelivered
		streamSequence = metadata.Sequence.Stream
	}

	var event domain.LedgerEvent
	if err := p.json.Unmarshal(msg.Data(), &event); err != nil {
		logger.ErrorCtx(ctx, err, zap.String("message", "Failed to unmarshal event"), zap.Uint64("streamSequence", streamSequence))
		p.term(ctx, msg)
		return nil
	}

	// the ledger never emits such a record, so no ordering can make it apply
	if !event.Valid() {
		logger.ErrorCtx(ctx, fmt.Errorf("invalid %s event in %s", event.Type, event.TxHash),
			zap.String("chain", string(event.Chain)),
			zap.Uint64("streamSequence", streamSequence),
		)
		p.term(ctx, msg)
		return nil
	}

	ctx = logger.WithHub(ctx, map[string]string{
		"chain":     string(event.Chain),
		"eventType": string(event.Type),
		"dedupID":   event.DedupID(),
	})
	logger.InfoCtx(ctx, "Received event",
		zap.String("chain", string(event.Chain)),
		zap.String("eventType", string(event.Type)),
		zap.String("txHash", event.TxHash),
		zap.Uint("logIndex", event.LogIndex),
		zap.Uint64("deliveryCount", deliveryCount),
	)

	applied, err := p.applyWithRetry(ctx, msg, &event)
	if err != nil {
		if nakErr := msg.Nak(); nakErr != nil {
			logger.ErrorCtx(ctx, nakErr, zap.String("message", "Failed to NAK message"))
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		logger.ErrorCtx(ctx, err, zap.String("message", "Halting projector"), zap.String("dedupID", event.DedupID()))
		return fmt.Errorf("failed to apply event %s at stream sequence %d: %w", event.DedupID(), streamSequence, err)
	}
	if !applied {
		logger.InfoCtx(ctx, "Skipping already applied event", zap.String("dedupID", event.DedupID()))
	}

	if streamSequence > 0 {
		if err := p.store.SetKeyValue(ctx, LastSequenceKey, strconv.FormatUint(streamSequence, 10)); err != nil {
			logger.ErrorCtx(ctx, err, zap.String("message", "Failed to save stream sequence"))
		}
	}

	// ACK message after successful processing
	if err := msg.Ack(); err != nil {
		logger.ErrorCtx(ctx, err, zap.String("message", "Failed to ACK message"))
	}
	return nil
}

// applyWithRetry keeps the message in progress while the store is retried
func (p *projector) applyWithRetry(ctx context.Context, msg adapter.Message, event *domain.LedgerEvent) (bool, error) {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.config.RetryInitialInterval
	b.MaxInterval = 30 * time.Second
	b.MaxElapsedTime = p.config.RetryMaxElapsedTime

	var applied bool
	operation := func() error {
		var err error
		applied, err = p.apply(ctx, event, msg.Data())
		return err
	}

	var attemptCount int
	notifyOnError := func(err error, duration time.Duration) {
		attemptCount++
		logger.WarnCtx(ctx, "Failed to apply event, retrying",
			zap.Error(err),
			zap.String("dedupID", event.DedupID()),
			zap.Int("attempt", attemptCount),
			zap.Duration("next_retry_in", duration),
		)
		if err := msg.InProgress(); err != nil {
			logger.WarnCtx(ctx, "Failed to extend ack wait", zap.Error(err))
		}
	}

	if err := backoff.RetryNotify(operation, backoff.WithContext(b, ctx), notifyOnError); err != nil {
		return false, fmt.Errorf("failed after %d attempts: %w", attemptCount+1, err)
	}
	return applied, nil
}

// apply routes the record to the matching store operation
func (p *projector) apply(ctx context.Context, event *domain.LedgerEvent, raw []byte) (bool, error) {
	input := store.ApplyEventInput{Event: *event, Raw: raw}

	switch event.Type {
	case domain.EventTypeObservation:
		return p.store.ApplyObservation(ctx, input)
	case domain.EventTypeTipsClaimed:
		return p.store.ApplyTipsClaimed(ctx, input)
	default:
		return false, fmt.Errorf("unknown event type: %s", event.Type)
	}
}

func (p *projector) term(ctx context.Context, msg adapter.Message) {
	// Terminate message for unparseable data
	if err := msg.Term(); err != nil {
		logger.ErrorCtx(ctx, err, zap.String("message", "Failed to terminate message"))
	}
}

// Close closes the projector and cleans up resources
func (p *projector) Close() {
	if p.nc == nil {
		return
	}

	p.nc.Close()
}
