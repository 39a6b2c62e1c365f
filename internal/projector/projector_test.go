package projector_test

import (
	"context"
	"encoding/json"
	"math/big"
	"os"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/golang/mock/gomock"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/ff-observations/internal/adapter"
	"github.com/feral-file/ff-observations/internal/domain"
	"github.com/feral-file/ff-observations/internal/logger"
	mockspkg "github.com/feral-file/ff-observations/internal/mocks"
	"github.com/feral-file/ff-observations/internal/projector"
	"github.com/feral-file/ff-observations/internal/store"
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

// testProjectorMocks contains all the mocks needed for testing the projector
type testProjectorMocks struct {
	ctrl      *gomock.Controller
	natsJS    *mockspkg.MockNatsJetStream
	natsConn  *mockspkg.MockNatsConn
	jetStream *mockspkg.MockJetStream
	store     *mockspkg.MockStore
	json      *mockspkg.MockJSON
}

// setupTestProjector creates all the mocks for testing
func setupTestProjector(t *testing.T) *testProjectorMocks {
	ctrl := gomock.NewController(t)

	return &testProjectorMocks{
		ctrl:      ctrl,
		natsJS:    mockspkg.NewMockNatsJetStream(ctrl),
		natsConn:  mockspkg.NewMockNatsConn(ctrl),
		jetStream: mockspkg.NewMockJetStream(ctrl),
		store:     mockspkg.NewMockStore(ctrl),
		json:      mockspkg.NewMockJSON(ctrl),
	}
}

// tearDownTestProjector cleans up the test mocks
func tearDownTestProjector(mocks *testProjectorMocks) {
	mocks.ctrl.Finish()
}

func testConfig() projector.Config {
	return projector.Config{
		URL:            "nats://localhost:4222",
		StreamName:     "OBSERVATIONS",
		ConsumerName:   "projector",
		MaxReconnects:  10,
		ReconnectWait:  1 * time.Second,
		ConnectionName: "test-projector",
		AckWaitTimeout: 30 * time.Second,
		MaxDeliver:     -1,

		RetryInitialInterval: 10 * time.Millisecond,
		RetryMaxElapsedTime:  200 * time.Millisecond,
	}
}

// newProjector connects a projector using either the real or the mocked JSON adapter
func (tm *testProjectorMocks) newProjector(t *testing.T, jsonAdapter adapter.JSON) projector.Projector {
	tm.natsJS.
		EXPECT().
		Connect("nats://localhost:4222", gomock.Any()).
		Return(tm.natsConn, tm.jetStream, nil)

	p, err := projector.NewProjector(testConfig(), tm.natsJS, tm.store, jsonAdapter)
	require.NoError(t, err)
	return p
}

// deliver runs the projector over the given messages and expects it to stop only when cancelled
func (tm *testProjectorMocks) deliver(t *testing.T, p projector.Projector, msgs ...adapter.Message) {
	assert.Equal(t, context.Canceled, tm.run(t, p, msgs...))
}

// run hands the projector the given messages and returns what Run returned
func (tm *testProjectorMocks) run(t *testing.T, p projector.Projector, msgs ...adapter.Message) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	consumer := mockspkg.NewMockNatsConsumer(tm.ctrl)
	consumeContext := mockspkg.NewMockConsumeContext(tm.ctrl)
	consumeContext.EXPECT().Stop().AnyTimes()

	consumer.EXPECT().
		Info(gomock.Any()).
		Return(&jetstream.ConsumerInfo{Name: "projector"}, nil)
	consumer.EXPECT().
		Consume(gomock.Any()).
		DoAndReturn(func(handler adapter.MessageHandler, opts ...jetstream.PullConsumeOpt) (adapter.ConsumeContext, error) {
			go func() {
				// each hand-off blocks until the projector has taken the
				// message, and it settles one message before taking the next
				for _, msg := range msgs {
					handler(msg)
				}
				cancel()
			}()
			return consumeContext, nil
		})

	tm.jetStream.
		EXPECT().
		CreateOrUpdateConsumer(gomock.Any(), "OBSERVATIONS", gomock.Any()).
		Return(consumer, nil)

	errChan := make(chan error, 1)
	go func() {
		errChan <- p.Run(ctx)
	}()

	select {
	case err := <-errChan:
		return err
	case <-time.After(5 * time.Second):
		t.Fatal("Test timed out")
		return nil
	}
}

func buildObservationEvent() *domain.LedgerEvent {
	return &domain.LedgerEvent{
		Chain:       domain.ChainLedgerDevnet,
		Type:        domain.EventTypeObservation,
		Contract:    "0xC00000000000000000000000000000000000000C",
		TxHash:      "0xabc",
		BlockNumber: 7,
		Timestamp:   time.Unix(1700000000, 0).UTC(),
		Observation: &domain.ObservationRecorded{
			Collection:   common.HexToAddress("0xA00000000000000000000000000000000000000A"),
			TokenID:      big.NewInt(42),
			Observer:     common.HexToAddress("0x1000000000000000000000000000000000000001"),
			ID:           1,
			Note:         "first light",
			Tip:          big.NewInt(100),
			TipRecipient: common.HexToAddress("0xB00000000000000000000000000000000000000B"),
		},
	}
}

func buildClaimEvent() *domain.LedgerEvent {
	return &domain.LedgerEvent{
		Chain:       domain.ChainLedgerDevnet,
		Type:        domain.EventTypeTipsClaimed,
		TxHash:      "0xdef",
		BlockNumber: 8,
		Timestamp:   time.Unix(1700000100, 0).UTC(),
		TipsClaimed: &domain.TipsClaimed{
			Recipient: common.HexToAddress("0xB00000000000000000000000000000000000000B"),
			Claimant:  common.HexToAddress("0xB00000000000000000000000000000000000000B"),
			Amount:    big.NewInt(100),
		},
	}
}

func mustMarshal(t *testing.T, event *domain.LedgerEvent) []byte {
	data, err := json.Marshal(event)
	require.NoError(t, err)
	return data
}

func newMessage(ctrl *gomock.Controller, data []byte, sequence uint64) *mockspkg.MockJetStreamMessage {
	msg := mockspkg.NewMockJetStreamMessage(ctrl)
	msg.EXPECT().Data().Return(data).AnyTimes()
	msg.EXPECT().Metadata().Return(&jetstream.MsgMetadata{
		Sequence:     jetstream.SequencePair{Stream: sequence, Consumer: sequence},
		NumDelivered: 1,
	}, nil).AnyTimes()
	return msg
}

func TestProjector_NewProjector_ConnectError(t *testing.T) {
	mocks := setupTestProjector(t)
	defer tearDownTestProjector(mocks)

	mocks.natsJS.
		EXPECT().
		Connect(gomock.Any(), gomock.Any()).
		Return(nil, nil, assert.AnError)

	p, err := projector.NewProjector(testConfig(), mocks.natsJS, mocks.store, mocks.json)

	assert.Error(t, err)
	assert.Nil(t, p)
	assert.Contains(t, err.Error(), "failed to connect to NATS")
}

func TestProjector_Run_CreateConsumerError(t *testing.T) {
	mocks := setupTestProjector(t)
	defer tearDownTestProjector(mocks)

	p := mocks.newProjector(t, mocks.json)

	mocks.jetStream.
		EXPECT().
		CreateOrUpdateConsumer(gomock.Any(),
			"OBSERVATIONS",
			jetstream.ConsumerConfig{
				Durable:       "projector",
				AckPolicy:     jetstream.AckExplicitPolicy,
				AckWait:       30 * time.Second,
				MaxDeliver:    -1,
				MaxAckPending: 1,
				FilterSubject: "observations.>",
			}).
		Return(nil, assert.AnError)

	err := p.Run(context.Background())

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create/update consumer")
}

func TestProjector_Run_ConsumerInfoError(t *testing.T) {
	mocks := setupTestProjector(t)
	defer tearDownTestProjector(mocks)

	p := mocks.newProjector(t, mocks.json)

	consumer := mockspkg.NewMockNatsConsumer(mocks.ctrl)
	consumer.EXPECT().
		Info(gomock.Any()).
		Return(nil, assert.AnError)

	mocks.jetStream.
		EXPECT().
		CreateOrUpdateConsumer(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(consumer, nil)

	err := p.Run(context.Background())

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to get consumer info")
}

func TestProjector_Run_ConsumeError(t *testing.T) {
	mocks := setupTestProjector(t)
	defer tearDownTestProjector(mocks)

	p := mocks.newProjector(t, mocks.json)

	consumer := mockspkg.NewMockNatsConsumer(mocks.ctrl)
	consumer.EXPECT().
		Info(gomock.Any()).
		Return(&jetstream.ConsumerInfo{Name: "projector"}, nil)
	consumer.EXPECT().
		Consume(gomock.Any()).
		Return(nil, assert.AnError)

	mocks.jetStream.
		EXPECT().
		CreateOrUpdateConsumer(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(consumer, nil)

	err := p.Run(context.Background())

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create subscription")
}

func TestProjector_AppliesObservation(t *testing.T) {
	mocks := setupTestProjector(t)
	defer tearDownTestProjector(mocks)

	p := mocks.newProjector(t, adapter.NewJSON())

	data := mustMarshal(t, buildObservationEvent())
	msg := newMessage(mocks.ctrl, data, 12)

	gomock.InOrder(
		mocks.store.
			EXPECT().
			ApplyObservation(gomock.Any(), gomock.Any()).
			DoAndReturn(func(ctx context.Context, input store.ApplyEventInput) (bool, error) {
				assert.Equal(t, domain.EventTypeObservation, input.Event.Type)
				assert.Equal(t, uint64(42), input.Event.Observation.TokenID.Uint64())
				assert.Equal(t, "first light", input.Event.Observation.Note)
				assert.JSONEq(t, string(data), string(input.Raw))
				return true, nil
			}),
		mocks.store.
			EXPECT().
			SetKeyValue(gomock.Any(), projector.LastSequenceKey, "12").
			Return(nil),
		msg.EXPECT().Ack().Return(nil),
	)

	mocks.deliver(t, p, msg)
}

func TestProjector_AppliesTipsClaimed(t *testing.T) {
	mocks := setupTestProjector(t)
	defer tearDownTestProjector(mocks)

	p := mocks.newProjector(t, adapter.NewJSON())

	msg := newMessage(mocks.ctrl, mustMarshal(t, buildClaimEvent()), 13)

	mocks.store.
		EXPECT().
		ApplyTipsClaimed(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, input store.ApplyEventInput) (bool, error) {
			assert.Equal(t, "100", input.Event.TipsClaimed.Amount.String())
			return true, nil
		})
	mocks.store.EXPECT().SetKeyValue(gomock.Any(), projector.LastSequenceKey, "13").Return(nil)
	msg.EXPECT().Ack().Return(nil)

	mocks.deliver(t, p, msg)
}

func TestProjector_DuplicateIsAcked(t *testing.T) {
	mocks := setupTestProjector(t)
	defer tearDownTestProjector(mocks)

	p := mocks.newProjector(t, adapter.NewJSON())

	msg := newMessage(mocks.ctrl, mustMarshal(t, buildObservationEvent()), 14)

	mocks.store.EXPECT().ApplyObservation(gomock.Any(), gomock.Any()).Return(false, nil)
	mocks.store.EXPECT().SetKeyValue(gomock.Any(), projector.LastSequenceKey, "14").Return(nil)
	msg.EXPECT().Ack().Return(nil)

	mocks.deliver(t, p, msg)
}

func TestProjector_StoreErrorIsRetriedBeforeLaterRecords(t *testing.T) {
	mocks := setupTestProjector(t)
	defer tearDownTestProjector(mocks)

	p := mocks.newProjector(t, adapter.NewJSON())

	credit := newMessage(mocks.ctrl, mustMarshal(t, buildObservationEvent()), 15)
	claim := newMessage(mocks.ctrl, mustMarshal(t, buildClaimEvent()), 16)

	var order []string
	gomock.InOrder(
		mocks.store.
			EXPECT().
			ApplyObservation(gomock.Any(), gomock.Any()).
			DoAndReturn(func(ctx context.Context, input store.ApplyEventInput) (bool, error) {
				order = append(order, "credit:fail")
				return false, assert.AnError
			}),
		credit.EXPECT().InProgress().Return(nil),
		mocks.store.
			EXPECT().
			ApplyObservation(gomock.Any(), gomock.Any()).
			DoAndReturn(func(ctx context.Context, input store.ApplyEventInput) (bool, error) {
				order = append(order, "credit:applied")
				return true, nil
			}),
		mocks.store.EXPECT().SetKeyValue(gomock.Any(), projector.LastSequenceKey, "15").Return(nil),
		credit.EXPECT().Ack().DoAndReturn(func() error {
			order = append(order, "credit:ack")
			return nil
		}),
		mocks.store.
			EXPECT().
			ApplyTipsClaimed(gomock.Any(), gomock.Any()).
			DoAndReturn(func(ctx context.Context, input store.ApplyEventInput) (bool, error) {
				order = append(order, "claim:applied")
				return true, nil
			}),
		mocks.store.EXPECT().SetKeyValue(gomock.Any(), projector.LastSequenceKey, "16").Return(nil),
		claim.EXPECT().Ack().DoAndReturn(func() error {
			order = append(order, "claim:ack")
			return nil
		}),
	)

	mocks.deliver(t, p, credit, claim)

	assert.Equal(t, []string{"credit:fail", "credit:applied", "credit:ack", "claim:applied", "claim:ack"}, order)
}

func TestProjector_HaltsWhenRetriesAreExhausted(t *testing.T) {
	mocks := setupTestProjector(t)
	defer tearDownTestProjector(mocks)

	p := mocks.newProjector(t, adapter.NewJSON())

	credit := newMessage(mocks.ctrl, mustMarshal(t, buildObservationEvent()), 15)
	claim := newMessage(mocks.ctrl, mustMarshal(t, buildClaimEvent()), 16)

	// the claim must never be applied or settled while the credit before it is unapplied
	mocks.store.
		EXPECT().
		ApplyObservation(gomock.Any(), gomock.Any()).
		Return(false, assert.AnError).
		MinTimes(2)
	credit.EXPECT().InProgress().Return(nil).MinTimes(1)
	credit.EXPECT().Nak().Return(nil)

	err := mocks.run(t, p, credit, claim)

	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
	assert.Contains(t, err.Error(), "failed to apply event")
	assert.Contains(t, err.Error(), "stream sequence 15")
}

func TestProjector_UnparseableIsTerminated(t *testing.T) {
	mocks := setupTestProjector(t)
	defer tearDownTestProjector(mocks)

	p := mocks.newProjector(t, mocks.json)

	msg := newMessage(mocks.ctrl, []byte("not json"), 16)

	mocks.json.
		EXPECT().
		Unmarshal([]byte("not json"), gomock.Any()).
		Return(assert.AnError)
	msg.EXPECT().Term().Return(nil)

	mocks.deliver(t, p, msg)
}

func TestProjector_InvalidEventIsTerminated(t *testing.T) {
	mocks := setupTestProjector(t)
	defer tearDownTestProjector(mocks)

	p := mocks.newProjector(t, adapter.NewJSON())

	event := buildObservationEvent()
	// a tip without a recipient can never be emitted by the ledger
	event.Observation.TipRecipient = common.Address{}
	msg := newMessage(mocks.ctrl, mustMarshal(t, event), 17)

	msg.EXPECT().Term().Return(nil)

	mocks.deliver(t, p, msg)
}

func TestProjector_AppliesInStreamOrder(t *testing.T) {
	mocks := setupTestProjector(t)
	defer tearDownTestProjector(mocks)

	p := mocks.newProjector(t, adapter.NewJSON())

	first := buildObservationEvent()
	second := buildObservationEvent()
	second.TxHash = "0xabd"
	second.Observation.ID = 2
	second.Observation.Parent = 1
	second.Observation.Note = "reply"

	msg1 := newMessage(mocks.ctrl, mustMarshal(t, first), 20)
	msg2 := newMessage(mocks.ctrl, mustMarshal(t, second), 21)

	var applied []uint64
	mocks.store.
		EXPECT().
		ApplyObservation(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, input store.ApplyEventInput) (bool, error) {
			applied = append(applied, input.Event.Observation.ID)
			return true, nil
		}).
		Times(2)
	mocks.store.EXPECT().SetKeyValue(gomock.Any(), projector.LastSequenceKey, gomock.Any()).Return(nil).Times(2)
	msg1.EXPECT().Ack().Return(nil)
	msg2.EXPECT().Ack().Return(nil)

	mocks.deliver(t, p, msg1, msg2)

	assert.Equal(t, []uint64{1, 2}, applied)
}

func TestProjector_Close(t *testing.T) {
	mocks := setupTestProjector(t)
	defer tearDownTestProjector(mocks)

	p := mocks.newProjector(t, mocks.json)

	mocks.natsConn.EXPECT().Close()

	p.Close()
}
