package jetstream

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	natsgo "github.com/nats-io/nats.go"
	js "github.com/nats-io/nats.go/jetstream"
	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veritoken/custody-indexer/internal/adapter"
	"github.com/veritoken/custody-indexer/internal/domain"
	"github.com/veritoken/custody-indexer/internal/logger"
	"github.com/veritoken/custody-indexer/internal/messaging"
	"github.com/veritoken/custody-indexer/internal/mocks"
)

func TestMain(m *testing.M) {
	if err := logger.Initialize(logger.Config{Debug: true}); err != nil {
		panic(err)
	}
	m.Run()
}

func testConfig() Config {
	return Config{
		URL:            "nats://localhost:4222",
		StreamName:     "CUSTODY_EVENTS",
		MaxReconnects:  3,
		ReconnectWait:  time.Second,
		ConnectionName: "custody-indexer-test",
	}
}

func newTestPublisher(t *testing.T, ctrl *gomock.Controller) (messaging.Publisher, *mocks.MockNatsConn, *mocks.MockJetStream) {
	t.Helper()

	natsJS := mocks.NewMockNatsJetStream(ctrl)
	conn := mocks.NewMockNatsConn(ctrl)
	stream := mocks.NewMockJetStream(ctrl)
	clock := mocks.NewMockClock(ctrl)

	natsJS.EXPECT().
		Connect(gomock.Eq("nats://localhost:4222"), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(conn, stream, nil)
	stream.EXPECT().
		CreateOrUpdateStream(gomock.Any(), js.StreamConfig{
			Name:     "CUSTODY_EVENTS",
			Subjects: []string{"custody.events.>"},
		}).
		Return(nil, nil)
	clock.EXPECT().Now().Return(time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)).AnyTimes()

	publisher, err := NewPublisher(context.Background(), testConfig(), natsJS, adapter.NewJSON(), clock)
	require.NoError(t, err)
	return publisher, conn, stream
}

func TestPublishEvent(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	publisher, _, stream := newTestPublisher(t, ctrl)

	from := "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"
	event := &domain.CustodyEvent{
		TokenID:   42,
		From:      &from,
		To:        "0xfB6916095ca1df60bB79Ce92cE3Ea74c37c5d359",
		TxHash:    "0xt1",
		Timestamp: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
	}

	stream.EXPECT().
		Publish(gomock.Any(), "custody.events.transfer", gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, data []byte, _ ...js.PublishOpt) (*js.PubAck, error) {
			var envelope messaging.Envelope
			require.NoError(t, json.Unmarshal(data, &envelope))
			assert.Equal(t, domain.EventTypeTransfer, envelope.Type)
			assert.Equal(t, uint64(42), envelope.Event.TokenID)
			_, err := ulid.Parse(envelope.ID)
			assert.NoError(t, err)
			return &js.PubAck{Stream: "CUSTODY_EVENTS", Sequence: 1}, nil
		})

	require.NoError(t, publisher.PublishEvent(context.Background(), event))
}

func TestPublishMintEventSubject(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	publisher, _, stream := newTestPublisher(t, ctrl)

	event := &domain.CustodyEvent{
		TokenID:   7,
		To:        "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed",
		TxHash:    "0xm1",
		Timestamp: time.Now(),
	}

	stream.EXPECT().
		Publish(gomock.Any(), "custody.events.mint", gomock.Any(), gomock.Any()).
		Return(&js.PubAck{Stream: "CUSTODY_EVENTS", Sequence: 2}, nil)

	require.NoError(t, publisher.PublishEvent(context.Background(), event))
}

func TestPublishEventBrokerFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	publisher, _, stream := newTestPublisher(t, ctrl)

	stream.EXPECT().
		Publish(gomock.Any(), "custody.events.mint", gomock.Any(), gomock.Any()).
		Return(nil, natsgo.ErrConnectionClosed)

	err := publisher.PublishEvent(context.Background(), &domain.CustodyEvent{
		TokenID: 7,
		To:      "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed",
		TxHash:  "0xm1",
	})
	assert.Error(t, err)
}

func TestPublishEventsGetDistinctIDs(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	publisher, _, stream := newTestPublisher(t, ctrl)

	ids := make(map[string]bool)
	stream.EXPECT().
		Publish(gomock.Any(), "custody.events.mint", gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, data []byte, _ ...js.PublishOpt) (*js.PubAck, error) {
			var envelope messaging.Envelope
			require.NoError(t, json.Unmarshal(data, &envelope))
			ids[envelope.ID] = true
			return &js.PubAck{}, nil
		}).
		Times(3)

	event := &domain.CustodyEvent{TokenID: 7, To: "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed", TxHash: "0xm1"}
	for range 3 {
		require.NoError(t, publisher.PublishEvent(context.Background(), event))
	}
	assert.Len(t, ids, 3)
}

func TestNewPublisherConnectFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	natsJS := mocks.NewMockNatsJetStream(ctrl)
	natsJS.EXPECT().
		Connect(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, nil, errors.New("no servers available"))

	_, err := NewPublisher(context.Background(), testConfig(), natsJS,
		adapter.NewJSON(), mocks.NewMockClock(ctrl))
	assert.Error(t, err)
}

func TestNewPublisherStreamFailureClosesConnection(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	natsJS := mocks.NewMockNatsJetStream(ctrl)
	conn := mocks.NewMockNatsConn(ctrl)
	stream := mocks.NewMockJetStream(ctrl)

	natsJS.EXPECT().
		Connect(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(conn, stream, nil)
	stream.EXPECT().
		CreateOrUpdateStream(gomock.Any(), gomock.Any()).
		Return(nil, errors.New("stream rejected"))
	conn.EXPECT().Close()

	_, err := NewPublisher(context.Background(), testConfig(), natsJS,
		adapter.NewJSON(), mocks.NewMockClock(ctrl))
	assert.Error(t, err)
}

func TestClose(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	publisher, conn, _ := newTestPublisher(t, ctrl)

	conn.EXPECT().Close()
	publisher.Close()
}
