package jetstream

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/veritoken/custody-indexer/internal/adapter"
	"github.com/veritoken/custody-indexer/internal/domain"
	"github.com/veritoken/custody-indexer/internal/logger"
	"github.com/veritoken/custody-indexer/internal/messaging"
)

// Config holds the configuration for NATS JetStream connection
type Config struct {
	URL            string
	StreamName     string
	MaxReconnects  int
	ReconnectWait  time.Duration
	ConnectionName string
}

type publisher struct {
	nc         adapter.NatsConn
	js         adapter.JetStream
	streamName string
	json       adapter.JSON
	clock      adapter.Clock

	mu      sync.Mutex // guards entropy
	entropy *ulid.MonotonicEntropy
}

// NewPublisher creates a new NATS JetStream publisher and ensures the
// custody events stream exists
func NewPublisher(ctx context.Context, cfg Config, natsJS adapter.NatsJetStream, jsonAdapter adapter.JSON, clock adapter.Clock) (messaging.Publisher, error) {
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

	_, err = js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:     cfg.StreamName,
		Subjects: []string{"custody.events.>"},
	})
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("failed to create stream: %w", err)
	}

	return &publisher{
		nc:         nc,
		js:         js,
		streamName: cfg.StreamName,
		json:       jsonAdapter,
		clock:      clock,
		entropy:    ulid.Monotonic(rand.New(rand.NewSource(clock.Now().UnixNano())), 0), //nolint:gosec // message ids need uniqueness, not unpredictability
	}, nil
}

// PublishEvent publishes a confirmed custody event to NATS JetStream.
// The JetStream message id is the transaction hash, so a re-published
// confirmation deduplicates broker-side.
func (p *publisher) PublishEvent(ctx context.Context, event *domain.CustodyEvent) error {
	envelope := messaging.Envelope{
		ID:    p.nextID(),
		Type:  event.Type(),
		Event: *event,
	}

	data, err := p.json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	subject := fmt.Sprintf("custody.events.%s", event.Type())

	logger.DebugCtx(ctx, "publishing custody event",
		zap.String("subject", subject),
		zap.Uint64("tokenID", event.TokenID),
		zap.String("txHash", event.TxHash))

	_, err = p.js.Publish(ctx, subject, data, jetstream.WithMsgID(event.TxHash))
	if err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	return nil
}

func (p *publisher) nextID() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(p.clock.Now()), p.entropy).String()
}

// Close closes the NATS connection
func (p *publisher) Close() {
	if p.nc == nil {
		return
	}

	p.nc.Close()
}
