package messaging

import (
	"context"

	"github.com/veritoken/custody-indexer/internal/domain"
)

// Envelope wraps a custody event for publication with a unique message id
type Envelope struct {
	// ID is a ULID assigned at publish time
	ID string `json:"id"`
	// Type is the custody event type (mint, transfer)
	Type domain.EventType `json:"type"`
	// Event is the confirmed custody event
	Event domain.CustodyEvent `json:"event"`
}

// Publisher defines the interface for publishing confirmed custody events
//
//go:generate mockgen -source=publisher.go -destination=../mocks/publisher.go -package=mocks -mock_names=Publisher=MockPublisher
type Publisher interface {
	// PublishEvent publishes a confirmed custody event to the message broker
	PublishEvent(ctx context.Context, event *domain.CustodyEvent) error
	// Close closes the connection
	Close()
}
