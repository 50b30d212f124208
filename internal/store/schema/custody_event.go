package schema

import (
	"time"

	"gorm.io/datatypes"
)

// CustodyEventType represents the type of ledger event
type CustodyEventType string

const (
	// CustodyEventTypeMint indicates token creation by the manufacturer
	CustodyEventTypeMint CustodyEventType = "mint"
	// CustodyEventTypeTransfer indicates a custody hand-off
	CustodyEventTypeTransfer CustodyEventType = "transfer"
)

// CustodyEvent represents the custody_events table, the append-only record of
// confirmed mints and transfers. Rows are never updated or deleted; the chain
// for a token is replayed from its rows ordered by (timestamp, id).
type CustodyEvent struct {
	// ID is the internal database primary key; it breaks timestamp ties in
	// replay order
	ID uint64 `gorm:"column:id;primaryKey;autoIncrement"`
	// TokenID is the ledger token this event relates to
	TokenID uint64 `gorm:"column:token_id;not null;index:idx_custody_events_token_id"`
	// EventType identifies the type of event (mint, transfer)
	EventType CustodyEventType `gorm:"column:event_type;not null;type:text"`
	// FromAddress is the sender's wallet address (nil for mint events)
	FromAddress *string `gorm:"column:from_address;type:text"`
	// ToAddress is the recipient's wallet address
	ToAddress string `gorm:"column:to_address;not null;type:text"`
	// TxHash is the confirmed ledger transaction hash
	TxHash string `gorm:"column:tx_hash;not null;type:text;uniqueIndex:idx_custody_events_tx_hash"`
	// Timestamp is the ledger timestamp of the block that confirmed the event
	Timestamp time.Time `gorm:"column:timestamp;not null;type:timestamptz"`
	// Raw contains the ledger receipt as JSON for auditing
	Raw datatypes.JSON `gorm:"column:raw;type:jsonb"`
	// CreatedAt is the timestamp when this record was appended
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the CustodyEvent model
func (CustodyEvent) TableName() string {
	return "custody_events"
}
