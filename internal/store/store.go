package store

import (
	"context"

	"github.com/veritoken/custody-indexer/internal/domain"
)

// CreateTokenMintInput bundles the metadata row and the mint custody event
// persisted together when a mint is confirmed
type CreateTokenMintInput struct {
	Info     domain.TokenInfo
	MintedBy string
	Event    domain.CustodyEvent
	Raw      []byte
}

// Store defines the interface for database operations
//
//go:generate mockgen -source=store.go -destination=../mocks/store.go -package=mocks -mock_names=Store=MockStore
type Store interface {
	// AppendCustodyEvent appends a confirmed custody event to the log.
	// Appending the same transaction hash twice is a no-op.
	AppendCustodyEvent(ctx context.Context, event domain.CustodyEvent, raw []byte) error
	// CustodyHistory returns all custody events for a token ordered by
	// (timestamp, id) ascending
	CustodyHistory(ctx context.Context, tokenID uint64) ([]domain.CustodyEvent, error)
	// CreateTokenMint persists the token metadata and the mint custody event
	// in a single transaction
	CreateTokenMint(ctx context.Context, input CreateTokenMintInput) error
	// TokenInfoByID retrieves token metadata by ledger token id
	TokenInfoByID(ctx context.Context, tokenID uint64) (*domain.TokenInfo, error)
	// TokenInfoByIDs retrieves metadata for multiple tokens; ids without a
	// stored row are absent from the result
	TokenInfoByIDs(ctx context.Context, tokenIDs []uint64) ([]*domain.TokenInfo, error)
	// AccountByAddress retrieves an account by wallet address
	AccountByAddress(ctx context.Context, address string) (*domain.Account, error)
	// AccountByID retrieves an account by its identifier
	AccountByID(ctx context.Context, id string) (*domain.Account, error)
	// CreateAccount registers a new directory entry
	CreateAccount(ctx context.Context, account domain.Account) error
}
