package ledger

import (
	"context"
	"time"
)

// WalletAuth carries the node-side wallet credentials used to sign a ledger
// write. The node holds the keys; this service never sees them.
type WalletAuth struct {
	Address  string
	Password string
}

// TxReceipt describes a confirmed ledger transaction
type TxReceipt struct {
	TxHash      string
	BlockNumber uint64
	// Timestamp is the ledger timestamp of the confirming block
	Timestamp time.Time
	// Raw is the receipt as returned by the node, kept for auditing
	Raw []byte
}

// Oracle exposes the read-only ledger queries the authorizer and validator
// depend on. Ownership and approval state are always read from here, never
// from local storage.
//
//go:generate mockgen -source=ledger.go -destination=../mocks/ledger.go -package=mocks -mock_names=Oracle=MockOracle,Executor=MockExecutor
type Oracle interface {
	// BalanceOf returns the number of tokens held by an address
	BalanceOf(ctx context.Context, owner string) (uint64, error)
	// TokenOfOwnerByIndex returns the token id at the given index of an
	// owner's holdings
	TokenOfOwnerByIndex(ctx context.Context, owner string, index uint64) (uint64, error)
	// GetApproved returns the address approved to move a token, or the zero
	// address when no approval exists
	GetApproved(ctx context.Context, tokenID uint64) (string, error)
	// OwnerOf returns the current ledger owner of a token
	OwnerOf(ctx context.Context, tokenID uint64) (string, error)
	// IsConnected probes node connectivity
	IsConnected(ctx context.Context) bool
}

// Executor submits ledger writes and waits for their confirmation.
// A returned receipt means the transaction was mined; an error means the
// write must be treated as not having happened.
type Executor interface {
	// SafeMint mints a new token to the given address
	SafeMint(ctx context.Context, auth WalletAuth, to string) (*TxReceipt, error)
	// SafeTransferFrom moves a token between addresses
	SafeTransferFrom(ctx context.Context, auth WalletAuth, from, to string, tokenID uint64) (*TxReceipt, error)
	// Approve grants an address the right to move one token
	Approve(ctx context.Context, auth WalletAuth, approved string, tokenID uint64) (*TxReceipt, error)
}
