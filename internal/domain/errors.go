package domain

import "errors"

var (
	// ErrStorage is returned when the event log or directory store is unreachable
	ErrStorage = errors.New("storage unavailable")

	// ErrOracleUnavailable is returned when the ledger node cannot be reached
	ErrOracleUnavailable = errors.New("ledger oracle unavailable")

	// ErrOracleTimeout is returned when a ledger query exceeds its deadline
	ErrOracleTimeout = errors.New("ledger oracle timeout")

	// ErrInvalidAddress is returned for an address that is not a valid hex address
	ErrInvalidAddress = errors.New("invalid address")

	// ErrAccountNotFound is returned when no account matches the lookup
	ErrAccountNotFound = errors.New("account not found")

	// ErrTokenNotFound is returned when a token has no stored metadata
	ErrTokenNotFound = errors.New("token not found")

	// ErrInvalidTokenInfo is returned when mint metadata has blank fields
	ErrInvalidTokenInfo = errors.New("token info is invalid")

	// ErrWalletUnlock is returned when the node rejects the wallet password
	ErrWalletUnlock = errors.New("wallet unlock rejected")

	// ErrLedgerRejected is returned when the ledger refuses a submitted transaction
	ErrLedgerRejected = errors.New("ledger rejected transaction")
)
