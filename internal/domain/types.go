package domain

import (
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Role represents the fixed account type assigned at account creation
type Role string

const (
	RoleManufacturer Role = "manufacturer"
	RoleReseller     Role = "reseller"
	RoleCustomer     Role = "customer"
)

// IsValidRole checks if a role is one of the closed set
func IsValidRole(role Role) bool {
	return role == RoleManufacturer || role == RoleReseller || role == RoleCustomer
}

// Account represents an identity record in the directory.
// The wallet address is unique per account and the role never changes.
type Account struct {
	ID          string
	Address     string
	Role        Role
	DisplayName string
}

// CustodyEvent represents one completed mint or transfer of a token.
// From is nil for a mint. Events for a token, ordered by (Timestamp, append
// order), form the custody chain: each event's To is the next event's From.
type CustodyEvent struct {
	TokenID   uint64    `json:"token_id"`
	From      *string   `json:"from"`
	To        string    `json:"to"`
	TxHash    string    `json:"tx_hash"`
	Timestamp time.Time `json:"timestamp"`
}

// IsMint reports whether the event is a chain-origin mint
func (e *CustodyEvent) IsMint() bool {
	return e.From == nil || *e.From == "" || *e.From == EthereumZeroAddress
}

// EventType labels a custody event for publication
type EventType string

const (
	EventTypeMint     EventType = "mint"
	EventTypeTransfer EventType = "transfer"
)

// Type derives the event type from the chain shape
func (e *CustodyEvent) Type() EventType {
	if e.IsMint() {
		return EventTypeMint
	}
	return EventTypeTransfer
}

// TokenInfo holds the manufacturer-assigned metadata recorded at mint time
type TokenInfo struct {
	TokenID        uint64    `json:"token_id"`
	Brand          string    `json:"brand"`
	ProductName    string    `json:"product_name"`
	ProductionDate time.Time `json:"production_date"`
	ExpirationDate time.Time `json:"expiration_date"`
	Details        string    `json:"details"`
}

// InvalidReason identifies why a custody chain failed validation
type InvalidReason string

const (
	// ReasonNoHistory means the token has no recorded custody events
	ReasonNoHistory InvalidReason = "no_history"
	// ReasonNotMintedByManufacturer means the chain origin does not resolve
	// to a manufacturer account
	ReasonNotMintedByManufacturer InvalidReason = "not_minted_by_manufacturer"
	// ReasonChainBroken means an adjacent event pair does not link up
	ReasonChainBroken InvalidReason = "chain_broken"
	// ReasonOwnerMismatch means the chain is intact but ends at a different
	// address than the claimed owner
	ReasonOwnerMismatch InvalidReason = "owner_mismatch"
)

// Verdict is the tagged result of a provenance validation.
// A valid verdict carries the full replayed history; an invalid one carries
// the reason and, for a broken chain, the index of the first bad link.
type Verdict struct {
	Valid    bool
	Reason   InvalidReason
	BrokenAt *int
	History  []CustodyEvent
}

// ValidVerdict builds a verdict for an intact chain
func ValidVerdict(history []CustodyEvent) Verdict {
	return Verdict{Valid: true, History: history}
}

// InvalidVerdict builds a verdict for a failed validation
func InvalidVerdict(reason InvalidReason) Verdict {
	return Verdict{Valid: false, Reason: reason}
}

// ChainBrokenVerdict builds a verdict pointing at the first broken link
func ChainBrokenVerdict(index int) Verdict {
	return Verdict{Valid: false, Reason: ReasonChainBroken, BrokenAt: &index}
}

// String renders the verdict for logs
func (v Verdict) String() string {
	if v.Valid {
		return fmt.Sprintf("valid (%d events)", len(v.History))
	}
	if v.BrokenAt != nil {
		return fmt.Sprintf("invalid: %s at %d", v.Reason, *v.BrokenAt)
	}
	return fmt.Sprintf("invalid: %s", v.Reason)
}

// DenialReason identifies which authorization rule blocked a request
type DenialReason string

const (
	// DenialNotWalletOwner means the transactor does not own the wallet it
	// claims to act for
	DenialNotWalletOwner DenialReason = "not_wallet_owner"
	// DenialNotAuthorizedRole means the acting account's role does not permit
	// the operation
	DenialNotAuthorizedRole DenialReason = "not_authorized_role"
	// DenialApprovalMissing means the ledger holds no approval for the
	// transactor on this token
	DenialApprovalMissing DenialReason = "approval_missing"
	// DenialReceiverNotReseller means an approval was aimed at a non-reseller
	DenialReceiverNotReseller DenialReason = "receiver_not_reseller"
)

// Decision is the tagged result of a transfer or approval authorization
type Decision struct {
	Allowed bool
	Reason  DenialReason
}

// Allow builds an allowing decision
func Allow() Decision {
	return Decision{Allowed: true}
}

// Deny builds a denying decision carrying the unmet precondition
func Deny(reason DenialReason) Decision {
	return Decision{Allowed: false, Reason: reason}
}

// EthereumZeroAddress is the mint/burn sentinel address on EVM chains
const EthereumZeroAddress = "0x0000000000000000000000000000000000000000"

// CanonicalAddress converts an address to its EIP-55 checksummed form.
// Comparing canonical addresses is therefore case-insensitive with respect
// to the inputs.
func CanonicalAddress(address string) (string, error) {
	if !common.IsHexAddress(address) {
		return "", fmt.Errorf("%w: %q", ErrInvalidAddress, address)
	}
	return common.HexToAddress(address).Hex(), nil
}

// SameAddress compares two addresses after canonicalization
func SameAddress(a, b string) bool {
	ca, err := CanonicalAddress(a)
	if err != nil {
		return false
	}
	cb, err := CanonicalAddress(b)
	if err != nil {
		return false
	}
	return ca == cb
}
