package provenance

import (
	"context"

	"github.com/veritoken/custody-indexer/internal/domain"
	"github.com/veritoken/custody-indexer/internal/ledger"
	"github.com/veritoken/custody-indexer/internal/store"
)

// TransferRequest describes a requested custody transfer. ActorID is the
// authenticated account submitting the request; Transactor is the wallet it
// claims to act through.
type TransferRequest struct {
	TokenID    uint64
	Sender     string
	Receiver   string
	Transactor string
	ActorID    string
}

// ApprovalRequest describes a requested ledger-side approval grant
type ApprovalRequest struct {
	TokenID  uint64
	Approver string
	Receiver string
	ActorID  string
}

// Authorizer decides whether a transfer or approval is permitted.
// Approval state is ledger-resident and transient, so it is re-read from the
// oracle on every decision rather than cached.
type Authorizer struct {
	store  store.Store
	oracle ledger.Oracle
}

// NewAuthorizer creates a new transfer authorizer
func NewAuthorizer(s store.Store, oracle ledger.Oracle) *Authorizer {
	return &Authorizer{store: s, oracle: oracle}
}

// Authorize decides whether a transfer may proceed. A transfer is direct
// when the transactor is the sender, and delegated when a reseller moves a
// token it does not own under a ledger approval.
func (a *Authorizer) Authorize(ctx context.Context, req TransferRequest) (domain.Decision, error) {
	if domain.SameAddress(req.Transactor, req.Sender) {
		return a.authorizeDirect(ctx, req)
	}
	return a.authorizeDelegated(ctx, req)
}

func (a *Authorizer) authorizeDirect(ctx context.Context, req TransferRequest) (domain.Decision, error) {
	account, err := a.store.AccountByAddress(ctx, req.Sender)
	if err != nil {
		return domain.Decision{}, err
	}
	if account == nil || account.ID != req.ActorID {
		return domain.Deny(domain.DenialNotWalletOwner), nil
	}

	return domain.Allow(), nil
}

func (a *Authorizer) authorizeDelegated(ctx context.Context, req TransferRequest) (domain.Decision, error) {
	account, err := a.store.AccountByAddress(ctx, req.Transactor)
	if err != nil {
		return domain.Decision{}, err
	}
	if account == nil || account.ID != req.ActorID {
		return domain.Deny(domain.DenialNotWalletOwner), nil
	}
	if account.Role != domain.RoleReseller {
		return domain.Deny(domain.DenialNotAuthorizedRole), nil
	}

	approved, err := a.oracle.GetApproved(ctx, req.TokenID)
	if err != nil {
		return domain.Decision{}, err
	}
	if approved == domain.EthereumZeroAddress || !domain.SameAddress(approved, req.Transactor) {
		return domain.Deny(domain.DenialApprovalMissing), nil
	}

	return domain.Allow(), nil
}

// AuthorizeApproval decides whether an approval grant may proceed: only a
// manufacturer may grant, and only to a reseller.
func (a *Authorizer) AuthorizeApproval(ctx context.Context, req ApprovalRequest) (domain.Decision, error) {
	approver, err := a.store.AccountByAddress(ctx, req.Approver)
	if err != nil {
		return domain.Decision{}, err
	}
	if approver == nil || approver.ID != req.ActorID || approver.Role != domain.RoleManufacturer {
		return domain.Deny(domain.DenialNotAuthorizedRole), nil
	}

	receiver, err := a.store.AccountByAddress(ctx, req.Receiver)
	if err != nil {
		return domain.Decision{}, err
	}
	if receiver == nil || receiver.Role != domain.RoleReseller {
		return domain.Deny(domain.DenialReceiverNotReseller), nil
	}

	return domain.Allow(), nil
}
