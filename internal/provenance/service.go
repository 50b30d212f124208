package provenance

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/veritoken/custody-indexer/internal/adapter"
	"github.com/veritoken/custody-indexer/internal/domain"
	"github.com/veritoken/custody-indexer/internal/ledger"
	"github.com/veritoken/custody-indexer/internal/logger"
	"github.com/veritoken/custody-indexer/internal/messaging"
	"github.com/veritoken/custody-indexer/internal/store"
)

// MintRequest describes a mint of a new token to a manufacturer wallet
type MintRequest struct {
	ActorID  string
	To       string
	Password string
	Info     domain.TokenInfo
}

// MintResult carries the outcome of a mint
type MintResult struct {
	Decision domain.Decision
	TokenID  uint64
	Event    *domain.CustodyEvent
}

// TransferResult carries the outcome of a transfer
type TransferResult struct {
	Decision domain.Decision
	Event    *domain.CustodyEvent
}

// ApprovalResult carries the outcome of an approval grant
type ApprovalResult struct {
	Decision domain.Decision
	TxHash   string
}

// TokenListing describes the tokens held by an address alongside any stored
// metadata. MissingInfo lists ids the ledger reports but the metadata store
// does not know.
type TokenListing struct {
	TokenIDs    []uint64
	Infos       []*domain.TokenInfo
	MissingInfo []uint64
}

// Service orchestrates the custody operations: it authorizes, executes on
// the ledger, and appends to the event log only after ledger confirmation.
type Service struct {
	store      store.Store
	oracle     ledger.Oracle
	executor   ledger.Executor
	publisher  messaging.Publisher
	clock      adapter.Clock
	validator  *Validator
	authorizer *Authorizer
}

// NewService creates a new provenance service
func NewService(
	s store.Store,
	oracle ledger.Oracle,
	executor ledger.Executor,
	publisher messaging.Publisher,
	clock adapter.Clock,
) *Service {
	return &Service{
		store:      s,
		oracle:     oracle,
		executor:   executor,
		publisher:  publisher,
		clock:      clock,
		validator:  NewValidator(s),
		authorizer: NewAuthorizer(s, oracle),
	}
}

// Validate replays and checks the custody chain of a token
func (s *Service) Validate(ctx context.Context, tokenID uint64, claimedOwner string) (domain.Verdict, error) {
	return s.validator.Validate(ctx, tokenID, claimedOwner)
}

// Authorize checks the transfer preconditions without executing anything
func (s *Service) Authorize(ctx context.Context, req TransferRequest) (domain.Decision, error) {
	return s.authorizer.Authorize(ctx, req)
}

// Mint validates the metadata, checks that the destination is the acting
// manufacturer's wallet, executes the mint, and records metadata plus the
// mint event once the ledger confirms.
func (s *Service) Mint(ctx context.Context, req MintRequest) (*MintResult, error) {
	start := s.clock.Now()

	if err := validateTokenInfo(req.Info); err != nil {
		return nil, err
	}

	to, err := domain.CanonicalAddress(req.To)
	if err != nil {
		return nil, err
	}

	account, err := s.store.AccountByAddress(ctx, to)
	if err != nil {
		return nil, err
	}
	if account == nil || account.ID != req.ActorID {
		return &MintResult{Decision: domain.Deny(domain.DenialNotWalletOwner)}, nil
	}
	if account.Role != domain.RoleManufacturer {
		return &MintResult{Decision: domain.Deny(domain.DenialNotAuthorizedRole)}, nil
	}

	receipt, err := s.executor.SafeMint(ctx, ledger.WalletAuth{Address: to, Password: req.Password}, to)
	if err != nil {
		return nil, err
	}

	// The mint is confirmed. From here on the caller hanging up must not
	// leave the confirmed event unrecorded.
	recordCtx := context.WithoutCancel(ctx)

	tokenID, err := s.resolveMintedTokenID(recordCtx, to)
	if err != nil {
		return nil, err
	}

	info := req.Info
	info.TokenID = tokenID
	event := domain.CustodyEvent{
		TokenID:   tokenID,
		From:      nil,
		To:        to,
		TxHash:    receipt.TxHash,
		Timestamp: receipt.Timestamp,
	}

	err = s.store.CreateTokenMint(recordCtx, store.CreateTokenMintInput{
		Info:     info,
		MintedBy: account.DisplayName,
		Event:    event,
		Raw:      receipt.Raw,
	})
	if err != nil {
		return nil, err
	}

	s.publish(recordCtx, &event)

	logger.InfoCtx(recordCtx, "token minted",
		zap.Uint64("tokenID", tokenID),
		zap.String("txHash", receipt.TxHash),
		zap.Duration("elapsed", s.clock.Since(start)))

	return &MintResult{
		Decision: domain.Allow(),
		TokenID:  tokenID,
		Event:    &event,
	}, nil
}

// resolveMintedTokenID resolves the id the contract assigned to the most
// recent mint: the last entry of the owner's enumerable holdings
func (s *Service) resolveMintedTokenID(ctx context.Context, owner string) (uint64, error) {
	balance, err := s.oracle.BalanceOf(ctx, owner)
	if err != nil {
		return 0, err
	}
	if balance == 0 {
		return 0, fmt.Errorf("%w: minted token not reflected in balance of %s", domain.ErrOracleUnavailable, owner)
	}
	return s.oracle.TokenOfOwnerByIndex(ctx, owner, balance-1)
}

// Transfer authorizes a transfer, executes it on the ledger, and appends the
// custody event only after the ledger confirms. A ledger failure after
// authorization appends nothing; the log and the ledger must not diverge.
func (s *Service) Transfer(ctx context.Context, req TransferRequest, password string) (*TransferResult, error) {
	start := s.clock.Now()

	decision, err := s.authorizer.Authorize(ctx, req)
	if err != nil {
		return nil, err
	}
	if !decision.Allowed {
		return &TransferResult{Decision: decision}, nil
	}

	sender, err := domain.CanonicalAddress(req.Sender)
	if err != nil {
		return nil, err
	}
	receiver, err := domain.CanonicalAddress(req.Receiver)
	if err != nil {
		return nil, err
	}

	auth := ledger.WalletAuth{Address: req.Transactor, Password: password}
	receipt, err := s.executor.SafeTransferFrom(ctx, auth, sender, receiver, req.TokenID)
	if err != nil {
		return nil, err
	}

	// Confirmed on the ledger; record regardless of caller cancellation.
	recordCtx := context.WithoutCancel(ctx)

	event := domain.CustodyEvent{
		TokenID:   req.TokenID,
		From:      &sender,
		To:        receiver,
		TxHash:    receipt.TxHash,
		Timestamp: receipt.Timestamp,
	}
	if err := s.store.AppendCustodyEvent(recordCtx, event, receipt.Raw); err != nil {
		return nil, err
	}

	s.publish(recordCtx, &event)

	logger.InfoCtx(recordCtx, "custody transferred",
		zap.Uint64("tokenID", req.TokenID),
		zap.String("txHash", receipt.TxHash),
		zap.Duration("elapsed", s.clock.Since(start)))

	return &TransferResult{Decision: decision, Event: &event}, nil
}

// Approve authorizes and executes a ledger-side approval grant. Approvals
// live on the ledger only and are never mirrored into storage.
func (s *Service) Approve(ctx context.Context, req ApprovalRequest, password string) (*ApprovalResult, error) {
	decision, err := s.authorizer.AuthorizeApproval(ctx, req)
	if err != nil {
		return nil, err
	}
	if !decision.Allowed {
		return &ApprovalResult{Decision: decision}, nil
	}

	auth := ledger.WalletAuth{Address: req.Approver, Password: password}
	receipt, err := s.executor.Approve(ctx, auth, req.Receiver, req.TokenID)
	if err != nil {
		return nil, err
	}

	return &ApprovalResult{Decision: decision, TxHash: receipt.TxHash}, nil
}

// Balance returns the number of tokens an address holds on the ledger
func (s *Service) Balance(ctx context.Context, address string) (uint64, error) {
	return s.oracle.BalanceOf(ctx, address)
}

// TokensOf lists the tokens held by an address with their stored metadata
func (s *Service) TokensOf(ctx context.Context, address string) (*TokenListing, error) {
	balance, err := s.oracle.BalanceOf(ctx, address)
	if err != nil {
		return nil, err
	}

	tokenIDs := make([]uint64, 0, balance)
	for i := uint64(0); i < balance; i++ {
		id, err := s.oracle.TokenOfOwnerByIndex(ctx, address, i)
		if err != nil {
			return nil, err
		}
		tokenIDs = append(tokenIDs, id)
	}

	return s.listingFor(ctx, tokenIDs)
}

// TokenInfo returns stored metadata for the given token ids, reporting the
// ids that have none
func (s *Service) TokenInfo(ctx context.Context, tokenIDs []uint64) (*TokenListing, error) {
	return s.listingFor(ctx, tokenIDs)
}

func (s *Service) listingFor(ctx context.Context, tokenIDs []uint64) (*TokenListing, error) {
	infos, err := s.store.TokenInfoByIDs(ctx, tokenIDs)
	if err != nil {
		return nil, err
	}

	known := make(map[uint64]bool, len(infos))
	for _, info := range infos {
		known[info.TokenID] = true
	}
	missing := make([]uint64, 0)
	for _, id := range tokenIDs {
		if !known[id] {
			missing = append(missing, id)
		}
	}

	return &TokenListing{TokenIDs: tokenIDs, Infos: infos, MissingInfo: missing}, nil
}

// Ping probes ledger connectivity
func (s *Service) Ping(ctx context.Context) bool {
	return s.oracle.IsConnected(ctx)
}

// publish fans the confirmed event out to the broker. The event is already
// durable in the log, so a broker failure is logged rather than surfaced.
func (s *Service) publish(ctx context.Context, event *domain.CustodyEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishEvent(ctx, event); err != nil {
		logger.ErrorCtx(ctx, err,
			zap.Uint64("tokenID", event.TokenID),
			zap.String("txHash", event.TxHash))
	}
}

func validateTokenInfo(info domain.TokenInfo) error {
	if info.Brand == "" || info.ProductName == "" {
		return fmt.Errorf("%w: brand and product name are required", domain.ErrInvalidTokenInfo)
	}
	if info.ProductionDate.IsZero() || info.ExpirationDate.IsZero() {
		return fmt.Errorf("%w: production and expiration dates are required", domain.ErrInvalidTokenInfo)
	}
	return nil
}
