package provenance

import (
	"context"

	"github.com/veritoken/custody-indexer/internal/domain"
	"github.com/veritoken/custody-indexer/internal/store"
)

// Validator replays a token's custody chain from the event log and checks
// its integrity. It never trusts a stored "current owner"; the chain is the
// proof.
type Validator struct {
	store store.Store
}

// NewValidator creates a new chain validator
func NewValidator(s store.Store) *Validator {
	return &Validator{store: s}
}

// Validate reconstructs the custody chain for a token and checks it against
// the claimed owner. Structural checks (mint shape, chain continuity) run
// before the terminal-owner check so a caller can tell "never legitimately
// minted" apart from "legitimate but not yours".
//
// The returned error is reserved for infrastructure failures (storage,
// malformed input); every chain-integrity outcome is a Verdict.
func (v *Validator) Validate(ctx context.Context, tokenID uint64, claimedOwner string) (domain.Verdict, error) {
	claimed, err := domain.CanonicalAddress(claimedOwner)
	if err != nil {
		return domain.Verdict{}, err
	}

	history, err := v.store.CustodyHistory(ctx, tokenID)
	if err != nil {
		return domain.Verdict{}, err
	}

	if len(history) == 0 {
		return domain.InvalidVerdict(domain.ReasonNoHistory), nil
	}

	// The first recorded event must be the mint
	if !history[0].IsMint() {
		return domain.ChainBrokenVerdict(0), nil
	}

	minter, err := v.store.AccountByAddress(ctx, history[0].To)
	if err != nil {
		return domain.Verdict{}, err
	}
	if minter == nil || minter.Role != domain.RoleManufacturer {
		return domain.InvalidVerdict(domain.ReasonNotMintedByManufacturer), nil
	}

	for i := 0; i < len(history)-1; i++ {
		next := history[i+1]
		if next.From == nil || !domain.SameAddress(history[i].To, *next.From) {
			return domain.ChainBrokenVerdict(i + 1), nil
		}
	}

	last := history[len(history)-1]
	if !domain.SameAddress(last.To, claimed) {
		return domain.InvalidVerdict(domain.ReasonOwnerMismatch), nil
	}

	return domain.ValidVerdict(history), nil
}
