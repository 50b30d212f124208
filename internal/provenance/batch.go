package provenance

import (
	"context"

	"github.com/alitto/pond/v2"

	"github.com/veritoken/custody-indexer/internal/domain"
)

// BatchItem identifies one token/owner pair to validate
type BatchItem struct {
	TokenID      uint64 `json:"token_id"`
	ClaimedOwner string `json:"claimed_owner"`
}

// BatchResult pairs an item with its verdict. Err is set when validation
// could not run (storage failure, malformed address); the verdict is only
// meaningful when Err is nil.
type BatchResult struct {
	TokenID uint64
	Verdict domain.Verdict
	Err     error
}

// BatchValidator fans token validations out over a bounded worker pool
type BatchValidator struct {
	validator *Validator
	pool      pond.Pool
}

// NewBatchValidator creates a batch validator with the given pool bounds
func NewBatchValidator(validator *Validator, poolSize, queueSize int) *BatchValidator {
	if poolSize <= 0 {
		poolSize = 10
	}
	return &BatchValidator{
		validator: validator,
		pool:      pond.NewPool(poolSize, pond.WithQueueSize(queueSize)),
	}
}

// ValidateAll validates every item concurrently and returns results in
// input order
func (b *BatchValidator) ValidateAll(ctx context.Context, items []BatchItem) []BatchResult {
	results := make([]BatchResult, len(items))

	group := b.pool.NewGroup()
	for i, item := range items {
		group.Submit(func() {
			verdict, err := b.validator.Validate(ctx, item.TokenID, item.ClaimedOwner)
			results[i] = BatchResult{TokenID: item.TokenID, Verdict: verdict, Err: err}
		})
	}
	_ = group.Wait()

	return results
}

// Stop drains the pool and stops its workers
func (b *BatchValidator) Stop() {
	b.pool.StopAndWait()
}
