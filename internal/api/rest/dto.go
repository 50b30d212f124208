package rest

import (
	"time"

	"github.com/veritoken/custody-indexer/internal/domain"
	"github.com/veritoken/custody-indexer/internal/provenance"
)

// validateRequest is the body of a single-token validation call
type validateRequest struct {
	ClaimedOwner string `json:"claimed_owner" binding:"required"`
}

// validateBatchRequest is the body of a batch validation call
type validateBatchRequest struct {
	Items []provenance.BatchItem `json:"items" binding:"required,min=1,dive"`
}

// transferRequest is the body of a transfer call. The wallet password is
// forwarded to the node for unlocking and never persisted.
type transferRequest struct {
	TokenID    uint64 `json:"token_id" binding:"required"`
	Sender     string `json:"sender" binding:"required"`
	Receiver   string `json:"receiver" binding:"required"`
	Transactor string `json:"transactor" binding:"required"`
	Password   string `json:"password" binding:"required"`
}

// approvalRequest is the body of an approval call
type approvalRequest struct {
	TokenID  uint64 `json:"token_id" binding:"required"`
	Approver string `json:"approver" binding:"required"`
	Receiver string `json:"receiver" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// mintRequest is the body of a mint call
type mintRequest struct {
	To             string    `json:"to" binding:"required"`
	Password       string    `json:"password" binding:"required"`
	Brand          string    `json:"brand" binding:"required"`
	ProductName    string    `json:"product_name" binding:"required"`
	ProductionDate time.Time `json:"production_date" binding:"required"`
	ExpirationDate time.Time `json:"expiration_date" binding:"required"`
	Details        string    `json:"details"`
}

// tokenInfoRequest is the body of a metadata lookup call
type tokenInfoRequest struct {
	TokenIDs []uint64 `json:"token_ids" binding:"required,min=1"`
}

func toTokenInfo(req mintRequest) domain.TokenInfo {
	return domain.TokenInfo{
		Brand:          req.Brand,
		ProductName:    req.ProductName,
		ProductionDate: req.ProductionDate,
		ExpirationDate: req.ExpirationDate,
		Details:        req.Details,
	}
}

// verdictResponse serializes a validation verdict
type verdictResponse struct {
	Result   string                `json:"result"`
	Reason   domain.InvalidReason  `json:"reason,omitempty"`
	BrokenAt *int                  `json:"broken_at,omitempty"`
	History  []domain.CustodyEvent `json:"history,omitempty"`
}

func toVerdictResponse(v domain.Verdict) verdictResponse {
	if v.Valid {
		return verdictResponse{Result: "valid", History: v.History}
	}
	return verdictResponse{Result: "invalid", Reason: v.Reason, BrokenAt: v.BrokenAt}
}

// batchResultResponse serializes one batch validation result
type batchResultResponse struct {
	TokenID uint64           `json:"token_id"`
	Error   string           `json:"error,omitempty"`
	Verdict *verdictResponse `json:"verdict,omitempty"`
}

// listingResponse serializes a token listing with metadata
type listingResponse struct {
	TokenIDs    []uint64            `json:"token_ids"`
	Tokens      []*domain.TokenInfo `json:"tokens"`
	MissingInfo []uint64            `json:"missing_info"`
}

func toListingResponse(l *provenance.TokenListing) listingResponse {
	return listingResponse{
		TokenIDs:    l.TokenIDs,
		Tokens:      l.Infos,
		MissingInfo: l.MissingInfo,
	}
}
