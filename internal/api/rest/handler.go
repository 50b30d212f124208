package rest

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/veritoken/custody-indexer/internal/api/middleware"
	"github.com/veritoken/custody-indexer/internal/provenance"
)

// Handler serves the REST endpoints
type Handler struct {
	service *provenance.Service
	batch   *provenance.BatchValidator
}

// NewHandler creates a new REST handler
func NewHandler(service *provenance.Service, batch *provenance.BatchValidator) *Handler {
	return &Handler{service: service, batch: batch}
}

// HealthCheck reports service and ledger connectivity
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":           "ok",
		"ledger_connected": h.service.Ping(c.Request.Context()),
	})
}

// ValidateToken replays and checks one token's custody chain.
// A chain-integrity failure is a successful validation with an invalid
// result, not an HTTP error.
func (h *Handler) ValidateToken(c *gin.Context) {
	tokenID, ok := parseTokenID(c)
	if !ok {
		return
	}

	var req validateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err.Error())
		return
	}

	verdict, err := h.service.Validate(c.Request.Context(), tokenID, req.ClaimedOwner)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, toVerdictResponse(verdict))
}

// ValidateBatch validates several tokens concurrently, results in input order
func (h *Handler) ValidateBatch(c *gin.Context) {
	var req validateBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err.Error())
		return
	}

	results := h.batch.ValidateAll(c.Request.Context(), req.Items)

	responses := make([]batchResultResponse, 0, len(results))
	for _, result := range results {
		item := batchResultResponse{TokenID: result.TokenID}
		if result.Err != nil {
			item.Error = result.Err.Error()
		} else {
			v := toVerdictResponse(result.Verdict)
			item.Verdict = &v
		}
		responses = append(responses, item)
	}

	c.JSON(http.StatusOK, gin.H{"results": responses})
}

// Transfer authorizes and executes a custody transfer
func (h *Handler) Transfer(c *gin.Context) {
	actorID, ok := requireSubject(c)
	if !ok {
		return
	}

	var req transferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err.Error())
		return
	}

	result, err := h.service.Transfer(c.Request.Context(), provenance.TransferRequest{
		TokenID:    req.TokenID,
		Sender:     req.Sender,
		Receiver:   req.Receiver,
		Transactor: req.Transactor,
		ActorID:    actorID,
	}, req.Password)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if !result.Decision.Allowed {
		respondDenied(c, result.Decision.Reason)
		return
	}

	c.JSON(http.StatusOK, gin.H{"event": result.Event})
}

// Approve authorizes and executes a ledger-side approval grant
func (h *Handler) Approve(c *gin.Context) {
	actorID, ok := requireSubject(c)
	if !ok {
		return
	}

	var req approvalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err.Error())
		return
	}

	result, err := h.service.Approve(c.Request.Context(), provenance.ApprovalRequest{
		TokenID:  req.TokenID,
		Approver: req.Approver,
		Receiver: req.Receiver,
		ActorID:  actorID,
	}, req.Password)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if !result.Decision.Allowed {
		respondDenied(c, result.Decision.Reason)
		return
	}

	c.JSON(http.StatusOK, gin.H{"tx_hash": result.TxHash})
}

// Mint mints a new token and records its metadata
func (h *Handler) Mint(c *gin.Context) {
	actorID, ok := requireSubject(c)
	if !ok {
		return
	}

	var req mintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err.Error())
		return
	}

	result, err := h.service.Mint(c.Request.Context(), provenance.MintRequest{
		ActorID:  actorID,
		To:       req.To,
		Password: req.Password,
		Info:     toTokenInfo(req),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if !result.Decision.Allowed {
		respondDenied(c, result.Decision.Reason)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"token_id": result.TokenID,
		"event":    result.Event,
	})
}

// Balance returns the ledger token count for an address
func (h *Handler) Balance(c *gin.Context) {
	balance, err := h.service.Balance(c.Request.Context(), c.Param("address"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"balance": balance})
}

// Tokens lists the tokens held by an address with stored metadata
func (h *Handler) Tokens(c *gin.Context) {
	listing, err := h.service.TokensOf(c.Request.Context(), c.Param("address"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, toListingResponse(listing))
}

// TokenInfo returns stored metadata for the requested token ids
func (h *Handler) TokenInfo(c *gin.Context) {
	var req tokenInfoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err.Error())
		return
	}

	listing, err := h.service.TokenInfo(c.Request.Context(), req.TokenIDs)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, toListingResponse(listing))
}

func parseTokenID(c *gin.Context) (uint64, bool) {
	tokenID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondBadRequest(c, "Invalid token id", c.Param("id"))
		return 0, false
	}
	return tokenID, true
}

// requireSubject rejects requests whose credentials carry no account
// identity; API keys alone cannot act on custody
func requireSubject(c *gin.Context) (string, bool) {
	actorID := middleware.AuthSubject(c)
	if actorID == "" {
		respondWithError(c, http.StatusForbidden, errCodeForbidden, "Account identity required")
		return "", false
	}
	return actorID, true
}
