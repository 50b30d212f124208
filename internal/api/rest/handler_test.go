package rest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veritoken/custody-indexer/internal/api/middleware"
	"github.com/veritoken/custody-indexer/internal/domain"
	"github.com/veritoken/custody-indexer/internal/ledger"
	"github.com/veritoken/custody-indexer/internal/logger"
	"github.com/veritoken/custody-indexer/internal/mocks"
	"github.com/veritoken/custody-indexer/internal/provenance"
)

const (
	mfgAddr      = "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"
	sellerAddr   = "0xfB6916095ca1df60bB79Ce92cE3Ea74c37c5d359"
	buyerAddr    = "0xdbF03B407c01E7cD3CBea99509d93f8DDDC8C6FB"
	actorSubject = "acct-mfg"
)

var mfgAccount = &domain.Account{
	ID:          actorSubject,
	Address:     mfgAddr,
	Role:        domain.RoleManufacturer,
	DisplayName: "Acme Works",
}

func TestMain(m *testing.M) {
	if err := logger.Initialize(logger.Config{Debug: true}); err != nil {
		panic(err)
	}
	gin.SetMode(gin.TestMode)
	m.Run()
}

type handlerFixture struct {
	store     *mocks.MockStore
	oracle    *mocks.MockOracle
	executor  *mocks.MockExecutor
	publisher *mocks.MockPublisher
	batch     *provenance.BatchValidator
	handler   *Handler
}

func newHandlerFixture(ctrl *gomock.Controller) *handlerFixture {
	f := &handlerFixture{
		store:     mocks.NewMockStore(ctrl),
		oracle:    mocks.NewMockOracle(ctrl),
		executor:  mocks.NewMockExecutor(ctrl),
		publisher: mocks.NewMockPublisher(ctrl),
	}
	clock := mocks.NewMockClock(ctrl)
	clock.EXPECT().Now().Return(time.Now()).AnyTimes()
	clock.EXPECT().Since(gomock.Any()).Return(time.Millisecond).AnyTimes()
	service := provenance.NewService(f.store, f.oracle, f.executor, f.publisher, clock)
	f.batch = provenance.NewBatchValidator(provenance.NewValidator(f.store), 2, 8)
	f.handler = NewHandler(service, f.batch)
	return f
}

// newTestRouter mirrors the production routes with the auth middleware
// replaced by one injecting the given subject. An empty subject simulates
// apikey-only credentials.
func newTestRouter(h *Handler, subject string) *gin.Engine {
	router := gin.New()

	withSubject := func(c *gin.Context) {
		if subject != "" {
			c.Set(middleware.AuthSubjectKey, subject)
		}
		c.Next()
	}

	router.GET("/health", h.HealthCheck)
	v1 := router.Group("/api/v1")
	v1.POST("/tokens/:id/validate", h.ValidateToken)
	v1.POST("/validations", h.ValidateBatch)
	v1.POST("/tokens", withSubject, h.Mint)
	v1.POST("/transfers", withSubject, h.Transfer)
	v1.POST("/approvals", withSubject, h.Approve)
	v1.GET("/accounts/:address/balance", withSubject, h.Balance)
	v1.GET("/accounts/:address/tokens", withSubject, h.Tokens)
	v1.POST("/token-info", withSubject, h.TokenInfo)
	return router
}

func doJSON(router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			panic(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func mintChain(tokenID uint64) []domain.CustodyEvent {
	from := mfgAddr
	return []domain.CustodyEvent{
		{TokenID: tokenID, From: nil, To: mfgAddr, TxHash: "0x01", Timestamp: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)},
		{TokenID: tokenID, From: &from, To: buyerAddr, TxHash: "0x02", Timestamp: time.Date(2024, 3, 2, 9, 0, 0, 0, time.UTC)},
	}
}

func TestHealthCheck(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	f := newHandlerFixture(ctrl)
	defer f.batch.Stop()

	f.oracle.EXPECT().IsConnected(gomock.Any()).Return(true)

	w := doJSON(newTestRouter(f.handler, ""), http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","ledger_connected":true}`, w.Body.String())
}

func TestValidateTokenValidChain(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	f := newHandlerFixture(ctrl)
	defer f.batch.Stop()

	f.store.EXPECT().CustodyHistory(gomock.Any(), uint64(42)).Return(mintChain(42), nil)
	f.store.EXPECT().AccountByAddress(gomock.Any(), mfgAddr).Return(mfgAccount, nil)

	w := doJSON(newTestRouter(f.handler, ""), http.MethodPost, "/api/v1/tokens/42/validate",
		gin.H{"claimed_owner": buyerAddr})
	require.Equal(t, http.StatusOK, w.Code)

	var resp verdictResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "valid", resp.Result)
	assert.Len(t, resp.History, 2)
}

func TestValidateTokenInvalidChainIsStillOK(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	f := newHandlerFixture(ctrl)
	defer f.batch.Stop()

	f.store.EXPECT().CustodyHistory(gomock.Any(), uint64(42)).Return(nil, nil)

	w := doJSON(newTestRouter(f.handler, ""), http.MethodPost, "/api/v1/tokens/42/validate",
		gin.H{"claimed_owner": buyerAddr})
	require.Equal(t, http.StatusOK, w.Code)

	var resp verdictResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "invalid", resp.Result)
	assert.Equal(t, domain.ReasonNoHistory, resp.Reason)
}

func TestValidateTokenBadID(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	f := newHandlerFixture(ctrl)
	defer f.batch.Stop()

	w := doJSON(newTestRouter(f.handler, ""), http.MethodPost, "/api/v1/tokens/abc/validate",
		gin.H{"claimed_owner": buyerAddr})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "bad_request")
}

func TestValidateTokenBadAddress(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	f := newHandlerFixture(ctrl)
	defer f.batch.Stop()

	w := doJSON(newTestRouter(f.handler, ""), http.MethodPost, "/api/v1/tokens/42/validate",
		gin.H{"claimed_owner": "not-an-address"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestValidateTokenMissingBody(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	f := newHandlerFixture(ctrl)
	defer f.batch.Stop()

	w := doJSON(newTestRouter(f.handler, ""), http.MethodPost, "/api/v1/tokens/42/validate", gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "validation_failed")
}

func TestValidateBatch(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	f := newHandlerFixture(ctrl)
	defer f.batch.Stop()

	f.store.EXPECT().CustodyHistory(gomock.Any(), uint64(1)).Return(mintChain(1), nil)
	f.store.EXPECT().AccountByAddress(gomock.Any(), mfgAddr).Return(mfgAccount, nil)
	f.store.EXPECT().CustodyHistory(gomock.Any(), uint64(2)).Return(nil, nil)

	w := doJSON(newTestRouter(f.handler, ""), http.MethodPost, "/api/v1/validations", gin.H{
		"items": []gin.H{
			{"token_id": 1, "claimed_owner": buyerAddr},
			{"token_id": 2, "claimed_owner": buyerAddr},
		},
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Results []batchResultResponse `json:"results"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Results, 2)
	assert.Equal(t, uint64(1), resp.Results[0].TokenID)
	require.NotNil(t, resp.Results[0].Verdict)
	assert.Equal(t, "valid", resp.Results[0].Verdict.Result)
	assert.Equal(t, uint64(2), resp.Results[1].TokenID)
	require.NotNil(t, resp.Results[1].Verdict)
	assert.Equal(t, "invalid", resp.Results[1].Verdict.Result)
}

func TestTransferAllowed(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	f := newHandlerFixture(ctrl)
	defer f.batch.Stop()

	receipt := &ledger.TxReceipt{TxHash: "0xt1", Timestamp: time.Now(), Raw: []byte(`{}`)}
	f.store.EXPECT().AccountByAddress(gomock.Any(), mfgAddr).Return(mfgAccount, nil)
	f.executor.EXPECT().
		SafeTransferFrom(gomock.Any(), gomock.Any(), mfgAddr, sellerAddr, uint64(42)).
		Return(receipt, nil)
	f.store.EXPECT().AppendCustodyEvent(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	f.publisher.EXPECT().PublishEvent(gomock.Any(), gomock.Any()).Return(nil)

	w := doJSON(newTestRouter(f.handler, actorSubject), http.MethodPost, "/api/v1/transfers", gin.H{
		"token_id":   42,
		"sender":     mfgAddr,
		"receiver":   sellerAddr,
		"transactor": mfgAddr,
		"password":   "secret",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "0xt1")
}

func TestTransferDenied(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	f := newHandlerFixture(ctrl)
	defer f.batch.Stop()

	f.store.EXPECT().AccountByAddress(gomock.Any(), mfgAddr).Return(mfgAccount, nil)

	w := doJSON(newTestRouter(f.handler, "acct-somebody-else"), http.MethodPost, "/api/v1/transfers", gin.H{
		"token_id":   42,
		"sender":     mfgAddr,
		"receiver":   sellerAddr,
		"transactor": mfgAddr,
		"password":   "secret",
	})
	require.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), string(domain.DenialNotWalletOwner))
}

func TestTransferRequiresAccountIdentity(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	f := newHandlerFixture(ctrl)
	defer f.batch.Stop()

	// No JWT subject, as with apikey-only credentials.
	w := doJSON(newTestRouter(f.handler, ""), http.MethodPost, "/api/v1/transfers", gin.H{
		"token_id":   42,
		"sender":     mfgAddr,
		"receiver":   sellerAddr,
		"transactor": mfgAddr,
		"password":   "secret",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "Account identity required")
}

func TestTransferLedgerRejected(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	f := newHandlerFixture(ctrl)
	defer f.batch.Stop()

	f.store.EXPECT().AccountByAddress(gomock.Any(), mfgAddr).Return(mfgAccount, nil)
	f.executor.EXPECT().
		SafeTransferFrom(gomock.Any(), gomock.Any(), mfgAddr, sellerAddr, uint64(42)).
		Return(nil, fmt.Errorf("%w: reverted", domain.ErrLedgerRejected))

	w := doJSON(newTestRouter(f.handler, actorSubject), http.MethodPost, "/api/v1/transfers", gin.H{
		"token_id":   42,
		"sender":     mfgAddr,
		"receiver":   sellerAddr,
		"transactor": mfgAddr,
		"password":   "secret",
	})
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), "ledger_error")
}

func TestApproveAllowed(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	f := newHandlerFixture(ctrl)
	defer f.batch.Stop()

	seller := &domain.Account{ID: "acct-seller", Address: sellerAddr, Role: domain.RoleReseller}
	f.store.EXPECT().AccountByAddress(gomock.Any(), mfgAddr).Return(mfgAccount, nil)
	f.store.EXPECT().AccountByAddress(gomock.Any(), sellerAddr).Return(seller, nil)
	f.executor.EXPECT().
		Approve(gomock.Any(), gomock.Any(), sellerAddr, uint64(42)).
		Return(&ledger.TxReceipt{TxHash: "0xa1", Timestamp: time.Now()}, nil)

	w := doJSON(newTestRouter(f.handler, actorSubject), http.MethodPost, "/api/v1/approvals", gin.H{
		"token_id": 42,
		"approver": mfgAddr,
		"receiver": sellerAddr,
		"password": "secret",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"tx_hash":"0xa1"}`, w.Body.String())
}

func TestMint(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	f := newHandlerFixture(ctrl)
	defer f.batch.Stop()

	receipt := &ledger.TxReceipt{TxHash: "0xm1", Timestamp: time.Now(), Raw: []byte(`{}`)}
	f.store.EXPECT().AccountByAddress(gomock.Any(), mfgAddr).Return(mfgAccount, nil)
	f.executor.EXPECT().SafeMint(gomock.Any(), gomock.Any(), mfgAddr).Return(receipt, nil)
	f.oracle.EXPECT().BalanceOf(gomock.Any(), mfgAddr).Return(uint64(1), nil)
	f.oracle.EXPECT().TokenOfOwnerByIndex(gomock.Any(), mfgAddr, uint64(0)).Return(uint64(42), nil)
	f.store.EXPECT().CreateTokenMint(gomock.Any(), gomock.Any()).Return(nil)
	f.publisher.EXPECT().PublishEvent(gomock.Any(), gomock.Any()).Return(nil)

	w := doJSON(newTestRouter(f.handler, actorSubject), http.MethodPost, "/api/v1/tokens", gin.H{
		"to":              mfgAddr,
		"password":        "secret",
		"brand":           "Acme",
		"product_name":    "Vintage 2019",
		"production_date": "2019-09-01T00:00:00Z",
		"expiration_date": "2039-09-01T00:00:00Z",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"token_id":42`)
}

func TestBalance(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	f := newHandlerFixture(ctrl)
	defer f.batch.Stop()

	f.oracle.EXPECT().BalanceOf(gomock.Any(), mfgAddr).Return(uint64(3), nil)

	w := doJSON(newTestRouter(f.handler, actorSubject), http.MethodGet,
		"/api/v1/accounts/"+mfgAddr+"/balance", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"balance":3}`, w.Body.String())
}

func TestBalanceLedgerDown(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	f := newHandlerFixture(ctrl)
	defer f.batch.Stop()

	f.oracle.EXPECT().BalanceOf(gomock.Any(), mfgAddr).
		Return(uint64(0), fmt.Errorf("%w: connection refused", domain.ErrOracleUnavailable))

	w := doJSON(newTestRouter(f.handler, actorSubject), http.MethodGet,
		"/api/v1/accounts/"+mfgAddr+"/balance", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "ledger_unavailable")
}

func TestTokenInfo(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	f := newHandlerFixture(ctrl)
	defer f.batch.Stop()

	f.store.EXPECT().TokenInfoByIDs(gomock.Any(), []uint64{7, 9}).
		Return([]*domain.TokenInfo{{TokenID: 7, Brand: "Acme"}}, nil)

	w := doJSON(newTestRouter(f.handler, actorSubject), http.MethodPost, "/api/v1/token-info",
		gin.H{"token_ids": []uint64{7, 9}})
	require.Equal(t, http.StatusOK, w.Code)

	var resp listingResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []uint64{7, 9}, resp.TokenIDs)
	require.Len(t, resp.Tokens, 1)
	assert.Equal(t, []uint64{9}, resp.MissingInfo)
}
