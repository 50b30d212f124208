package provenance

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veritoken/custody-indexer/internal/domain"
	"github.com/veritoken/custody-indexer/internal/ledger"
	"github.com/veritoken/custody-indexer/internal/logger"
	"github.com/veritoken/custody-indexer/internal/mocks"
	"github.com/veritoken/custody-indexer/internal/store"
)

func TestMain(m *testing.M) {
	if err := logger.Initialize(logger.Config{Debug: true}); err != nil {
		panic(err)
	}
	m.Run()
}

type serviceFixture struct {
	store     *mocks.MockStore
	oracle    *mocks.MockOracle
	executor  *mocks.MockExecutor
	publisher *mocks.MockPublisher
	clock     *mocks.MockClock
	service   *Service
}

func newServiceFixture(ctrl *gomock.Controller) *serviceFixture {
	f := &serviceFixture{
		store:     mocks.NewMockStore(ctrl),
		oracle:    mocks.NewMockOracle(ctrl),
		executor:  mocks.NewMockExecutor(ctrl),
		publisher: mocks.NewMockPublisher(ctrl),
		clock:     mocks.NewMockClock(ctrl),
	}
	f.clock.EXPECT().Now().Return(time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)).AnyTimes()
	f.clock.EXPECT().Since(gomock.Any()).Return(time.Millisecond).AnyTimes()
	f.service = NewService(f.store, f.oracle, f.executor, f.publisher, f.clock)
	return f
}

func validInfo() domain.TokenInfo {
	return domain.TokenInfo{
		Brand:          "Acme",
		ProductName:    "Vintage 2019",
		ProductionDate: time.Date(2019, 9, 1, 0, 0, 0, 0, time.UTC),
		ExpirationDate: time.Date(2039, 9, 1, 0, 0, 0, 0, time.UTC),
		Details:        "Batch 7",
	}
}

func TestMint(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	f := newServiceFixture(ctrl)

	minted := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	receipt := &ledger.TxReceipt{
		TxHash:      "0xm1",
		BlockNumber: 100,
		Timestamp:   minted,
		Raw:         []byte(`{"status":"0x1"}`),
	}

	f.store.EXPECT().AccountByAddress(gomock.Any(), manufacturerAddr).Return(manufacturerAccount, nil)
	f.executor.EXPECT().
		SafeMint(gomock.Any(), ledger.WalletAuth{Address: manufacturerAddr, Password: "secret"}, manufacturerAddr).
		Return(receipt, nil)
	f.oracle.EXPECT().BalanceOf(gomock.Any(), manufacturerAddr).Return(uint64(3), nil)
	f.oracle.EXPECT().TokenOfOwnerByIndex(gomock.Any(), manufacturerAddr, uint64(2)).Return(uint64(42), nil)
	f.store.EXPECT().
		CreateTokenMint(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, input store.CreateTokenMintInput) error {
			assert.Equal(t, uint64(42), input.Info.TokenID)
			assert.Equal(t, "Acme", input.Info.Brand)
			assert.Equal(t, manufacturerAccount.DisplayName, input.MintedBy)
			assert.Nil(t, input.Event.From)
			assert.Equal(t, manufacturerAddr, input.Event.To)
			assert.Equal(t, "0xm1", input.Event.TxHash)
			assert.Equal(t, minted, input.Event.Timestamp)
			return nil
		})
	f.publisher.EXPECT().PublishEvent(gomock.Any(), gomock.Any()).Return(nil)

	result, err := f.service.Mint(context.Background(), MintRequest{
		ActorID:  manufacturerAccount.ID,
		To:       manufacturerAddr,
		Password: "secret",
		Info:     validInfo(),
	})
	require.NoError(t, err)
	assert.True(t, result.Decision.Allowed)
	assert.Equal(t, uint64(42), result.TokenID)
	require.NotNil(t, result.Event)
	assert.Nil(t, result.Event.From)
}

func TestMintRejectsIncompleteInfo(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	f := newServiceFixture(ctrl)

	info := validInfo()
	info.Brand = ""

	_, err := f.service.Mint(context.Background(), MintRequest{
		ActorID: manufacturerAccount.ID,
		To:      manufacturerAddr,
		Info:    info,
	})
	assert.True(t, errors.Is(err, domain.ErrInvalidTokenInfo))
}

func TestMintRejectsZeroDates(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	f := newServiceFixture(ctrl)

	info := validInfo()
	info.ExpirationDate = time.Time{}

	_, err := f.service.Mint(context.Background(), MintRequest{
		ActorID: manufacturerAccount.ID,
		To:      manufacturerAddr,
		Info:    info,
	})
	assert.True(t, errors.Is(err, domain.ErrInvalidTokenInfo))
}

func TestMintDeniedForNonManufacturer(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	f := newServiceFixture(ctrl)

	f.store.EXPECT().AccountByAddress(gomock.Any(), resellerAddr).Return(resellerAccount, nil)

	result, err := f.service.Mint(context.Background(), MintRequest{
		ActorID: resellerAccount.ID,
		To:      resellerAddr,
		Info:    validInfo(),
	})
	require.NoError(t, err)
	assert.False(t, result.Decision.Allowed)
	assert.Equal(t, domain.DenialNotAuthorizedRole, result.Decision.Reason)
}

func TestMintDeniedForWrongWallet(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	f := newServiceFixture(ctrl)

	f.store.EXPECT().AccountByAddress(gomock.Any(), manufacturerAddr).Return(manufacturerAccount, nil)

	result, err := f.service.Mint(context.Background(), MintRequest{
		ActorID: "acct-somebody-else",
		To:      manufacturerAddr,
		Info:    validInfo(),
	})
	require.NoError(t, err)
	assert.False(t, result.Decision.Allowed)
	assert.Equal(t, domain.DenialNotWalletOwner, result.Decision.Reason)
}

func TestMintLedgerFailureRecordsNothing(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	f := newServiceFixture(ctrl)

	f.store.EXPECT().AccountByAddress(gomock.Any(), manufacturerAddr).Return(manufacturerAccount, nil)
	f.executor.EXPECT().
		SafeMint(gomock.Any(), gomock.Any(), manufacturerAddr).
		Return(nil, domain.ErrLedgerRejected)

	_, err := f.service.Mint(context.Background(), MintRequest{
		ActorID:  manufacturerAccount.ID,
		To:       manufacturerAddr,
		Password: "secret",
		Info:     validInfo(),
	})
	assert.True(t, errors.Is(err, domain.ErrLedgerRejected))
}

func TestTransferDirect(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	f := newServiceFixture(ctrl)

	confirmed := time.Date(2024, 3, 2, 9, 0, 0, 0, time.UTC)
	receipt := &ledger.TxReceipt{TxHash: "0xt1", BlockNumber: 101, Timestamp: confirmed, Raw: []byte(`{}`)}

	f.store.EXPECT().AccountByAddress(gomock.Any(), manufacturerAddr).Return(manufacturerAccount, nil)
	f.executor.EXPECT().
		SafeTransferFrom(gomock.Any(),
			ledger.WalletAuth{Address: manufacturerAddr, Password: "secret"},
			manufacturerAddr, resellerAddr, uint64(42)).
		Return(receipt, nil)
	f.store.EXPECT().
		AppendCustodyEvent(gomock.Any(), gomock.Any(), receipt.Raw).
		DoAndReturn(func(_ context.Context, event domain.CustodyEvent, _ []byte) error {
			require.NotNil(t, event.From)
			assert.Equal(t, manufacturerAddr, *event.From)
			assert.Equal(t, resellerAddr, event.To)
			assert.Equal(t, "0xt1", event.TxHash)
			assert.Equal(t, confirmed, event.Timestamp)
			return nil
		})
	f.publisher.EXPECT().PublishEvent(gomock.Any(), gomock.Any()).Return(nil)

	result, err := f.service.Transfer(context.Background(), TransferRequest{
		TokenID:    42,
		Sender:     manufacturerAddr,
		Receiver:   resellerAddr,
		Transactor: manufacturerAddr,
		ActorID:    manufacturerAccount.ID,
	}, "secret")
	require.NoError(t, err)
	assert.True(t, result.Decision.Allowed)
	require.NotNil(t, result.Event)
}

func TestTransferDeniedAppendsNothing(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	f := newServiceFixture(ctrl)

	// Delegated attempt without an on-ledger approval. The mocks would fail
	// the test if the executor or the event log were touched.
	f.store.EXPECT().AccountByAddress(gomock.Any(), resellerAddr).Return(resellerAccount, nil)
	f.oracle.EXPECT().GetApproved(gomock.Any(), uint64(42)).Return(domain.EthereumZeroAddress, nil)

	result, err := f.service.Transfer(context.Background(), TransferRequest{
		TokenID:    42,
		Sender:     manufacturerAddr,
		Receiver:   customerAddr,
		Transactor: resellerAddr,
		ActorID:    resellerAccount.ID,
	}, "secret")
	require.NoError(t, err)
	assert.False(t, result.Decision.Allowed)
	assert.Equal(t, domain.DenialApprovalMissing, result.Decision.Reason)
	assert.Nil(t, result.Event)
}

func TestTransferLedgerFailureAppendsNothing(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	f := newServiceFixture(ctrl)

	f.store.EXPECT().AccountByAddress(gomock.Any(), manufacturerAddr).Return(manufacturerAccount, nil)
	f.executor.EXPECT().
		SafeTransferFrom(gomock.Any(), gomock.Any(), manufacturerAddr, resellerAddr, uint64(42)).
		Return(nil, domain.ErrLedgerRejected)

	_, err := f.service.Transfer(context.Background(), TransferRequest{
		TokenID:    42,
		Sender:     manufacturerAddr,
		Receiver:   resellerAddr,
		Transactor: manufacturerAddr,
		ActorID:    manufacturerAccount.ID,
	}, "secret")
	assert.True(t, errors.Is(err, domain.ErrLedgerRejected))
}

func TestTransferBrokerFailureIsNotFatal(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	f := newServiceFixture(ctrl)

	receipt := &ledger.TxReceipt{TxHash: "0xt2", Timestamp: time.Now(), Raw: []byte(`{}`)}

	f.store.EXPECT().AccountByAddress(gomock.Any(), manufacturerAddr).Return(manufacturerAccount, nil)
	f.executor.EXPECT().
		SafeTransferFrom(gomock.Any(), gomock.Any(), manufacturerAddr, resellerAddr, uint64(42)).
		Return(receipt, nil)
	f.store.EXPECT().AppendCustodyEvent(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	f.publisher.EXPECT().PublishEvent(gomock.Any(), gomock.Any()).Return(errors.New("broker down"))

	result, err := f.service.Transfer(context.Background(), TransferRequest{
		TokenID:    42,
		Sender:     manufacturerAddr,
		Receiver:   resellerAddr,
		Transactor: manufacturerAddr,
		ActorID:    manufacturerAccount.ID,
	}, "secret")
	require.NoError(t, err)
	assert.True(t, result.Decision.Allowed)
}

// The full round trip of a delegated resale: the manufacturer approves the
// reseller, the reseller moves the token to a customer, and the resulting
// chain validates for the customer.
func TestDelegatedResaleRoundTrip(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	f := newServiceFixture(ctrl)

	// Approval: manufacturer grants the reseller approval for token 42.
	f.store.EXPECT().AccountByAddress(gomock.Any(), manufacturerAddr).Return(manufacturerAccount, nil)
	f.store.EXPECT().AccountByAddress(gomock.Any(), resellerAddr).Return(resellerAccount, nil)
	f.executor.EXPECT().
		Approve(gomock.Any(),
			ledger.WalletAuth{Address: manufacturerAddr, Password: "mfg-pass"},
			resellerAddr, uint64(42)).
		Return(&ledger.TxReceipt{TxHash: "0xa1", Timestamp: time.Now()}, nil)

	approval, err := f.service.Approve(context.Background(), ApprovalRequest{
		TokenID:  42,
		Approver: manufacturerAddr,
		Receiver: resellerAddr,
		ActorID:  manufacturerAccount.ID,
	}, "mfg-pass")
	require.NoError(t, err)
	assert.True(t, approval.Decision.Allowed)
	assert.Equal(t, "0xa1", approval.TxHash)

	// Delegated transfer: reseller moves the manufacturer's token to the
	// customer under the ledger approval.
	confirmed := time.Date(2024, 3, 3, 12, 0, 0, 0, time.UTC)
	f.store.EXPECT().AccountByAddress(gomock.Any(), resellerAddr).Return(resellerAccount, nil)
	f.oracle.EXPECT().GetApproved(gomock.Any(), uint64(42)).Return(resellerAddr, nil)
	f.executor.EXPECT().
		SafeTransferFrom(gomock.Any(),
			ledger.WalletAuth{Address: resellerAddr, Password: "rs-pass"},
			manufacturerAddr, customerAddr, uint64(42)).
		Return(&ledger.TxReceipt{TxHash: "0xt3", Timestamp: confirmed, Raw: []byte(`{}`)}, nil)

	var appended domain.CustodyEvent
	f.store.EXPECT().
		AppendCustodyEvent(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, event domain.CustodyEvent, _ []byte) error {
			appended = event
			return nil
		})
	f.publisher.EXPECT().PublishEvent(gomock.Any(), gomock.Any()).Return(nil)

	transfer, err := f.service.Transfer(context.Background(), TransferRequest{
		TokenID:    42,
		Sender:     manufacturerAddr,
		Receiver:   customerAddr,
		Transactor: resellerAddr,
		ActorID:    resellerAccount.ID,
	}, "rs-pass")
	require.NoError(t, err)
	assert.True(t, transfer.Decision.Allowed)
	require.NotNil(t, appended.From)
	assert.Equal(t, manufacturerAddr, *appended.From)
	assert.Equal(t, customerAddr, appended.To)

	// The recorded chain now validates for the customer.
	history := chainOf(42, manufacturerAddr, customerAddr)
	f.store.EXPECT().CustodyHistory(gomock.Any(), uint64(42)).Return(history, nil)
	f.store.EXPECT().AccountByAddress(gomock.Any(), manufacturerAddr).Return(manufacturerAccount, nil)

	verdict, err := f.service.Validate(context.Background(), 42, customerAddr)
	require.NoError(t, err)
	assert.True(t, verdict.Valid)
}

func TestApproveDenied(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	f := newServiceFixture(ctrl)

	f.store.EXPECT().AccountByAddress(gomock.Any(), customerAddr).Return(customerAccount, nil)

	result, err := f.service.Approve(context.Background(), ApprovalRequest{
		TokenID:  42,
		Approver: customerAddr,
		Receiver: resellerAddr,
		ActorID:  customerAccount.ID,
	}, "secret")
	require.NoError(t, err)
	assert.False(t, result.Decision.Allowed)
	assert.Equal(t, domain.DenialNotAuthorizedRole, result.Decision.Reason)
	assert.Empty(t, result.TxHash)
}

func TestTokensOf(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	f := newServiceFixture(ctrl)

	f.oracle.EXPECT().BalanceOf(gomock.Any(), manufacturerAddr).Return(uint64(2), nil)
	f.oracle.EXPECT().TokenOfOwnerByIndex(gomock.Any(), manufacturerAddr, uint64(0)).Return(uint64(7), nil)
	f.oracle.EXPECT().TokenOfOwnerByIndex(gomock.Any(), manufacturerAddr, uint64(1)).Return(uint64(9), nil)
	f.store.EXPECT().TokenInfoByIDs(gomock.Any(), []uint64{7, 9}).
		Return([]*domain.TokenInfo{{TokenID: 7, Brand: "Acme"}}, nil)

	listing, err := f.service.TokensOf(context.Background(), manufacturerAddr)
	require.NoError(t, err)
	assert.Equal(t, []uint64{7, 9}, listing.TokenIDs)
	require.Len(t, listing.Infos, 1)
	assert.Equal(t, uint64(7), listing.Infos[0].TokenID)
	assert.Equal(t, []uint64{9}, listing.MissingInfo)
}

func TestBalance(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	f := newServiceFixture(ctrl)

	f.oracle.EXPECT().BalanceOf(gomock.Any(), customerAddr).Return(uint64(5), nil)

	balance, err := f.service.Balance(context.Background(), customerAddr)
	require.NoError(t, err)
	assert.Equal(t, uint64(5), balance)
}

func TestPing(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	f := newServiceFixture(ctrl)

	f.oracle.EXPECT().IsConnected(gomock.Any()).Return(true)
	assert.True(t, f.service.Ping(context.Background()))
}
