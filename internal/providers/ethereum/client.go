package ethereum

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"

	"github.com/veritoken/custody-indexer/internal/adapter"
	"github.com/veritoken/custody-indexer/internal/domain"
	"github.com/veritoken/custody-indexer/internal/ledger"
	"github.com/veritoken/custody-indexer/internal/logger"
)

// erc721ABI covers the contract surface this service touches: the
// enumerable read set and the three state-changing calls.
const erc721ABI = `[
	{"constant":true,"inputs":[{"name":"owner","type":"address"}],"name":"balanceOf","outputs":[{"name":"","type":"uint256"}],"stateMutability":"view","type":"function"},
	{"constant":true,"inputs":[{"name":"owner","type":"address"},{"name":"index","type":"uint256"}],"name":"tokenOfOwnerByIndex","outputs":[{"name":"","type":"uint256"}],"stateMutability":"view","type":"function"},
	{"constant":true,"inputs":[{"name":"tokenId","type":"uint256"}],"name":"getApproved","outputs":[{"name":"","type":"address"}],"stateMutability":"view","type":"function"},
	{"constant":true,"inputs":[{"name":"tokenId","type":"uint256"}],"name":"ownerOf","outputs":[{"name":"","type":"address"}],"stateMutability":"view","type":"function"},
	{"constant":false,"inputs":[{"name":"to","type":"address"}],"name":"safeMint","outputs":[],"stateMutability":"nonpayable","type":"function"},
	{"constant":false,"inputs":[{"name":"from","type":"address"},{"name":"to","type":"address"},{"name":"tokenId","type":"uint256"}],"name":"safeTransferFrom","outputs":[],"stateMutability":"nonpayable","type":"function"},
	{"constant":false,"inputs":[{"name":"to","type":"address"},{"name":"tokenId","type":"uint256"}],"name":"approve","outputs":[],"stateMutability":"nonpayable","type":"function"}
]`

// unlockDuration is how long the node keeps a wallet unlocked, in seconds
const unlockDuration = 30

// Config holds the node and contract parameters for the client
type Config struct {
	ContractAddress string
	CallTimeout     time.Duration
	ReceiptTimeout  time.Duration
	GasLimit        uint64
}

// Client implements ledger.Oracle and ledger.Executor against an ERC-721
// contract on a geth node. Reads go through packed ABI calls; writes go
// through the node's personal namespace since the node custodies the keys.
type Client struct {
	cfg      Config
	contract common.Address
	abi      abi.ABI
	client   adapter.EthClient
	rpc      adapter.RPCClient
	clock    adapter.Clock
	json     adapter.JSON
}

var (
	_ ledger.Oracle   = (*Client)(nil)
	_ ledger.Executor = (*Client)(nil)
)

// NewClient creates a new contract client
func NewClient(cfg Config, client adapter.EthClient, rpcClient adapter.RPCClient, clock adapter.Clock, json adapter.JSON) (*Client, error) {
	if !common.IsHexAddress(cfg.ContractAddress) {
		return nil, fmt.Errorf("%w: contract address %q", domain.ErrInvalidAddress, cfg.ContractAddress)
	}
	parsed, err := abi.JSON(strings.NewReader(erc721ABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse ABI: %w", err)
	}
	if cfg.CallTimeout == 0 {
		cfg.CallTimeout = 10 * time.Second
	}
	if cfg.ReceiptTimeout == 0 {
		cfg.ReceiptTimeout = time.Minute
	}

	return &Client{
		cfg:      cfg,
		contract: common.HexToAddress(cfg.ContractAddress),
		abi:      parsed,
		client:   client,
		rpc:      rpcClient,
		clock:    clock,
		json:     json,
	}, nil
}

// oracleError maps node failures onto the oracle error taxonomy
func oracleError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", domain.ErrOracleTimeout, err)
	}
	return fmt.Errorf("%w: %v", domain.ErrOracleUnavailable, err)
}

// call packs a view function, executes it, and unpacks the single result
func (c *Client) call(ctx context.Context, result interface{}, method string, args ...interface{}) error {
	data, err := c.abi.Pack(method, args...)
	if err != nil {
		return fmt.Errorf("failed to pack %s: %w", method, err)
	}

	callCtx, cancel := context.WithTimeout(ctx, c.cfg.CallTimeout)
	defer cancel()

	output, err := c.client.CallContract(callCtx, ethereum.CallMsg{
		To:   &c.contract,
		Data: data,
	}, nil)
	if err != nil {
		return oracleError(err)
	}

	if err := c.abi.UnpackIntoInterface(result, method, output); err != nil {
		return fmt.Errorf("failed to unpack %s result: %w", method, err)
	}
	return nil
}

// BalanceOf returns the number of tokens held by an address
func (c *Client) BalanceOf(ctx context.Context, owner string) (uint64, error) {
	canonical, err := domain.CanonicalAddress(owner)
	if err != nil {
		return 0, err
	}

	var balance *big.Int
	if err := c.call(ctx, &balance, "balanceOf", common.HexToAddress(canonical)); err != nil {
		return 0, err
	}
	return balance.Uint64(), nil
}

// TokenOfOwnerByIndex returns the token id at the given index of an owner's holdings
func (c *Client) TokenOfOwnerByIndex(ctx context.Context, owner string, index uint64) (uint64, error) {
	canonical, err := domain.CanonicalAddress(owner)
	if err != nil {
		return 0, err
	}

	var tokenID *big.Int
	if err := c.call(ctx, &tokenID, "tokenOfOwnerByIndex", common.HexToAddress(canonical), new(big.Int).SetUint64(index)); err != nil {
		return 0, err
	}
	return tokenID.Uint64(), nil
}

// GetApproved returns the address approved to move a token, or the zero
// address when no approval exists
func (c *Client) GetApproved(ctx context.Context, tokenID uint64) (string, error) {
	var approved common.Address
	if err := c.call(ctx, &approved, "getApproved", new(big.Int).SetUint64(tokenID)); err != nil {
		return "", err
	}
	return approved.Hex(), nil
}

// OwnerOf returns the current ledger owner of a token
func (c *Client) OwnerOf(ctx context.Context, tokenID uint64) (string, error) {
	var owner common.Address
	if err := c.call(ctx, &owner, "ownerOf", new(big.Int).SetUint64(tokenID)); err != nil {
		return "", err
	}
	return owner.Hex(), nil
}

// IsConnected probes node connectivity by asking for the latest header
func (c *Client) IsConnected(ctx context.Context) bool {
	callCtx, cancel := context.WithTimeout(ctx, c.cfg.CallTimeout)
	defer cancel()

	_, err := c.client.HeaderByNumber(callCtx, nil)
	return err == nil
}

// SafeMint mints a new token to the given address
func (c *Client) SafeMint(ctx context.Context, auth ledger.WalletAuth, to string) (*ledger.TxReceipt, error) {
	canonical, err := domain.CanonicalAddress(to)
	if err != nil {
		return nil, err
	}

	data, err := c.abi.Pack("safeMint", common.HexToAddress(canonical))
	if err != nil {
		return nil, fmt.Errorf("failed to pack safeMint: %w", err)
	}
	return c.transact(ctx, auth, data)
}

// SafeTransferFrom moves a token between addresses
func (c *Client) SafeTransferFrom(ctx context.Context, auth ledger.WalletAuth, from, to string, tokenID uint64) (*ledger.TxReceipt, error) {
	fromAddr, err := domain.CanonicalAddress(from)
	if err != nil {
		return nil, err
	}
	toAddr, err := domain.CanonicalAddress(to)
	if err != nil {
		return nil, err
	}

	data, err := c.abi.Pack("safeTransferFrom",
		common.HexToAddress(fromAddr),
		common.HexToAddress(toAddr),
		new(big.Int).SetUint64(tokenID))
	if err != nil {
		return nil, fmt.Errorf("failed to pack safeTransferFrom: %w", err)
	}
	return c.transact(ctx, auth, data)
}

// Approve grants an address the right to move one token
func (c *Client) Approve(ctx context.Context, auth ledger.WalletAuth, approved string, tokenID uint64) (*ledger.TxReceipt, error) {
	canonical, err := domain.CanonicalAddress(approved)
	if err != nil {
		return nil, err
	}

	data, err := c.abi.Pack("approve", common.HexToAddress(canonical), new(big.Int).SetUint64(tokenID))
	if err != nil {
		return nil, fmt.Errorf("failed to pack approve: %w", err)
	}
	return c.transact(ctx, auth, data)
}

// transact unlocks the signing wallet on the node, submits the transaction,
// and waits for its receipt. Writes are never retried here; a failure after
// submission is surfaced to the caller as-is.
func (c *Client) transact(ctx context.Context, auth ledger.WalletAuth, data []byte) (*ledger.TxReceipt, error) {
	from, err := domain.CanonicalAddress(auth.Address)
	if err != nil {
		return nil, err
	}

	unlockCtx, cancel := context.WithTimeout(ctx, c.cfg.CallTimeout)
	defer cancel()

	var unlocked bool
	err = c.rpc.CallContext(unlockCtx, &unlocked, "personal_unlockAccount", from, auth.Password, unlockDuration)
	if err != nil || !unlocked {
		return nil, fmt.Errorf("%w: account %s", domain.ErrWalletUnlock, from)
	}

	tx := map[string]interface{}{
		"from": from,
		"to":   c.contract.Hex(),
		"gas":  hexutil.Uint64(c.cfg.GasLimit),
		"data": hexutil.Bytes(data),
	}

	var txHash common.Hash
	if err := c.rpc.CallContext(ctx, &txHash, "eth_sendTransaction", tx); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrLedgerRejected, err)
	}

	logger.DebugCtx(ctx, "ledger transaction submitted",
		zap.String("txHash", txHash.Hex()),
		zap.String("from", from))

	return c.waitReceipt(ctx, txHash)
}

// waitReceipt polls for the transaction receipt until it is mined or the
// receipt timeout elapses
func (c *Client) waitReceipt(ctx context.Context, txHash common.Hash) (*ledger.TxReceipt, error) {
	waitCtx, cancel := context.WithTimeout(ctx, c.cfg.ReceiptTimeout)
	defer cancel()

	var receipt *types.Receipt
	operation := func() error {
		r, err := c.client.TransactionReceipt(waitCtx, txHash)
		if err != nil {
			return err
		}
		receipt = r
		return nil
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 500 * time.Millisecond
	policy.MaxInterval = 5 * time.Second

	if err := backoff.Retry(operation, backoff.WithContext(policy, waitCtx)); err != nil {
		return nil, oracleError(err)
	}

	if receipt.Status != types.ReceiptStatusSuccessful {
		return nil, fmt.Errorf("%w: transaction %s reverted", domain.ErrLedgerRejected, txHash.Hex())
	}

	header, err := c.client.HeaderByNumber(ctx, receipt.BlockNumber)
	if err != nil {
		return nil, oracleError(err)
	}

	raw, err := c.json.Marshal(receipt)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal receipt: %w", err)
	}

	return &ledger.TxReceipt{
		TxHash:      txHash.Hex(),
		BlockNumber: receipt.BlockNumber.Uint64(),
		Timestamp:   c.clock.Unix(int64(header.Time), 0), //nolint:gosec,G115 // header.Time is a uint64 from geth which is safe to cast
		Raw:         raw,
	}, nil
}

// Close closes the node connections
func (c *Client) Close() {
	c.client.Close()
	c.rpc.Close()
}
