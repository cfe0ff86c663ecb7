package session

import (
	"context"
	"errors"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/tranvictor/chainlens/contract"
	"github.com/tranvictor/chainlens/networks"
)

const (
	walletA = "0x1111111111111111111111111111111111111111"
	walletB = "0x2222222222222222222222222222222222222222"
	board   = "0x3333333333333333333333333333333333333333"
)

// fakeConnector hands out reader-less clients and records every dial,
// bind and close.
type fakeConnector struct {
	mu      sync.Mutex
	dials   []uint64
	binds   []ethcommon.Address
	closed  int
	dialErr error
	bindErr error

	reader Reader
	sender contract.Sender
	wallet contract.Wallet
}

func (f *fakeConnector) Dial(ctx context.Context, chainID uint64) (*Client, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dials = append(f.dials, chainID)
	if f.dialErr != nil {
		return nil, f.dialErr
	}
	return NewClient(new(big.Int).SetUint64(chainID), networks.EthereumMainnet, f.reader, f.sender, nil, nil, func() {
		f.mu.Lock()
		f.closed++
		f.mu.Unlock()
	}), nil
}

func (f *fakeConnector) Bind(ctx context.Context, client *Client, wallet ethcommon.Address, cfg contract.Config) (*Binding, error) {
	f.mu.Lock()
	f.binds = append(f.binds, wallet)
	err, signer := f.bindErr, f.wallet
	f.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return BindWith(client, signer, cfg, nil)
}

func (f *fakeConnector) closedCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

// legacyChain answers the fee, nonce and gas queries of a pre-London chain.
// Anything else panics on the nil Reader.
type legacyChain struct {
	Reader
}

func (legacyChain) HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error) {
	return &types.Header{Number: big.NewInt(100)}, nil
}

func (legacyChain) SuggestGasPrice(ctx context.Context) (*big.Int, error) {
	return big.NewInt(1_000_000_000), nil
}

func (legacyChain) ChainID(ctx context.Context) (*big.Int, error) {
	return big.NewInt(1), nil
}

func (legacyChain) SuggestGasTipCap(ctx context.Context) (*big.Int, error) {
	return nil, errors.New("the method eth_maxPriorityFeePerGas does not exist")
}

func (legacyChain) PendingNonceAt(ctx context.Context, address ethcommon.Address) (uint64, error) {
	return 7, nil
}

func (legacyChain) EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error) {
	return 21000, nil
}

// hookSender accepts every transaction and runs onBroadcast first.
type hookSender struct {
	mu          sync.Mutex
	sent        []*types.Transaction
	onBroadcast func(ctx context.Context)
}

func (h *hookSender) BroadcastTx(ctx context.Context, tx *types.Transaction) (ethcommon.Hash, bool, error) {
	if h.onBroadcast != nil {
		h.onBroadcast(ctx)
	}
	h.mu.Lock()
	h.sent = append(h.sent, tx)
	h.mu.Unlock()
	return tx.Hash(), true, nil
}

func (h *hookSender) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.sent)
}

var errDial = errors.New("dial refused")

func connectEvent(addr string, chainID uint64) WalletEvent {
	return WalletEvent{Type: EventConnect, Address: addr, ChainID: chainID}
}
