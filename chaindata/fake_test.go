package chaindata

import (
	"context"
	"crypto/ecdsa"
	"math/big"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ethereum/go-ethereum"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/tranvictor/chainlens/common"
)

// fakeChain serves canned chain data and counts every call it receives.
type fakeChain struct {
	mu       sync.Mutex
	receipts map[ethcommon.Hash]*types.Receipt
	txs      map[ethcommon.Hash]*common.Transaction
	headers  map[uint64]*types.Header
	head     uint64

	balance *big.Int
	nonce   uint64
	code    []byte

	errs  map[string]error
	calls int32
}

func newFakeChain() *fakeChain {
	return &fakeChain{
		receipts: map[ethcommon.Hash]*types.Receipt{},
		txs:      map[ethcommon.Hash]*common.Transaction{},
		headers:  map[uint64]*types.Header{},
		balance:  big.NewInt(0),
		errs:     map[string]error{},
	}
}

func (f *fakeChain) hit(op string) error {
	atomic.AddInt32(&f.calls, 1)
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.errs[op]
}

func (f *fakeChain) Calls() int {
	return int(atomic.LoadInt32(&f.calls))
}

func (f *fakeChain) TransactionReceipt(_ context.Context, hash ethcommon.Hash) (*types.Receipt, error) {
	if err := f.hit("receipt"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.receipts[hash]
	if !ok {
		return nil, ethereum.NotFound
	}
	return r, nil
}

func (f *fakeChain) TransactionByHash(_ context.Context, hash ethcommon.Hash) (*common.Transaction, bool, error) {
	if err := f.hit("transaction"); err != nil {
		return nil, false, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	tx, ok := f.txs[hash]
	if !ok {
		return nil, false, ethereum.NotFound
	}
	_, mined := f.receipts[hash]
	return tx, !mined, nil
}

func (f *fakeChain) HeaderByNumber(_ context.Context, number *big.Int) (*types.Header, error) {
	if err := f.hit("block"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	n := f.head
	if number != nil {
		n = number.Uint64()
	}
	h, ok := f.headers[n]
	if !ok {
		return &types.Header{Number: new(big.Int).SetUint64(n), Time: 1700000000}, nil
	}
	return h, nil
}

func (f *fakeChain) BlockNumber(context.Context) (uint64, error) {
	if err := f.hit("head"); err != nil {
		return 0, err
	}
	return f.head, nil
}

func (f *fakeChain) BalanceAt(context.Context, ethcommon.Address) (*big.Int, error) {
	if err := f.hit("balance"); err != nil {
		return nil, err
	}
	return f.balance, nil
}

func (f *fakeChain) NonceAt(context.Context, ethcommon.Address) (uint64, error) {
	if err := f.hit("nonce"); err != nil {
		return 0, err
	}
	return f.nonce, nil
}

func (f *fakeChain) CodeAt(context.Context, ethcommon.Address) ([]byte, error) {
	if err := f.hit("code"); err != nil {
		return nil, err
	}
	return f.code, nil
}

func (f *fakeChain) ChainID(context.Context) (*big.Int, error) {
	if err := f.hit("chainId"); err != nil {
		return nil, err
	}
	return big.NewInt(11155111), nil
}

func (f *fakeChain) SuggestGasPrice(context.Context) (*big.Int, error) {
	if err := f.hit("gasPrice"); err != nil {
		return nil, err
	}
	return big.NewInt(3_000_000_000), nil
}

func (f *fakeChain) SuggestGasTipCap(context.Context) (*big.Int, error) {
	if err := f.hit("gasTipCap"); err != nil {
		return nil, err
	}
	return big.NewInt(1_000_000_000), nil
}

// minedTx signs a transfer, registers it with its receipt in block and
// returns its hash.
func (f *fakeChain) minedTx(key *ecdsa.PrivateKey, nonce uint64, to *ethcommon.Address, block uint64, status uint64) ethcommon.Hash {
	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		To:       to,
		Value:    big.NewInt(1e18),
		Gas:      21000,
		GasPrice: big.NewInt(2_000_000_000),
		Data:     []byte{0xca, 0xfe},
	})
	signed, err := types.SignTx(tx, types.NewEIP155Signer(big.NewInt(11155111)), key)
	if err != nil {
		panic(err)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.txs[signed.Hash()] = &common.Transaction{Transaction: signed}
	f.receipts[signed.Hash()] = &types.Receipt{
		TxHash:      signed.Hash(),
		Status:      status,
		GasUsed:     21000,
		BlockNumber: new(big.Int).SetUint64(block),
		BlockHash:   ethcommon.HexToHash("0xb10c"),
	}
	return signed.Hash()
}

func (f *fakeChain) pendingTx(key *ecdsa.PrivateKey) ethcommon.Hash {
	tx := types.NewTx(&types.LegacyTx{Nonce: 99, Gas: 21000, GasPrice: big.NewInt(1), To: &ethcommon.Address{}})
	signed, _ := types.SignTx(tx, types.NewEIP155Signer(big.NewInt(11155111)), key)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.txs[signed.Hash()] = &common.Transaction{Transaction: signed}
	return signed.Hash()
}

type fakeNames struct {
	names map[ethcommon.Address]string
	delay time.Duration
	calls int32
}

func (n *fakeNames) Resolve(ctx context.Context, addr ethcommon.Address) common.NameResolution {
	atomic.AddInt32(&n.calls, 1)
	if n.delay > 0 {
		select {
		case <-time.After(n.delay):
		case <-ctx.Done():
		}
	}
	return common.NameResolution{Address: addr, Name: n.names[addr]}
}

func mustKey() *ecdsa.PrivateKey {
	key, err := crypto.GenerateKey()
	if err != nil {
		panic(err)
	}
	return key
}
