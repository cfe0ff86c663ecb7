package contract

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"

	"github.com/tranvictor/chainlens/common"
)

// Wallet is the external signer. The tool never holds keys itself.
type Wallet interface {
	Address() ethcommon.Address
	SignTx(ctx context.Context, tx *types.Transaction, chainID *big.Int) (*types.Transaction, error)
}

// Backend is the chain client surface needed to read contracts and build
// transactions. reader.EthReader implements it.
type Backend interface {
	CallContract(ctx context.Context, msg ethereum.CallMsg, atBlock *big.Int) ([]byte, error)
	PendingNonceAt(ctx context.Context, address ethcommon.Address) (uint64, error)
	EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	SuggestGasTipCap(ctx context.Context) (*big.Int, error)
	HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error)
}

// Sender submits signed transactions. broadcaster.Broadcaster implements it.
type Sender interface {
	BroadcastTx(ctx context.Context, tx *types.Transaction) (ethcommon.Hash, bool, error)
}

// Transactor builds, signs and submits transactions from the wallet.
type Transactor struct {
	backend Backend
	sender  Sender
	wallet  Wallet
	chainID *big.Int
	logger  *zap.Logger
}

func NewTransactor(backend Backend, sender Sender, wallet Wallet, chainID *big.Int, logger *zap.Logger) *Transactor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Transactor{
		backend: backend,
		sender:  sender,
		wallet:  wallet,
		chainID: chainID,
		logger:  logger,
	}
}

func (t *Transactor) From() (ethcommon.Address, error) {
	if t.wallet == nil {
		return ethcommon.Address{}, common.ErrNoSigner
	}
	return t.wallet.Address(), nil
}

func (t *Transactor) fees(ctx context.Context) (common.TxFees, error) {
	header, err := t.backend.HeaderByNumber(ctx, nil)
	if err != nil {
		return common.TxFees{}, fmt.Errorf("couldn't read head block: %w", err)
	}
	price, err := t.backend.SuggestGasPrice(ctx)
	if err != nil {
		return common.TxFees{}, fmt.Errorf("couldn't get gas price: %w", err)
	}
	fees := common.TxFees{GasPrice: price, BaseFee: header.BaseFee}
	if fees.Dynamic() {
		tip, err := t.backend.SuggestGasTipCap(ctx)
		if err != nil {
			return common.TxFees{}, fmt.Errorf("couldn't get gas tip cap: %w", err)
		}
		fees.GasTipCap = tip
	}
	return fees, nil
}

// Send builds a transaction to to carrying value and data, signs it with
// the wallet and broadcasts it. Gas is estimated with a 20% buffer unless
// gasLimit is non zero. Any failure is a SubmissionError.
func (t *Transactor) Send(ctx context.Context, to ethcommon.Address, value *big.Int, data []byte, gasLimit uint64) (*types.Transaction, error) {
	from, err := t.From()
	if err != nil {
		return nil, err
	}
	if value == nil {
		value = big.NewInt(0)
	}
	reject := func(stage string, err error) error {
		return &common.SubmissionError{Reason: "rejected at " + stage, Err: err}
	}

	nonce, err := t.backend.PendingNonceAt(ctx, from)
	if err != nil {
		return nil, reject("nonce", err)
	}
	fees, err := t.fees(ctx)
	if err != nil {
		return nil, reject("fees", err)
	}
	if gasLimit == 0 {
		estimated, err := t.backend.EstimateGas(ctx, ethereum.CallMsg{
			From:  from,
			To:    &to,
			Value: value,
			Data:  data,
		})
		if err != nil {
			return nil, reject("gas estimation", err)
		}
		gasLimit = estimated * 120 / 100
	}

	tx := common.BuildExactTx(nonce, to, value, gasLimit, fees, data, t.chainID)
	signed, err := t.wallet.SignTx(ctx, tx, t.chainID)
	if err != nil {
		return nil, reject("signing", err)
	}
	hash, ok, err := t.sender.BroadcastTx(ctx, signed)
	if !ok {
		return nil, &common.SubmissionError{Hash: hash.Hex(), Reason: "not accepted by any node", Err: err}
	}
	t.logger.Info("transaction sent",
		zap.String("tx_hash", hash.Hex()),
		zap.String("to", to.Hex()),
		zap.Uint64("nonce", nonce),
		zap.Uint64("gas", gasLimit),
	)
	return signed, nil
}
