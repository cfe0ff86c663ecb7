package reader

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sort"

	"github.com/ethereum/go-ethereum"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"

	"github.com/tranvictor/chainlens/common"
)

// EthReader reads chain data from a set of nodes serving the same network.
// Every call is sent to all nodes at once and the first successful answer
// wins. If every node fails, the per node errors are joined.
type EthReader struct {
	nodes  map[string]EthereumNode
	logger *zap.Logger
}

func NewEthReaderGeneric(nodes map[string]string, logger *zap.Logger) *EthReader {
	ns := map[string]EthereumNode{}
	for name, c := range nodes {
		ns[name] = NewOneNodeReader(name, c)
	}
	return NewEthReaderWithNodes(ns, logger)
}

// NewEthReaderWithNodes builds a reader over already constructed nodes.
func NewEthReaderWithNodes(nodes map[string]EthereumNode, logger *zap.Logger) *EthReader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EthReader{
		nodes:  nodes,
		logger: logger,
	}
}

func wrapError(e error, name string) error {
	if e == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", name, e)
}

type nodeResult[T any] struct {
	Value T
	Error error
}

// firstSuccess fans call out to every node. It returns as soon as one node
// answers without error; the remaining calls are cancelled.
func firstSuccess[T any](ctx context.Context, er *EthReader, op string, call func(context.Context, EthereumNode) (T, error)) (T, error) {
	var zero T
	if len(er.nodes) == 0 {
		return zero, fmt.Errorf("%s: no nodes configured", op)
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	resCh := make(chan nodeResult[T], len(er.nodes))
	for i := range er.nodes {
		n := er.nodes[i]
		go func() {
			v, err := call(ctx, n)
			resCh <- nodeResult[T]{
				Value: v,
				Error: wrapError(err, n.NodeName()),
			}
		}()
	}
	errs := []error{}
	for i := 0; i < len(er.nodes); i++ {
		result := <-resCh
		if result.Error == nil {
			return result.Value, nil
		}
		errs = append(errs, result.Error)
	}
	er.logger.Debug("all nodes failed", zap.String("op", op), zap.Int("nodes", len(er.nodes)))
	return zero, fmt.Errorf("couldn't read from any nodes: %w", errors.Join(errs...))
}

func (er *EthReader) NodeNames() []string {
	names := make([]string, 0, len(er.nodes))
	for name := range er.nodes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (er *EthReader) ChainID(ctx context.Context) (*big.Int, error) {
	return firstSuccess(ctx, er, "chainId", func(ctx context.Context, n EthereumNode) (*big.Int, error) {
		return n.ChainID(ctx)
	})
}

func (er *EthReader) BlockNumber(ctx context.Context) (uint64, error) {
	return firstSuccess(ctx, er, "blockNumber", func(ctx context.Context, n EthereumNode) (uint64, error) {
		return n.BlockNumber(ctx)
	})
}

func (er *EthReader) HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error) {
	return firstSuccess(ctx, er, "header", func(ctx context.Context, n EthereumNode) (*types.Header, error) {
		return n.HeaderByNumber(ctx, number)
	})
}

type txResponse struct {
	Tx        *common.Transaction
	IsPending bool
}

func (er *EthReader) TransactionByHash(ctx context.Context, hash ethcommon.Hash) (*common.Transaction, bool, error) {
	res, err := firstSuccess(ctx, er, "transaction", func(ctx context.Context, n EthereumNode) (txResponse, error) {
		tx, pending, err := n.TransactionByHash(ctx, hash)
		return txResponse{Tx: tx, IsPending: pending}, err
	})
	if err != nil {
		return nil, false, err
	}
	return res.Tx, res.IsPending, nil
}

func (er *EthReader) TransactionReceipt(ctx context.Context, hash ethcommon.Hash) (*types.Receipt, error) {
	return firstSuccess(ctx, er, "receipt", func(ctx context.Context, n EthereumNode) (*types.Receipt, error) {
		return n.TransactionReceipt(ctx, hash)
	})
}

func (er *EthReader) BalanceAt(ctx context.Context, address ethcommon.Address) (*big.Int, error) {
	return firstSuccess(ctx, er, "balance", func(ctx context.Context, n EthereumNode) (*big.Int, error) {
		return n.GetBalance(ctx, address)
	})
}

func (er *EthReader) NonceAt(ctx context.Context, address ethcommon.Address) (uint64, error) {
	return firstSuccess(ctx, er, "nonce", func(ctx context.Context, n EthereumNode) (uint64, error) {
		return n.GetMinedNonce(ctx, address)
	})
}

func (er *EthReader) PendingNonceAt(ctx context.Context, address ethcommon.Address) (uint64, error) {
	return firstSuccess(ctx, er, "pendingNonce", func(ctx context.Context, n EthereumNode) (uint64, error) {
		return n.GetPendingNonce(ctx, address)
	})
}

func (er *EthReader) CodeAt(ctx context.Context, address ethcommon.Address) ([]byte, error) {
	return firstSuccess(ctx, er, "code", func(ctx context.Context, n EthereumNode) ([]byte, error) {
		return n.GetCode(ctx, address)
	})
}

func (er *EthReader) CallContract(ctx context.Context, msg ethereum.CallMsg, atBlock *big.Int) ([]byte, error) {
	return firstSuccess(ctx, er, "call", func(ctx context.Context, n EthereumNode) ([]byte, error) {
		return n.CallContract(ctx, msg, atBlock)
	})
}

func (er *EthReader) EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error) {
	return firstSuccess(ctx, er, "estimateGas", func(ctx context.Context, n EthereumNode) (uint64, error) {
		return n.EstimateGas(ctx, msg)
	})
}

func (er *EthReader) SuggestGasPrice(ctx context.Context) (*big.Int, error) {
	return firstSuccess(ctx, er, "gasPrice", func(ctx context.Context, n EthereumNode) (*big.Int, error) {
		return n.SuggestedGasPrice(ctx)
	})
}

func (er *EthReader) SuggestGasTipCap(ctx context.Context) (*big.Int, error) {
	return firstSuccess(ctx, er, "gasTipCap", func(ctx context.Context, n EthereumNode) (*big.Int, error) {
		return n.SuggestedGasTipCap(ctx)
	})
}

// Close releases every node connection.
func (er *EthReader) Close() {
	for _, n := range er.nodes {
		if onr, ok := n.(*OneNodeReader); ok {
			onr.Close()
		}
	}
}
