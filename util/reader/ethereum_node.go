package reader

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/tranvictor/chainlens/common"
)

type EthereumNode interface {
	NodeName() string
	NodeURL() string

	ChainID(ctx context.Context) (*big.Int, error)
	BlockNumber(ctx context.Context) (uint64, error)
	HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error)
	TransactionByHash(ctx context.Context, hash ethcommon.Hash) (tx *common.Transaction, isPending bool, err error)
	TransactionReceipt(ctx context.Context, hash ethcommon.Hash) (*types.Receipt, error)

	GetBalance(ctx context.Context, address ethcommon.Address) (*big.Int, error)
	GetMinedNonce(ctx context.Context, address ethcommon.Address) (uint64, error)
	GetPendingNonce(ctx context.Context, address ethcommon.Address) (uint64, error)
	GetCode(ctx context.Context, address ethcommon.Address) ([]byte, error)

	CallContract(ctx context.Context, msg ethereum.CallMsg, atBlock *big.Int) ([]byte, error)
	EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error)
	SuggestedGasPrice(ctx context.Context) (*big.Int, error)
	SuggestedGasTipCap(ctx context.Context) (*big.Int, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
}
