package chaindata

import (
	"context"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/core/types"

	"github.com/tranvictor/chainlens/common"
	"github.com/tranvictor/chainlens/networks"
	"github.com/tranvictor/chainlens/util/telemetry"
)

// ChainInfo is an overview of the chain a client is connected to. BaseFee
// and the dynamic fee fields are nil on chains without EIP-1559.
type ChainInfo struct {
	ChainID      uint64    `json:"chainId"`
	NetworkName  string    `json:"networkName"`
	BlockNumber  uint64    `json:"blockNumber"`
	BlockTime    time.Time `json:"blockTime"`
	BaseFee      *big.Int  `json:"baseFee,omitempty"`
	GasPrice     *big.Int  `json:"gasPrice"`
	GasTipCap    *big.Int  `json:"maxPriorityFeePerGas,omitempty"`
	MaxFeePerGas *big.Int  `json:"maxFeePerGas,omitempty"`
}

type ChainInfoReader struct {
	reader ChainReader
	opts   options
}

func NewChainInfoReader(r ChainReader, opts ...Option) *ChainInfoReader {
	return &ChainInfoReader{reader: r, opts: buildOptions(opts)}
}

func (cr *ChainInfoReader) Read(ctx context.Context) (info *ChainInfo, err error) {
	ctx, span := telemetry.Start(ctx, "chaindata.ChainInfo")
	defer func() { telemetry.End(span, err) }()

	var (
		chainID  *big.Int
		header   *types.Header
		gasPrice *big.Int
		tip      *big.Int
	)
	err, _ = common.RunParallel(
		func() error {
			id, err := cr.reader.ChainID(ctx)
			if err != nil {
				return &common.QueryError{Op: "chainId", Err: err}
			}
			chainID = id
			return nil
		},
		func() error {
			h, err := cr.reader.HeaderByNumber(ctx, nil)
			if err != nil {
				return &common.QueryError{Op: "block", Err: err}
			}
			header = h
			return nil
		},
		func() error {
			p, err := cr.reader.SuggestGasPrice(ctx)
			if err != nil {
				return &common.QueryError{Op: "gasPrice", Err: err}
			}
			gasPrice = p
			return nil
		},
		func() error {
			// legacy chains reject eth_maxPriorityFeePerGas, tip stays nil
			if t, err := cr.reader.SuggestGasTipCap(ctx); err == nil {
				tip = t
			}
			return nil
		},
	)
	if err != nil {
		return nil, firstQueryError(err)
	}

	info = &ChainInfo{
		ChainID:     chainID.Uint64(),
		NetworkName: "unknown",
		BlockNumber: header.Number.Uint64(),
		BlockTime:   time.Unix(int64(header.Time), 0).UTC(),
		BaseFee:     header.BaseFee,
		GasPrice:    gasPrice,
	}
	if n, err := networks.GetNetworkByID(info.ChainID); err == nil {
		info.NetworkName = n.GetName()
	}
	if header.BaseFee != nil && tip != nil {
		fees := common.TxFees{GasPrice: gasPrice, BaseFee: header.BaseFee, GasTipCap: tip}
		info.GasTipCap = tip
		info.MaxFeePerGas = fees.MaxFeePerGas()
	}
	return info, nil
}
