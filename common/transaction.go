package common

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// TxFees carries the fee fields for a tx about to be built. A nil BaseFee
// means the chain has no EIP-1559 base fee and a legacy tx is built.
type TxFees struct {
	GasPrice  *big.Int
	GasTipCap *big.Int
	BaseFee   *big.Int
}

// Dynamic reports whether the chain supports dynamic fee txs.
func (f TxFees) Dynamic() bool {
	return f.BaseFee != nil && f.BaseFee.Sign() > 0
}

// MaxFeePerGas follows the usual wallet convention: 2 * base fee + tip.
func (f TxFees) MaxFeePerGas() *big.Int {
	if !f.Dynamic() {
		return f.GasPrice
	}
	tip := f.GasTipCap
	if tip == nil {
		tip = big.NewInt(0)
	}
	fee := new(big.Int).Mul(f.BaseFee, big.NewInt(2))
	return fee.Add(fee, tip)
}

func BuildExactTx(
	nonce uint64,
	to common.Address,
	amount *big.Int,
	gasLimit uint64,
	fees TxFees,
	data []byte,
	chainID *big.Int,
) *types.Transaction {
	if fees.Dynamic() {
		return types.NewTx(&types.DynamicFeeTx{
			ChainID:   chainID,
			Nonce:     nonce,
			GasTipCap: fees.GasTipCap,
			GasFeeCap: fees.MaxFeePerGas(),
			Gas:       gasLimit,
			To:        &to,
			Value:     amount,
			Data:      data,
		})
	}
	return types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		GasPrice: fees.GasPrice,
		Gas:      gasLimit,
		To:       &to,
		Value:    amount,
		Data:     data,
	})
}
