package common

import (
	"encoding/json"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
)

// Transaction is a transaction as served by eth_getTransactionByHash.
// types.Transaction only decodes the signed fields; the node also reports
// where the tx was included and who sent it.
type Transaction struct {
	*types.Transaction
	Inclusion Inclusion `json:"-"`
}

// Inclusion holds the node reported fields of an rpc transaction. Block
// fields are nil while the tx is pending.
type Inclusion struct {
	BlockNumber *hexutil.Big    `json:"blockNumber"`
	BlockHash   *common.Hash    `json:"blockHash"`
	From        *common.Address `json:"from"`
}

func (tx *Transaction) UnmarshalJSON(msg []byte) error {
	if err := json.Unmarshal(msg, &tx.Transaction); err != nil {
		return err
	}
	return json.Unmarshal(msg, &tx.Inclusion)
}

func (tx *Transaction) IsPending() bool {
	return tx.Inclusion.BlockNumber == nil
}

// Sender prefers the from address reported by the node and falls back to
// recovering it from the signature.
func (tx *Transaction) Sender() (common.Address, error) {
	if tx.Inclusion.From != nil {
		return *tx.Inclusion.From, nil
	}
	return types.Sender(types.LatestSignerForChainID(tx.ChainId()), tx.Transaction)
}
