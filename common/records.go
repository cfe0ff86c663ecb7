package common

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

type TxStatus string

const (
	TxSuccess TxStatus = "success"
	TxFailure TxStatus = "failure"

	// ContractCreation is shown in place of the recipient of a deployment tx.
	ContractCreation = "contract-creation"
)

// StatusFromReceipt maps a receipt status code to a TxStatus. Only 1 is a
// success.
func StatusFromReceipt(code uint64) TxStatus {
	if code == 1 {
		return TxSuccess
	}
	return TxFailure
}

// NameResolution is the outcome of a reverse name lookup. Empty Name or
// Avatar means the value is absent.
type NameResolution struct {
	Address common.Address `json:"address"`
	Name    string         `json:"name,omitempty"`
	Avatar  string         `json:"avatar,omitempty"`
}

func (n NameResolution) HasName() bool {
	return n.Name != ""
}

func (n NameResolution) HasAvatar() bool {
	return n.Avatar != ""
}

type TransactionRecord struct {
	Hash           common.Hash     `json:"hash"`
	From           common.Address  `json:"from"`
	To             *common.Address `json:"to"`
	ValueWei       *big.Int        `json:"valueWei"`
	GasPriceWei    *big.Int        `json:"gasPriceWei"`
	GasLimit       uint64          `json:"gasLimit"`
	GasUsed        uint64          `json:"gasUsed"`
	Nonce          uint64          `json:"nonce"`
	Payload        []byte          `json:"payload"`
	BlockNumber    uint64          `json:"blockNumber"`
	BlockHash      common.Hash     `json:"blockHash"`
	BlockTimestamp time.Time       `json:"blockTimestamp"`
	Confirmations  uint64          `json:"confirmations"`
	Status         TxStatus        `json:"status"`

	FromName NameResolution `json:"fromName"`
	ToName   NameResolution `json:"toName"`
}

// Recipient returns the recipient address or ContractCreation when the tx
// deployed a contract.
func (r *TransactionRecord) Recipient() string {
	if r.To == nil {
		return ContractCreation
	}
	return r.To.Hex()
}

func (r *TransactionRecord) GasCost() *big.Int {
	if r.GasPriceWei == nil {
		return big.NewInt(0)
	}
	return new(big.Int).Mul(new(big.Int).SetUint64(r.GasUsed), r.GasPriceWei)
}

// AddressProfile summarises an address. CodePrefix is set only for
// contracts; it is a display truncation of the hex code, not the code.
type AddressProfile struct {
	Address       common.Address `json:"address"`
	BalanceWei    *big.Int       `json:"balanceWei"`
	ActivityCount uint64         `json:"activityCount"`
	IsContract    bool           `json:"isContract"`
	CodePrefix    string         `json:"codePrefix,omitempty"`
	ENSName       string         `json:"ensName,omitempty"`
	ENSAvatar     string         `json:"ensAvatar,omitempty"`
}

type BatchSuccess struct {
	Hash   string             `json:"hash"`
	Record *TransactionRecord `json:"record"`
}

type BatchFailure struct {
	Hash   string `json:"hash"`
	Reason string `json:"reason"`
}

// BatchResult partitions a batch by outcome. Each bucket keeps the input
// order of its hashes.
type BatchResult struct {
	Succeeded []BatchSuccess `json:"succeeded"`
	Failed    []BatchFailure `json:"failed"`
}

func (b *BatchResult) Total() int {
	return len(b.Succeeded) + len(b.Failed)
}
