package display

import (
	"github.com/tranvictor/chainlens/common"
	"github.com/tranvictor/chainlens/ui"
)

// TxDisplay is the view of a resolved transaction. StyledText fields
// marshal as plain strings, so the same value serves terminal and JSON
// output.
type TxDisplay struct {
	Hash          string        `json:"hash"`
	Status        ui.StyledText `json:"status"`
	From          ui.StyledText `json:"from"`
	FromAvatar    string        `json:"fromAvatar"`
	To            ui.StyledText `json:"to"`
	ToAvatar      string        `json:"toAvatar,omitempty"`
	Value         string        `json:"value"`
	Block         string        `json:"block"`
	BlockHash     string        `json:"blockHash"`
	Timestamp     string        `json:"timestamp"`
	Confirmations string        `json:"confirmations"`

	// Filled only in full detail mode.
	Nonce    string `json:"nonce,omitempty"`
	GasPrice string `json:"gasPrice,omitempty"`
	GasLimit string `json:"gasLimit,omitempty"`
	GasUsed  string `json:"gasUsed,omitempty"`
	GasCost  string `json:"gasCost,omitempty"`
	Payload  string `json:"payload,omitempty"`
}

type ProfileDisplay struct {
	Address    ui.StyledText `json:"address"`
	Avatar     string        `json:"avatar"`
	Balance    string        `json:"balance"`
	Activity   string        `json:"activity"`
	Kind       string        `json:"kind"`
	CodePrefix string        `json:"codePrefix,omitempty"`
}

type BatchDisplay struct {
	Succeeded []*TxDisplay         `json:"succeeded"`
	Failed    []common.BatchFailure `json:"failed"`
}

type EventDisplay struct {
	Kind      string      `json:"kind"`
	ID        string      `json:"id"`
	Block     string      `json:"block"`
	Timestamp string      `json:"timestamp,omitempty"`
	TxHash    string      `json:"transactionHash,omitempty"`
	Fields    [][2]string `json:"fields"`
}

type FeedDisplay struct {
	Address   string         `json:"address"`
	FetchedAt string         `json:"fetchedAt"`
	Events    []EventDisplay `json:"events"`
}

type ChainInfoDisplay struct {
	Network      string `json:"network"`
	ChainID      string `json:"chainId"`
	Block        string `json:"block"`
	BlockTime    string `json:"blockTime"`
	GasPrice     string `json:"gasPrice"`
	BaseFee      string `json:"baseFee,omitempty"`
	GasTipCap    string `json:"maxPriorityFeePerGas,omitempty"`
	MaxFeePerGas string `json:"maxFeePerGas,omitempty"`
}

type ContractStateDisplay struct {
	Address string `json:"address"`
	Message string `json:"message"`
	Count   string `json:"count"`
	Owner   string `json:"owner"`
}

type RedPacketDisplay struct {
	Address     string `json:"address"`
	TotalAmount string `json:"totalAmount"`
	Count       string `json:"count"`
	Split       string `json:"split"`
	Account     string `json:"account"`
	Grabbed     string `json:"grabbed"`
}
