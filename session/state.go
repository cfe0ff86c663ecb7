package session

import (
	"context"
	"math/big"

	ethcommon "github.com/ethereum/go-ethereum/common"

	"github.com/tranvictor/chainlens/chaindata"
	"github.com/tranvictor/chainlens/contract"
	"github.com/tranvictor/chainlens/networks"
	"github.com/tranvictor/chainlens/util/monitor"
)

type State int

const (
	Disconnected State = iota
	Connecting
	Connected
)

func (s State) String() string {
	switch s {
	case Disconnected:
		return "disconnected"
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	}
	return "unknown"
}

type EventType string

const (
	EventConnect        EventType = "connect"
	EventAccountChanged EventType = "account-changed"
	EventChainChanged   EventType = "chain-changed"
	EventDisconnect     EventType = "disconnect"
)

// WalletEvent is a change of the externally owned wallet connection.
// Address is used by connect and account-changed, ChainID by connect and
// chain-changed.
type WalletEvent struct {
	Type    EventType `json:"type"`
	Address string    `json:"address,omitempty"`
	ChainID uint64    `json:"chainId,omitempty"`
}

// Reader is everything the session operations read from or build
// transactions against. reader.EthReader implements it.
type Reader interface {
	chaindata.ChainReader
	contract.Backend
}

// Client is the chain client handle of one session.
type Client struct {
	ChainID *big.Int
	Network networks.Network
	Reader  Reader
	Sender  contract.Sender
	// Names is nil on chains without a name registry.
	Names   chaindata.NameResolver
	Monitor *monitor.TxMonitor

	closer func()
}

func NewClient(chainID *big.Int, network networks.Network, r Reader, sender contract.Sender, names chaindata.NameResolver, m *monitor.TxMonitor, closer func()) *Client {
	return &Client{
		ChainID: chainID,
		Network: network,
		Reader:  r,
		Sender:  sender,
		Names:   names,
		Monitor: m,
		closer:  closer,
	}
}

func (c *Client) Close() {
	if c != nil && c.closer != nil {
		c.closer()
	}
}

// Binding is what Connector.Bind produces for one wallet and contract
// configuration. Contract is nil when no contract address is configured.
type Binding struct {
	Contract   *contract.Handle
	Transactor *contract.Transactor
}

// Session is an immutable snapshot of the live connection. A new Session
// replaces the old one on every connect, account change, chain change or
// contract override.
type Session struct {
	ID              string
	Generation      uint64
	WalletAddress   ethcommon.Address
	ChainID         uint64
	ContractAddress ethcommon.Address

	Client     *Client
	Contract   *contract.Handle
	Transactor *contract.Transactor

	scope context.Context
}

// Done is closed when the session is replaced or torn down.
func (s *Session) Done() <-chan struct{} {
	return s.scope.Done()
}
