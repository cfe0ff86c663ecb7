package networks

import (
	"time"
)

type Network interface {
	GetName() string
	GetChainID() uint64
	GetAlternativeNames() []string
	GetNativeTokenSymbol() string
	GetNativeTokenDecimal() uint64
	GetBlockTime() time.Duration // in second

	GetNodeVariableName() string
	GetDefaultNodes() map[string]string

	// GetENSRegistry returns the ENS registry address on this chain, or an
	// empty string when the chain has no registry.
	GetENSRegistry() string
	// GetIndexerEndpoint returns the default GraphQL endpoint serving
	// decoded contract events on this chain, if any.
	GetIndexerEndpoint() string

	MarshalJSON() ([]byte, error)
}
