package networks

// Localhost is a local development chain (ganache style), chain id 1337.
var Localhost Network = NewGenericNetwork(GenericNetworkConfig{
	Name:               "localhost",
	AlternativeNames:   []string{"local", "ganache"},
	ChainID:            1337,
	NativeTokenSymbol:  "ETH",
	NativeTokenDecimal: 18,
	BlockTime:          1,
	NodeVariableName:   "LOCALHOST_NODE",
	DefaultNodes: map[string]string{
		"localhost": "http://127.0.0.1:7545",
	},
})
