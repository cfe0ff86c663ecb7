package networks

var ArbitrumMainnet Network = NewGenericNetwork(GenericNetworkConfig{
	Name:               "arbitrum",
	ChainID:            42161,
	NativeTokenSymbol:  "ETH",
	NativeTokenDecimal: 18,
	BlockTime:          2,
	NodeVariableName:   "ARBITRUM_MAINNET_NODE",
	DefaultNodes: map[string]string{
		"arbitrum": "https://arb1.arbitrum.io/rpc",
	},
})
