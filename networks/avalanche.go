package networks

var AvalancheMainnet Network = NewGenericNetwork(GenericNetworkConfig{
	Name:               "avalanche",
	AlternativeNames:   []string{"avax"},
	ChainID:            43114,
	NativeTokenSymbol:  "AVAX",
	NativeTokenDecimal: 18,
	BlockTime:          2,
	NodeVariableName:   "AVALANCHE_MAINNET_NODE",
	DefaultNodes: map[string]string{
		"avalanche": "https://api.avax.network/ext/bc/C/rpc",
	},
})
