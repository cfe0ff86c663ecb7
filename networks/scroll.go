package networks

var ScrollMainnet Network = NewGenericNetwork(GenericNetworkConfig{
	Name:               "scroll",
	ChainID:            534352,
	NativeTokenSymbol:  "ETH",
	NativeTokenDecimal: 18,
	BlockTime:          3,
	NodeVariableName:   "SCROLL_MAINNET_NODE",
	DefaultNodes: map[string]string{
		"public-scroll": "https://rpc.scroll.io",
	},
})
