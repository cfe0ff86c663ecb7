package networks

var BSCMainnet Network = NewGenericNetwork(GenericNetworkConfig{
	Name:               "bsc",
	AlternativeNames:   []string{"bnb"},
	ChainID:            56,
	NativeTokenSymbol:  "BNB",
	NativeTokenDecimal: 18,
	BlockTime:          3,
	NodeVariableName:   "BSC_MAINNET_NODE",
	DefaultNodes: map[string]string{
		"binance": "https://bsc-dataseed.binance.org",
		"defibit": "https://bsc-dataseed1.defibit.io",
	},
})
