package networks

var Matic Network = NewGenericNetwork(GenericNetworkConfig{
	Name:               "polygon",
	AlternativeNames:   []string{"matic"},
	ChainID:            137,
	NativeTokenSymbol:  "POL",
	NativeTokenDecimal: 18,
	BlockTime:          2,
	NodeVariableName:   "POLYGON_MAINNET_NODE",
	DefaultNodes: map[string]string{
		"polygon": "https://polygon-rpc.com",
	},
})
