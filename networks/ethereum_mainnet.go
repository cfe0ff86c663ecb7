package networks

var EthereumMainnet Network = NewGenericNetwork(GenericNetworkConfig{
	Name:               "mainnet",
	AlternativeNames:   []string{"ethereum", "eth"},
	ChainID:            1,
	NativeTokenSymbol:  "ETH",
	NativeTokenDecimal: 18,
	BlockTime:          12,
	NodeVariableName:   "ETHEREUM_MAINNET_NODE",
	DefaultNodes: map[string]string{
		"mainnet-llamarpc":   "https://eth.llamarpc.com",
		"mainnet-publicnode": "https://ethereum-rpc.publicnode.com",
	},
	ENSRegistry: "0x00000000000C2E074eC69A0dFb2997BA6C7d2e1e",
})
