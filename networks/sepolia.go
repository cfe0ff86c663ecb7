package networks

var Sepolia Network = NewGenericNetwork(GenericNetworkConfig{
	Name:               "sepolia",
	ChainID:            11155111,
	NativeTokenSymbol:  "ETH",
	NativeTokenDecimal: 18,
	BlockTime:          12,
	NodeVariableName:   "ETHEREUM_SEPOLIA_NODE",
	DefaultNodes: map[string]string{
		"sepolia-publicnode": "https://ethereum-sepolia-rpc.publicnode.com",
	},
	ENSRegistry:     "0x00000000000C2E074eC69A0dFb2997BA6C7d2e1e",
	IndexerEndpoint: "https://api.studio.thegraph.com/query/119874/tx/v0.0.2",
})
