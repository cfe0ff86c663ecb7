package cmd

import (
	"github.com/spf13/cobra"

	"github.com/tranvictor/chainlens/config"
)

// AddContractFlags binds the contract the session reads and writes. Both
// fall back to CHAINLENS_CONTRACT and CHAINLENS_ABI.
func AddContractFlags(c *cobra.Command) {
	c.PersistentFlags().StringVarP(&config.ContractAddress, "contract", "c", "", "contract address to bind to the session")
	c.PersistentFlags().StringVar(&config.ABIFile, "abi", "", "ABI json or build artifact of the contract (message board ABI when empty)")
}

// AddWalletFlags binds the wallet used for writes. The wallet is read only
// unless --keystore holds a key for --from.
func AddWalletFlags(c *cobra.Command) {
	f := c.PersistentFlags()
	f.StringVarP(&config.From, "from", "f", "", "wallet address of the session")
	f.StringVar(&config.KeystoreDir, "keystore", "", "keystore directory holding the key of --from")
	f.BoolVarP(&config.DontWaitToBeMined, "no-wait", "F", false, "return once the tx is broadcast instead of waiting for its receipt")
	f.BoolVarP(&config.YesToAll, "yes", "y", false, "sign without asking for confirmation")
}
