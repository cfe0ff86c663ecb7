package cmd

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tranvictor/chainlens/common"
	"github.com/tranvictor/chainlens/config"
	"github.com/tranvictor/chainlens/networks"
	"github.com/tranvictor/chainlens/ui"
	"github.com/tranvictor/chainlens/util"
)

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Send native tokens from the --from wallet",
	Long: `Sends --amount of the network's native token to --to. A dynamic fee
transaction is built when the chain has a base fee, a legacy one otherwise.
It is signed with the keystore of --from and broadcast to every node.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		u := ui.NewTerminalUI()
		if config.From == "" || config.To == "" || config.Value == "" {
			return fmt.Errorf("--from, --to and --amount are required")
		}
		wei, err := parseAmount(config.Value)
		if err != nil {
			return err
		}
		ops, err := openSession(cmd.Context(), u)
		if err != nil {
			u.Error("%s", explain(err))
			return err
		}
		defer ops.Synchronizer().Close()

		symbol := networks.CurrentNetwork().GetNativeTokenSymbol()
		u.Critical("Send %s %s from %s to %s", common.WeiToEther(wei), symbol, config.From, config.To)
		if !config.YesToAll && !u.Confirm("Sign and broadcast?", false) {
			u.Warn("Aborted.")
			return nil
		}

		stop := func() {}
		if !config.DontWaitToBeMined {
			stop = u.Spinner("Waiting for the transaction to be mined...")
		}
		sub, err := ops.Transfer(cmd.Context(), config.To, wei, !config.DontWaitToBeMined)
		stop()
		if err != nil {
			u.Error("%s", explain(err))
			return err
		}
		u.Critical("Tx: %s", sub.Tx.Hash().Hex())
		if sub.Mined != nil {
			u.Success("Mined in block %d", sub.Mined.Receipt.BlockNumber.Uint64())
			record, err := ops.ResolveTransaction(cmd.Context(), sub.Tx.Hash().Hex())
			if err == nil {
				return writeJSONOutput(record)
			}
			appLogger.Warn("couldn't resolve the sent transaction", zap.Error(err))
		}
		return nil
	},
}

// parseAmount reads an ether amount, or a raw wei amount when suffixed with
// "wei".
func parseAmount(value string) (*big.Int, error) {
	value = strings.TrimSpace(value)
	if raw, ok := strings.CutSuffix(value, "wei"); ok {
		return util.ParamToBigInt(raw)
	}
	return common.EtherToWei(value)
}

func init() {
	AddWalletFlags(sendCmd)
	sendCmd.Flags().StringVarP(&config.To, "to", "t", "", "recipient address")
	sendCmd.Flags().StringVarP(&config.Value, "amount", "a", "", "amount in the native token, e.g. 0.01, or in wei with a wei suffix")
	rootCmd.AddCommand(sendCmd)
}
