package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tranvictor/chainlens/config"
	"github.com/tranvictor/chainlens/networks"
	"github.com/tranvictor/chainlens/ui"
	"github.com/tranvictor/chainlens/util"
	"github.com/tranvictor/chainlens/util/display"
)

// txCmd represents the tx command
var txCmd = &cobra.Command{
	Use:   "info [tx hashes...]",
	Short: "Show a complete record of one or more transactions",
	Long: `Every 0x prefixed 32 byte hash found in the params is resolved. A single
hash is shown as a full record, several hashes are resolved concurrently
and shown as a batch with the failed ones listed separately.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		u := ui.NewTerminalUI()
		hashes := util.ScanForTxs(strings.Join(args, " "))
		if len(hashes) == 0 {
			u.Error("Couldn't find any tx hash in the params")
			return fmt.Errorf("no tx hash given")
		}

		ops, err := openSession(cmd.Context(), u)
		if err != nil {
			u.Error("%s", explain(err))
			return err
		}
		defer ops.Synchronizer().Close()
		network := networks.CurrentNetwork()

		if len(hashes) == 1 {
			stop := u.Spinner("Fetching transaction...")
			record, err := ops.ResolveTransaction(cmd.Context(), hashes[0])
			stop()
			if err != nil {
				u.Error("%s", explain(err))
				return err
			}
			return writeJSONOutput(display.DisplayTransaction(u, record, network, config.FullDetail))
		}

		stop := u.Spinner(fmt.Sprintf("Fetching %d transactions...", len(hashes)))
		result, err := ops.ResolveBatch(cmd.Context(), hashes)
		stop()
		if err != nil {
			u.Error("%s", explain(err))
			return err
		}
		return writeJSONOutput(display.DisplayBatch(u, result, network))
	},
}

func init() {
	txCmd.Flags().BoolVarP(&config.FullDetail, "verbose", "v", false, "also show nonce, gas, block hash and payload")
	txCmd.Flags().IntVar(&config.BatchConcurrency, "batch-concurrency", config.DefaultBatchConcurrency, "max transactions resolved at the same time")
	rootCmd.AddCommand(txCmd)
}
