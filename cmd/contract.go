package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tranvictor/chainlens/config"
	"github.com/tranvictor/chainlens/networks"
	"github.com/tranvictor/chainlens/session"
	"github.com/tranvictor/chainlens/ui"
	"github.com/tranvictor/chainlens/util/display"
)

var contractCmd = &cobra.Command{
	Use:   "contract",
	Short: "Read and write the configured message board contract",
}

func showContractState(ctx context.Context, u ui.UI, ops *session.Operations) error {
	state, err := ops.ContractState(ctx)
	if err != nil {
		u.Error("%s", explain(err))
		return err
	}
	cur, err := ops.Synchronizer().Current()
	if err != nil {
		return err
	}
	return writeJSONOutput(display.DisplayContractState(u, cur.Contract, state))
}

var contractStateCmd = &cobra.Command{
	Use:   "state",
	Short: "Show message, count and owner",
	RunE: func(cmd *cobra.Command, args []string) error {
		u := ui.NewTerminalUI()
		ops, err := openSession(cmd.Context(), u)
		if err != nil {
			u.Error("%s", explain(err))
			return err
		}
		defer ops.Synchronizer().Close()
		return showContractState(cmd.Context(), u, ops)
	},
}

// submitAndReport runs one write, waiting for it to be mined unless
// --no-wait is set, then shows the fresh contract state.
func submitAndReport(ctx context.Context, u ui.UI, ops *session.Operations, what string, send func(context.Context, bool) (*session.Submission, error)) error {
	cur, err := ops.Synchronizer().Current()
	if err != nil {
		return err
	}
	u.Critical("%s on %s from %s", what, cur.ContractAddress.Hex(), cur.WalletAddress.Hex())
	if !config.YesToAll && !u.Confirm("Sign and broadcast?", false) {
		u.Warn("Aborted.")
		return nil
	}

	stop := func() {}
	if !config.DontWaitToBeMined {
		stop = u.Spinner("Waiting for the transaction to be mined...")
	}
	sub, err := send(ctx, !config.DontWaitToBeMined)
	stop()
	if err != nil {
		u.Error("%s", explain(err))
		return err
	}
	u.Critical("Tx: %s", sub.Tx.Hash().Hex())
	if sub.Mined == nil {
		return nil
	}
	u.Success("Mined in block %d", sub.Mined.Receipt.BlockNumber.Uint64())
	return showContractState(ctx, u, ops)
}

var setMessageCmd = &cobra.Command{
	Use:   "set-message [message]",
	Short: "Call setMessage from the --from wallet",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		u := ui.NewTerminalUI()
		ops, err := openSession(cmd.Context(), u)
		if err != nil {
			u.Error("%s", explain(err))
			return err
		}
		defer ops.Synchronizer().Close()
		return submitAndReport(cmd.Context(), u, ops, fmt.Sprintf("setMessage(%q)", args[0]),
			func(ctx context.Context, wait bool) (*session.Submission, error) {
				return ops.SetMessage(ctx, args[0], wait)
			})
	},
}

var incrementCmd = &cobra.Command{
	Use:   "increment",
	Short: "Call increment from the --from wallet",
	RunE: func(cmd *cobra.Command, args []string) error {
		u := ui.NewTerminalUI()
		ops, err := openSession(cmd.Context(), u)
		if err != nil {
			u.Error("%s", explain(err))
			return err
		}
		defer ops.Synchronizer().Close()
		return submitAndReport(cmd.Context(), u, ops, "increment()", ops.Increment)
	},
}

var walletCmd = &cobra.Command{
	Use:   "wallet",
	Short: "Show the profile of the --from wallet on the current network",
	RunE: func(cmd *cobra.Command, args []string) error {
		u := ui.NewTerminalUI()
		if config.From == "" {
			return fmt.Errorf("--from is required")
		}
		ops, err := openSession(cmd.Context(), u)
		if err != nil {
			u.Error("%s", explain(err))
			return err
		}
		defer ops.Synchronizer().Close()
		profile, err := ops.WalletProfile(cmd.Context())
		if err != nil {
			u.Error("%s", explain(err))
			return err
		}
		return writeJSONOutput(display.DisplayProfile(u, profile, networks.CurrentNetwork()))
	},
}

func init() {
	AddContractFlags(contractCmd)
	AddWalletFlags(contractCmd)
	contractCmd.AddCommand(contractStateCmd)
	contractCmd.AddCommand(setMessageCmd)
	contractCmd.AddCommand(incrementCmd)
	rootCmd.AddCommand(contractCmd)

	AddWalletFlags(walletCmd)
	rootCmd.AddCommand(walletCmd)
}
