package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/tranvictor/chainlens/config"
	"github.com/tranvictor/chainlens/events"
	"github.com/tranvictor/chainlens/networks"
	"github.com/tranvictor/chainlens/session"
	"github.com/tranvictor/chainlens/ui"
	"github.com/tranvictor/chainlens/util"
	"github.com/tranvictor/chainlens/util/display"
)

var redPacketCmd = &cobra.Command{
	Use:   "redpacket",
	Short: "Inspect and grab red packet contracts",
}

// showRedPacket prints the packet state, then its latest deposits and grabs
// when --indexer is set.
func showRedPacket(ctx context.Context, u ui.UI, ops *session.Operations, address string) error {
	state, err := ops.RedPacketState(ctx, address)
	if err != nil {
		u.Error("%s", explain(err))
		return err
	}
	d := display.DisplayRedPacket(u, state, networks.CurrentNetwork())
	if config.IndexerEndpoint == "" {
		return writeJSONOutput(d)
	}
	kinds, _ := events.KindSet("redpacket")
	feed, err := events.NewPoller(config.IndexerEndpoint,
		events.WithKinds(kinds),
		events.WithWindow(config.EventWindow),
		events.WithLogger(appLogger),
	).Poll(ctx, address)
	if err != nil {
		u.Warn("%s", explain(err))
		return writeJSONOutput(d)
	}
	display.DisplayFeed(u, feed)
	return writeJSONOutput(d)
}

var redPacketStateCmd = &cobra.Command{
	Use:   "state [packet address]",
	Short: "Show total amount, shares, split and what the --from wallet grabbed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		u := ui.NewTerminalUI()
		if _, err := util.ValidateAddress(args[0]); err != nil {
			u.Error("%s", explain(err))
			return err
		}
		ops, err := openSession(cmd.Context(), u)
		if err != nil {
			u.Error("%s", explain(err))
			return err
		}
		defer ops.Synchronizer().Close()
		return showRedPacket(cmd.Context(), u, ops, args[0])
	},
}

var redPacketGrabCmd = &cobra.Command{
	Use:   "grab [packet address]",
	Short: "Call grabRedPacket from the --from wallet",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		u := ui.NewTerminalUI()
		packet := args[0]
		if _, err := util.ValidateAddress(packet); err != nil {
			u.Error("%s", explain(err))
			return err
		}
		ops, err := openSession(cmd.Context(), u)
		if err != nil {
			u.Error("%s", explain(err))
			return err
		}
		defer ops.Synchronizer().Close()
		ctx := cmd.Context()

		cur, err := ops.Synchronizer().Current()
		if err != nil {
			u.Error("%s", explain(err))
			return err
		}
		u.Critical("grabRedPacket() on %s from %s", packet, cur.WalletAddress.Hex())
		if !config.YesToAll && !u.Confirm("Sign and broadcast?", false) {
			u.Warn("Aborted.")
			return nil
		}
		stop := func() {}
		if !config.DontWaitToBeMined {
			stop = u.Spinner("Waiting for the transaction to be mined...")
		}
		sub, err := ops.GrabRedPacket(ctx, packet, !config.DontWaitToBeMined)
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
		return showRedPacket(ctx, u, ops, packet)
	},
}

func init() {
	AddWalletFlags(redPacketCmd)
	redPacketCmd.PersistentFlags().StringVar(&config.IndexerEndpoint, "indexer", "", "GraphQL endpoint serving the packet's deposits and grabs")
	redPacketCmd.PersistentFlags().IntVar(&config.EventWindow, "window", config.DefaultEventWindow, "latest deposits and grabs shown")
	redPacketCmd.AddCommand(redPacketStateCmd)
	redPacketCmd.AddCommand(redPacketGrabCmd)
	rootCmd.AddCommand(redPacketCmd)
}
