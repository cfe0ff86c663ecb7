package cmd

import (
	"github.com/spf13/cobra"

	"github.com/tranvictor/chainlens/networks"
	"github.com/tranvictor/chainlens/ui"
	"github.com/tranvictor/chainlens/util"
	"github.com/tranvictor/chainlens/util/display"
)

var addressCmd = &cobra.Command{
	Use:   "addr [address]",
	Short: "Show balance, activity, code and ENS name of an address",
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

		stop := u.Spinner("Fetching address...")
		profile, err := ops.ProfileAddress(cmd.Context(), args[0])
		stop()
		if err != nil {
			u.Error("%s", explain(err))
			return err
		}
		return writeJSONOutput(display.DisplayProfile(u, profile, networks.CurrentNetwork()))
	},
}

func init() {
	rootCmd.AddCommand(addressCmd)
}
