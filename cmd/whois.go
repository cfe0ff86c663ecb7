package cmd

import (
	"fmt"
	"strings"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"

	"github.com/tranvictor/chainlens/common"
	"github.com/tranvictor/chainlens/networks"
	"github.com/tranvictor/chainlens/ui"
	"github.com/tranvictor/chainlens/util"
	"github.com/tranvictor/chainlens/util/display"
)

var whoisCmd = &cobra.Command{
	Use:   "whois [addresses...]",
	Short: "Show ENS name and avatar of one or multiple addresses",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		u := ui.NewTerminalUI()
		addresses := util.ScanForAddresses(strings.Join(args, " "))
		if len(addresses) == 0 {
			u.Error("Couldn't find any addresses in the params")
			return fmt.Errorf("no address given")
		}

		network := networks.CurrentNetwork()
		r := util.EthReader(network, appLogger)
		defer r.Close()
		names := nameResolver(network, r)
		if names == nil {
			u.Warn("%s has no ENS registry, pass --ens-registry to use one", network.GetName())
		}

		results := []common.NameResolution{}
		rows := [][]string{}
		for _, a := range addresses {
			addr := ethcommon.HexToAddress(a)
			res := common.NameResolution{Address: addr}
			if names != nil {
				res = names.Resolve(cmd.Context(), addr)
			}
			name := "-"
			if res.HasName() {
				name = u.Style(ui.StyledText{Text: res.Name, Severity: ui.SeveritySuccess})
			}
			rows = append(rows, []string{addr.Hex(), name, display.AvatarOrPlaceholder(res)})
			results = append(results, res)
		}
		u.Table([]string{"Address", "Name", "Avatar"}, rows)
		return writeJSONOutput(results)
	},
}

func init() {
	rootCmd.AddCommand(whoisCmd)
}
