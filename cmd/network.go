package cmd

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tranvictor/chainlens/networks"
	"github.com/tranvictor/chainlens/ui"
	"github.com/tranvictor/chainlens/util/display"
)

var (
	NetworkConfig string
	NetworkForce  bool
)

var addNetworkCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a new network to the supported networks list locally",
	Long: `--config takes a network config json file path OR a json string in the following format:
	{
		"name": "network_name",
		"alternative_names": ["alternative_name_1"],
		"chain_id": 1,
		"native_token_symbol": "ETH",
		"native_token_decimal": 18,
		"block_time": 12,
		"node_variable_name": "MY_NETWORK_NODE",
		"default_nodes": {
			"node_name_1": "node_url_1"
		},
		"ens_registry": "0x00000000000C2E074eC69A0dFb2997BA6C7d2e1e",
		"indexer_endpoint": "https://example.com/subgraphs/name/board"
	}
The network is saved to ~/.chainlens/networks/.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		u := ui.NewTerminalUI()
		content := []byte(strings.TrimSpace(NetworkConfig))
		if len(content) == 0 {
			return fmt.Errorf("--config is required")
		}
		if content[0] != '{' {
			var err error
			content, err = os.ReadFile(NetworkConfig)
			if err != nil {
				return fmt.Errorf("couldn't read the network config file: %w", err)
			}
		}
		newNetwork, err := networks.NewNetworkFromJSON(content)
		if err != nil {
			return fmt.Errorf("the provided json is not a valid network config: %w", err)
		}

		for _, name := range append([]string{newNetwork.GetName()}, newNetwork.GetAlternativeNames()...) {
			if _, err := networks.GetNetwork(name); err == nil {
				if !NetworkForce {
					return fmt.Errorf("network with name %s already exists, use --force to replace it", name)
				}
				u.Warn("Network with name %s already exists and will be replaced.", name)
			}
		}
		if err := networks.AddNetwork(newNetwork); err != nil {
			return err
		}
		u.Success("Network %s with chain ID %d added.", newNetwork.GetName(), newNetwork.GetChainID())
		return nil
	},
}

var listNetworkCmd = &cobra.Command{
	Use:   "list",
	Short: "Show all of supported networks",
	Run: func(cmd *cobra.Command, args []string) {
		u := ui.NewTerminalUI()
		groups := [][][]string{}
		for _, n := range networks.GetSupportedNetworks() {
			nodes := networks.Nodes(n)
			keys := make([]string, 0, len(nodes))
			for k := range nodes {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			group := [][]string{{n.GetName(), fmt.Sprintf("%d", n.GetChainID()), ""}}
			for _, k := range keys {
				group = append(group, []string{"", k, nodes[k]})
			}
			if n.GetIndexerEndpoint() != "" {
				group = append(group, []string{"", "indexer", n.GetIndexerEndpoint()})
			}
			groups = append(groups, group)
		}
		u.TableWithGroups([]string{"Network", "Chain ID / node", "URL"}, groups)
	},
}

var infoNetworkCmd = &cobra.Command{
	Use:   "info",
	Short: "Show head block and fee data of the network",
	RunE: func(cmd *cobra.Command, args []string) error {
		u := ui.NewTerminalUI()
		ops, err := openSession(cmd.Context(), u)
		if err != nil {
			u.Error("%s", explain(err))
			return err
		}
		defer ops.Synchronizer().Close()

		stop := u.Spinner("Reading chain...")
		info, err := ops.ChainInfo(cmd.Context())
		stop()
		if err != nil {
			u.Error("%s", explain(err))
			return err
		}
		return writeJSONOutput(display.DisplayChainInfo(u, info))
	},
}

var networkCmd = &cobra.Command{
	Use:   "network",
	Short: "Manage and inspect the networks chainlens supports",
}

func init() {
	addNetworkCmd.Flags().StringVarP(&NetworkConfig, "config", "C", "", "path to the network config json file, or the json itself")
	addNetworkCmd.Flags().BoolVar(&NetworkForce, "force", false, "replace a network with the same name")

	networkCmd.AddCommand(listNetworkCmd)
	networkCmd.AddCommand(addNetworkCmd)
	networkCmd.AddCommand(infoNetworkCmd)
	rootCmd.AddCommand(networkCmd)
}
