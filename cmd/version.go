package cmd

import (
	"runtime"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/tranvictor/chainlens/networks"
	"github.com/tranvictor/chainlens/ui"
)

// Version is set at release time with -ldflags "-X github.com/tranvictor/chainlens/cmd.Version=...".
var Version = "0.1.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show chainlens version and build details",
	Run: func(cmd *cobra.Command, args []string) {
		u := ui.NewTerminalUI()
		u.KeyValue([][2]string{
			{"Version", Version},
			{"Go", runtime.Version()},
			{"Platform", runtime.GOOS + "/" + runtime.GOARCH},
			{"Networks", strconv.Itoa(len(networks.GetSupportedNetworks()))},
		})
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
