// Copyright © 2018 Victor Tran
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.


package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tranvictor/chainlens/config"
	"github.com/tranvictor/chainlens/networks"
	"github.com/tranvictor/chainlens/util/logger"
	"github.com/tranvictor/chainlens/util/telemetry"
)

var (
	appLogger     = zap.NewNop()
	shutdownTrace = func(context.Context) error { return nil }
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "chainlens",
	Short: "Look up transactions, addresses and contract events on EVM chains",
	Long: `chainlens reads chain data the way a wallet connected dApp shows it.

It resolves transaction hashes into complete records with confirmations and
ENS names, profiles addresses, reads and writes the configured contract and
follows the contract's events through a GraphQL indexer.

Nodes of every network can be overridden with an env var, e.g.
ETHEREUM_MAINNET_NODE or ETHEREUM_SEPOLIA_NODE. Settings can also come from
CHAINLENS_* env vars or a .env file in the working directory; flags always
win.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.LoadDotEnv(); err != nil {
			return fmt.Errorf("couldn't load .env: %w", err)
		}
		if err := config.ApplyEnv(cmd.Flags().Changed); err != nil {
			return err
		}
		l, err := logger.New(config.LogLevel, config.LogJSON)
		if err != nil {
			return err
		}
		appLogger = l
		shutdownTrace, err = telemetry.InitTracer(cmd.Context(), "chainlens", config.OtelEndpoint)
		if err != nil {
			return err
		}
		if _, err := networks.SetNetwork(networks.NetworkString); err != nil {
			return fmt.Errorf("unsupported network %q, supported: %v", networks.NetworkString, networks.GetSupportedNetworkNames())
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if err := shutdownTrace(context.Background()); err != nil {
			appLogger.Debug("couldn't flush traces", zap.Error(err))
		}
		appLogger.Sync()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	rootCmd.PersistentFlags().StringVarP(&networks.NetworkString, "network", "k", "mainnet", fmt.Sprintf("network to read from. Valid values: %v", networks.GetSupportedNetworkNames()))
	rootCmd.PersistentFlags().StringVar(&config.LogLevel, "log-level", "warn", "log level: debug, info, warn or error")
	rootCmd.PersistentFlags().BoolVar(&config.LogJSON, "log-json", false, "log as json instead of console lines")
	rootCmd.PersistentFlags().StringVar(&config.OtelEndpoint, "otel-endpoint", "", "OTLP/HTTP endpoint to export traces to, e.g. localhost:4318. Tracing is off when empty")
	rootCmd.PersistentFlags().StringVar(&config.ENSRegistry, "ens-registry", "", "ENS registry address. Defaults to the registry of the network")
	rootCmd.PersistentFlags().DurationVar(&config.NameTimeout, "name-timeout", config.DefaultNameTimeout, "how long a record waits for ENS names before showing plain addresses")
	rootCmd.PersistentFlags().StringVarP(&config.JSONOutputFile, "json-output", "o", "", "also write the result as json to this file")

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
