package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tranvictor/chainlens/config"
	"github.com/tranvictor/chainlens/events"
	"github.com/tranvictor/chainlens/networks"
	"github.com/tranvictor/chainlens/ui"
	"github.com/tranvictor/chainlens/util/display"
)

func newPoller() (*events.Poller, error) {
	endpoint := config.IndexerEndpoint
	if endpoint == "" {
		endpoint = networks.CurrentNetwork().GetIndexerEndpoint()
	}
	if endpoint == "" {
		return nil, fmt.Errorf("%s has no default indexer, pass --indexer or set %s", networks.CurrentNetwork().GetName(), config.EnvIndexer)
	}
	kinds, err := events.KindSet(config.EventKinds)
	if err != nil {
		return nil, err
	}
	return events.NewPoller(endpoint,
		events.WithKinds(kinds),
		events.WithWindow(config.EventWindow),
		events.WithLogger(appLogger),
	), nil
}

func addIndexerFlags(c *cobra.Command) {
	c.Flags().StringVar(&config.IndexerEndpoint, "indexer", "", "GraphQL endpoint of the event indexer. Defaults to the indexer of the network")
	c.Flags().StringVar(&config.EventKinds, "event-kinds", events.DefaultKindSet, fmt.Sprintf("event kind set to show, one of %v", events.KindSetNames()))
	c.Flags().IntVar(&config.EventWindow, "window", config.DefaultEventWindow, "latest events shown per kind")
	c.Flags().DurationVar(&config.PollInterval, "interval", config.DefaultPollInterval, "refresh interval with --watch")
}

var eventsCmd = &cobra.Command{
	Use:   "events [contract address]",
	Short: "Show the latest events of a contract from the indexer",
	Long: `Shows the newest events of every kind in the kind set. The address
defaults to --contract. With --watch the feed is refreshed every --interval
until interrupted; a failed refresh keeps the last good feed.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		u := ui.NewTerminalUI()
		address := config.ContractAddress
		if len(args) == 1 {
			address = args[0]
		}
		poller, err := newPoller()
		if err != nil {
			return err
		}

		if !config.Watch {
			stop := u.Spinner("Querying indexer...")
			feed, err := poller.Poll(cmd.Context(), address)
			stop()
			if err != nil {
				u.Error("%s", explain(err))
				return err
			}
			return writeJSONOutput(display.DisplayFeed(u, feed))
		}

		if err := positiveInterval(config.PollInterval); err != nil {
			u.Error("%s", explain(err))
			return err
		}
		ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()
		watcher := events.NewWatcher(poller, appLogger)
		watcher.SetAddress(address)
		watcher.Run(ctx, config.PollInterval, func(feed *events.Feed, err error) {
			if err != nil {
				u.Error("%s", explain(err))
				if held, _ := watcher.Feed(); held != nil {
					u.Warn("Showing the feed fetched at %s", held.FetchedAt.Format("15:04:05"))
				}
				return
			}
			u.Section(fmt.Sprintf("%d events", feed.Len()))
			display.DisplayFeed(u, feed)
		})
		if feed, _ := watcher.Feed(); feed != nil && ctx.Err() == context.Canceled {
			return writeJSONOutput(feed)
		}
		return nil
	},
}

func init() {
	addIndexerFlags(eventsCmd)
	eventsCmd.Flags().BoolVarP(&config.Watch, "watch", "w", false, "keep refreshing the feed")
	AddContractFlags(eventsCmd)
	rootCmd.AddCommand(eventsCmd)
}
