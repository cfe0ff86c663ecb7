package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tranvictor/chainlens/config"
	"github.com/tranvictor/chainlens/events"
	"github.com/tranvictor/chainlens/networks"
	"github.com/tranvictor/chainlens/session"
	"github.com/tranvictor/chainlens/ui"
	"github.com/tranvictor/chainlens/util"
	"github.com/tranvictor/chainlens/util/debounce"
	"github.com/tranvictor/chainlens/util/display"
)

type sessionChange struct {
	state session.State
	cur   *session.Session
}

// latestChange holds the newest session change until it is rendered. A
// change arriving before that replaces the pending one.
type latestChange struct {
	mu      sync.Mutex
	pending *sessionChange
	ready   chan struct{}
}

func newLatestChange() *latestChange {
	return &latestChange{ready: make(chan struct{}, 1)}
}

func (l *latestChange) put(c sessionChange) {
	l.mu.Lock()
	l.pending = &c
	l.mu.Unlock()
	select {
	case l.ready <- struct{}{}:
	default:
	}
}

func (l *latestChange) take() (sessionChange, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.pending == nil {
		return sessionChange{}, false
	}
	c := *l.pending
	l.pending = nil
	return c, true
}

// walletEvents returns the feed driving the session: the websocket feed
// when configured, otherwise a single connect of --from on the current
// network.
func walletEvents(ctx context.Context) (<-chan session.WalletEvent, error) {
	if config.WalletFeed != "" {
		return session.DialWalletFeed(ctx, config.WalletFeed, appLogger)
	}
	wallet := config.From
	if wallet == "" {
		wallet = ethcommon.Address{}.Hex()
	}
	ch := make(chan session.WalletEvent, 1)
	ch <- session.WalletEvent{
		Type:    session.EventConnect,
		Address: wallet,
		ChainID: networks.CurrentNetwork().GetChainID(),
	}
	return ch, nil
}

var sessionWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Follow a wallet connection and show the contract as it changes",
	Long: `Keeps one session in sync with the wallet events of --wallet-feed, a
websocket publishing messages like
	{"type":"connect","address":"0x...","chainId":11155111}
	{"type":"account-changed","address":"0x..."}
	{"type":"chain-changed","chainId":1}
	{"type":"disconnect"}
Without a feed the --from wallet is connected on the current network.

Type a contract address and press enter to switch contracts. Input is
applied once it has been quiet for --debounce.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		u := ui.NewTerminalUI()
		ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		cfg, err := contractConfig()
		if err != nil {
			return err
		}
		changes := newLatestChange()
		connector := session.NewNetworkConnector(keystoreWallet, appLogger)
		connector.ENSRegistry = config.ENSRegistry
		syncer := session.NewSynchronizer(connector, cfg,
			session.WithLogger(appLogger),
			session.WithOnChange(func(st session.State, cur *session.Session) {
				changes.put(sessionChange{st, cur})
			}),
		)
		defer syncer.Close()
		ops := session.NewOperations(syncer, chaindataOptions()...)

		var watcher *events.Watcher
		if poller, err := newPoller(); err == nil {
			watcher = events.NewWatcher(poller, appLogger)
		} else {
			u.Warn("Events are off: %s", err)
		}

		feed, err := walletEvents(ctx)
		if err != nil {
			return err
		}
		go syncer.Run(ctx, feed)

		addresses := debounce.New(config.Debounce, func(addr string) {
			if err := syncer.SetContractAddress(ctx, addr); err != nil {
				u.Error("%s", explain(err))
			}
		})
		defer addresses.Cancel()

		// stdin is left to the keystore password prompt until the first
		// connect settles
		reading := false
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-changes.ready:
				ch, ok := changes.take()
				if !ok {
					continue
				}
				renderSession(ctx, u, ops, watcher, ch)
				if !reading && ch.state != session.Connecting {
					reading = true
					go readContractAddresses(ctx, u, addresses)
				}
			}
		}
	},
}

func readContractAddresses(ctx context.Context, u ui.UI, d *debounce.Debouncer[string]) {
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if !util.IsWellFormedAddress(line) {
			u.Error("%s is not a valid address", line)
			continue
		}
		d.Push(line)
	}
}

func renderSession(ctx context.Context, u ui.UI, ops *session.Operations, watcher *events.Watcher, ch sessionChange) {
	if ch.cur == nil {
		u.Section(ch.state.String())
		return
	}
	network := ch.cur.Client.Network
	u.Section(fmt.Sprintf("%s on %s", ch.state, network.GetName()))
	u.KeyValue([][2]string{
		{"Session", ch.cur.ID},
		{"Wallet", ch.cur.WalletAddress.Hex()},
		{"Chain ID", fmt.Sprintf("%d", ch.cur.ChainID)},
	})

	if profile, err := ops.WalletProfile(ctx); err == nil {
		display.DisplayProfile(u, profile, network)
	} else {
		u.Warn("%s", explain(err))
	}
	if ch.cur.Contract == nil {
		u.Info("No contract bound. Type a contract address to bind one.")
		return
	}
	if state, err := ops.ContractState(ctx); err == nil {
		display.DisplayContractState(u, ch.cur.Contract, state)
	} else {
		u.Warn("%s", explain(err))
	}
	if watcher == nil {
		return
	}
	watcher.SetAddress(ch.cur.ContractAddress.Hex())
	feed, err := watcher.Refresh(ctx)
	if err != nil {
		appLogger.Debug("event refresh failed", zap.Error(err))
		u.Warn("%s", explain(err))
		return
	}
	display.DisplayFeed(u, feed)
}

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Work with a live wallet session",
}

func init() {
	sessionWatchCmd.Flags().StringVar(&config.WalletFeed, "wallet-feed", "", "websocket url publishing wallet events")
	sessionWatchCmd.Flags().DurationVar(&config.Debounce, "debounce", config.DefaultDebounce, "quiet period before a typed contract address is applied")
	addIndexerFlags(sessionWatchCmd)
	AddContractFlags(sessionCmd)
	AddWalletFlags(sessionCmd)
	sessionCmd.AddCommand(sessionWatchCmd)
	rootCmd.AddCommand(sessionCmd)
}
