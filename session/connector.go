package session

import (
	"context"
	"errors"
	"fmt"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/tranvictor/chainlens/common"
	"github.com/tranvictor/chainlens/contract"
	"github.com/tranvictor/chainlens/ens"
	"github.com/tranvictor/chainlens/networks"
	"github.com/tranvictor/chainlens/util"
	"github.com/tranvictor/chainlens/util/cache"
)

// Connector builds the handles of a session.
type Connector interface {
	// Dial returns a client for chainID. The node must report that chain.
	Dial(ctx context.Context, chainID uint64) (*Client, error)
	// Bind binds the configured contract for wallet on client.
	Bind(ctx context.Context, client *Client, wallet ethcommon.Address, cfg contract.Config) (*Binding, error)
}

// WalletSource returns the signer for address, or common.ErrNoSigner when
// the address can only read.
type WalletSource func(address ethcommon.Address) (contract.Wallet, error)

// NetworkConnector dials the nodes of the supported networks.
type NetworkConnector struct {
	Wallets     WalletSource
	ENSRegistry string
	NameCache   *cache.NameCache
	Logger      *zap.Logger
}

func NewNetworkConnector(wallets WalletSource, logger *zap.Logger) *NetworkConnector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NetworkConnector{
		Wallets:   wallets,
		NameCache: cache.NewNameCache(cache.DefaultSize, cache.DefaultTTL),
		Logger:    logger,
	}
}

func (nc *NetworkConnector) Dial(ctx context.Context, chainID uint64) (*Client, error) {
	network, err := networks.GetNetworkByID(chainID)
	if err != nil {
		return nil, err
	}
	r := util.EthReader(network, nc.Logger)

	reported, err := r.ChainID(ctx)
	if err != nil {
		r.Close()
		return nil, &common.QueryError{Op: "network", Err: err}
	}
	if reported.Uint64() != chainID {
		r.Close()
		return nil, fmt.Errorf("nodes of %s report chain id %d, expected %d", network.GetName(), reported.Uint64(), chainID)
	}

	b := util.EthBroadcaster(network, nc.Logger)
	m := util.EthTxMonitor(r, nc.Logger)

	var names *ens.Resolver
	registry := nc.ENSRegistry
	if registry == "" {
		registry = network.GetENSRegistry()
	}
	if registry != "" {
		names = ens.NewResolver(r,
			ens.WithRegistry(ethcommon.HexToAddress(registry)),
			ens.WithCache(nc.NameCache),
			ens.WithLogger(nc.Logger),
		)
	}
	client := NewClient(reported, network, r, b, nil, m, func() {
		r.Close()
		b.Close()
	})
	if names != nil {
		client.Names = names
	}
	nc.Logger.Debug("dialed network",
		zap.String("network", network.GetName()),
		zap.Uint64("chain_id", chainID),
		zap.Strings("nodes", r.NodeNames()),
	)
	return client, nil
}

func (nc *NetworkConnector) Bind(ctx context.Context, client *Client, wallet ethcommon.Address, cfg contract.Config) (*Binding, error) {
	var signer contract.Wallet
	if nc.Wallets != nil {
		w, err := nc.Wallets(wallet)
		switch {
		case err == nil:
			signer = w
		case errors.Is(err, common.ErrNoSigner):
			nc.Logger.Debug("wallet is read only", zap.String("address", wallet.Hex()))
		default:
			return nil, err
		}
	}
	return BindWith(client, signer, cfg, nc.Logger)
}

// BindWith builds the binding of an already resolved signer, which may be
// nil for read only sessions.
func BindWith(client *Client, signer contract.Wallet, cfg contract.Config, logger *zap.Logger) (*Binding, error) {
	tr := contract.NewTransactor(client.Reader, client.Sender, signer, client.ChainID, logger)
	if cfg.Address == (ethcommon.Address{}) {
		return &Binding{Transactor: tr}, nil
	}
	h, err := contract.NewHandle(cfg, client.Reader, tr)
	if err != nil {
		return nil, err
	}
	return &Binding{Contract: h, Transactor: tr}, nil
}
