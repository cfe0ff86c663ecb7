package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/tranvictor/chainlens/chaindata"
	"github.com/tranvictor/chainlens/common"
	"github.com/tranvictor/chainlens/config"
	"github.com/tranvictor/chainlens/contract"
	"github.com/tranvictor/chainlens/ens"
	"github.com/tranvictor/chainlens/networks"
	"github.com/tranvictor/chainlens/session"
	"github.com/tranvictor/chainlens/ui"
	"github.com/tranvictor/chainlens/util"
	"github.com/tranvictor/chainlens/util/account"
	"github.com/tranvictor/chainlens/util/cache"
	"github.com/tranvictor/chainlens/util/reader"
)

func chaindataOptions() []chaindata.Option {
	return []chaindata.Option{
		chaindata.WithNameTimeout(config.NameTimeout),
		chaindata.WithConcurrency(config.BatchConcurrency),
		chaindata.WithLogger(appLogger),
	}
}

// nameResolver returns nil on networks without an ENS registry so records
// come back without names.
func nameResolver(n networks.Network, r *reader.EthReader) chaindata.NameResolver {
	registry := config.ENSRegistry
	if registry == "" {
		registry = n.GetENSRegistry()
	}
	if registry == "" {
		return nil
	}
	return ens.NewResolver(r,
		ens.WithRegistry(ethcommon.HexToAddress(registry)),
		ens.WithCache(cache.NewNameCache(cache.DefaultSize, cache.DefaultTTL)),
		ens.WithLogger(appLogger),
	)
}

func contractConfig() (contract.Config, error) {
	cfg := contract.DefaultConfig(ethcommon.Address{})
	if config.ContractAddress != "" {
		addr, err := util.ValidateAddress(config.ContractAddress)
		if err != nil {
			return cfg, err
		}
		cfg.Address = addr
	}
	if config.ABIFile != "" {
		a, err := contract.ParseABI(config.ABIFile)
		if err != nil {
			return cfg, err
		}
		cfg.ABI = a
	}
	return cfg, nil
}

// keystoreWallet unlocks the keystore of address, asking for its password
// on the terminal. Addresses without a keystore are read only.
func keystoreWallet(address ethcommon.Address) (contract.Wallet, error) {
	if address == (ethcommon.Address{}) || config.KeystoreDir == "" {
		return nil, common.ErrNoSigner
	}
	file, err := account.FindKeystoreFile(config.KeystoreDir, address)
	if err != nil {
		appLogger.Debug("no keystore for wallet", zap.String("address", address.Hex()), zap.Error(err))
		return nil, common.ErrNoSigner
	}
	pwd, err := account.ReadPassword(fmt.Sprintf("Password of %s: ", address.Hex()))
	if err != nil {
		return nil, fmt.Errorf("couldn't read password: %w", err)
	}
	w, err := account.OpenKeystore(file, pwd)
	if err != nil {
		return nil, err
	}
	if w.Address() != address {
		return nil, fmt.Errorf("%s holds the key of %s, not %s", file, w.Address().Hex(), address.Hex())
	}
	return w, nil
}

// openSession connects a session for the --from wallet on the current
// network, as a wallet connect event would.
func openSession(ctx context.Context, u ui.UI) (*session.Operations, error) {
	cfg, err := contractConfig()
	if err != nil {
		return nil, err
	}
	connector := session.NewNetworkConnector(keystoreWallet, appLogger)
	connector.ENSRegistry = config.ENSRegistry
	sync := session.NewSynchronizer(connector, cfg, session.WithLogger(appLogger))

	wallet := ethcommon.Address{}.Hex()
	if config.From != "" {
		wallet = config.From
	}
	network := networks.CurrentNetwork()
	stop := u.Spinner(fmt.Sprintf("Connecting to %s...", network.GetName()))
	err = sync.Handle(ctx, session.WalletEvent{
		Type:    session.EventConnect,
		Address: wallet,
		ChainID: network.GetChainID(),
	})
	stop()
	if err != nil {
		return nil, err
	}
	return session.NewOperations(sync, chaindataOptions()...), nil
}

func writeJSONOutput(v any) error {
	if config.JSONOutputFile == "" {
		return nil
	}
	content, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(config.JSONOutputFile, content, 0o644); err != nil {
		return fmt.Errorf("couldn't write %s: %w", config.JSONOutputFile, err)
	}
	return nil
}

// explain turns the typed failures into one line for the user.
// positiveInterval rejects durations a ticker can't run with.
func positiveInterval(d time.Duration) error {
	if d <= 0 {
		return &common.ValidationError{Kind: "interval", Value: d.String()}
	}
	return nil
}

func explain(err error) string {
	var (
		verr *common.ValidationError
		nf   *common.NotFoundError
		nm   *common.NotMinedError
		qe   *common.QueryError
		se   *common.SubmissionError
	)
	switch {
	case errors.As(err, &verr):
		return fmt.Sprintf("%s is not a valid %s", verr.Value, verr.Kind)
	case errors.As(err, &nf):
		return "The transaction does not exist on this network."
	case errors.As(err, &nm):
		return "The transaction is pending, it has no receipt yet."
	case errors.As(err, &se):
		return se.Error()
	case errors.As(err, &qe):
		return fmt.Sprintf("Couldn't read %s from the nodes: %s", qe.Op, qe.Err)
	case errors.Is(err, common.ErrNoContract):
		return "No contract configured. Pass --contract or set " + config.EnvContract + "."
	case errors.Is(err, common.ErrNoSigner):
		return "The wallet can't sign. Pass --from and --keystore with a keystore of that address."
	}
	return err.Error()
}
