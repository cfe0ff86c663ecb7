package chaindata

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"github.com/tranvictor/chainlens/common"
	"github.com/tranvictor/chainlens/util"
	"github.com/tranvictor/chainlens/util/telemetry"
)

const codePrefixLength = 100

type AddressProfiler struct {
	reader ChainReader
	names  NameResolver
	opts   options
}

func NewAddressProfiler(r ChainReader, names NameResolver, opts ...Option) *AddressProfiler {
	return &AddressProfiler{
		reader: r,
		names:  names,
		opts:   buildOptions(opts),
	}
}

func (ap *AddressProfiler) Profile(ctx context.Context, address string) (profile *common.AddressProfile, err error) {
	addr, err := util.ValidateAddress(address)
	if err != nil {
		return nil, err
	}
	ctx, span := telemetry.Start(ctx, "chaindata.ProfileAddress", attribute.String("address", addr.Hex()))
	defer func() { telemetry.End(span, err) }()

	nameCtx, cancelNames := context.WithCancel(ctx)
	defer cancelNames()
	nameCh := make(chan common.NameResolution, 1)
	go func() {
		nameCh <- resolveName(nameCtx, ap.names, addr, ap.opts.nameTimeout)
	}()

	var (
		balance *big.Int
		nonce   uint64
		code    []byte
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		b, err := ap.reader.BalanceAt(gctx, addr)
		if err != nil {
			return &common.QueryError{Op: "balance", Err: err}
		}
		balance = b
		return nil
	})
	g.Go(func() error {
		n, err := ap.reader.NonceAt(gctx, addr)
		if err != nil {
			return &common.QueryError{Op: "nonce", Err: err}
		}
		nonce = n
		return nil
	})
	g.Go(func() error {
		c, err := ap.reader.CodeAt(gctx, addr)
		if err != nil {
			return &common.QueryError{Op: "code", Err: err}
		}
		code = c
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	name := <-nameCh
	profile = &common.AddressProfile{
		Address:       addr,
		BalanceWei:    balance,
		ActivityCount: nonce,
		IsContract:    len(code) > 0,
		ENSName:       name.Name,
		ENSAvatar:     name.Avatar,
	}
	if profile.IsContract {
		profile.CodePrefix = CodePrefix(code)
	}
	return profile, nil
}

// CodePrefix is the display form of contract code: at most the first 100
// characters of its hex encoding followed by "...".
func CodePrefix(code []byte) string {
	hex := hexutil.Encode(code)
	if len(hex) > codePrefixLength {
		hex = hex[:codePrefixLength]
	}
	return hex + "..."
}
