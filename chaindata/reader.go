package chaindata

import (
	"context"
	"math/big"
	"time"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"

	"github.com/tranvictor/chainlens/common"
)

const DefaultNameTimeout = 3 * time.Second

// ChainReader is the chain client surface the resolvers depend on.
// reader.EthReader implements it.
type ChainReader interface {
	TransactionReceipt(ctx context.Context, hash ethcommon.Hash) (*types.Receipt, error)
	TransactionByHash(ctx context.Context, hash ethcommon.Hash) (*common.Transaction, bool, error)
	HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error)
	BlockNumber(ctx context.Context) (uint64, error)
	BalanceAt(ctx context.Context, address ethcommon.Address) (*big.Int, error)
	NonceAt(ctx context.Context, address ethcommon.Address) (uint64, error)
	CodeAt(ctx context.Context, address ethcommon.Address) ([]byte, error)
	ChainID(ctx context.Context) (*big.Int, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	SuggestGasTipCap(ctx context.Context) (*big.Int, error)
}

// NameResolver never fails; absent names come back empty.
type NameResolver interface {
	Resolve(ctx context.Context, addr ethcommon.Address) common.NameResolution
}

type options struct {
	nameTimeout time.Duration
	concurrency int
	logger      *zap.Logger
}

type Option func(*options)

// WithNameTimeout bounds how long a record waits for name lookups.
func WithNameTimeout(d time.Duration) Option {
	return func(o *options) { o.nameTimeout = d }
}

// WithConcurrency caps the number of in flight resolutions of a batch.
func WithConcurrency(n int) Option {
	return func(o *options) { o.concurrency = n }
}

func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.logger = l }
}

func buildOptions(opts []Option) options {
	o := options{
		nameTimeout: DefaultNameTimeout,
		concurrency: DefaultConcurrency,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.nameTimeout <= 0 {
		o.nameTimeout = DefaultNameTimeout
	}
	if o.concurrency <= 0 {
		o.concurrency = DefaultConcurrency
	}
	return o
}

// resolveName runs a lookup bounded by timeout. When names is nil or the
// lookup runs late, the address comes back without a name.
func resolveName(ctx context.Context, names NameResolver, addr ethcommon.Address, timeout time.Duration) common.NameResolution {
	if names == nil {
		return common.NameResolution{Address: addr}
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	done := make(chan common.NameResolution, 1)
	go func() {
		done <- names.Resolve(ctx, addr)
	}()
	select {
	case res := <-done:
		return res
	case <-ctx.Done():
		return common.NameResolution{Address: addr}
	}
}
