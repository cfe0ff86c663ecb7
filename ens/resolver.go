package ens

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/tranvictor/chainlens/common"
	"github.com/tranvictor/chainlens/util/cache"
	"github.com/tranvictor/chainlens/util/telemetry"
)

const DefaultRegistry = "0x00000000000C2E074eC69A0dFb2997BA6C7d2e1e"

// Caller runs read only contract calls. The chain reader satisfies it.
type Caller interface {
	CallContract(ctx context.Context, msg ethereum.CallMsg, atBlock *big.Int) ([]byte, error)
}

// Resolver maps addresses to their primary ENS name and avatar.
type Resolver struct {
	caller   Caller
	registry ethcommon.Address
	cache    *cache.NameCache
	logger   *zap.Logger
}

type Option func(*Resolver)

func WithRegistry(addr ethcommon.Address) Option {
	return func(r *Resolver) { r.registry = addr }
}

func WithCache(c *cache.NameCache) Option {
	return func(r *Resolver) { r.cache = c }
}

func WithLogger(l *zap.Logger) Option {
	return func(r *Resolver) { r.logger = l }
}

func NewResolver(caller Caller, opts ...Option) *Resolver {
	r := &Resolver{
		caller:   caller,
		registry: ethcommon.HexToAddress(DefaultRegistry),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Resolver) call(ctx context.Context, to ethcommon.Address, contractABI abi.ABI, method string, args ...interface{}) ([]interface{}, error) {
	data, err := contractABI.Pack(method, args...)
	if err != nil {
		return nil, err
	}
	out, err := r.caller.CallContract(ctx, ethereum.CallMsg{To: &to, Data: data}, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", method, err)
	}
	if len(out) == 0 {
		return nil, nil
	}
	return contractABI.Unpack(method, out)
}

func (r *Resolver) resolverOf(ctx context.Context, node ethcommon.Hash) (ethcommon.Address, error) {
	out, err := r.call(ctx, r.registry, registryABI, "resolver", node)
	if err != nil || len(out) == 0 {
		return ethcommon.Address{}, err
	}
	addr, _ := out[0].(ethcommon.Address)
	return addr, nil
}

func (r *Resolver) stringCall(ctx context.Context, resolver ethcommon.Address, method string, args ...interface{}) (string, error) {
	out, err := r.call(ctx, resolver, resolverABI, method, args...)
	if err != nil || len(out) == 0 {
		return "", err
	}
	s, _ := out[0].(string)
	return s, nil
}

// LookupName returns the primary name of addr, or "" when it has none or
// the name does not resolve back to addr.
func (r *Resolver) LookupName(ctx context.Context, addr ethcommon.Address) (string, error) {
	node := ReverseNode(addr)
	resolver, err := r.resolverOf(ctx, node)
	if err != nil {
		return "", err
	}
	if resolver == (ethcommon.Address{}) {
		return "", nil
	}
	name, err := r.stringCall(ctx, resolver, "name", node)
	if err != nil || name == "" {
		return "", err
	}

	forward := NameHash(name)
	fwdResolver, err := r.resolverOf(ctx, forward)
	if err != nil {
		return "", err
	}
	if fwdResolver == (ethcommon.Address{}) {
		return "", nil
	}
	out, err := r.call(ctx, fwdResolver, resolverABI, "addr", forward)
	if err != nil {
		return "", err
	}
	if len(out) == 0 {
		return "", nil
	}
	if resolved, _ := out[0].(ethcommon.Address); resolved != addr {
		r.logger.Debug("reverse record does not resolve back",
			zap.String("address", addr.Hex()),
			zap.String("name", name),
		)
		return "", nil
	}
	return name, nil
}

// LookupAvatar returns the avatar text record of name, "" when unset.
func (r *Resolver) LookupAvatar(ctx context.Context, name string) (string, error) {
	node := NameHash(name)
	resolver, err := r.resolverOf(ctx, node)
	if err != nil {
		return "", err
	}
	if resolver == (ethcommon.Address{}) {
		return "", nil
	}
	avatar, err := r.stringCall(ctx, resolver, "text", node, "avatar")
	return strings.TrimSpace(avatar), err
}

// Resolve never fails. Lookup errors leave the name or avatar empty and
// are only logged; only complete resolutions are cached.
func (r *Resolver) Resolve(ctx context.Context, addr ethcommon.Address) common.NameResolution {
	if r.cache != nil {
		if res, ok := r.cache.Get(addr); ok {
			return res
		}
	}
	ctx, span := telemetry.Start(ctx, "ens.Resolve", attribute.String("address", addr.Hex()))
	defer span.End()

	res := common.NameResolution{Address: addr}
	name, err := r.LookupName(ctx, addr)
	if err != nil {
		r.logger.Debug("name lookup failed", zap.String("address", addr.Hex()), zap.Error(err))
		span.RecordError(err)
		return res
	}
	res.Name = name
	if name != "" {
		avatar, err := r.LookupAvatar(ctx, name)
		if err != nil {
			r.logger.Debug("avatar lookup failed", zap.String("name", name), zap.Error(err))
			span.RecordError(err)
			return res
		}
		res.Avatar = avatar
	}
	if r.cache != nil {
		r.cache.Set(res)
	}
	return res
}
