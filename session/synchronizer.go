package session

import (
	"context"
	"fmt"
	"sync"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tranvictor/chainlens/common"
	"github.com/tranvictor/chainlens/contract"
	"github.com/tranvictor/chainlens/util"
)

// Synchronizer keeps exactly one live Session in step with the wallet
// connection. Only Handle and SetContractAddress mutate it.
type Synchronizer struct {
	connector Connector
	logger    *zap.Logger
	onChange  func(State, *Session)

	// transition serializes state changes. mu guards the fields below and
	// is only held for short reads and swaps.
	transition sync.Mutex
	mu         sync.RWMutex
	state      State
	current    *Session
	cfg        contract.Config
	generation uint64
	cancel     context.CancelFunc
}

type Option func(*Synchronizer)

func WithLogger(l *zap.Logger) Option {
	return func(s *Synchronizer) { s.logger = l }
}

// WithOnChange registers a callback invoked after every state change. It
// runs on the goroutine that made the change.
func WithOnChange(fn func(State, *Session)) Option {
	return func(s *Synchronizer) { s.onChange = fn }
}

func NewSynchronizer(connector Connector, cfg contract.Config, opts ...Option) *Synchronizer {
	s := &Synchronizer{
		connector: connector,
		cfg:       cfg,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	return s
}

func (s *Synchronizer) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Current returns the live session or ErrNoSession.
func (s *Synchronizer) Current() (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil, common.ErrNoSession
	}
	return s.current, nil
}

func (s *Synchronizer) Generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generation
}

func (s *Synchronizer) ContractConfig() contract.Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

// Handle applies one wallet event. It returns after the resulting state is
// installed.
func (s *Synchronizer) Handle(ctx context.Context, ev WalletEvent) error {
	s.transition.Lock()
	defer s.transition.Unlock()

	s.logger.Debug("wallet event",
		zap.String("type", string(ev.Type)),
		zap.String("address", ev.Address),
		zap.Uint64("chain_id", ev.ChainID),
	)
	switch ev.Type {
	case EventConnect:
		wallet, err := util.ValidateAddress(ev.Address)
		if err != nil {
			return err
		}
		return s.connect(ctx, wallet, ev.ChainID)
	case EventAccountChanged:
		wallet, err := util.ValidateAddress(ev.Address)
		if err != nil {
			return err
		}
		cur := s.snapshot()
		if cur == nil {
			s.logger.Debug("account change ignored while not connected")
			return nil
		}
		return s.rebind(ctx, cur.Client, wallet, s.ContractConfig())
	case EventChainChanged:
		cur := s.snapshot()
		if cur == nil {
			s.logger.Debug("chain change ignored while not connected")
			return nil
		}
		return s.connect(ctx, cur.WalletAddress, ev.ChainID)
	case EventDisconnect:
		s.teardown(Disconnected)
		return nil
	}
	return fmt.Errorf("unknown wallet event type %q", ev.Type)
}

// SetContractAddress overrides the configured contract address and rebinds
// the live session, if any.
func (s *Synchronizer) SetContractAddress(ctx context.Context, address string) error {
	addr, err := util.ValidateAddress(address)
	if err != nil {
		return err
	}
	s.transition.Lock()
	defer s.transition.Unlock()

	s.mu.Lock()
	s.cfg = s.cfg.WithAddress(addr)
	cfg := s.cfg
	cur := s.current
	s.mu.Unlock()

	if cur == nil {
		return nil
	}
	return s.rebind(ctx, cur.Client, cur.WalletAddress, cfg)
}

// Run applies events from feed until ctx ends or the feed closes. Errors
// are logged and the loop keeps going.
func (s *Synchronizer) Run(ctx context.Context, feed <-chan WalletEvent) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-feed:
			if !ok {
				return
			}
			if err := s.Handle(ctx, ev); err != nil {
				s.logger.Warn("couldn't apply wallet event",
					zap.String("type", string(ev.Type)),
					zap.Error(err),
				)
			}
		}
	}
}

// Close tears the live session down.
func (s *Synchronizer) Close() {
	s.transition.Lock()
	defer s.transition.Unlock()
	s.teardown(Disconnected)
}

func (s *Synchronizer) snapshot() *Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

func (s *Synchronizer) connect(ctx context.Context, wallet ethcommon.Address, chainID uint64) error {
	s.teardown(Connecting)

	client, err := s.connector.Dial(ctx, chainID)
	if err != nil {
		s.setState(Disconnected)
		return fmt.Errorf("couldn't connect to chain %d: %w", chainID, err)
	}
	cfg := s.ContractConfig()
	binding, err := s.connector.Bind(ctx, client, wallet, cfg)
	if err != nil {
		client.Close()
		s.setState(Disconnected)
		return fmt.Errorf("couldn't bind contract: %w", err)
	}
	s.install(client, wallet, cfg, binding)
	return nil
}

// rebind keeps the client and replaces the bound handles. The old client
// stays open since the new session shares it.
func (s *Synchronizer) rebind(ctx context.Context, client *Client, wallet ethcommon.Address, cfg contract.Config) error {
	binding, err := s.connector.Bind(ctx, client, wallet, cfg)
	if err != nil {
		s.teardown(Disconnected)
		return fmt.Errorf("couldn't bind contract: %w", err)
	}
	s.mu.Lock()
	s.advanceLocked()
	s.mu.Unlock()
	s.install(client, wallet, cfg, binding)
	return nil
}

func (s *Synchronizer) install(client *Client, wallet ethcommon.Address, cfg contract.Config, binding *Binding) {
	scope, cancel := context.WithCancel(context.Background())

	s.mu.Lock()
	s.generation++
	s.cancel = cancel
	s.current = &Session{
		ID:              uuid.NewString(),
		Generation:      s.generation,
		WalletAddress:   wallet,
		ChainID:         client.ChainID.Uint64(),
		ContractAddress: cfg.Address,
		Client:          client,
		Contract:        binding.Contract,
		Transactor:      binding.Transactor,
		scope:           scope,
	}
	s.state = Connected
	cur := s.current
	s.mu.Unlock()

	s.logger.Info("session installed",
		zap.String("id", cur.ID),
		zap.Uint64("generation", cur.Generation),
		zap.String("wallet", wallet.Hex()),
		zap.Uint64("chain_id", cur.ChainID),
		zap.String("contract", cfg.Address.Hex()),
	)
	s.notify(Connected, cur)
}

// advanceLocked cancels the scope of the live session and bumps the
// generation without closing its client.
func (s *Synchronizer) advanceLocked() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.current = nil
	s.generation++
}

// teardown clears the live session, closes its client and moves to next.
func (s *Synchronizer) teardown(next State) {
	s.mu.Lock()
	old := s.current
	s.advanceLocked()
	s.state = next
	s.mu.Unlock()

	if old != nil {
		old.Client.Close()
		s.logger.Info("session closed", zap.String("id", old.ID))
	}
	s.notify(next, nil)
}

func (s *Synchronizer) setState(st State) {
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
	s.notify(st, nil)
}

func (s *Synchronizer) notify(st State, cur *Session) {
	if s.onChange != nil {
		s.onChange(st, cur)
	}
}

// Do runs fn against the session that is live now. The context passed to
// fn ends with either ctx or the session. If the session was replaced or
// torn down while fn ran, its result is discarded and ErrStaleSession is
// returned.
func Do[T any](ctx context.Context, s *Synchronizer, fn func(context.Context, *Session) (T, error)) (T, error) {
	var zero T
	cur, err := s.Current()
	if err != nil {
		return zero, err
	}
	opCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(cur.scope, cancel)
	defer stop()

	res, err := fn(opCtx, cur)
	if s.Generation() != cur.Generation {
		return zero, common.ErrStaleSession
	}
	if err != nil {
		return zero, err
	}
	return res, nil
}
