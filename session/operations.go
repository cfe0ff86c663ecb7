package session

import (
	"context"
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/core/types"
	"go.opentelemetry.io/otel/attribute"

	"github.com/tranvictor/chainlens/chaindata"
	"github.com/tranvictor/chainlens/common"
	"github.com/tranvictor/chainlens/contract"
	"github.com/tranvictor/chainlens/util"
	"github.com/tranvictor/chainlens/util/monitor"
	"github.com/tranvictor/chainlens/util/telemetry"
)

// Operations runs the chain data components against whichever session is
// live when each call starts.
type Operations struct {
	sync *Synchronizer
	opts []chaindata.Option
}

func NewOperations(s *Synchronizer, opts ...chaindata.Option) *Operations {
	return &Operations{sync: s, opts: opts}
}

func (o *Operations) Synchronizer() *Synchronizer {
	return o.sync
}

func (o *Operations) ResolveTransaction(ctx context.Context, hash string) (*common.TransactionRecord, error) {
	return Do(ctx, o.sync, func(ctx context.Context, s *Session) (*common.TransactionRecord, error) {
		return chaindata.NewTransactionResolver(s.Client.Reader, s.Client.Names, o.opts...).Resolve(ctx, hash)
	})
}

func (o *Operations) ResolveBatch(ctx context.Context, hashes []string) (*common.BatchResult, error) {
	return Do(ctx, o.sync, func(ctx context.Context, s *Session) (*common.BatchResult, error) {
		tr := chaindata.NewTransactionResolver(s.Client.Reader, s.Client.Names, o.opts...)
		return chaindata.NewBatchOrchestrator(tr, o.opts...).Run(ctx, hashes), nil
	})
}

func (o *Operations) ProfileAddress(ctx context.Context, address string) (*common.AddressProfile, error) {
	return Do(ctx, o.sync, func(ctx context.Context, s *Session) (*common.AddressProfile, error) {
		return chaindata.NewAddressProfiler(s.Client.Reader, s.Client.Names, o.opts...).Profile(ctx, address)
	})
}

func (o *Operations) ChainInfo(ctx context.Context) (*chaindata.ChainInfo, error) {
	return Do(ctx, o.sync, func(ctx context.Context, s *Session) (*chaindata.ChainInfo, error) {
		return chaindata.NewChainInfoReader(s.Client.Reader, o.opts...).Read(ctx)
	})
}

// WalletProfile profiles the connected wallet address.
func (o *Operations) WalletProfile(ctx context.Context) (*common.AddressProfile, error) {
	return Do(ctx, o.sync, func(ctx context.Context, s *Session) (*common.AddressProfile, error) {
		return chaindata.NewAddressProfiler(s.Client.Reader, s.Client.Names, o.opts...).Profile(ctx, s.WalletAddress.Hex())
	})
}

func (o *Operations) ContractState(ctx context.Context) (*contract.State, error) {
	return Do(ctx, o.sync, func(ctx context.Context, s *Session) (*contract.State, error) {
		if s.Contract == nil {
			return nil, common.ErrNoContract
		}
		return s.Contract.State(ctx)
	})
}

// Submission is a sent transaction and, when waited for, where it was
// mined.
type Submission struct {
	Tx    *types.Transaction
	Mined *monitor.MinedTx
}

func (o *Operations) SetMessage(ctx context.Context, message string, wait bool) (*Submission, error) {
	return o.submit(ctx, "session.SetMessage", wait, func(ctx context.Context, s *Session) (*types.Transaction, error) {
		if s.Contract == nil {
			return nil, common.ErrNoContract
		}
		return s.Contract.SetMessage(ctx, message)
	})
}

func (o *Operations) Increment(ctx context.Context, wait bool) (*Submission, error) {
	return o.submit(ctx, "session.Increment", wait, func(ctx context.Context, s *Session) (*types.Transaction, error) {
		if s.Contract == nil {
			return nil, common.ErrNoContract
		}
		return s.Contract.Increment(ctx)
	})
}

// Transfer sends wei of the native token from the wallet to to.
func (o *Operations) Transfer(ctx context.Context, to string, wei *big.Int, wait bool) (*Submission, error) {
	recipient, err := util.ValidateAddress(to)
	if err != nil {
		return nil, err
	}
	return o.submit(ctx, "session.Transfer", wait, func(ctx context.Context, s *Session) (*types.Transaction, error) {
		if s.Transactor == nil {
			return nil, common.ErrNoSigner
		}
		return s.Transactor.Send(ctx, recipient, wei, nil, 0)
	})
}

// RedPacketState reads the red packet at address and what the connected
// wallet grabbed from it.
func (o *Operations) RedPacketState(ctx context.Context, address string) (*contract.RedPacketState, error) {
	addr, err := util.ValidateAddress(address)
	if err != nil {
		return nil, err
	}
	return Do(ctx, o.sync, func(ctx context.Context, s *Session) (*contract.RedPacketState, error) {
		rp, err := contract.NewRedPacket(addr, s.Client.Reader, s.Transactor)
		if err != nil {
			return nil, err
		}
		return rp.State(ctx, s.WalletAddress)
	})
}

func (o *Operations) GrabRedPacket(ctx context.Context, address string, wait bool) (*Submission, error) {
	addr, err := util.ValidateAddress(address)
	if err != nil {
		return nil, err
	}
	return o.submit(ctx, "session.GrabRedPacket", wait, func(ctx context.Context, s *Session) (*types.Transaction, error) {
		if s.Transactor == nil {
			return nil, common.ErrNoSigner
		}
		rp, err := contract.NewRedPacket(addr, s.Client.Reader, s.Transactor)
		if err != nil {
			return nil, err
		}
		return rp.Grab(ctx)
	})
}

// submit sends a tx against the live session and optionally waits for it.
// Once the tx is broadcast the Submission is always returned, even when the
// session changes or the wait fails afterwards.
func (o *Operations) submit(ctx context.Context, op string, wait bool, send func(context.Context, *Session) (*types.Transaction, error)) (sub *Submission, err error) {
	ctx, span := telemetry.Start(ctx, op)
	defer func() { telemetry.End(span, err) }()

	var sent *Submission
	sub, err = Do(ctx, o.sync, func(ctx context.Context, s *Session) (*Submission, error) {
		tx, err := send(ctx, s)
		if err != nil {
			return nil, err
		}
		span.SetAttributes(attribute.String("tx", tx.Hash().Hex()))
		sent = &Submission{Tx: tx}
		if !wait || s.Client.Monitor == nil {
			return sent, nil
		}
		mined, err := s.Client.Monitor.WaitMined(ctx, tx.Hash())
		if err != nil {
			return sent, err
		}
		sent.Mined = mined
		return sent, nil
	})
	if err == nil || sent == nil {
		return sub, err
	}
	hash := sent.Tx.Hash().Hex()
	switch {
	case errors.Is(err, common.ErrStaleSession):
		err = &common.SubmissionError{Hash: hash, Reason: "unconfirmed, session changed", Err: err}
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		err = &common.SubmissionError{Hash: hash, Reason: "unconfirmed, wait ended", Err: err}
	}
	return sent, err
}
