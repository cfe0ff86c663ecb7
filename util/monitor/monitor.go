package monitor

import (
	"context"
	"errors"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"

	"github.com/tranvictor/chainlens/common"
)

const (
	DefaultInterval  = 5 * time.Second
	DefaultLostAfter = 3 * time.Minute
)

// TxReader is the part of the chain client the monitor polls.
type TxReader interface {
	TransactionReceipt(ctx context.Context, hash ethcommon.Hash) (*types.Receipt, error)
	TransactionByHash(ctx context.Context, hash ethcommon.Hash) (*common.Transaction, bool, error)
	HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error)
}

// MinedTx is the outcome of a successful wait.
type MinedTx struct {
	Hash    ethcommon.Hash
	Receipt *types.Receipt
	Header  *types.Header
}

type TxMonitor struct {
	reader    TxReader
	interval  time.Duration
	lostAfter time.Duration
	logger    *zap.Logger
}

type Option func(*TxMonitor)

func WithInterval(d time.Duration) Option {
	return func(m *TxMonitor) { m.interval = d }
}

// WithLostAfter sets how long a tx may stay unknown to every node before it
// is reported lost. A tx seen at least once is never reported lost.
func WithLostAfter(d time.Duration) Option {
	return func(m *TxMonitor) { m.lostAfter = d }
}

func WithLogger(l *zap.Logger) Option {
	return func(m *TxMonitor) { m.logger = l }
}

func NewGenericTxMonitor(r TxReader, opts ...Option) *TxMonitor {
	m := &TxMonitor{
		reader:    r,
		interval:  DefaultInterval,
		lostAfter: DefaultLostAfter,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// WaitMined blocks until hash is mined, the tx is considered lost, or ctx
// ends. A mined tx whose receipt status is not 1 is reported as reverted.
func (tm *TxMonitor) WaitMined(ctx context.Context, hash ethcommon.Hash) (*MinedTx, error) {
	ticker := time.NewTicker(tm.interval)
	defer ticker.Stop()
	startTime := time.Now()
	isOnNode := false
	for {
		receipt, err := tm.reader.TransactionReceipt(ctx, hash)
		switch {
		case err == nil && receipt != nil:
			header, herr := tm.reader.HeaderByNumber(ctx, receipt.BlockNumber)
			if herr != nil {
				tm.logger.Debug("couldn't read block of mined tx", zap.String("tx", hash.Hex()), zap.Error(herr))
			}
			mined := &MinedTx{Hash: hash, Receipt: receipt, Header: header}
			if receipt.Status != types.ReceiptStatusSuccessful {
				return mined, &common.SubmissionError{Hash: hash.Hex(), Reason: "reverted"}
			}
			return mined, nil
		case err == nil || errors.Is(err, ethereum.NotFound):
			if !isOnNode {
				if _, _, terr := tm.reader.TransactionByHash(ctx, hash); terr == nil {
					isOnNode = true
				} else if time.Since(startTime) > tm.lostAfter {
					return nil, &common.SubmissionError{Hash: hash.Hex(), Reason: "lost"}
				}
			}
		default:
			tm.logger.Debug("receipt poll failed", zap.String("tx", hash.Hex()), zap.Error(err))
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}
