package chaindata

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/tranvictor/chainlens/common"
	"github.com/tranvictor/chainlens/util"
	"github.com/tranvictor/chainlens/util/telemetry"
)

type TransactionResolver struct {
	reader ChainReader
	names  NameResolver
	opts   options
}

func NewTransactionResolver(r ChainReader, names NameResolver, opts ...Option) *TransactionResolver {
	return &TransactionResolver{
		reader: r,
		names:  names,
		opts:   buildOptions(opts),
	}
}

// Resolve builds the full record of a mined transaction. The receipt is
// fetched first; when it is missing the transaction itself decides between
// NotFoundError and NotMinedError.
func (tr *TransactionResolver) Resolve(ctx context.Context, txHash string) (record *common.TransactionRecord, err error) {
	hash, err := util.ValidateTxHash(txHash)
	if err != nil {
		return nil, err
	}
	ctx, span := telemetry.Start(ctx, "chaindata.ResolveTransaction", attribute.String("tx", hash.Hex()))
	defer func() { telemetry.End(span, err) }()

	receipt, err := tr.reader.TransactionReceipt(ctx, hash)
	if err != nil && !errors.Is(err, ethereum.NotFound) {
		return nil, &common.QueryError{Op: "receipt", Err: err}
	}
	if receipt == nil {
		return nil, tr.missingReceipt(ctx, hash)
	}

	var (
		tx     *common.Transaction
		header *types.Header
		head   uint64
		names  sync.WaitGroup
		from   common.NameResolution
		to     common.NameResolution
	)
	err, _ = common.RunParallel(
		func() error {
			t, _, err := tr.reader.TransactionByHash(ctx, hash)
			if err != nil {
				return &common.QueryError{Op: "transaction", Err: err}
			}
			sender, err := t.Sender()
			if err != nil {
				return &common.QueryError{Op: "sender", Err: err}
			}
			tx = t
			names.Add(1)
			go func() {
				defer names.Done()
				from = resolveName(ctx, tr.names, sender, tr.opts.nameTimeout)
			}()
			if recipient := t.To(); recipient != nil {
				names.Add(1)
				go func() {
					defer names.Done()
					to = resolveName(ctx, tr.names, *recipient, tr.opts.nameTimeout)
				}()
			}
			return nil
		},
		func() error {
			h, err := tr.reader.HeaderByNumber(ctx, receipt.BlockNumber)
			if err != nil {
				return &common.QueryError{Op: "block", Err: err}
			}
			header = h
			return nil
		},
		func() error {
			n, err := tr.reader.BlockNumber(ctx)
			if err != nil {
				return &common.QueryError{Op: "head", Err: err}
			}
			head = n
			return nil
		},
	)
	names.Wait()
	if err != nil {
		return nil, firstQueryError(err)
	}

	sender, _ := tx.Sender()
	record = &common.TransactionRecord{
		Hash:           hash,
		From:           sender,
		To:             tx.To(),
		ValueWei:       tx.Value(),
		GasPriceWei:    tx.GasPrice(),
		GasLimit:       tx.Gas(),
		GasUsed:        receipt.GasUsed,
		Nonce:          tx.Nonce(),
		Payload:        tx.Data(),
		BlockNumber:    receipt.BlockNumber.Uint64(),
		BlockHash:      receipt.BlockHash,
		BlockTimestamp: time.Unix(int64(header.Time), 0).UTC(),
		Confirmations:  confirmations(head, receipt.BlockNumber.Uint64()),
		Status:         common.StatusFromReceipt(receipt.Status),
		FromName:       from,
		ToName:         to,
	}
	if receipt.EffectiveGasPrice != nil && receipt.EffectiveGasPrice.Sign() > 0 {
		record.GasPriceWei = receipt.EffectiveGasPrice
	}
	if record.To == nil {
		record.ToName = common.NameResolution{}
	}
	return record, nil
}

func (tr *TransactionResolver) missingReceipt(ctx context.Context, hash ethcommon.Hash) error {
	_, _, err := tr.reader.TransactionByHash(ctx, hash)
	switch {
	case err == nil:
		return &common.NotMinedError{Hash: hash.Hex()}
	case errors.Is(err, ethereum.NotFound):
		return &common.NotFoundError{Hash: hash.Hex()}
	default:
		tr.opts.logger.Debug("tx lookup after missing receipt failed", zap.String("tx", hash.Hex()), zap.Error(err))
		return &common.QueryError{Op: "transaction", Err: err}
	}
}

// confirmations counts the including block itself. A node whose head lags
// the receipt reports zero.
func confirmations(head, block uint64) uint64 {
	if head < block {
		return 0
	}
	return head - block + 1
}

// firstQueryError unpacks the joined error of RunParallel so callers can
// errors.As a single *QueryError.
func firstQueryError(err error) error {
	var qerr *common.QueryError
	if errors.As(err, &qerr) {
		return qerr
	}
	return err
}
