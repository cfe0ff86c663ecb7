package chaindata

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/tranvictor/chainlens/common"
	"github.com/tranvictor/chainlens/util/telemetry"
)

const DefaultConcurrency = 8

// TxResolver resolves one hash. TransactionResolver implements it.
type TxResolver interface {
	Resolve(ctx context.Context, txHash string) (*common.TransactionRecord, error)
}

type BatchOrchestrator struct {
	resolver TxResolver
	opts     options
}

func NewBatchOrchestrator(r TxResolver, opts ...Option) *BatchOrchestrator {
	return &BatchOrchestrator{
		resolver: r,
		opts:     buildOptions(opts),
	}
}

type batchItem struct {
	record *common.TransactionRecord
	err    error
}

// Run resolves every hash independently, repeated hashes included, and
// never aborts on a single failure. Both buckets of the result keep the
// input order.
func (bo *BatchOrchestrator) Run(ctx context.Context, hashes []string) *common.BatchResult {
	ctx, span := telemetry.Start(ctx, "chaindata.ResolveBatch", attribute.Int("size", len(hashes)))
	defer span.End()

	items := make([]batchItem, len(hashes))
	g := new(errgroup.Group)
	g.SetLimit(bo.opts.concurrency)
	for i, h := range hashes {
		g.Go(func() error {
			record, err := bo.resolver.Resolve(ctx, h)
			items[i] = batchItem{record: record, err: err}
			return nil
		})
	}
	_ = g.Wait()

	result := &common.BatchResult{
		Succeeded: []common.BatchSuccess{},
		Failed:    []common.BatchFailure{},
	}
	for i, item := range items {
		if item.err != nil {
			result.Failed = append(result.Failed, common.BatchFailure{Hash: hashes[i], Reason: item.err.Error()})
			continue
		}
		result.Succeeded = append(result.Succeeded, common.BatchSuccess{Hash: hashes[i], Record: item.record})
	}
	bo.opts.logger.Debug("batch resolved",
		zap.Int("total", len(hashes)),
		zap.Int("failed", len(result.Failed)),
	)
	span.SetAttributes(attribute.Int("failed", len(result.Failed)))
	return result
}
