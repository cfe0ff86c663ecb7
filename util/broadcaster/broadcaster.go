package broadcaster

import (
	"context"
	"fmt"
	"time"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/rpc"
	"go.uber.org/zap"

	"github.com/tranvictor/chainlens/common"
)

const TIMEOUT = 4 * time.Second

// Broadcaster takes a signed tx and try to broadcast it to all
// nodes that it manages as fast as possible. The tx counts as broadcasted
// once at least one node accepted it.
type Broadcaster struct {
	clients map[string]*rpc.Client
	logger  *zap.Logger
}

func (b *Broadcaster) GetNodes() map[string]*rpc.Client {
	return b.clients
}

func (b *Broadcaster) broadcast(
	ctx context.Context,
	client *rpc.Client, data string,
) error {
	return client.CallContext(ctx, nil, "eth_sendRawTransaction", data)
}

func (b *Broadcaster) BroadcastTx(ctx context.Context, tx *types.Transaction) (ethcommon.Hash, bool, error) {
	data, err := tx.MarshalBinary()
	if err != nil {
		return ethcommon.Hash{}, false, fmt.Errorf("tx is not valid, couldn't use rlp to encode it: %w", err)
	}
	_, ok, err := b.Broadcast(ctx, hexutil.Encode(data))
	return tx.Hash(), ok, err
}

// Broadcast sends data, the hex encoding of a signed tx, to every node.
func (b *Broadcaster) Broadcast(ctx context.Context, data string) (ethcommon.Hash, bool, error) {
	hash, err := rawTxToHash(data)
	if err != nil {
		return ethcommon.Hash{}, false, err
	}
	if len(b.clients) == 0 {
		return hash, false, fmt.Errorf("no node to broadcast to")
	}
	parallelTasks := []func() error{}
	timeout, cancel := context.WithTimeout(ctx, TIMEOUT)
	defer cancel()
	for id := range b.clients {
		name, cli := id, b.clients[id]
		parallelTasks = append(parallelTasks, func() error {
			if err := b.broadcast(timeout, cli, data); err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			return nil
		})
	}
	err, numErrs := common.RunParallel(parallelTasks...)
	if numErrs == len(b.clients) {
		return hash, false, err
	}
	if err != nil {
		b.logger.Debug("some nodes rejected the tx",
			zap.String("tx", hash.Hex()),
			zap.Int("failed", numErrs),
			zap.Error(err),
		)
	}
	return hash, true, nil
}

func rawTxToHash(data string) (ethcommon.Hash, error) {
	raw, err := hexutil.Decode(data)
	if err != nil {
		return ethcommon.Hash{}, fmt.Errorf("raw tx is not hex encoded: %w", err)
	}
	tx := new(types.Transaction)
	if err := tx.UnmarshalBinary(raw); err != nil {
		return ethcommon.Hash{}, fmt.Errorf("raw tx couldn't be decoded: %w", err)
	}
	return tx.Hash(), nil
}

// Close releases every node connection.
func (b *Broadcaster) Close() {
	for _, cli := range b.clients {
		cli.Close()
	}
}

func NewGenericBroadcaster(nodes map[string]string, logger *zap.Logger) *Broadcaster {
	if logger == nil {
		logger = zap.NewNop()
	}
	clients := map[string]*rpc.Client{}
	for name, c := range nodes {
		client, err := rpc.Dial(c)
		if err != nil {
			logger.Warn("couldn't connect to node", zap.String("node", name), zap.String("url", c), zap.Error(err))
		} else {
			clients[name] = client
		}
	}
	return &Broadcaster{
		clients: clients,
		logger:  logger,
	}
}
