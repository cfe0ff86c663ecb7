package broadcaster

import (
	"context"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func rpcServer(t *testing.T, fail bool, calls *int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(calls, 1)
		var req struct {
			ID     json.RawMessage `json:"id"`
			Method string          `json:"method"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		w.Header().Set("Content-Type", "application/json")
		if fail || req.Method != "eth_sendRawTransaction" {
			_ = json.NewEncoder(w).Encode(map[string]any{
				"jsonrpc": "2.0", "id": req.ID,
				"error": map[string]any{"code": -32000, "message": "nonce too low"},
			})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"jsonrpc": "2.0", "id": req.ID, "result": "0x01",
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func signedTx(t *testing.T) *types.Transaction {
	t.Helper()
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	tx := types.NewTx(&types.LegacyTx{
		Nonce:    1,
		To:       &ethcommon.Address{},
		Value:    big.NewInt(1),
		Gas:      21000,
		GasPrice: big.NewInt(1),
	})
	signed, err := types.SignTx(tx, types.NewEIP155Signer(big.NewInt(1)), key)
	require.NoError(t, err)
	return signed
}

func TestBroadcastSucceedsWhenOneNodeAccepts(t *testing.T) {
	var okCalls, badCalls int32
	good := rpcServer(t, false, &okCalls)
	bad := rpcServer(t, true, &badCalls)

	b := NewGenericBroadcaster(map[string]string{"good": good.URL, "bad": bad.URL}, zap.NewNop())
	defer b.Close()

	tx := signedTx(t)
	hash, ok, err := b.BroadcastTx(context.Background(), tx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, tx.Hash(), hash)
	assert.Equal(t, int32(1), atomic.LoadInt32(&okCalls))
	assert.Equal(t, int32(1), atomic.LoadInt32(&badCalls))
}

func TestBroadcastFailsWhenEveryNodeRejects(t *testing.T) {
	var calls int32
	bad := rpcServer(t, true, &calls)

	b := NewGenericBroadcaster(map[string]string{"bad": bad.URL}, nil)
	defer b.Close()

	_, ok, err := b.BroadcastTx(context.Background(), signedTx(t))
	assert.False(t, ok)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nonce too low")
}

func TestBroadcastRejectsGarbage(t *testing.T) {
	b := NewGenericBroadcaster(map[string]string{}, nil)
	_, ok, err := b.Broadcast(context.Background(), "0xzz")
	assert.False(t, ok)
	assert.Error(t, err)
}
