package common

import (
	"encoding/json"
	"math/big"
	"testing"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rpcJSON(t *testing.T, tx *types.Transaction, extra map[string]any) []byte {
	t.Helper()
	raw, err := tx.MarshalJSON()
	require.NoError(t, err)
	fields := map[string]any{}
	require.NoError(t, json.Unmarshal(raw, &fields))
	for k, v := range extra {
		fields[k] = v
	}
	out, err := json.Marshal(fields)
	require.NoError(t, err)
	return out
}

func signedTx(t *testing.T) (*types.Transaction, ethcommon.Address) {
	t.Helper()
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	chainID := big.NewInt(1)
	tx, err := types.SignNewTx(key, types.LatestSignerForChainID(chainID), &types.DynamicFeeTx{
		ChainID:   chainID,
		Nonce:     3,
		GasTipCap: big.NewInt(1),
		GasFeeCap: big.NewInt(10),
		Gas:       21000,
		To:        &ethcommon.Address{},
		Value:     big.NewInt(5),
	})
	require.NoError(t, err)
	return tx, crypto.PubkeyToAddress(key.PublicKey)
}

func TestTransactionDecodesInclusion(t *testing.T) {
	tx, _ := signedTx(t)
	reported := ethcommon.HexToAddress("0x00000000000000000000000000000000000000aa")
	var got Transaction
	require.NoError(t, json.Unmarshal(rpcJSON(t, tx, map[string]any{
		"blockNumber": "0x10",
		"blockHash":   ethcommon.HexToHash("0x01").Hex(),
		"from":        reported.Hex(),
	}), &got))

	assert.False(t, got.IsPending())
	assert.Equal(t, int64(16), got.Inclusion.BlockNumber.ToInt().Int64())
	assert.Equal(t, uint64(3), got.Nonce())
	sender, err := got.Sender()
	require.NoError(t, err)
	assert.Equal(t, reported, sender)
}

func TestPendingTransactionRecoversSender(t *testing.T) {
	tx, from := signedTx(t)
	var got Transaction
	require.NoError(t, json.Unmarshal(rpcJSON(t, tx, map[string]any{"blockNumber": nil}), &got))

	assert.True(t, got.IsPending())
	sender, err := got.Sender()
	require.NoError(t, err)
	assert.Equal(t, from, sender)
}
