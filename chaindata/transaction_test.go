package chaindata

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tranvictor/chainlens/common"
)

func TestResolveRejectsMalformedHashWithoutNetwork(t *testing.T) {
	chain := newFakeChain()
	tr := NewTransactionResolver(chain, &fakeNames{})

	for _, in := range []string{"", "0x123", strings.Repeat("a", 64), "0x" + strings.Repeat("z", 64)} {
		_, err := tr.Resolve(context.Background(), in)
		var verr *common.ValidationError
		assert.True(t, errors.As(err, &verr), in)
	}
	assert.Equal(t, 0, chain.Calls())
}

func TestResolveMinedTransaction(t *testing.T) {
	chain := newFakeChain()
	key := mustKey()
	sender := crypto.PubkeyToAddress(key.PublicKey)
	to := ethcommon.HexToAddress("0x00000000000000000000000000000000000000b0")
	hash := chain.minedTx(key, 4, &to, 100, 1)
	chain.head = 104

	names := &fakeNames{names: map[ethcommon.Address]string{sender: "alice.eth"}}
	record, err := NewTransactionResolver(chain, names).Resolve(context.Background(), hash.Hex())
	require.NoError(t, err)

	assert.Equal(t, hash, record.Hash)
	assert.Equal(t, sender, record.From)
	assert.Equal(t, to.Hex(), record.Recipient())
	assert.Equal(t, "1000000000000000000", record.ValueWei.String())
	assert.Equal(t, uint64(4), record.Nonce)
	assert.Equal(t, []byte{0xca, 0xfe}, record.Payload)
	assert.Equal(t, uint64(100), record.BlockNumber)
	assert.Equal(t, uint64(5), record.Confirmations)
	assert.Equal(t, common.TxSuccess, record.Status)
	assert.Equal(t, time.Unix(1700000000, 0).UTC(), record.BlockTimestamp)
	assert.Equal(t, "alice.eth", record.FromName.Name)
	assert.False(t, record.ToName.HasName())
}

func TestResolveStatusIsStrictlyReceiptStatus(t *testing.T) {
	chain := newFakeChain()
	key := mustKey()
	to := ethcommon.Address{}
	failed := chain.minedTx(key, 0, &to, 10, 0)
	ok := chain.minedTx(key, 1, &to, 10, 1)
	chain.head = 10

	tr := NewTransactionResolver(chain, nil)
	rec, err := tr.Resolve(context.Background(), failed.Hex())
	require.NoError(t, err)
	assert.Equal(t, common.TxFailure, rec.Status)

	rec, err = tr.Resolve(context.Background(), ok.Hex())
	require.NoError(t, err)
	assert.Equal(t, common.TxSuccess, rec.Status)
	assert.Equal(t, uint64(1), rec.Confirmations)
}

func TestResolveContractCreation(t *testing.T) {
	chain := newFakeChain()
	hash := chain.minedTx(mustKey(), 0, nil, 7, 1)
	chain.head = 7

	rec, err := NewTransactionResolver(chain, &fakeNames{}).Resolve(context.Background(), hash.Hex())
	require.NoError(t, err)
	assert.Nil(t, rec.To)
	assert.Equal(t, common.ContractCreation, rec.Recipient())
}

func TestResolveLaggingNodeHasZeroConfirmations(t *testing.T) {
	chain := newFakeChain()
	hash := chain.minedTx(mustKey(), 0, &ethcommon.Address{}, 50, 1)
	chain.head = 49

	rec, err := NewTransactionResolver(chain, nil).Resolve(context.Background(), hash.Hex())
	require.NoError(t, err)
	assert.Equal(t, uint64(0), rec.Confirmations)
}

func TestResolveUnknownHashIsNotFound(t *testing.T) {
	chain := newFakeChain()
	zero := "0x" + strings.Repeat("0", 64)

	_, err := NewTransactionResolver(chain, nil).Resolve(context.Background(), zero)
	var nf *common.NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, zero, nf.Hash)
}

func TestResolvePendingIsNotMined(t *testing.T) {
	chain := newFakeChain()
	hash := chain.pendingTx(mustKey())

	_, err := NewTransactionResolver(chain, nil).Resolve(context.Background(), hash.Hex())
	var nm *common.NotMinedError
	assert.True(t, errors.As(err, &nm))
}

func TestResolveReceiptFailureIsQueryError(t *testing.T) {
	chain := newFakeChain()
	hash := chain.minedTx(mustKey(), 0, &ethcommon.Address{}, 1, 1)
	chain.errs["receipt"] = errors.New("connection refused")

	_, err := NewTransactionResolver(chain, nil).Resolve(context.Background(), hash.Hex())
	var qerr *common.QueryError
	require.True(t, errors.As(err, &qerr))
	assert.Equal(t, "receipt", qerr.Op)
}

func TestResolveRequiredSubQueryFailure(t *testing.T) {
	chain := newFakeChain()
	hash := chain.minedTx(mustKey(), 0, &ethcommon.Address{}, 1, 1)
	chain.errs["head"] = errors.New("timeout")

	rec, err := NewTransactionResolver(chain, nil).Resolve(context.Background(), hash.Hex())
	assert.Nil(t, rec)
	var qerr *common.QueryError
	require.True(t, errors.As(err, &qerr))
	assert.Equal(t, "head", qerr.Op)
}

func TestResolveSlowNamesDoNotFailRecord(t *testing.T) {
	chain := newFakeChain()
	key := mustKey()
	sender := crypto.PubkeyToAddress(key.PublicKey)
	hash := chain.minedTx(key, 0, &ethcommon.Address{}, 1, 1)
	chain.head = 1

	names := &fakeNames{names: map[ethcommon.Address]string{sender: "slow.eth"}, delay: time.Second}
	start := time.Now()
	rec, err := NewTransactionResolver(chain, names, WithNameTimeout(20*time.Millisecond)).
		Resolve(context.Background(), hash.Hex())
	require.NoError(t, err)
	assert.Less(t, time.Since(start), 500*time.Millisecond)
	assert.Equal(t, sender, rec.FromName.Address)
	assert.Empty(t, rec.FromName.Name)
}
