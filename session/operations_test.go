package session

import (
	"context"
	"errors"
	"math/big"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ethereum/go-ethereum/crypto"

	"github.com/tranvictor/chainlens/common"
	"github.com/tranvictor/chainlens/util/account"
)

func TestOperationsWithoutSession(t *testing.T) {
	ops := NewOperations(newTestSync(t, &fakeConnector{}, board))
	ctx := context.Background()

	_, err := ops.ResolveTransaction(ctx, "0x"+strings.Repeat("ab", 32))
	assert.ErrorIs(t, err, common.ErrNoSession)
	_, err = ops.ContractState(ctx)
	assert.ErrorIs(t, err, common.ErrNoSession)
	_, err = ops.Increment(ctx, false)
	assert.ErrorIs(t, err, common.ErrNoSession)
}

func TestOperationsValidateBeforeReading(t *testing.T) {
	s := newTestSync(t, &fakeConnector{}, board)
	require.NoError(t, s.Handle(context.Background(), connectEvent(walletA, 1)))
	ops := NewOperations(s)
	ctx := context.Background()

	var verr *common.ValidationError
	_, err := ops.ResolveTransaction(ctx, "0xnothex")
	require.ErrorAs(t, err, &verr)
	_, err = ops.ProfileAddress(ctx, "0x12")
	require.ErrorAs(t, err, &verr)
	_, err = ops.Transfer(ctx, "nobody", big.NewInt(1), false)
	require.ErrorAs(t, err, &verr)
}

func TestOperationsWithoutContractOrSigner(t *testing.T) {
	s := newTestSync(t, &fakeConnector{}, "")
	require.NoError(t, s.Handle(context.Background(), connectEvent(walletA, 1)))
	ops := NewOperations(s)
	ctx := context.Background()

	_, err := ops.ContractState(ctx)
	assert.ErrorIs(t, err, common.ErrNoContract)
	_, err = ops.SetMessage(ctx, "gm", false)
	assert.ErrorIs(t, err, common.ErrNoContract)
	_, err = ops.Transfer(ctx, walletB, big.NewInt(1), false)
	assert.ErrorIs(t, err, common.ErrNoSigner)
}

func TestSubmitKeepsBroadcastTxWhenSessionChanges(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	wallet := account.NewKeyWallet(key)

	sender := &hookSender{}
	fc := &fakeConnector{reader: legacyChain{}, sender: sender, wallet: wallet}
	s := newTestSync(t, fc, "")
	ctx := context.Background()
	require.NoError(t, s.Handle(ctx, connectEvent(wallet.Address().Hex(), 1)))
	sender.onBroadcast = func(ctx context.Context) {
		require.NoError(t, s.Handle(context.Background(), WalletEvent{Type: EventAccountChanged, Address: walletB}))
	}

	sub, err := NewOperations(s).Transfer(ctx, walletB, big.NewInt(1), false)
	require.NotNil(t, sub)
	require.NotNil(t, sub.Tx)
	assert.Equal(t, 1, sender.count())

	var serr *common.SubmissionError
	require.True(t, errors.As(err, &serr))
	assert.Equal(t, sub.Tx.Hash().Hex(), serr.Hash)
	assert.Equal(t, "unconfirmed, session changed", serr.Reason)
	assert.ErrorIs(t, err, common.ErrStaleSession)

	cur, err := s.Current()
	require.NoError(t, err)
	assert.Equal(t, walletB, strings.ToLower(cur.WalletAddress.Hex()))
}

func TestSubmitFailureBeforeBroadcastHasNoSubmission(t *testing.T) {
	sender := &hookSender{}
	fc := &fakeConnector{reader: legacyChain{}, sender: sender}
	s := newTestSync(t, fc, "")
	require.NoError(t, s.Handle(context.Background(), connectEvent(walletA, 1)))

	sub, err := NewOperations(s).Transfer(context.Background(), walletB, big.NewInt(1), false)
	assert.Nil(t, sub)
	assert.ErrorIs(t, err, common.ErrNoSigner)
	assert.Equal(t, 0, sender.count())
}

func TestRedPacketOperationsValidateAndNeedSigner(t *testing.T) {
	s := newTestSync(t, &fakeConnector{}, "")
	require.NoError(t, s.Handle(context.Background(), connectEvent(walletA, 1)))
	ops := NewOperations(s)
	ctx := context.Background()

	var verr *common.ValidationError
	_, err := ops.RedPacketState(ctx, "packet")
	require.ErrorAs(t, err, &verr)
	_, err = ops.GrabRedPacket(ctx, "0x12", false)
	require.ErrorAs(t, err, &verr)

	sub, err := ops.GrabRedPacket(ctx, board, false)
	assert.Nil(t, sub)
	assert.ErrorIs(t, err, common.ErrNoSigner)
}

func TestChainInfoReadsThroughSession(t *testing.T) {
	s := newTestSync(t, &fakeConnector{reader: legacyChain{}}, "")
	require.NoError(t, s.Handle(context.Background(), connectEvent(walletA, 1)))

	info, err := NewOperations(s).ChainInfo(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(1), info.ChainID)
	assert.Equal(t, uint64(100), info.BlockNumber)
	assert.Equal(t, int64(1_000_000_000), info.GasPrice.Int64())
	assert.Nil(t, info.GasTipCap)
}
