package contract

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tranvictor/chainlens/common"
)

var packet = ethcommon.HexToAddress("0x00000000000000000000000000000000000000d0")

type packetBackend struct {
	*fakeBackend
	total   *big.Int
	count   *big.Int
	equal   bool
	grabbed map[ethcommon.Address]*big.Int
}

func (p *packetBackend) CallContract(_ context.Context, msg ethereum.CallMsg, _ *big.Int) ([]byte, error) {
	if p.callErr != nil {
		return nil, p.callErr
	}
	method, err := RedPacketABI().MethodById(msg.Data[:4])
	if err != nil {
		return nil, err
	}
	switch method.Name {
	case "totalAmount":
		return method.Outputs.Pack(p.total)
	case "count":
		return method.Outputs.Pack(p.count)
	case "isEqual":
		return method.Outputs.Pack(p.equal)
	case "isGrabbed":
		args, err := method.Inputs.Unpack(msg.Data[4:])
		if err != nil {
			return nil, err
		}
		amount := p.grabbed[args[0].(ethcommon.Address)]
		if amount == nil {
			amount = big.NewInt(0)
		}
		return method.Outputs.Pack(amount)
	}
	return nil, errors.New("not a view")
}

func TestRedPacketState(t *testing.T) {
	grabber := ethcommon.HexToAddress("0x00000000000000000000000000000000000000aa")
	backend := &packetBackend{
		fakeBackend: &fakeBackend{},
		total:       big.NewInt(1_000_000),
		count:       big.NewInt(4),
		equal:       true,
		grabbed:     map[ethcommon.Address]*big.Int{grabber: big.NewInt(250_000)},
	}
	rp, err := NewRedPacket(packet, backend, nil)
	require.NoError(t, err)

	state, err := rp.State(context.Background(), grabber)
	require.NoError(t, err)
	assert.Equal(t, packet, state.Address)
	assert.Equal(t, int64(1_000_000), state.TotalAmount.Int64())
	assert.Equal(t, int64(4), state.Count.Int64())
	assert.True(t, state.IsEqual)
	assert.True(t, state.HasGrabbed())
	assert.Equal(t, int64(250_000), state.Grabbed.Int64())

	state, err = rp.State(context.Background(), ethcommon.Address{})
	require.NoError(t, err)
	assert.False(t, state.HasGrabbed())
}

func TestRedPacketStateFailureIsQueryError(t *testing.T) {
	backend := &packetBackend{fakeBackend: &fakeBackend{callErr: errors.New("execution reverted")}}
	rp, err := NewRedPacket(packet, backend, nil)
	require.NoError(t, err)
	_, err = rp.State(context.Background(), ethcommon.Address{})
	var qerr *common.QueryError
	assert.ErrorAs(t, err, &qerr)
}

func TestRedPacketGrab(t *testing.T) {
	backend := &packetBackend{fakeBackend: &fakeBackend{estimate: 40_000}}
	sender := &fakeSender{}
	h, w := newTestHandle(t, backend.fakeBackend, sender)
	rp, err := NewRedPacket(packet, backend, h.transactor)
	require.NoError(t, err)

	tx, err := rp.Grab(context.Background())
	require.NoError(t, err)
	require.Len(t, sender.sent, 1)
	assert.Equal(t, packet, *tx.To())
	assert.Equal(t, RedPacketABI().Methods["grabRedPacket"].ID, tx.Data()[:4])
	assert.Equal(t, w.Address(), backend.lastCall.From)
}

func TestRedPacketGrabWithoutWallet(t *testing.T) {
	rp, err := NewRedPacket(packet, &packetBackend{fakeBackend: &fakeBackend{}}, nil)
	require.NoError(t, err)
	_, err = rp.Grab(context.Background())
	assert.ErrorIs(t, err, common.ErrNoSigner)
}
