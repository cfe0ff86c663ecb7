package contract

import (
	"context"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/tranvictor/chainlens/common"
)

const RedPacketABIJSON = `[
	{"type":"function","name":"totalAmount","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"count","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"isEqual","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"bool"}]},
	{"type":"function","name":"isGrabbed","stateMutability":"view","inputs":[{"name":"account","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"grabRedPacket","stateMutability":"nonpayable","inputs":[],"outputs":[]}
]`

func RedPacketABI() *abi.ABI {
	a, err := abi.JSON(strings.NewReader(RedPacketABIJSON))
	if err != nil {
		panic(err)
	}
	return &a
}

// RedPacket is a deposit split among the first Count grabbers, evenly when
// IsEqual is set.
type RedPacket struct {
	handle *Handle
}

func NewRedPacket(address ethcommon.Address, backend Backend, transactor *Transactor) (*RedPacket, error) {
	h, err := NewHandle(Config{Address: address, ABI: RedPacketABI()}, backend, transactor)
	if err != nil {
		return nil, err
	}
	return &RedPacket{handle: h}, nil
}

func (rp *RedPacket) Address() ethcommon.Address {
	return rp.handle.Address()
}

type RedPacketState struct {
	Address     ethcommon.Address `json:"address"`
	TotalAmount *big.Int          `json:"totalAmount"`
	Count       *big.Int          `json:"count"`
	IsEqual     bool              `json:"isEqual"`
	Account     ethcommon.Address `json:"account"`
	// Grabbed is what Account took from the packet, zero if nothing.
	Grabbed *big.Int `json:"grabbed"`
}

func (s *RedPacketState) HasGrabbed() bool {
	return s.Grabbed != nil && s.Grabbed.Sign() > 0
}

func (rp *RedPacket) readUint(ctx context.Context, method string, args ...interface{}) (*big.Int, error) {
	out, err := rp.handle.Call(ctx, method, args...)
	if err != nil {
		return nil, err
	}
	return *abi.ConvertType(out[0], new(*big.Int)).(**big.Int), nil
}

// State reads the packet and the grab of account concurrently. All reads
// are required.
func (rp *RedPacket) State(ctx context.Context, account ethcommon.Address) (*RedPacketState, error) {
	state := &RedPacketState{Address: rp.Address(), Account: account}
	err, _ := common.RunParallel(
		func() (err error) {
			state.TotalAmount, err = rp.readUint(ctx, "totalAmount")
			return err
		},
		func() (err error) {
			state.Count, err = rp.readUint(ctx, "count")
			return err
		},
		func() error {
			out, err := rp.handle.Call(ctx, "isEqual")
			if err != nil {
				return err
			}
			state.IsEqual = *abi.ConvertType(out[0], new(bool)).(*bool)
			return nil
		},
		func() (err error) {
			state.Grabbed, err = rp.readUint(ctx, "isGrabbed", account)
			return err
		},
	)
	if err != nil {
		return nil, err
	}
	return state, nil
}

func (rp *RedPacket) Grab(ctx context.Context) (*types.Transaction, error) {
	return rp.handle.Transact(ctx, "grabRedPacket")
}
