package contract

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/tranvictor/chainlens/common"
)

// Handle is a contract bound to one session: its address and ABI plus the
// client and wallet that were current when it was bound.
type Handle struct {
	address    ethcommon.Address
	abi        *abi.ABI
	backend    Backend
	transactor *Transactor
}

func NewHandle(cfg Config, backend Backend, transactor *Transactor) (*Handle, error) {
	if cfg.Address == (ethcommon.Address{}) {
		return nil, common.ErrNoContract
	}
	contractABI := cfg.ABI
	if contractABI == nil {
		contractABI = DefaultABI()
	}
	return &Handle{
		address:    cfg.Address,
		abi:        contractABI,
		backend:    backend,
		transactor: transactor,
	}, nil
}

func (h *Handle) Address() ethcommon.Address {
	return h.address
}

func (h *Handle) ABI() *abi.ABI {
	return h.abi
}

// Call runs a read only method and returns its decoded outputs.
func (h *Handle) Call(ctx context.Context, method string, args ...interface{}) ([]interface{}, error) {
	data, err := h.abi.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("couldn't pack %s: %w", method, err)
	}
	msg := ethereum.CallMsg{To: &h.address, Data: data}
	if h.transactor != nil && h.transactor.wallet != nil {
		msg.From = h.transactor.wallet.Address()
	}
	out, err := h.backend.CallContract(ctx, msg, nil)
	if err != nil {
		return nil, &common.QueryError{Op: method, Err: err}
	}
	res, err := h.abi.Unpack(method, out)
	if err != nil {
		return nil, &common.QueryError{Op: method, Err: err}
	}
	return res, nil
}

// Transact sends a state changing call from the bound wallet.
func (h *Handle) Transact(ctx context.Context, method string, args ...interface{}) (*types.Transaction, error) {
	if h.transactor == nil {
		return nil, common.ErrNoSigner
	}
	data, err := h.abi.Pack(method, args...)
	if err != nil {
		return nil, &common.SubmissionError{Reason: "rejected", Err: fmt.Errorf("couldn't pack %s: %w", method, err)}
	}
	return h.transactor.Send(ctx, h.address, big.NewInt(0), data, 0)
}

type State struct {
	Message string            `json:"message"`
	Count   *big.Int          `json:"count"`
	Owner   ethcommon.Address `json:"owner"`
}

// State reads message, count and owner concurrently. All three are
// required.
func (h *Handle) State(ctx context.Context) (*State, error) {
	state := &State{}
	err, _ := common.RunParallel(
		func() error {
			out, err := h.Call(ctx, "getMessage")
			if err != nil {
				return err
			}
			state.Message = *abi.ConvertType(out[0], new(string)).(*string)
			return nil
		},
		func() error {
			out, err := h.Call(ctx, "getCount")
			if err != nil {
				return err
			}
			state.Count = *abi.ConvertType(out[0], new(*big.Int)).(**big.Int)
			return nil
		},
		func() error {
			out, err := h.Call(ctx, "getOwner")
			if err != nil {
				return err
			}
			state.Owner = *abi.ConvertType(out[0], new(ethcommon.Address)).(*ethcommon.Address)
			return nil
		},
	)
	if err != nil {
		return nil, err
	}
	return state, nil
}

func (h *Handle) SetMessage(ctx context.Context, message string) (*types.Transaction, error) {
	return h.Transact(ctx, "setMessage", message)
}

func (h *Handle) Increment(ctx context.Context) (*types.Transaction, error) {
	return h.Transact(ctx, "increment")
}
