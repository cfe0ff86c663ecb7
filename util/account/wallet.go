package account

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
)

// KeyWallet is an unlocked private key used as the session wallet from the
// command line.
type KeyWallet struct {
	key     *ecdsa.PrivateKey
	address common.Address
}

func NewKeyWallet(key *ecdsa.PrivateKey) *KeyWallet {
	return &KeyWallet{
		key:     key,
		address: crypto.PubkeyToAddress(key.PublicKey),
	}
}

// OpenKeystore decrypts a geth keystore file.
func OpenKeystore(file string, password string) (*KeyWallet, error) {
	key, err := PrivateKeyFromKeystore(file, password)
	if err != nil {
		return nil, err
	}
	return NewKeyWallet(key), nil
}

func (w *KeyWallet) Address() common.Address {
	return w.address
}

// SignTx signs with the signer go-ethereum picks for chainID, so legacy and
// dynamic fee txs both get replay protection.
func (w *KeyWallet) SignTx(ctx context.Context, tx *types.Transaction, chainID *big.Int) (*types.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	opts, err := bind.NewKeyedTransactorWithChainID(w.key, chainID)
	if err != nil {
		return nil, fmt.Errorf("couldn't build a signer for chain %s: %w", chainID, err)
	}
	signed, err := opts.Signer(w.address, tx)
	if err != nil {
		return nil, fmt.Errorf("couldn't sign the tx: %w", err)
	}
	return signed, nil
}
