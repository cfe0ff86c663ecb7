package ens

import (
	"strings"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// NameHash computes the ENS namehash of name. Labels are lower cased; full
// UTS-46 normalisation is not applied.
func NameHash(name string) ethcommon.Hash {
	var node ethcommon.Hash
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return node
	}
	labels := strings.Split(name, ".")
	for i := len(labels) - 1; i >= 0; i-- {
		labelHash := crypto.Keccak256([]byte(labels[i]))
		node = crypto.Keccak256Hash(node[:], labelHash)
	}
	return node
}

// ReverseNode is the node holding the primary name of addr.
func ReverseNode(addr ethcommon.Address) ethcommon.Hash {
	return NameHash(strings.ToLower(addr.Hex()[2:]) + ".addr.reverse")
}
