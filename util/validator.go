package util

import (
	"regexp"
	"strings"

	ethcommon "github.com/ethereum/go-ethereum/common"

	"github.com/tranvictor/chainlens/common"
)

var (
	txHashRegexp  = regexp.MustCompile("^0x[0-9a-fA-F]{64}$")
	addressRegexp = regexp.MustCompile("^0x[0-9a-fA-F]{40}$")
)

func IsWellFormedTxHash(s string) bool {
	return txHashRegexp.MatchString(s)
}

// IsWellFormedAddress accepts all lower or all upper case hex as is. Mixed
// case must carry a valid EIP-55 checksum.
func IsWellFormedAddress(s string) bool {
	if !addressRegexp.MatchString(s) {
		return false
	}
	body := s[2:]
	if body == strings.ToLower(body) || body == strings.ToUpper(body) {
		return true
	}
	return ethcommon.HexToAddress(s).Hex() == s
}

func ValidateTxHash(s string) (ethcommon.Hash, error) {
	if !IsWellFormedTxHash(s) {
		return ethcommon.Hash{}, &common.ValidationError{Kind: "transaction hash", Value: s}
	}
	return ethcommon.HexToHash(s), nil
}

func ValidateAddress(s string) (ethcommon.Address, error) {
	if !IsWellFormedAddress(s) {
		return ethcommon.Address{}, &common.ValidationError{Kind: "address", Value: s}
	}
	return ethcommon.HexToAddress(s), nil
}
