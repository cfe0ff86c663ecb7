package common

import (
	"fmt"
	"math/big"
	"strings"
)

func exp10(decimal uint64) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), new(big.Int).SetUint64(decimal), nil)
}

// FloatStringToBig parses a decimal string such as "1.5" into its integer
// representation with the given number of decimals.
// Example:
// - FloatStringToBig("1.5", 18) = 1500000000000000000
// - FloatStringToBig("0.001", 3) = 1
func FloatStringToBig(value string, decimal uint64) (*big.Int, error) {
	value = strings.TrimSpace(value)
	r, ok := new(big.Rat).SetString(value)
	if !ok {
		return nil, fmt.Errorf("couldn't parse %q as a number", value)
	}
	if r.Sign() < 0 {
		return nil, fmt.Errorf("%q is negative", value)
	}
	r.Mul(r, new(big.Rat).SetInt(exp10(decimal)))
	if !r.IsInt() {
		return nil, fmt.Errorf("%q has more than %d decimals", value, decimal)
	}
	return new(big.Int).Set(r.Num()), nil
}

// BigToFloatString formats an integer amount with the given number of
// decimals, without trailing zeros.
// Example:
// - BigToFloatString(1100, 3) = "1.1"
// - BigToFloatString(1000, 3) = "1"
func BigToFloatString(value *big.Int, decimal uint64) string {
	if value == nil {
		return "0"
	}
	r := new(big.Rat).SetFrac(value, exp10(decimal))
	s := r.FloatString(int(decimal))
	if strings.Contains(s, ".") {
		s = strings.TrimRight(s, "0")
		s = strings.TrimSuffix(s, ".")
	}
	return s
}

// WeiToEther formats a wei amount in ether.
func WeiToEther(wei *big.Int) string {
	return BigToFloatString(wei, 18)
}

// WeiToGwei formats a wei amount in gwei.
func WeiToGwei(wei *big.Int) string {
	return BigToFloatString(wei, 9)
}

// EtherToWei parses an ether amount string into wei.
func EtherToWei(value string) (*big.Int, error) {
	return FloatStringToBig(value, 18)
}
