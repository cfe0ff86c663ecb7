package common

import (
	"fmt"
	"math/big"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var numberPrinter = message.NewPrinter(language.English)

// ReadableNumber appends a digit grouped rendering to long integers, so
// "1234567" becomes "1234567 (1,234,567)".
func ReadableNumber(value string) string {
	if len(value) <= 4 {
		return value
	}
	n, ok := new(big.Int).SetString(value, 10)
	if !ok {
		return value
	}
	if n.IsInt64() {
		return fmt.Sprintf("%s (%s)", value, numberPrinter.Sprintf("%d", n.Int64()))
	}
	return value
}

// PlainAddress formats a resolved address with no ANSI color codes. Use it
// when the result is stored or serialized.
func PlainAddress(n NameResolution) string {
	if n.HasName() {
		return fmt.Sprintf("%s (%s)", n.Address.Hex(), n.Name)
	}
	return n.Address.Hex()
}
