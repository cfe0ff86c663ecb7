package util

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tranvictor/chainlens/common"
)

func TestIsWellFormedTxHash(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"0x" + strings.Repeat("a", 64), true},
		{"0x" + strings.Repeat("A", 64), true},
		{"0x" + strings.Repeat("0", 64), true},
		{strings.Repeat("a", 64), false},
		{"0x" + strings.Repeat("a", 63), false},
		{"0x" + strings.Repeat("a", 65), false},
		{"0x" + strings.Repeat("g", 64), false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsWellFormedTxHash(tt.in), tt.in)
	}
}

func TestIsWellFormedAddress(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"0xd8dA6BF26964aF9D7eEd9e03E53415D37aA96045", true},
		{"0xd8da6bf26964af9d7eed9e03e53415d37aa96045", true},
		{"0xD8DA6BF26964AF9D7EED9E03E53415D37AA96045", true},
		// checksum broken in the second char
		{"0xD8dA6BF26964aF9D7eEd9e03E53415D37aA96045", false},
		{"0xd8da6bf26964af9d7eed9e03e53415d37aa9604", false},
		{"d8da6bf26964af9d7eed9e03e53415d37aa96045", false},
		{"0xzz", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsWellFormedAddress(tt.in), tt.in)
	}
}

func TestValidateReturnsValidationError(t *testing.T) {
	_, err := ValidateTxHash("0x123")
	var verr *common.ValidationError
	assert.True(t, errors.As(err, &verr))
	assert.Equal(t, "transaction hash", verr.Kind)

	_, err = ValidateAddress("nope")
	assert.True(t, errors.As(err, &verr))
	assert.Equal(t, "address", verr.Kind)
}

func TestScanForTxs(t *testing.T) {
	a := "0x" + strings.Repeat("1", 64)
	b := "0x" + strings.Repeat("2", 64)
	got := ScanForTxs(a + ", " + b + "\n" + a)
	assert.Equal(t, []string{a, b, a}, got)
	assert.Empty(t, ScanForTxs("nothing here"))
}

func TestScanForAddresses(t *testing.T) {
	got := ScanForAddresses("send to 0xd8da6bf26964af9d7eed9e03e53415d37aa96045 now")
	assert.Equal(t, []string{"0xd8da6bf26964af9d7eed9e03e53415d37aa96045"}, got)
}

func TestParamToBigInt(t *testing.T) {
	v, err := ParamToBigInt(" 0x10 ")
	assert.NoError(t, err)
	assert.Equal(t, int64(16), v.Int64())

	v, err = ParamToBigInt("123456789012345678901234567890")
	assert.NoError(t, err)
	assert.Equal(t, "123456789012345678901234567890", v.String())

	_, err = ParamToBigInt("abc")
	assert.Error(t, err)
}
