package cmd

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tranvictor/chainlens/common"
)

func TestExplain(t *testing.T) {
	assert.Equal(t, "0x12 is not a valid address",
		explain(&common.ValidationError{Kind: "address", Value: "0x12"}))
	assert.Equal(t, "The transaction does not exist on this network.",
		explain(fmt.Errorf("resolve: %w", &common.NotFoundError{Hash: "0xab"})))
	assert.Equal(t, "The transaction is pending, it has no receipt yet.",
		explain(&common.NotMinedError{Hash: "0xab"}))
	assert.Equal(t, "Couldn't read receipt from the nodes: boom",
		explain(&common.QueryError{Op: "receipt", Err: errors.New("boom")}))
	assert.Contains(t, explain(common.ErrNoContract), "--contract")
	assert.Contains(t, explain(common.ErrNoSigner), "--keystore")
	assert.Equal(t, "other", explain(errors.New("other")))
}

func TestParseAmount(t *testing.T) {
	v, err := parseAmount("0.5")
	require.NoError(t, err)
	assert.Equal(t, "500000000000000000", v.String())

	v, err = parseAmount(" 1000wei ")
	require.NoError(t, err)
	assert.Equal(t, "1000", v.String())

	_, err = parseAmount("abc")
	assert.Error(t, err)
}

func TestPositiveInterval(t *testing.T) {
	assert.NoError(t, positiveInterval(time.Second))

	var verr *common.ValidationError
	require.ErrorAs(t, positiveInterval(0), &verr)
	assert.Equal(t, "0s is not a valid interval", explain(positiveInterval(0)))
	require.ErrorAs(t, positiveInterval(-time.Second), &verr)
	assert.Equal(t, "-1s", verr.Value)
}
