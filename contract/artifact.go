package contract

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

type artifact struct {
	ABI json.RawMessage `json:"abi"`
}

func parseArtifact(text string) (*abi.ABI, error) {
	var a artifact
	if err := json.Unmarshal([]byte(text), &a); err != nil {
		return nil, fmt.Errorf("couldn't parse abi artifact: %w", err)
	}
	if len(a.ABI) == 0 {
		return nil, fmt.Errorf("abi artifact has no abi field")
	}
	parsed, err := abi.JSON(strings.NewReader(string(a.ABI)))
	if err != nil {
		return nil, fmt.Errorf("couldn't parse abi artifact: %w", err)
	}
	return &parsed, nil
}
