package contract

import (
	"fmt"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	ethcommon "github.com/ethereum/go-ethereum/common"
)

// DefaultABIJSON describes the message board contract the tool targets by
// default.
const DefaultABIJSON = `[
	{"type":"function","name":"getMessage","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"string"}]},
	{"type":"function","name":"getCount","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"getOwner","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"address"}]},
	{"type":"function","name":"setMessage","stateMutability":"nonpayable","inputs":[{"name":"newMessage","type":"string"}],"outputs":[]},
	{"type":"function","name":"increment","stateMutability":"nonpayable","inputs":[],"outputs":[]},
	{"type":"event","name":"CountIncremented","anonymous":false,"inputs":[{"name":"newCount","type":"uint256","indexed":false}]},
	{"type":"event","name":"MessageUpdated","anonymous":false,"inputs":[{"name":"newMessage","type":"string","indexed":false},{"name":"updatedBy","type":"address","indexed":true}]}
]`

func DefaultABI() *abi.ABI {
	a, err := abi.JSON(strings.NewReader(DefaultABIJSON))
	if err != nil {
		panic(err)
	}
	return &a
}

// ParseABI reads an ABI from a JSON file. Both a bare ABI array and a build
// artifact carrying an "abi" field are accepted.
func ParseABI(path string) (*abi.ABI, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("couldn't read abi file: %w", err)
	}
	text := strings.TrimSpace(string(content))
	if strings.HasPrefix(text, "{") {
		return parseArtifact(text)
	}
	a, err := abi.JSON(strings.NewReader(text))
	if err != nil {
		return nil, fmt.Errorf("couldn't parse abi file: %w", err)
	}
	return &a, nil
}

// Config is the static contract configuration. Address may be replaced at
// runtime through the session.
type Config struct {
	Address ethcommon.Address
	ABI     *abi.ABI
}

func DefaultConfig(address ethcommon.Address) Config {
	return Config{Address: address, ABI: DefaultABI()}
}

func (c Config) WithAddress(addr ethcommon.Address) Config {
	c.Address = addr
	return c
}
