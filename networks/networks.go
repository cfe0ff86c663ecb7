package networks

import (
	"fmt"
	"os"
	"strings"
	"sync"
)

var (
	cachedNetwork Network
	mu            sync.Mutex
)

var NetworkString string

func CurrentNetwork() Network {
	mu.Lock()
	defer mu.Unlock()
	if cachedNetwork != nil {
		return cachedNetwork
	}
	cachedNetwork, _ = resolve(NetworkString)
	return cachedNetwork
}

// SetNetwork switches the current network. Unknown names fall back to
// mainnet and the lookup error is returned so callers can warn about it.
func SetNetwork(networkStr string) (Network, error) {
	mu.Lock()
	defer mu.Unlock()
	var err error
	cachedNetwork, err = resolve(networkStr)
	return cachedNetwork, err
}

func resolve(networkStr string) (Network, error) {
	if networkStr == "" {
		return EthereumMainnet, nil
	}
	n, err := GetNetwork(networkStr)
	if err != nil {
		return EthereumMainnet, err
	}
	return n, nil
}

// Nodes returns the node urls to use for a network. A non empty node
// variable in the environment replaces the default nodes.
func Nodes(n Network) map[string]string {
	custom := strings.TrimSpace(os.Getenv(n.GetNodeVariableName()))
	if custom == "" {
		return n.GetDefaultNodes()
	}
	return map[string]string{
		fmt.Sprintf("%s-custom-node", n.GetName()): custom,
	}
}
