package account

import (
	"crypto/ecdsa"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/crypto/ssh/terminal"
)

func PrivateKeyFromKeystore(file string, password string) (*ecdsa.PrivateKey, error) {
	content, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("couldn't read keystore: %w", err)
	}
	key, err := keystore.DecryptKey(content, password)
	if err != nil {
		return nil, fmt.Errorf("couldn't unlock %s: %w", filepath.Base(file), err)
	}
	return key.PrivateKey, nil
}

// FindKeystoreFile returns the keystore file in dir holding address. Geth
// names keystore files after the lower case hex address without 0x.
func FindKeystoreFile(dir string, address common.Address) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("couldn't read keystore dir: %w", err)
	}
	needle := strings.ToLower(address.Hex()[2:])
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.Contains(strings.ToLower(e.Name()), needle) {
			return filepath.Join(dir, e.Name()), nil
		}
	}
	return "", fmt.Errorf("no keystore for %s in %s", address.Hex(), dir)
}

// ReadPassword reads a password from the terminal without echoing it.
func ReadPassword(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	pwd, err := terminal.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	return string(pwd), nil
}
