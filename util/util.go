package util

import (
	"fmt"
	"math/big"
	"regexp"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"go.uber.org/zap"

	"github.com/tranvictor/chainlens/networks"
	"github.com/tranvictor/chainlens/util/broadcaster"
	"github.com/tranvictor/chainlens/util/monitor"
	"github.com/tranvictor/chainlens/util/reader"
)

var (
	txRegexp   = regexp.MustCompile("0x[0-9a-fA-F]{64}")
	addrRegexp = regexp.MustCompile("0x[0-9a-fA-F]{40}([^0-9a-fA-F]|$)")
)

// ScanForTxs returns every tx hash looking substring of para, in order of
// appearance. Duplicates are kept.
func ScanForTxs(para string) []string {
	result := txRegexp.FindAllString(para, -1)
	if result == nil {
		return []string{}
	}
	return result
}

func ScanForAddresses(para string) []string {
	result := addrRegexp.FindAllString(para, -1)
	if result == nil {
		return []string{}
	}
	for i := 0; i < len(result); i++ {
		result[i] = result[i][0:42]
	}
	return result
}

func ParamToBigInt(param string) (*big.Int, error) {
	param = strings.Trim(param, " ")
	if len(param) > 2 && param[0:2] == "0x" {
		return hexutil.DecodeBig(param)
	}
	result, ok := new(big.Int).SetString(param, 10)
	if !ok {
		return nil, fmt.Errorf("%q is not a number", param)
	}
	return result, nil
}

func EthReader(network networks.Network, logger *zap.Logger) *reader.EthReader {
	return reader.NewEthReaderGeneric(networks.Nodes(network), logger)
}

func EthBroadcaster(network networks.Network, logger *zap.Logger) *broadcaster.Broadcaster {
	return broadcaster.NewGenericBroadcaster(networks.Nodes(network), logger)
}

func EthTxMonitor(r monitor.TxReader, logger *zap.Logger) *monitor.TxMonitor {
	return monitor.NewGenericTxMonitor(r, monitor.WithLogger(logger))
}
