package display

import (
	"encoding/json"
	"math/big"
	"testing"
	"time"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tranvictor/chainlens/chaindata"
	"github.com/tranvictor/chainlens/common"
	"github.com/tranvictor/chainlens/contract"
	"github.com/tranvictor/chainlens/events"
	"github.com/tranvictor/chainlens/networks"
	"github.com/tranvictor/chainlens/ui"
)

var (
	alice = ethcommon.HexToAddress("0x1111111111111111111111111111111111111111")
	bob   = ethcommon.HexToAddress("0x2222222222222222222222222222222222222222")
)

func sampleRecord() *common.TransactionRecord {
	to := bob
	return &common.TransactionRecord{
		Hash:           ethcommon.HexToHash("0xaa"),
		From:           alice,
		To:             &to,
		ValueWei:       big.NewInt(1500000000000000000),
		GasPriceWei:    big.NewInt(2000000000),
		GasLimit:       30000,
		GasUsed:        21000,
		Nonce:          7,
		BlockNumber:    1234567,
		BlockTimestamp: time.Unix(1700000000, 0),
		Confirmations:  3,
		Status:         common.TxSuccess,
		FromName:       common.NameResolution{Address: alice, Name: "alice.eth", Avatar: "https://a/alice.png"},
		ToName:         common.NameResolution{Address: bob},
	}
}

func TestAvatarOrPlaceholder(t *testing.T) {
	assert.Equal(t, "https://a/alice.png", AvatarOrPlaceholder(common.NameResolution{Address: alice, Avatar: "https://a/alice.png"}))
	assert.Equal(t,
		"https://api.dicebear.com/7.x/identicon/svg?seed="+bob.Hex()+"&backgroundColor=f3f4f6&size=32",
		AvatarOrPlaceholder(common.NameResolution{Address: bob}),
	)
}

func TestDisplayTransaction(t *testing.T) {
	u := ui.NewRecordingUI()
	d := DisplayTransaction(u, sampleRecord(), networks.EthereumMainnet, false)

	assert.Equal(t, "✓ success", d.Status.Text)
	assert.Equal(t, alice.Hex()+" (alice.eth)", d.From.Text)
	assert.Equal(t, "https://a/alice.png", d.FromAvatar)
	assert.Contains(t, d.ToAvatar, "dicebear")
	assert.Equal(t, "1.5 ETH", d.Value)
	assert.Equal(t, "1234567 (1,234,567)", d.Block)
	assert.Equal(t, "2023-11-14 22:13:20 UTC", d.Timestamp)
	assert.Empty(t, d.Nonce)
	assert.Contains(t, u.Values("TableRow"), "Status | ✓ success")
}

func TestDisplayTransactionFullDetail(t *testing.T) {
	u := ui.NewRecordingUI()
	r := sampleRecord()
	r.To = nil
	r.Status = common.TxFailure
	d := DisplayTransaction(u, r, networks.EthereumMainnet, true)

	assert.Equal(t, common.ContractCreation, d.To.Text)
	assert.Equal(t, ui.SeverityError, d.Status.Severity)
	assert.Equal(t, "2 gwei", d.GasPrice)
	assert.Equal(t, "0.000042 ETH", d.GasCost)
	assert.Equal(t, "0x", d.Payload)
	assert.Contains(t, u.Values("TableRow"), "Gas used | 21000")

	out, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"to":"contract-creation"`)
}

func TestDisplayProfile(t *testing.T) {
	u := ui.NewRecordingUI()
	d := DisplayProfile(u, &common.AddressProfile{
		Address:       bob,
		BalanceWei:    big.NewInt(0),
		ActivityCount: 12,
		IsContract:    true,
		CodePrefix:    "0x6080...",
	}, networks.EthereumMainnet)

	assert.Equal(t, "contract", d.Kind)
	assert.Equal(t, "0 ETH", d.Balance)
	assert.Contains(t, d.Avatar, bob.Hex())
	assert.Contains(t, u.Values("TableRow"), "Code | 0x6080...")
}

func TestDisplayBatch(t *testing.T) {
	u := ui.NewRecordingUI()
	d := DisplayBatch(u, &common.BatchResult{
		Succeeded: []common.BatchSuccess{{Hash: "0xaa", Record: sampleRecord()}},
		Failed:    []common.BatchFailure{{Hash: "0xbb", Reason: "transaction 0xbb not found"}},
	}, networks.EthereumMainnet)

	require.Len(t, d.Succeeded, 1)
	assert.Equal(t, []string{"1 of 2 transactions resolved"}, u.Values("Info"))
	assert.Equal(t, []string{"0xbb: transaction 0xbb not found"}, u.Values("Error"))
}

func TestDisplayFeedKeepsKindAndIndexerOrder(t *testing.T) {
	u := ui.NewRecordingUI()
	feed := &events.Feed{
		Address: alice,
		Kinds:   []string{"counter-incremented", "message-updated"},
		Events: map[string][]events.EventRecord{
			"counter-incremented": {
				{Kind: "counter-incremented", ID: "c2", BlockNumber: 20, Fields: map[string]string{"newCount": "2"}},
				{Kind: "counter-incremented", ID: "c1", BlockNumber: 10, Fields: map[string]string{"newCount": "1"}},
			},
			"message-updated": {
				{Kind: "message-updated", ID: "m1", BlockNumber: 15, Fields: map[string]string{"updatedBy": bob.Hex(), "newMessage": "gm"}},
			},
		},
		FetchedAt: time.Unix(1700000000, 0),
	}
	d := DisplayFeed(u, feed)

	require.Len(t, d.Events, 3)
	assert.Equal(t, []string{"c2", "c1", "m1"}, []string{d.Events[0].ID, d.Events[1].ID, d.Events[2].ID})
	assert.Equal(t, [][2]string{{"newMessage", "gm"}, {"updatedBy", bob.Hex()}}, d.Events[2].Fields)
}

func TestDisplayEmptyFeed(t *testing.T) {
	u := ui.NewRecordingUI()
	d := DisplayFeed(u, &events.Feed{Address: alice, Events: map[string][]events.EventRecord{}})
	assert.Empty(t, d.Events)
	assert.Equal(t, []string{"No events yet."}, u.Values("Warn"))
}

func TestDisplayChainInfo(t *testing.T) {
	u := ui.NewRecordingUI()
	d := DisplayChainInfo(u, &chaindata.ChainInfo{
		ChainID:     1,
		NetworkName: "mainnet",
		BlockNumber: 100,
		GasPrice:    big.NewInt(3000000000),
	})
	assert.Equal(t, "3 gwei", d.GasPrice)
	assert.Empty(t, d.BaseFee)
	assert.NotContains(t, u.Values("TableRow"), "Base fee | ")
}

func TestDisplayRedPacket(t *testing.T) {
	u := ui.NewRecordingUI()
	d := DisplayRedPacket(u, &contract.RedPacketState{
		Address:     bob,
		TotalAmount: big.NewInt(2000000000000000000),
		Count:       big.NewInt(5),
		IsEqual:     true,
		Account:     alice,
		Grabbed:     big.NewInt(0),
	}, networks.EthereumMainnet)

	assert.Equal(t, "2 ETH", d.TotalAmount)
	assert.Equal(t, "equal", d.Split)
	assert.Equal(t, "not yet", d.Grabbed)
	assert.Contains(t, u.Values("KeyValue"), "Shares: 5")

	d = DisplayRedPacket(u, &contract.RedPacketState{
		Address:     bob,
		TotalAmount: big.NewInt(0),
		Count:       big.NewInt(0),
		Account:     alice,
		Grabbed:     big.NewInt(400000000000000000),
	}, networks.EthereumMainnet)
	assert.Equal(t, "random", d.Split)
	assert.Equal(t, "0.4 ETH", d.Grabbed)
}
