package display

import (
	"fmt"
	"math/big"
	"sort"
	"strconv"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/tranvictor/chainlens/chaindata"
	"github.com/tranvictor/chainlens/common"
	"github.com/tranvictor/chainlens/contract"
	"github.com/tranvictor/chainlens/events"
	"github.com/tranvictor/chainlens/networks"
	"github.com/tranvictor/chainlens/ui"
)

const timeLayout = "2006-01-02 15:04:05 MST"

// AvatarOrPlaceholder returns the resolved avatar or an identicon seeded by
// the address.
func AvatarOrPlaceholder(n common.NameResolution) string {
	if n.HasAvatar() {
		return n.Avatar
	}
	return fmt.Sprintf("https://api.dicebear.com/7.x/identicon/svg?seed=%s&backgroundColor=f3f4f6&size=32", n.Address.Hex())
}

// styledName is green when the address has a name and plain otherwise.
func styledName(n common.NameResolution) ui.StyledText {
	if n.HasName() {
		return ui.StyledText{Text: common.PlainAddress(n), Severity: ui.SeveritySuccess}
	}
	return ui.Plain(common.PlainAddress(n))
}

func styledStatus(s common.TxStatus) ui.StyledText {
	if s == common.TxSuccess {
		return ui.StyledText{Text: "✓ " + string(s), Severity: ui.SeveritySuccess}
	}
	return ui.StyledText{Text: "✗ " + string(s), Severity: ui.SeverityError}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(timeLayout)
}

func gwei(wei *big.Int) string {
	if wei == nil {
		return ""
	}
	return common.WeiToGwei(wei) + " gwei"
}

// ── build ───────────────────────────────────────────────────────────────────

func buildTxDisplay(r *common.TransactionRecord, symbol string, fullDetail bool) *TxDisplay {
	d := &TxDisplay{
		Hash:          r.Hash.Hex(),
		Status:        styledStatus(r.Status),
		From:          styledName(r.FromName),
		FromAvatar:    AvatarOrPlaceholder(r.FromName),
		Value:         common.WeiToEther(r.ValueWei) + " " + symbol,
		Block:         common.ReadableNumber(strconv.FormatUint(r.BlockNumber, 10)),
		BlockHash:     r.BlockHash.Hex(),
		Timestamp:     formatTime(r.BlockTimestamp),
		Confirmations: strconv.FormatUint(r.Confirmations, 10),
	}
	if r.To == nil {
		d.To = ui.StyledText{Text: common.ContractCreation, Severity: ui.SeverityWarn}
	} else {
		d.To = styledName(r.ToName)
		d.ToAvatar = AvatarOrPlaceholder(r.ToName)
	}
	if fullDetail {
		d.Nonce = strconv.FormatUint(r.Nonce, 10)
		d.GasPrice = gwei(r.GasPriceWei)
		d.GasLimit = strconv.FormatUint(r.GasLimit, 10)
		d.GasUsed = strconv.FormatUint(r.GasUsed, 10)
		d.GasCost = common.WeiToEther(r.GasCost()) + " " + symbol
		d.Payload = hexutil.Encode(r.Payload)
	}
	return d
}

func buildProfileDisplay(p *common.AddressProfile, symbol string) *ProfileDisplay {
	n := common.NameResolution{Address: p.Address, Name: p.ENSName, Avatar: p.ENSAvatar}
	d := &ProfileDisplay{
		Address:  styledName(n),
		Avatar:   AvatarOrPlaceholder(n),
		Balance:  common.WeiToEther(p.BalanceWei) + " " + symbol,
		Activity: common.ReadableNumber(strconv.FormatUint(p.ActivityCount, 10)),
		Kind:     "externally owned account",
	}
	if p.IsContract {
		d.Kind = "contract"
		d.CodePrefix = p.CodePrefix
	}
	return d
}

func buildEventDisplay(e events.EventRecord) EventDisplay {
	d := EventDisplay{
		Kind:      e.Kind,
		ID:        e.ID,
		Block:     strconv.FormatUint(e.BlockNumber, 10),
		Timestamp: formatTime(e.BlockTimestamp),
		TxHash:    e.TransactionHash,
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		d.Fields = append(d.Fields, [2]string{k, common.ReadableNumber(e.Fields[k])})
	}
	return d
}

func buildFeedDisplay(f *events.Feed) *FeedDisplay {
	d := &FeedDisplay{
		Address:   f.Address.Hex(),
		FetchedAt: formatTime(f.FetchedAt),
		Events:    []EventDisplay{},
	}
	for _, kind := range f.Kinds {
		for _, e := range f.Records(kind) {
			d.Events = append(d.Events, buildEventDisplay(e))
		}
	}
	return d
}

func buildChainInfoDisplay(c *chaindata.ChainInfo) *ChainInfoDisplay {
	return &ChainInfoDisplay{
		Network:      c.NetworkName,
		ChainID:      strconv.FormatUint(c.ChainID, 10),
		Block:        common.ReadableNumber(strconv.FormatUint(c.BlockNumber, 10)),
		BlockTime:    formatTime(c.BlockTime),
		GasPrice:     gwei(c.GasPrice),
		BaseFee:      gwei(c.BaseFee),
		GasTipCap:    gwei(c.GasTipCap),
		MaxFeePerGas: gwei(c.MaxFeePerGas),
	}
}

// ── print ───────────────────────────────────────────────────────────────────

func printTxDisplay(u ui.UI, d *TxDisplay) {
	summary := [][]string{
		{"Hash", d.Hash},
		{"Status", u.Style(d.Status)},
		{"From", u.Style(d.From)},
		{"To", u.Style(d.To)},
		{"Value", d.Value},
		{"Block", d.Block},
		{"Timestamp", d.Timestamp},
		{"Confirmations", d.Confirmations},
	}
	if d.Nonce == "" {
		u.Table(nil, summary)
		return
	}
	gas := [][]string{
		{"Nonce", d.Nonce},
		{"Gas price", d.GasPrice},
		{"Gas limit", d.GasLimit},
		{"Gas used", d.GasUsed},
		{"Gas cost", d.GasCost},
		{"Block hash", d.BlockHash},
	}
	u.TableWithGroups(nil, [][][]string{summary, gas})
	if d.Payload != "0x" {
		u.Info("Payload: %s", d.Payload)
	}
}

func printProfileDisplay(u ui.UI, d *ProfileDisplay) {
	rows := [][]string{
		{"Address", u.Style(d.Address)},
		{"Avatar", d.Avatar},
		{"Balance", d.Balance},
		{"Transactions", d.Activity},
		{"Kind", d.Kind},
	}
	if d.CodePrefix != "" {
		rows = append(rows, []string{"Code", d.CodePrefix})
	}
	u.Table(nil, rows)
}

func printFeedDisplay(u ui.UI, d *FeedDisplay) {
	u.Info("Events of %s, fetched at %s", d.Address, d.FetchedAt)
	if len(d.Events) == 0 {
		u.Warn("No events yet.")
		return
	}
	groups := make([][][]string, 0, len(d.Events))
	for _, e := range d.Events {
		group := [][]string{{e.Kind, "block " + e.Block, e.Timestamp}}
		for _, f := range e.Fields {
			group = append(group, []string{"", f[0], f[1]})
		}
		if e.TxHash != "" {
			group = append(group, []string{"", "tx", e.TxHash})
		}
		groups = append(groups, group)
	}
	u.TableWithGroups([]string{"Event", "Field", "Value"}, groups)
}

// ── public ──────────────────────────────────────────────────────────────────

// DisplayTransaction prints a resolved transaction and returns its view.
// Gas, nonce and payload are included only in full detail mode.
func DisplayTransaction(u ui.UI, r *common.TransactionRecord, network networks.Network, fullDetail bool) *TxDisplay {
	d := buildTxDisplay(r, network.GetNativeTokenSymbol(), fullDetail)
	printTxDisplay(u, d)
	return d
}

func DisplayProfile(u ui.UI, p *common.AddressProfile, network networks.Network) *ProfileDisplay {
	d := buildProfileDisplay(p, network.GetNativeTokenSymbol())
	printProfileDisplay(u, d)
	return d
}

// DisplayBatch prints succeeded records as one table and failures with
// their reasons, each in input order.
func DisplayBatch(u ui.UI, b *common.BatchResult, network networks.Network) *BatchDisplay {
	d := &BatchDisplay{Failed: b.Failed}
	rows := [][]string{}
	for _, s := range b.Succeeded {
		td := buildTxDisplay(s.Record, network.GetNativeTokenSymbol(), false)
		d.Succeeded = append(d.Succeeded, td)
		rows = append(rows, []string{td.Hash, u.Style(td.Status), td.Value, td.Block})
	}
	u.Info("%d of %d transactions resolved", len(b.Succeeded), b.Total())
	if len(rows) > 0 {
		u.Table([]string{"Hash", "Status", "Value", "Block"}, rows)
	}
	for _, f := range b.Failed {
		u.Error("%s: %s", f.Hash, f.Reason)
	}
	return d
}

func DisplayFeed(u ui.UI, f *events.Feed) *FeedDisplay {
	d := buildFeedDisplay(f)
	printFeedDisplay(u, d)
	return d
}

func DisplayChainInfo(u ui.UI, c *chaindata.ChainInfo) *ChainInfoDisplay {
	d := buildChainInfoDisplay(c)
	rows := [][]string{
		{"Network", d.Network},
		{"Chain ID", d.ChainID},
		{"Block", d.Block},
		{"Block time", d.BlockTime},
		{"Gas price", d.GasPrice},
	}
	if d.BaseFee != "" {
		rows = append(rows,
			[]string{"Base fee", d.BaseFee},
			[]string{"Priority fee", d.GasTipCap},
			[]string{"Max fee", d.MaxFeePerGas},
		)
	}
	u.Table(nil, rows)
	return d
}

func DisplayContractState(u ui.UI, h *contract.Handle, s *contract.State) *ContractStateDisplay {
	d := &ContractStateDisplay{
		Address: h.Address().Hex(),
		Message: s.Message,
		Count:   s.Count.String(),
		Owner:   s.Owner.Hex(),
	}
	u.KeyValue([][2]string{
		{"Contract", d.Address},
		{"Message", d.Message},
		{"Count", d.Count},
		{"Owner", d.Owner},
	})
	return d
}

func DisplayRedPacket(u ui.UI, s *contract.RedPacketState, network networks.Network) *RedPacketDisplay {
	symbol := network.GetNativeTokenSymbol()
	d := &RedPacketDisplay{
		Address:     s.Address.Hex(),
		TotalAmount: common.WeiToEther(s.TotalAmount) + " " + symbol,
		Count:       s.Count.String(),
		Split:       "random",
		Account:     s.Account.Hex(),
		Grabbed:     "not yet",
	}
	if s.IsEqual {
		d.Split = "equal"
	}
	if s.HasGrabbed() {
		d.Grabbed = common.WeiToEther(s.Grabbed) + " " + symbol
	}
	u.KeyValue([][2]string{
		{"Red packet", d.Address},
		{"Total", d.TotalAmount},
		{"Shares", d.Count},
		{"Split", d.Split},
		{"Account", d.Account},
		{"Grabbed", d.Grabbed},
	})
	return d
}
