package events

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/tranvictor/chainlens/common"
	"github.com/tranvictor/chainlens/util"
	"github.com/tranvictor/chainlens/util/telemetry"
)

const (
	DefaultWindow  = 5
	DefaultTimeout = 10 * time.Second
)

// Poller fetches the recent event window of every configured kind with one
// combined GraphQL query.
type Poller struct {
	endpoint string
	client   *http.Client
	kinds    []Kind
	window   int
	logger   *zap.Logger
}

type Option func(*Poller)

func WithKinds(kinds []Kind) Option {
	return func(p *Poller) { p.kinds = kinds }
}

func WithWindow(n int) Option {
	return func(p *Poller) { p.window = n }
}

func WithHTTPClient(c *http.Client) Option {
	return func(p *Poller) { p.client = c }
}

func WithLogger(l *zap.Logger) Option {
	return func(p *Poller) { p.logger = l }
}

func NewPoller(endpoint string, opts ...Option) *Poller {
	p := &Poller{
		endpoint: endpoint,
		client:   &http.Client{Timeout: DefaultTimeout},
		kinds:    DefaultKinds(),
		window:   DefaultWindow,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.window <= 0 {
		p.window = DefaultWindow
	}
	return p
}

func (p *Poller) Endpoint() string {
	return p.endpoint
}

type graphqlRequest struct {
	Query string `json:"query"`
}

type graphqlError struct {
	Message string `json:"message"`
}

type graphqlResponse struct {
	Data   map[string]json.RawMessage `json:"data"`
	Errors []graphqlError             `json:"errors"`
}

func pollErr(format string, args ...interface{}) error {
	return &common.PollError{Message: fmt.Sprintf(format, args...)}
}

// Poll returns the recent events of every kind. The address only keys the
// result; the indexer is not filtered by it. Any failure yields a single
// PollError and no partial feed.
func (p *Poller) Poll(ctx context.Context, contractAddress string) (feed *Feed, err error) {
	addr, err := util.ValidateAddress(contractAddress)
	if err != nil {
		return nil, err
	}
	ctx, span := telemetry.Start(ctx, "events.Poll",
		attribute.String("address", addr.Hex()),
		attribute.String("endpoint", p.endpoint),
	)
	defer func() { telemetry.End(span, err) }()

	body, err := json.Marshal(graphqlRequest{Query: BuildQuery(p.kinds, p.window)})
	if err != nil {
		return nil, &common.PollError{Message: "couldn't encode query", Err: err}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, &common.PollError{Message: "couldn't build request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, &common.PollError{Message: "indexer unreachable", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		p.logger.Debug("indexer returned non 2xx",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", snippet),
		)
		return nil, pollErr("HTTP error! status: %d", resp.StatusCode)
	}

	var payload graphqlResponse
	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	if err := dec.Decode(&payload); err != nil {
		return nil, &common.PollError{Message: "couldn't decode indexer response", Err: err}
	}
	if len(payload.Errors) > 0 {
		msg := payload.Errors[0].Message
		if msg == "" {
			msg = "graphql query failed"
		}
		return nil, pollErr("%s", msg)
	}
	if payload.Data == nil {
		return nil, pollErr("indexer response has no data")
	}

	feed = &Feed{
		Address:   addr,
		Kinds:     make([]string, 0, len(p.kinds)),
		Events:    make(map[string][]EventRecord, len(p.kinds)),
		FetchedAt: time.Now(),
	}
	for _, k := range p.kinds {
		records, err := p.decodeCollection(k, payload.Data)
		if err != nil {
			return nil, err
		}
		feed.Kinds = append(feed.Kinds, k.Name)
		feed.Events[k.Name] = records
	}
	p.logger.Debug("polled events", zap.String("address", addr.Hex()), zap.Int("events", feed.Len()))
	return feed, nil
}

func (p *Poller) decodeCollection(k Kind, data map[string]json.RawMessage) ([]EventRecord, error) {
	raw, ok := data[k.Collection]
	if !ok || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil, pollErr("indexer response is missing %s", k.Collection)
	}
	var entities []map[string]interface{}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&entities); err != nil {
		return nil, &common.PollError{Message: fmt.Sprintf("malformed %s", k.Collection), Err: err}
	}
	if len(entities) > p.window {
		entities = entities[:p.window]
	}
	records := make([]EventRecord, 0, len(entities))
	for i, e := range entities {
		rec, err := decodeEntity(k, e)
		if err != nil {
			return nil, pollErr("malformed %s entity %d: %s", k.Collection, i, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func decodeEntity(k Kind, e map[string]interface{}) (EventRecord, error) {
	rec := EventRecord{Kind: k.Name, Fields: make(map[string]string, len(k.Fields))}

	id, ok := scalar(e["id"])
	if !ok || id == "" {
		return rec, fmt.Errorf("missing id")
	}
	rec.ID = id

	block, ok := scalar(e["blockNumber"])
	if !ok {
		return rec, fmt.Errorf("missing blockNumber")
	}
	n, err := strconv.ParseUint(block, 10, 64)
	if err != nil {
		return rec, fmt.Errorf("blockNumber %q: %w", block, err)
	}
	rec.BlockNumber = n

	if ts, ok := scalar(e["blockTimestamp"]); ok {
		secs, err := strconv.ParseInt(ts, 10, 64)
		if err != nil {
			return rec, fmt.Errorf("blockTimestamp %q: %w", ts, err)
		}
		rec.BlockTimestamp = time.Unix(secs, 0).UTC()
	}
	if h, ok := scalar(e["transactionHash"]); ok {
		rec.TransactionHash = h
	}

	for _, f := range k.Fields {
		v, ok := scalar(e[f])
		if !ok {
			return rec, fmt.Errorf("missing %s", f)
		}
		rec.Fields[f] = v
	}
	return rec, nil
}

// scalar renders a JSON scalar as served. Objects, arrays and null are
// rejected.
func scalar(v interface{}) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case json.Number:
		return t.String(), true
	case bool:
		return strconv.FormatBool(t), true
	default:
		return "", false
	}
}
