package events

import (
	"time"

	ethcommon "github.com/ethereum/go-ethereum/common"
)

// EventRecord is one indexed event. BlockTimestamp is zero when the indexer
// does not serve it for the kind.
type EventRecord struct {
	Kind            string            `json:"kind"`
	ID              string            `json:"id"`
	BlockNumber     uint64            `json:"blockNumber"`
	BlockTimestamp  time.Time         `json:"blockTimestamp"`
	TransactionHash string            `json:"transactionHash,omitempty"`
	Fields          map[string]string `json:"fields"`
}

// Feed is one complete poll result. Every configured kind has an entry,
// newest first, in the order the indexer returned them.
type Feed struct {
	Address   ethcommon.Address        `json:"address"`
	Kinds     []string                 `json:"kinds"`
	Events    map[string][]EventRecord `json:"events"`
	FetchedAt time.Time                `json:"fetchedAt"`
}

func (f *Feed) Records(kind string) []EventRecord {
	if f == nil {
		return nil
	}
	return f.Events[kind]
}

func (f *Feed) Len() int {
	if f == nil {
		return 0
	}
	n := 0
	for _, recs := range f.Events {
		n += len(recs)
	}
	return n
}
