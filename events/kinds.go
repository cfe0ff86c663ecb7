package events

import (
	"fmt"
	"sort"
	"strings"
)

// Kind describes one event type served by the indexer: the collection it
// lives in and the event specific fields requested for it.
type Kind struct {
	Name       string
	Collection string
	Fields     []string
}

var (
	CounterIncremented = Kind{Name: "counter-incremented", Collection: "countIncrementeds", Fields: []string{"newCount"}}
	MessageUpdated     = Kind{Name: "message-updated", Collection: "messageUpdateds", Fields: []string{"newMessage", "updatedBy"}}

	Deposited = Kind{Name: "deposited", Collection: "depositeds", Fields: []string{"from", "amount"}}
	Grabbed   = Kind{Name: "grabbed", Collection: "grabbeds", Fields: []string{"grabber", "amount", "remain"}}
)

// metadataFields are requested for every kind.
var metadataFields = []string{"id", "blockNumber", "blockTimestamp", "transactionHash"}

var kindSets = map[string][]Kind{
	"counter":   {CounterIncremented, MessageUpdated},
	"redpacket": {Deposited, Grabbed},
}

const DefaultKindSet = "counter"

func DefaultKinds() []Kind {
	return kindSets[DefaultKindSet]
}

// KindSet returns the kinds of a named set, "counter" or "redpacket".
func KindSet(name string) ([]Kind, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return DefaultKinds(), nil
	}
	kinds, ok := kindSets[name]
	if !ok {
		return nil, fmt.Errorf("unknown event kind set %q, valid sets: %s", name, strings.Join(KindSetNames(), ", "))
	}
	return kinds, nil
}

func KindSetNames() []string {
	names := make([]string, 0, len(kindSets))
	for n := range kindSets {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// BuildQuery renders the combined GraphQL query for kinds, newest first,
// window entities per collection.
func BuildQuery(kinds []Kind, window int) string {
	var b strings.Builder
	b.WriteString("{\n")
	for _, k := range kinds {
		fmt.Fprintf(&b, "  %s(first: %d, orderBy: blockNumber, orderDirection: desc) {\n", k.Collection, window)
		for _, f := range metadataFields {
			fmt.Fprintf(&b, "    %s\n", f)
		}
		for _, f := range k.Fields {
			fmt.Fprintf(&b, "    %s\n", f)
		}
		b.WriteString("  }\n")
	}
	b.WriteString("}")
	return b.String()
}
