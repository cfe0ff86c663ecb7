package debounce

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type collector struct {
	mu   sync.Mutex
	seen []string
}

func (c *collector) add(v string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seen = append(c.seen, v)
}

func (c *collector) values() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.seen...)
}

func TestOnlyLastValueFires(t *testing.T) {
	c := &collector{}
	d := New(20*time.Millisecond, c.add)
	d.Push("0x1")
	d.Push("0x12")
	d.Push("0x123")

	assert.Eventually(t, func() bool { return len(c.values()) == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(40 * time.Millisecond)
	assert.Equal(t, []string{"0x123"}, c.values())
}

func TestCancelDropsPending(t *testing.T) {
	c := &collector{}
	d := New(10*time.Millisecond, c.add)
	d.Push("x")
	d.Cancel()
	time.Sleep(40 * time.Millisecond)
	assert.Empty(t, c.values())
}

func TestSeparatedPushesBothFire(t *testing.T) {
	c := &collector{}
	d := New(5*time.Millisecond, c.add)
	d.Push("a")
	assert.Eventually(t, func() bool { return len(c.values()) == 1 }, time.Second, time.Millisecond)
	d.Push("b")
	assert.Eventually(t, func() bool { return len(c.values()) == 2 }, time.Second, time.Millisecond)
	assert.Equal(t, []string{"a", "b"}, c.values())
}
