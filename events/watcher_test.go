package events

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tranvictor/chainlens/common"
)

// scriptedPoller returns queued responses; a response can be held back
// until its release channel is closed.
type scriptedPoller struct {
	mu      sync.Mutex
	script  []scripted
	polls   int32
	address []string
}

type scripted struct {
	feed    *Feed
	err     error
	release chan struct{}
}

func (s *scriptedPoller) Poll(ctx context.Context, addr string) (*Feed, error) {
	atomic.AddInt32(&s.polls, 1)
	s.mu.Lock()
	step := s.script[0]
	s.script = s.script[1:]
	s.address = append(s.address, addr)
	s.mu.Unlock()
	if step.release != nil {
		<-step.release
	}
	return step.feed, step.err
}

func feedWith(id string) *Feed {
	return &Feed{Events: map[string][]EventRecord{"counter-incremented": {{ID: id}}}}
}

func TestSetAddressDoesNotPoll(t *testing.T) {
	p := &scriptedPoller{}
	w := NewWatcher(p, zap.NewNop())
	w.SetAddress("0x1")
	w.SetAddress("0x12")
	assert.Equal(t, int32(0), atomic.LoadInt32(&p.polls))
	assert.Equal(t, "0x12", w.Address())
}

func TestRefreshErrorLeavesFeedUntouched(t *testing.T) {
	good := feedWith("a")
	p := &scriptedPoller{script: []scripted{
		{feed: good},
		{err: &common.PollError{Message: "boom"}},
	}}
	w := NewWatcher(p, nil)

	_, err := w.Refresh(context.Background())
	require.NoError(t, err)

	_, err = w.Refresh(context.Background())
	require.Error(t, err)

	held, lastErr := w.Feed()
	assert.Same(t, good, held)
	var perr *common.PollError
	assert.True(t, errors.As(lastErr, &perr))
}

func TestSupersededResponseIsDropped(t *testing.T) {
	slow := make(chan struct{})
	older, newer := feedWith("old"), feedWith("new")
	p := &scriptedPoller{script: []scripted{
		{feed: older, release: slow},
		{feed: newer},
	}}
	w := NewWatcher(p, nil)

	done := make(chan *Feed)
	go func() {
		f, _ := w.Refresh(context.Background())
		done <- f
	}()
	// wait until the slow poll is in flight before issuing the newer one
	require.Eventually(t, func() bool { return atomic.LoadInt32(&p.polls) == 1 }, time.Second, time.Millisecond)

	f, err := w.Refresh(context.Background())
	require.NoError(t, err)
	assert.Same(t, newer, f)

	close(slow)
	assert.Same(t, newer, <-done)
	held, _ := w.Feed()
	assert.Same(t, newer, held)
}

func TestRunRefreshesUntilCancelled(t *testing.T) {
	p := &scriptedPoller{script: []scripted{{feed: feedWith("1")}, {feed: feedWith("2")}, {feed: feedWith("3")}, {feed: feedWith("4")}}}
	w := NewWatcher(p, nil)
	ctx, cancel := context.WithCancel(context.Background())

	var updates int32
	done := make(chan struct{})
	go func() {
		w.Run(ctx, 5*time.Millisecond, func(*Feed, error) {
			if atomic.AddInt32(&updates, 1) == 2 {
				cancel()
			}
		})
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("watcher did not stop")
	}
	assert.GreaterOrEqual(t, atomic.LoadInt32(&updates), int32(2))
}
