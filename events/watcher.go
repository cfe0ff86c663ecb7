package events

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// FeedPoller is satisfied by *Poller.
type FeedPoller interface {
	Poll(ctx context.Context, contractAddress string) (*Feed, error)
}

// Watcher holds the last good feed for one contract address. Changing the
// address never polls; only Refresh does. When refreshes overlap, a
// response older than the one already applied is dropped.
type Watcher struct {
	poller FeedPoller
	logger *zap.Logger

	mu        sync.Mutex
	address   string
	feed      *Feed
	lastErr   error
	requested uint64
	applied   uint64
}

func NewWatcher(p FeedPoller, logger *zap.Logger) *Watcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Watcher{poller: p, logger: logger}
}

// SetAddress changes the correlation address. The held feed is kept until
// the next successful refresh.
func (w *Watcher) SetAddress(addr string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.address = addr
}

func (w *Watcher) Address() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.address
}

// Feed returns the held feed and the error of the most recent failed
// refresh, if it failed after the feed was applied.
func (w *Watcher) Feed() (*Feed, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.feed, w.lastErr
}

// Refresh polls the current address. On success the returned feed is the
// one held after the refresh, which is the newest applied response. On
// failure the held feed is untouched.
func (w *Watcher) Refresh(ctx context.Context) (*Feed, error) {
	w.mu.Lock()
	w.requested++
	seq := w.requested
	addr := w.address
	w.mu.Unlock()

	feed, err := w.poller.Poll(ctx, addr)

	w.mu.Lock()
	defer w.mu.Unlock()
	if err != nil {
		if seq > w.applied {
			w.lastErr = err
		}
		return nil, err
	}
	if seq > w.applied {
		w.applied = seq
		w.feed = feed
		w.lastErr = nil
	} else {
		w.logger.Debug("dropping superseded event poll", zap.Uint64("seq", seq), zap.Uint64("applied", w.applied))
	}
	return w.feed, nil
}

// Run refreshes every interval until ctx ends. onUpdate, when set, receives
// the outcome of each refresh.
func (w *Watcher) Run(ctx context.Context, interval time.Duration, onUpdate func(*Feed, error)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		feed, err := w.Refresh(ctx)
		if err != nil {
			w.logger.Warn("event poll failed", zap.Error(err))
		}
		if onUpdate != nil && ctx.Err() == nil {
			onUpdate(feed, err)
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
