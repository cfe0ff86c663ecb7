package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// DialWalletFeed connects to a websocket publishing wallet events as JSON
// messages. The returned channel closes when the connection drops or ctx
// ends. Undecodable messages are logged and skipped.
func DialWalletFeed(ctx context.Context, url string, logger *zap.Logger) (<-chan WalletEvent, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("couldn't dial wallet feed %s: %w", url, err)
	}

	out := make(chan WalletEvent)
	stop := context.AfterFunc(ctx, func() {
		conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second),
		)
		conn.Close()
	})
	go func() {
		defer close(out)
		defer stop()
		defer conn.Close()
		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				if ctx.Err() == nil && !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					logger.Warn("wallet feed closed", zap.Error(err))
				}
				return
			}
			ev, err := decodeWalletEvent(msg)
			if err != nil {
				logger.Debug("skipping wallet feed message", zap.ByteString("message", msg), zap.Error(err))
				continue
			}
			select {
			case out <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

func decodeWalletEvent(msg []byte) (WalletEvent, error) {
	var ev WalletEvent
	if err := json.Unmarshal(msg, &ev); err != nil {
		return WalletEvent{}, err
	}
	switch ev.Type {
	case EventConnect, EventAccountChanged, EventChainChanged, EventDisconnect:
		return ev, nil
	}
	return WalletEvent{}, fmt.Errorf("unknown wallet event type %q", ev.Type)
}
