package client

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/gorilla/websocket"

	"schoolhub/internal/domain/school"
)

// Watch subscribes to the change feed and calls fn for every event until ctx is done
// or the connection drops. Returns nil when ctx was cancelled.
func (c *Client) Watch(ctx context.Context, fn func(school.Event)) error {
	wsURL := "ws" + strings.TrimPrefix(c.baseURL, "http") + "/api/schools/events"

	conn, _, err := c.dialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			conn.Close()
		case <-done:
		}
	}()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		var e school.Event
		if err := json.Unmarshal(msg, &e); err != nil {
			continue
		}
		fn(e)
	}
}
