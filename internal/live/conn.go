package live

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait    = 10 * time.Second
	pongWait     = 60 * time.Second
	pingInterval = pongWait * 9 / 10
	maxEventSize = 4 << 10
)

// ServeConn pumps a websocket into s until either side goes away. The reader
// runs in its own goroutine; every data write happens on Run's loop and pings
// go through WriteControl, which gorilla allows concurrently.
func ServeConn(ctx context.Context, conn *websocket.Conn, s *Session) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	conn.SetReadLimit(maxEventSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	go func() {
		defer cancel()
		for {
			var ev Event
			if err := conn.ReadJSON(&ev); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					log.Printf("[live] %s read: %v", s.ID, err)
				}
				return
			}
			if !s.Deliver(ctx, ev) {
				return
			}
		}
	}()

	go func() {
		t := time.NewTicker(pingInterval)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
					cancel()
					return
				}
			}
		}
	}()

	err := s.Run(ctx, func(_ context.Context, p Push) error {
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		return conn.WriteJSON(p)
	})
	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
