package assistantHandler

import (
	"time"

	"ArdenGolang/internal/entity"
	"ArdenGolang/pkg/log"

	"github.com/gofiber/websocket/v2"
	"golang.org/x/net/context"
)

const (
	streamReadTimeout  = 60 * time.Second
	streamWriteTimeout = 10 * time.Second
)

// Stream pushes the caller's runtime events until either side goes away.
// Clients keep the connection alive with pings.
func (h *AssistantHandler) Stream(c *websocket.Conn) {
	user, ok := c.Locals("user").(entity.UserLoginData)
	if !ok {
		_ = c.WriteJSON(map[string]string{"error": "Unauthorized"})
		return
	}

	fields := log.Fields{"user_id": user.ID}
	events, unsubscribe, err := h.assistantService.Subscribe(context.Background(), user.ID)
	if err != nil {
		fields["error"] = err.Error()
		h.log.WithFields(fields).Warn("Assistant stream refused")
		_ = c.WriteJSON(map[string]string{"error": err.Error()})
		return
	}
	defer unsubscribe()

	h.log.WithFields(fields).Info("Assistant stream client connected")
	defer h.log.WithFields(fields).Info("Assistant stream client disconnected")

	c.SetPingHandler(func(data string) error {
		if err := c.SetReadDeadline(time.Now().Add(streamReadTimeout)); err != nil {
			return err
		}
		return c.WriteControl(websocket.PongMessage, []byte(data), time.Now().Add(5*time.Second))
	})

	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if err := c.SetReadDeadline(time.Now().Add(streamReadTimeout)); err != nil {
				return
			}
			if _, _, err := c.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					h.log.WithFields(fields).Debugf("Assistant stream read error: %v", err)
				}
				return
			}
		}
	}()

	for {
		select {
		case <-gone:
			return
		case ev, ok := <-events:
			if !ok {
				_ = c.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "session closed"),
					time.Now().Add(time.Second))
				return
			}
			if err := c.SetWriteDeadline(time.Now().Add(streamWriteTimeout)); err != nil {
				return
			}
			if err := c.WriteJSON(ev); err != nil {
				h.log.WithFields(fields).Debugf("Assistant stream write error: %v", err)
				return
			}
		}
	}
}
