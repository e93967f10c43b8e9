package notify

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/r3labs/sse/v2"
)

// StreamName is the sse stream every bus event is mirrored onto.
const StreamName = "events"

// NewSSEServer creates the event stream server. Old events aren't replayed to
// new clients.
func NewSSEServer() *sse.Server {
	server := sse.New()
	server.AutoReplay = false
	server.CreateStream(StreamName)

	return server
}

// SSEBridge mirrors bus events onto an sse server until ctx is done.
type SSEBridge struct {
	bus    *Bus
	server *sse.Server
}

func NewSSEBridge(bus *Bus, server *sse.Server) SSEBridge {
	return SSEBridge{bus: bus, server: server}
}

func (b SSEBridge) Run(ctx context.Context) error {
	events, cancel := b.bus.Subscribe(64)
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			return nil
		case evt, ok := <-events:
			if !ok {
				return nil
			}
			data, err := encodeEvent(evt)
			if err != nil {
				slog.ErrorContext(ctx, "error encoding event", "event", evt.Name, "error", err)
				continue
			}
			b.server.Publish(StreamName, &sse.Event{
				ID:    []byte(evt.ID),
				Event: []byte(evt.Name),
				Data:  data,
			})
		}
	}
}

func encodeEvent(evt Event) ([]byte, error) {
	return json.Marshal(evt)
}
