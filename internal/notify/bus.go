// Package notify is the best-effort event bus the sync engine publishes to,
// plus the sinks that carry those events out of the process.
package notify

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jdholdren/newsync/internal/newsync"
)

// Ensure Bus implements the Notifier interface
var _ newsync.Notifier = (*Bus)(nil)

// Event is a published notification.
type Event struct {
	ID      string            `json:"id"`
	Name    newsync.EventName `json:"name"`
	Payload newsync.Payload   `json:"payload"`
	At      time.Time         `json:"at"`
}

// Bus fans published events out to subscribers. Publishing never blocks: a
// subscriber that isn't keeping up misses events.
type Bus struct {
	mu     sync.RWMutex
	nextID int
	subs   map[int]chan Event
	now    func() time.Time
}

func NewBus() *Bus {
	return &Bus{
		subs: map[int]chan Event{},
		now:  time.Now,
	}
}

func (b *Bus) Publish(name newsync.EventName, payload newsync.Payload) {
	evt := Event{
		ID:      uuid.NewString(),
		Name:    name,
		Payload: payload,
		At:      b.now(),
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	for id, ch := range b.subs {
		select {
		case ch <- evt:
		default:
			slog.Debug("dropping event for slow subscriber", "subscriber", id, "event", name)
		}
	}
}

// Subscribe returns a channel receiving every event published from now on and
// a func that unsubscribes and closes the channel.
func (b *Bus) Subscribe(buffer int) (<-chan Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	ch := make(chan Event, buffer)
	b.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()

			delete(b.subs, id)
			close(ch)
		})
	}
}
