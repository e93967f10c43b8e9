package notify

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gregdel/pushover"

	"github.com/jdholdren/newsync/internal/newsync"
)

// messageSender is the part of [pushover.Pushover] the pusher needs.
type messageSender interface {
	SendMessage(message *pushover.Message, recipient *pushover.Recipient) (*pushover.Response, error)
}

// Pusher raises a push notification for every new item event.
type Pusher struct {
	bus       *Bus
	app       messageSender
	recipient *pushover.Recipient
	title     string
}

// NewPusher creates a pusher delivering through pushover under the app title.
func NewPusher(bus *Bus, appToken, userID, title string) *Pusher {
	return newPusher(bus, pushover.New(appToken), pushover.NewRecipient(userID), title)
}

func newPusher(bus *Bus, app messageSender, recipient *pushover.Recipient, title string) *Pusher {
	return &Pusher{
		bus:       bus,
		app:       app,
		recipient: recipient,
		title:     title,
	}
}

func (p *Pusher) Run(ctx context.Context) error {
	events, cancel := p.bus.Subscribe(256)
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			return nil
		case evt, ok := <-events:
			if !ok {
				return nil
			}
			if evt.Name != newsync.EventNewItem {
				continue
			}
			if err := p.push(evt); err != nil {
				slog.ErrorContext(ctx, "error sending push notification", "error", err, "event_id", evt.ID)
			}
		}
	}
}

func (p *Pusher) push(evt Event) error {
	feedTitle, _ := evt.Payload[newsync.KeyFeedTitle].(string)
	itemTitle, _ := evt.Payload[newsync.KeyItemTitle].(string)

	msg := &pushover.Message{
		Title:   fmt.Sprintf("%s: %s", p.title, feedTitle),
		Message: itemTitle,
	}
	if msg.Message == "" {
		// pushover rejects empty messages
		msg.Message = feedTitle
	}
	if _, err := p.app.SendMessage(msg, p.recipient); err != nil {
		return fmt.Errorf("error sending message: %w", err)
	}

	return nil
}
