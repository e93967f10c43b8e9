package notify

import (
	"strconv"
	"sync/atomic"

	"github.com/jdholdren/newsync/internal/newsync"
)

// Ensure Badge implements the Badge interface
var _ newsync.Badge = (*Badge)(nil)

// Badge keeps the last unread count and announces changes on the bus.
type Badge struct {
	count    atomic.Int64
	notifier newsync.Notifier
}

func NewBadge(notifier newsync.Notifier) *Badge {
	return &Badge{notifier: notifier}
}

func (b *Badge) Set(count int) {
	b.count.Store(int64(count))
	b.notifier.Publish(newsync.EventBadgeUpdated, newsync.Payload{
		newsync.KeyCount: count,
		newsync.KeyLabel: Label(count),
	})
}

func (b *Badge) Count() int {
	return int(b.count.Load())
}

// Label is the text shown on the badge. Empty clears it.
func Label(count int) string {
	if count <= 0 {
		return ""
	}
	return strconv.Itoa(count)
}
