package newsync

// EventName identifies what happened on the notifier bus.
type EventName string

const (
	EventSyncStarted   EventName = "sync-started"
	EventSyncComplete  EventName = "sync-complete"
	EventFolderChanged EventName = "folder-changed"
	EventFeedChanged   EventName = "feed-changed"
	EventNewItem       EventName = "new-item-available"
	EventBadgeUpdated  EventName = "badge-updated"
)

// Payload is the free-form data attached to an event.
type Payload map[string]any

// Payload keys.
const (
	KeyAdded     = "added"
	KeyRemoved   = "removed"
	KeyFeedTitle = "feedTitle"
	KeyItemTitle = "itemTitle"
	KeyItemID    = "itemId"
	KeySyncID    = "syncId"
	KeyMode      = "mode"
	KeyCount     = "count"
	KeyLabel     = "label"
)
