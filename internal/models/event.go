package models

// Chat event types published to the audit stream.
const (
	EventChatCreated    = "chat.created"
	EventChatRenamed    = "chat.renamed"
	EventMemberAdded    = "member.added"
	EventMemberRemoved  = "member.removed"
	EventMessageCreated = "message.created"
	EventMessageEdited  = "message.edited"
	EventMessageDeleted = "message.deleted"
)

// Event describes a committed change to a chat.
type Event struct {
	EventID   string `json:"event_id"`             // EventID is a unique identifier for the event.
	Type      string `json:"type"`                 // Type is one of the Event* constants.
	Timestamp int64  `json:"timestamp"`            // Timestamp is the Unix time (seconds) the change was committed.
	ActorID   int64  `json:"actor_id"`             // ActorID is the user who performed the change.
	ChatID    int64  `json:"chat_id"`              // ChatID is the affected chat.
	UserID    int64  `json:"user_id,omitempty"`    // UserID is the member added or removed.
	MessageID int64  `json:"message_id,omitempty"` // MessageID is the affected message.
}
