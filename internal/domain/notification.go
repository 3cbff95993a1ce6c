package domain

import "time"

// NotificationMeta carries the kind of event that produced an alert and
// the entities it correlates to.
type NotificationMeta struct {
	Kind     string `json:"kind,omitempty"`
	EntityID string `json:"entityId,omitempty"`
	ActorID  string `json:"actorId,omitempty"`
}

// Notification is a persisted user-facing alert. Mutated only by the
// mark-read operation, never deleted by this subsystem.
type Notification struct {
	ID        string            `json:"id"`
	UserID    string            `json:"user"`
	Message   string            `json:"message"`
	Link      string            `json:"link,omitempty"`
	Meta      *NotificationMeta `json:"meta,omitempty"`
	Read      bool              `json:"read"`
	CreatedAt time.Time         `json:"createdAt"`
}

// Connection is a live client connection capable of receiving pushed
// events. Satisfied by *websocket.Conn wrappers.
type Connection interface {
	WriteJSON(v any) error
	Close() error
}

// Event is the envelope pushed to connections and relayed between
// nodes. Origin is set only on the relay wire.
type Event struct {
	Type    string       `json:"type"`
	Origin  string       `json:"origin,omitempty"`
	Payload Notification `json:"payload"`
}
