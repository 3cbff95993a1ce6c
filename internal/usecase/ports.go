package usecase

import (
	"context"

	"github.com/vicinity-social/vicinity/internal/domain"
)

// ProfileRepository is the read-only lookup into the external
// user-management store.
type ProfileRepository interface {
	Get(ctx context.Context, id string) (domain.Profile, error)
	GetMany(ctx context.Context, ids []string) ([]domain.Profile, error)
}

// ProximityRepository adapts the external geospatial store. FindNearby
// returns at most limit profiles within radiusKm of origin, excluding
// excludeID, in store order.
type ProximityRepository interface {
	FindNearby(ctx context.Context, origin domain.Point, radiusKm float64, excludeID string, limit int) ([]domain.Profile, error)
	SetLocation(ctx context.Context, id string, p domain.Point) error
}

// NotificationRepository defines persistence for notification records.
type NotificationRepository interface {
	Create(ctx context.Context, n *domain.Notification) error
	ListByUser(ctx context.Context, userID string, limit int) ([]domain.Notification, error)
	MarkRead(ctx context.Context, id string) error
}

// Presence resolves the live connections of an identity.
type Presence interface {
	ConnectionsFor(userID string) []domain.Connection
}

// EventPublisher relays events to other nodes, best-effort.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.Event) error
}
