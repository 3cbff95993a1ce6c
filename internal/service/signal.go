package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"

	"github.com/vicinity-social/vicinity/internal/domain"
)

// SignalService relays dispatch events between nodes over redis
// pub/sub. The dispatching node pushes to its own connections
// directly; the relay covers connections held by other nodes. Events
// carry the origin node id so the dispatching node ignores its own
// echo, keeping delivery at most once per connection.
type SignalService struct {
	rdb    *redis.Client
	nodeID string
	seen   *cache.Cache
}

func NewSignalService(redisClient *redis.Client, nodeID string) *SignalService {
	return &SignalService{
		rdb:    redisClient,
		nodeID: nodeID,
		seen:   cache.New(5*time.Minute, 10*time.Minute),
	}
}

// Publish sends event to the relay channel, stamped with this node's
// origin id.
func (s *SignalService) Publish(ctx context.Context, event domain.Event) error {
	event.Origin = s.nodeID

	jsonstr, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return s.rdb.Publish(ctx, domain.NotifyChannel, jsonstr).Err()
}

// Listen subscribes to the relay channel and fans incoming events out
// to local connections until ctx is done. Runs in its own goroutine.
func (s *SignalService) Listen(ctx context.Context, registry *Registry) {
	pubsub := s.rdb.Subscribe(ctx, domain.NotifyChannel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			s.deliver(ctx, registry, []byte(msg.Payload))
		}
	}
}

func (s *SignalService) deliver(ctx context.Context, registry *Registry, payload []byte) {
	var event domain.Event
	if err := json.Unmarshal(payload, &event); err != nil {
		slog.WarnContext(ctx, "malformed relay event",
			slog.String("error", err.Error()),
			slog.String("module", "signal"),
		)
		return
	}

	if event.Origin == s.nodeID {
		return
	}

	// Redis delivers at most once per subscriber, but a reconnecting
	// subscriber can observe a replayed backlog from a proxy layer.
	if _, dup := s.seen.Get(event.Payload.ID); dup {
		return
	}
	s.seen.Set(event.Payload.ID, struct{}{}, cache.DefaultExpiration)

	event.Origin = ""
	for _, conn := range registry.ConnectionsFor(event.Payload.UserID) {
		if err := conn.WriteJSON(event); err != nil {
			slog.WarnContext(ctx, "relay push failed",
				slog.String("user", event.Payload.UserID),
				slog.String("error", err.Error()),
				slog.String("module", "signal"),
			)
		}
	}
}
