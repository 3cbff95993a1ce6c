package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/vicinity-social/vicinity/internal/domain"
)

// --- mocks ---

type mockNotificationRepo struct {
	created []domain.Notification
	err     error
	read    []string
}

func (m *mockNotificationRepo) Create(ctx context.Context, n *domain.Notification) error {
	if m.err != nil {
		return m.err
	}
	m.created = append(m.created, *n)
	return nil
}

func (m *mockNotificationRepo) ListByUser(ctx context.Context, userID string, limit int) ([]domain.Notification, error) {
	var out []domain.Notification
	for i := len(m.created) - 1; i >= 0; i-- {
		if m.created[i].UserID == userID {
			out = append(out, m.created[i])
		}
	}
	return out, nil
}

func (m *mockNotificationRepo) MarkRead(ctx context.Context, id string) error {
	m.read = append(m.read, id)
	return nil
}

type fakeConn struct {
	events []domain.Event
	err    error
	closed bool
}

func (c *fakeConn) WriteJSON(v any) error {
	if c.err != nil {
		return c.err
	}
	c.events = append(c.events, v.(domain.Event))
	return nil
}

func (c *fakeConn) Close() error {
	c.closed = true
	return nil
}

type fakePresence struct {
	conns map[string][]domain.Connection
}

func (p *fakePresence) ConnectionsFor(userID string) []domain.Connection {
	return p.conns[userID]
}

type fakePublisher struct {
	events []domain.Event
	err    error
}

func (p *fakePublisher) Publish(ctx context.Context, event domain.Event) error {
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)
	return nil
}

// --- tests ---

func TestDispatchPersistsWithoutConnections(t *testing.T) {
	repo := &mockNotificationRepo{}
	presence := &fakePresence{conns: map[string][]domain.Connection{}}
	uc := NewNotificationUsecase(repo, presence, nil)

	n, err := uc.Dispatch(context.Background(), "u1", "Hello", "/x", nil)
	if err != nil {
		t.Fatalf("dispatch failed: %v", err)
	}
	if n == nil {
		t.Fatalf("expected a record back")
	}
	if len(repo.created) != 1 || repo.created[0].UserID != "u1" {
		t.Fatalf("record not persisted: %+v", repo.created)
	}
	if n.Read {
		t.Fatalf("fresh record must be unread")
	}
	if n.CreatedAt.IsZero() || n.ID == "" {
		t.Fatalf("record missing id or timestamp: %+v", n)
	}
}

func TestDispatchMissingMessageIsNoOp(t *testing.T) {
	repo := &mockNotificationRepo{}
	conn := &fakeConn{}
	presence := &fakePresence{conns: map[string][]domain.Connection{"u1": {conn}}}
	uc := NewNotificationUsecase(repo, presence, nil)

	n, err := uc.Dispatch(context.Background(), "u1", "", "/x", nil)
	if err != nil || n != nil {
		t.Fatalf("expected nil, nil, got %v, %v", n, err)
	}
	if len(repo.created) != 0 {
		t.Fatalf("no record must be created")
	}
	if len(conn.events) != 0 {
		t.Fatalf("no push must happen")
	}

	n, err = uc.Dispatch(context.Background(), "", "Hello", "", nil)
	if err != nil || n != nil {
		t.Fatalf("expected nil, nil for missing user, got %v, %v", n, err)
	}
}

func TestDispatchFansOutToAllConnections(t *testing.T) {
	repo := &mockNotificationRepo{}
	c1 := &fakeConn{}
	c2 := &fakeConn{}
	presence := &fakePresence{conns: map[string][]domain.Connection{"u1": {c1, c2}}}
	uc := NewNotificationUsecase(repo, presence, nil)

	meta := &domain.NotificationMeta{Kind: "join-request", EntityID: "community-7"}
	n, err := uc.Dispatch(context.Background(), "u1", "New join request", "/communities/7", meta)
	if err != nil {
		t.Fatalf("dispatch failed: %v", err)
	}

	for i, c := range []*fakeConn{c1, c2} {
		if len(c.events) != 1 {
			t.Fatalf("conn %d received %d events", i, len(c.events))
		}
		ev := c.events[0]
		if ev.Type != domain.EventTypeNotification {
			t.Fatalf("unexpected event type %q", ev.Type)
		}
		if ev.Payload.ID != n.ID || ev.Payload.Message != "New join request" {
			t.Fatalf("payload mismatch: %+v", ev.Payload)
		}
		if ev.Payload.Meta == nil || ev.Payload.Meta.Kind != "join-request" {
			t.Fatalf("meta not carried: %+v", ev.Payload.Meta)
		}
	}
}

func TestDispatchPersistenceFailureAborts(t *testing.T) {
	repo := &mockNotificationRepo{err: errors.New("disk full")}
	conn := &fakeConn{}
	presence := &fakePresence{conns: map[string][]domain.Connection{"u1": {conn}}}
	uc := NewNotificationUsecase(repo, presence, nil)

	n, err := uc.Dispatch(context.Background(), "u1", "Hello", "", nil)
	if err == nil {
		t.Fatalf("expected persistence failure to propagate")
	}
	if n != nil {
		t.Fatalf("no record must be returned on failure")
	}
	if len(conn.events) != 0 {
		t.Fatalf("push must not happen when persistence fails")
	}
}

func TestDispatchDeliveryFailureIsIsolated(t *testing.T) {
	repo := &mockNotificationRepo{}
	broken := &fakeConn{err: errors.New("gone")}
	healthy := &fakeConn{}
	presence := &fakePresence{conns: map[string][]domain.Connection{"u1": {broken, healthy}}}
	uc := NewNotificationUsecase(repo, presence, nil)

	n, err := uc.Dispatch(context.Background(), "u1", "Hello", "", nil)
	if err != nil {
		t.Fatalf("delivery failure must not surface: %v", err)
	}
	if n == nil || len(repo.created) != 1 {
		t.Fatalf("record must remain persisted")
	}
	if len(healthy.events) != 1 {
		t.Fatalf("healthy connection must still receive the event")
	}
}

func TestDispatchPublishesRelayEvent(t *testing.T) {
	repo := &mockNotificationRepo{}
	presence := &fakePresence{conns: map[string][]domain.Connection{}}
	pub := &fakePublisher{}
	uc := NewNotificationUsecase(repo, presence, pub)

	n, err := uc.Dispatch(context.Background(), "u1", "Hello", "", nil)
	if err != nil {
		t.Fatalf("dispatch failed: %v", err)
	}
	if len(pub.events) != 1 || pub.events[0].Payload.ID != n.ID {
		t.Fatalf("relay event not published")
	}

	// Relay failure is best-effort and never surfaces.
	pub.err = errors.New("redis down")
	if _, err := uc.Dispatch(context.Background(), "u1", "Hello again", "", nil); err != nil {
		t.Fatalf("relay failure must not surface: %v", err)
	}
}

func TestListAndMarkReadValidation(t *testing.T) {
	repo := &mockNotificationRepo{}
	uc := NewNotificationUsecase(repo, &fakePresence{}, nil)

	if _, err := uc.ListByUser(context.Background(), "", 10); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("expected invalid argument, got %v", err)
	}
	if err := uc.MarkRead(context.Background(), ""); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("expected invalid argument, got %v", err)
	}

	uc.Dispatch(context.Background(), "u1", "a", "", nil)
	uc.Dispatch(context.Background(), "u1", "b", "", nil)
	got, err := uc.ListByUser(context.Background(), "u1", 10)
	if err != nil || len(got) != 2 {
		t.Fatalf("expected 2 records, got %d (%v)", len(got), err)
	}
	if got[0].Message != "b" {
		t.Fatalf("expected newest first, got %q", got[0].Message)
	}
}
