package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/vicinity-social/vicinity/internal/domain"
	"github.com/vicinity-social/vicinity/internal/geo"
)

// --- mocks ---

type mockProfileRepo struct {
	profiles map[string]domain.Profile
}

func (m *mockProfileRepo) Get(ctx context.Context, id string) (domain.Profile, error) {
	p, ok := m.profiles[id]
	if !ok {
		return domain.Profile{}, domain.NotFoundError{Resource: "profile"}
	}
	return p, nil
}

func (m *mockProfileRepo) GetMany(ctx context.Context, ids []string) ([]domain.Profile, error) {
	out := make([]domain.Profile, 0, len(ids))
	for _, id := range ids {
		if p, ok := m.profiles[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

type mockProximityRepo struct {
	pool      []domain.Profile
	err       error
	excludeID string
	limit     int
	located   map[string]domain.Point
}

func (m *mockProximityRepo) FindNearby(ctx context.Context, origin domain.Point, radiusKm float64, excludeID string, limit int) ([]domain.Profile, error) {
	m.excludeID = excludeID
	m.limit = limit
	if m.err != nil {
		return nil, m.err
	}
	return m.pool, nil
}

func (m *mockProximityRepo) SetLocation(ctx context.Context, id string, p domain.Point) error {
	if m.located == nil {
		m.located = map[string]domain.Point{}
	}
	m.located[id] = p
	return nil
}

func located(id string, lat, lon float64, tags ...string) domain.Profile {
	return domain.Profile{
		ID:       id,
		Location: &domain.Point{Latitude: lat, Longitude: lon},
		Tags:     tags,
	}
}

// --- tests ---

func TestDiscoverRanksByScoreDescending(t *testing.T) {
	me := located("me", 0, 0, "go", "music", "chess")

	// far has no shared tags, near shares all three and sits ~1 km away.
	near := located("near", 0, 0.01, "go", "music", "chess")
	far := located("far", 0, 2, "surfing")

	profiles := &mockProfileRepo{profiles: map[string]domain.Profile{"me": me}}
	proximity := &mockProximityRepo{pool: []domain.Profile{far, near}}
	uc := NewDiscoveryUsecase(profiles, proximity)

	got, err := uc.Discover(context.Background(), "me", 50, 10)
	if err != nil {
		t.Fatalf("discover failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(got))
	}
	if got[0].Profile.ID != "near" || got[1].Profile.ID != "far" {
		t.Fatalf("unexpected order: %s, %s", got[0].Profile.ID, got[1].Profile.ID)
	}
	if got[0].Score <= got[1].Score {
		t.Fatalf("expected descending scores, got %d then %d", got[0].Score, got[1].Score)
	}
	if geo.IsUnknown(got[0].DistanceKm) || got[0].DistanceKm > 2 {
		t.Fatalf("unexpected distance %f", got[0].DistanceKm)
	}
}

func TestDiscoverTiesKeepPoolOrder(t *testing.T) {
	me := located("me", 0, 0)
	pool := []domain.Profile{
		located("a", 0, 0.01),
		located("b", 0, 0.02),
		located("c", 0, 0.03),
	}

	profiles := &mockProfileRepo{profiles: map[string]domain.Profile{"me": me}}
	proximity := &mockProximityRepo{pool: pool}
	uc := NewDiscoveryUsecase(profiles, proximity)

	got, err := uc.Discover(context.Background(), "me", 50, 10)
	if err != nil {
		t.Fatalf("discover failed: %v", err)
	}
	for i, want := range []string{"a", "b", "c"} {
		if got[i].Profile.ID != want {
			t.Fatalf("tie-break broke pool order: got %s at %d", got[i].Profile.ID, i)
		}
	}
}

func TestDiscoverEmptyPool(t *testing.T) {
	me := located("me", 0, 0)
	profiles := &mockProfileRepo{profiles: map[string]domain.Profile{"me": me}}
	proximity := &mockProximityRepo{}
	uc := NewDiscoveryUsecase(profiles, proximity)

	got, err := uc.Discover(context.Background(), "me", 50, 10)
	if err != nil {
		t.Fatalf("discover failed: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty result, got %d", len(got))
	}
}

func TestDiscoverUnknownRequester(t *testing.T) {
	profiles := &mockProfileRepo{profiles: map[string]domain.Profile{}}
	uc := NewDiscoveryUsecase(profiles, &mockProximityRepo{})

	_, err := uc.Discover(context.Background(), "ghost", 50, 10)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDiscoverNeverIncludesRequester(t *testing.T) {
	me := located("me", 0, 0)
	profiles := &mockProfileRepo{profiles: map[string]domain.Profile{"me": me}}
	// The store misbehaves and returns the requester anyway.
	proximity := &mockProximityRepo{pool: []domain.Profile{me, located("other", 0, 0.01)}}
	uc := NewDiscoveryUsecase(profiles, proximity)

	got, err := uc.Discover(context.Background(), "me", 50, 10)
	if err != nil {
		t.Fatalf("discover failed: %v", err)
	}
	if proximity.excludeID != "me" {
		t.Fatalf("store not asked to exclude requester")
	}
	for _, c := range got {
		if c.Profile.ID == "me" {
			t.Fatalf("requester leaked into results")
		}
	}
}

func TestDiscoverDeduplicatesAndTruncates(t *testing.T) {
	me := located("me", 0, 0)
	dup := located("a", 0, 0.01)
	pool := []domain.Profile{dup, dup, located("b", 0, 0.02), located("c", 0, 0.03)}

	profiles := &mockProfileRepo{profiles: map[string]domain.Profile{"me": me}}
	proximity := &mockProximityRepo{pool: pool}
	uc := NewDiscoveryUsecase(profiles, proximity)

	got, err := uc.Discover(context.Background(), "me", 50, 2)
	if err != nil {
		t.Fatalf("discover failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected truncation to 2, got %d", len(got))
	}
	if got[0].Profile.ID != "a" || got[1].Profile.ID != "b" {
		t.Fatalf("unexpected candidates: %s, %s", got[0].Profile.ID, got[1].Profile.ID)
	}
}

func TestDiscoverRequesterWithoutLocation(t *testing.T) {
	me := domain.Profile{ID: "me"}
	profiles := &mockProfileRepo{profiles: map[string]domain.Profile{"me": me}}
	uc := NewDiscoveryUsecase(profiles, &mockProximityRepo{})

	got, err := uc.Discover(context.Background(), "me", 50, 10)
	if err != nil {
		t.Fatalf("discover failed: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty result without a location, got %d", len(got))
	}
}

func TestDiscoverInvalidRadius(t *testing.T) {
	me := located("me", 0, 0)
	profiles := &mockProfileRepo{profiles: map[string]domain.Profile{"me": me}}
	uc := NewDiscoveryUsecase(profiles, &mockProximityRepo{})

	for _, radius := range []float64{0, -1} {
		if _, err := uc.Discover(context.Background(), "me", radius, 10); !errors.Is(err, domain.ErrInvalidArgument) {
			t.Fatalf("expected invalid argument for radius %f, got %v", radius, err)
		}
	}
}

func TestAnnounceLocation(t *testing.T) {
	proximity := &mockProximityRepo{}
	uc := NewDiscoveryUsecase(&mockProfileRepo{}, proximity)

	p := domain.Point{Latitude: 35.68, Longitude: 139.76}
	if err := uc.AnnounceLocation(context.Background(), "me", p); err != nil {
		t.Fatalf("announce failed: %v", err)
	}
	if proximity.located["me"] != p {
		t.Fatalf("location not recorded")
	}

	bad := domain.Point{Latitude: 91, Longitude: 0}
	if err := uc.AnnounceLocation(context.Background(), "me", bad); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("expected invalid argument for out-of-range latitude, got %v", err)
	}
}

func TestDiscoverFrozenClockStableScores(t *testing.T) {
	now := time.Now()
	active := now.Add(-time.Hour)

	me := located("me", 0, 0)
	other := located("other", 0, 0.01)
	other.LastActiveAt = &active

	profiles := &mockProfileRepo{profiles: map[string]domain.Profile{"me": me}}
	proximity := &mockProximityRepo{pool: []domain.Profile{other}}
	uc := NewDiscoveryUsecase(profiles, proximity)
	uc.now = func() time.Time { return now }

	got, err := uc.Discover(context.Background(), "me", 50, 10)
	if err != nil {
		t.Fatalf("discover failed: %v", err)
	}
	// +3 distance tier, +1 recency
	if got[0].Score != 4 {
		t.Fatalf("expected score 4, got %d", got[0].Score)
	}
}
