package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	goerrors "errors"

	"github.com/bradfitz/gomemcache/memcache"
	"github.com/zeebo/xxh3"
	"gorm.io/gorm"

	"github.com/vicinity-social/vicinity/internal/domain"
	"github.com/vicinity-social/vicinity/internal/infra/database/models"
	"github.com/vicinity-social/vicinity/internal/match"
)

// snapshotTTL bounds how stale a cached profile snapshot may get.
const snapshotTTL = 60 // seconds

// ProfileRepository reads profile snapshots from the store owned by
// the user-management service, with a memcache layer in front.
type ProfileRepository struct {
	db *gorm.DB
	mc *memcache.Client
}

// NewProfileRepository builds the repository. mc may be nil to disable
// caching.
func NewProfileRepository(db *gorm.DB, mc *memcache.Client) *ProfileRepository {
	return &ProfileRepository{db: db, mc: mc}
}

func (r *ProfileRepository) Get(ctx context.Context, id string) (domain.Profile, error) {
	if p, ok := r.cached(id); ok {
		return p, nil
	}

	var row models.Profile
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&row).Error
	if err != nil {
		if goerrors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Profile{}, domain.NotFoundError{Resource: "profile"}
		}
		return domain.Profile{}, err
	}

	friends, err := r.friendsOf(ctx, []string{id})
	if err != nil {
		return domain.Profile{}, err
	}

	p := r.assemble(ctx, &row, friends[id])
	r.store(p)
	return p, nil
}

// GetMany resolves ids preserving input order. Unknown ids are
// silently skipped.
func (r *ProfileRepository) GetMany(ctx context.Context, ids []string) ([]domain.Profile, error) {
	if len(ids) == 0 {
		return []domain.Profile{}, nil
	}

	found := make(map[string]domain.Profile, len(ids))
	missing := make([]string, 0, len(ids))
	for _, id := range ids {
		if p, ok := r.cached(id); ok {
			found[id] = p
		} else {
			missing = append(missing, id)
		}
	}

	if len(missing) > 0 {
		var rows []models.Profile
		if err := r.db.WithContext(ctx).Where("id IN ?", missing).Find(&rows).Error; err != nil {
			return nil, err
		}
		friends, err := r.friendsOf(ctx, missing)
		if err != nil {
			return nil, err
		}
		for i := range rows {
			p := r.assemble(ctx, &rows[i], friends[rows[i].ID])
			found[p.ID] = p
			r.store(p)
		}
	}

	out := make([]domain.Profile, 0, len(ids))
	for _, id := range ids {
		if p, ok := found[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *ProfileRepository) friendsOf(ctx context.Context, ids []string) (map[string][]string, error) {
	var edges []models.ProfileFriend
	if err := r.db.WithContext(ctx).Where("profile_id IN ?", ids).Find(&edges).Error; err != nil {
		return nil, err
	}
	out := make(map[string][]string, len(ids))
	for _, e := range edges {
		out[e.ProfileID] = append(out[e.ProfileID], e.FriendID)
	}
	return out, nil
}

func (r *ProfileRepository) assemble(ctx context.Context, row *models.Profile, friends []string) domain.Profile {
	p := domain.Profile{
		ID:           row.ID,
		Friends:      friends,
		Language:     row.Language,
		LastActiveAt: row.LastActiveAt,
	}

	if row.Latitude != nil && row.Longitude != nil {
		p.Location = &domain.Point{Latitude: *row.Latitude, Longitude: *row.Longitude}
	}

	tags, err := match.ParseTags([]byte(row.Tags))
	if err != nil {
		// A corrupt tag list degrades to "no tags" rather than failing
		// the whole lookup.
		slog.WarnContext(ctx, "unreadable tag list",
			slog.String("profile", row.ID),
			slog.String("error", err.Error()),
			slog.String("module", "profile"),
		)
	}
	p.Tags = tags
	return p
}

// memcache keys are capped at 250 bytes; profile ids are opaque and
// unbounded, so keys are hashed.
func profileCacheKey(id string) string {
	return fmt.Sprintf("vicinity:profile:%016x", xxh3.HashString(id))
}

func (r *ProfileRepository) cached(id string) (domain.Profile, bool) {
	if r.mc == nil {
		return domain.Profile{}, false
	}
	item, err := r.mc.Get(profileCacheKey(id))
	if err != nil {
		return domain.Profile{}, false
	}
	var p domain.Profile
	if err := json.Unmarshal(item.Value, &p); err != nil {
		return domain.Profile{}, false
	}
	return p, true
}

func (r *ProfileRepository) store(p domain.Profile) {
	if r.mc == nil {
		return
	}
	raw, err := json.Marshal(p)
	if err != nil {
		return
	}
	r.mc.Set(&memcache.Item{
		Key:        profileCacheKey(p.ID),
		Value:      raw,
		Expiration: snapshotTTL,
	})
}
