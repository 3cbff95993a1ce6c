package repository

import (
	"context"

	"github.com/redis/go-redis/v9"

	"github.com/vicinity-social/vicinity/internal/domain"
	"github.com/vicinity-social/vicinity/internal/geo"
	"github.com/vicinity-social/vicinity/internal/usecase"
)

// ProximityRepository adapts the redis GEO set into profile snapshots.
// The query shape — point as lon/lat, radius in meters — is the only
// coupling to the storage technology and stays inside this file.
type ProximityRepository struct {
	rdb      *redis.Client
	profiles usecase.ProfileRepository
}

func NewProximityRepository(rdb *redis.Client, profiles usecase.ProfileRepository) *ProximityRepository {
	return &ProximityRepository{rdb: rdb, profiles: profiles}
}

func (r *ProximityRepository) FindNearby(ctx context.Context, origin domain.Point, radiusKm float64, excludeID string, limit int) ([]domain.Profile, error) {
	if !geo.Finite(origin.Latitude, origin.Longitude) {
		return nil, domain.InvalidArgumentError{Reason: "origin coordinates must be finite"}
	}
	if !geo.Finite(radiusKm) || radiusKm <= 0 {
		return nil, domain.InvalidArgumentError{Reason: "radius must be a positive number"}
	}
	if limit <= 0 {
		return []domain.Profile{}, nil
	}

	// One extra slot: the requester's own member may occupy one.
	members, err := r.rdb.GeoSearch(ctx, domain.GeoKey, &redis.GeoSearchQuery{
		Longitude:  origin.Longitude,
		Latitude:   origin.Latitude,
		Radius:     radiusKm * 1000,
		RadiusUnit: "m",
		Count:      limit + 1,
	}).Result()
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(members))
	for _, m := range members {
		if m == excludeID {
			continue
		}
		ids = append(ids, m)
	}
	if len(ids) > limit {
		ids = ids[:limit]
	}

	// Members whose profile snapshot is gone are dropped by GetMany.
	return r.profiles.GetMany(ctx, ids)
}

func (r *ProximityRepository) SetLocation(ctx context.Context, id string, p domain.Point) error {
	if !geo.Finite(p.Latitude, p.Longitude) {
		return domain.InvalidArgumentError{Reason: "coordinates must be finite"}
	}
	return r.rdb.GeoAdd(ctx, domain.GeoKey, &redis.GeoLocation{
		Name:      id,
		Longitude: p.Longitude,
		Latitude:  p.Latitude,
	}).Err()
}
