package usecase

import (
	"context"
	"sort"
	"time"

	goerrors "errors"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"

	"github.com/vicinity-social/vicinity/internal/domain"
	"github.com/vicinity-social/vicinity/internal/geo"
	"github.com/vicinity-social/vicinity/internal/match"
)

var tracer = otel.Tracer("usecase")

// poolFactor is how many raw candidates are requested from the store
// per returned slot, so ranking has something to choose from.
const poolFactor = 4

type DiscoveryUsecase struct {
	profiles  ProfileRepository
	proximity ProximityRepository
	now       func() time.Time
}

func NewDiscoveryUsecase(profiles ProfileRepository, proximity ProximityRepository) *DiscoveryUsecase {
	return &DiscoveryUsecase{
		profiles:  profiles,
		proximity: proximity,
		now:       time.Now,
	}
}

// Discover returns up to limit candidates near userID, ranked by score
// descending. Equal scores keep store order. A requester without an
// announced location gets an empty list, as does an empty pool.
func (uc *DiscoveryUsecase) Discover(ctx context.Context, userID string, radiusKm float64, limit int) ([]domain.Candidate, error) {
	ctx, span := tracer.Start(ctx, "Discovery.Usecase.Discover")
	defer span.End()

	if userID == "" {
		return nil, domain.InvalidArgumentError{Reason: "missing user id"}
	}
	if radiusKm <= 0 || !geo.Finite(radiusKm) {
		return nil, domain.InvalidArgumentError{Reason: "radius must be a positive number"}
	}
	if limit <= 0 {
		return []domain.Candidate{}, nil
	}

	requester, err := uc.profiles.Get(ctx, userID)
	if err != nil {
		if goerrors.Is(err, domain.ErrNotFound) {
			return nil, domain.NotFoundError{Resource: "profile"}
		}
		span.RecordError(err)
		return nil, errors.Wrap(err, "discovery: fetch requester")
	}

	if requester.Location == nil {
		return []domain.Candidate{}, nil
	}

	pool, err := uc.proximity.FindNearby(ctx, *requester.Location, radiusKm, requester.ID, limit*poolFactor)
	if err != nil {
		span.RecordError(err)
		return nil, errors.Wrap(err, "discovery: proximity query")
	}

	now := uc.now()
	seen := map[string]struct{}{requester.ID: {}}
	candidates := make([]domain.Candidate, 0, len(pool))
	for _, p := range pool {
		if _, dup := seen[p.ID]; dup {
			continue
		}
		seen[p.ID] = struct{}{}

		d := geo.Unknown
		if p.Location != nil {
			d = geo.DistanceKm(
				requester.Location.Latitude, requester.Location.Longitude,
				p.Location.Latitude, p.Location.Longitude,
			)
		}

		candidates = append(candidates, domain.Candidate{
			Profile:    p,
			Score:      match.Score(requester, p, now),
			DistanceKm: d,
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})

	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	return candidates, nil
}

// AnnounceLocation records userID's current point in the geospatial
// store so others can discover them.
func (uc *DiscoveryUsecase) AnnounceLocation(ctx context.Context, userID string, p domain.Point) error {
	ctx, span := tracer.Start(ctx, "Discovery.Usecase.AnnounceLocation")
	defer span.End()

	if userID == "" {
		return domain.InvalidArgumentError{Reason: "missing user id"}
	}
	if !geo.Finite(p.Latitude, p.Longitude) {
		return domain.InvalidArgumentError{Reason: "coordinates must be finite"}
	}
	if p.Latitude < -90 || p.Latitude > 90 || p.Longitude < -180 || p.Longitude > 180 {
		return domain.InvalidArgumentError{Reason: "coordinates out of range"}
	}

	if err := uc.proximity.SetLocation(ctx, userID, p); err != nil {
		span.RecordError(err)
		return errors.Wrap(err, "discovery: announce location")
	}
	return nil
}
