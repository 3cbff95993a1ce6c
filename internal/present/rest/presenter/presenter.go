package presenter

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/vicinity-social/vicinity/internal/domain"
	"github.com/vicinity-social/vicinity/internal/geo"
)

type errorResponse struct {
	Error string `json:"error"`
}

// OK wraps a successful response.
func OK(c echo.Context, payload any) error {
	return c.JSON(http.StatusOK, payload)
}

func BadRequest(c echo.Context, err error) error {
	slog.Debug("bad request", slog.String("error", err.Error()), slog.String("module", "rest"))
	return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
}

func BadRequestMessage(c echo.Context, msg string) error {
	slog.Debug("bad request", slog.String("error", msg), slog.String("module", "rest"))
	return c.JSON(http.StatusBadRequest, errorResponse{Error: msg})
}

func NotFound(c echo.Context, msg string) error {
	return c.JSON(http.StatusNotFound, errorResponse{Error: msg})
}

func Unauthorized(c echo.Context, msg string) error {
	return c.JSON(http.StatusUnauthorized, errorResponse{Error: msg})
}

func InternalError(c echo.Context, err error) error {
	slog.Error("internal error", slog.String("error", err.Error()), slog.String("module", "rest"))
	return c.JSON(http.StatusInternalServerError, errorResponse{Error: err.Error()})
}

// ProfileSummary is the public subset of a profile.
type ProfileSummary struct {
	ID           string     `json:"id"`
	Tags         []string   `json:"tags,omitempty"`
	Language     string     `json:"language,omitempty"`
	LastActiveAt *time.Time `json:"lastActiveAt,omitempty"`
}

// CandidateView is one ranked discovery result. DistanceKm is null
// when the distance is unknown.
type CandidateView struct {
	Profile    ProfileSummary `json:"profile"`
	Score      int            `json:"score"`
	DistanceKm *float64       `json:"distanceKm"`
}

// Candidates converts ranked candidates into their response shape,
// preserving order.
func Candidates(cands []domain.Candidate) []CandidateView {
	views := make([]CandidateView, 0, len(cands))
	for _, cand := range cands {
		view := CandidateView{
			Profile: ProfileSummary{
				ID:           cand.Profile.ID,
				Tags:         cand.Profile.Tags,
				Language:     cand.Profile.Language,
				LastActiveAt: cand.Profile.LastActiveAt,
			},
			Score: cand.Score,
		}
		if !geo.IsUnknown(cand.DistanceKm) {
			d := cand.DistanceKm
			view.DistanceKm = &d
		}
		views = append(views, view)
	}
	return views
}
