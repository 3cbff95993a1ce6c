package domain

import "time"

// Point is a geographic coordinate pair in degrees.
type Point struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Profile is a read-only snapshot of a user owned by the external
// user-management service. Location and LastActiveAt are optional.
type Profile struct {
	ID           string     `json:"id"`
	Location     *Point     `json:"location,omitempty"`
	Tags         []string   `json:"tags,omitempty"`
	Friends      []string   `json:"friends,omitempty"`
	Language     string     `json:"language,omitempty"`
	LastActiveAt *time.Time `json:"lastActiveAt,omitempty"`
}

// Candidate pairs a profile with the score and distance computed for a
// single discovery request. Never persisted.
type Candidate struct {
	Profile    Profile
	Score      int
	DistanceKm float64
}
