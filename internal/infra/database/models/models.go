package models

import "time"

// Profile mirrors the user table owned by the external user-management
// service. This subsystem only reads it. Tags is the raw JSON array as
// written upstream; historical rows carry either identifier strings or
// resolved objects.
type Profile struct {
	ID           string `gorm:"primaryKey;type:text"`
	Latitude     *float64
	Longitude    *float64
	Tags         string `gorm:"type:json;default:'[]'"`
	Language     string `gorm:"type:text"`
	LastActiveAt *time.Time
}

// ProfileFriend is one edge of the friendship graph.
type ProfileFriend struct {
	ProfileID string `gorm:"primaryKey;type:text"`
	FriendID  string `gorm:"primaryKey;type:text"`
}

// Notification is a persisted user-facing alert.
type Notification struct {
	ID           string `gorm:"primaryKey;type:text"`
	UserID       string `gorm:"index;type:text"`
	Message      string `gorm:"type:text"`
	Link         string `gorm:"type:text"`
	MetaKind     string `gorm:"type:text"`
	MetaEntityID string `gorm:"type:text"`
	MetaActorID  string `gorm:"type:text"`
	Read         bool   `gorm:"default:false"`
	CreatedAt    time.Time
}
