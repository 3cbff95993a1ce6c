package domain

const (
	RequesterIdCtxKey = "vc-requesterId"
)

const (
	RequesterIdHeader = "x-vicinity-requester"
)

const (
	// GeoKey is the redis sorted set holding announced member locations.
	GeoKey = "vicinity:geo"
	// NotifyChannel is the redis pub/sub channel for cross-node fan-out.
	NotifyChannel = "vicinity:notify"
)

const (
	EventTypeNotification = "notification"
)
