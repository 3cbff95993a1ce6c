package database

import (
	"github.com/bradfitz/gomemcache/memcache"
)

// NewMemcached creates the client used for profile snapshot caching.
func NewMemcached(server string) *memcache.Client {
	return memcache.New(server)
}
