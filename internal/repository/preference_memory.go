package repository

import (
	"context"

	"github.com/futig/parallel-universe/internal/prefs"
	"github.com/patrickmn/go-cache"
)

var _ prefs.Storage = &PreferenceMemory{}

// PreferenceMemory implements prefs.Storage in process memory. Values never expire.
type PreferenceMemory struct {
	cache *cache.Cache
}

func NewPreferenceMemory() *PreferenceMemory {
	return &PreferenceMemory{
		cache: cache.New(cache.NoExpiration, 0),
	}
}

func (r *PreferenceMemory) Get(_ context.Context, clientID string, key prefs.Key) (string, error) {
	value, ok := r.cache.Get(preferenceCacheKey(clientID, key))
	if !ok {
		return "", prefs.ErrNotFound
	}
	return value.(string), nil
}

func (r *PreferenceMemory) Set(_ context.Context, clientID string, key prefs.Key, value string) error {
	r.cache.Set(preferenceCacheKey(clientID, key), value, cache.NoExpiration)
	return nil
}

func (r *PreferenceMemory) Delete(_ context.Context, clientID string, key prefs.Key) error {
	r.cache.Delete(preferenceCacheKey(clientID, key))
	return nil
}

func preferenceCacheKey(clientID string, key prefs.Key) string {
	return clientID + "/" + string(key)
}
