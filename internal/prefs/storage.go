package prefs

import (
	"context"
	"errors"
)

// Key names a persisted preference. Values are opaque strings to the storage.
type Key string

const (
	// KeyFormData holds the JSON of the five personal info answers.
	KeyFormData Key = "universeFormData"
	// KeySkipGreeting holds "true" or "false".
	KeySkipGreeting Key = "skipKarmaGreeting"
	// KeyLanguage holds a supported locale tag.
	KeyLanguage Key = "selectedLanguage"
)

// Keys lists every preference key.
var Keys = []Key{KeyFormData, KeySkipGreeting, KeyLanguage}

var ErrNotFound = errors.New("preference not found")

// Storage defines the interface for per-client preference persistence.
// Every call replaces or removes a whole value; partial writes never happen.
type Storage interface {
	// Get returns ErrNotFound when the client has no value for key
	Get(ctx context.Context, clientID string, key Key) (string, error)

	// Set creates or overwrites the value
	Set(ctx context.Context, clientID string, key Key, value string) error

	// Delete removes the value; deleting a missing value is not an error
	Delete(ctx context.Context, clientID string, key Key) error
}
