package store

import (
	"context"

	"prapp-client/internal/domain/model"
)

// PreferenceStore is client-local persistent storage. Loads must be cheap
// enough to run before any network call so screens can render local-only.
type PreferenceStore interface {
	Load(ctx context.Context) (model.Preferences, error)
	Save(ctx context.Context, prefs model.Preferences) error

	// Token is the bearer token under its fixed key, "" when absent.
	Token(ctx context.Context) (string, error)
	SetToken(ctx context.Context, token string) error

	Close() error
}
