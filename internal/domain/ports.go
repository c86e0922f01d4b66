package domain

import "context"

// RecipeService talks to the detection/recommendation backend. The client
// never computes matches itself; it renders what the service returns.
type RecipeService interface {
	// Detect submits an image as a data URL and returns the detections.
	Detect(ctx context.Context, imageDataURL string) (*DetectionResult, error)
	// Recommend submits the basket contents and returns ranked recipes.
	// An empty ingredient list must not hit the network.
	Recommend(ctx context.Context, ingredients []string) ([]Recipe, error)
}

// StateStore persists named string sets across runs. Persistence is
// best-effort: Load tolerates missing or corrupt data by returning an empty
// set, and Save failures are swallowed — the in-memory set stays
// authoritative for the session.
type StateStore interface {
	Load(key string) map[string]struct{}
	Save(key string, set map[string]struct{})
}

// CatalogSource provides the statically bundled recipe list used for browse
// and favorites views, and as the zero-network fallback.
type CatalogSource interface {
	All() []Recipe
}

// Notifier delivers transient user-facing messages (the toast analog).
type Notifier interface {
	Notify(ctx context.Context, message string) error
	NotifyUrgent(ctx context.Context, message string) error
}

// CommandParser converts raw user input into structured intents.
type CommandParser interface {
	Parse(ctx context.Context, input string) (*Intent, error)
}
