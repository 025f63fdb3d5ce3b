package game

import "context"

// Repository is the canonical output store. Save replaces a document
// atomically; readers see either the old or the new version.
type Repository interface {
	ListIDs(ctx context.Context) ([]string, error)
	Save(ctx context.Context, g Game) error
	Delete(ctx context.Context, eventID string) error
}
