package rawdata

import "context"

// Repository is the read side of the raw source store.
type Repository interface {
	ListIDs(ctx context.Context) ([]string, error)
	Read(ctx context.Context, eventID string) (Payload, bool, error)
}
