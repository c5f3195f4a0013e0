package playercache

import "context"

// Repository describes player-name cache persistence needs from use cases.
type Repository interface {
	Load(ctx context.Context) (Cache, error)
	Save(ctx context.Context, cache Cache) error
}
