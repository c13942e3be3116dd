package archive

import "context"

// Archive stores immutable objects by key. Keys use forward slashes.
type Archive interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Get(ctx context.Context, key string) ([]byte, error)
}
