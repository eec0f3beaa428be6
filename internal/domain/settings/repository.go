package settings

import "context"

// Provider is the read side the fine policy depends on. Values are
// editable at runtime, so callers read them per calculation.
type Provider interface {
	GetValue(ctx context.Context, key string) (*Setting, error)
}

type Repository interface {
	Provider
	List(ctx context.Context, category string) ([]Setting, error)
	// Insert or update by Key
	Upsert(ctx context.Context, s *Setting) error
	// Insert only when Key is absent; existing values are kept
	CreateIfAbsent(ctx context.Context, s *Setting) error
}
