package book

import "context"

type Repository interface {
	Create(ctx context.Context, b *Book) error
	GetByBookID(ctx context.Context, bookID string) (*Book, error)
}
