package content

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines persistence operations for editorial content.
type Repository interface {
	Create(ctx context.Context, it *Item) error
	GetByID(ctx context.Context, id uuid.UUID) (*Item, error)
	GetBySlug(ctx context.Context, slug string) (*Item, error)
	Update(ctx context.Context, it *Item) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListPublished(ctx context.Context, kind string, limit, offset int) ([]*Item, int, error)
	ListAll(ctx context.Context, limit, offset int) ([]*Item, int, error)
}
