package destination

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines persistence operations for destinations.
type Repository interface {
	Create(ctx context.Context, d *Destination) error
	GetByID(ctx context.Context, id uuid.UUID) (*Destination, error)
	GetByCode(ctx context.Context, code string) (*Destination, error)
	Update(ctx context.Context, d *Destination) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*Destination, int, error)
}
