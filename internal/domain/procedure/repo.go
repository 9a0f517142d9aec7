package procedure

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines persistence operations for procedures.
type Repository interface {
	Create(ctx context.Context, p *Procedure) error
	GetByID(ctx context.Context, id uuid.UUID) (*Procedure, error)
	GetBySlug(ctx context.Context, slug string) (*Procedure, error)
	Update(ctx context.Context, p *Procedure) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, category string, limit, offset int) ([]*Procedure, int, error)
}
