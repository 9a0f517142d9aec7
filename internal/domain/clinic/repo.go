package clinic

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines persistence operations for clinics.
type Repository interface {
	Create(ctx context.Context, cl *Clinic) error
	GetByID(ctx context.Context, id uuid.UUID) (*Clinic, error)
	GetBySlug(ctx context.Context, slug string) (*Clinic, error)
	Update(ctx context.Context, cl *Clinic) error
	Search(ctx context.Context, f SearchFilter, limit, offset int) ([]*Clinic, int, error)
	// Claim binds an owner to an unclaimed clinic. Returns false when the
	// clinic is already claimed.
	Claim(ctx context.Context, id uuid.UUID, ownerUserID string) (bool, error)
	ListIDsByOwner(ctx context.Context, ownerUserID string) ([]uuid.UUID, error)
}
