package dashboard

import (
	"context"

	"github.com/google/uuid"
)

// Repository computes enquiry aggregates. An empty clinicIDs slice means no
// clinic restriction (admin view).
type Repository interface {
	EnquiryStats(ctx context.Context, clinicIDs []uuid.UUID) (*EnquiryStats, error)
}
