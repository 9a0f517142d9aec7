package dashboard

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var ErrForbidden = errors.New("forbidden")

// ClinicOwnership resolves which clinics a user controls. Satisfied by the
// clinic service.
type ClinicOwnership interface {
	OwnedClinicIDs(ctx context.Context, ownerUserID string) ([]uuid.UUID, error)
}

type Service struct {
	repo    Repository
	clinics ClinicOwnership
	logger  zerolog.Logger
}

func NewService(repo Repository, clinics ClinicOwnership, logger zerolog.Logger) *Service {
	return &Service{repo: repo, clinics: clinics, logger: logger}
}

// EnquiryStats scopes the aggregation to the caller: admins see the whole
// marketplace, clinic users their own clinics.
func (s *Service) EnquiryStats(ctx context.Context, userID string, roles []string) (*EnquiryStats, error) {
	if hasRole(roles, "admin") {
		return s.repo.EnquiryStats(ctx, nil)
	}
	if hasRole(roles, "clinic") {
		ids, err := s.clinics.OwnedClinicIDs(ctx, userID)
		if err != nil {
			return nil, err
		}
		if len(ids) == 0 {
			return &EnquiryStats{ByStatus: map[string]int{}}, nil
		}
		return s.repo.EnquiryStats(ctx, ids)
	}
	return nil, ErrForbidden
}

func hasRole(roles []string, role string) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}
