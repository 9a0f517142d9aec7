package clinic

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/careatlas/careatlas/internal/platform/cache"
)

// ErrAlreadyClaimed is returned when a claim races or repeats against a
// clinic that already has an owner.
var ErrAlreadyClaimed = errors.New("clinic already claimed")

const contactProfileTTL = 10 * time.Minute

func contactProfileKey(id uuid.UUID) string {
	return "clinic:contact:" + id.String()
}

// Service provides business logic for clinic listings. Contact profiles are
// served read-through from Redis since the enquiry pipeline resolves one per
// submission.
type Service struct {
	repo   Repository
	cache  *cache.Cache
	logger zerolog.Logger
}

func NewService(repo Repository, c *cache.Cache, logger zerolog.Logger) *Service {
	return &Service{repo: repo, cache: c, logger: logger}
}

func (s *Service) Create(ctx context.Context, cl *Clinic) error {
	if strings.TrimSpace(cl.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if strings.TrimSpace(cl.City) == "" {
		return fmt.Errorf("city is required")
	}
	if strings.TrimSpace(cl.DestinationCode) == "" {
		return fmt.Errorf("destination_code is required")
	}
	cl.DestinationCode = strings.ToUpper(cl.DestinationCode)
	if cl.Slug == "" {
		cl.Slug = slugify(cl.Name + "-" + cl.City)
	}
	return s.repo.Create(ctx, cl)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Clinic, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetBySlug(ctx context.Context, slug string) (*Clinic, error) {
	return s.repo.GetBySlug(ctx, slug)
}

func (s *Service) Update(ctx context.Context, cl *Clinic) error {
	if strings.TrimSpace(cl.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if err := s.repo.Update(ctx, cl); err != nil {
		return err
	}
	s.invalidateContactProfile(ctx, cl.ID)
	return nil
}

func (s *Service) Search(ctx context.Context, f SearchFilter, limit, offset int) ([]*Clinic, int, error) {
	return s.repo.Search(ctx, f, limit, offset)
}

// Claim binds the calling user as the clinic's owner. First claim wins.
func (s *Service) Claim(ctx context.Context, id uuid.UUID, ownerUserID string) error {
	if ownerUserID == "" {
		return fmt.Errorf("owner user id is required")
	}
	claimed, err := s.repo.Claim(ctx, id, ownerUserID)
	if err != nil {
		return err
	}
	if !claimed {
		return ErrAlreadyClaimed
	}
	s.invalidateContactProfile(ctx, id)
	return nil
}

// ContactProfile resolves the notification routing data for a clinic,
// read-through cached. Cache failures degrade to a direct read.
func (s *Service) ContactProfile(ctx context.Context, id uuid.UUID) (*ContactProfile, error) {
	key := contactProfileKey(id)

	var cached ContactProfile
	if err := s.cache.GetJSON(ctx, key, &cached); err == nil {
		return &cached, nil
	} else if !errors.Is(err, cache.ErrMiss) {
		s.logger.Warn().Err(err).Str("clinic_id", id.String()).Msg("contact profile cache read failed")
	}

	cl, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	profile := &ContactProfile{ID: cl.ID, Name: cl.Name, Email: cl.Email, Phone: cl.Phone}

	if err := s.cache.SetJSON(ctx, key, profile, contactProfileTTL); err != nil {
		s.logger.Warn().Err(err).Str("clinic_id", id.String()).Msg("contact profile cache write failed")
	}
	return profile, nil
}

// OwnedClinicIDs returns the clinics owned by a user, for enquiry visibility
// scoping.
func (s *Service) OwnedClinicIDs(ctx context.Context, ownerUserID string) ([]uuid.UUID, error) {
	return s.repo.ListIDsByOwner(ctx, ownerUserID)
}

func (s *Service) invalidateContactProfile(ctx context.Context, id uuid.UUID) {
	if err := s.cache.Delete(ctx, contactProfileKey(id)); err != nil {
		s.logger.Warn().Err(err).Str("clinic_id", id.String()).Msg("contact profile cache invalidation failed")
	}
}

func slugify(name string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
