package procedure

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// Service provides business logic for the procedure catalog.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, p *Procedure) error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if strings.TrimSpace(p.Category) == "" {
		return fmt.Errorf("category is required")
	}
	if p.Slug == "" {
		p.Slug = Slugify(p.Name)
	}
	if !slugPattern.MatchString(p.Slug) {
		return fmt.Errorf("invalid slug: %s", p.Slug)
	}
	if p.PriceMinUSD != nil && p.PriceMaxUSD != nil && *p.PriceMinUSD > *p.PriceMaxUSD {
		return fmt.Errorf("price_min_usd exceeds price_max_usd")
	}
	return s.repo.Create(ctx, p)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Procedure, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetBySlug(ctx context.Context, slug string) (*Procedure, error) {
	return s.repo.GetBySlug(ctx, slug)
}

func (s *Service) Update(ctx context.Context, p *Procedure) error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if p.PriceMinUSD != nil && p.PriceMaxUSD != nil && *p.PriceMinUSD > *p.PriceMaxUSD {
		return fmt.Errorf("price_min_usd exceeds price_max_usd")
	}
	return s.repo.Update(ctx, p)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context, category string, limit, offset int) ([]*Procedure, int, error) {
	return s.repo.List(ctx, category, limit, offset)
}

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify derives a URL slug from a display name.
func Slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = nonSlugChars.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}
