package destination

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Service provides business logic for the destination catalog.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, d *Destination) error {
	if strings.TrimSpace(d.Code) == "" {
		return fmt.Errorf("code is required")
	}
	if strings.TrimSpace(d.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if strings.TrimSpace(d.Country) == "" {
		return fmt.Errorf("country is required")
	}
	return s.repo.Create(ctx, d)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Destination, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetByCode(ctx context.Context, code string) (*Destination, error) {
	return s.repo.GetByCode(ctx, code)
}

func (s *Service) Update(ctx context.Context, d *Destination) error {
	if strings.TrimSpace(d.Name) == "" {
		return fmt.Errorf("name is required")
	}
	return s.repo.Update(ctx, d)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Destination, int, error) {
	return s.repo.List(ctx, limit, offset)
}
