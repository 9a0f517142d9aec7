package content

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

var validKinds = map[string]bool{
	KindBlog: true, KindComparison: true, KindLanding: true,
}

const publishedListTTL = 5 * time.Minute

func publishedListKey(kind string, limit, offset int) string {
	return fmt.Sprintf("content:published:%s:%d:%d", kind, limit, offset)
}

type publishedPage struct {
	Items []*Item `json:"items"`
	Total int     `json:"total"`
}

// Service provides business logic for editorial content. The public published
// listing is cached per page with a short TTL.
type Service struct {
	repo   Repository
	cache  *cache.Cache
	logger zerolog.Logger
}

func NewService(repo Repository, c *cache.Cache, logger zerolog.Logger) *Service {
	return &Service{repo: repo, cache: c, logger: logger}
}

func (s *Service) Create(ctx context.Context, it *Item) error {
	if strings.TrimSpace(it.Title) == "" {
		return fmt.Errorf("title is required")
	}
	if !validKinds[it.Kind] {
		return fmt.Errorf("invalid kind: %s", it.Kind)
	}
	if it.Slug == "" {
		return fmt.Errorf("slug is required")
	}
	if it.Published && it.PublishedAt == nil {
		now := time.Now().UTC()
		it.PublishedAt = &now
	}
	return s.repo.Create(ctx, it)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Item, error) {
	return s.repo.GetByID(ctx, id)
}

// GetPublishedBySlug returns a published item; unpublished slugs are treated
// as absent for public callers.
func (s *Service) GetPublishedBySlug(ctx context.Context, slug string) (*Item, error) {
	it, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !it.Published {
		return nil, fmt.Errorf("content not published: %s", slug)
	}
	return it, nil
}

func (s *Service) Update(ctx context.Context, it *Item) error {
	if strings.TrimSpace(it.Title) == "" {
		return fmt.Errorf("title is required")
	}
	if !validKinds[it.Kind] {
		return fmt.Errorf("invalid kind: %s", it.Kind)
	}
	if it.Published && it.PublishedAt == nil {
		now := time.Now().UTC()
		it.PublishedAt = &now
	}
	return s.repo.Update(ctx, it)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

// ListPublished serves the public content listing, cached per page with a
// short TTL so publishes become visible within minutes.
func (s *Service) ListPublished(ctx context.Context, kind string, limit, offset int) ([]*Item, int, error) {
	key := publishedListKey(kind, limit, offset)

	var page publishedPage
	if err := s.cache.GetJSON(ctx, key, &page); err == nil {
		return page.Items, page.Total, nil
	} else if !errors.Is(err, cache.ErrMiss) {
		s.logger.Warn().Err(err).Msg("published content cache read failed")
	}

	items, total, err := s.repo.ListPublished(ctx, kind, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	if err := s.cache.SetJSON(ctx, key, publishedPage{Items: items, Total: total}, publishedListTTL); err != nil {
		s.logger.Warn().Err(err).Msg("published content cache write failed")
	}
	return items, total, nil
}

func (s *Service) ListAll(ctx context.Context, limit, offset int) ([]*Item, int, error) {
	return s.repo.ListAll(ctx, limit, offset)
}
