// AngelaMos | 2026
// service.go

package category

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context) ([]Category, error) {
	return s.repo.List(ctx)
}

// Seed upserts every category by slug; existing rows keep their ids.
func (s *Service) Seed(ctx context.Context, categories []Category) (int, error) {
	for i := range categories {
		c := categories[i]
		if c.ID == "" {
			c.ID = uuid.NewString()
		}
		if err := s.repo.UpsertBySlug(ctx, &c); err != nil {
			return i, fmt.Errorf("seed categories: %w", err)
		}
	}
	return len(categories), nil
}
