package app

import (
	"context"

	"classquiz-service/internal/domain"
)

// CatalogRepository serves the read side of the student pickers.
type CatalogRepository interface {
	ListCategories(ctx context.Context) ([]domain.Category, error)
	ListQuizzes(ctx context.Context, categoryID string) ([]domain.QuizSummary, error)
}

// CatalogService exposes the category and quiz listings.
type CatalogService struct {
	catalog CatalogRepository
}

func NewCatalogService(catalog CatalogRepository) *CatalogService {
	return &CatalogService{catalog: catalog}
}

func (s *CatalogService) Categories(ctx context.Context) ([]domain.Category, error) {
	return s.catalog.ListCategories(ctx)
}

// Quizzes lists quiz summaries, optionally filtered by category.
func (s *CatalogService) Quizzes(ctx context.Context, categoryID string) ([]domain.QuizSummary, error) {
	return s.catalog.ListQuizzes(ctx, categoryID)
}
