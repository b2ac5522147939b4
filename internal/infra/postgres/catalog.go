package postgres

import (
	"context"
	"fmt"

	"classquiz-service/internal/domain"

	"github.com/jackc/pgx/v4/pgxpool"
)

// Catalog serves the read side of the pickers from the categories and
// quizzes collections.
type Catalog struct {
	pool *pgxpool.Pool
}

func NewCatalog(pool *pgxpool.Pool) *Catalog {
	return &Catalog{pool: pool}
}

func (c *Catalog) ListCategories(ctx context.Context) ([]domain.Category, error) {
	rows, err := c.pool.Query(ctx, `SELECT id, name, COALESCE(emoji, '') FROM categories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var categories []domain.Category
	for rows.Next() {
		var cat domain.Category
		if err := rows.Scan(&cat.ID, &cat.Name, &cat.Emoji); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, cat)
	}
	return categories, rows.Err()
}

func (c *Catalog) ListQuizzes(ctx context.Context, categoryID string) ([]domain.QuizSummary, error) {
	const query = `
		SELECT id,
		       COALESCE(data->>'title', ''),
		       COALESCE(data->>'emoji', ''),
		       COALESCE(data->>'difficulty', 'easy'),
		       COALESCE(data->>'categoryId', ''),
		       COALESCE(jsonb_array_length(data->'questions'), 0)
		FROM quizzes
		WHERE $1 = '' OR data->>'categoryId' = $1
		ORDER BY id`
	rows, err := c.pool.Query(ctx, query, categoryID)
	if err != nil {
		return nil, fmt.Errorf("list quizzes: %w", err)
	}
	defer rows.Close()

	var summaries []domain.QuizSummary
	for rows.Next() {
		var s domain.QuizSummary
		var difficulty string
		if err := rows.Scan(&s.ID, &s.Title, &s.Emoji, &difficulty, &s.CategoryID, &s.QuestionCount); err != nil {
			return nil, fmt.Errorf("scan quiz summary: %w", err)
		}
		s.Difficulty = domain.Difficulty(difficulty)
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}
