package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"classquiz-service/internal/domain"

	"github.com/jackc/pgx/v4/pgxpool"
)

// ResultWriter appends finalized results to the quiz_results collection.
// The indexed columns are denormalized for teacher dashboards; the full
// record, answer trail included, lives in the JSONB document.
type ResultWriter struct {
	pool *pgxpool.Pool
}

func NewResultWriter(pool *pgxpool.Pool) *ResultWriter {
	return &ResultWriter{pool: pool}
}

func (w *ResultWriter) SaveResult(ctx context.Context, result domain.Result) error {
	raw, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	_, err = w.pool.Exec(ctx,
		`INSERT INTO quiz_results (id, quiz_id, student_name, school_id, score, max_score, percentage, completed_at, data)
		 VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7, $8, $9)`,
		result.ID, result.QuizID, result.StudentName, result.SchoolID,
		result.Score, result.MaxScore, result.Percentage, result.CompletedAt, raw,
	)
	if err != nil {
		return fmt.Errorf("insert result: %w", err)
	}
	return nil
}
