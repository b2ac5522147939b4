package app

import (
	"log"
	"math"

	"classquiz-service/internal/domain"
)

// DefaultQuestionPoints is awarded when a question carries no explicit point
// value. Point values vary per question, so totals are sums, never
// count-times-constant.
const DefaultQuestionPoints = 10

// QuestionPoints resolves the point value of a question.
func QuestionPoints(q domain.Question, defaultPoints int) int {
	if q.Points > 0 {
		return q.Points
	}
	if defaultPoints > 0 {
		return defaultPoints
	}
	return DefaultQuestionPoints
}

// Score sums the points awarded across an answer trail.
func Score(answers []domain.AnswerRecord) int {
	total := 0
	for _, a := range answers {
		total += a.PointsAwarded
	}
	return total
}

// MaxScore sums the point values of every presented question.
func MaxScore(questions []domain.Question, defaultPoints int) int {
	total := 0
	for _, q := range questions {
		total += QuestionPoints(q, defaultPoints)
	}
	return total
}

// Percentage computes round(100 * score / maxScore) using math.Round, which
// rounds half away from zero (round-half-up for the non-negative inputs that
// occur here). A validly started session always has maxScore > 0; the zero
// guard is defensive only.
func Percentage(score, maxScore int) int {
	if maxScore <= 0 {
		log.Printf("percentage requested with maxScore=%d, returning 0", maxScore)
		return 0
	}
	return int(math.Round(100 * float64(score) / float64(maxScore)))
}
