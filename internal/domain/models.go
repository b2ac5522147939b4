package domain

import (
	"strings"
	"time"
)

// Difficulty labels a quiz in the student-facing pickers.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Question models one MCQ prompt with 2-4 options and a point value.
// AltPrompt/AltOptions carry the optional secondary-language variants and are
// passed through to clients untouched.
type Question struct {
	Prompt        string   `json:"question"`
	AltPrompt     string   `json:"questionLocale2,omitempty"`
	Options       []string `json:"options"`
	AltOptions    []string `json:"optionsLocale2,omitempty"`
	CorrectOption int      `json:"correctAnswer"`
	Points        int      `json:"points,omitempty"` // 0 means "use the configured default"
}

// Quiz is an ordered collection of questions with picker metadata.
type Quiz struct {
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	Emoji      string     `json:"emoji,omitempty"`
	Difficulty Difficulty `json:"difficulty"`
	CategoryID string     `json:"categoryId,omitempty"`
	Questions  []Question `json:"questions"`
}

// QuizSummary is the catalog view of a quiz (no question content).
type QuizSummary struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Emoji         string     `json:"emoji,omitempty"`
	Difficulty    Difficulty `json:"difficulty"`
	CategoryID    string     `json:"categoryId,omitempty"`
	QuestionCount int        `json:"questionCount"`
}

// Category groups quizzes in the picker.
type Category struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Emoji string `json:"emoji,omitempty"`
}

// School identifies the institution a result belongs to.
type School struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// AnswerRecord is one immutable entry of a session's answer trail. It is
// created exactly once per submitted question and never mutated.
type AnswerRecord struct {
	QuestionIndex  int  `json:"questionIndex"`
	SelectedOption int  `json:"selectedOption"`
	CorrectOption  int  `json:"correctOption"`
	Correct        bool `json:"correct"`
	PointsAwarded  int  `json:"pointsAwarded"`
	ElapsedSeconds int  `json:"elapsedSeconds"`
}

// Result is the finalized, write-once summary of a completed session.
type Result struct {
	ID             string         `json:"id"`
	QuizID         string         `json:"quizId"`
	QuizTitle      string         `json:"quizTitle"`
	StudentName    string         `json:"studentName"`
	SchoolID       string         `json:"schoolId,omitempty"`
	Score          int            `json:"score"`
	MaxScore       int            `json:"maxScore"`
	TotalQuestions int            `json:"totalQuestions"`
	Percentage     int            `json:"percentage"`
	TotalTime      int            `json:"totalTime"` // seconds
	Answers        []AnswerRecord `json:"answers"`
	CompletedAt    time.Time      `json:"completedAt"`
}

// Option list bounds; the first MinOptions slots are mandatory.
const (
	MinOptions = 2
	MaxOptions = 4
)

// Normalize trims trailing empty option slots (authoring tools pad to four)
// and validates the question shape. It returns the cleaned question or an
// error describing why it cannot be presented.
func (q Question) Normalize() (Question, error) {
	options := q.Options
	for len(options) > MinOptions && strings.TrimSpace(options[len(options)-1]) == "" {
		options = options[:len(options)-1]
	}
	if len(options) < MinOptions || len(options) > MaxOptions {
		return Question{}, ErrInvalidQuestion
	}
	for _, opt := range options {
		if strings.TrimSpace(opt) == "" {
			return Question{}, ErrInvalidQuestion
		}
	}
	if q.CorrectOption < 0 || q.CorrectOption >= len(options) {
		return Question{}, ErrInvalidQuestion
	}
	q.Options = options
	if len(q.AltOptions) > len(options) {
		q.AltOptions = q.AltOptions[:len(options)]
	}
	return q, nil
}

// NormalizeQuestions cleans every question of a quiz in order. An empty list
// is rejected so a session built from the result always has maxScore > 0.
func NormalizeQuestions(questions []Question) ([]Question, error) {
	if len(questions) == 0 {
		return nil, ErrNoQuestions
	}
	cleaned := make([]Question, 0, len(questions))
	for _, q := range questions {
		nq, err := q.Normalize()
		if err != nil {
			return nil, err
		}
		cleaned = append(cleaned, nq)
	}
	return cleaned, nil
}
