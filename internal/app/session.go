package app

import (
	"sync"
	"time"

	"classquiz-service/internal/domain"

	"github.com/google/uuid"
)

// SessionState enumerates the phases of one student's attempt.
type SessionState string

const (
	// StateAnswering means the current question is waiting for a submission.
	StateAnswering SessionState = "answering"
	// StateFeedback means the current question was submitted and correctness
	// is being shown; the session waits for Advance.
	StateFeedback SessionState = "feedback"
	// StateFinished is terminal.
	StateFinished SessionState = "finished"
)

const noSelection = -1

// Session drives a single attempt at a presented question list under one
// shared time budget. Every question is visited exactly once; the answer
// trail is append-only. All mutation goes through Select/Submit/Advance/Tick,
// serialized by the session mutex so a last-second tick cannot race a
// submission.
type Session struct {
	id            string
	quizID        string
	quizTitle     string
	studentName   string
	schoolID      string
	questions     []domain.Question
	defaultPoints int
	budget        int
	now           func() time.Time

	mu        sync.Mutex
	state     SessionState
	index     int
	remaining int
	pending   int
	score     int
	answers   []domain.AnswerRecord
	result    *domain.Result
}

// SessionView is a read-only snapshot for score/time displays.
type SessionView struct {
	ID             string       `json:"sessionId"`
	State          SessionState `json:"state"`
	QuestionIndex  int          `json:"questionIndex"`
	TotalQuestions int          `json:"totalQuestions"`
	Remaining      int          `json:"remaining"`
	Score          int          `json:"score"`
	MaxScore       int          `json:"maxScore"`
}

// QuestionView is what a student is allowed to see: the prompt and options,
// never the correct index.
type QuestionView struct {
	Index      int      `json:"index"`
	Total      int      `json:"total"`
	Prompt     string   `json:"question"`
	AltPrompt  string   `json:"questionLocale2,omitempty"`
	Options    []string `json:"options"`
	AltOptions []string `json:"optionsLocale2,omitempty"`
	Points     int      `json:"points"`
}

// NewSession builds a session over an already normalized, already sampled
// question list. The list must be non-empty; callers go through
// SessionService.Start which enforces that.
func NewSession(quiz domain.Quiz, questions []domain.Question, studentName string, cfg SessionConfig) *Session {
	return NewSessionWithClock(quiz, questions, studentName, cfg, time.Now)
}

// NewSessionWithClock allows deterministic timestamps in tests.
func NewSessionWithClock(quiz domain.Quiz, questions []domain.Question, studentName string, cfg SessionConfig, now func() time.Time) *Session {
	cfg = cfg.withDefaults()
	budget := Budget(len(questions), cfg.MinutesPerQuestion)
	return &Session{
		id:            uuid.NewString(),
		quizID:        quiz.ID,
		quizTitle:     quiz.Title,
		studentName:   studentName,
		schoolID:      cfg.SchoolID,
		questions:     questions,
		defaultPoints: cfg.DefaultPoints,
		budget:        budget,
		now:           now,
		state:         StateAnswering,
		remaining:     budget,
		pending:       noSelection,
		answers:       make([]domain.AnswerRecord, 0, len(questions)),
	}
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Budget returns the initial shared time budget in seconds.
func (s *Session) Budget() int { return s.budget }

// Select records a tentative choice for the current question without grading
// it. A pending selection is force-submitted if the budget expires before the
// student confirms.
func (s *Session) Select(option int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateFinished {
		return domain.ErrSessionFinished
	}
	if s.state != StateAnswering {
		return domain.ErrAlreadyAnswered
	}
	if option < 0 || option >= len(s.questions[s.index].Options) {
		return domain.ErrInvalidOption
	}
	s.pending = option
	return nil
}

// Submit grades the given option against the current question, appends an
// AnswerRecord and moves to feedback. Invalid input is rejected without any
// state change.
func (s *Session) Submit(option int) (domain.AnswerRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateFinished {
		return domain.AnswerRecord{}, domain.ErrSessionFinished
	}
	if s.state != StateAnswering {
		return domain.AnswerRecord{}, domain.ErrAlreadyAnswered
	}
	if option < 0 || option >= len(s.questions[s.index].Options) {
		return domain.AnswerRecord{}, domain.ErrInvalidOption
	}
	record := s.gradeLocked(option)
	s.state = StateFeedback
	return record, nil
}

// Advance moves past a submitted question: to the next question, or to the
// terminal state when the just-answered question was the last one. It reports
// whether the session finished.
func (s *Session) Advance() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case StateFinished:
		return false, domain.ErrSessionFinished
	case StateAnswering:
		return false, domain.ErrNotAnswered
	}
	if s.index+1 < len(s.questions) {
		s.index++
		s.pending = noSelection
		s.state = StateAnswering
		return false, nil
	}
	s.finishLocked()
	return true, nil
}

// Tick consumes one second of the shared budget. On expiry it force-submits a
// pending selection (graded normally), finishes the session and reports
// finished=true exactly once; later ticks are no-ops.
func (s *Session) Tick() (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateFinished {
		return s.remaining, false
	}
	if s.remaining > 0 {
		s.remaining--
	}
	if s.remaining > 0 {
		return s.remaining, false
	}
	if s.state == StateAnswering && s.pending != noSelection {
		s.gradeLocked(s.pending)
	}
	s.finishLocked()
	return 0, true
}

// Result returns the finalized summary once the session is finished.
func (s *Session) Result() (domain.Result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.result == nil {
		return domain.Result{}, false
	}
	return *s.result, true
}

// Snapshot returns the current state for display. Callers must not derive
// mutations from it.
func (s *Session) Snapshot() SessionView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return SessionView{
		ID:             s.id,
		State:          s.state,
		QuestionIndex:  s.index,
		TotalQuestions: len(s.questions),
		Remaining:      s.remaining,
		Score:          s.score,
		MaxScore:       MaxScore(s.questions, s.defaultPoints),
	}
}

// CurrentQuestion returns the student-facing view of the question under the
// cursor, or ok=false once the session is finished.
func (s *Session) CurrentQuestion() (QuestionView, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateFinished {
		return QuestionView{}, false
	}
	q := s.questions[s.index]
	return QuestionView{
		Index:      s.index,
		Total:      len(s.questions),
		Prompt:     q.Prompt,
		AltPrompt:  q.AltPrompt,
		Options:    q.Options,
		AltOptions: q.AltOptions,
		Points:     QuestionPoints(q, s.defaultPoints),
	}, true
}

// Answers returns a copy of the answer trail so far.
func (s *Session) Answers() []domain.AnswerRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.AnswerRecord, len(s.answers))
	copy(out, s.answers)
	return out
}

// gradeLocked appends the record for the current question and updates the
// running score. Caller holds the mutex and has validated the option.
func (s *Session) gradeLocked(option int) domain.AnswerRecord {
	q := s.questions[s.index]
	correct := option == q.CorrectOption
	awarded := 0
	if correct {
		awarded = QuestionPoints(q, s.defaultPoints)
	}
	record := domain.AnswerRecord{
		QuestionIndex:  s.index,
		SelectedOption: option,
		CorrectOption:  q.CorrectOption,
		Correct:        correct,
		PointsAwarded:  awarded,
		ElapsedSeconds: s.budget - s.remaining,
	}
	s.answers = append(s.answers, record)
	s.score += awarded
	s.pending = noSelection
	return record
}

// finishLocked moves to the terminal state and builds the Result exactly
// once. maxScore and totalQuestions cover every presented question, answered
// or not.
func (s *Session) finishLocked() {
	if s.state == StateFinished {
		return
	}
	s.state = StateFinished
	maxScore := MaxScore(s.questions, s.defaultPoints)
	answers := make([]domain.AnswerRecord, len(s.answers))
	copy(answers, s.answers)
	s.result = &domain.Result{
		ID:             uuid.NewString(),
		QuizID:         s.quizID,
		QuizTitle:      s.quizTitle,
		StudentName:    s.studentName,
		SchoolID:       s.schoolID,
		Score:          s.score,
		MaxScore:       maxScore,
		TotalQuestions: len(s.questions),
		Percentage:     Percentage(s.score, maxScore),
		TotalTime:      s.budget - s.remaining,
		Answers:        answers,
		CompletedAt:    s.now(),
	}
}
