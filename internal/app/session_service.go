package app

import (
	"context"
	"log"
	"math/rand"

	"classquiz-service/internal/domain"
)

// QuizRepository loads quiz content (from cache/backing store).
type QuizRepository interface {
	GetQuiz(ctx context.Context, quizID string) (domain.Quiz, error)
}

// SessionRegistry tracks live sessions (in-memory, Redis-marked, etc).
type SessionRegistry interface {
	Put(session *Session)
	Get(sessionID string) (*Session, bool)
	Delete(sessionID string)
}

// ResultRepository persists finalized results. Writes are one-shot.
type ResultRepository interface {
	SaveResult(ctx context.Context, result domain.Result) error
}

// SessionConfig carries the quiz policy knobs.
type SessionConfig struct {
	MinutesPerQuestion int
	DefaultPoints      int
	SchoolID           string
}

func (c SessionConfig) withDefaults() SessionConfig {
	if c.MinutesPerQuestion <= 0 {
		c.MinutesPerQuestion = DefaultMinutesPerQuestion
	}
	if c.DefaultPoints <= 0 {
		c.DefaultPoints = DefaultQuestionPoints
	}
	return c
}

// SessionService contains the quiz attempt use cases: start, select, submit,
// advance, tick, exit.
type SessionService struct {
	registry SessionRegistry
	quizzes  QuizRepository
	results  ResultRepository
	cfg      SessionConfig
}

func NewSessionService(registry SessionRegistry, quizzes QuizRepository, results ResultRepository, cfg SessionConfig) *SessionService {
	return &SessionService{
		registry: registry,
		quizzes:  quizzes,
		results:  results,
		cfg:      cfg.withDefaults(),
	}
}

// Start loads and validates the quiz, samples the presented question list and
// registers a fresh session. questionCount <= 0 (or >= the quiz length) means
// the whole quiz, shuffled.
func (s *SessionService) Start(ctx context.Context, quizID, studentName string, questionCount int) (*Session, error) {
	quiz, err := s.quizzes.GetQuiz(ctx, quizID)
	if err != nil {
		return nil, err
	}
	questions, err := domain.NormalizeQuestions(quiz.Questions)
	if err != nil {
		return nil, err
	}
	presented := sampleQuestions(questions, questionCount)
	session := NewSession(quiz, presented, studentName, s.cfg)
	s.registry.Put(session)
	return session, nil
}

// Get returns the live session for the given ID.
func (s *SessionService) Get(sessionID string) (*Session, error) {
	session, ok := s.registry.Get(sessionID)
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return session, nil
}

// Select records a tentative choice for the current question.
func (s *SessionService) Select(sessionID string, option int) error {
	session, err := s.Get(sessionID)
	if err != nil {
		return err
	}
	return session.Select(option)
}

// Submit grades an answer for the current question.
func (s *SessionService) Submit(sessionID string, option int) (domain.AnswerRecord, SessionView, error) {
	session, err := s.Get(sessionID)
	if err != nil {
		return domain.AnswerRecord{}, SessionView{}, err
	}
	record, err := session.Submit(option)
	if err != nil {
		return domain.AnswerRecord{}, SessionView{}, err
	}
	return record, session.Snapshot(), nil
}

// Advance moves past a submitted question. When this completes the session it
// finalizes: the result is persisted best-effort and always returned.
func (s *SessionService) Advance(ctx context.Context, sessionID string) (bool, domain.Result, error) {
	session, err := s.Get(sessionID)
	if err != nil {
		return false, domain.Result{}, err
	}
	finished, err := session.Advance()
	if err != nil {
		return false, domain.Result{}, err
	}
	if !finished {
		return false, domain.Result{}, nil
	}
	return true, s.finalize(ctx, session), nil
}

// Tick consumes one second of the session's budget, finalizing on expiry.
func (s *SessionService) Tick(ctx context.Context, sessionID string) (int, bool, domain.Result, error) {
	session, err := s.Get(sessionID)
	if err != nil {
		return 0, false, domain.Result{}, err
	}
	remaining, expired := session.Tick()
	if !expired {
		return remaining, false, domain.Result{}, nil
	}
	return remaining, true, s.finalize(ctx, session), nil
}

// Exit discards a session without persisting anything.
func (s *SessionService) Exit(sessionID string) {
	s.registry.Delete(sessionID)
}

// finalize persists the result and drops the session from the registry.
// Persistence failures are logged and swallowed: scoring and display must
// never depend on a successful write.
func (s *SessionService) finalize(ctx context.Context, session *Session) domain.Result {
	result, ok := session.Result()
	if !ok {
		// Advance/Tick reported finished, so the result must exist.
		log.Printf("session %s finished without a result", session.ID())
		return domain.Result{}
	}
	if s.results != nil {
		if err := s.results.SaveResult(ctx, result); err != nil {
			log.Printf("persist result %s: %v", result.ID, err)
		}
	}
	s.registry.Delete(session.ID())
	return result
}

// sampleQuestions picks a random permutation prefix of the normalized list.
// The sample is drawn once; the presented order is fixed for the session's
// lifetime.
func sampleQuestions(questions []domain.Question, count int) []domain.Question {
	if count <= 0 || count > len(questions) {
		count = len(questions)
	}
	perm := rand.Perm(len(questions))[:count]
	presented := make([]domain.Question, 0, count)
	for _, i := range perm {
		presented = append(presented, questions[i])
	}
	return presented
}
