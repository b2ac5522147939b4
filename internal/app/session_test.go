package app_test

import (
	"errors"
	"testing"
	"time"

	"classquiz-service/internal/app"
	"classquiz-service/internal/domain"
)

func threeQuestionQuiz() (domain.Quiz, []domain.Question) {
	questions := []domain.Question{
		{Prompt: "q1", Options: []string{"a", "b", "c", "d"}, CorrectOption: 2, Points: 10},
		{Prompt: "q2", Options: []string{"a", "b"}, CorrectOption: 0, Points: 10},
		{Prompt: "q3", Options: []string{"a", "b", "c"}, CorrectOption: 1, Points: 10},
	}
	quiz := domain.Quiz{ID: "quiz-1", Title: "Three Questions", Questions: questions}
	return quiz, questions
}

func newTestSession(t *testing.T, quiz domain.Quiz, questions []domain.Question) *app.Session {
	t.Helper()
	fixed := time.Date(2025, 3, 11, 9, 0, 0, 0, time.UTC)
	return app.NewSessionWithClock(quiz, questions, "Ploy", app.SessionConfig{}, func() time.Time { return fixed })
}

func TestNormalCompletion(t *testing.T) {
	quiz, questions := threeQuestionQuiz()
	session := newTestSession(t, quiz, questions)

	if session.Budget() != 360 {
		t.Fatalf("expected 360s budget for 3 questions at 2 min each, got %d", session.Budget())
	}

	// Q1 correct (option 2 of 4).
	record, err := session.Submit(2)
	if err != nil {
		t.Fatalf("submit q1: %v", err)
	}
	if !record.Correct || record.PointsAwarded != 10 {
		t.Fatalf("expected correct q1 worth 10, got %+v", record)
	}
	if finished, _ := session.Advance(); finished {
		t.Fatalf("finished after one of three questions")
	}

	// Q2 incorrect.
	record, err = session.Submit(1)
	if err != nil {
		t.Fatalf("submit q2: %v", err)
	}
	if record.Correct || record.PointsAwarded != 0 {
		t.Fatalf("expected incorrect q2 worth 0, got %+v", record)
	}
	if finished, _ := session.Advance(); finished {
		t.Fatalf("finished after two of three questions")
	}

	// Q3 correct.
	if _, err := session.Submit(1); err != nil {
		t.Fatalf("submit q3: %v", err)
	}
	finished, err := session.Advance()
	if err != nil || !finished {
		t.Fatalf("expected finish, got finished=%v err=%v", finished, err)
	}

	result, ok := session.Result()
	if !ok {
		t.Fatalf("expected result after finish")
	}
	if result.Score != 20 || result.MaxScore != 30 || result.Percentage != 67 {
		t.Fatalf("expected 20/30 (67%%), got %d/%d (%d%%)", result.Score, result.MaxScore, result.Percentage)
	}
	if len(result.Answers) != 3 || result.TotalQuestions != 3 {
		t.Fatalf("expected full answer trail, got %d records over %d questions", len(result.Answers), result.TotalQuestions)
	}
}

func TestVaryingPointValues(t *testing.T) {
	questions := []domain.Question{
		{Prompt: "q1", Options: []string{"a", "b"}, CorrectOption: 0, Points: 10},
		{Prompt: "q2", Options: []string{"a", "b"}, CorrectOption: 1, Points: 20},
		{Prompt: "q3", Options: []string{"a", "b"}, CorrectOption: 0, Points: 5},
	}
	session := newTestSession(t, domain.Quiz{ID: "quiz-2"}, questions)

	for _, answer := range []int{0, 1, 0} {
		if _, err := session.Submit(answer); err != nil {
			t.Fatalf("submit: %v", err)
		}
		if _, err := session.Advance(); err != nil {
			t.Fatalf("advance: %v", err)
		}
	}

	result, ok := session.Result()
	if !ok {
		t.Fatalf("expected result")
	}
	if result.MaxScore != 35 || result.Score != 35 || result.Percentage != 100 {
		t.Fatalf("expected 35/35 (100%%), got %d/%d (%d%%)", result.Score, result.MaxScore, result.Percentage)
	}
}

func TestRemainingTimeMonotonic(t *testing.T) {
	quiz, questions := threeQuestionQuiz()
	session := newTestSession(t, quiz, questions)
	budget := session.Budget()

	for i := 1; i <= 10; i++ {
		remaining, expired := session.Tick()
		if expired {
			t.Fatalf("unexpected expiry at tick %d", i)
		}
		if remaining != budget-i {
			t.Fatalf("after %d ticks expected %d remaining, got %d", i, budget-i, remaining)
		}
	}
}

func TestExpiryIsIdempotent(t *testing.T) {
	questions := []domain.Question{
		{Prompt: "q1", Options: []string{"a", "b"}, CorrectOption: 0, Points: 10},
	}
	session := newTestSession(t, domain.Quiz{ID: "quiz-3"}, questions)

	expiries := 0
	for i := 0; i < session.Budget()+5; i++ {
		if _, expired := session.Tick(); expired {
			expiries++
		}
	}
	if expiries != 1 {
		t.Fatalf("expected exactly one expiry, got %d", expiries)
	}
	if remaining, _ := session.Tick(); remaining != 0 {
		t.Fatalf("remaining should stay clamped at 0, got %d", remaining)
	}

	first, ok := session.Result()
	if !ok {
		t.Fatalf("expected result after expiry")
	}
	second, _ := session.Result()
	if first.ID != second.ID {
		t.Fatalf("result rebuilt on repeated expiry")
	}
}

func TestExpiryWithoutSelectionOmitsRecord(t *testing.T) {
	quiz, questions := threeQuestionQuiz()
	session := newTestSession(t, quiz, questions)

	// Answer Q1, then stall on Q2 until the budget runs out.
	if _, err := session.Submit(2); err != nil {
		t.Fatalf("submit q1: %v", err)
	}
	if _, err := session.Advance(); err != nil {
		t.Fatalf("advance: %v", err)
	}

	var expired bool
	for i := 0; i < session.Budget(); i++ {
		_, expired = session.Tick()
		if expired {
			break
		}
	}
	if !expired {
		t.Fatalf("budget never expired")
	}

	result, ok := session.Result()
	if !ok {
		t.Fatalf("expected result after forced completion")
	}
	if len(result.Answers) != 1 {
		t.Fatalf("unanswered questions must not produce records, got %d", len(result.Answers))
	}
	// maxScore covers every presented question, reached or not.
	if result.Score != 10 || result.MaxScore != 30 || result.Percentage != 33 {
		t.Fatalf("expected 10/30 (33%%), got %d/%d (%d%%)", result.Score, result.MaxScore, result.Percentage)
	}
	if result.TotalTime != session.Budget() {
		t.Fatalf("expected full budget consumed, got %d", result.TotalTime)
	}
}

func TestExpiryForceSubmitsPendingSelection(t *testing.T) {
	quiz, questions := threeQuestionQuiz()
	session := newTestSession(t, quiz, questions)

	if err := session.Select(2); err != nil {
		t.Fatalf("select: %v", err)
	}
	for i := 0; i < session.Budget(); i++ {
		if _, expired := session.Tick(); expired {
			break
		}
	}

	result, ok := session.Result()
	if !ok {
		t.Fatalf("expected result")
	}
	if len(result.Answers) != 1 {
		t.Fatalf("pending selection should be graded, got %d records", len(result.Answers))
	}
	if !result.Answers[0].Correct || result.Answers[0].PointsAwarded != 10 {
		t.Fatalf("forced submission graded wrong: %+v", result.Answers[0])
	}
}

func TestInvalidSubmissionsLeaveStateUntouched(t *testing.T) {
	quiz, questions := threeQuestionQuiz()
	session := newTestSession(t, quiz, questions)

	if _, err := session.Submit(5); !errors.Is(err, domain.ErrInvalidOption) {
		t.Fatalf("expected ErrInvalidOption for index 5 on 4 options, got %v", err)
	}
	if _, err := session.Submit(-1); !errors.Is(err, domain.ErrInvalidOption) {
		t.Fatalf("expected ErrInvalidOption for negative index, got %v", err)
	}
	if len(session.Answers()) != 0 {
		t.Fatalf("rejected submission appended a record")
	}

	if _, err := session.Advance(); !errors.Is(err, domain.ErrNotAnswered) {
		t.Fatalf("expected ErrNotAnswered before any submission, got %v", err)
	}

	if _, err := session.Submit(0); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := session.Submit(1); !errors.Is(err, domain.ErrAlreadyAnswered) {
		t.Fatalf("expected ErrAlreadyAnswered on double submit, got %v", err)
	}
	if len(session.Answers()) != 1 {
		t.Fatalf("double submit appended a second record")
	}
}

func TestAnswerTrailTracksCursor(t *testing.T) {
	quiz, questions := threeQuestionQuiz()
	session := newTestSession(t, quiz, questions)

	for i := 0; i < len(questions); i++ {
		view := session.Snapshot()
		if view.State != app.StateAnswering {
			t.Fatalf("expected answering state at question %d, got %s", i, view.State)
		}
		if len(session.Answers()) != view.QuestionIndex {
			t.Fatalf("while answering, records (%d) must equal index (%d)", len(session.Answers()), view.QuestionIndex)
		}
		if _, err := session.Submit(0); err != nil {
			t.Fatalf("submit: %v", err)
		}
		if _, err := session.Advance(); err != nil {
			t.Fatalf("advance: %v", err)
		}
	}
	if len(session.Answers()) != len(questions) {
		t.Fatalf("expected %d records at completion, got %d", len(questions), len(session.Answers()))
	}
}

func TestScoreNeverExceedsMaxScore(t *testing.T) {
	quiz, questions := threeQuestionQuiz()
	session := newTestSession(t, quiz, questions)

	for i := 0; i < len(questions); i++ {
		view := session.Snapshot()
		if view.Score < 0 || view.Score > view.MaxScore {
			t.Fatalf("score %d outside [0, %d]", view.Score, view.MaxScore)
		}
		if _, err := session.Submit(0); err != nil {
			t.Fatalf("submit: %v", err)
		}
		if _, err := session.Advance(); err != nil {
			t.Fatalf("advance: %v", err)
		}
	}
}

func TestFinishedSessionRejectsMutation(t *testing.T) {
	questions := []domain.Question{
		{Prompt: "q1", Options: []string{"a", "b"}, CorrectOption: 0},
	}
	session := newTestSession(t, domain.Quiz{ID: "quiz-4"}, questions)
	if _, err := session.Submit(0); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if finished, _ := session.Advance(); !finished {
		t.Fatalf("expected finish")
	}

	if _, err := session.Submit(0); !errors.Is(err, domain.ErrSessionFinished) {
		t.Fatalf("expected ErrSessionFinished, got %v", err)
	}
	if err := session.Select(0); !errors.Is(err, domain.ErrSessionFinished) {
		t.Fatalf("expected ErrSessionFinished on select, got %v", err)
	}
	if _, err := session.Advance(); !errors.Is(err, domain.ErrSessionFinished) {
		t.Fatalf("expected ErrSessionFinished on advance, got %v", err)
	}
	if _, ok := session.CurrentQuestion(); ok {
		t.Fatalf("finished session should not expose a current question")
	}
}
