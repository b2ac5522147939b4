package domain

import "errors"

var (
	// ErrQuizNotFound indicates the quiz content could not be loaded.
	ErrQuizNotFound = errors.New("quiz not found")
	// ErrNoQuestions rejects starting a session over an empty question list.
	ErrNoQuestions = errors.New("quiz has no questions")
	// ErrInvalidQuestion rejects a question whose option list cannot be presented.
	ErrInvalidQuestion = errors.New("question has an invalid option list")
	// ErrSessionNotFound is returned when no live session matches the given ID.
	ErrSessionNotFound = errors.New("quiz session not found")
	// ErrSessionFinished rejects mutations on a terminal session.
	ErrSessionFinished = errors.New("quiz session already finished")
	// ErrInvalidOption rejects a submission whose option index is out of range.
	ErrInvalidOption = errors.New("selected option out of range")
	// ErrAlreadyAnswered rejects a second submission for the same question.
	ErrAlreadyAnswered = errors.New("current question already answered")
	// ErrNotAnswered rejects advancing before the current question was submitted.
	ErrNotAnswered = errors.New("current question not answered yet")
)
