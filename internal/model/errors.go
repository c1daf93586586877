package model

import "errors"

// Common errors used across the application
var (
	// Registry errors
	ErrNicknameTaken  = errors.New("nickname already in use")
	ErrPlayerNotFound = errors.New("player not found")

	// Quiz errors
	ErrInvalidTheme   = errors.New("invalid theme")
	ErrThemeCompleted = errors.New("theme already completed")
	ErrNoActiveQuiz   = errors.New("no quiz in progress")

	// Question bank errors
	ErrQuestionsNotLoaded = errors.New("questions not loaded")
	ErrQuestionOutOfRange = errors.New("question index out of range")
)
