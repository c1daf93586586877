// Package questions provides the question bank: two fixed, ordered
// question/answer sequences loaded once at startup.
package questions

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/triviad/triviad/internal/model"
)

// Service holds the loaded question sequences. Immutable after load.
type Service struct {
	logger *slog.Logger

	mu     sync.RWMutex
	themes map[model.Theme][]model.Question
}

// New creates a new question bank
func New(logger *slog.Logger) *Service {
	return &Service{
		logger: logger,
		themes: make(map[model.Theme][]model.Question),
	}
}

// LoadFromFile loads the question sequence for a theme from a pipe-delimited
// file: one "question|answer" per line. Lines without a delimiter are skipped.
func (s *Service) LoadFromFile(theme model.Theme, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open question source %s: %w", path, err)
	}
	defer file.Close()

	var loaded []model.Question
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		text, answer, found := strings.Cut(line, "|")
		if !found {
			continue
		}
		loaded = append(loaded, model.Question{
			Text:   text,
			Answer: answer,
		})
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read question source %s: %w", path, err)
	}

	if len(loaded) == 0 {
		return fmt.Errorf("question source %s: %w", path, model.ErrQuestionsNotLoaded)
	}

	s.mu.Lock()
	s.themes[theme] = loaded
	s.mu.Unlock()

	s.logger.Info("questions loaded",
		slog.String("theme", string(theme)),
		slog.String("path", path),
		slog.Int("count", len(loaded)),
	)
	return nil
}

// LoadQuestions directly loads a sequence for a theme (useful for testing)
func (s *Service) LoadQuestions(theme model.Theme, qs []model.Question) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.themes[theme] = append([]model.Question(nil), qs...)
}

// Question returns the question at the given zero-based index
func (s *Service) Question(theme model.Theme, index int) (model.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	qs, ok := s.themes[theme]
	if !ok {
		return model.Question{}, model.ErrQuestionsNotLoaded
	}
	if index < 0 || index >= len(qs) {
		return model.Question{}, model.ErrQuestionOutOfRange
	}
	return qs[index], nil
}

// Count returns the number of questions in a theme's sequence
func (s *Service) Count(theme model.Theme) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.themes[theme])
}
