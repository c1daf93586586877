// Package quiz implements the quiz rules: registration, theme selection,
// answer grading, and completion tracking. It is transport-agnostic; the
// session handler in internal/server drives it from the wire protocol.
package quiz

import (
	"context"
	"errors"
	"log/slog"

	"github.com/triviad/triviad/internal/metrics"
	"github.com/triviad/triviad/internal/model"
	"github.com/triviad/triviad/internal/services/questions"
	"github.com/triviad/triviad/internal/storage"
)

// Controller applies quiz operations against the shared registry
type Controller struct {
	registry  storage.Registry
	questions *questions.Service
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

// NewController creates a new quiz Controller
func NewController(
	registry storage.Registry,
	questions *questions.Service,
	m *metrics.Metrics,
	logger *slog.Logger,
) *Controller {
	return &Controller{
		registry:  registry,
		questions: questions,
		metrics:   m,
		logger:    logger,
	}
}

// Register creates a player for the session under the candidate nickname.
// Returns model.ErrNicknameTaken if another registered player holds it;
// the caller may retry with a different nickname.
func (c *Controller) Register(ctx context.Context, id model.SessionID, nickname string) (*model.Player, error) {
	player, err := c.registry.Register(ctx, id, nickname)
	if err != nil {
		if errors.Is(err, model.ErrNicknameTaken) {
			c.metrics.NicknameRejections.Inc()
			c.logger.Info("nickname rejected",
				slog.String("session_id", string(id)),
				slog.String("nickname", nickname),
			)
		}
		return nil, err
	}

	c.metrics.Registrations.Inc()
	c.logger.Info("player registered",
		slog.String("session_id", string(id)),
		slog.String("nickname", nickname),
	)
	return player, nil
}

// SelectTheme validates a theme token and enters the quiz for that theme.
// Validation order: unknown token first (model.ErrInvalidTheme), then
// already-completed (model.ErrThemeCompleted).
func (c *Controller) SelectTheme(ctx context.Context, id model.SessionID, token string) (model.Theme, error) {
	theme, err := model.ParseTheme(token)
	if err != nil {
		return model.ThemeNone, err
	}

	player, err := c.registry.Get(ctx, id)
	if err != nil {
		return model.ThemeNone, err
	}
	if player.Completed(theme) {
		return model.ThemeNone, model.ErrThemeCompleted
	}

	// Entering a theme starts its quiz from scratch; the score of an
	// abandoned attempt does not carry over
	if err := c.registry.Update(ctx, id, func(p *model.Player) {
		p.CurrentTheme = theme
		p.QuestionIndex = 0
		p.ResetScore(theme)
	}); err != nil {
		return model.ThemeNone, err
	}

	c.logger.Info("quiz started",
		slog.String("nickname", player.Nickname),
		slog.String("theme", string(theme)),
	)
	return theme, nil
}

// NextQuestion returns the question the player should be served next.
// Returns model.ErrNoActiveQuiz when the player is idle between quizzes.
func (c *Controller) NextQuestion(ctx context.Context, id model.SessionID) (model.Question, error) {
	player, err := c.registry.Get(ctx, id)
	if err != nil {
		return model.Question{}, err
	}
	if player.CurrentTheme == model.ThemeNone {
		return model.Question{}, model.ErrNoActiveQuiz
	}
	return c.questions.Question(player.CurrentTheme, player.QuestionIndex)
}

// AnswerResult describes the outcome of grading one answer
type AnswerResult struct {
	Correct bool
	Theme   model.Theme

	// Score and Total are the player's score and the question count for the
	// theme being answered, after grading.
	Score int
	Total int

	// ThemeComplete is set when this answer was the last question of the
	// sequence; the player's completion flag is flipped and the quiz exited
	// atomically with the grading.
	ThemeComplete bool
	BothComplete  bool
}

// SubmitAnswer grades an answer against the current question using exact
// string equality, then advances the question index. Completing the sequence
// marks the theme completed, resets the index, and leaves the quiz — all in
// one atomic registry update.
func (c *Controller) SubmitAnswer(ctx context.Context, id model.SessionID, answer string) (AnswerResult, error) {
	player, err := c.registry.Get(ctx, id)
	if err != nil {
		return AnswerResult{}, err
	}
	if player.CurrentTheme == model.ThemeNone {
		return AnswerResult{}, model.ErrNoActiveQuiz
	}

	theme := player.CurrentTheme
	question, err := c.questions.Question(theme, player.QuestionIndex)
	if err != nil {
		return AnswerResult{}, err
	}

	correct := answer == question.Answer
	total := c.questions.Count(theme)

	var result AnswerResult
	err = c.registry.Update(ctx, id, func(p *model.Player) {
		if correct {
			p.AddScore(theme)
		}
		p.QuestionIndex++

		result = AnswerResult{
			Correct: correct,
			Theme:   theme,
			Score:   p.Score(theme),
			Total:   total,
		}

		if p.QuestionIndex >= total {
			p.SetCompleted(theme)
			p.QuestionIndex = 0
			p.CurrentTheme = model.ThemeNone
			result.ThemeComplete = true
			result.BothComplete = p.CompletedBoth()
		}
	})
	if err != nil {
		return AnswerResult{}, err
	}

	verdict := metrics.VerdictIncorrect
	if correct {
		verdict = metrics.VerdictCorrect
	}
	c.metrics.Answers.WithLabelValues(verdict).Inc()

	if result.ThemeComplete {
		c.metrics.QuizzesCompleted.WithLabelValues(string(theme)).Inc()
		c.logger.Info("quiz completed",
			slog.String("nickname", player.Nickname),
			slog.String("theme", string(theme)),
			slog.Int("score", result.Score),
			slog.Int("total", total),
		)
	}
	return result, nil
}

// EndQuiz abandons the active quiz. The theme's completion flag stays unset,
// so the player may re-enter the theme later.
func (c *Controller) EndQuiz(ctx context.Context, id model.SessionID) error {
	player, err := c.registry.Get(ctx, id)
	if err != nil {
		return err
	}
	if player.CurrentTheme == model.ThemeNone {
		return model.ErrNoActiveQuiz
	}

	if err := c.registry.Update(ctx, id, func(p *model.Player) {
		p.CurrentTheme = model.ThemeNone
		p.QuestionIndex = 0
	}); err != nil {
		return err
	}

	c.metrics.QuizzesAbandoned.Inc()
	c.logger.Info("quiz abandoned",
		slog.String("nickname", player.Nickname),
		slog.String("theme", string(player.CurrentTheme)),
	)
	return nil
}

// Unregister removes the player from the registry. Idempotent.
func (c *Controller) Unregister(ctx context.Context, id model.SessionID) error {
	return c.registry.Remove(ctx, id)
}
