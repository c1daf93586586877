package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/triviad/triviad/internal/metrics"
	"github.com/triviad/triviad/internal/model"
	"github.com/triviad/triviad/internal/protocol"
	"github.com/triviad/triviad/internal/services/quiz"
	"github.com/triviad/triviad/internal/services/scoreboard"
)

// session drives one connection through the quiz protocol:
// Registering -> ThemeSelect -> InQuiz -> ThemeSelect | Finished.
//
// Validation errors answer with a rejection token and stay in the same
// state; transport and framing errors end the session and clean up.
type session struct {
	id         model.SessionID
	conn       *protocol.Conn
	quiz       *quiz.Controller
	scoreboard *scoreboard.Service
	metrics    *metrics.Metrics
	logger     *slog.Logger
}

func newSession(
	id model.SessionID,
	conn *protocol.Conn,
	quizController *quiz.Controller,
	board *scoreboard.Service,
	m *metrics.Metrics,
	logger *slog.Logger,
) *session {
	return &session{
		id:         id,
		conn:       conn,
		quiz:       quizController,
		scoreboard: board,
		metrics:    m,
		logger:     logger.With(slog.String("session_id", string(id))),
	}
}

// run executes the session to completion. The connection is closed and the
// player removed from the registry on every exit path.
func (s *session) run(ctx context.Context) {
	defer func() {
		_ = s.conn.Close()
		if err := s.quiz.Unregister(ctx, s.id); err != nil {
			s.logger.Error("registry cleanup failed", slog.String("error", err.Error()))
		}
	}()

	if err := s.register(ctx); err != nil {
		s.closeOnError("registration", err)
		return
	}

	for {
		finished, err := s.themeSelect(ctx)
		if err != nil {
			s.closeOnError("quiz", err)
			return
		}
		if finished {
			s.logger.Info("session finished")
			return
		}
	}
}

// register receives candidate nicknames until one is accepted. The client
// may retry indefinitely after NICKNAME_ALREADY_USED.
func (s *session) register(ctx context.Context) error {
	for {
		nickname, err := s.conn.Receive()
		if err != nil {
			return err
		}

		_, err = s.quiz.Register(ctx, s.id, nickname)
		if errors.Is(err, model.ErrNicknameTaken) {
			if err := s.conn.Send(protocol.TokenNicknameUsed); err != nil {
				return err
			}
			continue
		}
		if err != nil {
			return err
		}
		return s.conn.Send(protocol.TokenOK)
	}
}

// themeSelect receives theme tokens until one is accepted, then runs the
// quiz. Returns finished=true once both themes are completed and the final
// handshake is done.
func (s *session) themeSelect(ctx context.Context) (bool, error) {
	for {
		token, err := s.conn.Receive()
		if err != nil {
			return false, err
		}

		_, err = s.quiz.SelectTheme(ctx, s.id, token)
		switch {
		case errors.Is(err, model.ErrInvalidTheme):
			if err := s.conn.Send(protocol.TokenInvalidTheme); err != nil {
				return false, err
			}
			continue
		case errors.Is(err, model.ErrThemeCompleted):
			if err := s.conn.Send(protocol.TokenAlreadyCompleted); err != nil {
				return false, err
			}
			continue
		case err != nil:
			return false, err
		}

		if err := s.conn.Send(protocol.TokenOK); err != nil {
			return false, err
		}
		return s.runQuiz(ctx)
	}
}

// runQuiz serves questions until the sequence is exhausted or the player
// ends the quiz. The reserved tokens are recognized before answer matching.
func (s *session) runQuiz(ctx context.Context) (bool, error) {
	for {
		question, err := s.quiz.NextQuestion(ctx, s.id)
		if err != nil {
			return false, err
		}
		if err := s.conn.Send(question.Text); err != nil {
			return false, err
		}

		answer, err := s.conn.Receive()
		if err != nil {
			return false, err
		}

		switch answer {
		case protocol.CommandShowScore:
			summary, err := s.scoreboard.RenderSummary(ctx)
			if err != nil {
				return false, err
			}
			if err := s.conn.Send(summary); err != nil {
				return false, err
			}
			// Same question is repeated; nothing was answered
			continue

		case protocol.CommandEndQuiz:
			if err := s.quiz.EndQuiz(ctx, s.id); err != nil {
				return false, err
			}
			if err := s.conn.Send(protocol.TokenQuizEnded); err != nil {
				return false, err
			}
			return false, nil
		}

		result, err := s.quiz.SubmitAnswer(ctx, s.id, answer)
		if err != nil {
			return false, err
		}

		verdict := protocol.TokenIncorrect
		if result.Correct {
			verdict = protocol.TokenCorrect
		}
		if err := s.conn.Send(verdict); err != nil {
			return false, err
		}

		if result.ThemeComplete {
			return s.finishTheme(result)
		}
	}
}

// finishTheme sends the final per-theme summary and either returns the
// player to theme selection or runs the end-of-session handshake.
func (s *session) finishTheme(result quiz.AnswerResult) (bool, error) {
	summary := fmt.Sprintf("Quiz complete! Final score: %d/%d", result.Score, result.Total)
	if err := s.conn.Send(summary); err != nil {
		return false, err
	}

	if !result.BothComplete {
		if err := s.conn.Send(protocol.TokenCompletedQuiz); err != nil {
			return false, err
		}
		return false, nil
	}

	if err := s.conn.Send(protocol.TokenBothQuizzesCompleted); err != nil {
		return false, err
	}

	// Best-effort wait for the client's acknowledgment; a disconnect here
	// is indistinguishable from an impatient client and equally fine.
	if ack, err := s.conn.Receive(); err == nil && ack != protocol.TokenClientFinished {
		s.logger.Debug("unexpected finish acknowledgment", slog.String("received", ack))
	}
	return true, nil
}

// closeOnError records why the session ended. Oversized frames count as
// protocol errors; everything else is an ordinary disconnect.
func (s *session) closeOnError(phase string, err error) {
	if errors.Is(err, protocol.ErrFrameTooLarge) || errors.Is(err, protocol.ErrPayloadTooLarge) {
		s.metrics.ProtocolErrors.Inc()
		s.logger.Warn("protocol violation, closing connection",
			slog.String("phase", phase),
			slog.String("error", err.Error()),
		)
		return
	}
	s.logger.Info("client disconnected",
		slog.String("phase", phase),
		slog.String("error", err.Error()),
	)
}
