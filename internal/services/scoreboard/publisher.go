package scoreboard

import (
	"context"
	"io"
	"log/slog"
	"time"
)

// Publisher periodically writes the operator board to a display writer.
// The cadence is cosmetic, not correctness-relevant.
type Publisher struct {
	service  *Service
	out      io.Writer
	interval time.Duration
	logger   *slog.Logger
}

// NewPublisher creates a Publisher rendering to out every interval
func NewPublisher(service *Service, out io.Writer, interval time.Duration, logger *slog.Logger) *Publisher {
	return &Publisher{
		service:  service,
		out:      out,
		interval: interval,
		logger:   logger,
	}
}

// clearScreen is the ANSI sequence the operator display is reset with
// before each render.
const clearScreen = "\033[2J\033[H"

// Run renders the board until ctx is cancelled
func (p *Publisher) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			board, err := p.service.RenderOperator(ctx)
			if err != nil {
				p.logger.Error("scoreboard render failed", slog.String("error", err.Error()))
				continue
			}
			if _, err := io.WriteString(p.out, clearScreen+board); err != nil {
				p.logger.Error("scoreboard write failed", slog.String("error", err.Error()))
			}
		case <-ctx.Done():
			return
		}
	}
}
