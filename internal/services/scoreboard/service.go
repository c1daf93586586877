// Package scoreboard renders shared scoreboard views from registry snapshots.
package scoreboard

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/triviad/triviad/internal/model"
	"github.com/triviad/triviad/internal/services/questions"
	"github.com/triviad/triviad/internal/storage"
)

const divider = "++++++++++++++++++++++++++++++++++++++++"

// Service renders scoreboard text. It is a read-only consumer of the
// registry: every render works from one Snapshot call and tolerates the
// registry changing underneath.
type Service struct {
	registry  storage.Registry
	questions *questions.Service
}

// New creates a new scoreboard Service
func New(registry storage.Registry, questions *questions.Service) *Service {
	return &Service{
		registry:  registry,
		questions: questions,
	}
}

// RenderOperator produces the full operator-facing board: participant list,
// per-theme rankings, and per-theme completion lists.
func (s *Service) RenderOperator(ctx context.Context) (string, error) {
	snapshot, err := s.registry.Snapshot(ctx)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("    ==- Trivia Quiz -==\n")
	b.WriteString(divider + "\n")
	b.WriteString("Available themes:\n")
	fmt.Fprintf(&b, "%s- %s\n", model.ThemeTokenTech, model.ThemeTech.DisplayName())
	fmt.Fprintf(&b, "%s- %s\n", model.ThemeTokenGeneral, model.ThemeGeneral.DisplayName())
	b.WriteString(divider + "\n")

	fmt.Fprintf(&b, "Active participants (%d):\n", len(snapshot))
	for _, p := range snapshot {
		fmt.Fprintf(&b, "- %s (quiz: %s)\n", p.Nickname, p.CurrentTheme.DisplayName())
	}

	s.writeScores(&b, snapshot, model.ThemeTech)
	s.writeScores(&b, snapshot, model.ThemeGeneral)
	writeCompleted(&b, snapshot, model.ThemeTech)
	writeCompleted(&b, snapshot, model.ThemeGeneral)

	return b.String(), nil
}

// RenderSummary produces the per-client summary sent for "show score":
// the two per-theme score lists only.
func (s *Service) RenderSummary(ctx context.Context) (string, error) {
	snapshot, err := s.registry.Snapshot(ctx)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	s.writeScores(&b, snapshot, model.ThemeTech)
	s.writeScores(&b, snapshot, model.ThemeGeneral)
	return b.String(), nil
}

// writeScores appends a theme's ranking: players with nonzero score, sorted
// descending. The snapshot arrives in registration order and the sort is
// stable, so ties keep that order.
func (s *Service) writeScores(b *strings.Builder, snapshot []model.Player, theme model.Theme) {
	ranked := make([]model.Player, 0, len(snapshot))
	for _, p := range snapshot {
		if p.Score(theme) > 0 {
			ranked = append(ranked, p)
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score(theme) > ranked[j].Score(theme)
	})

	total := s.questions.Count(theme)
	fmt.Fprintf(b, "\n%s scores:\n", theme.DisplayName())
	for _, p := range ranked {
		fmt.Fprintf(b, "%s: %d/%d\n", p.Nickname, p.Score(theme), total)
	}
}

func writeCompleted(b *strings.Builder, snapshot []model.Player, theme model.Theme) {
	fmt.Fprintf(b, "\n%s quizzes completed:\n", theme.DisplayName())
	for _, p := range snapshot {
		if p.Completed(theme) {
			fmt.Fprintf(b, "- %s\n", p.Nickname)
		}
	}
}
