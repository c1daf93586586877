package model

import "time"

// SessionID identifies one client connection for its lifetime.
// It keys the Player in the registry and is never reused while
// the Player is registered.
type SessionID string

// Theme selects one of the two fixed question sequences
type Theme string

const (
	ThemeNone    Theme = ""
	ThemeTech    Theme = "tech"
	ThemeGeneral Theme = "general"
)

// Wire tokens clients send to pick a theme
const (
	ThemeTokenTech    = "1"
	ThemeTokenGeneral = "2"
)

// ParseTheme maps a client theme token to a Theme
func ParseTheme(token string) (Theme, error) {
	switch token {
	case ThemeTokenTech:
		return ThemeTech, nil
	case ThemeTokenGeneral:
		return ThemeGeneral, nil
	default:
		return ThemeNone, ErrInvalidTheme
	}
}

// DisplayName returns the human-readable theme name
func (t Theme) DisplayName() string {
	switch t {
	case ThemeTech:
		return "Technology"
	case ThemeGeneral:
		return "General Knowledge"
	default:
		return "None"
	}
}

// Other returns the opposite theme, or ThemeNone for ThemeNone
func (t Theme) Other() Theme {
	switch t {
	case ThemeTech:
		return ThemeGeneral
	case ThemeGeneral:
		return ThemeTech
	default:
		return ThemeNone
	}
}

// Player represents one registered participant
type Player struct {
	SessionID SessionID
	Nickname  string // unique among registered players, set once

	TechScore    int
	GeneralScore int

	CompletedTech    bool
	CompletedGeneral bool

	// CurrentTheme is ThemeNone while the player is idle between quizzes.
	// QuestionIndex is the next question to serve within the active theme.
	CurrentTheme  Theme
	QuestionIndex int

	// JoinedSeq orders players by registration time for stable ranking
	JoinedSeq uint64
	JoinedAt  time.Time
}

// Score returns the player's score for the given theme
func (p *Player) Score(theme Theme) int {
	if theme == ThemeTech {
		return p.TechScore
	}
	return p.GeneralScore
}

// AddScore increments the score for the given theme
func (p *Player) AddScore(theme Theme) {
	if theme == ThemeTech {
		p.TechScore++
	} else {
		p.GeneralScore++
	}
}

// ResetScore zeroes the score for the given theme
func (p *Player) ResetScore(theme Theme) {
	if theme == ThemeTech {
		p.TechScore = 0
	} else {
		p.GeneralScore = 0
	}
}

// Completed reports whether the player has finished the given theme
func (p *Player) Completed(theme Theme) bool {
	if theme == ThemeTech {
		return p.CompletedTech
	}
	return p.CompletedGeneral
}

// SetCompleted marks the given theme as finished
func (p *Player) SetCompleted(theme Theme) {
	if theme == ThemeTech {
		p.CompletedTech = true
	} else {
		p.CompletedGeneral = true
	}
}

// CompletedBoth reports whether the player has finished both themes
func (p *Player) CompletedBoth() bool {
	return p.CompletedTech && p.CompletedGeneral
}
