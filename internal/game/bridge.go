package game

import (
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/cartoon-guess/internal/leaderboard"
)

// Bridge receives everything a player should see or hear. It is implemented
// by the host (HTTP event log, terminal printer). Calls are best effort: a
// panicking Bridge is recovered by the Session and never affects game state.
type Bridge interface {
	RoundStarted(glyph, name string, limit int)
	Meta(hintsRemaining, attemptsRemaining, score int)
	Message(text string)
	// LeaderboardChanged delivers the displayed top entries; empty is true
	// when the board holds nothing.
	LeaderboardChanged(top []leaderboard.Entry, empty bool)
	Sound(cue Cue)
}

// NopBridge discards every event.
type NopBridge struct{}

func (NopBridge) RoundStarted(string, string, int)             {}
func (NopBridge) Meta(int, int, int)                           {}
func (NopBridge) Message(string)                               {}
func (NopBridge) LeaderboardChanged([]leaderboard.Entry, bool) {}
func (NopBridge) Sound(Cue)                                    {}

// emit calls fn with the session bridge, swallowing panics.
func (s *Session) emit(fn func(b Bridge)) {
	defer func() {
		if r := recover(); r != nil {
			log.Warn().Interface("panic", r).Msg("presentation bridge failed")
		}
	}()
	fn(s.bridge)
}
