// internal/game/types.go
//
// Core type definitions for the guessing game engine.
// Defines:
//   - Result: coarse outcome of a guess or hint request.
//   - Cue:    sound cue names the presentation layer may play.
//   - Round:  state for the single live round of a Session.
//   - GuessOutcome / HintOutcome: what an action produced.
//   - Stats:  per-session tally across rounds.

package game

import (
	"errors"
	"time"

	"github.com/robalobadob/cartoon-guess/internal/catalog"
)

// Result describes what a player action produced.
type Result string

const (
	ResultInvalid     Result = "invalid"       // unparsable guess, nothing changed
	ResultTooLow      Result = "too_low"       // wrong guess below the secret
	ResultTooHigh     Result = "too_high"      // wrong guess above the secret
	ResultWin         Result = "win"           // secret found, round over
	ResultLose        Result = "lose"          // attempts exhausted, round over
	ResultInactive    Result = "inactive"      // no live round, nothing changed
	ResultHint        Result = "hint"          // hint granted
	ResultNoHintsLeft Result = "no_hints_left" // hint budget spent, nothing changed
)

// Cue names a short sound effect.
type Cue string

const (
	CueStart Cue = "start"
	CueHint  Cue = "hint"
	CueWin   Cue = "win"
	CueLose  Cue = "lose"
	CuePop   Cue = "pop"
)

// Guess input errors, carried on GuessOutcome.Err.
var (
	ErrEmptyGuess = errors.New("empty guess")
	ErrNotANumber = errors.New("guess is not a number")
)

const (
	// MaxHints is the hint budget per round.
	MaxHints = 3
	// DefaultPlayer is used when the player leaves the name blank.
	DefaultPlayer = "Player"

	hintPenalty  = 8
	guessPenalty = 10
	baseScore    = 100
	levelStep    = 10 // base score grows by this much per level below Hard
	bonusCeiling = 60 // speed bonus = max(bonusFloor, bonusCeiling - elapsed)
	bonusFloor   = 10
)

// Round holds the state of the live round.
type Round struct {
	Player            string
	Level             catalog.Level
	Character         catalog.Character
	Secret            int       // drawn from [1, Limit], fixed for the round
	Limit             int       // upper bound of the guessable range
	AttemptsRemaining int       // wrong guesses left
	HintsUsed         int       // 0..MaxHints
	Score             int       // never negative
	StartedAt         time.Time // used for elapsed time on win/loss
	Active            bool      // false once won or lost; further guesses are ignored
}

// HintsRemaining reports how many hints are still available.
func (r Round) HintsRemaining() int {
	return max(0, MaxHints-r.HintsUsed)
}

// GuessOutcome is the result of Session.Guess.
type GuessOutcome struct {
	Result            Result `json:"result"`
	Message           string `json:"message,omitempty"`
	Score             int    `json:"score"`
	AttemptsRemaining int    `json:"attemptsRemaining"`
	Elapsed           int    `json:"elapsed,omitempty"` // seconds, win/lose only
	Bonus             int    `json:"bonus,omitempty"`   // win only
	Secret            int    `json:"secret,omitempty"`  // lose only
	Err               error  `json:"-"`                 // ErrEmptyGuess / ErrNotANumber on invalid input
}

// HintOutcome is the result of Session.Hint.
type HintOutcome struct {
	Result         Result `json:"result"`
	Text           string `json:"text,omitempty"`
	Message        string `json:"message,omitempty"`
	HintsRemaining int    `json:"hintsRemaining"`
	Score          int    `json:"score"`
}

// Stats tallies finished rounds for one Session.
type Stats struct {
	RoundsPlayed int `json:"roundsPlayed"`
	Wins         int `json:"wins"`
	Streak       int `json:"streak"`
	TotalScore   int `json:"totalScore"`
}
