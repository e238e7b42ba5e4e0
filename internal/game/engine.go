// internal/game/engine.go
//
// Round engine for a single player session.
// Responsibilities:
//   - Start rounds: pick the secret, reset budgets, compute the base score.
//   - Apply guesses: parse input, score, detect win/loss, record results.
//   - Grant hints from the hint package, charging the hint penalty.
//   - Notify the presentation Bridge after every state change.
//
// A Session owns exactly one live Round; Start discards the previous one.
// A Session is not safe for concurrent use; hosts serialise access.
package game

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/cartoon-guess/internal/catalog"
	"github.com/robalobadob/cartoon-guess/internal/hint"
	"github.com/robalobadob/cartoon-guess/internal/leaderboard"
)

// Recorder is the leaderboard capability a Session writes finished rounds to.
// *leaderboard.Board satisfies it.
type Recorder interface {
	Append(ctx context.Context, e leaderboard.Entry)
	Top(ctx context.Context, n int) ([]leaderboard.Entry, bool)
	Clear(ctx context.Context)
}

// Session owns the live Round and routes its events to a Bridge.
type Session struct {
	board  Recorder
	bridge Bridge
	intn   func(n int) int // uniform in [0, n)
	now    func() time.Time

	round *Round
	stats Stats
}

// Option configures a Session.
type Option func(*Session)

// WithBridge sets the presentation bridge. The default discards events.
func WithBridge(b Bridge) Option {
	return func(s *Session) {
		if b != nil {
			s.bridge = b
		}
	}
}

// WithRand replaces the random source. fn must return a value in [0, n).
func WithRand(fn func(n int) int) Option {
	return func(s *Session) { s.intn = fn }
}

// WithClock replaces time.Now.
func WithClock(fn func() time.Time) Option {
	return func(s *Session) { s.now = fn }
}

// NewSession constructs a Session with no live round.
func NewSession(board Recorder, opts ...Option) *Session {
	s := &Session{
		board:  board,
		bridge: NopBridge{},
		intn:   cryptoIntn,
		now:    time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Start begins a new round, overwriting any live one. Unknown level or
// character ids fall back to the first catalog entry.
func (s *Session) Start(ctx context.Context, player string, levelID, characterID int) Round {
	level, ok := catalog.ResolveLevel(levelID)
	if !ok {
		log.Debug().Int("level", levelID).Msg("unknown level, using default")
	}
	char, ok := catalog.ResolveCharacter(characterID)
	if !ok {
		log.Debug().Int("character", characterID).Msg("unknown character, using default")
	}

	player = strings.TrimSpace(player)
	if player == "" {
		player = DefaultPlayer
	}

	s.round = &Round{
		Player:            player,
		Level:             level,
		Character:         char,
		Secret:            s.intn(level.Limit) + 1,
		Limit:             level.Limit,
		AttemptsRemaining: level.Attempts,
		HintsUsed:         0,
		Score:             baseScore + (3-level.ID)*levelStep,
		StartedAt:         s.now(),
		Active:            true,
	}
	r := *s.round

	s.emit(func(b Bridge) { b.RoundStarted(char.Glyph, char.Name, level.Limit) })
	s.emit(func(b Bridge) { b.Message(fmt.Sprintf("Round started for %s. Good luck!", player)) })
	s.emitMeta()
	s.emit(func(b Bridge) { b.Sound(CueStart) })
	return r
}

// Guess applies a raw guess to the live round.
//
// Validation rules:
//   - No live round (never started, or already won/lost) → ResultInactive, no change.
//   - Empty or non-integer text → ResultInvalid, no attempt consumed.
//
// State transitions:
//   - Match → round over, speed bonus added, leaderboard entry recorded.
//   - Mismatch → one attempt and the guess penalty are charged; when the last
//     attempt is spent the round is lost and a zero-score entry is recorded.
func (s *Session) Guess(ctx context.Context, raw string) GuessOutcome {
	r := s.round
	if r == nil || !r.Active {
		out := GuessOutcome{Result: ResultInactive}
		if r != nil {
			out.Score, out.AttemptsRemaining = r.Score, r.AttemptsRemaining
		}
		return out
	}

	g, err := parseGuess(raw)
	if err != nil {
		msg := "Invalid number."
		if err == ErrEmptyGuess {
			msg = "Enter a guess!"
		}
		s.emit(func(b Bridge) { b.Message(msg) })
		return GuessOutcome{
			Result:            ResultInvalid,
			Message:           msg,
			Score:             r.Score,
			AttemptsRemaining: r.AttemptsRemaining,
			Err:               err,
		}
	}

	elapsed := s.elapsed()

	if g == r.Secret {
		bonus := max(bonusFloor, bonusCeiling-elapsed)
		final := max(0, r.Score+bonus)
		r.Score = final
		r.Active = false
		s.finish(ctx, r.Player, final, elapsed, true)

		msg := fmt.Sprintf("🎉 Correct! You found it in %ds. Score: %d (+%d speed bonus)", elapsed, final, bonus)
		s.emit(func(b Bridge) { b.Message(msg) })
		s.emit(func(b Bridge) { b.Sound(CueWin) })
		s.emitMeta()
		s.emitLeaderboard(ctx)
		return GuessOutcome{
			Result:            ResultWin,
			Message:           msg,
			Score:             final,
			AttemptsRemaining: r.AttemptsRemaining,
			Elapsed:           elapsed,
			Bonus:             bonus,
		}
	}

	res, msg := ResultTooLow, "⬆️ Too low!"
	if g > r.Secret {
		res, msg = ResultTooHigh, "⬇️ Too high!"
	}
	r.AttemptsRemaining--
	r.Score = max(0, r.Score-guessPenalty)

	if r.AttemptsRemaining <= 0 {
		r.Active = false
		s.finish(ctx, r.Player, 0, elapsed, false)

		msg = fmt.Sprintf("💥 Out of attempts! The number was %d.", r.Secret)
		s.emit(func(b Bridge) { b.Message(msg) })
		s.emit(func(b Bridge) { b.Sound(CueLose) })
		s.emitMeta()
		s.emitLeaderboard(ctx)
		return GuessOutcome{
			Result:            ResultLose,
			Message:           msg,
			Score:             r.Score,
			AttemptsRemaining: r.AttemptsRemaining,
			Elapsed:           elapsed,
			Secret:            r.Secret,
		}
	}

	s.emit(func(b Bridge) { b.Message(msg) })
	s.emit(func(b Bridge) { b.Sound(CuePop) })
	s.emitMeta()
	return GuessOutcome{
		Result:            res,
		Message:           msg,
		Score:             r.Score,
		AttemptsRemaining: r.AttemptsRemaining,
	}
}

// Hint grants the next hint in the fixed strategy cycle. Finished rounds
// grant nothing.
func (s *Session) Hint(ctx context.Context) HintOutcome {
	r := s.round
	if r == nil || !r.Active {
		out := HintOutcome{Result: ResultInactive}
		if r != nil {
			out.HintsRemaining, out.Score = r.HintsRemaining(), r.Score
		}
		return out
	}
	if r.HintsUsed >= MaxHints {
		msg := "No hints left."
		s.emit(func(b Bridge) { b.Message(msg) })
		return HintOutcome{Result: ResultNoHintsLeft, Message: msg, HintsRemaining: 0, Score: r.Score}
	}

	text := hint.Generate(r.Secret, r.Limit, r.HintsUsed%hint.Strategies)
	r.HintsUsed++
	r.Score = max(0, r.Score-hintPenalty)

	msg := "💡 Hint: " + text
	s.emit(func(b Bridge) { b.Message(msg) })
	s.emitMeta()
	s.emit(func(b Bridge) { b.Sound(CueHint) })
	return HintOutcome{
		Result:         ResultHint,
		Text:           text,
		Message:        msg,
		HintsRemaining: r.HintsRemaining(),
		Score:          r.Score,
	}
}

// ClearLeaderboard empties the shared leaderboard.
func (s *Session) ClearLeaderboard(ctx context.Context) {
	s.board.Clear(ctx)
	s.emitLeaderboard(ctx)
}

// Leaderboard returns the displayed top entries; ok is false when empty.
func (s *Session) Leaderboard(ctx context.Context) ([]leaderboard.Entry, bool) {
	return s.board.Top(ctx, leaderboard.DisplayTop)
}

// Snapshot returns a copy of the live round; ok is false before the first Start.
func (s *Session) Snapshot() (Round, bool) {
	if s.round == nil {
		return Round{}, false
	}
	return *s.round, true
}

// Stats returns the tally of rounds finished in this session.
func (s *Session) Stats() Stats { return s.stats }

// finish records the leaderboard entry and updates session stats.
func (s *Session) finish(ctx context.Context, player string, score, elapsed int, won bool) {
	s.board.Append(ctx, leaderboard.Entry{
		Name:  player,
		Score: score,
		Time:  elapsed,
		When:  s.now().UTC(),
	})
	s.stats.RoundsPlayed++
	s.stats.TotalScore += score
	if won {
		s.stats.Wins++
		s.stats.Streak++
	} else {
		s.stats.Streak = 0
	}
}

func (s *Session) emitMeta() {
	r := *s.round
	s.emit(func(b Bridge) { b.Meta(r.HintsRemaining(), r.AttemptsRemaining, r.Score) })
}

func (s *Session) emitLeaderboard(ctx context.Context) {
	top, ok := s.board.Top(ctx, leaderboard.DisplayTop)
	s.emit(func(b Bridge) { b.LeaderboardChanged(top, !ok) })
}

// elapsed returns whole seconds since the round started.
func (s *Session) elapsed() int {
	d := s.now().Sub(s.round.StartedAt)
	if d < 0 {
		return 0
	}
	return int(d / time.Second)
}

// parseGuess accepts an optionally signed base-10 integer surrounded by
// whitespace.
func parseGuess(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, ErrEmptyGuess
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, ErrNotANumber
	}
	return n, nil
}

// cryptoIntn returns a uniform value in [0, n) from crypto/rand.
func cryptoIntn(n int) int {
	if n <= 1 {
		return 0
	}
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		log.Error().Err(err).Msg("crypto/rand failed")
		return 0
	}
	return int(v.Int64())
}
