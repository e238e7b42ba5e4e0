package game

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/robalobadob/cartoon-guess/internal/catalog"
	"github.com/robalobadob/cartoon-guess/internal/leaderboard"
	"github.com/robalobadob/cartoon-guess/internal/store"
)

// fakeClock advances only when told to.
type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

// recordingBridge keeps every event for assertions.
type recordingBridge struct {
	started  int
	messages []string
	sounds   []Cue
	metas    [][3]int
	boards   int
	empty    bool
}

func (b *recordingBridge) RoundStarted(string, string, int) { b.started++ }
func (b *recordingBridge) Meta(h, a, s int)                 { b.metas = append(b.metas, [3]int{h, a, s}) }
func (b *recordingBridge) Message(text string)              { b.messages = append(b.messages, text) }
func (b *recordingBridge) Sound(c Cue)                      { b.sounds = append(b.sounds, c) }
func (b *recordingBridge) LeaderboardChanged(_ []leaderboard.Entry, empty bool) {
	b.boards++
	b.empty = empty
}

// panicBridge fails on every call.
type panicBridge struct{}

func (panicBridge) RoundStarted(string, string, int)             { panic("render") }
func (panicBridge) Meta(int, int, int)                           { panic("render") }
func (panicBridge) Message(string)                               { panic("render") }
func (panicBridge) LeaderboardChanged([]leaderboard.Entry, bool) { panic("render") }
func (panicBridge) Sound(Cue)                                    { panic("audio") }

type fixture struct {
	sess   *Session
	board  *leaderboard.Board
	clock  *fakeClock
	bridge *recordingBridge
}

// newFixture builds a session whose secret is always `secret` (clamped by the
// level limit through the random source).
func newFixture(secret int) *fixture {
	f := &fixture{
		board:  leaderboard.New(store.NewMemory()),
		clock:  &fakeClock{t: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)},
		bridge: &recordingBridge{},
	}
	f.sess = NewSession(f.board,
		WithBridge(f.bridge),
		WithClock(f.clock.Now),
		WithRand(func(n int) int { return min(secret, n) - 1 }),
	)
	return f
}

func TestStartInitialisesRoundPerLevel(t *testing.T) {
	for _, lvl := range catalog.Levels() {
		sess := NewSession(leaderboard.New(store.NewMemory()))
		for i := 0; i < 50; i++ {
			r := sess.Start(context.Background(), "ann", lvl.ID, 1)
			if r.Secret < 1 || r.Secret > lvl.Limit {
				t.Fatalf("level %d: secret %d outside [1,%d]", lvl.ID, r.Secret, lvl.Limit)
			}
			if r.AttemptsRemaining != lvl.Attempts {
				t.Fatalf("level %d: attempts %d, want %d", lvl.ID, r.AttemptsRemaining, lvl.Attempts)
			}
			if want := 100 + (3-lvl.ID)*10; r.Score != want {
				t.Fatalf("level %d: score %d, want %d", lvl.ID, r.Score, want)
			}
			if !r.Active || r.HintsUsed != 0 || r.Limit != lvl.Limit {
				t.Fatalf("level %d: unexpected round %+v", lvl.ID, r)
			}
		}
	}
}

func TestStartDefaultsNameAndUnknownIDs(t *testing.T) {
	f := newFixture(3)
	r := f.sess.Start(context.Background(), "   ", 42, 0)
	if r.Player != DefaultPlayer {
		t.Fatalf("expected default player, got %q", r.Player)
	}
	if r.Level.ID != 1 || r.Character.ID != 1 {
		t.Fatalf("expected fallback to first catalog entries, got level %d character %d", r.Level.ID, r.Character.ID)
	}
	if f.bridge.started != 1 || len(f.bridge.sounds) != 1 || f.bridge.sounds[0] != CueStart {
		t.Fatalf("expected start events, got %+v", f.bridge)
	}
}

func TestMediumScenarioWins(t *testing.T) {
	ctx := context.Background()
	f := newFixture(25)
	f.sess.Start(ctx, "Ann", 2, 2)

	want := []Result{ResultTooLow, ResultTooHigh, ResultWin}
	var last GuessOutcome
	for i, g := range []string{"10", "30", "25"} {
		f.clock.Advance(5 * time.Second)
		last = f.sess.Guess(ctx, g)
		if last.Result != want[i] {
			t.Fatalf("guess %s: got %s, want %s", g, last.Result, want[i])
		}
	}

	// 15s elapsed → bonus 45; score 110 - 10 - 10 + 45.
	if last.Elapsed != 15 || last.Bonus != 45 || last.Score != 135 {
		t.Fatalf("unexpected win outcome %+v", last)
	}
	r, _ := f.sess.Snapshot()
	if r.Active {
		t.Fatal("round should be inactive after a win")
	}
	entries := f.board.Load(ctx)
	if len(entries) != 1 || entries[0].Score != 135 || entries[0].Time != 15 || entries[0].Name != "Ann" {
		t.Fatalf("unexpected leaderboard %+v", entries)
	}
}

func TestSpeedBonusFloor(t *testing.T) {
	ctx := context.Background()
	f := newFixture(4)
	f.sess.Start(ctx, "slow", 1, 1)
	f.clock.Advance(10 * time.Minute)
	out := f.sess.Guess(ctx, "4")
	if out.Bonus != 10 || out.Score != 120+10 {
		t.Fatalf("expected floor bonus, got %+v", out)
	}
}

func TestEasyScenarioLoses(t *testing.T) {
	ctx := context.Background()
	f := newFixture(7)
	f.sess.Start(ctx, "Bob", 1, 4)

	var out GuessOutcome
	for i, g := range []string{"1", "2", "3", "4", "5", "6"} {
		out = f.sess.Guess(ctx, g)
		if i < 5 && out.Result != ResultTooLow {
			t.Fatalf("guess %s: got %s", g, out.Result)
		}
	}
	if out.Result != ResultLose || out.Secret != 7 {
		t.Fatalf("expected loss revealing 7, got %+v", out)
	}
	if out.Message != "💥 Out of attempts! The number was 7." {
		t.Fatalf("unexpected loss message %q", out.Message)
	}
	entries := f.board.Load(ctx)
	if len(entries) != 1 || entries[0].Score != 0 {
		t.Fatalf("expected single zero-score entry, got %+v", entries)
	}
	if st := f.sess.Stats(); st.RoundsPlayed != 1 || st.Wins != 0 || st.Streak != 0 {
		t.Fatalf("unexpected stats %+v", st)
	}
}

func TestGuessesAfterRoundEndAreIgnored(t *testing.T) {
	ctx := context.Background()
	f := newFixture(5)
	f.sess.Start(ctx, "Cy", 1, 1)
	f.sess.Guess(ctx, "5")

	before, _ := f.sess.Snapshot()
	for _, g := range []string{"5", "1", "9"} {
		if out := f.sess.Guess(ctx, g); out.Result != ResultInactive {
			t.Fatalf("expected inactive, got %s", out.Result)
		}
	}
	after, _ := f.sess.Snapshot()
	if before != after {
		t.Fatalf("frozen round changed: %+v -> %+v", before, after)
	}
	if n := len(f.board.Load(ctx)); n != 1 {
		t.Fatalf("expected 1 leaderboard entry, got %d", n)
	}
	if h := f.sess.Hint(ctx); h.Result != ResultInactive {
		t.Fatalf("expected inactive hint, got %s", h.Result)
	}
}

func TestGuessBeforeStart(t *testing.T) {
	f := newFixture(5)
	if out := f.sess.Guess(context.Background(), "5"); out.Result != ResultInactive {
		t.Fatalf("expected inactive, got %s", out.Result)
	}
	if _, ok := f.sess.Snapshot(); ok {
		t.Fatal("expected no round before Start")
	}
}

func TestInvalidGuessConsumesNothing(t *testing.T) {
	ctx := context.Background()
	f := newFixture(5)
	start := f.sess.Start(ctx, "Di", 3, 3)

	cases := []struct {
		in  string
		err error
		msg string
	}{
		{"", ErrEmptyGuess, "Enter a guess!"},
		{"   ", ErrEmptyGuess, "Enter a guess!"},
		{"abc", ErrNotANumber, "Invalid number."},
		{"12abc", ErrNotANumber, "Invalid number."},
		{"4.5", ErrNotANumber, "Invalid number."},
	}
	for _, tc := range cases {
		out := f.sess.Guess(ctx, tc.in)
		if out.Result != ResultInvalid || !errors.Is(out.Err, tc.err) || out.Message != tc.msg {
			t.Fatalf("Guess(%q) = %+v", tc.in, out)
		}
	}
	r, _ := f.sess.Snapshot()
	if r.AttemptsRemaining != start.AttemptsRemaining || r.Score != start.Score {
		t.Fatalf("invalid input changed state: %+v", r)
	}
}

func TestHintCycleAndBudget(t *testing.T) {
	ctx := context.Background()
	f := newFixture(25)
	f.sess.Start(ctx, "Ed", 2, 1)

	want := []string{"It's between 19 and 31.", "It's divisible by 5.", "It's within 20 and 30."}
	for i, text := range want {
		h := f.sess.Hint(ctx)
		if h.Result != ResultHint || h.Text != text {
			t.Fatalf("hint %d: got %+v, want %q", i, h, text)
		}
		if h.Score != 110-8*(i+1) {
			t.Fatalf("hint %d: score %d", i, h.Score)
		}
	}
	h := f.sess.Hint(ctx)
	if h.Result != ResultNoHintsLeft || h.Message != "No hints left." {
		t.Fatalf("expected no hints left, got %+v", h)
	}
	r, _ := f.sess.Snapshot()
	if r.HintsUsed != 3 || r.Score != 110-24 {
		t.Fatalf("unexpected round after 4th hint %+v", r)
	}
}

func TestScoreNeverNegative(t *testing.T) {
	ctx := context.Background()
	f := newFixture(100)
	f.sess.Start(ctx, "Flo", 3, 1)
	for i := 0; i < 3; i++ {
		f.sess.Hint(ctx)
	}
	for i := 0; i < 9; i++ {
		out := f.sess.Guess(ctx, "1")
		if out.Score < 0 {
			t.Fatalf("negative score %d", out.Score)
		}
	}
	for _, m := range f.bridge.metas {
		if m[2] < 0 {
			t.Fatalf("negative score in meta %v", m)
		}
	}
	r, _ := f.sess.Snapshot()
	if r.Score != 0 || r.Active {
		t.Fatalf("expected exhausted round at zero, got %+v", r)
	}
}

func TestStartDiscardsLiveRound(t *testing.T) {
	ctx := context.Background()
	f := newFixture(5)
	f.sess.Start(ctx, "Gus", 1, 1)
	f.sess.Guess(ctx, "1")
	f.sess.Hint(ctx)
	r := f.sess.Start(ctx, "Gus", 2, 1)
	if r.HintsUsed != 0 || r.AttemptsRemaining != 7 || r.Score != 110 {
		t.Fatalf("expected fresh round, got %+v", r)
	}
	if n := len(f.board.Load(ctx)); n != 0 {
		t.Fatalf("abandoning a round must not record it, got %d entries", n)
	}
}

func TestPanickingBridgeDoesNotBreakGame(t *testing.T) {
	ctx := context.Background()
	board := leaderboard.New(store.NewMemory())
	sess := NewSession(board, WithBridge(panicBridge{}), WithRand(func(int) int { return 2 }))
	sess.Start(ctx, "Hal", 1, 1)
	sess.Hint(ctx)
	if out := sess.Guess(ctx, "3"); out.Result != ResultWin {
		t.Fatalf("expected win despite failing bridge, got %s", out.Result)
	}
	if n := len(board.Load(ctx)); n != 1 {
		t.Fatalf("expected 1 entry, got %d", n)
	}
}

func TestClearLeaderboardNotifiesBridge(t *testing.T) {
	ctx := context.Background()
	f := newFixture(5)
	f.sess.Start(ctx, "Ivy", 1, 1)
	f.sess.Guess(ctx, "5")
	f.sess.ClearLeaderboard(ctx)
	if !f.bridge.empty {
		t.Fatal("expected empty leaderboard notification after clear")
	}
	if _, ok := f.sess.Leaderboard(ctx); ok {
		t.Fatal("expected empty sentinel after clear")
	}
}

func TestStatsTrackStreak(t *testing.T) {
	ctx := context.Background()
	f := newFixture(5)
	for i := 0; i < 2; i++ {
		f.sess.Start(ctx, "Jo", 1, 1)
		f.sess.Guess(ctx, "5")
	}
	st := f.sess.Stats()
	if st.RoundsPlayed != 2 || st.Wins != 2 || st.Streak != 2 || st.TotalScore != 2*(120+60) {
		t.Fatalf("unexpected stats %+v", st)
	}
}
