package console

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/robalobadob/cartoon-guess/internal/game"
	"github.com/robalobadob/cartoon-guess/internal/leaderboard"
	"github.com/robalobadob/cartoon-guess/internal/store"
)

func run(t *testing.T, input string, board *leaderboard.Board) string {
	t.Helper()
	var out bytes.Buffer
	c := New(strings.NewReader(input), &out, board, game.WithRand(func(n int) int { return 6 }))
	if err := c.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	return out.String()
}

func TestConsoleWinThenStop(t *testing.T) {
	board := leaderboard.New(store.NewMemory())
	// name, play, Robot, Easy, hint, low guess, junk, win, stop, leaderboard, quit
	out := run(t, "Rex\n1\n2\n1\nhint\n3\nabc\n7\nn\n2\n5\n", board)

	for _, want := range []string{
		"🤖  Robot — Guess a number between 1 and 10",
		"Round started for Rex. Good luck!",
		"💡 Hint: It's between 6 and 8.",
		"⬆️ Too low!",
		"Invalid number.",
		"🎉 Correct!",
		"Round 1 ended.",
		"🏆 Leaderboard (Top 10) 🏆",
		"Bye! Play again soon",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
	entries := board.Load(context.Background())
	if len(entries) != 1 || entries[0].Name != "Rex" {
		t.Fatalf("unexpected leaderboard %+v", entries)
	}
}

func TestConsoleLossReturnsToMenu(t *testing.T) {
	board := leaderboard.New(store.NewMemory())
	out := run(t, "\n1\n\n\n1\n1\n1\n1\n1\n1\n5\n", board)
	if !strings.Contains(out, "💥 Out of attempts! The number was 7.") {
		t.Fatalf("expected loss message:\n%s", out)
	}
	if !strings.Contains(out, "Returning to main menu.") {
		t.Fatalf("expected return to menu:\n%s", out)
	}
	entries := board.Load(context.Background())
	if len(entries) != 1 || entries[0].Score != 0 || entries[0].Name != game.DefaultPlayer {
		t.Fatalf("unexpected leaderboard %+v", entries)
	}
}

func TestConsoleClearAndEmptyBoard(t *testing.T) {
	ctx := context.Background()
	board := leaderboard.New(store.NewMemory())
	board.Append(ctx, leaderboard.Entry{Name: "old", Score: 50})
	out := run(t, "x\n3\ny\n2\n", board)
	if !strings.Contains(out, "Leaderboard cleared.") || !strings.Contains(out, "Leaderboard empty") {
		t.Fatalf("expected clear then empty board:\n%s", out)
	}
}

func TestConsoleEndOfInputExitsCleanly(t *testing.T) {
	board := leaderboard.New(store.NewMemory())
	out := run(t, "Amy\n1\n1\n1\n", board)
	if !strings.Contains(out, "Attempt (6) > ") {
		t.Fatalf("expected round prompt before input ended:\n%s", out)
	}
}
