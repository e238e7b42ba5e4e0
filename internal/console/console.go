// Package console runs the game as an interactive terminal menu.
//
// It drives the same game.Session as the HTTP server, with a Bridge that
// prints to the terminal. Sound cues are not played; they are logged at
// debug level.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/cartoon-guess/internal/catalog"
	"github.com/robalobadob/cartoon-guess/internal/game"
	"github.com/robalobadob/cartoon-guess/internal/leaderboard"
)

const title = `
   ____            _                      ____
  / ___|__ _ _ __ | |_ ___   ___  _ __   / ___|_   _  ___  ___ ___
 | |   / _' | '__|| __/ _ \ / _ \| '_ \ | |  _| | | |/ _ \/ __/ __|
 | |__| (_| | |   | || (_) | (_) | | | || |_| | |_| |  __/\__ \__ \
  \____\__,_|_|    \__\___/ \___/|_| |_| \____|\__,_|\___||___/___/

     Cartoon Number Guessing
`

const help = `
Cartoon Guess Help
 - Type 'hint' during a round to use one of 3 hints (-8 points each).
 - Wrong guesses cost 10 points and one attempt.
 - Guess fast: finding the number early earns up to 60 bonus points.
 - Type 'quit' during a round to abandon it.
`

// Console is a terminal front end bound to one Session.
type Console struct {
	in   *bufio.Scanner
	out  io.Writer
	sess *game.Session
	name string
}

// New builds a Console reading from in and writing to out. opts are passed
// to the underlying game.Session.
func New(in io.Reader, out io.Writer, board game.Recorder, opts ...game.Option) *Console {
	c := &Console{in: bufio.NewScanner(in), out: out}
	opts = append([]game.Option{game.WithBridge(printer{out: out})}, opts...)
	c.sess = game.NewSession(board, opts...)
	return c
}

// Run shows the main menu until the player quits or input ends.
func (c *Console) Run(ctx context.Context) error {
	fmt.Fprint(c.out, title)
	name, ok := c.ask("Player name (leave blank to use 'Player'): ")
	if !ok {
		return nil
	}
	c.name = name

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprint(c.out, "\nMain Menu\n 1) Play Game\n 2) View Leaderboard\n 3) Clear Leaderboard\n 4) Help\n 5) Quit\n")
		choice, ok := c.ask("Choose 1-5: ")
		if !ok {
			return nil
		}
		switch choice {
		case "1":
			if !c.play(ctx) {
				return nil
			}
		case "2":
			c.showLeaderboard(ctx)
		case "3":
			if ans, ok := c.ask("Really delete every score? (y/n): "); ok && strings.EqualFold(ans, "y") {
				c.sess.ClearLeaderboard(ctx)
				fmt.Fprintln(c.out, "Leaderboard cleared.")
			}
		case "4":
			fmt.Fprint(c.out, help)
		case "5":
			fmt.Fprintln(c.out, "Bye! Play again soon 🐱")
			return nil
		default:
			fmt.Fprintln(c.out, "Invalid choice. Pick 1-5.")
		}
	}
}

// play runs rounds at one level until the player loses or stops. It
// returns false when input ended.
func (c *Console) play(ctx context.Context) bool {
	fmt.Fprintln(c.out, "Choose your character:")
	for _, ch := range catalog.Characters() {
		fmt.Fprintf(c.out, " %d) %s  %s — %s\n", ch.ID, ch.Glyph, ch.Name, ch.Flavor)
	}
	charSel, ok := c.ask("Pick 1-4 (default 1): ")
	if !ok {
		return false
	}
	fmt.Fprintln(c.out, "Choose level:")
	for _, l := range catalog.Levels() {
		fmt.Fprintf(c.out, " %d) %s (1..%d, %d tries)\n", l.ID, l.Label, l.Limit, l.Attempts)
	}
	levelSel, ok := c.ask("Pick 1-3 (default 1): ")
	if !ok {
		return false
	}

	rounds, total := 0, 0
	for {
		c.sess.Start(ctx, c.name, catalog.ParseID(levelSel), catalog.ParseID(charSel))
		score, won, ok := c.round(ctx)
		if !ok {
			return false
		}
		rounds++
		total += score
		fmt.Fprintf(c.out, "\nRound %d ended. Round score: %d. Total score: %d\n", rounds, score, total)
		if !won {
			fmt.Fprintln(c.out, "Returning to main menu.")
			return true
		}
		ans, ok := c.ask("Continue next round at same level? (y/n): ")
		if !ok {
			return false
		}
		if !strings.EqualFold(ans, "y") {
			return true
		}
	}
}

// round reads guesses until the live round ends. ok is false when input
// ended; a 'quit' abandons the round with score 0.
func (c *Console) round(ctx context.Context) (score int, won bool, ok bool) {
	for {
		rd, _ := c.sess.Snapshot()
		line, ok := c.ask(fmt.Sprintf("Attempt (%d) > ", rd.AttemptsRemaining))
		if !ok {
			return 0, false, false
		}
		switch strings.ToLower(line) {
		case "hint":
			c.sess.Hint(ctx)
			continue
		case "quit":
			return 0, false, true
		}
		out := c.sess.Guess(ctx, line)
		switch out.Result {
		case game.ResultWin:
			return out.Score, true, true
		case game.ResultLose:
			return 0, false, true
		}
	}
}

func (c *Console) showLeaderboard(ctx context.Context) {
	top, ok := c.sess.Leaderboard(ctx)
	if !ok {
		fmt.Fprintln(c.out, "\n🏆 Leaderboard empty — be the first!")
		return
	}
	fmt.Fprintf(c.out, "\n🏆 Leaderboard (Top %d) 🏆\n", leaderboard.DisplayTop)
	for i, e := range top {
		fmt.Fprintf(c.out, "%2d. %-12s  Score: %3d  Time: %3ds  At: %s\n",
			i+1, e.Name, e.Score, e.Time, e.When.Format("2006-01-02 15:04"))
	}
}

// ask prints prompt and returns the next trimmed input line.
func (c *Console) ask(prompt string) (string, bool) {
	fmt.Fprint(c.out, prompt)
	if !c.in.Scan() {
		fmt.Fprintln(c.out)
		return "", false
	}
	return strings.TrimSpace(c.in.Text()), true
}

// printer renders bridge events as terminal lines.
type printer struct{ out io.Writer }

func (p printer) RoundStarted(glyph, name string, limit int) {
	fmt.Fprintf(p.out, "\n🎯 %s  %s — Guess a number between 1 and %d\n", glyph, name, limit)
}

func (p printer) Meta(hints, attempts, score int) {
	fmt.Fprintf(p.out, "   Hints: %d  Attempts: %d  Score: %d\n", hints, attempts, score)
}

func (p printer) Message(text string) { fmt.Fprintln(p.out, text) }

func (p printer) LeaderboardChanged([]leaderboard.Entry, bool) {}

func (p printer) Sound(cue game.Cue) { log.Debug().Str("cue", string(cue)).Msg("sound") }
