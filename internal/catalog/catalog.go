// internal/catalog/catalog.go
//
// Fixed reference data for the guessing game.
// Defines:
//   - Character: the cartoon host that "thinks" of the secret number.
//   - Level:     a difficulty (range upper bound + attempt budget).
//
// Both catalogs are immutable. Lookups return (value, ok); Resolve* fall back
// to the first entry so a bad selector from a form never breaks a round.

package catalog

import (
	"strconv"
	"strings"
)

// Character is a selectable cartoon host.
type Character struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Glyph  string `json:"glyph"`
	Flavor string `json:"flavor"`
}

// Level is a difficulty setting.
type Level struct {
	ID       int    `json:"id"`
	Label    string `json:"label"`
	Limit    int    `json:"limit"`    // secret is drawn from [1, Limit]
	Attempts int    `json:"attempts"` // wrong guesses allowed before a loss
}

var characters = []Character{
	{ID: 1, Name: "Cat", Glyph: "🐱", Flavor: "Meow! I hide numbers inside yarn balls."},
	{ID: 2, Name: "Robot", Glyph: "🤖", Flavor: "Beep! I compute a secret integer."},
	{ID: 3, Name: "Panda", Glyph: "🐼", Flavor: "Nom nom... I thought of a bamboo-number."},
	{ID: 4, Name: "Dino", Glyph: "🦖", Flavor: "Roar! Try not to be eaten by wrong guesses."},
}

var levels = []Level{
	{ID: 1, Label: "Easy", Limit: 10, Attempts: 6},
	{ID: 2, Label: "Medium", Limit: 50, Attempts: 7},
	{ID: 3, Label: "Hard", Limit: 100, Attempts: 9},
}

// Characters returns a copy of the character catalog.
func Characters() []Character {
	return append([]Character(nil), characters...)
}

// Levels returns a copy of the level catalog.
func Levels() []Level {
	return append([]Level(nil), levels...)
}

// CharacterByID looks up a character. ok is false for ids outside the catalog.
func CharacterByID(id int) (Character, bool) {
	for _, c := range characters {
		if c.ID == id {
			return c, true
		}
	}
	return Character{}, false
}

// LevelByID looks up a level. ok is false for ids outside the catalog.
func LevelByID(id int) (Level, bool) {
	for _, l := range levels {
		if l.ID == id {
			return l, true
		}
	}
	return Level{}, false
}

// ResolveCharacter returns the character for id, or the first one if unknown.
func ResolveCharacter(id int) (Character, bool) {
	if c, ok := CharacterByID(id); ok {
		return c, true
	}
	return characters[0], false
}

// ResolveLevel returns the level for id, or the first one if unknown.
func ResolveLevel(id int) (Level, bool) {
	if l, ok := LevelByID(id); ok {
		return l, true
	}
	return levels[0], false
}

// ParseID converts a selector value ("2", " 3 ") to an id. Anything that is
// not a plain integer yields 0, which no catalog entry uses.
func ParseID(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}
