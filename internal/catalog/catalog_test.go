package catalog

import "testing"

func TestLevelsMatchDifficultyTable(t *testing.T) {
	want := []Level{
		{ID: 1, Label: "Easy", Limit: 10, Attempts: 6},
		{ID: 2, Label: "Medium", Limit: 50, Attempts: 7},
		{ID: 3, Label: "Hard", Limit: 100, Attempts: 9},
	}
	got := Levels()
	if len(got) != len(want) {
		t.Fatalf("expected %d levels, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("level %d: expected %+v, got %+v", i, want[i], got[i])
		}
	}
}

func TestCharactersCatalog(t *testing.T) {
	names := []string{"Cat", "Robot", "Panda", "Dino"}
	got := Characters()
	if len(got) != len(names) {
		t.Fatalf("expected %d characters, got %d", len(names), len(got))
	}
	for i, n := range names {
		if got[i].Name != n || got[i].ID != i+1 {
			t.Fatalf("character %d: got %+v", i, got[i])
		}
		if got[i].Glyph == "" || got[i].Flavor == "" {
			t.Fatalf("character %s missing glyph or flavor", n)
		}
	}
}

func TestCatalogCopiesAreIndependent(t *testing.T) {
	ls := Levels()
	ls[0].Limit = 999
	if l, _ := LevelByID(1); l.Limit != 10 {
		t.Fatalf("catalog mutated through copy: %+v", l)
	}
}

func TestResolveFallsBackToFirstEntry(t *testing.T) {
	for _, id := range []int{0, -1, 4, 99} {
		l, ok := ResolveLevel(id)
		if ok || l.ID != 1 {
			t.Fatalf("ResolveLevel(%d) = %+v, %v", id, l, ok)
		}
	}
	for _, id := range []int{0, 5} {
		c, ok := ResolveCharacter(id)
		if ok || c.ID != 1 {
			t.Fatalf("ResolveCharacter(%d) = %+v, %v", id, c, ok)
		}
	}
	if c, ok := ResolveCharacter(4); !ok || c.Name != "Dino" {
		t.Fatalf("ResolveCharacter(4) = %+v, %v", c, ok)
	}
}

func TestParseID(t *testing.T) {
	cases := map[string]int{
		"2":   2,
		" 3 ": 3,
		"":    0,
		"abc": 0,
		"1.5": 0,
	}
	for in, want := range cases {
		if got := ParseID(in); got != want {
			t.Fatalf("ParseID(%q) = %d, want %d", in, got, want)
		}
	}
}
