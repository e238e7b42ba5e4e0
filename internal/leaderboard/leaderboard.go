// internal/leaderboard/leaderboard.go
//
// Durable ranked list of finished rounds, kept as one JSON array in a single
// key-value slot.
//
// Rules:
//   - Sorted by score desc, then time asc (stable, so earlier entries win ties).
//   - At most MaxStored entries are kept; DisplayTop are shown.
//   - Storage is best effort: an unreadable slot reads as empty, a malformed
//     entry is skipped on its own, write failures are logged and dropped.
//     Nothing here returns an error.

package leaderboard

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/cartoon-guess/internal/store"
)

const (
	// Key is the storage slot holding the serialized board.
	Key = "cartoon_guess_leaderboard_v1"
	// MaxStored caps the persisted list.
	MaxStored = 50
	// DisplayTop is how many entries are rendered to players.
	DisplayTop = 10
)

// Entry is one finished round. Entries are never mutated after Append.
type Entry struct {
	Name  string    `json:"name"`
	Score int       `json:"score"`
	Time  int       `json:"time"` // elapsed seconds
	When  time.Time `json:"when"`
}

// whenLayouts are the timestamp forms accepted on read, tried in order.
var whenLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// UnmarshalJSON decodes an entry, reading "when" leniently: any ISO-8601
// form in whenLayouts is accepted and anything else becomes the zero time.
func (e *Entry) UnmarshalJSON(b []byte) error {
	var raw struct {
		Name  string          `json:"name"`
		Score int             `json:"score"`
		Time  int             `json:"time"`
		When  json.RawMessage `json:"when"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*e = Entry{Name: raw.Name, Score: raw.Score, Time: raw.Time, When: parseWhen(raw.When)}
	return nil
}

func parseWhen(raw json.RawMessage) time.Time {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil || s == "" {
		return time.Time{}
	}
	for _, layout := range whenLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	log.Debug().Str("when", s).Msg("leaderboard: unparseable timestamp")
	return time.Time{}
}

// Board reads and writes the leaderboard slot.
type Board struct {
	kv  store.KV
	mu  sync.Mutex // serialises read-modify-write in Append
	now func() time.Time
}

// New constructs a Board over kv.
func New(kv store.KV) *Board {
	return &Board{kv: kv, now: time.Now}
}

// Load returns the stored entries in ranked order.
func (b *Board) Load(ctx context.Context) []Entry {
	raw, err := b.kv.Get(ctx, Key)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			log.Warn().Err(err).Msg("leaderboard: read failed")
		}
		return []Entry{}
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		log.Warn().Err(err).Msg("leaderboard: corrupt slot, treating as empty")
		return []Entry{}
	}
	out := make([]Entry, 0, len(items))
	for i, item := range items {
		var e Entry
		if err := json.Unmarshal(item, &e); err != nil {
			log.Warn().Err(err).Int("index", i).Msg("leaderboard: skipping corrupt entry")
			continue
		}
		out = append(out, e)
	}
	return out
}

// Append records e, re-ranks and truncates. A zero When is stamped with now.
func (b *Board) Append(ctx context.Context, e Entry) {
	if e.When.IsZero() {
		e.When = b.now().UTC()
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	table := append(b.Load(ctx), e)
	Rank(table)
	if len(table) > MaxStored {
		table = table[:MaxStored]
	}

	raw, err := json.Marshal(table)
	if err != nil {
		log.Warn().Err(err).Msg("leaderboard: encode failed")
		return
	}
	if err := b.kv.Put(ctx, Key, raw); err != nil {
		log.Warn().Err(err).Msg("leaderboard: write failed")
	}
}

// Clear removes every entry. There is no undo.
func (b *Board) Clear(ctx context.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.kv.Delete(ctx, Key); err != nil {
		log.Warn().Err(err).Msg("leaderboard: clear failed")
	}
}

// Top returns the first n entries. ok is false when the board is empty.
func (b *Board) Top(ctx context.Context, n int) (top []Entry, ok bool) {
	table := b.Load(ctx)
	if len(table) == 0 {
		return []Entry{}, false
	}
	if n >= 0 && n < len(table) {
		table = table[:n]
	}
	return table, true
}

// Rank sorts entries in place: score desc, then time asc.
func Rank(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].Time < entries[j].Time
	})
}
