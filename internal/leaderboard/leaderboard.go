// Package leaderboard orders remote state for display and fingerprints it
// so unchanged boards produce no outbound edits.
package leaderboard

import (
	"encoding/hex"
	"encoding/json"
	"sort"

	"github.com/zeebo/blake3"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/osse101/TeamkillBot_Go/internal/domain"
)

// Ranked is a person in display order.
type Ranked struct {
	domain.Person
	// Leader is true for everyone sharing the top count.
	Leader bool
}

// Ranker orders people by count descending, then by name using the
// collation rules of a language.
type Ranker struct {
	tag language.Tag
}

// NewRanker creates a ranker for the given language. language.Und gives
// the root collation order.
func NewRanker(tag language.Tag) *Ranker {
	return &Ranker{tag: tag}
}

// Rank returns people sorted for display with tie-aware leader flags.
// The input slice is not modified.
func (r *Ranker) Rank(people []domain.Person) []Ranked {
	sorted := make([]domain.Person, len(people))
	copy(sorted, people)

	// Collators keep internal buffers; one per call keeps Rank safe for concurrent use.
	col := collate.New(r.tag)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		if c := col.CompareString(a.Name, b.Name); c != 0 {
			return c < 0
		}
		return a.ID < b.ID
	})

	ranked := make([]Ranked, len(sorted))
	for i, p := range sorted {
		ranked[i] = Ranked{Person: p, Leader: p.Count == sorted[0].Count}
	}
	return ranked
}

type fingerprintDoc struct {
	Name   string          `json:"name"`
	People []domain.Person `json:"people"`
}

// Fingerprint returns a content hash of everything a render depends on.
// Equal boards always produce equal fingerprints.
func Fingerprint(board *domain.Leaderboard) string {
	if board == nil {
		return ""
	}
	people := board.People
	if people == nil {
		people = []domain.Person{}
	}
	raw, err := json.Marshal(fingerprintDoc{Name: board.Name, People: people})
	if err != nil {
		// Person holds only strings and ints; Marshal cannot fail.
		panic(err)
	}
	sum := blake3.Sum256(raw)
	return hex.EncodeToString(sum[:])
}
