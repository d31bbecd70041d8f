package leaderboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/osse101/TeamkillBot_Go/internal/domain"
)

func names(ranked []Ranked) []string {
	out := make([]string, len(ranked))
	for i, r := range ranked {
		out[i] = r.Name
	}
	return out
}

func TestRank_TieAwareLeaders(t *testing.T) {
	people := []domain.Person{
		{ID: "3", Name: "C", Count: 3},
		{ID: "2", Name: "B", Count: 5},
		{ID: "1", Name: "A", Count: 5},
	}

	ranked := NewRanker(language.Und).Rank(people)

	require.Len(t, ranked, 3)
	assert.Equal(t, []string{"A", "B", "C"}, names(ranked))
	assert.True(t, ranked[0].Leader)
	assert.True(t, ranked[1].Leader)
	assert.False(t, ranked[2].Leader)

	// input untouched
	assert.Equal(t, "C", people[0].Name)
}

func TestRank_LocaleAwareNames(t *testing.T) {
	people := []domain.Person{
		{ID: "1", Name: "Zoe", Count: 1},
		{ID: "2", Name: "Ärger", Count: 1},
		{ID: "3", Name: "anna", Count: 1},
	}

	ranked := NewRanker(language.German).Rank(people)

	assert.Equal(t, []string{"anna", "Ärger", "Zoe"}, names(ranked))
}

func TestRank_Empty(t *testing.T) {
	assert.Empty(t, NewRanker(language.Und).Rank(nil))
}

func TestFingerprint(t *testing.T) {
	board := &domain.Leaderboard{
		Slug: "abc",
		Name: "Squad",
		People: []domain.Person{
			{ID: "1", Name: "A", Count: 5},
		},
	}
	same := &domain.Leaderboard{
		Slug:   "abc",
		Name:   "Squad",
		People: []domain.Person{{ID: "1", Name: "A", Count: 5}},
	}

	fp := Fingerprint(board)
	assert.Len(t, fp, 64)
	assert.Equal(t, fp, Fingerprint(same))

	same.People[0].Count = 6
	assert.NotEqual(t, fp, Fingerprint(same))

	renamed := *board
	renamed.Name = "Other"
	assert.NotEqual(t, fp, Fingerprint(&renamed))

	assert.Equal(t, Fingerprint(&domain.Leaderboard{}), Fingerprint(&domain.Leaderboard{People: []domain.Person{}}))
	assert.Equal(t, "", Fingerprint(nil))
}
