package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func defaultWeights() RankWeights {
	return RankWeights{Exact: 1.0, Prefix: 0.8, Substring: 0.6, FuzzyThreshold: 0.2}
}

func TestNormalizeTerm(t *testing.T) {
	assert.Equal(t, "buy milk", normalizeTerm("  Buy Milk  "))
	assert.Equal(t, "", normalizeTerm("   "))
}

func TestRankTitleTiers(t *testing.T) {
	w := defaultWeights()

	tests := []struct {
		name      string
		title     string
		term      string
		wantRank  float64
		qualifies bool
	}{
		{"exact", "Buy milk", "buy milk", 1.0, true},
		{"prefix", "Buy milk today", "buy milk", 0.8, true},
		{"substring", "I need to buy milk", "buy milk", 0.6, true},
		{"empty term matches all", "anything", "", 0, true},
		{"unrelated excluded", "water plants", "buy milk", 0, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rank, ok := rankTitle(tc.title, tc.term, w)
			assert.Equal(t, tc.qualifies, ok)
			assert.Equal(t, tc.wantRank, rank)
		})
	}
}

func TestRankTitleFuzzyBand(t *testing.T) {
	w := defaultWeights()

	rank, ok := rankTitle("buy mikl", "buy milk", w)
	assert.True(t, ok)
	assert.Greater(t, rank, w.FuzzyThreshold)
	assert.Less(t, rank, w.Substring)
}

func TestRankKeywords(t *testing.T) {
	rank, ok := rankKeywords("buy fresh milk", []string{"buy", "milk"})
	assert.True(t, ok)
	assert.Equal(t, 1.0, rank)

	rank, ok = rankKeywords("buy bread", []string{"buy", "milk"})
	assert.True(t, ok)
	assert.Equal(t, 0.5, rank)

	_, ok = rankKeywords("walk the dog", []string{"buy", "milk"})
	assert.False(t, ok)

	rank, ok = rankKeywords("anything", nil)
	assert.True(t, ok)
	assert.Zero(t, rank)
}

func TestTrigramSimilarity(t *testing.T) {
	assert.Equal(t, 1.0, trigramSimilarity("milk", "milk"))
	assert.Zero(t, trigramSimilarity("milk", "zzzz"))
	assert.Zero(t, trigramSimilarity("", "milk"))

	// Near-identical strings score high, related ones somewhere in between.
	assert.Greater(t, trigramSimilarity("groceries", "grocerys"), 0.4)
	assert.Greater(t, trigramSimilarity("buy milk", "buy mikl"), trigramSimilarity("buy milk", "sell bread"))
}
