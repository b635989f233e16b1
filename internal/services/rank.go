package services

import "strings"

// RankWeights holds the relevance tier scores and the fuzzy cutoff. Defaults
// come from config; they are tuning knobs, not constants of the algorithm.
type RankWeights struct {
	Exact          float64
	Prefix         float64
	Substring      float64
	FuzzyThreshold float64
}

// normalizeTerm prepares a raw search term for comparison.
func normalizeTerm(term string) string {
	return strings.ToLower(strings.TrimSpace(term))
}

// rankTitle scores a title against an already-normalized term. The tiers are
// strictly ordered: exact > prefix > substring > trigram similarity. A row
// below the fuzzy cutoff does not qualify at all. An empty term matches
// everything with rank 0, leaving ordering to created_at.
func rankTitle(title, term string, w RankWeights) (float64, bool) {
	if term == "" {
		return 0, true
	}

	lower := strings.ToLower(title)
	switch {
	case lower == term:
		return w.Exact, true
	case strings.HasPrefix(lower, term):
		return w.Prefix, true
	case strings.Contains(lower, term):
		return w.Substring, true
	}

	if sim := trigramSimilarity(lower, term); sim > w.FuzzyThreshold {
		return sim, true
	}
	return 0, false
}

// rankKeywords scores a title by keyword coverage: the fraction of keywords
// that appear as substrings. OR semantics — one hit qualifies the row. No
// keywords at all matches everything.
func rankKeywords(title string, keywords []string) (float64, bool) {
	if len(keywords) == 0 {
		return 0, true
	}
	lower := strings.ToLower(title)
	matched := 0
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			matched++
		}
	}
	if matched == 0 {
		return 0, false
	}
	return float64(matched) / float64(len(keywords)), true
}

// trigramSimilarity returns the ratio of shared trigrams to total distinct
// trigrams of both strings, with pg_trgm-style word padding (two leading
// blanks, one trailing). 1.0 means identical trigram sets, 0 none shared.
func trigramSimilarity(a, b string) float64 {
	ta := trigrams(a)
	tb := trigrams(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}

	shared := 0
	for t := range ta {
		if _, ok := tb[t]; ok {
			shared++
		}
	}
	union := len(ta) + len(tb) - shared
	return float64(shared) / float64(union)
}

func trigrams(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, word := range strings.Fields(s) {
		runes := []rune("  " + word + " ")
		for i := 0; i+3 <= len(runes); i++ {
			set[string(runes[i:i+3])] = struct{}{}
		}
	}
	return set
}
