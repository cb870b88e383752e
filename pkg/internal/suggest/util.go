package suggest

import (
	"sort"

	"github.com/agext/levenshtein"
)

type suggestion struct {
	text  string
	score float64
}

// Names returns the candidates that resemble the given input,
// best match first. Candidates scoring below 0.2 are dropped.
func Names(given string, candidates []string) []string {
	var result []suggestion
	for _, text := range candidates {
		score := Score(given, text)
		if score < 0.2 {
			continue
		}
		result = append(result, suggestion{
			text:  text,
			score: score,
		})
	}
	sortSuggestions(result)
	names := make([]string, 0, len(result))
	for _, s := range result {
		names = append(names, s.text)
	}
	return names
}

func sortSuggestions(s []suggestion) {
	sort.Slice(s, func(i, j int) bool {
		return s[i].score > s[j].score
	})
}

func Score(given, suggestion string) float64 {
	i := len(given)
	if len(suggestion) < i {
		i = len(suggestion)
	}
	return levenshtein.Similarity(given, suggestion[:i], nil)
}
