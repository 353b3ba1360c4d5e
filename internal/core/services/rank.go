package services

import (
	"sort"
	"strings"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

// Rank scores every chunk against query and returns them sorted by
// descending score.
//
// The score is the number of whitespace-separated, lower-cased query
// keywords that occur anywhere in the lower-cased chunk text, as a
// substring. Duplicate keywords count each time and there is no stopword
// list, so this is a cheap lexical heuristic and not a relevance model.
// Chunks with equal scores keep their input order.
func Rank(query string, chunks []domain.SourcedChunk) []domain.ScoredChunk {
	keywords := strings.Fields(strings.ToLower(query))

	scored := make([]domain.ScoredChunk, len(chunks))
	for i, c := range chunks {
		scored[i] = domain.ScoredChunk{
			SourcedChunk: c,
			Score:        keywordScore(keywords, strings.ToLower(c.Text)),
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	return scored
}

func keywordScore(keywords []string, text string) int {
	score := 0
	for _, k := range keywords {
		if strings.Contains(text, k) {
			score++
		}
	}
	return score
}
